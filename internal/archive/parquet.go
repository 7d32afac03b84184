// Package archive persists per-cycle trend records as Parquet files for
// offline analysis, and provides DuckDB queries over them for the
// inspector. The archive is best-effort: the delimited report log remains
// the contract output, and archive failures never stop the monitor loop.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/xtxerr/slabwatch/internal/errors"
	"github.com/xtxerr/slabwatch/internal/report"
	"github.com/xtxerr/slabwatch/internal/trend"
)

// Row is one per-cache trend record in Parquet form.
type Row struct {
	Timestamp   int64   `parquet:"timestamp"`
	Name        string  `parquet:"name,zstd"`
	ActiveObjs  int64   `parquet:"active_objs"`
	ObjSize     int64   `parquet:"obj_size"`
	ActiveBytes float64 `parquet:"active_bytes"`

	STotal        int64   `parquet:"s_total"`
	NTotal        int64   `parquet:"n_total"`
	VarTotal      float64 `parquet:"var_total"`
	ZTotal        float64 `parquet:"z_total"`
	IncTotal      bool    `parquet:"inc_total"`
	DecTotal      bool    `parquet:"dec_total"`

	SMid   int64   `parquet:"s_mid"`
	NMid   int64   `parquet:"n_mid"`
	VarMid float64 `parquet:"var_mid"`
	ZMid   float64 `parquet:"z_mid"`
	IncMid bool    `parquet:"inc_mid"`
	DecMid bool    `parquet:"dec_mid"`

	SShort   int64   `parquet:"s_short"`
	NShort   int64   `parquet:"n_short"`
	VarShort float64 `parquet:"var_short"`
	ZShort   float64 `parquet:"z_short"`
	IncShort bool    `parquet:"inc_short"`
	DecShort bool    `parquet:"dec_short"`
}

// RecordToRow converts a report record to its Parquet form.
func RecordToRow(rec report.Record) Row {
	row := Row{
		Timestamp:   int64(rec.Timestamp),
		Name:        rec.Name,
		ActiveObjs:  int64(rec.ActiveObjs),
		ObjSize:     int64(rec.ObjSize),
		ActiveBytes: float64(rec.ActiveObjs) * float64(rec.ObjSize),
	}
	setHorizon(&row, trend.HorizonTotal, rec.Total)
	setHorizon(&row, trend.HorizonMid, rec.Mid)
	setHorizon(&row, trend.HorizonShort, rec.Short)
	return row
}

func setHorizon(row *Row, h trend.Horizon, res trend.Result) {
	switch h {
	case trend.HorizonMid:
		row.SMid, row.NMid = res.S, int64(res.N)
		row.VarMid, row.ZMid = res.Variance, res.Z
		row.IncMid, row.DecMid = res.Increasing, res.Decreasing
	case trend.HorizonShort:
		row.SShort, row.NShort = res.S, int64(res.N)
		row.VarShort, row.ZShort = res.Variance, res.Z
		row.IncShort, row.DecShort = res.Increasing, res.Decreasing
	default:
		row.STotal, row.NTotal = res.S, int64(res.N)
		row.VarTotal, row.ZTotal = res.Variance, res.Z
		row.IncTotal, row.DecTotal = res.Increasing, res.Decreasing
	}
}

// Archive appends rows to one Parquet file per UTC day, rolling at the day
// boundary.
type Archive struct {
	mu sync.Mutex

	dir    string
	day    string
	file   *os.File
	writer *parquet.GenericWriter[Row]
	rows   int64
	closed bool
}

// Open creates the archive directory if needed and returns an archive.
// The first file is created lazily on the first Append.
func Open(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// Append writes one cycle's rows. now selects the day file; cycles that
// straddle midnight roll to a new file.
func (a *Archive) Append(now time.Time, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return errors.ErrWriterClosed
	}

	day := now.UTC().Format("2006-01-02")
	if a.writer == nil || day != a.day {
		if err := a.rollLocked(day); err != nil {
			return err
		}
	}

	n, err := a.writer.Write(rows)
	if err != nil {
		return errors.Wrapf(errors.ErrArchiveWrite, "write rows: %v", err)
	}
	a.rows += int64(n)

	// Flush the current row group so readers (and DuckDB) see data without
	// waiting for the daily roll.
	if err := a.writer.Flush(); err != nil {
		return errors.Wrapf(errors.ErrArchiveWrite, "flush: %v", err)
	}
	return nil
}

// rollLocked closes the current day file and opens the next one.
func (a *Archive) rollLocked(day string) error {
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			a.file.Close()
			return errors.Wrapf(errors.ErrArchiveWrite, "close writer: %v", err)
		}
		if err := a.file.Close(); err != nil {
			return errors.Wrapf(errors.ErrArchiveWrite, "close file: %v", err)
		}
	}

	path := filepath.Join(a.dir, day+".parquet")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrArchiveWrite, "create %s: %v", path, err)
	}

	a.file = f
	a.writer = parquet.NewGenericWriter[Row](f, parquet.Compression(&parquet.Zstd))
	a.day = day
	return nil
}

// RowCount returns the number of rows written since Open.
func (a *Archive) RowCount() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rows
}

// Dir returns the archive directory.
func (a *Archive) Dir() string {
	return a.dir
}

// Close closes the current day file.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	if a.writer == nil {
		return nil
	}
	if err := a.writer.Close(); err != nil {
		a.file.Close()
		return errors.Wrapf(errors.ErrArchiveWrite, "close writer: %v", err)
	}
	return a.file.Close()
}
