// Package report writes the append-only delimited trend log.
//
// The format is fixed: one header line per process start, then one
// semicolon-separated record per cache per cycle, and a cycle terminator
// line. Each horizon contributes S, n, variance, both variance parts, Z and
// the YES/NO increasing-trend flag, in that order.
package report

import (
	"bufio"
	"fmt"
	"os"

	"github.com/xtxerr/slabwatch/internal/errors"
	"github.com/xtxerr/slabwatch/internal/trend"
)

// header is written once at every process start.
const header = "TIMESTAMP;ACTIVEOBJS;OBJSIZE;SLAB NAME;" +
	"ACT;CT;VT;FVT;SVT;ZT;TRENDTOTAL;" +
	"ACM;CM;VM;FVM;SVM;ZM;TRENDMIDTERM;" +
	"ACS;CS;VS;FVS;SVS;ZS;TRENDSHORTTERM"

// cycleEnd terminates every cycle's block of records.
const cycleEnd = "----ENDED----"

// Record is one cache's output line for one cycle.
type Record struct {
	Timestamp  float64
	ActiveObjs uint64
	ObjSize    uint64
	Name       string

	Total trend.Result
	Mid   trend.Result
	Short trend.Result
}

// Writer appends records to the trend log. It is used by a single goroutine
// (the cycle driver) and carries no lock.
type Writer struct {
	path   string
	file   *os.File
	buf    *bufio.Writer
	closed bool
}

// Open opens (or creates) the log at path in append mode and writes the
// header line.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrLogWrite, "open %s: %v", path, err)
	}

	w := &Writer{
		path: path,
		file: f,
		buf:  bufio.NewWriter(f),
	}

	if _, err := fmt.Fprintln(w.buf, header); err != nil {
		f.Close()
		return nil, errors.Wrapf(errors.ErrLogWrite, "write header: %v", err)
	}
	return w, nil
}

// WriteRecord appends one record line.
func (w *Writer) WriteRecord(r Record) error {
	if w.closed {
		return errors.ErrWriterClosed
	}

	_, err := fmt.Fprintf(w.buf, "%d;%6d;%6d;%-23s;%s;%s;%s\n",
		int64(r.Timestamp), r.ActiveObjs, r.ObjSize, r.Name,
		horizonFields(r.Total), horizonFields(r.Mid), horizonFields(r.Short))
	if err != nil {
		return errors.Wrapf(errors.ErrLogWrite, "write record: %v", err)
	}
	return nil
}

// horizonFields renders one horizon's seven fields.
func horizonFields(res trend.Result) string {
	return fmt.Sprintf("%d;%d;%f;%e;%e;%f;%-10s",
		res.S, res.N, res.Variance,
		res.FirstPartVariance, res.SecondPartVariance,
		res.Z, res.Flag())
}

// EndCycle writes the cycle terminator and flushes the buffer, so a kill
// between cycles loses at most the current cycle's records.
func (w *Writer) EndCycle() error {
	if w.closed {
		return errors.ErrWriterClosed
	}
	if _, err := fmt.Fprintln(w.buf, cycleEnd); err != nil {
		return errors.Wrapf(errors.ErrLogWrite, "write cycle end: %v", err)
	}
	if err := w.buf.Flush(); err != nil {
		return errors.Wrapf(errors.ErrLogWrite, "flush: %v", err)
	}
	return nil
}

// Path returns the log file path.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes and closes the log.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return errors.Wrapf(errors.ErrLogWrite, "flush: %v", err)
	}
	return w.file.Close()
}
