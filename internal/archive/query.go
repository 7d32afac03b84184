package archive

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/xtxerr/slabwatch/internal/errors"
)

// Query provides read-only DuckDB queries over the archived Parquet files.
// It is used by the slabwatch inspector, never by the daemon itself.
type Query struct {
	db  *sql.DB
	dir string
}

// OpenQuery opens an in-memory DuckDB instance over the archive directory.
func OpenQuery(dir string) (*Query, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &Query{db: db, dir: dir}, nil
}

// Close closes the query engine.
func (q *Query) Close() error {
	return q.db.Close()
}

func (q *Query) pattern() string {
	return filepath.Join(q.dir, "*.parquet")
}

// Grower is one cache's latest-cycle standing, ordered by short-term Z.
type Grower struct {
	Name        string
	ActiveBytes float64
	ZTotal      float64
	ZMid        float64
	ZShort      float64
	Increasing  bool
}

// TopGrowers returns the caches with the highest short-term Z-score as of
// the most recent archived cycle.
func (q *Query) TopGrowers(ctx context.Context, limit int) ([]Grower, error) {
	query := `
		SELECT name, active_bytes, z_total, z_mid, z_short, inc_short
		FROM read_parquet($1)
		WHERE timestamp = (SELECT max(timestamp) FROM read_parquet($1))
		ORDER BY z_short DESC
		LIMIT $2
	`

	rows, err := q.db.QueryContext(ctx, query, q.pattern(), limit)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrQueryFailed, "top growers: %v", err)
	}
	defer rows.Close()

	var out []Grower
	for rows.Next() {
		var g Grower
		if err := rows.Scan(&g.Name, &g.ActiveBytes, &g.ZTotal, &g.ZMid, &g.ZShort, &g.Increasing); err != nil {
			return nil, errors.Wrapf(errors.ErrQueryFailed, "scan: %v", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// HistoryPoint is one archived cycle of one cache.
type HistoryPoint struct {
	Timestamp   int64
	ActiveBytes float64
	ZTotal      float64
	ZMid        float64
	ZShort      float64
	Increasing  bool
}

// History returns the most recent archived cycles for one cache, oldest
// first.
func (q *Query) History(ctx context.Context, name string, limit int) ([]HistoryPoint, error) {
	query := `
		SELECT timestamp, active_bytes, z_total, z_mid, z_short, inc_short
		FROM (
			SELECT timestamp, active_bytes, z_total, z_mid, z_short, inc_short
			FROM read_parquet($1)
			WHERE name = $2
			ORDER BY timestamp DESC
			LIMIT $3
		)
		ORDER BY timestamp
	`

	rows, err := q.db.QueryContext(ctx, query, q.pattern(), name, limit)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrQueryFailed, "history: %v", err)
	}
	defer rows.Close()

	var out []HistoryPoint
	for rows.Next() {
		var p HistoryPoint
		if err := rows.Scan(&p.Timestamp, &p.ActiveBytes, &p.ZTotal, &p.ZMid, &p.ZShort, &p.Increasing); err != nil {
			return nil, errors.Wrapf(errors.ErrQueryFailed, "scan: %v", err)
		}
		out = append(out, p)
	}
	if len(out) == 0 && rows.Err() == nil {
		return nil, errors.Wrapf(errors.ErrCacheNotFound, "%s", name)
	}
	return out, rows.Err()
}

// Flip is one change of a cache's short-term trend flag between two
// consecutive archived cycles.
type Flip struct {
	Name      string
	Timestamp int64
	Now       bool
}

// TrendFlips returns the most recent short-term trend flag changes,
// newest first.
func (q *Query) TrendFlips(ctx context.Context, limit int) ([]Flip, error) {
	query := `
		SELECT name, timestamp, inc_short
		FROM (
			SELECT name, timestamp, inc_short,
			       lag(inc_short) OVER (PARTITION BY name ORDER BY timestamp) AS prev
			FROM read_parquet($1)
		)
		WHERE prev IS NOT NULL AND inc_short <> prev
		ORDER BY timestamp DESC
		LIMIT $2
	`

	rows, err := q.db.QueryContext(ctx, query, q.pattern(), limit)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrQueryFailed, "trend flips: %v", err)
	}
	defer rows.Close()

	var out []Flip
	for rows.Next() {
		var f Flip
		if err := rows.Scan(&f.Name, &f.Timestamp, &f.Now); err != nil {
			return nil, errors.Wrapf(errors.ErrQueryFailed, "scan: %v", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
