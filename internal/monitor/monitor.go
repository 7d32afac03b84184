// Package monitor drives the sampling cycle: snapshot the slab caches,
// update every cache's retention state, recompute the Mann-Kendall
// statistics, and emit one report record per cache.
package monitor

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xtxerr/slabwatch/internal/archive"
	"github.com/xtxerr/slabwatch/internal/logging"
	"github.com/xtxerr/slabwatch/internal/report"
	"github.com/xtxerr/slabwatch/internal/slabinfo"
	"github.com/xtxerr/slabwatch/internal/summary"
	"github.com/xtxerr/slabwatch/internal/trend"
)

var log = logging.Component("monitor")

// Config holds the monitor's effective settings.
type Config struct {
	// Delay is the interval between cycles.
	Delay time.Duration

	// SortKey orders the per-cycle report output. Cosmetic only.
	SortKey slabinfo.SortKey

	// CriticalValue is the Z-score significance threshold.
	CriticalValue float64

	// MidWindow and ShortWindow are the bounded retention horizons.
	MidWindow   time.Duration
	ShortWindow time.Duration

	// MaxHistory caps the per-cache total history; 0 means unbounded.
	MaxHistory int

	// SummaryAccuracy is the DDSketch accuracy for the cycle summary.
	SummaryAccuracy float64
}

// Monitor owns the entity registry and runs the cycle loop.
//
// One cycle runs to completion before the next begins. The registry has a
// single writer (the retention phase below); the statistic phase fans out
// across entities because they share no state, and produces the same results
// as a sequential pass.
type Monitor struct {
	cfg      Config
	source   slabinfo.Source
	registry *trend.Registry
	engine   *trend.Engine
	report   *report.Writer
	archive  *archive.Archive // nil when the archive is disabled

	cycle int64
}

// New creates a monitor. arc may be nil.
func New(cfg Config, source slabinfo.Source, rep *report.Writer, arc *archive.Archive) *Monitor {
	return &Monitor{
		cfg:      cfg,
		source:   source,
		registry: trend.NewRegistry(cfg.MidWindow, cfg.ShortWindow, cfg.MaxHistory),
		engine:   trend.NewEngine(cfg.CriticalValue),
		report:   rep,
		archive:  arc,
	}
}

// Registry exposes the entity registry, mainly for tests.
func (m *Monitor) Registry() *trend.Registry {
	return m.registry
}

// Cycle returns the number of completed cycles.
func (m *Monitor) Cycle() int64 {
	return m.cycle
}

// Run executes cycles separated by the configured delay until the context
// is cancelled or a cycle fails. A collection or report-log failure stops
// the loop; there is no retry.
func (m *Monitor) Run(ctx context.Context) error {
	log.Info("monitor started",
		"delay", m.cfg.Delay,
		"sort", m.cfg.SortKey.String(),
		"critical_value", m.cfg.CriticalValue,
		"archive", m.archive != nil)

	for {
		if err := m.RunCycle(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			log.Info("monitor stopped", "cycles", m.cycle)
			return nil
		case <-time.After(m.cfg.Delay):
		}
	}
}

// RunCycle executes a single cycle: collect, sort, update retention,
// compute statistics, emit.
//
// The cycle timestamp is cycle × delay in seconds, so sample ages are
// measured against the sampling clock rather than the wall clock.
func (m *Monitor) RunCycle(ctx context.Context) error {
	stats, err := m.source.Snapshot()
	if err != nil {
		log.Error("slabinfo collection failed", "error", err)
		return err
	}

	slabinfo.Sort(stats, m.cfg.SortKey)

	now := float64(m.cycle) * m.cfg.Delay.Seconds()

	// Retention phase: sequential, single writer of the registry.
	entities := make([]*trend.Entity, len(stats))
	for i, cs := range stats {
		e := m.registry.Lookup(cs.Name)
		e.Observe(now, cs.ActiveBytes())
		entities[i] = e
	}

	// Statistic phase: per-entity, no shared state, safe to fan out.
	reports := make([]trend.Report, len(stats))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range entities {
		g.Go(func() error {
			reports[i] = m.engine.Compute(entities[i], now)
			return nil
		})
	}
	g.Wait()

	// Emission phase: report log (fatal on failure), then archive and
	// summary (best effort).
	builder, berr := summary.NewBuilder(m.cfg.SummaryAccuracy)
	if berr != nil {
		log.Warn("summary disabled", "error", berr)
		builder = nil
	}

	rows := make([]archive.Row, 0, len(stats))
	for i, cs := range stats {
		rec := report.Record{
			Timestamp:  now,
			ActiveObjs: cs.ActiveObjs,
			ObjSize:    cs.ObjSize,
			Name:       cs.Name,
			Total:      reports[i].Total,
			Mid:        reports[i].Mid,
			Short:      reports[i].Short,
		}
		if err := m.report.WriteRecord(rec); err != nil {
			log.Error("report write failed", "error", err, "cache", cs.Name)
			return err
		}

		if builder != nil {
			builder.Add(cs.ActiveBytes(), reports[i])
		}
		if m.archive != nil {
			rows = append(rows, archive.RecordToRow(rec))
		}

		if reports[i].Short.Increasing {
			log.Warn("increasing memory trend",
				"cache", cs.Name,
				"active_bytes", cs.ActiveBytes(),
				"z_short", reports[i].Short.Z,
				"n_short", reports[i].Short.N)
		}
	}

	if err := m.report.EndCycle(); err != nil {
		log.Error("report flush failed", "error", err)
		return err
	}

	if m.archive != nil {
		if err := m.archive.Append(time.Now(), rows); err != nil {
			log.Warn("archive append failed", "error", err)
		}
	}

	if builder != nil {
		s := builder.Build(m.cycle)
		log.Info("cycle complete", s.LogArgs()...)
	}

	m.cycle++
	return nil
}
