// Package config provides configuration defaults and utilities
// for the slabwatch application.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via config.yaml or command-line flags.
package config

import "time"

// =============================================================================
// Sampling Defaults
// =============================================================================

const (
	// DefaultDelaySec is the interval between sampling cycles in seconds.
	// Override via flag: --delay / -d, or config: delay_sec
	DefaultDelaySec = 30

	// DefaultProcMount is the procfs mount point the slabinfo source reads from.
	// Override via config: proc
	DefaultProcMount = "/proc"

	// DefaultSortKey is the sort key for the per-cycle report order.
	// "a" = active objects (descending), "n" = name, "s" = object size.
	// The order is cosmetic and does not affect any statistic.
	// Override via flag: --sort / -s, or config: sort
	DefaultSortKey = "a"
)

// =============================================================================
// Trend Engine Defaults
// =============================================================================

const (
	// MidTermWindow is the mid-term retention horizon.
	// Samples older than this are retired from the mid-term histogram
	// but kept in the unbounded total history.
	MidTermWindow = 3600 * time.Second

	// ShortTermWindow is the short-term retention horizon.
	ShortTermWindow = 900 * time.Second

	// DefaultCriticalValue is the Z-score threshold above which a monotonic
	// increase is declared significant (two-sided 95% for a normal Z).
	// Override via config: critical_value
	DefaultCriticalValue = 1.96

	// DefaultMaxHistory caps the number of total-horizon samples kept per
	// cache. 0 keeps the full history for the life of the process, which is
	// the historical behavior; memory then grows without bound.
	// Override via config: history.max_samples
	DefaultMaxHistory = 0
)

// =============================================================================
// Output Defaults
// =============================================================================

const (
	// DefaultReportPath is the append-only trend report log.
	// Override via flag: --log, or config: report.path
	DefaultReportPath = "SLABLog.txt"

	// DefaultArchiveDir is the directory for the Parquet trend archive.
	// Override via flag: --archive-dir, or config: archive.dir
	DefaultArchiveDir = "slabwatch-archive"

	// DefaultPercentileAccuracy is the DDSketch relative accuracy used for
	// the per-cycle active-bytes distribution summary (0.01 = 1% error).
	// Override via config: summary.accuracy
	DefaultPercentileAccuracy = 0.01
)
