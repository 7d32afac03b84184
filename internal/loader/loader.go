// Package loader handles configuration file loading and validation.
//
// This package is responsible for:
//   - Loading the optional YAML configuration file
//   - Expanding environment variables
//   - Applying defaults for missing values
//   - Validating the effective configuration
//
// Command-line flags override file values; that merge happens in main, which
// knows which flags were actually set.
package loader

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/xtxerr/slabwatch/config"
	"github.com/xtxerr/slabwatch/internal/errors"
)

// Config is the full slabwatchd configuration.
type Config struct {
	// DelaySec is the interval between sampling cycles in seconds.
	DelaySec int `yaml:"delay_sec"`

	// Sort is the report sort key: "a" (active objects), "n" (name),
	// "s" (object size). Unrecognized values fall back to "a".
	Sort string `yaml:"sort"`

	// CriticalValue is the Z-score significance threshold.
	CriticalValue float64 `yaml:"critical_value"`

	// Proc is the procfs mount point.
	Proc string `yaml:"proc"`

	Log     LogConfig     `yaml:"log"`
	Report  ReportConfig  `yaml:"report"`
	Archive ArchiveConfig `yaml:"archive"`
	History HistoryConfig `yaml:"history"`
	Summary SummaryConfig `yaml:"summary"`
}

// LogConfig configures the structured daemon log (not the report file).
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `yaml:"level"`

	// JSON switches the daemon log to JSON format.
	JSON bool `yaml:"json"`
}

// ReportConfig configures the delimited trend report log.
type ReportConfig struct {
	// Path of the append-only report file.
	Path string `yaml:"path"`
}

// ArchiveConfig configures the Parquet trend archive.
type ArchiveConfig struct {
	// Enabled turns the archive on.
	Enabled bool `yaml:"enabled"`

	// Dir is the archive directory (one Parquet file per UTC day).
	Dir string `yaml:"dir"`
}

// HistoryConfig configures total-horizon retention.
type HistoryConfig struct {
	// MaxSamples caps the per-cache total history. 0 keeps the full
	// history for the life of the process (the historical behavior).
	MaxSamples int `yaml:"max_samples"`
}

// SummaryConfig configures the per-cycle roll-up.
type SummaryConfig struct {
	// Accuracy is the DDSketch relative accuracy for the active-bytes
	// distribution.
	Accuracy float64 `yaml:"accuracy"`
}

// DefaultConfig returns a config populated with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		DelaySec:      config.DefaultDelaySec,
		Sort:          config.DefaultSortKey,
		CriticalValue: config.DefaultCriticalValue,
		Proc:          config.DefaultProcMount,
		Log: LogConfig{
			Level: "info",
		},
		Report: ReportConfig{
			Path: config.DefaultReportPath,
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Dir:     config.DefaultArchiveDir,
		},
		History: HistoryConfig{
			MaxSamples: config.DefaultMaxHistory,
		},
		Summary: SummaryConfig{
			Accuracy: config.DefaultPercentileAccuracy,
		},
	}
}

// Load loads configuration from a YAML file, starting from the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Delay returns the cycle interval as a duration.
func (c *Config) Delay() time.Duration {
	return time.Duration(c.DelaySec) * time.Second
}

// Validate checks the effective configuration. A negative delay is the
// historically fatal condition; everything else follows from it.
func (c *Config) Validate() error {
	v := errors.NewValidationErrors()

	if c.DelaySec < 0 {
		v.Add(errors.Wrapf(errors.ErrInvalidDelay, "%d", c.DelaySec))
	}
	if c.CriticalValue <= 0 {
		v.Add(errors.NewInvalidValue("critical_value", c.CriticalValue, "must be positive"))
	}
	if c.History.MaxSamples < 0 {
		v.Add(errors.NewInvalidValue("history.max_samples", c.History.MaxSamples, "must be >= 0"))
	}
	if c.Summary.Accuracy <= 0 || c.Summary.Accuracy >= 1 {
		v.Add(errors.NewInvalidValue("summary.accuracy", c.Summary.Accuracy, "must be in (0, 1)"))
	}
	if c.Report.Path == "" {
		v.Add(errors.NewMissingField("report.path"))
	}
	if c.Archive.Enabled && c.Archive.Dir == "" {
		v.Add(errors.NewMissingField("archive.dir"))
	}

	return v.Err()
}
