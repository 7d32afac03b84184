package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xtxerr/slabwatch/config"
	"github.com/xtxerr/slabwatch/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slabwatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DelaySec != config.DefaultDelaySec {
		t.Errorf("DelaySec = %d, want %d", cfg.DelaySec, config.DefaultDelaySec)
	}
	if cfg.Sort != config.DefaultSortKey {
		t.Errorf("Sort = %q, want %q", cfg.Sort, config.DefaultSortKey)
	}
	if cfg.CriticalValue != config.DefaultCriticalValue {
		t.Errorf("CriticalValue = %v, want %v", cfg.CriticalValue, config.DefaultCriticalValue)
	}
	if cfg.Report.Path != config.DefaultReportPath {
		t.Errorf("Report.Path = %q, want %q", cfg.Report.Path, config.DefaultReportPath)
	}
	if cfg.Archive.Enabled {
		t.Error("archive enabled by default")
	}
	if cfg.History.MaxSamples != 0 {
		t.Errorf("History.MaxSamples = %d, want 0 (unbounded)", cfg.History.MaxSamples)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
delay_sec: 10
sort: n
critical_value: 2.58
report:
  path: /tmp/trends.txt
archive:
  enabled: true
  dir: /tmp/archive
history:
  max_samples: 5000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DelaySec != 10 {
		t.Errorf("DelaySec = %d, want 10", cfg.DelaySec)
	}
	if cfg.Delay() != 10*time.Second {
		t.Errorf("Delay() = %v, want 10s", cfg.Delay())
	}
	if cfg.Sort != "n" {
		t.Errorf("Sort = %q, want %q", cfg.Sort, "n")
	}
	if cfg.CriticalValue != 2.58 {
		t.Errorf("CriticalValue = %v, want 2.58", cfg.CriticalValue)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Dir != "/tmp/archive" {
		t.Errorf("Archive = %+v, want enabled at /tmp/archive", cfg.Archive)
	}
	if cfg.History.MaxSamples != 5000 {
		t.Errorf("History.MaxSamples = %d, want 5000", cfg.History.MaxSamples)
	}

	// Unset fields keep their defaults.
	if cfg.Proc != config.DefaultProcMount {
		t.Errorf("Proc = %q, want default %q", cfg.Proc, config.DefaultProcMount)
	}
	if cfg.Summary.Accuracy != config.DefaultPercentileAccuracy {
		t.Errorf("Summary.Accuracy = %v, want default", cfg.Summary.Accuracy)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("SLABWATCH_REPORT", "/var/log/slabwatch/trends.txt")
	path := writeConfig(t, `
report:
  path: ${SLABWATCH_REPORT}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Report.Path != "/var/log/slabwatch/trends.txt" {
		t.Errorf("Report.Path = %q, env var not expanded", cfg.Report.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Load succeeded on missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped not-exist", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "delay_sec: [not an int\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded on malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error // sentinel, nil means any validation error
	}{
		{
			name:   "negative delay",
			mutate: func(c *Config) { c.DelaySec = -1 },
			want:   errors.ErrInvalidDelay,
		},
		{
			name:   "zero critical value",
			mutate: func(c *Config) { c.CriticalValue = 0 },
			want:   errors.ErrInvalidConfig,
		},
		{
			name:   "negative history cap",
			mutate: func(c *Config) { c.History.MaxSamples = -10 },
			want:   errors.ErrInvalidConfig,
		},
		{
			name:   "accuracy too large",
			mutate: func(c *Config) { c.Summary.Accuracy = 1.5 },
			want:   errors.ErrInvalidConfig,
		},
		{
			name:   "empty report path",
			mutate: func(c *Config) { c.Report.Path = "" },
			want:   errors.ErrMissingField,
		},
		{
			name: "archive without dir",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Dir = ""
			},
			want: errors.ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate passed, want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if !errors.IsValidation(err) {
				t.Errorf("IsValidation(%v) = false", err)
			}
		})
	}
}

func TestValidateZeroDelayAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DelaySec = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero delay rejected: %v", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DelaySec = -5
	cfg.CriticalValue = -1
	cfg.Report.Path = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate passed, want errors")
	}
	var v *errors.ValidationErrors
	if !errors.As(err, &v) {
		t.Fatalf("error type = %T, want *ValidationErrors", err)
	}
	if len(v.Errors) != 3 {
		t.Errorf("collected %d errors, want 3: %v", len(v.Errors), v)
	}
}
