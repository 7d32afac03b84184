// slabwatchd is the slab cache trend monitoring daemon.
//
// It samples /proc/slabinfo at a fixed interval and runs a tie-corrected
// Mann-Kendall trend test per cache over three horizons (full run, last
// hour, last 15 minutes), appending one record per cache per cycle to the
// report log. Reading slabinfo requires root.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	appconfig "github.com/xtxerr/slabwatch/config"
	"github.com/xtxerr/slabwatch/internal/archive"
	"github.com/xtxerr/slabwatch/internal/loader"
	"github.com/xtxerr/slabwatch/internal/logging"
	"github.com/xtxerr/slabwatch/internal/monitor"
	"github.com/xtxerr/slabwatch/internal/report"
	"github.com/xtxerr/slabwatch/internal/slabinfo"
)

// Version is set at build time via ldflags
var Version = "dev"

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "usage: %s [options]\n\n", os.Args[0])
	fmt.Fprintf(out, "options:\n")
	fmt.Fprintf(out, "  --delay n, -d n     delay n seconds between updates\n")
	fmt.Fprintf(out, "  --sort S, -s S      specify sort criteria S (see below)\n")
	fmt.Fprintf(out, "  --config FILE       config file path\n")
	fmt.Fprintf(out, "  --log FILE          report log path\n")
	fmt.Fprintf(out, "  --archive-dir DIR   enable the Parquet archive in DIR\n")
	fmt.Fprintf(out, "  --json              JSON daemon log format\n")
	fmt.Fprintf(out, "  --help, -h          display this help and exit\n\n")
	fmt.Fprintf(out, "The following are valid sort criteria:\n")
	fmt.Fprintf(out, "  a: sort by number of active objects\n")
	fmt.Fprintf(out, "  n: sort by name\n")
	fmt.Fprintf(out, "  s: sort by object size\n")
}

func main() {
	var (
		delay      int
		sortKey    string
		cfgPath    string
		logPath    string
		archiveDir string
		jsonLog    bool
		debug      bool
	)

	flag.IntVar(&delay, "delay", appconfig.DefaultDelaySec, "delay seconds between updates")
	flag.IntVar(&delay, "d", appconfig.DefaultDelaySec, "delay seconds between updates")
	flag.StringVar(&sortKey, "sort", appconfig.DefaultSortKey, "sort criteria: a, n or s")
	flag.StringVar(&sortKey, "s", appconfig.DefaultSortKey, "sort criteria: a, n or s")
	flag.StringVar(&cfgPath, "config", "slabwatch.yaml", "config file path")
	flag.StringVar(&logPath, "log", "", "report log path (overrides config)")
	flag.StringVar(&archiveDir, "archive-dir", "", "enable the Parquet archive in this directory")
	flag.BoolVar(&jsonLog, "json", false, "JSON daemon log format")
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	// Load config
	cfg, err := loader.Load(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = loader.DefaultConfig()
		} else {
			fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI overrides: only flags that were actually set beat the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "delay", "d":
			cfg.DelaySec = delay
		case "sort", "s":
			cfg.Sort = sortKey
		case "log":
			cfg.Report.Path = logPath
		case "archive-dir":
			cfg.Archive.Enabled = true
			cfg.Archive.Dir = archiveDir
		case "json":
			cfg.Log.JSON = jsonLog
		}
	})

	level := parseLevel(cfg.Log.Level)
	if debug {
		level = slog.LevelDebug
	}
	logging.Init(level, cfg.Log.JSON)
	log := logging.Component("main")

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log.Info("slabwatchd starting", "version", Version, "delay_sec", cfg.DelaySec)

	// Report log
	rep, err := report.Open(cfg.Report.Path)
	if err != nil {
		log.Error("open report log", "error", err, "path", cfg.Report.Path)
		os.Exit(1)
	}
	defer rep.Close()

	// Optional Parquet archive
	var arc *archive.Archive
	if cfg.Archive.Enabled {
		arc, err = archive.Open(cfg.Archive.Dir)
		if err != nil {
			log.Error("open archive", "error", err, "dir", cfg.Archive.Dir)
			os.Exit(1)
		}
		defer arc.Close()
		log.Info("archive enabled", "dir", cfg.Archive.Dir)
	}

	// Sample source
	source, err := slabinfo.NewProcSource(cfg.Proc)
	if err != nil {
		log.Error("open slabinfo source", "error", err, "proc", cfg.Proc)
		os.Exit(1)
	}

	m := monitor.New(monitor.Config{
		Delay:           cfg.Delay(),
		SortKey:         slabinfo.ParseSortKey(cfg.Sort),
		CriticalValue:   cfg.CriticalValue,
		MidWindow:       appconfig.MidTermWindow,
		ShortWindow:     appconfig.ShortTermWindow,
		MaxHistory:      cfg.History.MaxSamples,
		SummaryAccuracy: cfg.Summary.Accuracy,
	}, source, rep, arc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := m.Run(ctx); err != nil {
		log.Error("monitor stopped", "error", err)
		rep.Close()
		if arc != nil {
			arc.Close()
		}
		os.Exit(1)
	}
}

// parseLevel maps a config string to a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
