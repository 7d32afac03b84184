// Package logging provides structured logging for the slabwatch application.
//
// This package wraps the standard library's log/slog package to provide
// consistent logging across all components. It supports both text and JSON
// output formats, configurable log levels, and component-based loggers.
//
// Usage:
//
//	// Initialize at startup
//	logging.Init(slog.LevelInfo, false) // Text format
//	logging.Init(slog.LevelDebug, true) // JSON format for production
//
//	// Get a component logger
//	log := logging.Component("monitor")
//	log.Info("cycle complete", "caches", n)
//
//	// Log with context
//	log.Error("collection failed", "error", err)
package logging

import (
	"context"
	"log/slog"
	"os"
)

// Logger is the global logger instance.
var Logger *slog.Logger

// Init initializes the global logger with the specified level and format.
// If jsonFormat is true, logs are output as JSON; otherwise, human-readable text.
// The daemon logs to stderr so stdout stays free for inspection output.
func Init(level slog.Level, jsonFormat bool) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if jsonFormat {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// InitWithHandler initializes the global logger with a custom handler.
// This is useful for testing or custom output destinations.
func InitWithHandler(handler slog.Handler) {
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// With returns a new logger with additional attributes.
// These attributes are included in every log entry from the returned logger.
func With(args ...any) *slog.Logger {
	if Logger == nil {
		Init(slog.LevelInfo, false)
	}
	return Logger.With(args...)
}

// Component returns a logger for a specific component.
// The component name is added as an attribute to all log entries.
//
// Example:
//
//	log := logging.Component("monitor")
//	log.Info("started") // Output: time=... level=INFO component=monitor msg=started
func Component(name string) *slog.Logger {
	if Logger == nil {
		Init(slog.LevelInfo, false)
	}
	return Logger.With("component", name)
}

// WithContext returns a logger that includes context values.
// This is useful for cycle-scoped logging in the monitor loop.
func WithContext(ctx context.Context) *slog.Logger {
	if Logger == nil {
		Init(slog.LevelInfo, false)
	}

	// Extract common context values if present
	logger := Logger

	if cycle, ok := ctx.Value(contextKeyCycle).(int64); ok {
		logger = logger.With("cycle", cycle)
	}
	if cache, ok := ctx.Value(contextKeyCache).(string); ok {
		logger = logger.With("cache", cache)
	}

	return logger
}

// Context key types for type-safe context value extraction.
type contextKey int

const (
	contextKeyCycle contextKey = iota
	contextKeyCache
)

// ContextWithCycle adds the current cycle number to the context for logging.
func ContextWithCycle(ctx context.Context, cycle int64) context.Context {
	return context.WithValue(ctx, contextKeyCycle, cycle)
}

// ContextWithCache adds a cache name to the context for logging.
func ContextWithCache(ctx context.Context, cache string) context.Context {
	return context.WithValue(ctx, contextKeyCache, cache)
}

// =============================================================================
// Convenience Functions
// =============================================================================

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	if Logger == nil {
		Init(slog.LevelInfo, false)
	}
	Logger.Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	if Logger == nil {
		Init(slog.LevelInfo, false)
	}
	Logger.Info(msg, args...)
}

// Warn logs at warning level.
func Warn(msg string, args ...any) {
	if Logger == nil {
		Init(slog.LevelInfo, false)
	}
	Logger.Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	if Logger == nil {
		Init(slog.LevelInfo, false)
	}
	Logger.Error(msg, args...)
}
