// Package errors consolidates error definitions for the slabwatch project.
//
// This file provides:
// - Sentinel errors for all error conditions
// - Error category checking functions
// - Error wrapping utilities
package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel errors for common conditions
// ============================================================================

var (
	// Collection errors. A failed slabinfo read is fatal to the run: the
	// monitor loop stops and the process must be restarted externally.
	ErrCollectionFailed = errors.New("slabinfo collection failed")

	// Configuration errors, fatal at startup.
	ErrInvalidDelay  = errors.New("invalid delay")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingField  = errors.New("missing required field")

	// Output errors.
	ErrLogWrite     = errors.New("report log write failed")
	ErrArchiveWrite = errors.New("archive write failed")

	// Archive query errors.
	ErrCacheNotFound = errors.New("cache not found in archive")
	ErrQueryFailed   = errors.New("archive query failed")

	// State errors.
	ErrWriterClosed = errors.New("writer is closed")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// IsFatal returns true if err must stop the monitor loop.
// All collection and report-log failures are fatal; there is no retry.
func IsFatal(err error) bool {
	return errors.Is(err, ErrCollectionFailed) ||
		errors.Is(err, ErrLogWrite)
}

// IsValidation returns true if err is a configuration validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidDelay) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingField)
}

// ============================================================================
// Error wrapping utilities
// ============================================================================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ============================================================================
// Error constructors with context
// ============================================================================

// NewValidation creates a validation error with context.
func NewValidation(field, reason string) error {
	return fmt.Errorf("invalid %s: %s: %w", field, reason, ErrInvalidConfig)
}

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return fmt.Errorf("%s: %w", field, ErrMissingField)
}

// NewInvalidValue creates an invalid value error.
func NewInvalidValue(field string, value interface{}, reason string) error {
	return fmt.Errorf("invalid %s '%v': %s: %w", field, value, reason, ErrInvalidConfig)
}

// ============================================================================
// Validation Errors Collection
// ============================================================================

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []error
}

// NewValidationErrors creates a new ValidationErrors collector.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

// Add adds an error to the collection.
func (v *ValidationErrors) Add(err error) {
	if err != nil {
		v.Errors = append(v.Errors, err)
	}
}

// AddField adds a field validation error.
func (v *ValidationErrors) AddField(field, reason string) {
	v.Errors = append(v.Errors, NewValidation(field, reason))
}

// HasErrors returns true if there are any errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}
	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}

	msg := fmt.Sprintf("validation failed with %d errors:", len(v.Errors))
	for _, err := range v.Errors {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Err returns nil if no errors, otherwise returns the ValidationErrors.
func (v *ValidationErrors) Err() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v
}

// Unwrap returns the first error for errors.Is/As support.
func (v *ValidationErrors) Unwrap() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v.Errors[0]
}
