// Package errors provides error handling for qcfilter.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Marking, so a stage-level sentinel can be attached to a lower-level cause
//   - User-facing hints
//
// Usage:
//
//	// Create a stage sentinel
//	var ErrInvalidRate = errors.New("invalid decimation rate")
//
//	// Attach it to the lower-level cause, keeping both matchable
//	return errors.Mark(errors.Wrapf(cause, "rate %q", text), ErrInvalidRate)
//
//	// Add hints for users
//	return errors.WithHint(err, "expected an integer or a duration such as \"10 min\"")
//
//	// Check errors
//	if errors.Is(err, processing.ErrInvalidItem) {
//	    // handle bad operand
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Common sentinel errors shared by the store, config and CLI layers.
// Parse stages declare their own sentinels next to the parser.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidInput indicates user supplied text could not be interpreted
	ErrInvalidInput = New("invalid input")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidInputError checks if an error is or wraps ErrInvalidInput.
func IsInvalidInputError(err error) bool {
	return err != nil && Is(err, ErrInvalidInput)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}

// Hints returns the de-duplicated hints attached anywhere in err's chain.
func Hints(err error) []string {
	if err == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, h := range GetAllHints(err) {
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}
