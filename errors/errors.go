// Package errors provides error handling for alman.
//
// This package re-exports github.com/cockroachdb/errors so that every
// package gets stack traces, wrapping and user-facing hints from one import:
//
//	if err := backend.Save(snap); err != nil {
//	    return errors.Wrap(err, "failed to save command database")
//	}
//
//	return errors.WithHint(err, "run `alman config where` to see which files are read")
//
// Sentinels below are compared with errors.Is and survive wrapping.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
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
	WithHint         = crdb.WithHint
	WithHintf        = crdb.WithHintf
	WithDetail       = crdb.WithDetail
	WithDetailf      = crdb.WithDetailf
	GetAllHints      = crdb.GetAllHints
	GetAllDetails    = crdb.GetAllDetails
	FlattenHints     = crdb.FlattenHints
	CombineErrors    = crdb.CombineErrors
	GetStack         = crdb.GetReportableStackTrace
	AssertionFailedf = crdb.AssertionFailedf
)

// Inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

var (
	// ErrNotFound indicates the requested alias or command does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates malformed input (unknown shell, empty alias, ...)
	ErrInvalidRequest = New("invalid request")

	// ErrConflict indicates an alias name that is already taken
	ErrConflict = New("conflict")

	// ErrCorruptState indicates persisted state that could not be decoded.
	// Callers are expected to recover with an empty state and tell the user.
	ErrCorruptState = New("corrupt persisted state")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsConflictError checks if an error is or wraps ErrConflict.
func IsConflictError(err error) bool {
	return err != nil && Is(err, ErrConflict)
}

// IsCorruptStateError checks if an error is or wraps ErrCorruptState.
func IsCorruptStateError(err error) bool {
	return err != nil && Is(err, ErrCorruptState)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidRequest)
}

// NewConflictError creates a conflict error with a formatted message
func NewConflictError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConflict)
}

// MarkCorrupt wraps err with context and marks it as ErrCorruptState.
func MarkCorrupt(err error, context string) error {
	if err == nil {
		return nil
	}
	return Mark(Wrap(err, context), ErrCorruptState)
}
