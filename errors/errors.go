// Package errors provides error handling for cgkit.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing messages
//
// It also declares the sentinel error kinds raised by the type hierarchies,
// the signature validator and the knowledge base. Wrap a sentinel to add
// context while keeping it matchable with errors.Is:
//
//	return errors.Wrapf(errors.ErrNoSuchType, "parent %q", label)
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New           = crdb.New
	Newf          = crdb.Newf
	Wrap          = crdb.Wrap
	Wrapf         = crdb.Wrapf
	WithStack     = crdb.WithStack
	WithMessage   = crdb.WithMessage
	WithMessagef  = crdb.WithMessagef
	Mark          = crdb.Mark
	CombineErrors = crdb.CombineErrors
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

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Generic sentinels shared by the storage and CLI layers.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")

	// ErrConflict indicates the operation conflicts with existing state
	ErrConflict = New("conflict")
)

// Hierarchy, signature and concept error kinds.
var (
	// ErrDuplicateLabel is a label collision on create or rename
	ErrDuplicateLabel = New("duplicate label")

	// ErrSelfReference is a node listing itself as parent or child, directly or through a cycle
	ErrSelfReference = New("self reference")

	// ErrNoSuchType is a referenced type label or id that does not resolve
	ErrNoSuchType = New("no such type")

	// ErrMissingID is an update requested without a stable identity
	ErrMissingID = New("missing id")

	// ErrArityMismatch is an argument count that differs from a signature length
	ErrArityMismatch = New("arity mismatch")

	// ErrSignatureMismatch means no relation type signature accepts the arguments
	ErrSignatureMismatch = New("signature mismatch")

	// ErrNoSuchConcept is a referenced concept argument that does not exist
	ErrNoSuchConcept = New("no such concept")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound, ErrNoSuchType or ErrNoSuchConcept.
func IsNotFoundError(err error) bool {
	return err != nil && IsAny(err, ErrNotFound, ErrNoSuchType, ErrNoSuchConcept)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// IsValidationError reports whether err is one of the hierarchy or signature
// error kinds, all of which are caller mistakes rather than system faults.
func IsValidationError(err error) bool {
	return err != nil && IsAny(err,
		ErrInvalidRequest,
		ErrDuplicateLabel,
		ErrSelfReference,
		ErrNoSuchType,
		ErrMissingID,
		ErrArityMismatch,
		ErrSignatureMismatch,
		ErrNoSuchConcept,
		ErrConflict,
	)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}
