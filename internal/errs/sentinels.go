// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist (or is not visible,
	// e.g. a disabled share token).
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates structurally invalid input reaching a core operation.
	ErrValidation = errors.New("validation")

	// ErrPermissionDenied indicates the caller's role does not admit the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")
)

// FieldError attaches the offending field name to a sentinel.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// NotFoundField reports that a lookup by field found nothing.
func NotFoundField(field string) error { return &FieldError{Field: field, Err: ErrNotFound} }

// Invalid reports a validation failure on field with a short reason.
func Invalid(field, reason string) error {
	return &FieldError{Field: field, Err: &reasonError{reason: reason}}
}

type reasonError struct{ reason string }

func (e *reasonError) Error() string { return "validation: " + e.reason }

func (e *reasonError) Unwrap() error { return ErrValidation }
