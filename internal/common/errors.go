// Package common defines shared constants and sentinel errors used across
// DAMPRAH components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Gateway errors (object storage read/write/list/sign failures).
	ErrGateway = errors.New("storage gateway error")

	// Metadata errors (document table query/insert/delete failures).
	ErrMetadata = errors.New("metadata store error")

	// Validation errors (missing file on upload, unknown port/template).
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// OrphanedObjectError reports an upload whose object landed in storage but
// whose metadata insert failed. The object stays in the bucket; Path lets an
// operator reconcile it by hand. No automatic rollback is attempted because
// no cross-store transaction exists.
type OrphanedObjectError struct {
	Path string
	Err  error
}

func (e *OrphanedObjectError) Error() string {
	return fmt.Sprintf("metadata insert failed, object orphaned at %q: %v", e.Path, e.Err)
}

func (e *OrphanedObjectError) Unwrap() error { return e.Err }
