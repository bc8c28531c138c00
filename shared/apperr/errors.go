// Package apperr defines the error taxonomy shared by the policy layer
// and the HTTP handlers. Existence is always checked before scope, so a
// request for a missing entity yields NotFound even when the caller
// would not have been allowed to see it.
package apperr

import "errors"

// ErrNotFound indicates the referenced entity id does not exist.
var ErrNotFound = errors.New("not found")

// ForbiddenError indicates the entity exists but a scope or role rule
// excludes the caller.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// Forbidden builds a ForbiddenError with the default message when none
// is supplied.
func Forbidden(message string) *ForbiddenError {
	if message == "" {
		message = "Not enough permissions"
	}
	return &ForbiddenError{Message: message}
}

// ValidationError represents a bad-request condition (HTTP 400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError represents a conflict condition (HTTP 409).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}
