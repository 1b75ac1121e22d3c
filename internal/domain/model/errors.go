package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds shared by the league domain. These allow errors.Is from callers.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrNotReady   = errors.New("tournament not ready")
)

// ValidationError reports malformed input to a domain operation.
type ValidationError struct {
	Field  string
	Reason string
	kind   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Is reports whether target is ErrValidation or the error's specific kind.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (e.kind != nil && target == e.kind)
}

// Invalid builds a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotReady builds a ValidationError that also matches ErrNotReady.
func NotReady(reason string) error {
	return &ValidationError{Field: "tournament", Reason: reason, kind: ErrNotReady}
}
