// ABOUTME: Validation errors shared by all ironlog entities.
// ABOUTME: ValidationError wraps ErrInvalid so callers can errors.Is on it.
package models

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned (wrapped) when a record fails validation before it
// reaches the store.
var ErrInvalid = errors.New("invalid record")

// ValidationError describes which field of a record was rejected.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

func invalid(entity, field, reason string) error {
	return &ValidationError{Entity: entity, Field: field, Reason: reason}
}
