package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingID         = errors.New("id is required")
	ErrMissingLabel      = errors.New("label is required")
	ErrMissingDatasource = errors.New("datasource is required")
	ErrMissingSource     = errors.New("source_id is required")
	ErrMissingTarget     = errors.New("target_id is required")
	ErrMissingKey        = errors.New("property key is required")
)

// Sentinel errors surfaced by stores and services.
var (
	// ErrNotFound is returned when an update targets an id that does not exist.
	ErrNotFound = errors.New("element not found")

	// ErrConflict indicates a create collided with an existing id (maps to HTTP 409).
	ErrConflict = errors.New("element already exists")

	// ErrInvalidPredicate marks malformed predicate input at the call site.
	ErrInvalidPredicate = errors.New("invalid predicate")

	// ErrEngineUnavailable marks a failed round-trip to the document engine.
	ErrEngineUnavailable = errors.New("document engine unavailable")

	// ErrDatasourceMismatch is returned when a write would move an element across datasources.
	ErrDatasourceMismatch = errors.New("datasource does not match existing element")
)

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}

// InvalidPredicate wraps ErrInvalidPredicate with the offending field.
func InvalidPredicate(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidPredicate, field, reason)
}
