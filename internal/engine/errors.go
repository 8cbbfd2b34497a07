package engine

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures.
type Kind int

// Failure kinds.
const (
	KindUnavailable Kind = iota
	KindNotFound
	KindConflict
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	default:
		return "unavailable"
	}
}

// Kind sentinels matched by errors.Is against an *Error.
var (
	ErrUnavailable = errors.New("engine unavailable")
	ErrNotFound    = errors.New("document not found")
	ErrConflict    = errors.New("document already exists")
	ErrInvalid     = errors.New("invalid engine request")
)

// Error is the single structured failure type returned by engines.
type Error struct {
	Op         string
	Collection string
	Kind       Kind
	Err        error
}

// NewError builds an *Error.
func NewError(op, collection string, kind Kind, err error) *Error {
	return &Error{Op: op, Collection: collection, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Collection, e.Kind)
	}

	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Collection, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrInvalid:
		return e.Kind == KindInvalid
	default:
		return false
	}
}

// KindOf returns the kind of err, treating foreign errors as unavailable.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnavailable
}
