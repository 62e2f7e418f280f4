package domain

import "errors"

var (
	// ErrValidation wraps every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrEmptyCart is returned when checkout is attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotFound is returned when an entity is not known.
	ErrNotFound = errors.New("not found")
	// ErrSessionClosed is returned by commands on a discarded session.
	ErrSessionClosed = errors.New("session closed")
	// ErrCanceled is the outcome of a delayed task canceled before completion.
	ErrCanceled = errors.New("canceled")
)

// ValidationError reports a rejected user input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
