package services

import "errors"

// Sentinel errors surfaced to handlers for status mapping.
var (
	ErrItemNotFound    = errors.New("item not found")
	ErrForbidden       = errors.New("username does not match")
	ErrUserExists      = errors.New("user already exist")
	ErrUnknownUser     = errors.New("unknown user")
	ErrInvalidPassword = errors.New("invalid password")
)

// ValidationError reports a rejected registration payload. Reason is the
// client-facing message.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ConflictError reports a store uniqueness violation, carrying the driver's
// message for the response body.
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string { return e.Err.Error() }

func (e *ConflictError) Unwrap() error { return e.Err }
