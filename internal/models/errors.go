package models

import "errors"

var (
	// ErrNotFound is returned when an id does not resolve to a stored document.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is returned for any failed sign-in, whatever the cause.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when a session is missing, expired or forged.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidTransition is returned when a message action does not apply to its current status.
	ErrInvalidTransition = errors.New("invalid status transition")
)
