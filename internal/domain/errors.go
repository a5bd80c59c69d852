package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidStatus is returned when a task status is outside the
	// enumerated set of pending, in_progress and done.
	ErrInvalidStatus = errors.New("invalid status: allowed values are pending, in_progress, done")

	// ErrInvalidTimeFormat is returned when a scheduled time does not match
	// the YYYY-MM-DD HH:mm:ss layout or names an impossible calendar instant.
	ErrInvalidTimeFormat = errors.New("invalid date format for scheduled_time: expected YYYY-MM-DD HH:mm:ss")

	// ErrInvalidPagination is returned when limit or page is missing a
	// positive integer value.
	ErrInvalidPagination = errors.New("invalid limit or page value")
)
