package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or identifier fails
	// validation. Specific validation errors wrap it so callers can match
	// the whole category with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when credentials are missing or wrong.
	ErrUnauthorized = errors.New("unauthorized operation")
)
