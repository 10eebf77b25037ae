package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants wrap it so callers can match either.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness
	// constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for the specific violation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrBuildNotFound indicates that the requested build does not exist,
	// whether addressed by id or by name.
	ErrBuildNotFound = fmt.Errorf("%w: build", ErrNotFound)

	// ErrBuildNameExists indicates that another build already uses the name.
	ErrBuildNameExists = fmt.Errorf("%w: build name", ErrDuplicate)
)

// IsNotFoundError reports whether err is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any kind of uniqueness violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
