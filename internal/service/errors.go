package service

import (
	"errors"
	"fmt"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrTaskNotFound indicates that no status record exists for the handle.
	// A record evicted by cache overflow and one that never existed are
	// indistinguishable. API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskInProgress indicates the log file is not ready yet because the
	// task is still PENDING. API layer should map this to HTTP 202 Accepted.
	ErrTaskInProgress = errors.New("log generation in progress")

	// ErrTaskFailed indicates the task finished in the FAILED state. The
	// returned error wraps the recorded failure message. API layer should
	// map this to HTTP 404 Not Found.
	ErrTaskFailed = errors.New("log generation failed")

	// ErrLogFileMissing indicates the task completed but its file is gone
	// from disk. API layer should map this to HTTP 404 Not Found.
	ErrLogFileMissing = errors.New("log file missing")
)

// BuildServiceError wraps unexpected errors from the build services with
// operation context.
type BuildServiceError struct {
	// Operation is the operation that failed (e.g., "get_build", "initiate_log")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for BuildServiceError.
func (e *BuildServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("build service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("build service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *BuildServiceError) Unwrap() error {
	return e.Err
}

// NewBuildServiceError creates a new BuildServiceError.
// Known sentinel errors pass through unchanged so callers can match them
// directly with errors.Is.
func NewBuildServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	// Store-level sentinels and validation errors are part of the service
	// contract; keep them unwrapped.
	if errors.Is(err, store.ErrBuildNotFound) ||
		errors.Is(err, store.ErrBuildNameExists) ||
		errors.Is(err, domain.ErrValidation) {
		return err
	}

	return &BuildServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
