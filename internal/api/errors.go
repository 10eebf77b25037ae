package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/api/shared"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/service"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/service/auth"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// A still-running task is not an error to the client; the file is just
	// not ready yet.
	case errors.Is(err, service.ErrTaskInProgress):
		return http.StatusAccepted

	// Not found errors. A failed task and a missing file both present as
	// "no log to download".
	case errors.Is(err, store.ErrBuildNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrTaskFailed),
		errors.Is(err, service.ErrLogFileMissing):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrBuildNameExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. Internal details stay in the logs.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrBuildNotFound):
		return "Build not found"

	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, service.ErrTaskInProgress):
		return "Log generation in progress"

	case errors.Is(err, service.ErrTaskFailed):
		return "Log generation failed"

	case errors.Is(err, service.ErrLogFileMissing):
		return "Log file not found"

	case errors.Is(err, store.ErrBuildNameExists):
		return "A build with this name already exists"

	// Domain validation messages are written for clients and safe to return.
	case errors.Is(err, domain.ErrValidation):
		return err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError converts a validator/v10 error into a short
// client-facing message naming the offending field, without echoing the
// submitted values back.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'LoginRequest.Username' Error:Field validation for
		// 'Username' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return "Invalid " + field + ": " + validationTagMessage(tag)
				}
				return "Invalid " + field
			}
		}
	}

	return "Validation error"
}

// validationTagMessage maps validation tags to user-friendly fragments.
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "url":
		return "invalid URL"
	case "gte", "lte":
		return "out of range"
	default:
		return "validation failed"
	}
}

// HandleServiceError responds with the mapped status code and sanitized
// message for an error returned by a service call, logging the original.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
