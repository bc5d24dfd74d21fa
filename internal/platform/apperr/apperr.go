// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package apperr defines the centralized error handling framework for Altura.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing a stable machine-readable Code and a user-friendly message.
  - Codes: Every error carries an `ALT-ERROR-00xxx` identifier so downstream services
    and the API gateway can map failures without inspecting messages.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Stable Error Codes
//
// The numbering is shared with the rest of the Altura fleet; collaborator
// services emit codes from the same scheme, which this service passes
// through verbatim.
const (
	// CodeEntityNotFound signals a required local or remote entity does not exist.
	CodeEntityNotFound = "ALT-ERROR-00401"

	// CodeValidation signals an input or state-precondition violation local to this service.
	CodeValidation = "ALT-ERROR-00402"

	// CodeStorageRead signals an unexpected local storage failure.
	CodeStorageRead = "ALT-ERROR-00403"

	// CodeResolution signals more than one "unique" contact method of a type was found.
	CodeResolution = "ALT-ERROR-00405"

	// CodeWrongCCID signals a correlation id that could not be parsed as a UUID.
	CodeWrongCCID = "ALT-ERROR-00410"

	// CodeIdentityValidation signals an identity fetch outside the IDENTITY_VALIDATION stage.
	CodeIdentityValidation = "ALT-ERROR-00450"

	// CodeMissingAddress signals the address collaborator explicitly reported zero addresses.
	CodeMissingAddress = "ALT-ERROR-00451"

	// CodeDuplicatedResource signals more than one external resource where uniqueness was assumed.
	CodeDuplicatedResource = "ALT-ERROR-00452"

	// CodeInternal is the catch-all for unexpected server-side failures.
	CodeInternal = "ALT-ERROR-00500"
)

// Remote identity-validation rejection codes, passed through from the
// identity collaborator. The odd variants mean a support ticket was already
// raised upstream.
const (
	CodeIdentityMinor            = "ALT-ERROR-00802"
	CodeAttemptsExceeded         = "ALT-ERROR-00850"
	CodeAttemptsExceededNotified = "ALT-ERROR-00851"
	CodeIdentityTeenPartial      = "ALT-ERROR-00852"
	CodeIdentityData             = "ALT-ERROR-00860"
	CodeIdentityDataNotified     = "ALT-ERROR-00861"
)

// AppError is the canonical error type for the Altura API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is the stable machine-readable error identifier (e.g. "ALT-ERROR-00401").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for validation responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Domain Errors (4xx)

// NotFound creates a 404 [AppError] for a named entity.
//
// Example:
//
//	apperr.NotFound("User") // "Entity Not Found <User>"
func NotFound(entity string) *AppError {
	return &AppError{
		Code:       CodeEntityNotFound,
		Message:    fmt.Sprintf("Entity Not Found <%s>", entity),
		HTTPStatus: http.StatusNotFound,
	}
}

// Validation creates a 400 [AppError] with optional per-field details.
func Validation(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// Resolution creates the [AppError] raised when more than one contact method
// of a supposedly unique type belongs to the same user.
func Resolution(contactMethodType, userID string) *AppError {
	return &AppError{
		Code:       CodeResolution,
		Message:    fmt.Sprintf("Too many contact methods with type=%s and user_id=%s", contactMethodType, userID),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Duplicated creates a 409 [AppError] raised when more than one external
// resource was found where exactly one was assumed.
func Duplicated(resource string) *AppError {
	return &AppError{
		Code:       CodeDuplicatedResource,
		Message:    fmt.Sprintf("Multiple results for entity %s found.", resource),
		HTTPStatus: http.StatusConflict,
	}
}

// Remote creates a pass-through [AppError] preserving a collaborator's
// code, message, and HTTP status verbatim.
func Remote(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// WrongCCID creates a 400 [AppError] for a correlation id that is not a UUID.
func WrongCCID(value string) *AppError {
	return &AppError{
		Code:       CodeWrongCCID,
		Message:    fmt.Sprintf("It was not possible to cast %q as UUID.", value),
		HTTPStatus: http.StatusBadRequest,
	}
}

// IdentityValidation creates a 409 [AppError] for an identity fetch attempted
// outside the IDENTITY_VALIDATION stage. The current stage is carried in the
// message for the caller.
func IdentityValidation(currentStage string) *AppError {
	message := "User did not perform identity validation yet."
	if currentStage != "" {
		message = fmt.Sprintf("Current signup stage is %s", currentStage)
	}
	return &AppError{
		Code:       CodeIdentityValidation,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// MissingAddress creates the [AppError] raised when the address collaborator
// explicitly reported zero addresses for the user.
func MissingAddress() *AppError {
	return &AppError{
		Code:       CodeMissingAddress,
		Message:    "Missing addresses. Must add a new address.",
		HTTPStatus: http.StatusNotFound,
	}
}

// # Server Errors (5xx)

// StorageRead creates a 500 [AppError] wrapping a local storage failure.
func StorageRead(cause error) *AppError {
	return &AppError{
		Code:       CodeStorageRead,
		Message:    "Storage Error",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries the given stable error code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
