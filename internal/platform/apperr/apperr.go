// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

/*
Package apperr defines the centralized error handling framework for the client core.

It provides a rich error type that bridges the gap between raw transport failures
and the small set of outcomes the UI layer is allowed to observe.

Architecture:

  - AppError: A struct containing a machine-readable Code and user-friendly message.
  - Taxonomy: AuthRejected, Transient, NotFound — mirroring the client failure policy.
  - Mapping: Explicit classification of backend HTTP status codes into AppErrors.

Every error that leaves the platform layer should be wrapped as an [AppError] so
the session and search components can branch on class, not on status codes.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the Clinera client core.
//
// It carries the originating HTTP status (when one exists), a machine-readable
// code, a client-safe message, and the underlying cause.
//
// # Logging
//
// The Cause field is for structured logging only and is never rendered to the
// user; failure paths in the components resolve to quiet UI states instead.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "AUTH_REJECTED").
	Code string `json:"code"`
	// Message is a human-readable description safe to show in diagnostics.
	Message string `json:"error"`
	// HTTPStatus is the backend response status, or 0 for transport errors.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for logging only.
	Cause error `json:"-"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Failure Taxonomy

// AuthRejected creates an [AppError] for an explicit 401/403 from the backend.
// This is the only failure class that tears a session down.
func AuthRejected(status int) *AppError {
	return &AppError{
		Code:       "AUTH_REJECTED",
		Message:    "Session rejected by the backend",
		HTTPStatus: status,
	}
}

// Unauthorized creates a 401 [AppError] for locally detected auth gaps
// (e.g. calling an authenticated endpoint with no token).
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Transient creates an [AppError] for failures the client swallows: network
// errors, timeouts, and 5xx responses. Sessions survive this class intact.
func Transient(cause error) *AppError {
	return &AppError{
		Code:    "TRANSIENT",
		Message: "Temporary backend failure",
		Cause:   cause,
	}
}

// Unexpected creates an [AppError] for statuses outside the known taxonomy.
func Unexpected(status int) *AppError {
	return &AppError{
		Code:       "UNEXPECTED_STATUS",
		Message:    fmt.Sprintf("Unexpected backend status %d", status),
		HTTPStatus: status,
	}
}

// Internal creates an [AppError] wrapping an unexpected client-side error.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "An unexpected error occurred",
		Cause:   cause,
	}
}

// # Classification

// FromStatus maps a backend HTTP status code into the failure taxonomy.
// 2xx statuses map to nil.
func FromStatus(status int) *AppError {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return AuthRejected(status)
	case status == http.StatusNotFound:
		return NotFound("Resource")
	case status >= 500:
		return Transient(fmt.Errorf("backend status %d", status))
	default:
		return Unexpected(status)
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

// IsAuthRejected reports whether err is an explicit 401/403 rejection.
// Every other failure class must leave session state untouched.
func IsAuthRejected(err error) bool {
	ae := As(err)
	return ae != nil && ae.Code == "AUTH_REJECTED"
}

// IsTransient reports whether err belongs to the swallow-and-log class.
func IsTransient(err error) bool {
	ae := As(err)
	return ae != nil && ae.Code == "TRANSIENT"
}
