// Package apierr defines the API error envelope returned by every failing
// endpoint. Each error carries an HTTP status, a stable machine-readable code
// and a human hint, and knows how to write itself as a JSON response.
package apierr

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes surfaced at the API boundary.
const (
	CodeInvalidParameter = "invalid_parameter"
	CodeResourceExists   = "resource_exists"
	CodeNotFound         = "not_found"
	CodeValueMismatch    = "value_mismatch"
	CodeUnauthorized     = "unauthorized"
	CodeNotifyFailed     = "notify_failed"
	CodeServerError      = "server_error"
)

// Error represents a structured API error response. It implements the error
// interface and is used by HTTP handlers to produce consistent failures.
type Error struct {
	// Status is the HTTP status code for this error.
	Status int `json:"-"`

	// Code is the stable error code (e.g. "resource_exists").
	Code string `json:"error"`

	// Message is a short human-readable description.
	Message string `json:"message"`

	// Hint tells the caller how to recover, where that makes sense.
	Hint string `json:"hint,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes this error to an HTTP response writer as JSON.
func (e *Error) WriteError(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e)
}

var (
	// ErrInvalidParameter is returned when a request is missing a required
	// parameter or a parameter value is malformed.
	ErrInvalidParameter = &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidParameter,
		Message: "Wrong parameter provided",
		Hint:    "please provide valid arguments",
	}

	// ErrResourceExists is returned when creating a resource whose name is
	// already taken.
	ErrResourceExists = &Error{
		Status:  http.StatusConflict,
		Code:    CodeResourceExists,
		Message: "A resource with this name already exists",
		Hint:    "choose a different resource name",
	}

	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = &Error{
		Status:  http.StatusNotFound,
		Code:    CodeNotFound,
		Message: "This resource does not exist",
		Hint:    "I am very, very sorry...",
	}

	// ErrValueMismatch is returned when a provided value does not match the
	// stored one (e.g. a wrong validation token).
	ErrValueMismatch = &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValueMismatch,
		Message: "Wrong values provided in request",
		Hint:    "check your parameters and try again",
	}

	// ErrNotifyFailed is returned when the activation notification could not
	// be dispatched during registration. The registration is rolled back.
	ErrNotifyFailed = &Error{
		Status:  http.StatusBadGateway,
		Code:    CodeNotifyFailed,
		Message: "Could not deliver the activation notification",
		Hint:    "try registering again later",
	}

	// ErrServerError is returned for unexpected internal failures.
	ErrServerError = &Error{
		Status:  http.StatusInternalServerError,
		Code:    CodeServerError,
		Message: "Internal server error",
	}
)

// WriteUnauthorized writes a 401 with a Basic auth challenge. The body is
// identical for every denial reason so callers cannot distinguish an unknown
// user from a wrong password or an unvalidated account.
func WriteUnauthorized(w http.ResponseWriter, realm string) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`", charset="UTF-8"`)
	unauthorized := &Error{
		Status:  http.StatusUnauthorized,
		Code:    CodeUnauthorized,
		Message: "Authentication required",
		Hint:    "provide valid credentials for a validated account",
	}
	unauthorized.WriteError(w)
}
