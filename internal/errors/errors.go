// Package errors provides the engine's structured error taxonomy with
// HTTP status code mapping for the adapter layer.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for response formatting and
// retry policy.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400). Never retried,
	// never partially applied.
	TypeValidation ErrorType = "validation"
	// TypeNotFound indicates a referenced entity does not exist (HTTP 404).
	TypeNotFound ErrorType = "not_found"
	// TypeConflict indicates a concurrent write lost a race (HTTP 409).
	// The vote ledger retries these internally before surfacing one.
	TypeConflict ErrorType = "conflict"
	// TypeStore indicates an underlying persistence failure (HTTP 502).
	// Transient; retry policy belongs to the caller, not the engine.
	TypeStore ErrorType = "store"
)

// Error represents a structured error with type, message, and context.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeStore:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{
		Type:    TypeValidation,
		Message: message,
		Context: make(map[string]any),
	}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{
		Type:    TypeNotFound,
		Message: message,
		Context: make(map[string]any),
	}
}

// ConflictError creates a new conflict error (HTTP 409).
func ConflictError(message string) *Error {
	return &Error{
		Type:    TypeConflict,
		Message: message,
		Context: make(map[string]any),
	}
}

// StoreError creates a new store error (HTTP 502) wrapping the
// persistence-layer cause.
func StoreError(message string, cause error) *Error {
	return &Error{
		Type:    TypeStore,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// WithContext adds a context field to the error (chainable).
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse represents the JSON structure sent to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse converts an Error to an ErrorResponse for JSON serialization.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Type:    e.Type,
		Context: e.Context,
	}
}

// AsEngineError converts any error into a structured Error. If err is
// already an *Error it is returned unchanged; anything else is treated as
// a store failure.
func AsEngineError(err error) *Error {
	if err == nil {
		return nil
	}
	var structured *Error
	if errors.As(err, &structured) {
		return structured
	}
	return StoreError("unexpected engine error", err)
}

// IsType reports whether err is a structured error of the given type.
func IsType(err error, t ErrorType) bool {
	var structured *Error
	if errors.As(err, &structured) {
		return structured.Type == t
	}
	return false
}
