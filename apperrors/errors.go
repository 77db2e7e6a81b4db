package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors so transport code can map them
// to HTTP status codes without inspecting message text.
type ErrorType string

const (
	// ErrorTypeValidation indicates malformed, missing or out-of-range
	// input, or a transition forbidden by a business rule.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeForbidden indicates the caller is authenticated but not
	// authorized for the resource.
	ErrorTypeForbidden ErrorType = "FORBIDDEN"

	// ErrorTypeNotFound indicates a resource id that does not resolve.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeConflict indicates a uniqueness violation, e.g. a
	// duplicate review for the same request.
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeUnauthorized indicates a missing or invalid credential.
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeInternal indicates an unexpected persistence or
	// infrastructure failure.
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError is the error type exchanged between the service layer and the
// HTTP handlers. Message is user-facing; Err carries the internal cause
// and is never serialized into responses.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewForbiddenError creates a new forbidden error.
func NewForbiddenError(message string) *AppError {
	return &AppError{Type: ErrorTypeForbidden, Message: message}
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string) *AppError {
	return &AppError{Type: ErrorTypeConflict, Message: message}
}

// NewUnauthorizedError creates a new unauthorized error.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Type: ErrorTypeUnauthorized, Message: message}
}

// NewInternalError wraps an unexpected failure. The cause is kept for
// logging but the message shown to callers stays generic.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// TypeOf returns the classification of err, or ErrorTypeInternal when err
// is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}
