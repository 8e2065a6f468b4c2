package utils

import (
	"errors"
	"fmt"
)

// AppError represents a custom application error with context
type AppError struct {
	Code    int                    // HTTP status code
	Message string                 // User-friendly message
	Key     string                 // i18n message id for Message, optional
	Err     error                  // Underlying error
	Context map[string]interface{} // Additional context
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Context: make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying error to errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	e.Context[key] = value
	return e
}

// WithKey attaches the i18n message id used to localize Message
func (e *AppError) WithKey(key string) *AppError {
	e.Key = key
	return e
}

// Common error constructors
func BadRequestError(message string, err error) *AppError {
	return NewAppError(400, message, err).WithKey("error_bad_request")
}

func UnauthorizedError(message string, err error) *AppError {
	return NewAppError(401, message, err).WithKey("error_unauthorized")
}

func ForbiddenError(message string, err error) *AppError {
	return NewAppError(403, message, err)
}

func NotFoundError(message string, err error) *AppError {
	return NewAppError(404, message, err).WithKey("error_404")
}

func InternalServerError(message string, err error) *AppError {
	return NewAppError(500, message, err).WithKey("error_500")
}

// StoreUnavailableError reports a persistence failure. The cause is logged, never shown.
func StoreUnavailableError(err error) *AppError {
	return NewAppError(500, "Store unavailable", err).WithKey("error_store_unavailable")
}

// ValidationError describes a request field that failed its schema
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AsValidationError reports whether err is or wraps a ValidationError
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
