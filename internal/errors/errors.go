// Package errors defines the error kinds callers of the mistake store can act on.
package errors

import (
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Code identifies an error kind in API responses.
type Code string

const (
	ErrCodeNotFound   Code = "NOT_FOUND"
	ErrCodeValidation Code = "VALIDATION_ERROR"
	ErrCodeStorage    Code = "STORAGE_ERROR"
	ErrCodeInternal   Code = "INTERNAL_ERROR"
	ErrCodeBadRequest Code = "BAD_REQUEST"
	ErrCodeRateLimit  Code = "RATE_LIMITED"
)

var statusByCode = map[Code]int{
	ErrCodeNotFound:   http.StatusNotFound,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeStorage:    http.StatusServiceUnavailable,
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeRateLimit:  http.StatusTooManyRequests,
}

// AppError carries a code, the HTTP status for it and an optional cause.
type AppError struct {
	Code    Code
	Message string
	Status  int
	Err     error
}

func newError(code Code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Status: statusByCode[code], Err: cause}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Retryable reports whether the same call may succeed if repeated unchanged.
// Only storage failures qualify: nothing was written.
func (e *AppError) Retryable() bool {
	return e.Code == ErrCodeStorage
}

// As finds the AppError in err's chain. Anything else becomes an internal error.
func As(err error) *AppError {
	var appErr *AppError
	if pkgerrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// NewNotFoundError reports a missing card or snapshot.
func NewNotFoundError(resource string, key any) *AppError {
	return newError(ErrCodeNotFound, fmt.Sprintf("%s not found: %v", resource, key), nil)
}

// NewValidationError rejects a user id or item key the store cannot hold.
func NewValidationError(field, reason string) *AppError {
	return newError(ErrCodeValidation, fmt.Sprintf("validation failed for %s: %s", field, reason), nil)
}

// NewStorageError wraps a failed read or write against the card store.
func NewStorageError(err error) *AppError {
	return newError(ErrCodeStorage, "storage unavailable, try again", err)
}

func NewInternalError(err error) *AppError {
	return newError(ErrCodeInternal, "internal server error", err)
}

// NewBadRequestError rejects malformed transport input such as path params or JSON.
func NewBadRequestError(message string) *AppError {
	return newError(ErrCodeBadRequest, message, nil)
}

func NewRateLimitError() *AppError {
	return newError(ErrCodeRateLimit, "too many requests, slow down", nil)
}
