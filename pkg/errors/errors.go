package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode doubles as the HTTP status an error maps to.
type ErrorCode int

const (
	ErrBadRequest      ErrorCode = http.StatusBadRequest
	ErrUnauthorized    ErrorCode = http.StatusUnauthorized
	ErrPaymentRequired ErrorCode = http.StatusPaymentRequired
	ErrForbidden       ErrorCode = http.StatusForbidden
	ErrNotFound        ErrorCode = http.StatusNotFound
	ErrConflict        ErrorCode = http.StatusConflict
	ErrRateLimited     ErrorCode = http.StatusTooManyRequests
	ErrInternal        ErrorCode = http.StatusInternalServerError
	ErrUnavailable     ErrorCode = http.StatusServiceUnavailable
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// RateLimited and QuotaExhausted are surfaced distinctly so the chat client
// can tell "wait and retry" apart from "add credits".
func RateLimited(message string) *AppError {
	return &AppError{
		Code:    ErrRateLimited,
		Message: message,
	}
}

func QuotaExhausted(message string) *AppError {
	return &AppError{
		Code:    ErrPaymentRequired,
		Message: message,
	}
}

func Unavailable(message string, err error) *AppError {
	return &AppError{
		Code:    ErrUnavailable,
		Message: message,
		Err:     err,
	}
}
