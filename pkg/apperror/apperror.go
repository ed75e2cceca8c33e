package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrInternal         = errors.New("internal server error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrConfiguration    = errors.New("server configuration error")
	ErrConcurrentUpdate = errors.New("concurrent update")
	ErrTooManyRequests  = errors.New("too many requests")
)

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

// NewConflict reports a uniqueness violation. The message is client-facing.
func NewConflict(resource, field, value string) *AppError {
	msg := fmt.Sprintf("%s already exists", resource)
	details := fmt.Sprintf("%s with %s '%s' already exists", resource, field, value)
	return NewAppError(ErrConflict, msg, details, nil)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

func NewUnauthorized(msg string, err error) *AppError {
	return NewAppError(ErrUnauthorized, msg, "", err)
}

func NewConfiguration(details string, err error) *AppError {
	return NewAppError(ErrConfiguration, "Server configuration error", details, err)
}

func NewConcurrentUpdate(resource, identifier string) *AppError {
	details := fmt.Sprintf("%s '%s' kept changing while it was being written", resource, identifier)
	return NewAppError(ErrConcurrentUpdate, "Concurrent update, please retry", details, nil)
}

func NewTooManyRequests() *AppError {
	return NewAppError(ErrTooManyRequests, "Too many requests. Please try again later.", "", nil)
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// ClientMessage returns the message safe to show to a caller. Internal and
// configuration failures never expose their details; validation failures
// report what was wrong.
func ClientMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return ErrInternal.Error()
	}
	if errors.Is(err, ErrInternal) {
		return "An internal server error occurred"
	}
	if errors.Is(err, ErrInvalidInput) && appErr.Details != "" {
		return appErr.Details
	}
	return appErr.Message
}

func (e *AppError) ToJSON() gin.H {
	return gin.H{
		"success": false,
		"message": ClientMessage(e),
	}
}
