package board

import (
	"errors"

	"github.com/eshaffer321/board-go/internal/retry"
	internalTypes "github.com/eshaffer321/board-go/internal/types"
)

var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrSessionExpired is returned when the session could not be refreshed
	ErrSessionExpired = internalTypes.ErrSessionExpired

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrNotFound is returned when resource not found
	ErrNotFound = internalTypes.ErrNotFound

	// ErrForbidden is returned when acting on another user's resource
	ErrForbidden = internalTypes.ErrForbidden

	// ErrConflict is returned when an email or nickname is taken
	ErrConflict = internalTypes.ErrConflict

	// ErrInvalidRequest is returned for invalid requests
	ErrInvalidRequest = internalTypes.ErrInvalidRequest

	// ErrServerError is returned for server errors
	ErrServerError = internalTypes.ErrServerError

	// ErrNetwork is returned when no response was received
	ErrNetwork = internalTypes.ErrNetwork

	// ErrUnexpectedResponse is returned when a 2xx body lacks the expected data
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// Error represents an API error
type Error = internalTypes.Error

// NewError creates a new API error
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	return retry.IsAuthError(err)
}

// IsNetworkError reports a transport failure, status 0 or a 5xx status
func IsNetworkError(err error) bool {
	return retry.IsNetworkError(err)
}

// IsRateLimited reports a 429 status
func IsRateLimited(err error) bool {
	return retry.IsRateLimited(err)
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrServerError) ||
		errors.Is(err, ErrNetwork) {
		return true
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	return false
}

// UserMessage converts err into a message that can be shown to a user
func UserMessage(err error) string {
	return retry.UserMessage(err)
}
