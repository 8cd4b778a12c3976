package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an API error
type Error struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"statusCode"`
	Details    map[string]interface{} `json:"details,omitempty"`
	RequestID  string                 `json:"requestId,omitempty"`
	Err        error                  `json:"-"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("error: %s", e.Code)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by code, otherwise defers to the wrapped error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code != "" && e.Code == t.Code
	}
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// HTTPStatus returns the status code the error was built from
func (e *Error) HTTPStatus() int {
	return e.StatusCode
}

// NewStatusError maps an HTTP status code to an Error wrapping the matching sentinel
func NewStatusError(statusCode int, message string) *Error {
	code, sentinel := classifyStatus(statusCode)
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", statusCode)
		if desc := http.StatusText(statusCode); desc != "" {
			message = fmt.Sprintf("request failed with status %d (%s)", statusCode, desc)
		}
	}
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Err:        sentinel,
	}
}

func classifyStatus(statusCode int) (string, error) {
	switch statusCode {
	case 0:
		return "NETWORK_ERROR", ErrNetwork
	case http.StatusUnauthorized:
		return "UNAUTHORIZED", ErrNotAuthenticated
	case http.StatusForbidden:
		return "FORBIDDEN", ErrForbidden
	case http.StatusNotFound:
		return "NOT_FOUND", ErrNotFound
	case http.StatusConflict:
		return "CONFLICT", ErrConflict
	case http.StatusTooManyRequests:
		return "RATE_LIMITED", ErrRateLimited
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "BAD_REQUEST", ErrInvalidRequest
	}
	if statusCode >= 500 {
		return "SERVER_ERROR", ErrServerError
	}
	return "HTTP_ERROR", nil
}
