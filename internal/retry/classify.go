package retry

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	"github.com/eshaffer321/board-go/internal/types"
)

// StatusOf returns the HTTP status carried by err, or 0 when it has none
func StatusOf(err error) int {
	var s interface{ HTTPStatus() int }
	if errors.As(err, &s) {
		return s.HTTPStatus()
	}
	return 0
}

// IsClientError reports a 4xx status, which is never retried
func IsClientError(err error) bool {
	status := StatusOf(err)
	return status >= 400 && status < 500
}

// IsNetworkError reports a transport failure, a status-0 error or a 5xx status
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, types.ErrNetwork) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var s interface{ HTTPStatus() int }
	if errors.As(err, &s) {
		status := s.HTTPStatus()
		return status == 0 || status >= 500
	}
	return false
}

// IsRateLimited reports a 429 status
func IsRateLimited(err error) bool {
	return StatusOf(err) == http.StatusTooManyRequests || errors.Is(err, types.ErrRateLimited)
}

// IsAuthError reports a 401 status
func IsAuthError(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized ||
		errors.Is(err, types.ErrNotAuthenticated) ||
		errors.Is(err, types.ErrSessionExpired)
}

// UserMessage converts err into a message that can be shown to a user
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsRateLimited(err) {
		return types.MessageRateLimited
	}
	if IsNetworkError(err) {
		if StatusOf(err) >= 500 {
			return types.MessageServerError
		}
		return types.MessageNetwork
	}
	if IsAuthError(err) {
		return types.MessageAuthRequired
	}

	var apiErr *types.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return types.MessageGeneric
}
