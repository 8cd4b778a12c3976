package types

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the default community board API base URL
	DefaultBaseURL = "https://my-community.shop"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// DefaultAuthPrefix marks endpoints that never trigger a silent refresh
	DefaultAuthPrefix = "/v1/auth/"

	// DefaultRefreshPath is the cookie-authenticated token refresh endpoint
	DefaultRefreshPath = "/v1/auth/token/refresh"

	// DefaultRefreshTimeout bounds a single refresh attempt
	DefaultRefreshTimeout = 10 * time.Second

	// UserAgent is the user agent string
	UserAgent = "board-go/1.0.0"
)

// User-facing messages
const (
	MessageRateLimited  = "Too many requests. Please try again in a moment."
	MessageNetwork      = "Please check your network connection."
	MessageAuthRequired = "Login is required."
	MessageServerError  = "A server error occurred. Please try again in a moment."
	MessageGeneric      = "An error occurred."
	MessageUndecodable  = "Unable to process the response."
)

// Common errors
var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired is returned when the session could not be refreshed
	ErrSessionExpired = errors.New("session expired")

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrNotFound is returned when resource not found
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned when the caller may not act on a resource
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when a resource already exists
	ErrConflict = errors.New("conflict")

	// ErrInvalidRequest is returned for rejected payloads
	ErrInvalidRequest = errors.New("invalid request")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")

	// ErrNetwork is returned when no response was received
	ErrNetwork = errors.New("network error")
)
