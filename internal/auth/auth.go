package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eshaffer321/board-go/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// Options configures a TokenStore
type Options struct {
	BaseURL     string
	RefreshPath string
	HTTPClient  *http.Client
	Headers     map[string]string

	// RetryMax is the number of transport-level retries for a refresh request
	RetryMax int

	// Timeout bounds one refresh attempt
	Timeout time.Duration

	Logger types.Logger
}

// TokenStore holds the in-memory access token and coordinates refreshes.
// The token is never written anywhere else.
type TokenStore struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	group      singleflight.Group
	refreshes  atomic.Int64
	refreshURL string
	client     *retryablehttp.Client
	headers    map[string]string
	timeout    time.Duration
	logger     types.Logger
}

// NewTokenStore creates a token store with no token
func NewTokenStore(opts *Options) *TokenStore {
	if opts == nil {
		opts = &Options{}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultBaseURL
	}
	if opts.RefreshPath == "" {
		opts.RefreshPath = types.DefaultRefreshPath
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: types.DefaultTimeout}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = types.DefaultRefreshTimeout
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = opts.HTTPClient
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = nil
	if opts.Logger != nil {
		client.Logger = &retryLogger{logger: opts.Logger}
	}

	headers := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
		"User-Agent":   types.UserAgent,
	}
	for k, v := range opts.Headers {
		if strings.EqualFold(k, "Authorization") {
			continue
		}
		headers[k] = v
	}

	return &TokenStore{
		refreshURL: strings.TrimRight(opts.BaseURL, "/") + opts.RefreshPath,
		client:     client,
		headers:    headers,
		timeout:    opts.Timeout,
		logger:     types.OrNop(opts.Logger),
	}
}

// SetAccessToken replaces the held token. An empty token clears it.
func (s *TokenStore) SetAccessToken(token string) {
	expiresAt := tokenExpiry(token)

	s.mu.Lock()
	s.token = token
	s.expiresAt = expiresAt
	s.mu.Unlock()
}

// AccessToken returns the held token, or "" when there is none
func (s *TokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// HasToken reports whether a token is held
func (s *TokenStore) HasToken() bool {
	return s.AccessToken() != ""
}

// Clear drops the held token
func (s *TokenStore) Clear() {
	s.SetAccessToken("")
}

// ExpiresAt returns the exp claim of the held token when it is a JWT
func (s *TokenStore) ExpiresAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt, !s.expiresAt.IsZero()
}

// ExpiresWithin reports whether the held token is known to expire within d
func (s *TokenStore) ExpiresWithin(d time.Duration) bool {
	exp, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return time.Until(exp) <= d
}

// RefreshCount returns how many refresh requests have been started
func (s *TokenStore) RefreshCount() int64 {
	return s.refreshes.Load()
}

// Refresh obtains a new access token using the refresh cookie.
// Concurrent callers share a single in-flight request and all observe its result.
// On failure the held token is cleared. A caller whose ctx ends first gets false
// while the shared attempt keeps running for the others.
func (s *TokenStore) Refresh(ctx context.Context) bool {
	ch := s.group.DoChan(refreshKey, func() (interface{}, error) {
		s.refreshes.Add(1)

		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		token, err := s.requestToken(refreshCtx)
		if err != nil {
			s.logger.Warn("Token refresh failed", "error", err)
			s.Clear()
			return false, nil
		}

		s.SetAccessToken(token)
		s.logger.Info("Access token refreshed")
		return true, nil
	})

	select {
	case res := <-ch:
		ok, _ := res.Val.(bool)
		return ok
	case <-ctx.Done():
		return false
	}
}

// requestToken issues the refresh request. It carries cookies but never a bearer header.
func (s *TokenStore) requestToken(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.refreshURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create refresh request")
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	s.logger.Debug("Refresh request", "url", s.refreshURL)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "refresh request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read refresh response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", types.NewStatusError(resp.StatusCode, "")
	}

	token := ExtractAccessToken(body)
	if token == "" {
		return "", errors.New("no access token in refresh response")
	}
	return token, nil
}

// ExtractAccessToken reads data.access_token, falling back to a top-level access_token
func ExtractAccessToken(body []byte) string {
	var payload struct {
		AccessToken string `json:"access_token"`
		Data        *struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Data != nil && payload.Data.AccessToken != "" {
		return payload.Data.AccessToken
	}
	return payload.AccessToken
}

// tokenExpiry returns the exp claim of a JWT without verifying it, zero otherwise
func tokenExpiry(token string) time.Time {
	if token == "" || strings.Count(token, ".") != 2 {
		return time.Time{}
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
