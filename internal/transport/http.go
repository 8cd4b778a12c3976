package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eshaffer321/board-go/internal/auth"
	"github.com/eshaffer321/board-go/internal/retry"
	"github.com/eshaffer321/board-go/internal/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	authHeaderKey      = "Authorization"
	requestIDHeaderKey = "X-Request-ID"
	contentType        = "application/json"
)

// Options for HTTP transport
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Headers    map[string]string

	// Tokens supplies the bearer token and performs refreshes. Nil disables both.
	Tokens *auth.TokenStore

	// GetPolicy is the retry policy for GET requests
	GetPolicy *retry.Policy

	// AuthPrefix marks endpoints that never trigger a refresh
	AuthPrefix string

	// RefreshSkew refreshes ahead of a known JWT expiry. Zero disables it.
	RefreshSkew time.Duration

	// OnSessionExpired is called once per request whose refresh failed
	OnSessionExpired func(ctx context.Context, req *Request, env *Envelope)

	Logger types.Logger
	Hooks  *types.Hooks
}

// HTTPTransport issues requests against the board API and always returns an envelope
type HTTPTransport struct {
	baseURL          string
	httpClient       *http.Client
	headers          map[string]string
	tokens           *auth.TokenStore
	getPolicy        retry.Policy
	authPrefix       string
	refreshSkew      time.Duration
	onSessionExpired func(ctx context.Context, req *Request, env *Envelope)
	logger           types.Logger
	hooks            *types.Hooks
}

// Request describes one logical API call
type Request struct {
	Method   string
	Endpoint string

	// JSON is marshalled as the body when set
	JSON interface{}

	// Form is sent as multipart/form-data when set
	Form *Multipart

	// Headers are added after the defaults
	Headers map[string]string

	// NoAuthRecovery disables the refresh-and-replay on 401
	NoAuthRecovery bool

	requestID string
}

// RequestOption adjusts a single request
type RequestOption func(*Request)

// WithoutAuthRecovery returns the 401 envelope as is, without refreshing
func WithoutAuthRecovery() RequestOption {
	return func(r *Request) {
		r.NoAuthRecovery = true
	}
}

// WithHeader sets a header on a single request
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithRequestID sets the X-Request-ID instead of generating one
func WithRequestID(id string) RequestOption {
	return func(r *Request) {
		r.requestID = id
	}
}

// NewHTTPTransport creates a new HTTP transport
func NewHTTPTransport(opts *Options) *HTTPTransport {
	if opts == nil {
		opts = &Options{}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: types.DefaultTimeout,
		}
	}

	if opts.AuthPrefix == "" {
		opts.AuthPrefix = types.DefaultAuthPrefix
	}

	getPolicy := retry.GetPolicy()
	if opts.GetPolicy != nil {
		getPolicy = *opts.GetPolicy
	}

	// Set default headers
	headers := map[string]string{
		"Accept":     contentType,
		"User-Agent": types.UserAgent,
	}

	// Merge custom headers
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &HTTPTransport{
		baseURL:          strings.TrimRight(opts.BaseURL, "/"),
		httpClient:       opts.HTTPClient,
		headers:          headers,
		tokens:           opts.Tokens,
		getPolicy:        getPolicy,
		authPrefix:       opts.AuthPrefix,
		refreshSkew:      opts.RefreshSkew,
		onSessionExpired: opts.OnSessionExpired,
		logger:           types.OrNop(opts.Logger),
		hooks:            opts.Hooks,
	}
}

// Get issues a GET request, retried with backoff on 5xx, 429 and transport failures
func (t *HTTPTransport) Get(ctx context.Context, endpoint string, opts ...RequestOption) *Envelope {
	return t.Do(ctx, newRequest(http.MethodGet, endpoint, nil, nil, opts))
}

// Post issues a JSON POST request
func (t *HTTPTransport) Post(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) *Envelope {
	return t.Do(ctx, newRequest(http.MethodPost, endpoint, body, nil, opts))
}

// PostMultipart issues a multipart/form-data POST request
func (t *HTTPTransport) PostMultipart(ctx context.Context, endpoint string, form *Multipart, opts ...RequestOption) *Envelope {
	if form == nil {
		form = NewMultipart()
	}
	return t.Do(ctx, newRequest(http.MethodPost, endpoint, nil, form, opts))
}

// Put issues a JSON PUT request
func (t *HTTPTransport) Put(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) *Envelope {
	return t.Do(ctx, newRequest(http.MethodPut, endpoint, body, nil, opts))
}

// Patch issues a JSON PATCH request
func (t *HTTPTransport) Patch(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) *Envelope {
	return t.Do(ctx, newRequest(http.MethodPatch, endpoint, body, nil, opts))
}

// Delete issues a DELETE request. body may be nil.
func (t *HTTPTransport) Delete(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) *Envelope {
	return t.Do(ctx, newRequest(http.MethodDelete, endpoint, body, nil, opts))
}

func newRequest(method, endpoint string, body interface{}, form *Multipart, opts []RequestOption) *Request {
	req := &Request{
		Method:   method,
		Endpoint: endpoint,
		JSON:     body,
		Form:     form,
	}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// Do executes req. A 401 on a recoverable endpoint triggers one refresh and
// at most one replay; the replay's envelope is returned in place of the 401.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) *Envelope {
	if req.requestID == "" {
		req.requestID = uuid.NewString()
	}
	recoverable := t.recoverable(req)

	if recoverable && t.refreshSkew > 0 && t.tokens.ExpiresWithin(t.refreshSkew) {
		t.logger.Debug("Access token about to expire, refreshing", "endpoint", req.Endpoint)
		t.tokens.Refresh(ctx)
	}

	env := t.send(ctx, req)
	if env.Status != http.StatusUnauthorized || !recoverable {
		return env
	}

	t.logger.Warn("Unauthorized, attempting silent refresh", "method", req.Method, "endpoint", req.Endpoint)
	if t.tokens.Refresh(ctx) {
		t.logger.Info("Refresh succeeded, replaying request", "method", req.Method, "endpoint", req.Endpoint)
		return t.send(ctx, req)
	}

	if ctx.Err() != nil {
		return env
	}

	t.logger.Warn("Refresh failed, session expired", "method", req.Method, "endpoint", req.Endpoint)
	if t.onSessionExpired != nil {
		t.onSessionExpired(ctx, req, env)
	}
	return env
}

// recoverable reports whether a 401 on req should trigger a refresh
func (t *HTTPTransport) recoverable(req *Request) bool {
	if t.tokens == nil || req.NoAuthRecovery {
		return false
	}
	return !strings.HasPrefix(req.Endpoint, t.authPrefix)
}

// send performs one network exchange, or the GET retry loop
func (t *HTTPTransport) send(ctx context.Context, req *Request) *Envelope {
	if req.Method != http.MethodGet {
		env, err := t.roundTrip(ctx, req)
		if err != nil {
			return t.networkFailure(req, err)
		}
		return env
	}

	policy := t.getPolicy
	policy.OnRetry = func(attempt, maxRetries int, err error) {
		t.logger.Warn("Retrying GET", "endpoint", req.Endpoint, "attempt", attempt, "maxRetries", maxRetries, "error", err)
	}

	env, err := retry.DoValue(ctx, func(ctx context.Context) (*Envelope, error) {
		env, err := t.roundTrip(ctx, req)
		if err != nil {
			return nil, err
		}
		if env.Status >= http.StatusInternalServerError || env.Status == http.StatusTooManyRequests {
			return nil, env.Err()
		}
		return env, nil
	}, policy)
	if err != nil {
		return t.networkFailure(req, err)
	}
	return env
}

// roundTrip builds, sends and decodes a single HTTP exchange
func (t *HTTPTransport) roundTrip(ctx context.Context, req *Request) (*Envelope, error) {
	body, bodyType, err := req.encode()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, t.baseURL+req.Endpoint, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	// Set headers
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	if bodyType != "" {
		httpReq.Header.Set("Content-Type", bodyType)
	}
	httpReq.Header.Set(requestIDHeaderKey, req.requestID)

	// Set auth header
	if t.tokens != nil {
		if token := t.tokens.AccessToken(); token != "" {
			httpReq.Header.Set(authHeaderKey, "Bearer "+token)
		}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// Call request hook
	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}

	t.logger.Debug("HTTP request", "method", req.Method, "endpoint", req.Endpoint, "requestId", req.requestID)

	// Execute request
	start := time.Now()
	resp, err := t.httpClient.Do(httpReq)
	duration := time.Since(start)

	if err != nil {
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	// Call response hook
	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		t.logger.Warn("Failed to read response", "method", req.Method, "endpoint", req.Endpoint, "error", readErr)
	}

	env := Decode(resp.StatusCode, resp.Header, respBody, readErr)
	env.RequestID = req.requestID

	if env.OK {
		t.logger.Debug("HTTP response", "method", req.Method, "endpoint", req.Endpoint, "status", env.Status, "duration", duration)
	} else {
		t.logger.Warn("HTTP request failed", "method", req.Method, "endpoint", req.Endpoint, "status", env.Status, "duration", duration, "body", env.Data.Kind.String())
	}

	return env, nil
}

// networkFailure converts a transport error into the status-0 envelope
func (t *HTTPTransport) networkFailure(req *Request, err error) *Envelope {
	t.logger.Error("Network error", "method", req.Method, "endpoint", req.Endpoint, "error", err)
	env := NetworkFailure()
	env.RequestID = req.requestID
	return env
}

// encode returns a fresh body reader so the request can be replayed
func (r *Request) encode() (io.Reader, string, error) {
	if r.Form != nil {
		buf, formType, err := r.Form.encode()
		if err != nil {
			return nil, "", err
		}
		return buf, formType, nil
	}

	if r.JSON == nil {
		return nil, contentType, nil
	}

	body, err := json.Marshal(r.JSON)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to marshal request")
	}
	return bytes.NewReader(body), contentType, nil
}
