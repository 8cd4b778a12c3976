package board

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/eshaffer321/board-go/internal/auth"
	"github.com/eshaffer321/board-go/internal/retry"
	"github.com/eshaffer321/board-go/internal/transport"
	internalTypes "github.com/eshaffer321/board-go/internal/types"
	"github.com/getsentry/sentry-go"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultBaseURL is the default community board API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent
)

// Client is the main community board API client
type Client struct {
	// Service interfaces
	Auth     AuthService
	Users    UserService
	Posts    PostService
	Comments CommentService

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	tokens     *auth.TokenStore
	options    *ClientOptions
	events     *eventBus
	logger     Logger
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client. A cookie jar is added when it has none.
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Token provides an initial access token
	Token string

	// Logger for debug logging
	Logger Logger

	// RetryPolicy overrides the GET retry policy (2 retries, 500ms, doubling)
	RetryPolicy *retry.Policy

	// RefreshRetryMax is the number of transport retries for a refresh request
	RefreshRetryMax int

	// RefreshSkew refreshes ahead of a known token expiry
	RefreshSkew time.Duration

	// AuthPrefix marks endpoints whose 401 is returned without a refresh
	AuthPrefix string

	// RefreshPath overrides the token refresh endpoint
	RefreshPath string

	// RateLimiter for rate limiting
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *internalTypes.Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *SentryOptions
}

// SentryOptions is the Sentry client configuration
type SentryOptions = sentry.ClientOptions

// Logger interface for logging
type Logger = internalTypes.Logger

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Transport executes a request and always yields an envelope
type Transport interface {
	Do(ctx context.Context, req *Request) *Envelope
}

// NewClient creates a new community board client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		// Override DSN if provided separately
		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail client creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	// Set defaults
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	// The refresh token lives in an http-only cookie, so a jar is required
	if opts.HTTPClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, err
		}
		opts.HTTPClient.Jar = jar
	}

	tokens := auth.NewTokenStore(&auth.Options{
		BaseURL:     opts.BaseURL,
		RefreshPath: opts.RefreshPath,
		HTTPClient:  opts.HTTPClient,
		RetryMax:    opts.RefreshRetryMax,
		Logger:      opts.Logger,
	})
	if opts.Token != "" {
		tokens.SetAccessToken(opts.Token)
	}

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		tokens:     tokens,
		options:    opts,
		events:     newEventBus(),
		logger:     internalTypes.OrNop(opts.Logger),
	}

	c.transport = transport.NewHTTPTransport(&transport.Options{
		BaseURL:          opts.BaseURL,
		HTTPClient:       opts.HTTPClient,
		Tokens:           tokens,
		GetPolicy:        opts.RetryPolicy,
		AuthPrefix:       opts.AuthPrefix,
		RefreshSkew:      opts.RefreshSkew,
		OnSessionExpired: c.sessionExpired,
		Logger:           opts.Logger,
		Hooks:            opts.Hooks,
	})

	c.initServices()

	return c, nil
}

// NewClientWithToken creates a client with an access token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{
		Token: token,
	})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Auth = &authService{client: c}
	c.Users = &userService{client: c}
	c.Posts = &postService{client: c}
	c.Comments = &commentService{client: c}
}

// SetToken replaces the in-memory access token. An empty token logs out locally.
func (c *Client) SetToken(token string) {
	c.tokens.SetAccessToken(token)
}

// Token returns the in-memory access token
func (c *Client) Token() string {
	return c.tokens.AccessToken()
}

// IsAuthenticated reports whether an access token is held
func (c *Client) IsAuthenticated() bool {
	return c.tokens.HasToken()
}

// RefreshToken forces a refresh using the session cookie
func (c *Client) RefreshToken(ctx context.Context) bool {
	return c.tokens.Refresh(ctx)
}

// Get issues a GET request. Server errors, 429 and network failures are retried.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...RequestOption) *Envelope {
	return c.do(ctx, newRequest(http.MethodGet, endpoint, nil, nil, opts))
}

// Post issues a JSON POST request
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) *Envelope {
	return c.do(ctx, newRequest(http.MethodPost, endpoint, body, nil, opts))
}

// PostMultipart issues a multipart/form-data POST request
func (c *Client) PostMultipart(ctx context.Context, endpoint string, form *Multipart, opts ...RequestOption) *Envelope {
	if form == nil {
		form = NewMultipart()
	}
	return c.do(ctx, newRequest(http.MethodPost, endpoint, nil, form, opts))
}

// Put issues a JSON PUT request
func (c *Client) Put(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) *Envelope {
	return c.do(ctx, newRequest(http.MethodPut, endpoint, body, nil, opts))
}

// Patch issues a JSON PATCH request
func (c *Client) Patch(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) *Envelope {
	return c.do(ctx, newRequest(http.MethodPatch, endpoint, body, nil, opts))
}

// Delete issues a DELETE request with an optional JSON body
func (c *Client) Delete(ctx context.Context, endpoint string, body interface{}, opts ...RequestOption) *Envelope {
	return c.do(ctx, newRequest(http.MethodDelete, endpoint, body, nil, opts))
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

// do applies rate limiting, executes the request and reports failures to Sentry
func (c *Client) do(ctx context.Context, req *Request) *Envelope {
	if c.options.RateLimiter != nil {
		if err := c.options.RateLimiter.Wait(ctx); err != nil {
			c.logger.Warn("Rate limiter wait failed", "method", req.Method, "endpoint", req.Endpoint, "error", err)
			captureException(ctx, err, req, nil)
			return transport.NetworkFailure()
		}
	}

	env := c.transport.Do(ctx, req)
	if env == nil {
		env = transport.NetworkFailure()
	}

	if env.Status == 0 || env.Status >= http.StatusInternalServerError {
		captureException(ctx, env.Err(), req, env)
	}

	return env
}

// sessionExpired runs once per request whose 401 could not be recovered
func (c *Client) sessionExpired(ctx context.Context, req *Request, env *Envelope) {
	c.logger.Warn("Session expired", "method", req.Method, "endpoint", req.Endpoint)

	withScope(ctx, func(hub *sentry.Hub, scope *sentry.Scope) {
		scope.SetTag("http.method", req.Method)
		scope.SetTag("http.endpoint", req.Endpoint)
		scope.SetLevel(sentry.LevelWarning)
		hub.CaptureMessage(EventSessionExpired)
	})

	c.events.publish(ctx, Event{
		Name:      EventSessionExpired,
		Method:    req.Method,
		Endpoint:  req.Endpoint,
		Status:    env.Status,
		RequestID: env.RequestID,
		At:        time.Now(),
	})
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	// Flush Sentry events with a 2 second timeout
	sentry.Flush(2 * time.Second)
}

// captureException reports err on the hub carried by ctx, or the current hub
func captureException(ctx context.Context, err error, req *Request, env *Envelope) {
	if err == nil {
		return
	}
	withScope(ctx, func(hub *sentry.Hub, scope *sentry.Scope) {
		scope.SetTag("http.method", req.Method)
		scope.SetTag("http.endpoint", req.Endpoint)
		details := map[string]interface{}{
			"method":   req.Method,
			"endpoint": req.Endpoint,
		}
		if env != nil {
			details["status"] = env.Status
			details["requestId"] = env.RequestID
		}
		scope.SetContext("http", details)
		hub.CaptureException(err)
	})
}

func withScope(ctx context.Context, fn func(hub *sentry.Hub, scope *sentry.Scope)) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		fn(hub, scope)
	})
}
