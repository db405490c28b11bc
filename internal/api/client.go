// Package api is the HTTP client for the catalog REST API.
// Responses are normalized into domain types here; nothing above this package
// sees wire shapes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mmcdole/marquee/internal/domain"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultRetries     = 3
	baseRetryDelay     = 500 * time.Millisecond
	defaultAdminPrefix = "/api/admin"
)

// TokenSource supplies the bearer token for authenticated requests
type TokenSource interface {
	Token() (string, bool)
}

// Client implements the catalog, auth and admin repositories over HTTP
type Client struct {
	baseURL     string
	adminPrefix string
	tokens      TokenSource
	httpClient  *http.Client
	limiter     *rate.Limiter
	retries     int
	retryDelay  time.Duration
	logger      *slog.Logger

	onUnauthorized func()
}

// Option configures a Client
type Option func(*Client)

// WithAdminPrefix sets the path prefix of the admin endpoints
func WithAdminPrefix(prefix string) Option {
	return func(c *Client) {
		if prefix != "" {
			c.adminPrefix = "/" + strings.Trim(prefix, "/")
		}
	}
}

// WithTimeout sets the per-attempt HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRetries sets how many times a 5xx or transport failure is retried
func WithRetries(n int, delay time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables pacing.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
		}
	}
}

// WithUnauthorizedHandler registers fn to run when a request carrying the
// stored bearer token is answered with 401
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new catalog API client
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		adminPrefix: defaultAdminPrefix,
		tokens:      tokens,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		retries:    defaultRetries,
		retryDelay: baseRetryDelay,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHandler registers the 401 hook after construction.
// The session store and the client reference each other, so one side is wired late.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// request describes one API call
type request struct {
	method string
	path   string
	query  url.Values
	body   any

	// bearer attaches the stored token
	bearer bool
	// token is an explicit bearer token; it wins over the stored one
	token string
}

// errorBody is the server's error envelope
type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// do performs an HTTP request against the API.
// 5xx responses and transport failures are retried with exponential backoff;
// 4xx responses are classified immediately.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, r.query.Encode())
	}

	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	token := r.token
	usedStored := false
	if token == "" && r.bearer && c.tokens != nil {
		token, usedStored = c.tokens.Token()
	}

	requestID := uuid.NewString()
	var body []byte

	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			var reqBody io.Reader
			if payload != nil {
				reqBody = bytes.NewReader(payload)
			}
			req, err := http.NewRequestWithContext(ctx, r.method, reqURL, reqBody)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			req.Header.Set("Accept", "application/json")
			req.Header.Set("X-Request-ID", requestID)
			if payload != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			c.logger.Debug("api request", "method", r.method, "url", reqURL, "request_id", requestID)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(ctx.Err())
				}
				c.logger.Warn("api request failed", "error", err, "path", r.path, "request_id", requestID)
				return &domain.APIError{Kind: domain.ErrServerOffline}
			}

			data, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return &domain.APIError{Kind: domain.ErrServerOffline}
			}

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				body = data
				return nil
			}

			apiErr := classify(resp.StatusCode, data)
			if resp.StatusCode >= 500 {
				c.logger.Warn("api server error",
					"status", resp.StatusCode,
					"path", r.path,
					"request_id", requestID,
				)
				return apiErr
			}
			return retry.Unrecoverable(apiErr)
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.retries+1)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying request", "attempt", n+1, "error", err, "path", r.path)
		}),
	)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized && usedStored && c.onUnauthorized != nil {
			c.logger.Info("stored token rejected", "path", r.path)
			c.onUnauthorized()
		}
		return nil, err
	}
	return body, nil
}

// classify maps a non-2xx response onto the error taxonomy
func classify(status int, body []byte) *domain.APIError {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}

	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = domain.ErrAuthFailed
	case status == http.StatusNotFound:
		kind = domain.ErrItemNotFound
	case status == http.StatusBadRequest || status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		kind = domain.ErrValidation
		if msg == "" {
			msg = firstFieldError(eb.Errors)
		}
	default:
		kind = domain.ErrUnexpectedStatus
	}
	return &domain.APIError{Kind: kind, Status: status, Message: msg}
}

func firstFieldError(errs map[string][]string) string {
	var first string
	for field, msgs := range errs {
		if len(msgs) == 0 {
			continue
		}
		// Pick deterministically
		if first == "" || field < first {
			first = field
		}
	}
	if first == "" {
		return ""
	}
	return errs[first][0]
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query})
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
