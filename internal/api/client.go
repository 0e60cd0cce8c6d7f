// Package api is the HTTP client for the platform backend. It builds URLs
// through the environment resolver, injects session headers and bounds every
// request with a timeout.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/me/eduportal/internal/environment"
	"github.com/me/eduportal/internal/logging"
	"github.com/me/eduportal/pkg/model"
)

// DefaultTimeout bounds a request when no WithTimeout option is given.
const DefaultTimeout = 15 * time.Second

// Authorizer decorates outgoing headers with session credentials.
type Authorizer interface {
	WithAuthHeaders(h http.Header) http.Header
}

// Client is an HTTP client for the platform API.
type Client struct {
	resolver   *environment.Resolver
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration

	mu         sync.RWMutex
	authorizer Authorizer
}

// Option configures optional Client settings.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates an API client addressing the backend resolved by r.
func NewClient(r *environment.Resolver, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		resolver:   r,
		httpClient: &http.Client{},
		logger:     logging.Component(logger, "api"),
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthorizer installs the header decorator used on every request.
func (c *Client) SetAuthorizer(a Authorizer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authorizer = a
}

// Resolver returns the environment resolver the client addresses.
func (c *Client) Resolver() *environment.Resolver {
	return c.resolver
}

func (c *Client) headers() http.Header {
	c.mu.RLock()
	a := c.authorizer
	c.mu.RUnlock()

	h := http.Header{}
	if a != nil {
		return a.WithAuthHeaders(h)
	}
	h.Set("Content-Type", "application/json")
	return h
}

// do performs an HTTP request and decodes the JSON response into out.
// Non-2xx responses become *model.APIError carrying the server message.
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url = c.resolver.Absolute(url)

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header = c.headers()

	c.logger.Debug("HTTP request", "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("HTTP response", "status", resp.StatusCode, "bytes", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env model.Envelope
		_ = json.Unmarshal(respBody, &env)
		return &model.APIError{
			Code:    model.CodeForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: env.Reason(http.StatusText(resp.StatusCode)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

// Get performs a GET against an api-prefixed endpoint.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, c.resolver.APIURL(endpoint), nil, out)
}

// Post performs a POST with a JSON body against an api-prefixed endpoint.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, c.resolver.APIURL(endpoint), body, out)
}

// PostRoot performs a POST against a path served outside the api prefix.
func (c *Client) PostRoot(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, c.resolver.URL(path), body, out)
}
