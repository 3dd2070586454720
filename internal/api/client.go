// Package api is the single choke point for requests to the Orla backend.
// Callers deal in endpoint paths and JSON values; credentials, error
// classification and diagnostics live here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MaxResponseSize limits how much of a response body is read (1 MB).
const MaxResponseSize int64 = 1 << 20

// ErrResponseTooLarge is returned when a response body exceeds MaxResponseSize.
var ErrResponseTooLarge = errors.New("response body too large")

const defaultTimeout = 30 * time.Second

// TokenSource supplies the bearer credential attached to outgoing requests.
// An empty token with a nil error means "no credential" and is not an error.
type TokenSource interface {
	AccessToken() (string, error)
}

// AuthFailureFunc is invoked when a response is classified as
// session-invalidating (see IsSessionInvalid). The client only reports;
// the registered adapter owns what happens next.
type AuthFailureFunc func(endpoint string)

// Client issues JSON requests against the backend. The underlying
// http.Client carries a cookie jar so session cookies set by the backend
// travel on every subsequent request alongside any bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
	debug      bool

	tokens        TokenSource
	onAuthFailure AuthFailureFunc
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for diagnostic output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithDebug enables a diagnostic line per outgoing request.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// WithTokenSource sets the bearer credential source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthFailureFunc registers the session-invalidation adapter. Wired after
// construction because the session manager that owns the reaction is built
// around this client.
func (c *Client) SetAuthFailureFunc(fn AuthFailureFunc) {
	c.onAuthFailure = fn
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes one JSON request. A non-nil body is JSON-encoded; a non-nil
// out receives the decoded success response. Every failure is an *Error.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	return c.do(ctx, method, endpoint, nil, body, out)
}

// DoWithHeaders is Do with extra headers; caller values win over defaults.
func (c *Client) DoWithHeaders(ctx context.Context, method, endpoint string, headers http.Header, body, out any) error {
	return c.do(ctx, method, endpoint, headers, body, out)
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, nil, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, nil, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPatch, endpoint, nil, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, headers http.Header, body, out any) error {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	url := c.baseURL + endpoint

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{
				Message:  "failed to encode request body: " + err.Error(),
				Status:   0,
				Endpoint: endpoint,
			}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &Error{
			Message:  "failed to create request: " + err.Error(),
			Status:   0,
			Endpoint: endpoint,
		}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, values := range headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if c.tokens != nil && req.Header.Get("Authorization") == "" {
		token, err := c.tokens.AccessToken()
		if err != nil {
			c.log.Warn("failed to read access token", zap.Error(err))
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.debug {
		c.log.Debug("api request", zap.String("method", method), zap.String("url", url))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{
			Message:  "network error: " + err.Error(),
			Status:   0,
			Endpoint: endpoint,
			cause:    err,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := readLimitedResponse(resp.Body, MaxResponseSize)
	if err != nil {
		return &Error{
			Message:  "failed to read response: " + err.Error(),
			Status:   resp.StatusCode,
			Endpoint: endpoint,
			cause:    err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(data, statusFallback(resp.StatusCode))
		if IsSessionInvalid(resp.StatusCode, msg, endpoint) && c.onAuthFailure != nil {
			c.onAuthFailure(endpoint)
		}
		return &Error{
			Message:  msg,
			Status:   resp.StatusCode,
			Endpoint: endpoint,
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{
				Message:  "failed to parse response: " + err.Error(),
				Status:   resp.StatusCode,
				Endpoint: endpoint,
			}
		}
	}

	return nil
}

// readLimitedResponse reads at most maxSize bytes, failing rather than
// buffering an unexpectedly huge body.
func readLimitedResponse(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, ErrResponseTooLarge
	}
	return data, nil
}
