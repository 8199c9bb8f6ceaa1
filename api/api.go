// Package api is the single chokepoint for backend calls.
//
// It resolves request URLs against a configurable API base, attaches the
// bearer credential when one is present, parses every response body as
// JSON, and normalizes failures into ParseError / APIError. It never
// retries, never caches, and never mutates session state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	rentroam "github.com/rentroam/rentroam-go"
	"github.com/rentroam/rentroam-go/audit"
	"github.com/rentroam/rentroam-go/metrics"
)

// Client issues JSON requests against the marketplace backend.
type Client struct {
	base       string
	httpClient *http.Client
	creds      rentroam.CredentialSource
	logger     *slog.Logger
	metrics    *metrics.Metrics
	auditLog   *audit.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithCredentials sets the bearer credential source (normally the session
// store). Without one, requests go out unauthenticated.
func WithCredentials(src rentroam.CredentialSource) Option {
	return func(c *Client) { c.creds = src }
}

// WithHTTPClient sets a custom HTTP client for backend requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets a structured logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics recorder for request outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithAuditLogger sets the audit logger for failed-request events.
func WithAuditLogger(l *audit.Logger) Option {
	return func(c *Client) { c.auditLog = l }
}

// New creates an API client. base may be empty, in which case paths are
// resolved under the conventional /api prefix.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:       strings.TrimRight(base, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
		metrics:    metrics.New(false),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// AttachCredentials completes wiring when the credential source (the
// session store) is constructed after the client.
func (c *Client) AttachCredentials(src rentroam.CredentialSource) {
	c.creds = src
}

// RequestOptions configures a single backend request.
type RequestOptions struct {
	// Method defaults to GET.
	Method string

	// Headers are merged over the defaults. The Authorization header is
	// forced afterwards and cannot be overridden here; it is absent only
	// when no credential is stored.
	Headers map[string]string

	// Body is JSON-encoded when non-nil.
	Body any

	// RawBody is a pre-encoded body (e.g. multipart). Takes precedence
	// over Body; set the Content-Type through Headers.
	RawBody io.Reader
}

// Fetch issues a request and returns the parsed JSON body.
//
// Any body that fails to parse as JSON yields a *ParseError regardless of
// HTTP status. A non-2xx status with a parseable body yields an *APIError.
// Transport failures propagate unchanged.
func (c *Client) Fetch(ctx context.Context, path string, opts *RequestOptions) (json.RawMessage, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	switch {
	case opts.RawBody != nil:
		body = opts.RawBody
	case opts.Body != nil:
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("rentroam/api: encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	url := ResolveURL(c.base, path)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("rentroam/api: create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	// Forced last: callers cannot override the credential through Headers.
	if c.creds != nil {
		if token := c.creds.Credential(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordRequest(method, 0, time.Since(start).Seconds())
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordRequest(method, resp.StatusCode, time.Since(start).Seconds())
		return nil, err
	}
	c.metrics.RecordRequest(method, resp.StatusCode, time.Since(start).Seconds())

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Debug("unparseable response body", "method", method, "url", url, "status", resp.StatusCode)
		return nil, &ParseError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: failureMessage(raw)}
		c.logger.Debug("backend returned failure status",
			"method", method, "url", url, "status", resp.StatusCode, "message", apiErr.Message)
		c.auditAPIError(requestID, path, apiErr)
		return nil, apiErr
	}

	return raw, nil
}

// Do issues a request and decodes the response body into out when out is
// non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.Fetch(ctx, path, &RequestOptions{Method: method, Body: body})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("rentroam/api: decode response: %w", err)
	}
	return nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// failureMessage resolves the user-facing message for a failure body:
// the body's error field, then message, then a generic fallback.
func failureMessage(raw json.RawMessage) string {
	env, err := objectFields(raw)
	if err != nil {
		return "API Error"
	}
	if m := stringField(env, "error"); m != "" {
		return m
	}
	if m := stringField(env, "message"); m != "" {
		return m
	}
	return "API Error"
}

// ResolveURL resolves a request path against the configured API base.
//
// Fully-qualified URLs pass through unmodified. With a base configured,
// base and path are joined with exactly one separating slash. Without one,
// the path is rooted under /api, prepending the prefix only when missing.
func ResolveURL(base, path string) string {
	if path == "" {
		if base != "" {
			return base
		}
		return "/api"
	}
	if isAbsoluteURL(path) {
		return path
	}

	base = strings.TrimRight(base, "/")
	if base != "" {
		if strings.HasPrefix(path, "/") {
			return base + path
		}
		return base + "/" + path
	}

	if strings.HasPrefix(path, "/api") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return "/api" + path
	}
	return "/api/" + path
}

func isAbsoluteURL(p string) bool {
	l := strings.ToLower(p)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func (c *Client) auditAPIError(requestID, endpoint string, apiErr *APIError) {
	if c.auditLog == nil {
		return
	}
	c.auditLog.Log(audit.Event{
		RequestID: requestID,
		Action:    audit.ActionAPIError,
		Endpoint:  endpoint,
		Result:    audit.ResultFailure,
		Error:     fmt.Sprintf("%d: %s", apiErr.StatusCode, apiErr.Message),
	})
}
