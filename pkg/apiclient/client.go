// Package apiclient sends bearer-authenticated JSON requests to a single API.
//
// A Client is built once from a validated Config and a Credential and is safe
// for concurrent use: it holds only immutable settings and a transport.
// Every request carries "Authorization: Bearer <token>"; callers cannot
// override it.
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/bearer-api-client/pkg/httpclient"
)

// Client dispatches requests relative to a base URL.
type Client struct {
	baseURL   string
	cred      Credential
	headers   map[string]string
	userAgent string
	transport httpclient.Client
	log       Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger used for request logs. Nil keeps Discard.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTransport replaces the resty-backed transport.
func WithTransport(t httpclient.Client) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// NewClient validates cfg and cred and returns a ready client.
func NewClient(cfg Config, cred Credential, opts ...Option) (*Client, error) {
	base, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cred.Valid() {
		return nil, configErr("token", "is empty", nil)
	}

	c := &Client{
		baseURL:   base,
		cred:      cred,
		headers:   canonicalHeaders(cfg.DefaultHeaders),
		userAgent: cfg.UserAgent,
		transport: httpclient.NewRestyClient(cfg.timeout()),
		log:       Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// String keeps the credential out of formatted output.
func (c *Client) String() string { return fmt.Sprintf("apiclient.Client{baseURL: %q}", c.baseURL) }

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, headers map[string]string) (*Response, error) {
	return c.Request(ctx, Request{Method: MethodGet, Path: path, Query: query, Headers: headers})
}

// Post issues a POST request with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.Request(ctx, Request{Method: MethodPost, Path: path, Body: body, Headers: headers})
}

// Put issues a PUT request with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body any, headers map[string]string) (*Response, error) {
	return c.Request(ctx, Request{Method: MethodPut, Path: path, Body: body, Headers: headers})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	return c.Request(ctx, Request{Method: MethodDelete, Path: path, Headers: headers})
}

// Request performs one call. Non-2xx responses return *HTTPStatusError and
// failures to reach the server return *TransportError.
func (c *Client) Request(ctx context.Context, req Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !req.Method.valid() {
		return nil, fmt.Errorf("unsupported method %q", req.Method)
	}

	target := joinURL(c.baseURL, req.Path, req.Query)
	headers := c.buildHeaders(req.Headers)

	payload, contentType, err := encodeBody(req.Body, headers[headerContentType])
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		headers[headerContentType] = contentType
	}

	// Authorization is applied last so nothing above can replace it.
	headers[headerAuthorization] = c.cred.authorization()

	requestID := headers[headerRequestID]
	method := string(req.Method)
	c.log.DebugObj("api request", "request", map[string]any{
		"method":     method,
		"url":        target,
		"request_id": requestID,
		"body_bytes": len(payload),
	})

	start := time.Now()
	resp, err := c.transport.Execute(ctx, method, target, headers, payload)
	elapsed := time.Since(start)
	if err != nil {
		c.log.ErrorObj("api request failed", "request", map[string]any{
			"method":      method,
			"url":         target,
			"request_id":  requestID,
			"duration_ms": elapsed.Milliseconds(),
			"error":       err.Error(),
		})
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}

	status := resp.StatusCode()
	fields := map[string]any{
		"method":      method,
		"url":         target,
		"request_id":  requestID,
		"status_code": status,
		"duration_ms": elapsed.Milliseconds(),
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		body := resp.Body()
		c.log.WarnObj("api request returned error status", "request", fields)
		return nil, &HTTPStatusError{
			Method:     method,
			URL:        target,
			StatusCode: status,
			Status:     resp.Status(),
			Header:     flattenHeader(resp.Header()),
			Body:       body,
			Message:    errorMessage(body),
		}
	}

	c.log.InfoObj("api request completed", "request", fields)
	return newResponse(status, resp.Header(), resp.Body(), requestID), nil
}

// buildHeaders layers defaults, then caller headers, then generated headers.
// The result never contains Authorization; Request sets it afterwards.
func (c *Client) buildHeaders(overrides map[string]string) map[string]string {
	headers := make(map[string]string, len(c.headers)+len(overrides)+4)
	for k, v := range c.headers {
		headers[k] = v
	}
	for k, v := range canonicalHeaders(overrides) {
		headers[k] = v
	}
	if _, ok := headers[headerAccept]; !ok {
		headers[headerAccept] = contentTypeJSON
	}
	if _, ok := headers[headerUserAgent]; !ok && c.userAgent != "" {
		headers[headerUserAgent] = c.userAgent
	}
	if _, ok := headers[headerRequestID]; !ok {
		headers[headerRequestID] = uuid.NewString()
	}
	return headers
}
