// Package httpgw implements gateway.Gateway over plain HTTP: a PATCH with
// {"done":true} confirms completion, a DELETE confirms removal.
package httpgw

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"todo/internal/gateway"
)

const (
	// RequestIDHeader carries gateway.Request.RequestID.
	RequestIDHeader = "X-Request-Id"

	// maxDrain bounds how much of an error body is read before closing.
	maxDrain = 64 << 10
)

var completeBody = []byte(`{"done":true}`)

// Client implements gateway.Gateway against a single endpoint URL.
type Client struct {
	url  string
	http *http.Client

	tokenCtx context.Context
	token    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBearerToken authenticates every request with a static bearer token.
// It wraps the final HTTP client regardless of option order.
// An empty token leaves the client unauthenticated.
func WithBearerToken(ctx context.Context, token string) Option {
	return func(c *Client) {
		c.tokenCtx, c.token = ctx, token
	}
}

// New creates a client posting confirmations to url. The default HTTP
// client has no timeout.
func New(url string, opts ...Option) *Client {
	c := &Client{url: url, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	if c.token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token, TokenType: "Bearer"})
		ctx := c.tokenCtx
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
		c.http = oauth2.NewClient(ctx, ts)
		c.tokenCtx = nil
	}
	return c
}

// Confirm implements gateway.Gateway.
func (c *Client) Confirm(ctx context.Context, req gateway.Request) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return &gateway.RemoteFailure{Err: err}
	}

	res, err := c.http.Do(httpReq)
	if err != nil {
		return &gateway.RemoteFailure{Err: err}
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		return &gateway.RemoteFailure{StatusCode: res.StatusCode, Err: err}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxDrain))
	return nil
}

func (c *Client) newRequest(ctx context.Context, req gateway.Request) (*http.Request, error) {
	var (
		method string
		body   io.Reader
	)
	switch req.Action {
	case gateway.ActionComplete:
		method, body = http.MethodPatch, bytes.NewReader(completeBody)
	case gateway.ActionDelete:
		method = http.MethodDelete
	default:
		return nil, fmt.Errorf("unsupported action %q", req.Action)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.url, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.RequestID != "" {
		httpReq.Header.Set(RequestIDHeader, req.RequestID)
	}
	return httpReq, nil
}
