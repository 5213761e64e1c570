// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package transport is the storefront's single configured HTTP client for the
remote auth API.

Pipeline of one call:

 1. Clone the caller's request and apply the default headers.
 2. Run request interceptors in registration order.
 3. Encode the form (if any) as multipart/form-data.
 4. Send, read the whole body, and normalize failures into [apperr.AppError].
 5. Run response interceptors in registration order.

No retries, deduplication or default timeout are applied.
*/
package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/tinytales/internal/platform/apperr"
	"github.com/taibuivan/tinytales/internal/platform/constants"
	"github.com/taibuivan/tinytales/internal/platform/metrics"
)

// Client sends requests relative to one base URL.
//
// # Concurrency
//
// A Client is safe for concurrent use once constructed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.HTTP
	header     http.Header

	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying [*http.Client].
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogger sets the logger used for per-call records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTimeout sets a whole-call timeout. Zero keeps the default of no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMetrics records every call in m.
func WithMetrics(m *metrics.HTTP) Option {
	return func(c *Client) { c.metrics = m }
}

// WithSession wires the bearer token interceptor and the 401 invalidation
// interceptor to the same session.
func WithSession(source interface {
	TokenSource
	Clearer
}, onInvalidated func()) Option {
	return func(c *Client) {
		c.requestInterceptors = append(c.requestInterceptors, BearerToken(source))
		c.responseInterceptors = append(c.responseInterceptors, InvalidateOnUnauthorized(source, onInvalidated))
	}
}

// WithRequestInterceptor appends an outgoing interceptor.
func WithRequestInterceptor(interceptor RequestInterceptor) Option {
	return func(c *Client) { c.requestInterceptors = append(c.requestInterceptors, interceptor) }
}

// WithResponseInterceptor appends an incoming interceptor.
func WithResponseInterceptor(interceptor ResponseInterceptor) Option {
	return func(c *Client) { c.responseInterceptors = append(c.responseInterceptors, interceptor) }
}

// New creates a client bound to baseURL.
//
// The multipart and request id interceptors are always installed first.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
		header:     http.Header{constants.HeaderAccept: []string{constants.MIMEApplicationJSON}},
		requestInterceptors: []RequestInterceptor{
			MultipartContentType(),
			RequestID(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

/*
Do sends req and returns the fully read response.

Description: Any non-2xx status fails with an [*apperr.AppError] built from the
body; a call that received no response fails with a connectivity AppError. In
both cases the response interceptors have already run when Do returns.

Parameters:
  - ctx: context.Context
  - req: *Request (not modified)

Returns:
  - *Response: nil when no response was received
  - error: *apperr.AppError, or nil for 2xx
*/
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	prepared := c.prepare(req)
	for _, intercept := range c.requestInterceptors {
		intercept(ctx, prepared)
	}

	start := time.Now()
	resp, err := c.send(ctx, prepared)
	elapsed := time.Since(start)

	c.record(prepared, resp, err, elapsed)

	for _, intercept := range c.responseInterceptors {
		resp, err = intercept(ctx, resp, err)
	}
	return resp, err
}

// prepare clones req onto the client's default headers.
func (c *Client) prepare(req *Request) *Request {
	header := c.header.Clone()
	for name, values := range req.Header {
		header[name] = append([]string(nil), values...)
	}
	return &Request{Method: req.Method, Path: req.Path, Header: header, Form: req.Form}
}

func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Form != nil {
		encoded, contentType, err := req.Form.encode()
		if err != nil {
			return nil, apperr.Server(0, "", err)
		}
		body = encoded
		if req.Header.Get(constants.HeaderContentType) == "" {
			req.Header.Set(constants.HeaderContentType, contentType)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, apperr.Server(0, "", fmt.Errorf("transport: build request: %w", err))
	}
	httpReq.Header = req.Header

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperr.Connectivity(err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperr.Connectivity(fmt.Errorf("transport: read body: %w", err))
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}
	if !resp.OK() {
		return resp, apperr.FromResponse(resp.StatusCode, data)
	}
	return resp, nil
}

// record logs the call and feeds the metrics.
func (c *Client) record(req *Request, resp *Response, err error, elapsed time.Duration) {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.metrics.Observe(req.Method, req.Path, status, elapsed)

	attrs := []any{
		slog.String("request_id", req.Header.Get(constants.HeaderXRequestID)),
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("status", status),
		slog.Duration("latency", elapsed),
	}

	switch {
	case resp == nil:
		c.logger.Error("http_request_finished", append(attrs, slog.Any("error", err))...)
	case status >= http.StatusBadRequest:
		c.logger.Warn("http_request_finished", attrs...)
	default:
		c.logger.Debug("http_request_finished", attrs...)
	}
}
