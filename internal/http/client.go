// Package http runs a single Graph API exchange: it resolves the transport
// session, injects credentials, applies default headers, enforces the
// timeout and turns failed statuses into *graph.GraphAPIError.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
	"github.com/hashicorp/go-retryablehttp"
)

// Client performs requests against a fixed base URL.
type Client struct {
	baseURL        string
	accessToken    string
	appSecret      string
	appSecretProof string
	headers        map[string]string
	timeout        time.Duration
	userAgent      string
	session        *graph.Session
	newSession     func() *graph.Session
	logger         graph.Logger
	debug          bool
	interceptors   *graph.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithAccessToken sets the token injected as access_token.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithAppSecret enables appsecret_proof.
func WithAppSecret(secret string) Option {
	return func(c *Client) {
		c.appSecret = secret
	}
}

// WithHeaders sets the default headers. An empty map keeps the built-in default.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		if len(headers) > 0 {
			c.headers = maps.Clone(headers)
		}
	}
}

// WithTimeout sets the per-call timeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent added when a request has none.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithSession stores a shared session used by calls that pass none.
func WithSession(session *graph.Session) Option {
	return func(c *Client) {
		c.session = session
	}
}

// WithSessionFactory replaces how per-call sessions are created.
func WithSessionFactory(factory func() *graph.Session) Option {
	return func(c *Client) {
		if factory != nil {
			c.newSession = factory
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger graph.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithInterceptors runs chain around every call.
func WithInterceptors(chain *graph.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a client for baseURL, which already carries the version.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL: baseURL,
		headers: map[string]string{constants.HeaderContentType: constants.ContentTypeJSON},
		timeout: constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.newSession == nil {
		logger := client.logger
		client.newSession = func() *graph.Session {
			return graph.NewEphemeralSession(graph.WithSessionLogger(logger))
		}
	}

	if client.appSecret != "" && client.accessToken != "" {
		client.appSecretProof = graph.AppSecretProof(client.accessToken, client.appSecret)
	}

	return client
}

// Request is a single call. Path is appended to the base URL verbatim.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    any
	Timeout time.Duration
	Session *graph.Session
}

// Response is a completed exchange with its body fully read.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	URL        string // credentials redacted
}

// BaseURL returns the versioned base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs req. For status >= 400 it returns both the response and a
// *graph.GraphAPIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	method := strings.ToUpper(req.Method)

	err := validate(method, req.Path)
	if err != nil {
		return nil, err
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	session := req.Session
	if session == nil {
		session = c.session
	}

	if session == nil {
		session = c.newSession()
		defer session.Close()
	}

	fullURL := c.buildURL(req.Path, req.Query)

	intercepted := &graph.Request{
		Method:  method,
		Path:    req.Path,
		URL:     graph.RedactURL(fullURL),
		Headers: c.buildHeaders(req.Headers),
		Body:    body,
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
		if err != nil {
			return nil, err
		}
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	// the caller's deadline may be the one that applies
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = max(remaining, 0)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()

	resp, err := c.send(callCtx, session, method, fullURL, intercepted.Headers, body)
	if err != nil && !graph.IsGraphAPIError(err) {
		err = classify(callCtx, method, intercepted.URL, timeout, err)
	}

	return resp, c.afterResponse(ctx, intercepted, resp, err, time.Since(start))
}

func (c *Client) send(ctx context.Context, session *graph.Session, method, fullURL string, headers http.Header, body []byte) (*Response, error) {
	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = headers.Clone()

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": method,
			"url":    graph.RedactURL(fullURL),
		})
	}

	httpResp, err := session.Do(httpReq)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	response := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
		URL:        graph.RedactURL(fullURL),
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": httpResp.StatusCode,
			"url":         response.URL,
		})
	}

	if httpResp.StatusCode >= constants.HTTPStatusBadRequest {
		return response, graph.NewGraphAPIError(httpResp, respBody)
	}

	return response, nil
}

func (c *Client) afterResponse(ctx context.Context, req *graph.Request, resp *Response, callErr error, elapsed time.Duration) error {
	if c.interceptors == nil {
		return callErr
	}

	intercepted := &graph.Response{Duration: elapsed, Error: callErr}
	if resp != nil {
		intercepted.StatusCode = resp.StatusCode
		intercepted.Headers = resp.Headers
		intercepted.Body = resp.Body
	}

	err := c.interceptors.ExecuteResponseInterceptors(ctx, req, intercepted)
	if callErr != nil {
		return callErr
	}

	return err
}

// classify separates the client's own deadline from other transport failures.
func classify(callCtx context.Context, method, redactedURL string, timeout time.Duration, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s after %s: %w",
			graph.ErrTimeout, method, redactedURL, timeout.Round(time.Millisecond), context.DeadlineExceeded)
	}

	// net/http reports the full request URL, token included
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		redacted := *urlErr
		redacted.URL = graph.RedactURL(urlErr.URL)
		err = &redacted
	}

	return &graph.TransportError{Method: method, URL: redactedURL, Err: err}
}

func validate(method, path string) error {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		return fmt.Errorf("%w: %q", graph.ErrUnsupportedMethod, method)
	}

	if path == "" || !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: %q", graph.ErrInvalidPath, path)
	}

	return nil
}

func encodeBody(body any) ([]byte, error) {
	switch value := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return value, nil
	case json.RawMessage:
		return []byte(value), nil
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		return data, nil
	}
}

// buildURL appends path and the query with credentials injected.
func (c *Client) buildURL(path string, query url.Values) string {
	params := url.Values{}
	for key, values := range query {
		params[key] = append([]string(nil), values...)
	}

	if c.accessToken != "" {
		params.Set(constants.AccessTokenParam, c.accessToken)
	} else {
		params.Del(constants.AccessTokenParam)
	}

	if c.appSecretProof != "" {
		params.Set(constants.AppSecretProofParam, c.appSecretProof)
	}

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	return fullURL
}

// buildHeaders uses explicit headers as a whole, or the defaults when none.
func (c *Client) buildHeaders(explicit map[string]string) http.Header {
	source := explicit
	if len(source) == 0 {
		source = c.headers
	}

	headers := make(http.Header, len(source)+1)
	for key, value := range source {
		headers.Set(key, value)
	}

	if c.userAgent != "" && headers.Get(constants.HeaderUserAgent) == "" {
		headers.Set(constants.HeaderUserAgent, c.userAgent)
	}

	return headers
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}
