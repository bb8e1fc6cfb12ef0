package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	fbhttp "github.com/fivetwenty-io/fbgraph/internal/http"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
)

// GraphClient implements graph.Client.
type GraphClient struct {
	httpClient *fbhttp.Client
}

// NewGraphClient creates a client issuing calls through httpClient.
func NewGraphClient(httpClient *fbhttp.Client) *GraphClient {
	return &GraphClient{
		httpClient: httpClient,
	}
}

// New creates a GraphClient for baseURL, which must already carry the
// version segment. Config defaults are applied by the caller.
func New(baseURL string, config *graph.Config) *GraphClient {
	return NewGraphClient(fbhttp.NewClient(baseURL, createHTTPClientOptions(config)...))
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *graph.Config) []fbhttp.Option {
	httpOpts := []fbhttp.Option{
		fbhttp.WithAccessToken(config.AccessToken),
		fbhttp.WithHeaders(config.Headers),
		fbhttp.WithTimeout(config.Timeout),
	}

	if config.AppSecret != "" {
		httpOpts = append(httpOpts, fbhttp.WithAppSecret(config.AppSecret))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, fbhttp.WithUserAgent(config.UserAgent))
	}

	if config.Session != nil {
		httpOpts = append(httpOpts, fbhttp.WithSession(config.Session))
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, fbhttp.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, fbhttp.WithDebug(true))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, fbhttp.WithInterceptors(config.Interceptors))
	}

	return httpOpts
}

// BaseURL implements graph.Client.BaseURL.
func (c *GraphClient) BaseURL() string {
	return c.httpClient.BaseURL()
}

// Request implements graph.Client.Request.
func (c *GraphClient) Request(ctx context.Context, method, path string, opts ...graph.RequestOption) (any, error) {
	options := graph.NewRequestOptions(opts...)

	resp, err := c.httpClient.Do(ctx, &fbhttp.Request{
		Method:  method,
		Path:    path,
		Query:   options.Query,
		Headers: options.Headers,
		Body:    options.Body,
		Timeout: options.Timeout,
		Session: options.Session,
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	return decode(resp)
}

// Get implements graph.Client.Get.
func (c *GraphClient) Get(ctx context.Context, path string, opts ...graph.RequestOption) (any, error) {
	return c.Request(ctx, http.MethodGet, path, opts...)
}

// Post implements graph.Client.Post. body wins over any WithBody option.
func (c *GraphClient) Post(ctx context.Context, path string, body any, opts ...graph.RequestOption) (any, error) {
	return c.Request(ctx, http.MethodPost, path, withFixed(opts, graph.WithBody(body))...)
}

// Delete implements graph.Client.Delete.
func (c *GraphClient) Delete(ctx context.Context, path string, opts ...graph.RequestOption) (any, error) {
	return c.Request(ctx, http.MethodDelete, path, opts...)
}

// withFixed appends options that must win over the caller's, without
// writing into the caller's slice.
func withFixed(opts []graph.RequestOption, fixed ...graph.RequestOption) []graph.RequestOption {
	return append(slices.Clip(opts), fixed...)
}

// decode turns a success body into generic JSON. An empty body is nil.
func decode(resp *fbhttp.Response) (any, error) {
	if len(resp.Body) == 0 {
		return nil, nil
	}

	var result any

	err := json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, &graph.DecodeError{StatusCode: resp.StatusCode, Body: resp.Body, Err: err}
	}

	return result, nil
}
