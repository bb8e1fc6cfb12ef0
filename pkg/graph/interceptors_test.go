package graph_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fivetwenty-io/fbgraph/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInterceptorTest = errors.New("interceptor error")

type recordingLogger struct {
	entries []string
	fields  []map[string]interface{}
}

func (l *recordingLogger) record(entry string, fields map[string]interface{}) {
	l.entries = append(l.entries, entry)
	l.fields = append(l.fields, fields)
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug:"+msg, fields) }
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  { l.record("info:"+msg, fields) }
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn:"+msg, fields) }
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) { l.record("error:"+msg, fields) }

func TestInterceptorChain_RequestInterceptors(t *testing.T) {
	t.Parallel()

	chain := graph.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.AddRequestInterceptor(func(ctx context.Context, req *graph.Request) error {
		executionOrder = append(executionOrder, "first")

		return nil
	})

	chain.AddRequestInterceptor(func(ctx context.Context, req *graph.Request) error {
		executionOrder = append(executionOrder, "second")

		return nil
	})

	req := &graph.Request{
		Method: "GET",
		Path:   "/me",
	}

	err := chain.ExecuteRequestInterceptors(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_ResponseInterceptors(t *testing.T) {
	t.Parallel()

	chain := graph.NewInterceptorChain()
	ctx := context.Background()

	var executionOrder []string

	chain.AddResponseInterceptor(func(ctx context.Context, req *graph.Request, resp *graph.Response) error {
		executionOrder = append(executionOrder, "first")

		return nil
	})

	chain.AddResponseInterceptor(func(ctx context.Context, req *graph.Request, resp *graph.Response) error {
		executionOrder = append(executionOrder, "second")

		return nil
	})

	err := chain.ExecuteResponseInterceptors(ctx, &graph.Request{Method: "GET", Path: "/me"}, &graph.Response{StatusCode: 200})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, executionOrder)
}

func TestInterceptorChain_StopsOnError(t *testing.T) {
	t.Parallel()

	chain := graph.NewInterceptorChain()
	called := false

	chain.AddRequestInterceptor(func(ctx context.Context, req *graph.Request) error {
		return errInterceptorTest
	})

	chain.AddRequestInterceptor(func(ctx context.Context, req *graph.Request) error {
		called = true

		return nil
	})

	err := chain.ExecuteRequestInterceptors(context.Background(), &graph.Request{})
	require.ErrorIs(t, err, errInterceptorTest)
	assert.Contains(t, err.Error(), "request interceptor failed")
	assert.False(t, called)
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	interceptor := graph.HeaderInterceptor(map[string]string{"X-Trace": "abc"})

	req := &graph.Request{Headers: http.Header{"Content-Type": {"application/json"}}}
	require.NoError(t, interceptor(context.Background(), req))

	assert.Equal(t, "abc", req.Headers.Get("X-Trace"))
	assert.Equal(t, "application/json", req.Headers.Get("Content-Type"))

	empty := &graph.Request{}
	require.NoError(t, interceptor(context.Background(), empty))
	assert.Equal(t, "abc", empty.Headers.Get("X-Trace"))
}

func TestLoggingInterceptors(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	req := &graph.Request{Method: "GET", Path: "/me", URL: "https://graph.facebook.com/v3.0/me?access_token=***"}
	ctx := context.Background()

	apiErr := &graph.GraphAPIError{
		StatusCode: 400,
		Detail:     &graph.ErrorDetail{Code: 190, Type: "OAuthException", FBTraceID: "trace"},
	}
	transportErr := &graph.TransportError{
		Method: "GET",
		URL:    req.URL,
		Err:    errors.New(`Get "https://graph.facebook.com/v3.0/me?access_token=SECRET-TOKEN": EOF`),
	}

	require.NoError(t, graph.LoggingInterceptor(logger)(ctx, req))
	require.NoError(t, graph.LoggingResponseInterceptor(logger)(ctx, req, &graph.Response{
		StatusCode: 200,
		Body:       []byte(`{"id":"1"}`),
		Duration:   25 * time.Millisecond,
	}))
	require.NoError(t, graph.LoggingResponseInterceptor(logger)(ctx, req, &graph.Response{StatusCode: 400, Error: apiErr}))
	require.NoError(t, graph.LoggingResponseInterceptor(logger)(ctx, req, &graph.Response{Error: transportErr}))

	assert.Equal(t, []string{
		"debug:graph call",
		"debug:graph call done",
		"warn:graph API error",
		"error:graph call failed",
	}, logger.entries)

	assert.Equal(t, req.URL, logger.fields[0]["url"])
	assert.Equal(t, int64(25), logger.fields[1]["duration_ms"])
	assert.Equal(t, 10, logger.fields[1]["body_bytes"])
	assert.Equal(t, 190, logger.fields[2]["code"])
	assert.Equal(t, "trace", logger.fields[2]["fbtrace_id"])
	assert.NotContains(t, logger.fields[3]["error"], "SECRET-TOKEN")
}

func TestMetricsCollector(t *testing.T) {
	t.Parallel()

	collector := graph.NewMetricsCollector()
	interceptor := graph.MetricsResponseInterceptor(collector)

	var updates []string

	collector.SetOnChange(func(endpoint string, metrics graph.Metrics) {
		updates = append(updates, endpoint)
	})

	req := &graph.Request{Method: "POST", Path: "/me/messages"}

	require.NoError(t, interceptor(context.Background(), req, &graph.Response{StatusCode: 200, Duration: 10 * time.Millisecond}))
	require.NoError(t, interceptor(context.Background(), req, &graph.Response{StatusCode: 400, Duration: 30 * time.Millisecond}))

	metrics, ok := collector.GetMetrics("POST /me/messages")
	require.True(t, ok)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(1), metrics.TotalErrors)
	assert.Equal(t, 40*time.Millisecond, metrics.TotalLatency)
	assert.Equal(t, 20*time.Millisecond, metrics.AverageLatency)
	assert.False(t, metrics.LastRequestTime.IsZero())
	assert.Equal(t, []string{"POST /me/messages", "POST /me/messages"}, updates)

	_, ok = collector.GetMetrics("GET /me")
	assert.False(t, ok)
}
