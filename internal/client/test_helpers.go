package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fbhttp "github.com/fivetwenty-io/fbgraph/internal/http"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
)

// Test static errors.
var (
	ErrTestSomeError = errors.New("some error")
)

// TestAccessToken is the token used by NewTestClient.
const TestAccessToken = "test-token"

// NewTestClient creates a GraphClient for baseURL authenticated with TestAccessToken.
func NewTestClient(baseURL string) *GraphClient {
	return NewGraphClient(fbhttp.NewClient(baseURL, fbhttp.WithAccessToken(TestAccessToken)))
}

// NewTestMessenger creates a MessengerClient over NewTestClient.
func NewTestMessenger(t *testing.T, baseURL string) *MessengerClient {
	t.Helper()

	messenger, err := NewMessengerClient(NewTestClient(baseURL))
	require.NoError(t, err)

	return messenger
}

// TestMessengerOperation describes a Messenger call and the request it must produce.
type TestMessengerOperation struct {
	Name           string
	Call           func(ctx context.Context, messenger *MessengerClient) (any, error)
	ExpectedMethod string
	ExpectedPath   string
	ExpectedQuery  map[string]string
	ExpectedBody   string // JSON, compared semantically; empty means no body
	StatusCode     int
	Response       string
	Expected       any
	WantErr        bool
	ErrMessage     string
}

// RunMessengerOperationTests runs each operation against its own test server.
func RunMessengerOperationTests(t *testing.T, tests []TestMessengerOperation) {
	t.Helper()

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedMethod, request.Method)
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, TestAccessToken, request.URL.Query().Get("access_token"))

				for key, value := range testCase.ExpectedQuery {
					assert.Equal(t, value, request.URL.Query().Get(key), "query %s", key)
				}

				body, _ := io.ReadAll(request.Body)
				if testCase.ExpectedBody == "" {
					assert.Empty(t, body)
				} else {
					assert.JSONEq(t, testCase.ExpectedBody, string(body))
				}

				writer.WriteHeader(testCase.StatusCode)
				_, _ = writer.Write([]byte(testCase.Response))
			}))
			defer server.Close()

			result, err := testCase.Call(context.Background(), NewTestMessenger(t, server.URL))

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.Expected, result)
		})
	}
}

// MustJSON marshals value or fails the test.
func MustJSON(t *testing.T, value any) string {
	t.Helper()

	data, err := json.Marshal(value)
	require.NoError(t, err)

	return string(data)
}

// FailingClient is a graph.Client whose calls all fail with ErrTestSomeError.
type FailingClient struct{}

func (FailingClient) Request(context.Context, string, string, ...graph.RequestOption) (any, error) {
	return nil, ErrTestSomeError
}

func (FailingClient) Get(context.Context, string, ...graph.RequestOption) (any, error) {
	return nil, ErrTestSomeError
}

func (FailingClient) Post(context.Context, string, any, ...graph.RequestOption) (any, error) {
	return nil, ErrTestSomeError
}

func (FailingClient) Delete(context.Context, string, ...graph.RequestOption) (any, error) {
	return nil, ErrTestSomeError
}

func (FailingClient) BaseURL() string { return "" }
