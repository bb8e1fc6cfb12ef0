package graph

import (
	"context"
	"time"
)

// Client issues authenticated calls against the versioned Graph API base URL.
//
// Every method returns the decoded JSON body (map[string]any, []any, ...) on
// success. Failures are one of *GraphAPIError, *DecodeError, *TransportError
// or an error wrapping ErrTimeout.
type Client interface {
	Request(ctx context.Context, method, path string, opts ...RequestOption) (any, error)
	Get(ctx context.Context, path string, opts ...RequestOption) (any, error)
	Post(ctx context.Context, path string, body any, opts ...RequestOption) (any, error)
	Delete(ctx context.Context, path string, opts ...RequestOption) (any, error)

	// BaseURL returns the versioned base URL computed at construction.
	BaseURL() string
}

// Messenger exposes the Messenger Platform endpoints on top of a Client.
type Messenger interface {
	UpdateProfile(ctx context.Context, data any, opts ...RequestOption) (any, error)
	DeleteProfile(ctx context.Context, fields []string, opts ...RequestOption) (any, error)
	GetUserProfile(ctx context.Context, psid string, fields []string, opts ...RequestOption) (any, error)
	SendMessage(ctx context.Context, data any, opts ...RequestOption) (any, error)
	PassThreadControl(ctx context.Context, data any, opts ...RequestOption) (any, error)

	// Graph returns the underlying generic client.
	Graph() Client
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a graph.Client.
//
// The versioned base URL ("<RootURL>/v<APIVersion>") is computed once by the
// constructor. Changing the Config afterwards does not affect clients that
// were already built from it.
type Config struct {
	// AccessToken is sent as the access_token query parameter on every
	// request. Empty means requests are sent without a token.
	AccessToken string
	// AppSecret, when set, adds appsecret_proof (HMAC-SHA256 of the token).
	AppSecret string

	// RootURL defaults to https://graph.facebook.com.
	RootURL string
	// APIVersion defaults to "3.0". A leading "v" is accepted.
	APIVersion string

	// Headers are the default request headers, used whenever a call does
	// not pass its own. Defaults to Content-Type: application/json.
	Headers map[string]string
	// Timeout bounds each call. Defaults to 10 seconds.
	Timeout time.Duration
	// UserAgent is added when the effective headers carry none.
	UserAgent string

	// Session is shared by every call that does not pass its own. When nil,
	// each such call gets a session of its own that is closed before the
	// call returns.
	Session *Session

	// Debug logs each request and response through Logger.
	Debug bool
	// Logger is optional; nothing is logged without it.
	Logger Logger
	// Interceptors run around every call.
	Interceptors *InterceptorChain
}
