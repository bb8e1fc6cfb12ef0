package graph

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// Session is a transport session: the connection pool calls are issued on.
//
// A Session is safe for concurrent use and may be shared by any number of
// calls and clients. Whoever creates a Session owns it and must Close it;
// the client only closes the per-call sessions it creates itself.
type Session struct {
	client *retryablehttp.Client
	closed atomic.Bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTransport replaces the session's round tripper.
func WithTransport(transport http.RoundTripper) SessionOption {
	return func(s *Session) {
		s.client.HTTPClient.Transport = transport
	}
}

// WithSessionLogger forwards transport-level logs to logger.
func WithSessionLogger(logger Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.client.Logger = retryablehttp.LeveledLogger(leveledLogger{inner: logger})
		}
	}
}

// NewSession creates a pooled session meant to be shared across calls.
func NewSession(opts ...SessionOption) *Session {
	return newSession(cleanhttp.DefaultPooledTransport(), opts...)
}

// NewEphemeralSession creates a session without keep-alives, meant for a
// single call.
func NewEphemeralSession(opts ...SessionOption) *Session {
	return newSession(cleanhttp.DefaultTransport(), opts...)
}

func newSession(transport http.RoundTripper, opts ...SessionOption) *Session {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{Transport: transport}
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.CheckRetry = neverRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	session := &Session{client: retryClient}
	for _, opt := range opts {
		opt(session)
	}

	return session
}

// neverRetry hands every outcome straight back to the caller.
func neverRetry(_ context.Context, _ *http.Response, _ error) (bool, error) {
	return false, nil
}

// Do sends req once.
func (s *Session) Do(req *retryablehttp.Request) (*http.Response, error) {
	if s.closed.Load() {
		return nil, ErrSessionClosed
	}

	return s.client.Do(req)
}

// Close releases idle connections. Further calls on the session fail with
// ErrSessionClosed. Close is idempotent.
func (s *Session) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.client.HTTPClient.CloseIdleConnections()
	}
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed.Load()
}
