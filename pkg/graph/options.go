package graph

import (
	"maps"
	"net/url"
	"time"
)

// RequestOptions enumerates what a caller may set on a single call.
//
//   - Query is merged with the access token; access_token is always
//     overwritten by the client's token.
//   - Headers, when non-empty, replace the default headers entirely.
//   - Body is sent as JSON. []byte and json.RawMessage are sent verbatim.
//   - Timeout, when positive, replaces the client timeout for this call.
//   - Session, when set, takes precedence over the client's session and is
//     never closed by the client.
type RequestOptions struct {
	Query   url.Values
	Headers map[string]string
	Body    any
	Timeout time.Duration
	Session *Session
}

// RequestOption mutates RequestOptions.
type RequestOption func(*RequestOptions)

// NewRequestOptions applies opts in order onto an empty RequestOptions.
func NewRequestOptions(opts ...RequestOption) *RequestOptions {
	options := &RequestOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	return options
}

// WithQuery adds every value of query to the call's query parameters.
func WithQuery(query url.Values) RequestOption {
	return func(o *RequestOptions) {
		if o.Query == nil {
			o.Query = url.Values{}
		}

		for key, values := range query {
			for _, value := range values {
				o.Query.Add(key, value)
			}
		}
	}
}

// WithParam sets a single query parameter.
func WithParam(key, value string) RequestOption {
	return func(o *RequestOptions) {
		if o.Query == nil {
			o.Query = url.Values{}
		}

		o.Query.Set(key, value)
	}
}

// WithHeaders replaces the default headers for the call.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *RequestOptions) {
		o.Headers = maps.Clone(headers)
	}
}

// WithBody sets the JSON body.
func WithBody(body any) RequestOption {
	return func(o *RequestOptions) {
		o.Body = body
	}
}

// WithTimeout overrides the client timeout for the call.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(o *RequestOptions) {
		o.Timeout = timeout
	}
}

// WithSession issues the call on a caller-owned session.
func WithSession(session *Session) RequestOption {
	return func(o *RequestOptions) {
		o.Session = session
	}
}
