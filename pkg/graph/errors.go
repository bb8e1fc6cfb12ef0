package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired     = errors.New("config is required")
	ErrInvalidPath        = errors.New("path must be non-empty and start with '/'")
	ErrUnsupportedMethod  = errors.New("unsupported HTTP method")
	ErrSessionClosed      = errors.New("session is closed")
	ErrInvalidRootURL     = errors.New("invalid root URL")
	ErrInvalidAPIVersion  = errors.New("invalid API version")
	ErrTimeout            = errors.New("graph request timed out")
	ErrNilMessengerClient = errors.New("messenger requires a graph client")
)

var secretParamPattern = regexp.MustCompile(`(access_token|appsecret_proof)=([^&\s"']*)`)

// RedactURL masks credentials carried in a request URL.
func RedactURL(rawURL string) string {
	return secretParamPattern.ReplaceAllString(rawURL, "$1="+constants.MaskedSecret)
}

// ErrorDetail is the "error" object Graph API puts in failure bodies.
type ErrorDetail struct {
	Message      string `json:"message"       yaml:"message"`
	Type         string `json:"type"          yaml:"type"`
	Code         int    `json:"code"          yaml:"code"`
	ErrorSubcode int    `json:"error_subcode" yaml:"error_subcode"`
	FBTraceID    string `json:"fbtrace_id"    yaml:"fbtrace_id"`
}

// GraphAPIError is returned when the API answers with status >= 400.
type GraphAPIError struct {
	// Message is the raw response body text.
	Message string
	// StatusCode, Header, Method and URL describe the failed exchange.
	// URL has credentials redacted.
	StatusCode int
	Header     http.Header
	Method     string
	URL        string
	// Detail is the parsed error envelope, nil when the body is not one.
	Detail *ErrorDetail
}

// NewGraphAPIError builds a GraphAPIError from a failed response and its body.
func NewGraphAPIError(resp *http.Response, body []byte) *GraphAPIError {
	apiErr := &GraphAPIError{
		Message:    string(body),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
	}

	if resp.Request != nil {
		apiErr.Method = resp.Request.Method
		if resp.Request.URL != nil {
			apiErr.URL = RedactURL(resp.Request.URL.String())
		}
	}

	var envelope struct {
		Error *ErrorDetail `json:"error"`
	}

	if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
		apiErr.Detail = envelope.Error
	}

	return apiErr
}

// Error implements the error interface.
func (e *GraphAPIError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("graph API error (status %d): %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("graph API error: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// Code returns the Graph error code, or 0 when the body had no envelope.
func (e *GraphAPIError) Code() int {
	if e.Detail == nil {
		return 0
	}

	return e.Detail.Code
}

// TransportError reports an exchange that failed before a status was received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return RedactURL(fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err))
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a success response whose body is not valid JSON.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response (status %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsGraphAPIError reports whether err is or wraps a GraphAPIError.
func IsGraphAPIError(err error) bool {
	apiErr := &GraphAPIError{}

	return errors.As(err, &apiErr)
}

// IsTimeout reports whether err is a timeout raised by the client.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsNotFound checks if the error is a Graph API not found error.
func IsNotFound(err error) bool {
	apiErr := &GraphAPIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == constants.HTTPStatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is an authentication failure.
func IsUnauthorized(err error) bool {
	apiErr := &GraphAPIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == constants.HTTPStatusUnauthorized ||
			apiErr.Code() == constants.GraphErrorCodeInvalidToken
	}

	return false
}
