package constants

import "errors"

// Configuration errors.
var (
	ErrNoAccessToken     = errors.New("no access token configured, use 'fbgraph login' or --token")
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
	ErrInvalidTimeout    = errors.New("invalid timeout value")
	ErrInvalidDebugValue = errors.New("debug must be 'true' or 'false'")
)

// Input errors.
var (
	ErrInvalidQueryParam  = errors.New("invalid query parameter, expected key=value")
	ErrDataRequired       = errors.New("request body is required (use --data or --file)")
	ErrDataAndFile        = errors.New("--data and --file are mutually exclusive")
	ErrFieldsRequired     = errors.New("at least one field is required")
	ErrEmptyAccessToken   = errors.New("access token must not be empty")
	ErrDirectoryTraversal = errors.New("path contains directory traversal sequences")
)

// Relay errors.
var (
	ErrUnknownRelayAction = errors.New("unknown relay action")
	ErrRelayStarted       = errors.New("relay already started")
	ErrInvalidPayload     = errors.New("payload is not valid JSON")
)
