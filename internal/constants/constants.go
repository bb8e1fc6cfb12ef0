package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Graph API endpoint defaults.
const (
	// DefaultRootURL is the Graph API host.
	DefaultRootURL = "https://graph.facebook.com"

	// DefaultAPIVersion is the Graph API version used when none is configured.
	DefaultAPIVersion = "3.0"

	// VersionPrefix separates the root URL from the API version.
	VersionPrefix = "/v"

	// DefaultUserAgent is sent when no User-Agent header is configured.
	DefaultUserAgent = "fbgraph-go"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default wall-clock bound for a single Graph call.
	DefaultHTTPTimeout = 10 * time.Second

	// RelayShutdownTimeout bounds draining of the relay subscription.
	RelayShutdownTimeout = 5 * time.Second
)

// Request parameters and headers.
const (
	// AccessTokenParam carries the access token on every request.
	AccessTokenParam = "access_token"

	// AppSecretProofParam carries the HMAC of the access token.
	AppSecretProofParam = "appsecret_proof"

	// FieldsParam selects the fields of a node.
	FieldsParam = "fields"

	// HeaderContentType is the content type header name.
	HeaderContentType = "Content-Type"

	// HeaderUserAgent is the user agent header name.
	HeaderUserAgent = "User-Agent"

	// ContentTypeJSON is the default request content type.
	ContentTypeJSON = "application/json"
)

// HTTP status codes commonly used.
const (
	// HTTPStatusBadRequest is the first status treated as a Graph API error.
	HTTPStatusBadRequest = 400

	// HTTPStatusUnauthorized is returned for invalid or expired tokens.
	HTTPStatusUnauthorized = 401

	// HTTPStatusNotFound is returned for unknown nodes.
	HTTPStatusNotFound = 404
)

// Graph API error codes.
const (
	// GraphErrorCodeInvalidToken is the OAuthException code for bad or expired tokens.
	GraphErrorCodeInvalidToken = 190
)

// Messenger Platform paths, relative to the versioned base URL.
const (
	// PathMessengerProfile reads and writes the page's Messenger profile.
	PathMessengerProfile = "/me/messenger_profile"

	// PathMessages is the Send API.
	PathMessages = "/me/messages"

	// PathPassThreadControl is the handover protocol pass endpoint.
	PathPassThreadControl = "/me/pass_thread_control"

	// PathMe is the token owner node.
	PathMe = "/me"
)

// DefaultUserProfileFields are requested by GetUserProfile when no fields are given.
var DefaultUserProfileFields = []string{"name", "first_name", "last_name", "profile_pic"}

// Relay defaults.
const (
	// DefaultRelayPrefix is the subject prefix the relay subscribes under.
	DefaultRelayPrefix = "messenger.out"

	// DefaultRelayQueue is the queue group shared by relay instances.
	DefaultRelayQueue = "fbgraph-relay"

	// DefaultNATSURL is used when no NATS URL is configured.
	DefaultNATSURL = "nats://127.0.0.1:4222"
)

// Relay actions, taken from the last token of the subject.
const (
	RelayActionSend              = "send"
	RelayActionPassThreadControl = "pass_thread_control"
	RelayActionProfile           = "profile"
	RelayActionProfileDelete     = "profile_delete"
)

// Format constants.
const (
	// FormatJSON represents JSON output format.
	FormatJSON = "json"

	// FormatYAML represents YAML output format.
	FormatYAML = "yaml"

	// FormatTable represents table output format.
	FormatTable = "table"
)

// UI and display constants.
const (
	// NotAvailable represents unavailable data.
	NotAvailable = "N/A"

	// MaskedSecret is shown in place of tokens and secrets.
	MaskedSecret = "***"

	// MinimumArgumentCount is the arity of "config set KEY VALUE".
	MinimumArgumentCount = 2
)

// Configuration keys shared by the CLI and viper.
const (
	ConfigKeyAccessToken = "access_token"
	ConfigKeyAppSecret   = "app_secret"
	ConfigKeyAPIVersion  = "api_version"
	ConfigKeyRootURL     = "root_url"
	ConfigKeyTimeout     = "timeout"
	ConfigKeyOutput      = "output"
	ConfigKeyDebug       = "debug"
	ConfigKeyNATSURL     = "nats_url"
)
