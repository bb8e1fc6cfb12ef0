// Package fbclient provides the main entry point for creating Graph API clients
package fbclient

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/fivetwenty-io/fbgraph/internal/client"
	"github.com/fivetwenty-io/fbgraph/internal/constants"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
)

var apiVersionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)

// New creates a Graph API client. The versioned base URL is computed here
// once; config is not modified and later changes to it are not observed.
func New(config *graph.Config) (graph.Client, error) {
	if config == nil {
		return nil, graph.ErrConfigRequired
	}

	baseURL, err := BaseURL(config.RootURL, config.APIVersion)
	if err != nil {
		return nil, err
	}

	// Work on a copy so the caller's Config stays untouched.
	normalized := *config
	if normalized.UserAgent == "" {
		normalized.UserAgent = constants.DefaultUserAgent
	}

	return client.New(baseURL, &normalized), nil
}

// NewMessenger creates a client for the Messenger Platform endpoints.
func NewMessenger(config *graph.Config) (graph.Messenger, error) {
	graphClient, err := New(config)
	if err != nil {
		return nil, err
	}

	messenger, err := client.NewMessengerClient(graphClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create messenger client: %w", err)
	}

	return messenger, nil
}

// BaseURL returns "<root>/v<version>" with defaults applied. A root without
// a scheme gets https://, and a version may carry a leading "v".
func BaseURL(rootURL, apiVersion string) (string, error) {
	root, err := normalizeRootURL(rootURL)
	if err != nil {
		return "", err
	}

	version, err := normalizeAPIVersion(apiVersion)
	if err != nil {
		return "", err
	}

	return root + constants.VersionPrefix + version, nil
}

func normalizeRootURL(rootURL string) (string, error) {
	root := strings.TrimRight(strings.TrimSpace(rootURL), "/")
	if root == "" {
		return constants.DefaultRootURL, nil
	}

	if !strings.HasPrefix(root, "http://") && !strings.HasPrefix(root, "https://") {
		root = "https://" + root
	}

	parsed, err := url.Parse(root)
	if err != nil {
		return "", fmt.Errorf("%w: %w", graph.ErrInvalidRootURL, err)
	}

	if parsed.Host == "" || parsed.RawQuery != "" || parsed.Fragment != "" {
		return "", fmt.Errorf("%w: %q", graph.ErrInvalidRootURL, rootURL)
	}

	return root, nil
}

func normalizeAPIVersion(apiVersion string) (string, error) {
	version := strings.TrimSpace(apiVersion)
	version = strings.TrimPrefix(strings.TrimPrefix(version, "v"), "V")

	if version == "" {
		return constants.DefaultAPIVersion, nil
	}

	if !apiVersionPattern.MatchString(version) {
		return "", fmt.Errorf("%w: %q", graph.ErrInvalidAPIVersion, apiVersion)
	}

	return version, nil
}
