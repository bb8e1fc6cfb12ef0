package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
	"github.com/fivetwenty-io/fbgraph/pkg/fbclient"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
)

// JSON formatting.
const defaultJSONIndent = 2

// Config represents the CLI configuration file.
type Config struct {
	AccessToken string `json:"access_token,omitempty" yaml:"access_token,omitempty"`
	AppSecret   string `json:"app_secret,omitempty"   yaml:"app_secret,omitempty"`
	APIVersion  string `json:"api_version,omitempty"  yaml:"api_version,omitempty"`
	RootURL     string `json:"root_url,omitempty"     yaml:"root_url,omitempty"`
	Timeout     string `json:"timeout,omitempty"      yaml:"timeout,omitempty"`
	Output      string `json:"output,omitempty"       yaml:"output,omitempty"`
	Debug       bool   `json:"debug,omitempty"        yaml:"debug,omitempty"`
	NATSURL     string `json:"nats_url,omitempty"     yaml:"nats_url,omitempty"`
}

// loadConfig reads the effective configuration from viper (file, env, flags).
func loadConfig() *Config {
	return &Config{
		AccessToken: viper.GetString(constants.ConfigKeyAccessToken),
		AppSecret:   viper.GetString(constants.ConfigKeyAppSecret),
		APIVersion:  viper.GetString(constants.ConfigKeyAPIVersion),
		RootURL:     viper.GetString(constants.ConfigKeyRootURL),
		Timeout:     viper.GetString(constants.ConfigKeyTimeout),
		Output:      viper.GetString(constants.ConfigKeyOutput),
		Debug:       viper.GetBool(constants.ConfigKeyDebug),
		NATSURL:     viper.GetString(constants.ConfigKeyNATSURL),
	}
}

// configFilePath returns the file viper read, or ~/.fbgraph/config.yml.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".fbgraph", "config.yml"), nil
}

// readConfigFile loads only what is persisted, without env or flag overrides.
func readConfigFile(path string) (*Config, error) {
	config := &Config{}

	// path comes from viper or the user's home directory
	// #nosec G304
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func saveConfigStruct(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// newGraphConfig builds the client configuration from the CLI configuration.
func newGraphConfig(config *Config, stderr io.Writer) (*graph.Config, error) {
	if config.AccessToken == "" {
		return nil, constants.ErrNoAccessToken
	}

	graphConfig := &graph.Config{
		AccessToken: config.AccessToken,
		AppSecret:   config.AppSecret,
		APIVersion:  config.APIVersion,
		RootURL:     config.RootURL,
		Debug:       config.Debug,
	}

	if config.Timeout != "" {
		timeout, err := parseTimeout(config.Timeout)
		if err != nil {
			return nil, err
		}

		graphConfig.Timeout = timeout
	}

	if config.Debug {
		handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		graphConfig.Logger = graph.NewSlogLogger(slog.New(handler))
	}

	return graphConfig, nil
}

func createClient(stderr io.Writer) (graph.Client, error) {
	graphConfig, err := newGraphConfig(loadConfig(), stderr)
	if err != nil {
		return nil, err
	}

	client, err := fbclient.New(graphConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func createMessenger(stderr io.Writer) (graph.Messenger, error) {
	graphConfig, err := newGraphConfig(loadConfig(), stderr)
	if err != nil {
		return nil, err
	}

	messenger, err := fbclient.NewMessenger(graphConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create messenger client: %w", err)
	}

	return messenger, nil
}

// parseQuery turns repeated key=value flags into query parameters.
func parseQuery(params []string) (url.Values, error) {
	query := url.Values{}

	for _, param := range params {
		key, value, found := strings.Cut(param, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidQueryParam, param)
		}

		query.Add(key, value)
	}

	return query, nil
}

// readData returns the request body from --data or --file, verbatim.
func readData(data, file string) (json.RawMessage, error) {
	if data != "" && file != "" {
		return nil, constants.ErrDataAndFile
	}

	var raw []byte

	switch {
	case data != "":
		raw = []byte(data)
	case file != "":
		if strings.Contains(file, "..") {
			return nil, fmt.Errorf("%w: %s", constants.ErrDirectoryTraversal, file)
		}

		// #nosec G304 -- the user names the file to send
		content, err := os.ReadFile(filepath.Clean(file))
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}

		raw = content
	default:
		return nil, constants.ErrDataRequired
	}

	if !json.Valid(raw) {
		return nil, constants.ErrInvalidPayload
	}

	return json.RawMessage(raw), nil
}

// outputResult renders a decoded Graph response in the configured format.
func outputResult(writer io.Writer, result any) error {
	switch viper.GetString(constants.ConfigKeyOutput) {
	case constants.FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		return encoder.Encode(result)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(writer)

		return encoder.Encode(result)
	default:
		return renderTable(writer, result)
	}
}

func renderTable(writer io.Writer, result any) error {
	table := tablewriter.NewWriter(writer)

	switch value := result.(type) {
	case map[string]any:
		if data, ok := value["data"].([]any); ok && len(value) <= 2 {
			// Graph edges: {"data": [...], "paging": {...}}
			return renderTable(writer, data)
		}

		table.Header("Property", "Value")

		for _, key := range sortedKeys(value) {
			_ = table.Append(key, formatValue(value[key]))
		}
	case []any:
		columns := collectColumns(value)
		if len(columns) == 0 {
			table.Header("Value")

			for _, item := range value {
				_ = table.Append(formatValue(item))
			}

			break
		}

		header := make([]any, len(columns))
		for i, column := range columns {
			header[i] = column
		}

		table.Header(header...)

		for _, item := range value {
			row := make([]any, len(columns))
			object, _ := item.(map[string]any)

			for i, column := range columns {
				row[i] = formatValue(object[column])
			}

			_ = table.Append(row...)
		}
	default:
		table.Header("Value")
		_ = table.Append(formatValue(value))
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// collectColumns returns the sorted union of keys of the objects in items.
func collectColumns(items []any) []string {
	seen := map[string]any{}

	for _, item := range items {
		object, ok := item.(map[string]any)
		if !ok {
			continue
		}

		for key := range object {
			seen[key] = nil
		}
	}

	return sortedKeys(seen)
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return constants.NotAvailable
	case string:
		return v
	case map[string]any, []any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}

		return string(data)
	default:
		return fmt.Sprint(v)
	}
}
