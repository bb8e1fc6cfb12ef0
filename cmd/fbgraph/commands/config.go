package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in ~/.fbgraph/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := maskSecrets(loadConfig())

			output := viper.GetString(constants.ConfigKeyOutput)
			if output == constants.FormatJSON || output == constants.FormatYAML {
				return outputResult(cmd.OutOrStdout(), configMap(config))
			}

			return renderConfigTable(cmd.OutOrStdout(), config)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Keys: access_token, app_secret, api_version, root_url, timeout, output, debug, nats_url`,
		Args: cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			config, err := readConfigFile(path)
			if err != nil {
				return err
			}

			err = setConfigValue(config, args[0], args[1])
			if err != nil {
				return err
			}

			err = saveConfigStruct(path, config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			config, err := readConfigFile(path)
			if err != nil {
				return err
			}

			err = unsetConfigValue(config, args[0])
			if err != nil {
				return err
			}

			err = saveConfigStruct(path, config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", args[0])

			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case constants.ConfigKeyAccessToken:
		if value == "" {
			return constants.ErrEmptyAccessToken
		}

		config.AccessToken = value
	case constants.ConfigKeyAppSecret:
		config.AppSecret = value
	case constants.ConfigKeyAPIVersion:
		config.APIVersion = value
	case constants.ConfigKeyRootURL:
		config.RootURL = value
	case constants.ConfigKeyTimeout:
		_, err := parseTimeout(value)
		if err != nil {
			return err
		}

		config.Timeout = value
	case constants.ConfigKeyOutput:
		config.Output = value
	case constants.ConfigKeyDebug:
		debug, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %q", constants.ErrInvalidDebugValue, value)
		}

		config.Debug = debug
	case constants.ConfigKeyNATSURL:
		config.NATSURL = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

func unsetConfigValue(config *Config, key string) error {
	switch key {
	case constants.ConfigKeyAccessToken:
		config.AccessToken = ""
	case constants.ConfigKeyAppSecret:
		config.AppSecret = ""
	case constants.ConfigKeyAPIVersion:
		config.APIVersion = ""
	case constants.ConfigKeyRootURL:
		config.RootURL = ""
	case constants.ConfigKeyTimeout:
		config.Timeout = ""
	case constants.ConfigKeyOutput:
		config.Output = ""
	case constants.ConfigKeyDebug:
		config.Debug = false
	case constants.ConfigKeyNATSURL:
		config.NATSURL = ""
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// parseTimeout accepts a Go duration ("15s") or a number of seconds.
func parseTimeout(value string) (time.Duration, error) {
	if seconds, err := strconv.ParseFloat(value, 64); err == nil && seconds > 0 {
		return time.Duration(seconds * float64(time.Second)), nil
	}

	timeout, err := time.ParseDuration(value)
	if err != nil || timeout <= 0 {
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidTimeout, value)
	}

	return timeout, nil
}

func maskSecrets(config *Config) *Config {
	masked := *config

	if masked.AccessToken != "" {
		masked.AccessToken = constants.MaskedSecret
	}

	if masked.AppSecret != "" {
		masked.AppSecret = constants.MaskedSecret
	}

	return &masked
}

func configMap(config *Config) map[string]any {
	return map[string]any{
		constants.ConfigKeyAccessToken: config.AccessToken,
		constants.ConfigKeyAppSecret:   config.AppSecret,
		constants.ConfigKeyAPIVersion:  config.APIVersion,
		constants.ConfigKeyRootURL:     config.RootURL,
		constants.ConfigKeyTimeout:     config.Timeout,
		constants.ConfigKeyOutput:      config.Output,
		constants.ConfigKeyDebug:       config.Debug,
		constants.ConfigKeyNATSURL:     config.NATSURL,
	}
}

func renderConfigTable(writer io.Writer, config *Config) error {
	table := tablewriter.NewWriter(writer)
	table.Header("Setting", "Value")

	settings := configMap(config)

	for _, key := range sortedKeys(settings) {
		value := formatValue(settings[key])
		if value == "" {
			value = constants.NotAvailable
		}

		_ = table.Append(key, value)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
