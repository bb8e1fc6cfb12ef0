package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
	"github.com/fivetwenty-io/fbgraph/pkg/fbclient"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a Graph API access token",
		Long: `Verify an access token with GET /me and store it in the configuration file.

Without --token the token is read from the terminal without echo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Access token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read access token: %w", err)
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout())

				token = string(byteToken)
			}

			token = strings.TrimSpace(token)
			if token == "" {
				return constants.ErrEmptyAccessToken
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			me, err := verifyToken(ctx, token)
			if err != nil {
				return err
			}

			path, err := configFilePath()
			if err != nil {
				return err
			}

			config, err := readConfigFile(path)
			if err != nil {
				return err
			}

			config.AccessToken = token

			err = saveConfigStruct(path, config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", me["name"], me["id"])

			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "access token (prompted when omitted)")

	return cmd
}

// verifyToken reads /me with token using the configured endpoint settings.
func verifyToken(ctx context.Context, token string) (map[string]any, error) {
	config := loadConfig()
	config.AccessToken = token

	graphConfig, err := newGraphConfig(config, os.Stderr)
	if err != nil {
		return nil, err
	}

	client, err := fbclient.New(graphConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	result, err := client.Get(ctx, constants.PathMe, graph.WithParam(constants.FieldsParam, "id,name"))
	if err != nil {
		if graph.IsUnauthorized(err) {
			return nil, fmt.Errorf("access token rejected: %w", err)
		}

		return nil, fmt.Errorf("failed to verify access token: %w", err)
	}

	me, _ := result.(map[string]any)
	if me == nil {
		me = map[string]any{}
	}

	for _, key := range []string{"id", "name"} {
		if _, ok := me[key]; !ok {
			me[key] = constants.NotAvailable
		}
	}

	if viper.GetBool(constants.ConfigKeyDebug) {
		_, _ = fmt.Fprintf(os.Stderr, "Verified token against %s\n", client.BaseURL())
	}

	return me, nil
}
