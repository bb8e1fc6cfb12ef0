package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
)

// NewMessengerCommand creates the messenger command group.
func NewMessengerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messenger",
		Short: "Messenger Platform operations",
		Long:  "Send messages, manage the page's Messenger profile, read user profiles and hand over threads",
	}

	cmd.AddCommand(newMessengerProfileCommand())
	cmd.AddCommand(newMessengerUserCommand())
	cmd.AddCommand(newMessengerSendCommand())
	cmd.AddCommand(newMessengerPassThreadControlCommand())

	return cmd
}

func newMessengerProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the Messenger profile",
		Long:  "Set or delete Messenger profile properties such as greeting, get_started and persistent_menu",
	}

	cmd.AddCommand(newMessengerProfileSetCommand())
	cmd.AddCommand(newMessengerProfileDeleteCommand())

	return cmd
}

func newMessengerProfileSetCommand() *cobra.Command {
	var data, file string

	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Update Messenger profile properties",
		Example: `  fbgraph messenger profile set --data '{"get_started":{"payload":"GET_STARTED"}}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readData(data, file)
			if err != nil {
				return err
			}

			return runMessengerCall(cmd, func(ctx context.Context, messenger graph.Messenger) (any, error) {
				return messenger.UpdateProfile(ctx, body)
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON profile properties")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file containing the JSON profile properties")

	return cmd
}

func newMessengerProfileDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete FIELD...",
		Short:   "Delete Messenger profile properties",
		Example: `  fbgraph messenger profile delete greeting persistent_menu`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return constants.ErrFieldsRequired
			}

			return runMessengerCall(cmd, func(ctx context.Context, messenger graph.Messenger) (any, error) {
				return messenger.DeleteProfile(ctx, args)
			})
		},
	}

	return cmd
}

func newMessengerUserCommand() *cobra.Command {
	var fields string

	cmd := &cobra.Command{
		Use:   "user PSID",
		Short: "Get a user's profile",
		Long:  "Read the profile of the user identified by a page-scoped ID",
		Example: `  fbgraph messenger user 1254459154682919
  fbgraph messenger user 1254459154682919 --fields first_name,locale`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fieldList []string
			if fields != "" {
				fieldList = strings.Split(fields, ",")
			}

			return runMessengerCall(cmd, func(ctx context.Context, messenger graph.Messenger) (any, error) {
				return messenger.GetUserProfile(ctx, args[0], fieldList)
			})
		},
	}

	cmd.Flags().StringVar(&fields, "fields", "", "comma separated fields (default name,first_name,last_name,profile_pic)")

	return cmd
}

func newMessengerSendCommand() *cobra.Command {
	var (
		data, file string
		recipient  string
		text       string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message",
		Long:  "Send a message through the Send API. Use --to and --text for a plain text message, or --data/--file for a full payload",
		Example: `  fbgraph messenger send --to 1254459154682919 --text "Hello"
  fbgraph messenger send --file message.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any

			if recipient != "" && text != "" && data == "" && file == "" {
				body = map[string]any{
					"recipient": map[string]string{"id": recipient},
					"message":   map[string]string{"text": text},
				}
			} else {
				raw, err := readData(data, file)
				if err != nil {
					return err
				}

				body = raw
			}

			return runMessengerCall(cmd, func(ctx context.Context, messenger graph.Messenger) (any, error) {
				return messenger.SendMessage(ctx, body)
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON message payload")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file containing the JSON message payload")
	cmd.Flags().StringVar(&recipient, "to", "", "recipient PSID")
	cmd.Flags().StringVar(&text, "text", "", "message text")

	return cmd
}

func newMessengerPassThreadControlCommand() *cobra.Command {
	var data, file string

	cmd := &cobra.Command{
		Use:     "pass-thread-control",
		Short:   "Pass thread control to another app",
		Example: `  fbgraph messenger pass-thread-control --data '{"recipient":{"id":"1254459154682919"},"target_app_id":263902037430900}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readData(data, file)
			if err != nil {
				return err
			}

			return runMessengerCall(cmd, func(ctx context.Context, messenger graph.Messenger) (any, error) {
				return messenger.PassThreadControl(ctx, body)
			})
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON handover payload")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file containing the JSON handover payload")

	return cmd
}

func runMessengerCall(cmd *cobra.Command, call func(context.Context, graph.Messenger) (any, error)) error {
	messenger, err := createMessenger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := call(ctx, messenger)
	if err != nil {
		return fmt.Errorf("messenger request failed: %w", err)
	}

	return outputResult(cmd.OutOrStdout(), result)
}
