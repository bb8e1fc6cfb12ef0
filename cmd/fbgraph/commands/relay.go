package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
	"github.com/fivetwenty-io/fbgraph/internal/relay"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
)

// NewRelayCommand creates the relay command.
func NewRelayCommand() *cobra.Command {
	var (
		natsURL string
		prefix  string
		queue   string
	)

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Relay Messenger calls from NATS to the Graph API",
		Long: `Subscribe to <prefix>.> in a queue group and perform the Messenger call named
by the last subject token (send, pass_thread_control, profile, profile_delete)
with the message payload. Requests with a reply subject get a JSON reply
{"ok":...,"result":...,"error":...,"status":...}.`,
		Example: `  fbgraph relay --nats-url nats://127.0.0.1:4222
  nats req messenger.out.send '{"recipient":{"id":"PSID"},"message":{"text":"hi"}}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if natsURL == "" {
				natsURL = viper.GetString(constants.ConfigKeyNATSURL)
			}

			if natsURL == "" {
				natsURL = constants.DefaultNATSURL
			}

			messenger, err := createMessenger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			logger := graph.NewSlogLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)))

			r, err := relay.New(messenger, relay.WithPrefix(prefix), relay.WithQueue(queue), relay.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("failed to create relay: %w", err)
			}

			conn, err := nats.Connect(natsURL, nats.Name("fbgraph-relay"))
			if err != nil {
				return fmt.Errorf("failed to connect to NATS at %s: %w", natsURL, err)
			}
			defer conn.Close()

			err = r.Start(conn)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.RelayShutdownTimeout)
			defer cancel()

			err = r.Stop(shutdownCtx)
			if err != nil {
				return fmt.Errorf("failed to stop relay: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL (default "+constants.DefaultNATSURL+")")
	cmd.Flags().StringVar(&prefix, "prefix", constants.DefaultRelayPrefix, "subject prefix to subscribe under")
	cmd.Flags().StringVar(&queue, "queue", constants.DefaultRelayQueue, "queue group name")

	return cmd
}
