package commands_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/fbgraph/cmd/fbgraph/commands"
	"github.com/fivetwenty-io/fbgraph/internal/constants"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func TestNewGraphCommands(t *testing.T) {
	t.Parallel()

	get := commands.NewGetCommand()
	assert.Equal(t, "get PATH", get.Use)
	assert.NotNil(t, get.RunE)
	assert.NotNil(t, get.Flags().Lookup("fields"))
	assert.Equal(t, "q", get.Flags().Lookup("query").Shorthand)

	post := commands.NewPostCommand()
	assert.Equal(t, "post PATH", post.Use)

	for _, flagName := range []string{"query", "data", "file"} {
		assert.NotNil(t, post.Flags().Lookup(flagName), "Flag %s should exist", flagName)
	}

	del := commands.NewDeleteCommand()
	assert.Equal(t, "delete PATH", del.Use)
	require.Error(t, del.Args(del, nil))
	require.NoError(t, del.Args(del, []string{"/123"}))
}

func TestNewMessengerCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewMessengerCommand()
	assert.Equal(t, "messenger", cmd.Use)

	var commandNames []string
	for _, subcmd := range cmd.Commands() {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.ElementsMatch(t, []string{"profile", "user", "send", "pass-thread-control"}, commandNames)

	profile := findSubcommand(cmd, "profile")
	require.NotNil(t, profile)
	assert.NotNil(t, findSubcommand(profile, "set"))
	assert.NotNil(t, findSubcommand(profile, "delete"))

	send := findSubcommand(cmd, "send")
	require.NotNil(t, send)

	for _, flagName := range []string{"to", "text", "data", "file"} {
		assert.NotNil(t, send.Flags().Lookup(flagName), "Flag %s should exist", flagName)
	}

	user := findSubcommand(cmd, "user")
	require.NotNil(t, user)
	assert.Equal(t, "user PSID", user.Use)
}

func TestNewConfigCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)

	for _, name := range []string{"show", "set", "unset"} {
		assert.NotNil(t, findSubcommand(cmd, name), "subcommand %s should exist", name)
	}

	set := findSubcommand(cmd, "set")
	require.Error(t, set.Args(set, []string{"access_token"}))
	require.NoError(t, set.Args(set, []string{"access_token", "token"}))
}

func TestNewRelayCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewRelayCommand()
	assert.Equal(t, "relay", cmd.Use)
	assert.Equal(t, constants.DefaultRelayPrefix, cmd.Flags().Lookup("prefix").DefValue)
	assert.Equal(t, constants.DefaultRelayQueue, cmd.Flags().Lookup("queue").DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("nats-url"))
}

func TestNewLoginCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewLoginCommand()
	assert.Equal(t, "login", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("token"))
}

func TestNewVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := commands.NewVersionCommand("1.2.3", "abc123", "2024-01-01")
	assert.Equal(t, "version", cmd.Use)
	assert.Equal(t, "Display version information", cmd.Short)
	assert.NotNil(t, cmd.RunE)
}
