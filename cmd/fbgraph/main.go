package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/fbgraph/cmd/fbgraph/commands"
	"github.com/fivetwenty-io/fbgraph/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "fbgraph",
	Short: "Facebook Graph API and Messenger Platform CLI",
	Long: `A command-line interface for the Facebook Graph API.

It issues authenticated Graph API calls, drives the Messenger Platform
(send messages, profile, user profiles, thread handover) and can relay
Messenger calls published on NATS.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.fbgraph/config.yml)")
	rootCmd.PersistentFlags().StringP("token", "t", "", "Graph API access token")
	rootCmd.PersistentFlags().String("app-secret", "", "app secret used for appsecret_proof")
	rootCmd.PersistentFlags().String("api-version", "", "Graph API version (default "+constants.DefaultAPIVersion+")")
	rootCmd.PersistentFlags().String("root-url", "", "Graph API root URL (default "+constants.DefaultRootURL+")")
	rootCmd.PersistentFlags().String("timeout", "", "request timeout, e.g. 10s")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "log requests and responses to stderr")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag(constants.ConfigKeyAccessToken, rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag(constants.ConfigKeyAppSecret, rootCmd.PersistentFlags().Lookup("app-secret"))
	_ = viper.BindPFlag(constants.ConfigKeyAPIVersion, rootCmd.PersistentFlags().Lookup("api-version"))
	_ = viper.BindPFlag(constants.ConfigKeyRootURL, rootCmd.PersistentFlags().Lookup("root-url"))
	_ = viper.BindPFlag(constants.ConfigKeyTimeout, rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag(constants.ConfigKeyOutput, rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag(constants.ConfigKeyDebug, rootCmd.PersistentFlags().Lookup("debug"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewGetCommand())
	rootCmd.AddCommand(commands.NewPostCommand())
	rootCmd.AddCommand(commands.NewDeleteCommand())
	rootCmd.AddCommand(commands.NewMessengerCommand())
	rootCmd.AddCommand(commands.NewRelayCommand())
}

func initConfig() {
	// .env in the working directory, if any
	_ = godotenv.Load()

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.fbgraph/config.yml
		viper.AddConfigPath(filepath.Join(home, ".fbgraph"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// FBGRAPH_ACCESS_TOKEN, FBGRAPH_NATS_URL, ...
	viper.SetEnvPrefix("FBGRAPH")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool(constants.ConfigKeyDebug) {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
