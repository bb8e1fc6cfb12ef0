package commands

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var (
		params []string
		fields string
	)

	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Read a Graph API node or edge",
		Long:  "Issue a GET request against the versioned Graph API base URL and print the decoded response",
		Example: `  fbgraph get /me
  fbgraph get /me --fields id,name
  fbgraph get /me/accounts -q limit=5 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseQuery(params)
			if err != nil {
				return err
			}

			if fields != "" {
				query.Set(constants.FieldsParam, fields)
			}

			return runGraphCall(cmd, http.MethodGet, args[0], graph.WithQuery(query))
		},
	}

	cmd.Flags().StringArrayVarP(&params, "query", "q", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&fields, "fields", "", "comma separated fields to return")

	return cmd
}

// NewPostCommand creates the post command.
func NewPostCommand() *cobra.Command {
	var (
		params []string
		data   string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "post PATH",
		Short: "Send a POST request to the Graph API",
		Long:  "Issue a POST request with a JSON body against the versioned Graph API base URL",
		Example: `  fbgraph post /me/feed --data '{"message":"hello"}'
  fbgraph post /me/messages --file message.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseQuery(params)
			if err != nil {
				return err
			}

			body, err := readData(data, file)
			if err != nil {
				return err
			}

			return runGraphCall(cmd, http.MethodPost, args[0], graph.WithQuery(query), graph.WithBody(body))
		},
	}

	cmd.Flags().StringArrayVarP(&params, "query", "q", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file containing the JSON request body")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "delete PATH",
		Short: "Delete a Graph API object",
		Long:  "Issue a DELETE request against the versioned Graph API base URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := parseQuery(params)
			if err != nil {
				return err
			}

			return runGraphCall(cmd, http.MethodDelete, args[0], graph.WithQuery(query))
		},
	}

	cmd.Flags().StringArrayVarP(&params, "query", "q", nil, "query parameter as key=value (repeatable)")

	return cmd
}

func runGraphCall(cmd *cobra.Command, method, path string, opts ...graph.RequestOption) error {
	client, err := createClient(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := client.Request(ctx, method, path, opts...)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}

	return outputResult(cmd.OutOrStdout(), result)
}
