package client

import (
	"context"
	"strings"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
)

// MessengerClient implements graph.Messenger on top of a graph.Client.
type MessengerClient struct {
	graph graph.Client
}

// NewMessengerClient creates a new Messenger client.
func NewMessengerClient(graphClient graph.Client) (*MessengerClient, error) {
	if graphClient == nil {
		return nil, graph.ErrNilMessengerClient
	}

	return &MessengerClient{
		graph: graphClient,
	}, nil
}

// Graph implements graph.Messenger.Graph.
func (c *MessengerClient) Graph() graph.Client {
	return c.graph
}

// UpdateProfile implements graph.Messenger.UpdateProfile.
func (c *MessengerClient) UpdateProfile(ctx context.Context, data any, opts ...graph.RequestOption) (any, error) {
	return c.graph.Post(ctx, constants.PathMessengerProfile, data, opts...)
}

// DeleteProfile implements graph.Messenger.DeleteProfile.
func (c *MessengerClient) DeleteProfile(ctx context.Context, fields []string, opts ...graph.RequestOption) (any, error) {
	body := map[string][]string{constants.FieldsParam: fields}

	return c.graph.Delete(ctx, constants.PathMessengerProfile, withFixed(opts, graph.WithBody(body))...)
}

// GetUserProfile implements graph.Messenger.GetUserProfile. Empty fields
// request the default profile fields.
func (c *MessengerClient) GetUserProfile(ctx context.Context, psid string, fields []string, opts ...graph.RequestOption) (any, error) {
	if len(fields) == 0 {
		fields = constants.DefaultUserProfileFields
	}

	path := "/" + psid

	return c.graph.Get(ctx, path, withFixed(opts, graph.WithParam(constants.FieldsParam, strings.Join(fields, ",")))...)
}

// SendMessage implements graph.Messenger.SendMessage.
func (c *MessengerClient) SendMessage(ctx context.Context, data any, opts ...graph.RequestOption) (any, error) {
	return c.graph.Post(ctx, constants.PathMessages, data, opts...)
}

// PassThreadControl implements graph.Messenger.PassThreadControl.
func (c *MessengerClient) PassThreadControl(ctx context.Context, data any, opts ...graph.RequestOption) (any, error) {
	return c.graph.Post(ctx, constants.PathPassThreadControl, data, opts...)
}
