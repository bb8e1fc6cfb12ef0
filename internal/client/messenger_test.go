package client_test

import (
	"context"
	"net/http"
	"testing"

	. "github.com/fivetwenty-io/fbgraph/internal/client"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestMessengerClient_Operations(t *testing.T) {
	t.Parallel()

	profile := map[string]any{
		"get_started": map[string]string{"payload": "GET_STARTED"},
		"greeting": []map[string]string{
			{"locale": "default", "text": "Hello!"},
		},
	}

	message := map[string]any{
		"recipient": map[string]string{"id": "PSID1"},
		"message":   map[string]string{"text": "hi"},
	}

	handover := map[string]any{
		"recipient":     map[string]string{"id": "PSID1"},
		"target_app_id": 263902037430900,
		"metadata":      "handing over",
	}

	tests := []TestMessengerOperation{
		{
			Name: "update profile",
			Call: func(ctx context.Context, messenger *MessengerClient) (any, error) {
				return messenger.UpdateProfile(ctx, profile)
			},
			ExpectedMethod: http.MethodPost,
			ExpectedPath:   "/me/messenger_profile",
			ExpectedBody:   MustJSON(t, profile),
			StatusCode:     http.StatusOK,
			Response:       `{"result":"success"}`,
			Expected:       map[string]any{"result": "success"},
		},
		{
			Name: "delete profile",
			Call: func(ctx context.Context, messenger *MessengerClient) (any, error) {
				return messenger.DeleteProfile(ctx, []string{"get_started", "greeting"})
			},
			ExpectedMethod: http.MethodDelete,
			ExpectedPath:   "/me/messenger_profile",
			ExpectedBody:   `{"fields":["get_started","greeting"]}`,
			StatusCode:     http.StatusOK,
			Response:       `{"result":"success"}`,
			Expected:       map[string]any{"result": "success"},
		},
		{
			Name: "get user profile with default fields",
			Call: func(ctx context.Context, messenger *MessengerClient) (any, error) {
				return messenger.GetUserProfile(ctx, "PSID1", nil)
			},
			ExpectedMethod: http.MethodGet,
			ExpectedPath:   "/PSID1",
			ExpectedQuery:  map[string]string{"fields": "name,first_name,last_name,profile_pic"},
			StatusCode:     http.StatusOK,
			Response:       `{"first_name":"Ada","id":"PSID1"}`,
			Expected:       map[string]any{"first_name": "Ada", "id": "PSID1"},
		},
		{
			Name: "get user profile with fields",
			Call: func(ctx context.Context, messenger *MessengerClient) (any, error) {
				return messenger.GetUserProfile(ctx, "PSID1", []string{"locale", "timezone"},
					graph.WithParam("fields", "overridden"))
			},
			ExpectedMethod: http.MethodGet,
			ExpectedPath:   "/PSID1",
			ExpectedQuery:  map[string]string{"fields": "locale,timezone"},
			StatusCode:     http.StatusOK,
			Response:       `{"locale":"en_US"}`,
			Expected:       map[string]any{"locale": "en_US"},
		},
		{
			Name: "send message",
			Call: func(ctx context.Context, messenger *MessengerClient) (any, error) {
				return messenger.SendMessage(ctx, message)
			},
			ExpectedMethod: http.MethodPost,
			ExpectedPath:   "/me/messages",
			ExpectedBody:   MustJSON(t, message),
			StatusCode:     http.StatusOK,
			Response:       `{"recipient_id":"PSID1","message_id":"mid.1"}`,
			Expected:       map[string]any{"recipient_id": "PSID1", "message_id": "mid.1"},
		},
		{
			Name: "pass thread control",
			Call: func(ctx context.Context, messenger *MessengerClient) (any, error) {
				return messenger.PassThreadControl(ctx, handover)
			},
			ExpectedMethod: http.MethodPost,
			ExpectedPath:   "/me/pass_thread_control",
			ExpectedBody:   MustJSON(t, handover),
			StatusCode:     http.StatusOK,
			Response:       `{"success":true}`,
			Expected:       map[string]any{"success": true},
		},
		{
			Name: "send message error",
			Call: func(ctx context.Context, messenger *MessengerClient) (any, error) {
				return messenger.SendMessage(ctx, message)
			},
			ExpectedMethod: http.MethodPost,
			ExpectedPath:   "/me/messages",
			ExpectedBody:   MustJSON(t, message),
			StatusCode:     http.StatusBadRequest,
			Response:       `{"error":{"message":"(#100) No matching user found","code":100}}`,
			WantErr:        true,
			ErrMessage:     "No matching user found",
		},
	}

	RunMessengerOperationTests(t, tests)
}

func TestNewMessengerClient(t *testing.T) {
	t.Parallel()

	t.Run("requires a graph client", func(t *testing.T) {
		t.Parallel()

		_, err := NewMessengerClient(nil)
		require.ErrorIs(t, err, graph.ErrNilMessengerClient)
	})

	t.Run("exposes the graph client", func(t *testing.T) {
		t.Parallel()

		graphClient := NewTestClient("http://127.0.0.1:0")

		messenger, err := NewMessengerClient(graphClient)
		require.NoError(t, err)
		assert.Same(t, graphClient, messenger.Graph())
	})

	t.Run("errors propagate unchanged", func(t *testing.T) {
		t.Parallel()

		messenger, err := NewMessengerClient(FailingClient{})
		require.NoError(t, err)

		_, err = messenger.SendMessage(context.Background(), map[string]string{})
		require.ErrorIs(t, err, ErrTestSomeError)
	})
}
