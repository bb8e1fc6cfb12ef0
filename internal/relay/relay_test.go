package relay_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
	"github.com/fivetwenty-io/fbgraph/internal/relay"
	"github.com/fivetwenty-io/fbgraph/pkg/fbclient"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
	"github.com/google/uuid"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	method string
	data   any
	fields []string
}

// fakeMessenger records calls instead of reaching the Graph API.
type fakeMessenger struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeMessenger) record(c call) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, c)
	if f.err != nil {
		return nil, f.err
	}

	return map[string]any{"method": c.method}, nil
}

func (f *fakeMessenger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

func (f *fakeMessenger) UpdateProfile(_ context.Context, data any, _ ...graph.RequestOption) (any, error) {
	return f.record(call{method: "UpdateProfile", data: data})
}

func (f *fakeMessenger) DeleteProfile(_ context.Context, fields []string, _ ...graph.RequestOption) (any, error) {
	return f.record(call{method: "DeleteProfile", fields: fields})
}

func (f *fakeMessenger) GetUserProfile(_ context.Context, _ string, fields []string, _ ...graph.RequestOption) (any, error) {
	return f.record(call{method: "GetUserProfile", fields: fields})
}

func (f *fakeMessenger) SendMessage(_ context.Context, data any, _ ...graph.RequestOption) (any, error) {
	return f.record(call{method: "SendMessage", data: data})
}

func (f *fakeMessenger) PassThreadControl(_ context.Context, data any, _ ...graph.RequestOption) (any, error) {
	return f.record(call{method: "PassThreadControl", data: data})
}

func (f *fakeMessenger) Graph() graph.Client { return nil }

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestRelay_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		subject    string
		data       string
		wantOK     bool
		wantMethod string
		wantFields []string
		wantErr    string
	}{
		{
			name:       "send",
			subject:    "messenger.out.send",
			data:       `{"recipient":{"id":"1"},"message":{"text":"hi"}}`,
			wantOK:     true,
			wantMethod: "SendMessage",
		},
		{
			name:       "pass thread control",
			subject:    "messenger.out.pass_thread_control",
			data:       `{"recipient":{"id":"1"},"target_app_id":123}`,
			wantOK:     true,
			wantMethod: "PassThreadControl",
		},
		{
			name:       "profile",
			subject:    "messenger.out.page1.profile",
			data:       `{"greeting":[{"locale":"default","text":"Hello"}]}`,
			wantOK:     true,
			wantMethod: "UpdateProfile",
		},
		{
			name:       "profile delete",
			subject:    "messenger.out.profile_delete",
			data:       `{"fields":["greeting"]}`,
			wantOK:     true,
			wantMethod: "DeleteProfile",
			wantFields: []string{"greeting"},
		},
		{
			name:    "profile delete without fields",
			subject: "messenger.out.profile_delete",
			data:    `{}`,
			wantErr: constants.ErrFieldsRequired.Error(),
		},
		{
			name:    "unknown action",
			subject: "messenger.out.typing",
			data:    `{}`,
			wantErr: "unknown relay action",
		},
		{
			name:    "invalid payload",
			subject: "messenger.out.send",
			data:    `{"recipient":`,
			wantErr: "payload is not valid JSON",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			messenger := &fakeMessenger{}

			r, err := relay.New(messenger)
			require.NoError(t, err)

			reply := r.Handle(context.Background(), testCase.subject, []byte(testCase.data))

			assert.Equal(t, testCase.wantOK, reply.OK)

			if testCase.wantErr != "" {
				assert.Contains(t, reply.Error, testCase.wantErr)
				assert.Empty(t, messenger.calls)

				return
			}

			require.Len(t, messenger.calls, 1)
			assert.Equal(t, testCase.wantMethod, messenger.calls[0].method)
			assert.Equal(t, map[string]any{"method": testCase.wantMethod}, reply.Result)

			if testCase.wantFields != nil {
				assert.Equal(t, testCase.wantFields, messenger.calls[0].fields)
			} else {
				assert.Equal(t, json.RawMessage(testCase.data), messenger.calls[0].data)
			}
		})
	}
}

func TestRelay_HandleGraphError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v3.0/me/messages", request.URL.Path)

		writer.WriteHeader(http.StatusBadRequest)
		_, _ = writer.Write([]byte(`{"error":{"message":"(#100) No matching user found","code":100}}`))
	}))
	defer server.Close()

	messenger, err := fbclient.NewMessenger(&graph.Config{AccessToken: "tok", RootURL: server.URL})
	require.NoError(t, err)

	r, err := relay.New(messenger, relay.WithPrefix("bot.out."), relay.WithQueue("workers"))
	require.NoError(t, err)
	assert.Equal(t, "bot.out.>", r.Subject())

	reply := r.Handle(context.Background(), "bot.out.send", []byte(`{"recipient":{"id":"1"}}`))

	assert.False(t, reply.OK)
	assert.Equal(t, http.StatusBadRequest, reply.Status)
	assert.Contains(t, reply.Error, "No matching user found")
	assert.NotContains(t, reply.Error, "tok&")

	encoded, err := json.Marshal(reply)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"ok":false`)
	assert.Contains(t, string(encoded), `"status":400`)
}

func TestRelay_New(t *testing.T) {
	t.Parallel()

	_, err := relay.New(nil)
	require.ErrorIs(t, err, graph.ErrNilMessengerClient)

	r, err := relay.New(&fakeMessenger{})
	require.NoError(t, err)
	assert.Equal(t, "messenger.out.>", r.Subject())
	assert.NoError(t, r.Stop(context.Background()))
}

// entryLogger keeps the fields of every entry.
type entryLogger struct {
	mu      sync.Mutex
	entries []map[string]interface{}
}

func (l *entryLogger) add(fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, fields)
}

func (l *entryLogger) Debug(_ string, fields map[string]interface{}) { l.add(fields) }
func (l *entryLogger) Info(_ string, fields map[string]interface{})  { l.add(fields) }
func (l *entryLogger) Warn(_ string, fields map[string]interface{})  { l.add(fields) }
func (l *entryLogger) Error(_ string, fields map[string]interface{}) { l.add(fields) }

func TestRelay_HandleLogsCallID(t *testing.T) {
	t.Parallel()

	logger := &entryLogger{}

	r, err := relay.New(&fakeMessenger{}, relay.WithLogger(logger))
	require.NoError(t, err)

	r.Handle(context.Background(), "messenger.out.send", []byte(`{}`))
	r.Handle(context.Background(), "messenger.out.bogus", []byte(`{}`))

	require.Len(t, logger.entries, 2)

	first, ok := logger.entries[0]["call_id"].(string)
	require.True(t, ok)
	_, err = uuid.Parse(first)
	require.NoError(t, err)

	assert.NotEqual(t, first, logger.entries[1]["call_id"])
	assert.Equal(t, "bogus", logger.entries[1]["action"])
}

// runRelay starts an in-process NATS server with r subscribed on it.
func runRelay(t *testing.T, r *relay.Relay) *nats.Conn {
	t.Helper()

	opts := natsserver.DefaultTestOptions
	opts.Port = -1

	server := natsserver.RunServer(&opts)
	t.Cleanup(server.Shutdown)

	conn, err := nats.Connect(server.ClientURL())
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	require.NoError(t, r.Start(conn))
	require.ErrorIs(t, r.Start(conn), constants.ErrRelayStarted)

	return conn
}

func TestRelay_Subscription(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{}

	r, err := relay.New(messenger, relay.WithPrefix("bot.out."), relay.WithQueue("workers"))
	require.NoError(t, err)

	conn := runRelay(t, r)

	t.Run("request gets a reply", func(t *testing.T) {
		msg, err := conn.Request("bot.out.send", []byte(`{"recipient":{"id":"1"},"message":{"text":"hi"}}`), 2*time.Second)
		require.NoError(t, err)

		var reply relay.Reply
		require.NoError(t, json.Unmarshal(msg.Data, &reply))
		assert.True(t, reply.OK)
		assert.Equal(t, map[string]any{"method": "SendMessage"}, reply.Result)
		assert.Empty(t, reply.Error)
	})

	t.Run("failed call replies with the error", func(t *testing.T) {
		msg, err := conn.Request("bot.out.bogus", []byte(`{}`), 2*time.Second)
		require.NoError(t, err)

		var reply relay.Reply
		require.NoError(t, json.Unmarshal(msg.Data, &reply))
		assert.False(t, reply.OK)
		assert.Contains(t, reply.Error, constants.ErrUnknownRelayAction.Error())
	})

	t.Run("publish without reply subject still performs the call", func(t *testing.T) {
		before := messenger.callCount()

		require.NoError(t, conn.Publish("bot.out.profile", []byte(`{"greeting":[]}`)))
		require.NoError(t, conn.Flush())

		assert.Eventually(t, func() bool {
			return messenger.callCount() == before+1
		}, 2*time.Second, 10*time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, r.Stop(ctx))

	_, err = conn.Request("bot.out.send", []byte(`{}`), 200*time.Millisecond)
	require.Error(t, err)
}
