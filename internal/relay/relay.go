// Package relay forwards Messenger Platform calls published on NATS subjects
// to the Graph API and answers each request with the outcome.
//
// A message on "<prefix>.<action>" carries the JSON payload for the call.
// The action is the last subject token:
//
//	send                 SendMessage
//	pass_thread_control  PassThreadControl
//	profile              UpdateProfile
//	profile_delete       DeleteProfile, payload {"fields": [...]}
//
// Requests with a reply subject receive a Reply encoded as JSON.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/fbgraph/internal/constants"
	"github.com/fivetwenty-io/fbgraph/pkg/graph"
)

// Reply is sent back to the requester.
type Reply struct {
	OK     bool   `json:"ok"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Status int    `json:"status,omitempty"`
}

// Relay dispatches NATS messages to a graph.Messenger.
type Relay struct {
	messenger graph.Messenger
	prefix    string
	queue     string
	logger    graph.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

// Option configures a Relay.
type Option func(*Relay)

// WithPrefix sets the subject prefix. Messages on "<prefix>.>" are handled.
func WithPrefix(prefix string) Option {
	return func(r *Relay) {
		if prefix != "" {
			r.prefix = strings.TrimSuffix(prefix, ".")
		}
	}
}

// WithQueue sets the queue group shared by relay instances.
func WithQueue(queue string) Option {
	return func(r *Relay) {
		if queue != "" {
			r.queue = queue
		}
	}
}

// WithLogger sets the logger for dispatch outcomes.
func WithLogger(logger graph.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// New creates a relay in front of messenger.
func New(messenger graph.Messenger, opts ...Option) (*Relay, error) {
	if messenger == nil {
		return nil, graph.ErrNilMessengerClient
	}

	relay := &Relay{
		messenger: messenger,
		prefix:    constants.DefaultRelayPrefix,
		queue:     constants.DefaultRelayQueue,
	}

	for _, opt := range opts {
		opt(relay)
	}

	return relay, nil
}

// Subject returns the wildcard subject the relay subscribes to.
func (r *Relay) Subject() string {
	return r.prefix + ".>"
}

// Start subscribes on conn within the relay's queue group.
func (r *Relay) Start(conn *nats.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub != nil {
		return constants.ErrRelayStarted
	}

	sub, err := conn.QueueSubscribe(r.Subject(), r.queue, r.handleMsg)
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", r.Subject(), err)
	}

	r.sub = sub

	r.log(func(logger graph.Logger) {
		logger.Info("Relay started", map[string]interface{}{
			"subject": r.Subject(),
			"queue":   r.queue,
		})
	})

	return nil
}

// Stop drains the subscription, letting in-flight messages finish, and
// waits until the drain completes or ctx is done.
func (r *Relay) Stop(ctx context.Context) error {
	r.mu.Lock()
	sub := r.sub
	r.sub = nil
	r.mu.Unlock()

	if sub == nil {
		return nil
	}

	err := sub.Drain()
	if err != nil {
		return fmt.Errorf("draining %s: %w", sub.Subject, err)
	}

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for sub.IsValid() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for drain of %s: %w", sub.Subject, ctx.Err())
		case <-ticker.C:
		}
	}

	return nil
}

func (r *Relay) handleMsg(msg *nats.Msg) {
	reply := r.Handle(context.Background(), msg.Subject, msg.Data)

	if msg.Reply == "" {
		return
	}

	data, err := json.Marshal(reply)
	if err != nil {
		data, _ = json.Marshal(Reply{Error: fmt.Sprintf("encoding reply: %v", err)})
	}

	err = msg.Respond(data)
	if err != nil {
		r.log(func(logger graph.Logger) {
			logger.Warn("Relay reply failed", map[string]interface{}{
				"subject": msg.Subject,
				"error":   err.Error(),
			})
		})
	}
}

// Handle performs the call named by subject with data as its payload.
func (r *Relay) Handle(ctx context.Context, subject string, data []byte) Reply {
	action := subject[strings.LastIndex(subject, ".")+1:]
	callID := uuid.NewString()

	result, err := r.dispatch(ctx, action, data)
	if err != nil {
		reply := Reply{Error: err.Error()}

		apiErr := &graph.GraphAPIError{}
		if errors.As(err, &apiErr) {
			reply.Status = apiErr.StatusCode
		}

		r.log(func(logger graph.Logger) {
			logger.Error("Relay call failed", map[string]interface{}{
				"call_id": callID,
				"subject": subject,
				"action":  action,
				"status":  reply.Status,
				"error":   reply.Error,
			})
		})

		return reply
	}

	r.log(func(logger graph.Logger) {
		logger.Debug("Relay call succeeded", map[string]interface{}{
			"call_id": callID,
			"subject": subject,
			"action":  action,
		})
	})

	return Reply{OK: true, Result: result}
}

func (r *Relay) dispatch(ctx context.Context, action string, data []byte) (any, error) {
	switch action {
	case constants.RelayActionSend, constants.RelayActionPassThreadControl,
		constants.RelayActionProfile, constants.RelayActionProfileDelete:
	default:
		return nil, fmt.Errorf("%w: %q", constants.ErrUnknownRelayAction, action)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s", constants.ErrInvalidPayload, action)
	}

	payload := json.RawMessage(data)

	switch action {
	case constants.RelayActionSend:
		return r.messenger.SendMessage(ctx, payload)
	case constants.RelayActionPassThreadControl:
		return r.messenger.PassThreadControl(ctx, payload)
	case constants.RelayActionProfile:
		return r.messenger.UpdateProfile(ctx, payload)
	default: // profile_delete
		var request struct {
			Fields []string `json:"fields"`
		}

		err := json.Unmarshal(data, &request)
		if err != nil {
			return nil, fmt.Errorf("parsing profile_delete payload: %w", err)
		}

		if len(request.Fields) == 0 {
			return nil, constants.ErrFieldsRequired
		}

		return r.messenger.DeleteProfile(ctx, request.Fields)
	}
}

func (r *Relay) log(fn func(graph.Logger)) {
	if r.logger != nil {
		fn(r.logger)
	}
}
