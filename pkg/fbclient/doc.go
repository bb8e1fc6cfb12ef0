// Package fbclient provides the primary entry point for constructing a
// Graph API client that implements the graph.Client interface, and a
// Messenger Platform client that implements graph.Messenger.
//
// It applies configuration defaults, normalizes the root URL and API version
// into the versioned base URL, and wires the HTTP transport on top of the
// interfaces and types defined in the graph package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/fbgraph/pkg/fbclient"
//	  "github.com/fivetwenty-io/fbgraph/pkg/graph"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Defaults: https://graph.facebook.com/v3.0, 10s timeout,
//	  // Content-Type: application/json.
//	  cli, err := fbclient.New(&graph.Config{AccessToken: "EAAB..."})
//	  if err != nil { log.Fatal(err) }
//
//	  me, err := cli.Get(ctx, "/me", graph.WithParam("fields", "id,name"))
//	  if err != nil { log.Fatal(err) }
//	  _ = me
//
//	  // Messenger Platform.
//	  messenger, err := fbclient.NewMessenger(&graph.Config{AccessToken: "EAAB..."})
//	  if err != nil { log.Fatal(err) }
//
//	  _, err = messenger.SendMessage(ctx, map[string]any{
//	    "recipient": map[string]string{"id": "PSID"},
//	    "message":   map[string]string{"text": "hello"},
//	  })
//	}
//
// Sessions
//
// By default every call runs on its own transport session, released before
// the call returns. To pool connections, create a graph.Session, pass it in
// Config.Session (or per call with graph.WithSession) and Close it when done:
//
//	session := graph.NewSession()
//	defer session.Close()
//
//	cli, _ := fbclient.New(&graph.Config{AccessToken: token, Session: session})
//
// Errors
//
// Status codes >= 400 yield *graph.GraphAPIError carrying the raw body text
// and, when present, the parsed Graph error envelope. Timeouts wrap
// graph.ErrTimeout. Use graph.IsNotFound, graph.IsUnauthorized and errors.As
// to inspect them.
package fbclient
