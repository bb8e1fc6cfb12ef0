// Package graph provides types, interfaces, and helpers for working with the
// Facebook Graph API and the Messenger Platform.
//
// # Overview
//
// The graph package defines the client contract (Client, Messenger), the
// per-call options (RequestOption), transport sessions (Session), the error
// taxonomy and an interceptor chain for logging and metrics. A concrete
// implementation is provided by the fbclient package. Most consumers should
// import fbclient to construct a client and then use the interfaces here.
//
// Getting a client
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
//	  cli, err := fbclient.New(&graph.Config{AccessToken: "EAAB..."})
//	  if err != nil { log.Fatal(err) }
//
//	  page, err := cli.Get(ctx, "/me", graph.WithParam("fields", "id,name"))
//	  if err != nil { log.Fatal(err) }
//	  log.Println(page.(map[string]any)["name"])
//	}
//
// Responses
//
// Successful calls return the decoded JSON body as generic values:
// map[string]any for objects, []any for arrays, float64, string, bool, or nil
// for an empty body. Callers interpret the payload themselves.
//
// Errors
//
//   - *GraphAPIError: the API answered with status >= 400. Message holds the
//     raw body; Detail holds the parsed {"error": {...}} envelope if any.
//   - ErrTimeout: the call exceeded its timeout. It is never a GraphAPIError.
//   - *TransportError: the exchange failed before a status was received.
//   - *DecodeError: a success status carried a body that is not JSON.
//
// Interceptors
//
//	chain := graph.NewInterceptorChain()
//	chain.AddRequestInterceptor(graph.LoggingInterceptor(graph.NewSlogLogger(nil)))
//	chain.AddResponseInterceptor(graph.MetricsResponseInterceptor(graph.NewMetricsCollector()))
//
//	cli, _ := fbclient.New(&graph.Config{AccessToken: token, Interceptors: chain})
//
// Concurrent calls
//
// Calls block until they complete. Go runs one in the background:
//
//	future := graph.Go(ctx, func(ctx context.Context) (any, error) {
//	  return cli.Get(ctx, "/me")
//	})
//	me, err := future.Await(ctx)
package graph
