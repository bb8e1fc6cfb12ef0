package graph

import "context"

// Future is the pending result of a call started with Go.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go runs fn on its own goroutine and returns a Future for its result.
// fn receives ctx unchanged; cancelling ctx is how the call is abandoned.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	future := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(future.done)

		future.value, future.err = fn(ctx)
	}()

	return future
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the call completes or ctx is done. The call itself is
// not cancelled when ctx ends first.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T

		return zero, ctx.Err()
	}
}
