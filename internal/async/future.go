// Package async provides a small typed future for composing data-access
// calls that run concurrently with their caller.
//
// A Future is resolved exactly once, either with a value or with an error.
// Waiting on a future with a context that expires stops the wait, not the
// work: the goroutine behind the future runs to completion regardless.
package async

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Future is the pending result of an asynchronous operation.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// PanicError is the failure of a future whose function panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: panic: %v", e.Value)
}

// Go runs fn on a new goroutine and returns its future.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.val, f.err = zero, &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Resolved returns a future already holding v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: v}
	close(f.done)
	return f
}

// Failed returns a future already holding err.
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Done is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future resolves or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then runs fn with the value of f once it resolves. A failure of f skips fn
// and fails the returned future with the same error.
func Then[T, U any](ctx context.Context, f *Future[T], fn func(ctx context.Context, v T) (U, error)) *Future[U] {
	return Go(ctx, func(ctx context.Context) (U, error) {
		v, err := f.Await(ctx)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(ctx, v)
	})
}

// Map transforms the value of f.
func Map[T, U any](ctx context.Context, f *Future[T], fn func(T) U) *Future[U] {
	return Then(ctx, f, func(_ context.Context, v T) (U, error) {
		return fn(v), nil
	})
}

// All resolves to the values of every future, in argument order, or to the
// first failure.
func All[T any](ctx context.Context, futures ...*Future[T]) *Future[[]T] {
	return Go(ctx, func(ctx context.Context) ([]T, error) {
		g, gctx := errgroup.WithContext(ctx)
		out := make([]T, len(futures))
		for i, f := range futures {
			g.Go(func() error {
				v, err := f.Await(gctx)
				out[i] = v
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
}
