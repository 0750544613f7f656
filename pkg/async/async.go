package async

import (
	"context"
	"sync"
	"time"
)

// Future represents the eventual result of an asynchronous computation.
// A Future settles exactly once; later settlement attempts are ignored.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

func newFuture[U any]() *Future[U] {
	return &Future[U]{done: make(chan struct{})}
}

func (f *Future[U]) settle(result U, err error) bool {
	settled := false
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Await waits for the future to settle and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for the future to settle with a timeout.
// If the timeout elapses first, ErrTimeout is returned and the future keeps running.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the future has settled without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once the future settles.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// Async executes fn on its own goroutine and returns a Future for its result.
// A context cancelled before fn starts settles the future with ctx.Err().
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := newFuture[U]()

	go func() {
		// Early exit prevents running work for an already abandoned caller
		select {
		case <-ctx.Done():
			var zero U
			f.settle(zero, ctx.Err())
			return
		default:
		}

		res, err := fn(ctx, param)
		f.settle(res, err)
	}()

	return f
}

// Resolved returns a future already settled with v.
func Resolved[U any](v U) *Future[U] {
	f := newFuture[U]()
	f.settle(v, nil)
	return f
}

// Rejected returns a future already settled with err.
func Rejected[U any](err error) *Future[U] {
	f := newFuture[U]()
	var zero U
	f.settle(zero, err)
	return f
}

// Promise returns a pending future together with functions that settle it.
// Only the first call to resolve or reject has an effect; both report
// whether they were the one to settle the future.
func Promise[U any]() (f *Future[U], resolve func(U) bool, reject func(error) bool) {
	f = newFuture[U]()
	resolve = func(v U) bool {
		return f.settle(v, nil)
	}
	reject = func(err error) bool {
		var zero U
		return f.settle(zero, err)
	}
	return f, resolve, reject
}

// WaitAll waits until every future succeeds and returns their results in input order.
// It returns as soon as any future fails or ctx is done, without waiting for the rest.
// A ctx that is already done wins even when every future has settled.
// Watcher goroutines exit once their future settles, so futures that never settle
// keep one goroutine alive each.
func WaitAll[U any](ctx context.Context, futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))
	if len(futures) == 0 {
		return results, nil
	}
	for _, f := range futures {
		if f == nil {
			return nil, ErrNilFuture
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type outcome struct {
		index  int
		result U
		err    error
	}

	// Buffered so watchers never block after an early return
	outcomes := make(chan outcome, len(futures))
	for i, f := range futures {
		go func() {
			res, err := f.Await()
			outcomes <- outcome{index: i, result: res, err: err}
		}()
	}

	for range futures {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case o := <-outcomes:
			if o.err != nil {
				return nil, o.err
			}
			results[o.index] = o.result
		}
	}

	return results, nil
}
