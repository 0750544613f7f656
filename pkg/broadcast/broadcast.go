package broadcast

import (
	"context"
	"sync"
)

// Subscriber receives published values.
type Subscriber[T any] interface {
	// Receive returns the delivery channel. It is closed when the subscriber
	// or the broadcaster is closed.
	Receive() <-chan T

	// Close stops delivery and closes the receive channel. It is idempotent.
	Close() error
}

// Broadcaster fans values out to every active subscriber.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber that lives until ctx is done or it is closed.
	Subscribe(ctx context.Context) Subscriber[T]

	// Publish delivers v to every subscriber without blocking and returns
	// the number of subscribers that accepted it.
	Publish(v T) int

	// Close closes every subscriber. Later subscriptions are born closed and
	// later publishes are ignored.
	Close() error
}

type subscriber[T any] struct {
	ch      chan T
	stopped chan struct{}
	closed  bool
	mu      sync.Mutex
	onStop  func(*subscriber[T])
}

func newSubscriber[T any](bufferSize int, onStop func(*subscriber[T])) *subscriber[T] {
	return &subscriber[T]{
		ch:      make(chan T, bufferSize),
		stopped: make(chan struct{}),
		onStop:  onStop,
	}
}

func (s *subscriber[T]) Receive() <-chan T {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	if s.shutdown() && s.onStop != nil {
		s.onStop(s)
	}
	return nil
}

// shutdown closes the channel once and reports whether this call did it.
func (s *subscriber[T]) shutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	close(s.ch)
	close(s.stopped)
	s.closed = true
	return true
}

// send delivers v, evicting the oldest buffered value when the buffer is
// full so a slow reader always ends up with the latest value.
func (s *subscriber[T]) send(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}

	for {
		select {
		case s.ch <- v:
			return true
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}
