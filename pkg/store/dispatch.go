package store

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/fnlux/pkg/async"
)

// Token identifies one ApplyAsync call.
type Token string

func newToken() Token {
	return Token(uuid.NewString())
}

// ParseToken validates s as a dispatch token.
func ParseToken(s string) (Token, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return Token(id.String()), nil
}

func (t Token) String() string {
	return string(t)
}

// Dispatch is the handle of one in-flight ApplyAsync call.
//
// It resolves to the state pushed by the dispatch, or to the state current at
// settlement time when the dispatch was cancelled. It rejects when any input
// rejects, a reducer fails, or the dispatch context ends first.
type Dispatch[S any] struct {
	token     Token
	future    *async.Future[S]
	cancelled atomic.Bool
	cancel    func(Token)
}

// Token returns the identifier accepted by Store.CancelAsync.
func (d *Dispatch[S]) Token() Token {
	return d.token
}

// Await blocks until the dispatch settles.
func (d *Dispatch[S]) Await() (S, error) {
	return d.future.Await()
}

// AwaitWithTimeout is Await bounded by timeout; it returns async.ErrTimeout
// if the dispatch is still pending when the timeout elapses.
func (d *Dispatch[S]) AwaitWithTimeout(timeout time.Duration) (S, error) {
	return d.future.AwaitWithTimeout(timeout)
}

// Done reports whether the dispatch has settled.
func (d *Dispatch[S]) Done() bool {
	return d.future.IsComplete()
}

// Cancelled reports whether the dispatch settled without touching the store
// because its token had been cancelled.
func (d *Dispatch[S]) Cancelled() bool {
	return d.cancelled.Load()
}

// Cancel is shorthand for Store.CancelAsync(d.Token()).
func (d *Dispatch[S]) Cancel() {
	d.cancel(d.token)
}

// Future exposes the underlying future for composition with other futures.
func (d *Dispatch[S]) Future() *async.Future[S] {
	return d.future
}
