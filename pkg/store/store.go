package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/fnlux/pkg/async"
	"github.com/dmitrymomot/fnlux/pkg/logger"
)

// Store holds a single state value transformed by a chain of reducers.
// All methods are safe for concurrent use. Dispatches are serialized: each
// fold runs to completion and pushes its result before the next one starts.
type Store[S, A any] struct {
	// dispatchMu serializes mutations together with their callbacks. It is
	// always taken before mu, and mu is released before the callback runs.
	dispatchMu sync.Mutex
	onChange   func(S)

	mu      sync.Mutex // guards history and live
	history *history[S]
	live    map[Token]struct{}

	reducers *Reducers[S, A]
	log      *slog.Logger
}

// New creates a store whose history starts with initial.
//
// reducers may be nil; the store then pushes the unchanged state on every
// dispatch. onChange may be nil. When set it is called with every new visible
// state, after Apply, after an applied ApplyAsync and after a successful
// Undo. It must not dispatch on the calling goroutine.
func New[S, A any](initial S, reducers []Reducer[S, A], onChange func(S), opts ...Option) *Store[S, A] {
	o := &options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	return &Store[S, A]{
		history:  newHistory(initial, o.historyLimit),
		live:     make(map[Token]struct{}),
		onChange: onChange,
		reducers: newReducers(reducers),
		log:      o.logger.With(logger.Component("store")),
	}
}

// State returns the current top of history.
func (s *Store[S, A]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.top()
}

// Reducers returns the live reducer chain.
func (s *Store[S, A]) Reducers() *Reducers[S, A] {
	return s.reducers
}

// Depth returns the number of history entries, including the initial state.
func (s *Store[S, A]) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.len()
}

// Pending returns the number of async dispatches that are neither settled
// nor cancelled.
func (s *Store[S, A]) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Apply folds action through every reducer, left to right, starting from the
// current state, and pushes the result. A reducer error is returned wrapped
// in ErrReducer and nothing is pushed. Reducer panics reach the caller.
func (s *Store[S, A]) Apply(action A) error {
	_, err := s.ApplyState(action)
	return err
}

// ApplyState works like Apply and also returns the state this call pushed,
// even when other dispatches land before the caller reads it. On error it
// returns the unchanged top.
func (s *Store[S, A]) ApplyState(action A) (S, error) {
	state, _, err := s.mutate(func(h *history[S]) (bool, error) {
		next, err := s.fold(h.top(), action)
		if err != nil {
			return false, err
		}
		h.push(next)
		return true, nil
	})
	if err != nil {
		s.log.Debug("apply rejected", logger.Error(err))
	}
	return state, err
}

// ApplyAsync dispatches the actions produced by inputs once all of them
// resolve. Use async.Resolved for actions that are already known.
//
// The resolved actions are folded in input order and produce exactly one
// history entry and one change callback. If any input rejects, or ctx ends
// first, the dispatch rejects and the store is left untouched. If the token
// is cancelled before the inputs settle, the actions are dropped.
func (s *Store[S, A]) ApplyAsync(ctx context.Context, inputs ...*async.Future[A]) *Dispatch[S] {
	future, resolve, reject := async.Promise[S]()
	d := &Dispatch[S]{
		token:  newToken(),
		future: future,
		cancel: s.CancelAsync,
	}

	s.mu.Lock()
	s.live[d.token] = struct{}{}
	s.mu.Unlock()

	go func() {
		actions, err := async.WaitAll(ctx, inputs...)
		if err != nil {
			s.forget(d.token)
			s.log.DebugContext(ctx, "async dispatch rejected",
				logger.DispatchID(d.token.String()),
				logger.Error(err),
			)
			reject(err)
			return
		}

		state, applied, err := s.settle(d.token, actions)
		switch {
		case err != nil:
			s.log.DebugContext(ctx, "async dispatch failed",
				logger.DispatchID(d.token.String()),
				logger.Error(err),
			)
			reject(err)
		case !applied:
			d.cancelled.Store(true)
			s.log.DebugContext(ctx, "cancelled dispatch settled",
				logger.DispatchID(d.token.String()),
			)
			resolve(state)
		default:
			s.log.DebugContext(ctx, "async dispatch applied",
				logger.DispatchID(d.token.String()),
				logger.ActionCount(len(actions)),
				logger.Depth(s.Depth()),
			)
			resolve(state)
		}
	}()

	return d
}

// CancelAsync invalidates a pending async dispatch so its eventual
// settlement will not change the store. Unknown, settled and already
// cancelled tokens are ignored.
func (s *Store[S, A]) CancelAsync(token Token) {
	s.mu.Lock()
	_, live := s.live[token]
	delete(s.live, token)
	s.mu.Unlock()

	if live {
		s.log.Debug("async dispatch cancelled", logger.DispatchID(token.String()))
	}
}

// Undo reverts to the previous state and reports whether it did. At the
// initial state it does nothing and the change callback is not called.
func (s *Store[S, A]) Undo() bool {
	_, reverted, _ := s.mutate(func(h *history[S]) (bool, error) {
		return h.pop(), nil
	})
	if !reverted {
		s.log.Debug("undo at initial state")
	}
	return reverted
}

// settle applies resolved actions if token is still live. The membership
// check and the push happen under the same lock, so a cancellation either
// lands before it and wins, or after it and is a no-op.
func (s *Store[S, A]) settle(token Token, actions []A) (state S, applied bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero S
			state, applied, err = zero, false, fmt.Errorf("%w: %v", ErrDispatchPanic, r)
		}
	}()

	return s.mutate(func(h *history[S]) (bool, error) {
		if _, live := s.live[token]; !live {
			return false, nil
		}
		delete(s.live, token)

		next, err := s.fold(h.top(), actions...)
		if err != nil {
			return false, err
		}
		h.push(next)
		return true, nil
	})
}

// mutate runs fn with the state lock held. When fn reports a change, the
// callback receives the new top after the state lock is released. The
// dispatch lock stays held throughout, so the next mutation waits for the
// callback to return.
func (s *Store[S, A]) mutate(fn func(h *history[S]) (bool, error)) (S, bool, error) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	current, changed, err := s.locked(fn)
	if err != nil || !changed {
		return current, false, err
	}

	if s.onChange != nil {
		s.onChange(current)
	}
	return current, true, nil
}

func (s *Store[S, A]) locked(fn func(h *history[S]) (bool, error)) (S, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed, err := fn(s.history)
	return s.history.top(), changed, err
}

// fold runs every action through the full reducer chain in order, each
// action starting from the state produced by the previous one.
func (s *Store[S, A]) fold(state S, actions ...A) (S, error) {
	reducers := s.reducers.All()
	for i, action := range actions {
		for j, reduce := range reducers {
			next, err := reduce(state, action)
			if err != nil {
				return state, fmt.Errorf("%w: reducer %d, action %d: %w", ErrReducer, j, i, err)
			}
			state = next
		}
	}
	return state, nil
}

func (s *Store[S, A]) forget(token Token) {
	s.mu.Lock()
	delete(s.live, token)
	s.mu.Unlock()
}
