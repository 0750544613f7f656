package store

import "sync"

// Reducer folds one action into a state and returns the next state.
// Reducers must return the input unchanged for actions they do not handle.
// A non-nil error aborts the whole dispatch.
type Reducer[S, A any] func(state S, action A) (S, error)

// Pure adapts an infallible reducer.
func Pure[S, A any](fn func(S, A) S) Reducer[S, A] {
	return func(state S, action A) (S, error) {
		return fn(state, action), nil
	}
}

// Reducers is the live, ordered reducer chain of a Store.
//
// It is shared with callers on purpose: anything appended here takes part in
// every dispatch that starts folding afterwards. A dispatch that is already
// folding may or may not see a concurrent append.
type Reducers[S, A any] struct {
	mu    sync.RWMutex
	items []Reducer[S, A]
}

func newReducers[S, A any](initial []Reducer[S, A]) *Reducers[S, A] {
	r := &Reducers[S, A]{}
	r.Append(initial...)
	return r
}

// Append adds reducers to the end of the chain. Nil reducers are skipped.
func (r *Reducers[S, A]) Append(reducers ...Reducer[S, A]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reducer := range reducers {
		if reducer != nil {
			r.items = append(r.items, reducer)
		}
	}
}

// Len returns the number of reducers in the chain.
func (r *Reducers[S, A]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// All returns a copy of the chain in fold order.
func (r *Reducers[S, A]) All() []Reducer[S, A] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Reducer[S, A], len(r.items))
	copy(out, r.items)
	return out
}
