// Package store implements a small state container: one state value, a chain
// of reducers that fold actions into it, and a history stack for undo.
//
// # Dispatch
//
// Apply folds an action through every reducer, left to right, and pushes the
// result. ApplyAsync does the same for actions delivered by futures: it waits
// until every input succeeds, folds all resolved actions in input order and
// pushes a single entry. If any input fails the dispatch fails and the store
// is left as it was.
//
// Every ApplyAsync call gets a Token. CancelAsync removes the token from the
// live set, and a dispatch whose token is gone by the time its inputs settle
// drops its actions. The live-set check and the push run under one lock, so
// a cancellation either happens before settlement and wins, or after it and
// is a no-op.
//
// # History
//
// History always holds the initial state as its floor. Undo pops one entry
// and never goes below the floor. WithHistoryLimit bounds the number of
// retained undo steps.
//
// # Reducers
//
// Reducers returns the live chain. Reducers appended to it take part in every
// dispatch that starts folding afterwards.
//
// # Usage
//
//	s := store.New(Cart{}, []store.Reducer[Cart, Action]{addItem, applyCoupon},
//	    func(c Cart) { render(c) },
//	    store.WithLogger(log),
//	)
//
//	if err := s.Apply(AddItem{SKU: "tea"}); err != nil {
//	    return err
//	}
//
//	d := s.ApplyAsync(ctx, fetchCoupon(ctx, code))
//	// later, if the user navigates away
//	s.CancelAsync(d.Token())
//
// # Change Callback
//
// The callback passed to New is invoked with every new visible state, in push
// order. It runs outside the state lock and may call State, Depth, Pending and
// CancelAsync. The next mutation waits until the callback returns, so it must
// not dispatch on the calling goroutine.
package store
