// Package broadcast fans values out to many subscribers without ever blocking
// the publisher.
//
// It is used to stream store state changes to connected clients: the store's
// change callback publishes every new state, and each client reads its own
// subscription. When a subscriber falls behind and its buffer is full, the
// oldest buffered value is evicted, so a slow reader skips intermediate
// states but always receives the latest one.
//
//	states := broadcast.NewMemory[tally.State](8)
//	defer states.Close()
//
//	s := store.New(tally.State{}, tally.Reducers(), func(st tally.State) {
//	    states.Publish(st)
//	})
//
//	sub := states.Subscribe(r.Context())
//	defer sub.Close()
//	for st := range sub.Receive() {
//	    render(st)
//	}
//
// Subscriptions end when their context is done, when Close is called on them
// or when the broadcaster is closed; in every case the receive channel is
// closed.
package broadcast
