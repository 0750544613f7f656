// Package async provides generic futures used to feed asynchronously produced
// values into synchronous code.
//
// A Future is the eventual result of an operation. It can be obtained from
// Async, which runs a function on its own goroutine, from Resolved or Rejected
// for values that are already known, or from Promise when some other party
// settles it later through the returned resolve and reject functions.
//
// WaitAll joins several futures: it succeeds only when every input succeeds
// and fails with the first error observed, which makes it the settle-all
// building block for all-or-nothing dispatch.
//
// # Usage
//
//	import "github.com/dmitrymomot/fnlux/pkg/async"
//
//	price := async.Async(ctx, sku, fetchPrice)
//	stock := async.Resolved(Stock{Units: 3})
//
//	values, err := async.WaitAll(ctx, price, stock)
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Futures carry the error returned by the user function. AwaitWithTimeout
// returns ErrTimeout when the deadline passes first and WaitAll returns
// ErrNilFuture for nil inputs or ctx.Err() when the context ends.
package async
