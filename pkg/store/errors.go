package store

import "errors"

var (
	// ErrReducer wraps an error returned by a reducer. The dispatch that hit it
	// leaves history untouched.
	ErrReducer = errors.New("store: reducer failed")

	// ErrDispatchPanic is returned by an async dispatch whose fold or change
	// callback panicked on the settling goroutine.
	ErrDispatchPanic = errors.New("store: panic while settling async dispatch")

	// ErrInvalidToken is returned by ParseToken for malformed input.
	ErrInvalidToken = errors.New("store: invalid dispatch token")
)
