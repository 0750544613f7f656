// Package tally is the demo domain served by the fnlux binaries: a record of
// the last sum and difference of two operands, fed by reducers.
package tally

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/fnlux/pkg/async"
	"github.com/dmitrymomot/fnlux/pkg/store"
)

// ActionLast marks the end of a batch.
const ActionLast = "LAST"

// ErrNegativeOperand is returned by Strict for operands below zero.
var ErrNegativeOperand = errors.New("tally: negative operand")

// State is the tally value held by the store.
type State struct {
	Sum   int  `json:"sum" yaml:"sum"`
	Diff  int  `json:"diff" yaml:"diff"`
	Count int  `json:"count" yaml:"count"`
	Last  bool `json:"last" yaml:"last"`
}

// Action carries two operands and an optional type.
type Action struct {
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	A    int    `json:"a,omitempty" yaml:"a,omitempty"`
	B    int    `json:"b,omitempty" yaml:"b,omitempty"`
}

func (a Action) hasOperands() bool {
	return a.A != 0 && a.B != 0
}

func (a Action) empty() bool {
	return a == Action{}
}

// Sum records A+B when both operands are set.
func Sum(s State, a Action) (State, error) {
	if !a.hasOperands() {
		return s, nil
	}
	s.Sum = a.A + a.B
	return s, nil
}

// Diff records A-B when both operands are set.
func Diff(s State, a Action) (State, error) {
	if !a.hasOperands() {
		return s, nil
	}
	s.Diff = a.A - a.B
	return s, nil
}

// Mark flags the state once a LAST action went through.
func Mark(s State, a Action) (State, error) {
	if a.Type != ActionLast {
		return s, nil
	}
	s.Last = true
	return s, nil
}

// Count counts every non-empty action.
func Count(s State, a Action) (State, error) {
	if a.empty() {
		return s, nil
	}
	s.Count++
	return s, nil
}

// Strict rejects actions with negative operands.
func Strict(s State, a Action) (State, error) {
	if a.A < 0 || a.B < 0 {
		return s, fmt.Errorf("%w: a=%d b=%d", ErrNegativeOperand, a.A, a.B)
	}
	return s, nil
}

// Reducers returns the default chain: Strict, Sum, Diff, Mark, Count.
func Reducers() []store.Reducer[State, Action] {
	return []store.Reducer[State, Action]{Strict, Sum, Diff, Mark, Count}
}

// Delayed returns a future that settles with action, or with err when it is
// non-nil, once delay has passed. A zero delay settles immediately.
func Delayed(ctx context.Context, delay time.Duration, action Action, err error) *async.Future[Action] {
	if delay <= 0 {
		if err != nil {
			return async.Rejected[Action](err)
		}
		return async.Resolved(action)
	}
	return async.Async(ctx, delay, func(ctx context.Context, d time.Duration) (Action, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return action, err
		case <-ctx.Done():
			return Action{}, ctx.Err()
		}
	})
}
