package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/fnlux/internal/tally"
	"github.com/dmitrymomot/fnlux/pkg/async"
	"github.com/dmitrymomot/fnlux/pkg/logger"
	"github.com/dmitrymomot/fnlux/pkg/store"
)

// Outcome records the result of one step.
type Outcome struct {
	Index int
	Op    string
	State tally.State
	Err   error
}

// Report is the result of a replay.
type Report struct {
	Final    tally.State
	Outcomes []Outcome
}

// Failed returns the outcomes that carry an error.
func (r Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Runner replays scripts against a store.
type Runner struct {
	store      *store.Store[tally.State, tally.Action]
	log        *slog.Logger
	dispatches map[string]*store.Dispatch[tally.State]
}

// NewRunner creates a runner for s. A nil logger discards output.
func NewRunner(s *store.Store[tally.State, tally.Action], log *slog.Logger) *Runner {
	if log == nil {
		log = logger.Discard()
	}
	return &Runner{
		store:      s,
		log:        log.With(logger.Component("script")),
		dispatches: make(map[string]*store.Dispatch[tally.State]),
	}
}

// Run executes every step in order. Apply failures and rejected dispatches
// are recorded in the report; unknown dispatch ids and duplicate ids abort
// the run. Dispatches still pending after the last step are awaited so the
// final state is settled.
func (r *Runner) Run(ctx context.Context, sc Script) (Report, error) {
	var report Report

	for i, step := range sc.Steps {
		op, err := step.Op()
		if err != nil {
			return report, fmt.Errorf("step %d: %w", i, err)
		}

		stepErr := r.exec(ctx, op, step)
		if aborts(stepErr) {
			return report, fmt.Errorf("step %d (%s): %w", i, op, stepErr)
		}

		outcome := Outcome{Index: i, Op: op, State: r.store.State(), Err: stepErr}
		report.Outcomes = append(report.Outcomes, outcome)
		r.log.DebugContext(ctx, "step done",
			logger.Event(op),
			slog.Int("step", i),
			logger.Depth(r.store.Depth()),
			logger.Error(stepErr),
		)
	}

	for id, d := range r.dispatches {
		if _, err := d.Await(); err != nil {
			r.log.DebugContext(ctx, "pending dispatch failed", slog.String("id", id), logger.Error(err))
		}
	}

	report.Final = r.store.State()
	return report, nil
}

// aborts reports whether err is a script error rather than a store outcome.
func aborts(err error) bool {
	return errors.Is(err, ErrUnknownDispatch) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrUnknownReducer) ||
		errors.Is(err, ErrUnknownStep)
}

func (r *Runner) exec(ctx context.Context, op string, step Step) error {
	switch op {
	case "apply":
		return r.store.Apply(*step.Apply)
	case "async":
		return r.startAsync(ctx, step.Async)
	case "cancel":
		d, ok := r.dispatches[step.Cancel]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownDispatch, step.Cancel)
		}
		r.store.CancelAsync(d.Token())
		return nil
	case "wait":
		d, ok := r.dispatches[step.Wait]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownDispatch, step.Wait)
		}
		_, err := d.Await()
		return err
	case "undo":
		r.store.Undo()
		return nil
	case "reducer":
		reducer, ok := namedReducers[step.Reducer]
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownReducer, step.Reducer)
		}
		r.store.Reducers().Append(reducer)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStep, op)
	}
}

func (r *Runner) startAsync(ctx context.Context, step *AsyncStep) error {
	if _, exists := r.dispatches[step.ID]; exists {
		return fmt.Errorf("%w %q", ErrDuplicateID, step.ID)
	}

	delay := time.Duration(step.Delay)
	inputs := make([]*async.Future[tally.Action], 0, len(step.Actions)+1)
	for _, action := range step.Actions {
		inputs = append(inputs, tally.Delayed(ctx, delay, action, nil))
	}
	if step.Fail != "" {
		inputs = append(inputs, tally.Delayed(ctx, delay, tally.Action{}, errors.New(step.Fail)))
	}

	r.dispatches[step.ID] = r.store.ApplyAsync(ctx, inputs...)
	return nil
}
