// Package script replays YAML-described sequences of store operations against
// a tally store. It backs the fnlux command.
package script

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/fnlux/internal/tally"
	"github.com/dmitrymomot/fnlux/pkg/store"
)

var (
	ErrDecode          = errors.New("script: decode failed")
	ErrUnknownStep     = errors.New("script: step must set exactly one operation")
	ErrUnknownDispatch = errors.New("script: unknown dispatch id")
	ErrDuplicateID     = errors.New("script: duplicate dispatch id")
	ErrUnknownReducer  = errors.New("script: unknown reducer")
)

// Script is a replayable sequence of operations.
type Script struct {
	Initial tally.State `yaml:"initial"`
	Steps   []Step      `yaml:"steps"`
}

// Step holds exactly one operation.
type Step struct {
	Apply   *tally.Action `yaml:"apply,omitempty"`
	Async   *AsyncStep    `yaml:"async,omitempty"`
	Cancel  string        `yaml:"cancel,omitempty"`
	Wait    string        `yaml:"wait,omitempty"`
	Undo    bool          `yaml:"undo,omitempty"`
	Reducer string        `yaml:"reducer,omitempty"`
}

// AsyncStep starts an async dispatch whose actions arrive after Delay.
// A non-empty Fail adds an input that rejects with that message.
type AsyncStep struct {
	ID      string         `yaml:"id"`
	Delay   Duration       `yaml:"delay"`
	Actions []tally.Action `yaml:"actions"`
	Fail    string         `yaml:"fail,omitempty"`
}

// Duration decodes Go duration strings such as "250ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, line %d", value.Line)
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// Op names the operation a step performs.
func (s Step) Op() (string, error) {
	ops := make([]string, 0, 1)
	if s.Apply != nil {
		ops = append(ops, "apply")
	}
	if s.Async != nil {
		ops = append(ops, "async")
	}
	if s.Cancel != "" {
		ops = append(ops, "cancel")
	}
	if s.Wait != "" {
		ops = append(ops, "wait")
	}
	if s.Undo {
		ops = append(ops, "undo")
	}
	if s.Reducer != "" {
		ops = append(ops, "reducer")
	}
	if len(ops) != 1 {
		return "", fmt.Errorf("%w: got %v", ErrUnknownStep, ops)
	}
	return ops[0], nil
}

// Parse decodes and validates a YAML script.
func Parse(r io.Reader) (Script, error) {
	var sc Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, errors.Join(ErrDecode, err)
	}
	for i, step := range sc.Steps {
		if _, err := step.Op(); err != nil {
			return Script{}, fmt.Errorf("step %d: %w", i, err)
		}
		if step.Async != nil && step.Async.ID == "" {
			return Script{}, fmt.Errorf("step %d: %w: async step needs an id", i, ErrUnknownStep)
		}
		if step.Reducer != "" {
			if _, ok := namedReducers[step.Reducer]; !ok {
				return Script{}, fmt.Errorf("step %d: %w %q", i, ErrUnknownReducer, step.Reducer)
			}
		}
	}
	return sc, nil
}

var namedReducers = map[string]store.Reducer[tally.State, tally.Action]{
	"strict": tally.Strict,
	"sum":    tally.Sum,
	"diff":   tally.Diff,
	"mark":   tally.Mark,
	"count":  tally.Count,
}
