package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fnlux/internal/tally"
)

const demoScript = `
initial: {}
steps:
  - apply: {a: 3, b: 5}
  - apply: {a: -1, b: 1}
  - async: {id: batch, actions: [{type: LAST}]}
  - wait: batch
`

func runReplay(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(demoScript), 0o600))

	out := &bytes.Buffer{}
	cmd := replayCmd()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, path))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReplay(t *testing.T) {
	t.Setenv("FNLUX_LOG_LEVEL", "error")

	out, err := runReplay(t)
	require.NoError(t, err)

	var final tally.State
	require.NoError(t, json.Unmarshal([]byte(out), &final))
	assert.Equal(t, tally.State{Sum: 8, Diff: -2, Count: 2, Last: true}, final)
}

func TestReplayStrict(t *testing.T) {
	t.Setenv("FNLUX_LOG_LEVEL", "error")

	out, err := runReplay(t, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4 steps failed")
	assert.NotEmpty(t, out)
}

func TestReplayMissingFile(t *testing.T) {
	t.Setenv("FNLUX_LOG_LEVEL", "error")

	cmd := replayCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
