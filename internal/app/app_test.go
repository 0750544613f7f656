package app_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fnlux/internal/app"
	"github.com/dmitrymomot/fnlux/internal/tally"
	"github.com/dmitrymomot/fnlux/pkg/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := app.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "fnlux", cfg.Service)
	assert.Zero(t, cfg.HistoryLimit)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("FNLUX_ENV", "production")
	t.Setenv("FNLUX_HISTORY_LIMIT", "25")
	t.Setenv("FNLUX_HTTP_ADDR", "127.0.0.1:9090")
	t.Setenv("FNLUX_HTTP_SHUTDOWN_TIMEOUT", "2s")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Second, cfg.HTTP.ShutdownTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("negative history limit", func(t *testing.T) {
		t.Setenv("FNLUX_HISTORY_LIMIT", "-1")
		_, err := app.LoadConfig()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("FNLUX_HTTP_READ_TIMEOUT", "soon")
		_, err := app.LoadConfig()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("environment defaults", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log, err := app.NewLogger(app.Config{Env: "production", Service: "fnlux"}, buf)
		require.NoError(t, err)

		log.Debug("hidden")
		log.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"service":"fnlux"`)
		assert.Contains(t, buf.String(), `"env":"production"`)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log, err := app.NewLogger(app.Config{Env: "production", LogLevel: "debug", LogFormat: "text"}, buf)
		require.NoError(t, err)

		log.Debug("visible")
		assert.Contains(t, buf.String(), "msg=visible")
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()
		_, err := app.NewLogger(app.Config{LogLevel: "loud"}, &bytes.Buffer{})
		assert.Error(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()
		_, err := app.NewLogger(app.Config{LogFormat: "xml"}, &bytes.Buffer{})
		assert.Error(t, err)
	})
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	var changes []tally.State
	s := app.NewStore(app.Config{HistoryLimit: 2}, nil, tally.State{}, func(st tally.State) {
		changes = append(changes, st)
	})

	for range 4 {
		require.NoError(t, s.Apply(tally.Action{A: 2, B: 1}))
	}
	assert.Equal(t, 3, s.Depth())
	assert.Len(t, changes, 4)
	assert.Equal(t, 4, s.State().Count)

	err := s.Apply(tally.Action{A: -1, B: 1})
	assert.ErrorIs(t, err, tally.ErrNegativeOperand)
}
