// Package app holds the wiring shared by the fnlux binaries.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/fnlux/internal/tally"
	"github.com/dmitrymomot/fnlux/pkg/config"
	"github.com/dmitrymomot/fnlux/pkg/httpserver"
	"github.com/dmitrymomot/fnlux/pkg/logger"
	"github.com/dmitrymomot/fnlux/pkg/requestid"
	"github.com/dmitrymomot/fnlux/pkg/store"
)

// EnvPrefix is prepended to every configuration variable.
const EnvPrefix = "FNLUX_"

// Config is the process configuration read from FNLUX_* variables.
type Config struct {
	Env          string            `env:"ENV" envDefault:"development"`
	Service      string            `env:"SERVICE" envDefault:"fnlux"`
	LogLevel     string            `env:"LOG_LEVEL"`
	LogFormat    string            `env:"LOG_FORMAT"`
	HistoryLimit int               `env:"HISTORY_LIMIT" envDefault:"0"`
	HTTP         httpserver.Config `envPrefix:"HTTP_"`
}

// LoadConfig reads Config from the environment and an optional .env file.
func LoadConfig(opts ...config.Option) (Config, error) {
	var cfg Config
	if err := config.Load(&cfg, append([]config.Option{config.WithPrefix(EnvPrefix)}, opts...)...); err != nil {
		return Config{}, err
	}
	if cfg.HistoryLimit < 0 {
		return Config{}, fmt.Errorf("%w: %sHISTORY_LIMIT must be >= 0", config.ErrParsingConfig, EnvPrefix)
	}
	return cfg, nil
}

// NewLogger builds the process logger. LogLevel and LogFormat override the
// environment defaults when set.
func NewLogger(cfg Config, w io.Writer) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithOutput(w),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}

	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(level))
	}

	switch logger.Format(cfg.LogFormat) {
	case "":
	case logger.FormatJSON, logger.FormatText:
		opts = append(opts, logger.WithFormat(logger.Format(cfg.LogFormat)))
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	return logger.New(opts...), nil
}

// NewStore creates a tally store starting at initial with the default
// reducer chain.
func NewStore(cfg Config, log *slog.Logger, initial tally.State, onChange func(tally.State)) *store.Store[tally.State, tally.Action] {
	return store.New(initial, tally.Reducers(), onChange,
		store.WithLogger(log),
		store.WithHistoryLimit(cfg.HistoryLimit),
	)
}
