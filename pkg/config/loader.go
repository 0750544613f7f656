package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Option tunes a single Load call.
type Option func(*loadOptions)

type loadOptions struct {
	prefix   string
	dotenv   []string
	required bool
}

// WithPrefix prepends prefix to every env tag, so `env:"HTTP_ADDR"` reads
// FNLUX_HTTP_ADDR with WithPrefix("FNLUX_").
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) { o.prefix = prefix }
}

// WithDotenv loads the given files before parsing. Variables that are already
// set in the process environment win over file values. Missing files are an error.
func WithDotenv(files ...string) Option {
	return func(o *loadOptions) { o.dotenv = append(o.dotenv, files...) }
}

// WithRequiredIfNoDefault marks every field without envDefault as required.
func WithRequiredIfNoDefault() Option {
	return func(o *loadOptions) { o.required = true }
}

// Load parses environment variables into v using its `env` struct tags.
//
// The .env file in the working directory is loaded once per process if it
// exists. Each call parses the environment again, so tests can change
// variables between calls.
//
// Example:
//
//	type Config struct {
//		Addr         string `env:"HTTP_ADDR" envDefault:":8080"`
//		HistoryLimit int    `env:"HISTORY_LIMIT" envDefault:"100"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithPrefix("FNLUX_")); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	defaultEnvLoaded.Do(func() {
		// The default .env file is optional
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if len(o.dotenv) > 0 {
		if err := godotenv.Load(o.dotenv...); err != nil {
			return errors.Join(ErrLoadingDotenv, err)
		}
	}

	if err := env.ParseWithOptions(v, env.Options{
		Prefix:          o.prefix,
		RequiredIfNoDef: o.required,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
