// Package config loads application configuration from environment variables
// into annotated structs.
//
// It combines github.com/joho/godotenv, which reads .env files into the
// process environment, with github.com/caarlos0/env/v11, which parses the
// environment into struct fields using `env` and `envDefault` tags.
//
// # Usage
//
//	type Config struct {
//		Env          string `env:"ENV" envDefault:"development"`
//		HistoryLimit int    `env:"HISTORY_LIMIT" envDefault:"100"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg, config.WithPrefix("FNLUX_"))
//
// The default .env file in the working directory is read once per process
// if present. Extra files can be requested per call with WithDotenv; values
// already present in the environment always take precedence.
//
// # Error Handling
//
// Load returns ErrNilPointer for a nil target, ErrLoadingDotenv when an
// explicitly requested file cannot be read and ErrParsingConfig, joined with
// the underlying parser error, for missing required or malformed values.
// MustLoad panics instead.
package config
