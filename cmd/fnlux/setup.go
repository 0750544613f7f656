package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/fnlux/internal/app"
	"github.com/dmitrymomot/fnlux/pkg/config"
	"github.com/dmitrymomot/fnlux/pkg/logger"
)

// setup loads the configuration and installs the process logger.
func setup(cmd *cobra.Command) (app.Config, *slog.Logger, error) {
	var opts []config.Option
	if file, _ := cmd.Flags().GetString("env-file"); file != "" {
		opts = append(opts, config.WithDotenv(file))
	}

	cfg, err := app.LoadConfig(opts...)
	if err != nil {
		return app.Config{}, nil, err
	}

	log, err := app.NewLogger(cfg, os.Stderr)
	if err != nil {
		return app.Config{}, nil, err
	}
	logger.SetAsDefault(log)
	return cfg, log, nil
}
