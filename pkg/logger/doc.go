// Package logger builds *slog.Logger instances from functional options and
// provides attribute helpers so records across the module use the same keys.
//
// New picks slog.NewTextHandler or slog.NewJSONHandler based on the configured
// Format and wraps it with LogHandlerDecorator, which runs every registered
// ContextExtractor on each record. Discard returns a logger that drops
// everything and is the default for components that accept an optional logger.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, "fnlux"),
//	    logger.WithContextValue("request_id", requestIDKey),
//	)
//	logger.SetAsDefault(log)
//
//	log.Debug("dispatch applied",
//	    logger.DispatchID(token.String()),
//	    logger.Depth(store.Depth()),
//	)
//
// # Configuration
//
//   - WithEnvironment: text/debug for development, json/info for staging and production.
//   - WithFormat, WithTextFormatter, WithJSONFormatter: output format.
//   - WithLevel and ParseLevel: minimum level, typically read from the environment.
//   - WithAttr: static attributes.
//   - WithContextExtractors, WithContextValue: attributes pulled from context.
//
// # Error Handling
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("replay finished", logger.Error(err))
//
// needs no nil check.
package logger
