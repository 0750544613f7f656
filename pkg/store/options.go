package store

import "log/slog"

// Option configures a Store.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	historyLimit int
}

// WithLogger sets the logger used for dispatch diagnostics. Nil keeps the
// default discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHistoryLimit caps how many undo steps are retained above the initial
// state. Older steps are dropped first. Zero means unbounded.
func WithHistoryLimit(n int) Option {
	if n < 0 {
		panic("WithHistoryLimit: limit must be >= 0")
	}
	return func(o *options) { o.historyLimit = n }
}
