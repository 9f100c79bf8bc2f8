package taskqueue

import "log/slog"

// Option configures a Queue during creation.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

func defaultOptions() options {
	return options{logger: slog.New(slog.DiscardHandler)}
}

// WithLogger sets the logger used for queue diagnostics.
// A nil logger keeps the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
