package gputhread

import "log/slog"

// Option configures a Thread during Create.
//
// Example:
//
//	refs := gputhread.NewRefCount(2)
//	t, err := gputhread.Create(platform, gputhread.ConfigPlain(),
//	    gputhread.WithReleaseMonitor(refs),
//	    gputhread.WithSharedContext(parent.SharedContext()),
//	)
type Option func(*options)

// options holds optional configuration for Thread creation.
type options struct {
	monitor ReleaseMonitor
	shared  Native
	name    string
	logger  *slog.Logger
}

// defaultOptions returns the default thread options.
func defaultOptions() options {
	return options{
		monitor: nil, // SoleOwner
		shared:  nil, // compat context
		name:    "gputhread",
		logger:  nil, // package Logger()
	}
}

// WithReleaseMonitor sets the policy deciding when Release tears the thread
// down. Without it every Release is final.
func WithReleaseMonitor(m ReleaseMonitor) Option {
	return func(o *options) {
		o.monitor = m
	}
}

// WithSharedContext chains the new context from parent so that both share
// textures and buffers. Without it the thread creates a standalone context
// on the compatibility path, and texture frames are unavailable.
func WithSharedContext(parent Native) Option {
	return func(o *options) {
		o.shared = parent
	}
}

// WithName names the thread and its task queue in logs.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger gives the thread its own logger instead of the package one.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
