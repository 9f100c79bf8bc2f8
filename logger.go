package gputhread

import (
	"log/slog"
	"sync/atomic"
)

var (
	discard = slog.New(slog.DiscardHandler)

	// pkgLogger is nil until SetLogger installs one.
	pkgLogger atomic.Pointer[slog.Logger]
)

// SetLogger configures the package logger used by threads created without
// WithLogger. By default gputhread produces no log output; pass nil to
// return to that.
//
// Levels:
//   - [slog.LevelDebug]: non-final releases, queue start and drain
//   - [slog.LevelInfo]: thread started, context destroyed
//   - [slog.LevelWarn]: destroy failures, task panics, work posted after shutdown
//
// Example:
//
//	gputhread.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//
// The logger is read when a Thread is created; changing it later does not
// affect running threads.
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

// Logger returns the current package logger. It never returns nil.
func Logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return discard
}
