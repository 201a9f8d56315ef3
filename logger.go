package multiview

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for multiview and its frame sinks.
// By default, multiview produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by multiview:
//   - [slog.LevelDebug]: per-frame diagnostics (buffer resizes, pointer routing fallbacks)
//   - [slog.LevelInfo]: lifecycle events (view registered, view unregistered)
//   - [slog.LevelWarn]: per-view frame failures
//
// Example:
//
//	// Enable info-level logging to stderr:
//	multiview.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	multiview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	// Propagate to frame sinks that support logging.
	sinksMu.RLock()
	defer sinksMu.RUnlock()
	for ls := range sinks {
		ls.SetLogger(l)
	}
}

// Logger returns the current logger used by multiview.
// Sub-packages (gpu/, cmd/) call this to share the same logger
// configuration without introducing import cycles.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by frame sinks that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

var (
	sinksMu sync.RWMutex
	sinks   = make(map[loggerSetter]struct{})
)

// attachLogger passes the current logger to sink if it implements
// loggerSetter and keeps it updated on later SetLogger calls.
func attachLogger(sink FrameSink) {
	ls, ok := sink.(loggerSetter)
	if !ok {
		return
	}
	sinksMu.Lock()
	sinks[ls] = struct{}{}
	sinksMu.Unlock()
	ls.SetLogger(Logger())
}

// detachLogger stops propagating logger changes to sink.
func detachLogger(sink FrameSink) {
	ls, ok := sink.(loggerSetter)
	if !ok {
		return
	}
	sinksMu.Lock()
	delete(sinks, ls)
	sinksMu.Unlock()
}
