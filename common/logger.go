package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger shared by the engine and all of its sub-packages.
// The engine is silent until SetLogger is called. Passing nil restores the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: per-frame diagnostics
//   - [slog.LevelInfo]: lifecycle events (adapter selected, surface configured, session started/stopped)
//   - [slog.LevelWarn]: recoverable issues (frame skipped, resource release failures)
//   - [slog.LevelError]: fatal errors that stop the frame loop
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current shared logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
