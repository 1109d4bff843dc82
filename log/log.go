// Package log provides Velk's logging facade: silent by default, backed by
// log/slog, and adjustable at runtime by installing a different logger.
package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled always returns false so callers
// skip formatting entirely, making disabled logging effectively free.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs l as the runtime's logger. Pass nil to restore the
// default silent behavior. Safe for concurrent use.
//
// Levels used by the runtime:
//   - [slog.LevelDebug]: registry churn (register, re-register, unregister,
//     owner sweep) and plugin load/unload.
//   - [slog.LevelError]: plugin library load failures, dependency checks
//     failing, plugin Initialize returning an error, and unload failures
//     during ShutdownAll.
//
// The runtime itself logs nothing at [slog.LevelInfo] or [slog.LevelWarn].
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the currently installed logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// Debug, Info, Warning, and Error log through the currently installed
// logger at the matching level, so call sites don't thread a *slog.Logger
// through every function that might need to log.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Warning(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}
