// Package logging provides the small structured logger used across the
// engine, modeled on viamrobotics-rdk's logging package but trimmed to what
// a synchronous, no-retry core needs: leveled, named, structured logging
// with no network appenders.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a named, leveled structured logger.
type Logger struct {
	sugar *zap.SugaredLogger
	name  string
}

// NewLogger returns a production-leveled (Info and above) logger named
// name.
func NewLogger(name string) *Logger {
	return newLogger(name, zap.InfoLevel)
}

// NewDebugLogger returns a Debug-leveled logger named name, for use in
// tests and interactive tools.
func NewDebugLogger(name string) *Logger {
	return newLogger(name, zap.DebugLevel)
}

func newLogger(name string, level zapcore.Level) *Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap.NewDevelopmentConfig().Build never fails in practice; fall
		// back to a no-op logger rather than panic in a library.
		z = zap.NewNop()
	}
	return &Logger{sugar: z.Sugar().Named(name), name: name}
}

// Named returns a child logger with an additional name segment.
func (l *Logger) Named(name string) *Logger {
	return &Logger{sugar: l.sugar.Named(name), name: l.name + "." + name}
}

// Debugw logs a debug-level message with structured key/value fields.
func (l *Logger) Debugw(msg string, kv ...interface{}) {
	l.sugar.Debugw(msg, kv...)
}

// Infow logs an info-level message with structured key/value fields.
func (l *Logger) Infow(msg string, kv ...interface{}) {
	l.sugar.Infow(msg, kv...)
}

// Warnw logs a warn-level message with structured key/value fields.
func (l *Logger) Warnw(msg string, kv ...interface{}) {
	l.sugar.Warnw(msg, kv...)
}

// Errorw logs an error-level message with structured key/value fields. The
// engine itself never calls this for operation failures — errors are
// returned, not logged — it exists for the CLI wrapper and other external
// collaborators.
func (l *Logger) Errorw(msg string, kv ...interface{}) {
	l.sugar.Errorw(msg, kv...)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
