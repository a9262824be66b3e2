// Package logging defines a minimal structured-logging interface so the
// store can report degraded persistence without depending on a concrete
// logger.
package logging

import (
	"log/slog"
	"os"
)

// Logger is a structured logger. The variadic args are key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type slogLogger struct {
	l *slog.Logger
}

// New wraps an slog.Logger.
func New(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

// Default returns a logger writing text to stderr.
func Default() Logger {
	return New(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() Logger {
	return New(slog.New(slog.DiscardHandler))
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }
