// Package logger provides logging abstractions for Sequel.
// It supports standard library log/slog and allows custom logger implementations.
package logger

import "log/slog"

// Logger is the structured logging interface used by the connection layer.
// Messages carry alternating key-value pairs in the slog style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoopLogger discards everything. It is the default when no logger is
// configured, keeping the logging path free of allocations.
type NoopLogger struct{}

func (NoopLogger) Debug(_ string, _ ...any) {}
func (NoopLogger) Info(_ string, _ ...any)  {}
func (NoopLogger) Warn(_ string, _ ...any)  {}
func (NoopLogger) Error(_ string, _ ...any) {}

// SlogAdapter bridges a *slog.Logger into the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps an slog.Logger. The logger must not be nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

func (a *SlogAdapter) Debug(msg string, args ...any) { a.logger.Debug(msg, args...) }
func (a *SlogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *SlogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *SlogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
