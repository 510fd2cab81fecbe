package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// Level represents log severity
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Logger defines the interface for logging
type Logger interface {
	// Debug logs a debug message
	Debug(ctx context.Context, msg string, fields Fields)

	// Info logs an info message
	Info(ctx context.Context, msg string, fields Fields)

	// Warn logs a warning message
	Warn(ctx context.Context, msg string, fields Fields)

	// Error logs an error message
	Error(ctx context.Context, msg string, err error, fields Fields)

	// WithFields returns a logger with additional fields
	WithFields(fields Fields) Logger

	// Close flushes and closes the logger
	Close() error
}

// ParseLevel parses a log level string
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return DebugLevel
	case "info", "INFO":
		return InfoLevel
	case "warn", "WARN", "warning", "WARNING":
		return WarnLevel
	case "error", "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// ParseFormat parses a log format string, defaulting to text
func ParseFormat(s string) Format {
	if s == string(FormatJSON) {
		return FormatJSON
	}
	return FormatText
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// zerologLogger adapts a zerolog.Logger to Logger. Console and file loggers share it.
type zerologLogger struct {
	zl     zerolog.Logger
	closer func() error
}

func (l *zerologLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.emit(l.zl.Debug(), msg, nil, fields)
}

func (l *zerologLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.emit(l.zl.Info(), msg, nil, fields)
}

func (l *zerologLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.emit(l.zl.Warn(), msg, nil, fields)
}

func (l *zerologLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.emit(l.zl.Error(), msg, err, fields)
}

func (l *zerologLogger) WithFields(fields Fields) Logger {
	return &zerologLogger{
		zl:     l.zl.With().Fields(map[string]interface{}(fields)).Logger(),
		closer: l.closer,
	}
}

func (l *zerologLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer()
}

// emit is a no-op when ev is nil (level disabled)
func (l *zerologLogger) emit(ev *zerolog.Event, msg string, err error, fields Fields) {
	if ev == nil {
		return
	}
	if err != nil {
		ev = ev.Err(err)
	}
	if len(fields) > 0 {
		ev = ev.Fields(map[string]interface{}(fields))
	}
	ev.Msg(msg)
}
