package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSizeMB is the size in megabytes that triggers rotation (0 = lumberjack default of 100)
	MaxSizeMB int
	// MaxBackups is the maximum number of rotated files to keep (0 = keep all)
	MaxBackups int
}

// FileLogger implements Logger with rotating file output
type FileLogger struct {
	*zerologLogger
	rotator *lumberjack.Logger
}

// NewFileLogger creates a new file logger
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   config.Path,
		MaxSize:    config.MaxSizeMB,
		MaxBackups: config.MaxBackups,
		LocalTime:  true,
	}

	// lumberjack opens lazily; open now so permission problems surface here
	if _, err := rotator.Write(nil); err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var out io.Writer = rotator
	if config.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        rotator,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}
	}

	return &FileLogger{
		zerologLogger: &zerologLogger{
			zl:     zerolog.New(out).Level(config.Level.zerolog()).With().Timestamp().Logger(),
			closer: rotator.Close,
		},
		rotator: rotator,
	}, nil
}

// Rotate closes the current file and starts a new one
func (l *FileLogger) Rotate() error {
	return l.rotator.Rotate()
}
