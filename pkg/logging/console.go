package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ConsoleLoggerConfig holds configuration for console logging
type ConsoleLoggerConfig struct {
	// Out is the destination (default os.Stderr)
	Out io.Writer
	// Format is the output format; text is rendered by zerolog's console writer
	Format Format
	// Level is the minimum log level
	Level Level
	// NoColor disables ANSI colors in text output
	NoColor bool
}

// NewConsoleLogger creates a logger writing to a terminal or pipe
func NewConsoleLogger(config ConsoleLoggerConfig) Logger {
	out := config.Out
	if out == nil {
		out = os.Stderr
	}

	if config.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    config.NoColor,
			TimeFormat: "15:04:05",
		}
	}

	return &zerologLogger{
		zl: zerolog.New(out).Level(config.Level.zerolog()).With().Timestamp().Logger(),
	}
}
