package logging

import "github.com/rs/zerolog"

// NewNullLogger returns a logger that discards everything.
// Used when logging is disabled or no logger was supplied.
func NewNullLogger() Logger {
	return &zerologLogger{zl: zerolog.Nop()}
}

// IsNull reports whether l discards all output
func IsNull(l Logger) bool {
	zl, ok := l.(*zerologLogger)
	return ok && zl.zl.GetLevel() == zerolog.Disabled
}
