package output

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/sdejongh/remotecomparer/pkg/models"
)

// Progress update types
const (
	UpdateStageStart    = "stage_start"
	UpdateStageComplete = "stage_complete"
	UpdateFetchProgress = "fetch_progress"
)

// ProgressUpdate represents a progress notification during a comparison run
type ProgressUpdate struct {
	Type         string // one of the Update* constants
	Stage        models.Stage
	Detail       string
	BytesWritten int64
	TotalBytes   int64 // -1 when unknown
}

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress bar formatters
type Formatter interface {
	// Start initializes the formatter for a new run
	Start(writer io.Writer, req *models.ComparisonRequest) error

	// Progress reports stage transitions and fetch progress
	Progress(update ProgressUpdate) error

	// Complete finalizes output and displays the outcome
	Complete(outcome *models.RunOutcome) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter for name. progress selects the progress bar
// variant of the human formatter.
func New(name string, progress bool) (Formatter, error) {
	switch name {
	case "", "human":
		if progress {
			return NewProgressFormatter(), nil
		}
		return NewHumanFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use: human, json)", name)
	}
}

// formatBytes formats bytes in human-readable (IEC) form
func formatBytes(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
