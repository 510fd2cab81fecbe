package output

import (
	"fmt"
	"io"
	"time"

	"github.com/sdejongh/remotecomparer/pkg/models"
)

var stageLabels = map[models.Stage]string{
	models.StageResolve: "Resolving local file",
	models.StageFetch:   "Fetching remote file",
	models.StageCompare: "Comparing contents",
}

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer    io.Writer
	startTime time.Time
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, req *models.ComparisonRequest) error {
	f.writer = writer
	f.startTime = time.Now()

	if writer != nil {
		fmt.Fprintf(writer, "Comparing %s with %s\n", req.LocalFilePath, req.RemoteFileURI)
	}

	return nil
}

// Progress prints one line per stage
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case UpdateStageStart:
		fmt.Fprintf(f.writer, "  %s...\n", stageLabel(update.Stage))
	case UpdateStageComplete:
		if update.Detail != "" {
			fmt.Fprintf(f.writer, "  %s: %s\n", stageLabel(update.Stage), update.Detail)
		}
	}

	return nil
}

// Complete displays the final status line
func (f *HumanFormatter) Complete(outcome *models.RunOutcome) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	writeOutcome(f.writer, outcome)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func stageLabel(stage models.Stage) string {
	if label, ok := stageLabels[stage]; ok {
		return label
	}
	return string(stage)
}

// writeOutcome prints the ✓/✗ line followed by the warnings and errors reported
func writeOutcome(w io.Writer, outcome *models.RunOutcome) {
	mark := "✓"
	if !outcome.Succeeded() {
		mark = "✗"
	} else if outcome.SoftFailure() {
		mark = "!"
	}

	fmt.Fprintf(w, "%s %s (%s)\n", mark, outcome.Message, outcome.Duration.Round(time.Millisecond))

	for _, report := range outcome.Reports {
		if report.Level == models.ReportInfo {
			continue
		}
		fmt.Fprintf(w, "  [%s] %s\n", report.Level, report.Message)
	}

	fmt.Fprintf(w, "Status: %s\n", outcome.Status)
}
