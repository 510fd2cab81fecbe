package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/sdejongh/remotecomparer/pkg/models"
	"golang.org/x/term"
)

// Update interval constants
const (
	updateIntervalNormal = 100 * time.Millisecond
	updateIntervalSlow   = 500 * time.Millisecond // For Windows consoles
)

// getUpdateInterval returns the bar refresh interval for the platform
func getUpdateInterval() time.Duration {
	if os.Getenv("OS") == "Windows_NT" {
		return updateIntervalSlow
	}
	return updateIntervalNormal
}

// ProgressFormatter prints stage lines and a byte progress bar while the remote
// file is fetched. The bar is only drawn on terminals.
type ProgressFormatter struct {
	mu sync.Mutex

	writer      io.Writer
	interactive bool
	termWidth   int

	bar        *pb.ProgressBar
	lastRender time.Time
	fetched    int64
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, req *models.ComparisonRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer

	// Detect terminal width to prevent line wrapping issues
	if file, ok := writer.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		f.interactive = true
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			f.termWidth = width
		}
	}
	// Default to 120 if we couldn't detect (pipe, redirect, etc.)
	if f.termWidth == 0 {
		f.termWidth = 120
	}

	fmt.Fprintf(f.writer, "Comparing %s with %s\n", req.LocalFilePath, req.RemoteFileURI)
	return nil
}

// Progress reports stage transitions and fetch progress
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer == nil {
		return nil
	}

	switch update.Type {
	case UpdateStageStart:
		f.finishBar()
		fmt.Fprintf(f.writer, "  %s...\n", stageLabel(update.Stage))

	case UpdateFetchProgress:
		f.fetched = update.BytesWritten
		if !f.interactive {
			return nil
		}
		if f.bar == nil {
			f.bar = f.newBar(update.TotalBytes)
		}
		if update.TotalBytes > 0 && f.bar.Total() != update.TotalBytes {
			f.bar.SetTotal(update.TotalBytes)
		}
		f.bar.SetCurrent(update.BytesWritten)
		if time.Since(f.lastRender) >= getUpdateInterval() || update.BytesWritten == update.TotalBytes {
			f.bar.Write()
			f.lastRender = time.Now()
		}

	case UpdateStageComplete:
		if update.Stage == models.StageFetch {
			f.finishBar()
			if f.fetched > 0 {
				fmt.Fprintf(f.writer, "  Fetched %s\n", formatBytes(f.fetched))
			}
		}
		if update.Detail != "" {
			fmt.Fprintf(f.writer, "  %s: %s\n", stageLabel(update.Stage), update.Detail)
		}
	}

	return nil
}

// Complete finalizes output and displays the outcome
func (f *ProgressFormatter) Complete(outcome *models.RunOutcome) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writer == nil {
		f.writer = io.Discard
	}
	f.finishBar()
	writeOutcome(f.writer, outcome)
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

// newBar creates a statically rendered byte bar; rendering happens in Progress
func (f *ProgressFormatter) newBar(total int64) *pb.ProgressBar {
	if total < 0 {
		total = 0
	}
	bar := pb.New64(total)
	bar.SetWriter(f.writer)
	bar.SetTemplate(pb.Full)
	bar.SetWidth(f.termWidth)
	bar.Set(pb.Bytes, true)
	bar.Set(pb.Static, true)
	bar.Set(pb.Terminal, f.interactive)
	return bar.Start()
}

func (f *ProgressFormatter) finishBar() {
	if f.bar == nil {
		return
	}
	f.bar.Finish()
	f.bar = nil
}
