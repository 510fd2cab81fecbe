package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/remotecomparer/pkg/models"
)

// JSONFormatter writes one JSON event per line for automation and scripting
type JSONFormatter struct {
	encoder   *json.Encoder
	startTime time.Time
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONStartData represents the data for a start event
type JSONStartData struct {
	RequestID     string `json:"request_id"`
	LocalFilePath string `json:"local_file_path"`
	RemoteFileURI string `json:"remote_file_uri"`
	TimeoutMs     int    `json:"timeout_ms"`
	Method        string `json:"method"`
}

// JSONStageData represents a stage transition
type JSONStageData struct {
	Stage  string `json:"stage"`
	Detail string `json:"detail,omitempty"`
}

// JSONOutcomeData represents the final outcome
type JSONOutcomeData struct {
	*models.RunOutcome
	DurationMs int64 `json:"duration_ms"`
	ExitCode   int   `json:"exit_code"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter and emits the start event
func (f *JSONFormatter) Start(writer io.Writer, req *models.ComparisonRequest) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.encoder = json.NewEncoder(writer)
	f.startTime = time.Now()

	return f.emit("start", JSONStartData{
		RequestID:     req.ID,
		LocalFilePath: req.LocalFilePath,
		RemoteFileURI: req.RemoteFileURI,
		TimeoutMs:     req.TimeoutMs,
		Method:        string(req.Method),
	})
}

// Progress emits stage transitions. Byte-level fetch progress is not
// streamed to keep the output compact.
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	if update.Type == UpdateFetchProgress {
		return nil
	}
	return f.emit(update.Type, JSONStageData{
		Stage:  string(update.Stage),
		Detail: update.Detail,
	})
}

// Complete emits the complete event carrying the outcome
func (f *JSONFormatter) Complete(outcome *models.RunOutcome) error {
	return f.emit("complete", newOutcomeData(outcome))
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) emit(eventType string, data any) error {
	if f.encoder == nil {
		f.encoder = json.NewEncoder(io.Discard)
	}
	return f.encoder.Encode(JSONEvent{
		Timestamp: time.Now(),
		Type:      eventType,
		Data:      data,
	})
}

func newOutcomeData(outcome *models.RunOutcome) JSONOutcomeData {
	return JSONOutcomeData{
		RunOutcome: outcome,
		DurationMs: outcome.Duration.Milliseconds(),
		ExitCode:   outcome.Status.ExitCode(),
	}
}
