package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sdejongh/remotecomparer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() *models.ComparisonRequest {
	return &models.ComparisonRequest{
		ID:            "req-1",
		LocalFilePath: "config.txt",
		RemoteFileURI: "http://example.com/config.txt",
		TimeoutMs:     10000,
		Method:        models.CompareText,
	}
}

func equalOutcome() *models.RunOutcome {
	return &models.RunOutcome{
		RequestID:     "req-1",
		LocalFilePath: "/work/config.txt",
		RemoteFileURI: "http://example.com/config.txt",
		Status:        models.StatusSuccess,
		Stage:         models.StageCompare,
		Message:       "The file '/work/config.txt' is equal to the remote file 'http://example.com/config.txt'",
		Resolution:    models.Found("/work/config.txt", []string{"/work/config.txt"}),
		Fetch:         models.Fetched("/tmp/remotecomparer-x"),
		Comparison:    models.Equal("text content matches (2 lines)"),
		Reports:       []models.Report{{Level: models.ReportInfo, Message: "equal"}},
		Duration:      1500 * time.Millisecond,
	}
}

func differentOutcome() *models.RunOutcome {
	o := equalOutcome()
	o.Status = models.StatusFailure
	o.Kind = models.KindDifference
	o.Message = "The file '/work/config.txt' is not equal to the remote file 'http://example.com/config.txt'"
	o.Comparison = models.Different("content differs at line 2")
	o.Reports = nil
	return o
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		progress bool
		want     string
		wantErr  bool
	}{
		{"", false, "human", false},
		{"human", false, "human", false},
		{"human", true, "progress", false},
		{"json", true, "json", false},
		{"xml", false, "", true},
	}

	for _, tt := range tests {
		f, err := New(tt.name, tt.progress)
		if tt.wantErr {
			assert.Error(t, err, tt.name)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, f.Name())
	}
}

func TestHumanFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter()

	require.NoError(t, f.Start(&buf, testRequest()))
	require.NoError(t, f.Progress(ProgressUpdate{Type: UpdateStageStart, Stage: models.StageResolve}))
	require.NoError(t, f.Progress(ProgressUpdate{Type: UpdateStageComplete, Stage: models.StageResolve, Detail: "/work/config.txt"}))
	require.NoError(t, f.Progress(ProgressUpdate{Type: UpdateFetchProgress, BytesWritten: 10, TotalBytes: 20}))
	require.NoError(t, f.Complete(equalOutcome()))

	out := buf.String()
	assert.Contains(t, out, "Comparing config.txt with http://example.com/config.txt")
	assert.Contains(t, out, "Resolving local file...")
	assert.Contains(t, out, "Resolving local file: /work/config.txt")
	assert.Contains(t, out, "✓ The file '/work/config.txt' is equal")
	assert.Contains(t, out, "Status: success")
	assert.NotContains(t, out, "[info]")
}

func TestHumanFormatterFailureAndWarnings(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter()
	require.NoError(t, f.Start(&buf, testRequest()))

	soft := equalOutcome()
	soft.Kind = models.KindNotFound
	soft.Reports = []models.Report{{Level: models.ReportError, Message: "could not be found"}}
	require.NoError(t, f.Complete(soft))
	assert.Contains(t, buf.String(), "! ")
	assert.Contains(t, buf.String(), "[error] could not be found")

	buf.Reset()
	require.NoError(t, f.Complete(differentOutcome()))
	assert.Contains(t, buf.String(), "✗ The file")
	assert.Contains(t, buf.String(), "Status: failure")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()

	require.NoError(t, f.Start(&buf, testRequest()))
	require.NoError(t, f.Progress(ProgressUpdate{Type: UpdateStageStart, Stage: models.StageFetch}))
	require.NoError(t, f.Progress(ProgressUpdate{Type: UpdateFetchProgress, BytesWritten: 1}))
	require.NoError(t, f.Complete(differentOutcome()))

	var events []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var event map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &event))
		events = append(events, event)
	}

	require.Len(t, events, 3)
	assert.Equal(t, "start", events[0]["type"])
	assert.Equal(t, "stage_start", events[1]["type"])
	assert.Equal(t, "complete", events[2]["type"])

	data := events[2]["data"].(map[string]any)
	assert.Equal(t, "failure", data["status"])
	assert.Equal(t, "difference", data["kind"])
	assert.Equal(t, float64(1), data["exit_code"])
	assert.Equal(t, float64(1500), data["duration_ms"])
}

func TestProgressFormatterNonInteractive(t *testing.T) {
	var buf bytes.Buffer
	f := NewProgressFormatter()

	require.NoError(t, f.Start(&buf, testRequest()))
	assert.False(t, f.interactive)
	assert.Equal(t, 120, f.termWidth)

	require.NoError(t, f.Progress(ProgressUpdate{Type: UpdateStageStart, Stage: models.StageFetch}))
	require.NoError(t, f.Progress(ProgressUpdate{Type: UpdateFetchProgress, Stage: models.StageFetch, BytesWritten: 2048, TotalBytes: 2048}))
	require.NoError(t, f.Progress(ProgressUpdate{Type: UpdateStageComplete, Stage: models.StageFetch}))
	require.NoError(t, f.Complete(equalOutcome()))

	out := buf.String()
	assert.Contains(t, out, "Fetching remote file...")
	assert.Contains(t, out, "Fetched 2.0 KiB")
	assert.Contains(t, out, "Status: success")
	assert.Nil(t, f.bar)
}

func TestProgressFormatterBar(t *testing.T) {
	var buf bytes.Buffer
	f := NewProgressFormatter()
	require.NoError(t, f.Start(&buf, testRequest()))

	// Force bar rendering on a non-terminal writer
	f.interactive = true

	require.NoError(t, f.Progress(ProgressUpdate{Type: UpdateFetchProgress, BytesWritten: 512, TotalBytes: 1024}))
	require.NotNil(t, f.bar)
	assert.Equal(t, int64(1024), f.bar.Total())
	assert.Equal(t, int64(512), f.bar.Current())

	require.NoError(t, f.Progress(ProgressUpdate{Type: UpdateStageComplete, Stage: models.StageFetch}))
	assert.Nil(t, f.bar)
}

func TestWriteOutcomeReport(t *testing.T) {
	dir := t.TempDir()

	t.Run("Human", func(t *testing.T) {
		path := filepath.Join(dir, "report.txt")
		outcome := equalOutcome()
		outcome.Resolution = models.Found("/work/config.txt", []string{"/cwd/config.txt", "/work/config.txt"})
		require.NoError(t, WriteOutcomeReport(outcome, path, "human"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		report := string(data)
		assert.True(t, strings.HasPrefix(report, "Comparison Report\n"))
		assert.Contains(t, report, "    /cwd/config.txt")
		assert.Contains(t, report, "  * /work/config.txt")
		assert.Contains(t, report, "Comparison: equal (text content matches (2 lines))")
		assert.Contains(t, report, "[info] equal")
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "report.json")
		require.NoError(t, WriteOutcomeReport(differentOutcome(), path, "json"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "req-1", decoded["request_id"])
		assert.Equal(t, "failure", decoded["status"])
		assert.NotEmpty(t, decoded["generated"])
		comparison := decoded["comparison"].(map[string]any)
		assert.Equal(t, "different", comparison["verdict"])
	})

	t.Run("BadPath", func(t *testing.T) {
		err := WriteOutcomeReport(equalOutcome(), filepath.Join(dir, "missing", "report.txt"), "human")
		assert.Error(t, err)
	})
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.0 KiB", formatBytes(1024))
	assert.Equal(t, "1.5 MiB", formatBytes(1536*1024))
	assert.Equal(t, "0 B", formatBytes(-1))
}
