package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileLogger(t *testing.T, format Format, level Level) (*FileLogger, string) {
	t.Helper()

	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewFileLogger(FileLoggerConfig{
		Path:   logPath,
		Format: format,
		Level:  level,
	})
	require.NoError(t, err)
	return logger, logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestNewFileLogger_CreatesDirectoryAndFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatText, Level: InfoLevel})
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(logPath)
	assert.NoError(t, err, "log file should be created at construction")
}

func TestFileLogger_LogLevels(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatText, InfoLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)
	require.NoError(t, logger.Close())

	content := readLog(t, logPath)
	assert.NotContains(t, content, "debug message", "debug should be filtered at INFO level")
	assert.Contains(t, content, "info message")
	assert.Contains(t, content, "warn message")
	assert.Contains(t, content, "error message")
}

func TestFileLogger_DebugLevel(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatText, DebugLevel)

	logger.Debug(context.Background(), "debug message", nil)
	require.NoError(t, logger.Close())

	assert.Contains(t, readLog(t, logPath), "debug message")
}

func TestFileLogger_TextFormat(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatText, InfoLevel)

	logger.Info(context.Background(), "test message", Fields{"key": "value", "count": 42})
	require.NoError(t, logger.Close())

	content := readLog(t, logPath)
	assert.Contains(t, content, "INF")
	assert.Contains(t, content, "test message")
	assert.Contains(t, content, "key=value")
	assert.Contains(t, content, "count=42")
}

func TestFileLogger_JSONFormat(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatJSON, InfoLevel)

	logger.Info(context.Background(), "test message", Fields{"key": "value", "count": 42})
	require.NoError(t, logger.Close())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(readLog(t, logPath)), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test message", entry["message"])
	assert.Equal(t, "value", entry["key"])
	assert.EqualValues(t, 42, entry["count"])
	assert.NotNil(t, entry["time"])
}

func TestFileLogger_ErrorWithErr(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatJSON, InfoLevel)

	logger.Error(context.Background(), "operation failed", errors.New("something went wrong"), Fields{"operation": "test"})
	require.NoError(t, logger.Close())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(readLog(t, logPath)), &entry))
	assert.Equal(t, "something went wrong", entry["error"])
	assert.Equal(t, "test", entry["operation"])
}

func TestFileLogger_WithFields(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatJSON, InfoLevel)

	logger.WithFields(Fields{"component": "engine"}).Info(context.Background(), "test", Fields{"stage": "fetch"})
	require.NoError(t, logger.Close())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(readLog(t, logPath)), &entry))
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "fetch", entry["stage"])
}

func TestFileLogger_Rotate(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatText, InfoLevel)
	ctx := context.Background()

	logger.Info(ctx, "before rotation", nil)
	require.NoError(t, logger.Rotate())
	logger.Info(ctx, "after rotation", nil)
	require.NoError(t, logger.Close())

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(logPath), "test-*.log"))
	require.NoError(t, err)
	assert.Len(t, matches, 1, "rotation should leave one backup file")
	assert.Contains(t, readLog(t, logPath), "after rotation")
	assert.NotContains(t, readLog(t, logPath), "before rotation")
}

func TestFileLogger_ConcurrentWrites(t *testing.T) {
	logger, logPath := newTestFileLogger(t, FormatText, InfoLevel)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				logger.Info(ctx, "concurrent message", Fields{"goroutine": id, "iteration": j})
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	lines := strings.Split(strings.TrimSpace(readLog(t, logPath)), "\n")
	assert.Len(t, lines, 1000)
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(ConsoleLoggerConfig{Out: &buf, Format: FormatText, Level: WarnLevel, NoColor: true})
	ctx := context.Background()

	logger.Info(ctx, "hidden", nil)
	logger.Warn(ctx, "shown", nil)
	require.NoError(t, logger.Close())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WRN")
	assert.Contains(t, buf.String(), "shown")
}

func TestTee(t *testing.T) {
	var a, b bytes.Buffer
	logger := Tee(
		NewConsoleLogger(ConsoleLoggerConfig{Out: &a, Format: FormatJSON, Level: InfoLevel}),
		nil,
		NewConsoleLogger(ConsoleLoggerConfig{Out: &b, Format: FormatJSON, Level: ErrorLevel}),
	)

	logger.WithFields(Fields{"request_id": "r1"}).Warn(context.Background(), "careful", nil)
	require.NoError(t, logger.Close())

	assert.Contains(t, a.String(), `"request_id":"r1"`)
	assert.Empty(t, b.String())

	assert.True(t, IsNull(Tee()))
	assert.True(t, IsNull(Tee(nil, nil)))
	assert.False(t, IsNull(Tee(NewConsoleLogger(ConsoleLoggerConfig{Out: &a}))))
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(context.Background(), NewConsoleLogger(ConsoleLoggerConfig{Out: &buf, Format: FormatJSON, Level: InfoLevel}))

	reporter.Info("equal")
	reporter.Warn("different")
	reporter.Error("missing")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	levels := make([]string, 0, len(lines))
	for _, line := range lines {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		levels = append(levels, entry["level"].(string))
	}
	assert.Equal(t, []string{"info", "warn", "error"}, levels)

	// A nil logger must not panic
	NewReporter(nil, nil).Error("ignored")
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", nil, nil)

	assert.True(t, IsNull(logger))
	assert.True(t, IsNull(logger.WithFields(Fields{"key": "value"})))
	assert.NoError(t, logger.Close())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"unknown", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}
