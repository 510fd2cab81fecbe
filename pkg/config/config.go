package config

import (
	"fmt"

	"github.com/sdejongh/remotecomparer/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare     CompareConfig     `yaml:"compare"`
	Fetch       FetchConfig       `yaml:"fetch"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Comparisons []ComparisonEntry `yaml:"comparisons,omitempty"`
}

// CompareConfig holds the default policy applied to every comparison
type CompareConfig struct {
	TimeoutMs            int                     `yaml:"timeout_ms"`
	FailOnFileDifference bool                    `yaml:"fail_on_file_difference"`
	FailOnFilesNotFound  bool                    `yaml:"fail_on_files_not_found"`
	SmallWarningMessage  bool                    `yaml:"small_warning_message"`
	ProjectBase          string                  `yaml:"project_base"`
	Method               models.ComparisonMethod `yaml:"method"`
	TempDir              string                  `yaml:"temp_dir"` // Transient files (empty = system temp dir)
}

// FetchConfig holds HTTP client settings
type FetchConfig struct {
	UserAgent       string            `yaml:"user_agent"`
	EnableHTTP2     bool              `yaml:"enable_http2"`
	FollowRedirects bool              `yaml:"follow_redirects"`
	MaxRedirects    int               `yaml:"max_redirects"`
	BandwidthLimit  int64             `yaml:"bandwidth_limit"` // bytes per second, 0 = unlimited
	Headers         map[string]string `yaml:"headers,omitempty"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show a progress bar while fetching
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format     string `yaml:"format"` // "json" or "text"
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`   // Log file path (empty = no file log)
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// ComparisonEntry is one configured comparison. Unset fields inherit from CompareConfig.
type ComparisonEntry struct {
	Name                 string                  `yaml:"name,omitempty"`
	LocalFilePath        string                  `yaml:"local_file_path"`
	RemoteFileURI        string                  `yaml:"remote_file_uri"`
	TimeoutMs            *int                    `yaml:"timeout_ms,omitempty"`
	FailOnFileDifference *bool                   `yaml:"fail_on_file_difference,omitempty"`
	FailOnFilesNotFound  *bool                   `yaml:"fail_on_files_not_found,omitempty"`
	SmallWarningMessage  *bool                   `yaml:"small_warning_message,omitempty"`
	ProjectBase          string                  `yaml:"project_base,omitempty"`
	Method               models.ComparisonMethod `yaml:"method,omitempty"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			TimeoutMs:            models.DefaultTimeoutMs,
			FailOnFileDifference: false,
			FailOnFilesNotFound:  false,
			SmallWarningMessage:  false,
			Method:               models.CompareText,
		},
		Fetch: FetchConfig{
			UserAgent:       "remotecomparer",
			EnableHTTP2:     true,
			FollowRedirects: true,
			MaxRedirects:    10,
			BandwidthLimit:  0,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: false,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format:     "text",
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Compare.TimeoutMs < 0 {
		return &models.ValidationError{
			Field:   "compare.timeout_ms",
			Message: "must be at least 0",
		}
	}

	if !validMethod(c.Compare.Method) {
		return &models.ValidationError{
			Field:   "compare.method",
			Message: "must be 'text' or 'binary'",
		}
	}

	if c.Fetch.MaxRedirects < 0 {
		return &models.ValidationError{
			Field:   "fetch.max_redirects",
			Message: "must be at least 0",
		}
	}

	if c.Fetch.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "fetch.bandwidth_limit",
			Message: "must be at least 0",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	for i, entry := range c.Comparisons {
		field := fmt.Sprintf("comparisons[%d]", i)
		if entry.TimeoutMs != nil && *entry.TimeoutMs < 0 {
			return &models.ValidationError{Field: field + ".timeout_ms", Message: "must be at least 0"}
		}
		if entry.Method != "" && !validMethod(entry.Method) {
			return &models.ValidationError{Field: field + ".method", Message: "must be 'text' or 'binary'"}
		}
	}

	return nil
}

func validMethod(m models.ComparisonMethod) bool {
	return m == models.CompareText || m == models.CompareBinary
}

// Request builds a comparison request from an entry, filling unset values from the
// compare defaults. Required fields are checked by models.NewComparisonRequest.
func (c *Config) Request(entry ComparisonEntry) (*models.ComparisonRequest, error) {
	req := models.ComparisonRequest{
		LocalFilePath:       entry.LocalFilePath,
		RemoteFileURI:       entry.RemoteFileURI,
		TimeoutMs:           c.Compare.TimeoutMs,
		FailOnDifference:    c.Compare.FailOnFileDifference,
		FailOnNotFound:      c.Compare.FailOnFilesNotFound,
		VerboseDiffMessage:  !c.Compare.SmallWarningMessage,
		ProjectRelativeBase: c.Compare.ProjectBase,
		Method:              c.Compare.Method,
	}

	if entry.TimeoutMs != nil {
		req.TimeoutMs = *entry.TimeoutMs
	}
	if entry.FailOnFileDifference != nil {
		req.FailOnDifference = *entry.FailOnFileDifference
	}
	if entry.FailOnFilesNotFound != nil {
		req.FailOnNotFound = *entry.FailOnFilesNotFound
	}
	if entry.SmallWarningMessage != nil {
		req.VerboseDiffMessage = !*entry.SmallWarningMessage
	}
	if entry.ProjectBase != "" {
		req.ProjectRelativeBase = entry.ProjectBase
	}
	if entry.Method != "" {
		req.Method = entry.Method
	}

	return models.NewComparisonRequest(req)
}
