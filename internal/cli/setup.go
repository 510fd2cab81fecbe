package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sdejongh/remotecomparer/pkg/compare"
	"github.com/sdejongh/remotecomparer/pkg/config"
	"github.com/sdejongh/remotecomparer/pkg/engine"
	"github.com/sdejongh/remotecomparer/pkg/fetch"
	"github.com/sdejongh/remotecomparer/pkg/logging"
	"github.com/sdejongh/remotecomparer/pkg/models"
	"github.com/sdejongh/remotecomparer/pkg/output"
	"github.com/sdejongh/remotecomparer/pkg/storage"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// compareBufferSize is the read buffer used by comparators
const compareBufferSize = 64 * 1024

// ExitError carries a process exit code for a run that ended in Failure
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode returns the exit code for err (0 for nil)
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with the flags set on the command line
func applyFlagsToConfig(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("timeout-ms") {
		cfg.Compare.TimeoutMs = compareFlags.TimeoutMs
	}
	if flags.Changed("fail-on-file-difference") {
		cfg.Compare.FailOnFileDifference = compareFlags.FailOnFileDifference
	}
	if flags.Changed("fail-on-files-not-found") {
		cfg.Compare.FailOnFilesNotFound = compareFlags.FailOnFilesNotFound
	}
	if flags.Changed("small-warning-message") {
		cfg.Compare.SmallWarningMessage = compareFlags.SmallWarningMessage
	}
	if compareFlags.ProjectBase != "" {
		cfg.Compare.ProjectBase = compareFlags.ProjectBase
	}
	if compareFlags.Method != "" {
		cfg.Compare.Method = models.ComparisonMethod(compareFlags.Method)
	}
	if compareFlags.TempDir != "" {
		cfg.Compare.TempDir = compareFlags.TempDir
	}
	if compareFlags.Bandwidth != "" {
		limit, err := parseBandwidth(compareFlags.Bandwidth)
		if err != nil {
			return err
		}
		cfg.Fetch.BandwidthLimit = limit
	}

	// Output format
	if compareFlags.Output != "" {
		cfg.Output.Format = compareFlags.Output
	}
	if compareFlags.Progress {
		cfg.Output.Progress = true
	}

	// Logging
	if globalFlags.LogFile != "" {
		cfg.Logging.File = globalFlags.LogFile
	}
	if globalFlags.LogFormat != "" {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Enable progress in verbose mode
	if globalFlags.Verbose && cfg.Output.Format != "json" {
		cfg.Output.Progress = true
	}

	return cfg.Validate()
}

// parseBandwidth parses a byte rate such as "512K", "10MB/s" or "1MiB".
// K/M/G are decimal units, Ki/Mi/Gi binary ones.
func parseBandwidth(s string) (int64, error) {
	value := strings.TrimSpace(s)
	if lower := strings.ToLower(value); strings.HasSuffix(lower, "/s") {
		value = value[:len(value)-2]
	}

	n, err := humanize.ParseBytes(value)
	if err != nil || n > math.MaxInt64 {
		return 0, fmt.Errorf("invalid bandwidth limit: %q", s)
	}
	return int64(n), nil
}

// createLogger builds the console logger (stderr) and, when configured, a rotating
// file logger. The console carries the reporter messages.
func createLogger(cfg *config.Config, stderr io.Writer) (logging.Logger, error) {
	consoleLevel := logging.InfoLevel
	if globalFlags.Verbose {
		consoleLevel = logging.DebugLevel
	}
	if cfg.Output.Quiet {
		consoleLevel = logging.WarnLevel
	}

	console := logging.NewConsoleLogger(logging.ConsoleLoggerConfig{
		Out:     stderr,
		Format:  logging.FormatText,
		Level:   consoleLevel,
		NoColor: !isTerminal(stderr),
	})

	if cfg.Logging.File == "" {
		return console, nil
	}

	file, err := logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.Logging.File,
		Format:     logging.ParseFormat(cfg.Logging.Format),
		Level:      logging.ParseLevel(cfg.Logging.Level),
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}

	return logging.Tee(console, file), nil
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// fetchConfig maps the fetch section onto the fetcher settings
func fetchConfig(cfg *config.Config) fetch.Config {
	return fetch.Config{
		UserAgent:       cfg.Fetch.UserAgent,
		Headers:         cfg.Fetch.Headers,
		EnableHTTP2:     cfg.Fetch.EnableHTTP2,
		FollowRedirects: cfg.Fetch.FollowRedirects,
		MaxRedirects:    cfg.Fetch.MaxRedirects,
		BandwidthLimit:  cfg.Fetch.BandwidthLimit,
	}
}

// runComparison wires the engine for one request and runs it
func runComparison(ctx context.Context, cmd *cobra.Command, cfg *config.Config, req *models.ComparisonRequest, logger logging.Logger) (*models.RunOutcome, error) {
	files, err := storage.NewLocal(cfg.Compare.TempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare temp directory: %w", err)
	}
	defer files.Close()

	comparator, err := compare.New(req.Method, compareBufferSize)
	if err != nil {
		return nil, err
	}

	var formatter output.Formatter
	if !cfg.Output.Quiet {
		formatter, err = output.New(cfg.Output.Format, cfg.Output.Progress)
		if err != nil {
			return nil, err
		}
	}

	var progress fetch.ProgressFunc
	if formatter != nil {
		progress = func(written, total int64) {
			formatter.Progress(output.ProgressUpdate{
				Type:         output.UpdateFetchProgress,
				Stage:        models.StageFetch,
				BytesWritten: written,
				TotalBytes:   total,
			})
		}
	}

	router := fetch.NewDefaultRouter(fetchConfig(cfg), logger, progress)
	reporter := logging.NewReporter(ctx, logger)

	eng := engine.New(files, router, comparator, reporter, logger)

	if formatter != nil {
		eng.SetFormatter(formatter)
		if err := formatter.Start(cmd.OutOrStdout(), req); err != nil {
			return nil, err
		}
	}

	outcome := eng.Run(ctx, req)

	if formatter != nil {
		if err := formatter.Complete(outcome); err != nil {
			return outcome, err
		}
	}

	return outcome, nil
}

// outcomeError turns a Failure outcome into an ExitError
func outcomeError(outcome *models.RunOutcome) error {
	if outcome.Succeeded() {
		return nil
	}
	return &ExitError{Code: outcome.Status.ExitCode(), Message: outcome.Message}
}

// requestError renders request validation errors as "<field> <message>"
func requestError(err error) error {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return &ExitError{Code: 1, Message: validationErr.Field + " " + validationErr.Message}
	}
	return err
}
