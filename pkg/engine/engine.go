// Package engine runs one comparison of a local file against a remote resource.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sdejongh/remotecomparer/internal/platform"
	"github.com/sdejongh/remotecomparer/pkg/compare"
	"github.com/sdejongh/remotecomparer/pkg/logging"
	"github.com/sdejongh/remotecomparer/pkg/models"
	"github.com/sdejongh/remotecomparer/pkg/output"
	"github.com/sdejongh/remotecomparer/pkg/storage"
)

// warningDelimiter pads the difference warning in verbose mode
const warningDelimiter = "################################"

// FileSystem is the local file access needed by the engine
type FileSystem interface {
	Stat(ctx context.Context, path string) (*storage.FileInfo, error)
	Read(ctx context.Context, path string) (io.ReadCloser, error)
	TempPath(ctx context.Context) (string, error)
	Delete(ctx context.Context, path string) error
}

// Fetcher retrieves a remote resource into dest.
// Errors should be *models.FetchError; anything else is treated as an I/O failure.
type Fetcher interface {
	Fetch(ctx context.Context, uri string, connectTimeout, readTimeout time.Duration, dest string) error
}

// Reporter receives the user-facing messages of a run
type Reporter interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Engine orchestrates resolve, fetch and compare
type Engine struct {
	fs         FileSystem
	fetcher    Fetcher
	comparator compare.Comparator
	reporter   Reporter
	logger     logging.Logger
	formatter  output.Formatter
}

// New creates a new comparison engine
func New(
	fs FileSystem,
	fetcher Fetcher,
	comparator compare.Comparator,
	reporter Reporter,
	logger logging.Logger,
) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Engine{
		fs:         fs,
		fetcher:    fetcher,
		comparator: comparator,
		reporter:   reporter,
		logger:     logger,
	}
}

// SetFormatter attaches a formatter receiving stage transitions
func (e *Engine) SetFormatter(formatter output.Formatter) {
	e.formatter = formatter
}

// Run executes the comparison and returns exactly one outcome.
// The transient file is removed on every path out of Run.
func (e *Engine) Run(ctx context.Context, req *models.ComparisonRequest) *models.RunOutcome {
	outcome := &models.RunOutcome{
		RequestID:     req.ID,
		LocalFilePath: req.LocalFilePath,
		RemoteFileURI: req.RemoteFileURI,
		StartTime:     time.Now(),
	}
	defer func() {
		outcome.EndTime = time.Now()
		outcome.Duration = outcome.EndTime.Sub(outcome.StartTime)
	}()

	logger := e.logger.WithFields(logging.Fields{
		"request_id": req.ID,
		"local":      req.LocalFilePath,
		"remote":     req.RemoteFileURI,
	})

	if err := req.Validate(); err != nil {
		outcome.Stage = models.StageValidate
		e.fail(outcome, models.KindConfiguration, validationMessage(err))
		return outcome
	}

	// Stage 1: resolve the local file
	stageStart := e.beginStage(ctx, logger, outcome, models.StageResolve)
	resolution := e.ResolveLocal(ctx, req)
	outcome.Resolution = resolution
	e.endStage(ctx, logger, models.StageResolve, stageStart, resolution.Path)
	if e.interrupted(ctx, outcome, req) {
		return outcome
	}

	if !resolution.Found {
		msg := fmt.Sprintf("The local file '%s' could not be found. Looked here: '%s'",
			req.LocalFilePath, strings.Join(resolution.Candidates, "'\n'"))
		if req.FailOnNotFound {
			e.fail(outcome, models.KindNotFound, msg)
		} else {
			e.report(outcome, models.ReportError, msg)
			e.softSucceed(outcome, models.KindNotFound, msg)
		}
		return outcome
	}

	// Stage 2: fetch the remote file into a transient path
	stageStart = e.beginStage(ctx, logger, outcome, models.StageFetch)
	dest, err := e.fs.TempPath(ctx)
	var fetch *models.FetchOutcome
	if err != nil {
		fetch = models.FetchFailed(models.NewFetchError(models.FetchIO, req.RemoteFileURI,
			fmt.Errorf("failed to allocate transient file: %w", err)))
	} else {
		defer e.release(ctx, logger, dest)
		fetch = e.FetchRemote(ctx, req, dest)
	}
	outcome.Fetch = fetch
	e.endStage(ctx, logger, models.StageFetch, stageStart, fetch.Reason)
	if e.interrupted(ctx, outcome, req) {
		return outcome
	}

	if !fetch.Fetched {
		if fetch.Kind == models.FetchMalformedURI {
			e.fail(outcome, models.KindConfiguration,
				fmt.Sprintf("Malformed remote file URI '%s': %v", req.RemoteFileURI, fetch.Err))
			return outcome
		}

		msg := fmt.Sprintf("Failed to download file '%s': %v", req.RemoteFileURI, fetch.Err)
		if req.FailOnNotFound {
			e.fail(outcome, models.KindFetch, msg)
		} else {
			e.report(outcome, models.ReportWarn, msg)
			e.softSucceed(outcome, models.KindFetch, msg)
		}
		return outcome
	}

	// Stage 3: compare contents
	stageStart = e.beginStage(ctx, logger, outcome, models.StageCompare)
	result := e.CompareContents(ctx, resolution.Path, fetch.Path)
	outcome.Comparison = result
	e.endStage(ctx, logger, models.StageCompare, stageStart, result.Reason)
	if e.interrupted(ctx, outcome, req) {
		return outcome
	}

	var msg string
	var kind models.ErrorKind
	switch result.Verdict {
	case models.VerdictEqual:
		msg = fmt.Sprintf("The file '%s' is equal to the remote file '%s'", resolution.Path, req.RemoteFileURI)
		e.report(outcome, models.ReportInfo, msg)
		outcome.Status = models.StatusSuccess
		outcome.Message = msg
		return outcome
	case models.VerdictDifferent:
		kind = models.KindDifference
		msg = fmt.Sprintf("The file '%s' is not equal to the remote file '%s'", resolution.Path, req.RemoteFileURI)
	default:
		kind = models.KindComparisonIO
		msg = fmt.Sprintf("Error when checking if files are equal: %s", result.Reason)
	}

	if req.FailOnDifference {
		e.fail(outcome, kind, msg)
		return outcome
	}

	warning := msg
	if req.VerboseDiffMessage {
		warning = warningDelimiter + "\n" + msg + "\n" + warningDelimiter
	}
	e.report(outcome, models.ReportWarn, warning)
	e.softSucceed(outcome, kind, msg)
	return outcome
}

// ResolveLocal finds the local file. Candidates are the path as given (relative
// to the working directory) and, when a project base is set, the path under it.
func (e *Engine) ResolveLocal(ctx context.Context, req *models.ComparisonRequest) *models.LocalFileResolution {
	candidates := []string{absOrClean(req.LocalFilePath)}
	if req.ProjectRelativeBase != "" {
		underBase := platform.JoinUnder(absOrClean(req.ProjectRelativeBase), req.LocalFilePath)
		if underBase != candidates[0] {
			candidates = append(candidates, underBase)
		}
	}

	for _, candidate := range candidates {
		info, err := e.fs.Stat(ctx, candidate)
		if err != nil {
			continue
		}
		if info.IsRegular {
			return models.Found(candidate, candidates)
		}
	}

	return models.NotFound(candidates)
}

// FetchRemote downloads the remote file into dest using the request timeout
// for both connecting and reading.
func (e *Engine) FetchRemote(ctx context.Context, req *models.ComparisonRequest, dest string) *models.FetchOutcome {
	timeout := req.Timeout()
	if err := e.fetcher.Fetch(ctx, req.RemoteFileURI, timeout, timeout, dest); err != nil {
		var fetchErr *models.FetchError
		if !errors.As(err, &fetchErr) {
			fetchErr = models.NewFetchError(models.FetchIO, req.RemoteFileURI, err)
		}
		return models.FetchFailed(fetchErr)
	}
	return models.Fetched(dest)
}

// CompareContents compares the local file with the fetched copy
func (e *Engine) CompareContents(ctx context.Context, localPath, fetchedPath string) *models.ComparisonResult {
	comparison, err := e.comparator.Compare(ctx, e.fs, localPath, fetchedPath)
	if err != nil {
		return models.ComparisonError(err.Error())
	}
	if comparison.Result == compare.Same {
		return models.Equal(comparison.Reason)
	}
	return models.Different(comparison.Reason)
}

func (e *Engine) fail(outcome *models.RunOutcome, kind models.ErrorKind, msg string) {
	outcome.Status = models.StatusFailure
	outcome.Kind = kind
	outcome.Message = msg
}

func (e *Engine) softSucceed(outcome *models.RunOutcome, kind models.ErrorKind, msg string) {
	outcome.Status = models.StatusSuccess
	outcome.Kind = kind
	outcome.Message = msg
}

// report sends msg to the reporter and records it in the outcome
func (e *Engine) report(outcome *models.RunOutcome, level models.ReportLevel, msg string) {
	outcome.Reports = append(outcome.Reports, models.Report{Level: level, Message: msg})
	if e.reporter == nil {
		return
	}
	switch level {
	case models.ReportInfo:
		e.reporter.Info(msg)
	case models.ReportWarn:
		e.reporter.Warn(msg)
	case models.ReportError:
		e.reporter.Error(msg)
	}
}

// interrupted fails the run when ctx was cancelled. A cancelled run never
// soft-succeeds, whatever the policy flags say.
func (e *Engine) interrupted(ctx context.Context, outcome *models.RunOutcome, req *models.ComparisonRequest) bool {
	if !errors.Is(ctx.Err(), context.Canceled) {
		return false
	}
	e.fail(outcome, models.KindCancelled, fmt.Sprintf("Comparison of '%s' with the remote file '%s' was cancelled: %v",
		req.LocalFilePath, req.RemoteFileURI, context.Cause(ctx)))
	return true
}

func (e *Engine) beginStage(ctx context.Context, logger logging.Logger, outcome *models.RunOutcome, stage models.Stage) time.Time {
	outcome.Stage = stage
	logger.Debug(ctx, "Stage started", logging.Fields{"stage": string(stage)})
	if e.formatter != nil {
		e.formatter.Progress(output.ProgressUpdate{Type: output.UpdateStageStart, Stage: stage})
	}
	return time.Now()
}

func (e *Engine) endStage(ctx context.Context, logger logging.Logger, stage models.Stage, start time.Time, detail string) {
	logger.Debug(ctx, "Stage completed", logging.Fields{
		"stage":       string(stage),
		"detail":      detail,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if e.formatter != nil {
		e.formatter.Progress(output.ProgressUpdate{Type: output.UpdateStageComplete, Stage: stage, Detail: detail})
	}
}

// release deletes the transient file, even when ctx is already cancelled
func (e *Engine) release(ctx context.Context, logger logging.Logger, path string) {
	if err := e.fs.Delete(context.WithoutCancel(ctx), path); err != nil {
		logger.Error(ctx, "Failed to delete transient file", err, logging.Fields{"path": path})
	}
}

func absOrClean(path string) string {
	abs, err := platform.Abs(path)
	if err != nil {
		return platform.NormalizePath(path)
	}
	return abs
}

func validationMessage(err error) string {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Field + " " + validationErr.Message
	}
	return err.Error()
}
