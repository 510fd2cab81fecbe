package models

import (
	"time"
)

// Stage identifies a pipeline stage
type Stage string

const (
	// StageValidate is request validation, before any stage runs
	StageValidate Stage = "validate"
	// StageResolve resolves the local file
	StageResolve Stage = "resolve"
	// StageFetch fetches the remote file
	StageFetch Stage = "fetch"
	// StageCompare compares contents
	StageCompare Stage = "compare"
)

// ErrorKind categorizes the condition that ended a run
type ErrorKind string

const (
	// KindNone indicates a clean run
	KindNone ErrorKind = ""
	// KindConfiguration covers missing fields and malformed URIs (always fatal)
	KindConfiguration ErrorKind = "configuration"
	// KindNotFound indicates the local file was not found
	KindNotFound ErrorKind = "not_found"
	// KindFetch indicates the remote file could not be fetched
	KindFetch ErrorKind = "fetch"
	// KindComparisonIO indicates a read failure during comparison
	KindComparisonIO ErrorKind = "comparison_io"
	// KindDifference indicates the files differ
	KindDifference ErrorKind = "difference"
	// KindCancelled indicates the run was interrupted (always fatal)
	KindCancelled ErrorKind = "cancelled"
)

// Status is the terminal result of a run
type Status string

const (
	// StatusSuccess lets the surrounding build continue
	StatusSuccess Status = "success"
	// StatusFailure aborts the surrounding build
	StatusFailure Status = "failure"
)

// ExitCode returns the process exit code for the status
func (s Status) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	default:
		return 1
	}
}

// ReportLevel is the severity of a reported message
type ReportLevel string

const (
	ReportInfo  ReportLevel = "info"
	ReportWarn  ReportLevel = "warn"
	ReportError ReportLevel = "error"
)

// Report is a message emitted to the reporter during a run
type Report struct {
	Level   ReportLevel `json:"level"`
	Message string      `json:"message"`
}

// RunOutcome is the terminal result of one engine invocation
type RunOutcome struct {
	RequestID     string `json:"request_id"`
	LocalFilePath string `json:"local_file_path"`
	RemoteFileURI string `json:"remote_file_uri"`

	Status  Status    `json:"status"`
	Message string    `json:"message"`
	Stage   Stage     `json:"stage"`
	Kind    ErrorKind `json:"kind,omitempty"`

	// Stage results; nil when the stage did not run
	Resolution *LocalFileResolution `json:"resolution,omitempty"`
	Fetch      *FetchOutcome        `json:"fetch,omitempty"`
	Comparison *ComparisonResult    `json:"comparison,omitempty"`

	// Reports lists the messages sent to the reporter, in order
	Reports []Report `json:"reports,omitempty"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// Succeeded reports whether the run ended in Success
func (o *RunOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// SoftFailure reports whether the run succeeded despite an underlying problem
func (o *RunOutcome) SoftFailure() bool {
	return o.Status == StatusSuccess && o.Kind != KindNone
}
