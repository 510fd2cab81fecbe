package models

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sdejongh/remotecomparer/internal/platform"
)

// DefaultTimeoutMs is the fetch timeout used when none is configured
const DefaultTimeoutMs = 10000

// ComparisonMethod defines how the local and fetched files are compared
type ComparisonMethod string

const (
	// CompareText compares decoded text line by line, ignoring line-ending style
	CompareText ComparisonMethod = "text"
	// CompareBinary compares byte-by-byte
	CompareBinary ComparisonMethod = "binary"
)

// ComparisonRequest is the full configuration for one comparison run
type ComparisonRequest struct {
	// ID correlates log lines and reports of a single run
	ID string `json:"id"`

	// LocalFilePath is the local file, absolute or relative to the working directory
	LocalFilePath string `json:"localFilePath" validate:"required,localpath"`

	// RemoteFileURI is the resource fetched and compared against the local file
	RemoteFileURI string `json:"remoteFileUri" validate:"required"`

	// TimeoutMs is used as both connect and read timeout. 0 disables the timeout.
	TimeoutMs int `json:"timeoutMs" validate:"gte=0"`

	// FailOnDifference turns differences and comparison I/O errors into failures
	FailOnDifference bool `json:"failOnFileDifference"`

	// FailOnNotFound turns a missing local file or a failed fetch into a failure
	FailOnNotFound bool `json:"failOnFilesNotFound"`

	// VerboseDiffMessage pads the difference warning with delimiter lines
	VerboseDiffMessage bool `json:"verboseDiffMessage"`

	// ProjectRelativeBase is a secondary search root for the local file (optional)
	ProjectRelativeBase string `json:"projectRelativeBase,omitempty"`

	// Method selects the content comparator
	Method ComparisonMethod `json:"method" validate:"omitempty,oneof=text binary"`
}

// NewComparisonRequest fills in defaults and validates the request.
// Validation happens here so that no stage ever runs with an incomplete request.
func NewComparisonRequest(r ComparisonRequest) (*ComparisonRequest, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Method == "" {
		r.Method = CompareText
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Timeout returns TimeoutMs as a duration (0 = unbounded)
func (r *ComparisonRequest) Timeout() time.Duration {
	return time.Duration(r.TimeoutMs) * time.Millisecond
}

// Validate checks the request. The returned error is a *ValidationError.
func (r *ComparisonRequest) Validate() error {
	err := requestValidator().Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "request", Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: validationMessage(fe)}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be specified"
	case "localpath":
		return "is not a valid local path"
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed '" + fe.Tag() + "' validation"
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their external (json) names
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})

		_ = validate.RegisterValidation("localpath", func(fl validator.FieldLevel) bool {
			return platform.ValidatePath(fl.Field().String()) == nil
		})
	})
	return validate
}
