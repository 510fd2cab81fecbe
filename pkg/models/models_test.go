package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============== ComparisonRequest Tests ==============

func TestNewComparisonRequest(t *testing.T) {
	t.Run("FillsDefaults", func(t *testing.T) {
		req, err := NewComparisonRequest(ComparisonRequest{
			LocalFilePath: "src/file.txt",
			RemoteFileURI: "https://example.com/file.txt",
			TimeoutMs:     DefaultTimeoutMs,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, req.ID)
		assert.Equal(t, CompareText, req.Method)
		assert.Equal(t, 10*time.Second, req.Timeout())
	})

	t.Run("KeepsExplicitValues", func(t *testing.T) {
		req, err := NewComparisonRequest(ComparisonRequest{
			ID:            "run-1",
			LocalFilePath: "src/file.txt",
			RemoteFileURI: "https://example.com/file.txt",
			Method:        CompareBinary,
		})
		require.NoError(t, err)

		assert.Equal(t, "run-1", req.ID)
		assert.Equal(t, CompareBinary, req.Method)
		assert.Equal(t, time.Duration(0), req.Timeout())
	})
}

func TestComparisonRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       ComparisonRequest
		wantField string
	}{
		{
			name:      "MissingLocalFilePath",
			req:       ComparisonRequest{RemoteFileURI: "https://example.com"},
			wantField: "localFilePath",
		},
		{
			name:      "MissingRemoteFileURI",
			req:       ComparisonRequest{LocalFilePath: "file.txt"},
			wantField: "remoteFileUri",
		},
		{
			name:      "NegativeTimeout",
			req:       ComparisonRequest{LocalFilePath: "file.txt", RemoteFileURI: "https://example.com", TimeoutMs: -1},
			wantField: "timeoutMs",
		},
		{
			name:      "UnknownMethod",
			req:       ComparisonRequest{LocalFilePath: "file.txt", RemoteFileURI: "https://example.com", Method: "md5"},
			wantField: "method",
		},
		{
			name:      "InvalidLocalPath",
			req:       ComparisonRequest{LocalFilePath: "a\x00b", RemoteFileURI: "https://example.com"},
			wantField: "localFilePath",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "error should be *ValidationError, got %T", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}

	t.Run("RequiredMessage", func(t *testing.T) {
		err := (&ComparisonRequest{RemoteFileURI: "https://example.com"}).Validate()
		assert.EqualError(t, err, "localFilePath: must be specified")
	})

	t.Run("MalformedURIIsNotRejectedHere", func(t *testing.T) {
		// Malformed URIs are detected by the fetch stage, after local resolution
		req := ComparisonRequest{LocalFilePath: "file.txt", RemoteFileURI: "::not a uri::"}
		assert.NoError(t, req.Validate())
	})
}

// ============== Stage Result Tests ==============

func TestLocalFileResolution(t *testing.T) {
	candidates := []string{"/work/file.txt", "/work/module/file.txt"}

	found := Found("/work/module/file.txt", candidates)
	assert.True(t, found.Found)
	assert.Equal(t, "/work/module/file.txt", found.Path)

	notFound := NotFound(candidates)
	assert.False(t, notFound.Found)
	assert.Empty(t, notFound.Path)

	// Resolutions keep their own copy of the candidate list
	candidates[0] = "/changed"
	if diff := cmp.Diff([]string{"/work/file.txt", "/work/module/file.txt"}, notFound.Candidates); diff != "" {
		t.Errorf("candidates changed after construction (-want +got):\n%s", diff)
	}
}

func TestFetchOutcome(t *testing.T) {
	ok := Fetched("/tmp/transient")
	assert.True(t, ok.Fetched)
	assert.Equal(t, "/tmp/transient", ok.Path)

	failed := FetchFailed(NewHTTPStatusError("http://host/file", 500))
	assert.False(t, failed.Fetched)
	assert.Equal(t, FetchHTTPStatus, failed.Kind)
	assert.Equal(t, "server returned HTTP status 500", failed.Reason)
}

func TestFetchError(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	err := NewFetchError(FetchIO, "http://host/file", cause)
	assert.Equal(t, "connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	timeout := NewFetchError(FetchTimeout, "http://host/file", cause)
	assert.Equal(t, "timed out: connection refused", timeout.Error())

	var wrapped error = fmt.Errorf("fetch: %w", timeout)
	var fe *FetchError
	require.True(t, errors.As(wrapped, &fe))
	assert.Equal(t, FetchTimeout, fe.Kind)
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		result   *ComparisonResult
		expected Verdict
	}{
		{Equal(""), VerdictEqual},
		{Different("line 2 differs"), VerdictDifferent},
		{ComparisonError("permission denied"), VerdictError},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.Verdict)
		})
	}
}

// ============== RunOutcome Tests ==============

func TestStatusExitCode(t *testing.T) {
	tests := []struct {
		status   Status
		expected int
	}{
		{StatusSuccess, 0},
		{StatusFailure, 1},
		{Status("unknown"), 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.ExitCode())
		})
	}
}

func TestRunOutcomeSoftFailure(t *testing.T) {
	clean := &RunOutcome{Status: StatusSuccess}
	assert.True(t, clean.Succeeded())
	assert.False(t, clean.SoftFailure())

	soft := &RunOutcome{Status: StatusSuccess, Kind: KindDifference}
	assert.True(t, soft.SoftFailure())

	failed := &RunOutcome{Status: StatusFailure, Kind: KindDifference}
	assert.False(t, failed.Succeeded())
	assert.False(t, failed.SoftFailure())
}
