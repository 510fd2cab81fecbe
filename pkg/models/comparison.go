package models

// LocalFileResolution is the result of resolving the local file.
// Either Found (Path set) or not found (only Candidates set).
type LocalFileResolution struct {
	// Found indicates one of the candidates is an existing regular file
	Found bool `json:"found"`

	// Path is the absolute path of the matching candidate
	Path string `json:"path,omitempty"`

	// Candidates lists every absolute path checked, in order
	Candidates []string `json:"candidates"`
}

// Found returns a resolution pointing at path
func Found(path string, candidates []string) *LocalFileResolution {
	return &LocalFileResolution{
		Found:      true,
		Path:       path,
		Candidates: append([]string(nil), candidates...),
	}
}

// NotFound returns a resolution carrying every candidate tried
func NotFound(candidates []string) *LocalFileResolution {
	return &LocalFileResolution{
		Candidates: append([]string(nil), candidates...),
	}
}

// FetchOutcome is the result of fetching the remote file
type FetchOutcome struct {
	// Fetched indicates the remote content is available at Path
	Fetched bool `json:"fetched"`

	// Path is the transient file holding the fetched content
	Path string `json:"path,omitempty"`

	// Err describes why the fetch failed
	Err *FetchError `json:"-"`

	// Reason is the failure text
	Reason string `json:"reason,omitempty"`

	// Kind classifies the failure
	Kind FetchErrorKind `json:"kind,omitempty"`
}

// Fetched returns a successful fetch outcome
func Fetched(path string) *FetchOutcome {
	return &FetchOutcome{Fetched: true, Path: path}
}

// FetchFailed returns a failed fetch outcome
func FetchFailed(err *FetchError) *FetchOutcome {
	return &FetchOutcome{Err: err, Reason: err.Error(), Kind: err.Kind}
}

// Verdict is the result of comparing contents
type Verdict string

const (
	// VerdictEqual indicates identical content after normalization
	VerdictEqual Verdict = "equal"
	// VerdictDifferent indicates diverging content
	VerdictDifferent Verdict = "different"
	// VerdictError indicates one of the files could not be read
	VerdictError Verdict = "error"
)

// ComparisonResult is the result of the compare stage
type ComparisonResult struct {
	Verdict Verdict `json:"verdict"`

	// Reason explains why files differ or why comparison failed
	Reason string `json:"reason,omitempty"`
}

// Equal returns an equal comparison result
func Equal(reason string) *ComparisonResult {
	return &ComparisonResult{Verdict: VerdictEqual, Reason: reason}
}

// Different returns a different comparison result
func Different(reason string) *ComparisonResult {
	return &ComparisonResult{Verdict: VerdictDifferent, Reason: reason}
}

// ComparisonError returns a failed comparison result
func ComparisonError(reason string) *ComparisonResult {
	return &ComparisonResult{Verdict: VerdictError, Reason: reason}
}
