package compare

import (
	"context"
	"fmt"

	"github.com/sdejongh/remotecomparer/pkg/models"
	"github.com/sdejongh/remotecomparer/pkg/storage"
)

// Result represents the outcome of comparing two files
type Result string

const (
	// Same indicates files are identical
	Same Result = "same"
	// Different indicates files differ
	Different Result = "different"
)

// Comparison holds the result of comparing two files
type Comparison struct {
	LocalPath  string
	RemotePath string
	Result     Result
	Reason     string
}

// Comparator defines the interface for file comparison algorithms.
// A returned error means one of the files could not be read.
type Comparator interface {
	// Compare compares the local file with the fetched copy of the remote file
	Compare(ctx context.Context, files storage.Reader, localPath, remotePath string) (*Comparison, error)

	// Name returns the name of the comparison method
	Name() string
}

// New returns the comparator for method
func New(method models.ComparisonMethod, bufferSize int) (Comparator, error) {
	switch method {
	case models.CompareText, "":
		return NewTextComparator(bufferSize), nil
	case models.CompareBinary:
		return NewBinaryComparator(bufferSize), nil
	default:
		return nil, fmt.Errorf("unsupported comparison method: %s (use: text, binary)", method)
	}
}
