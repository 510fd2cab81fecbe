package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Path      string
	Size      int64
	ModTime   time.Time
	IsDir     bool
	IsRegular bool
}

// Reader opens files for reading
type Reader interface {
	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)
}

// Backend defines the filesystem operations used by a comparison run
type Backend interface {
	Reader

	// Stat returns file metadata. Missing files yield an error matching fs.ErrNotExist.
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// TempPath returns a fresh, unused path for a transient file.
	// The file itself is not created.
	TempPath(ctx context.Context) (string, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Close releases any resources held by the backend
	Close() error
}
