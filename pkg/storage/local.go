package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// tempPrefix marks transient files so leftovers are recognizable
const tempPrefix = "remotecomparer-"

// Local is a filesystem-based storage backend.
// Relative paths are resolved against the working directory; transient files
// live under tempRoot.
type Local struct {
	tempRoot string
}

var _ Backend = (*Local)(nil)

// NewLocal creates a new local filesystem backend.
// tempRoot is created if missing; an empty tempRoot means os.TempDir().
func NewLocal(tempRoot string) (*Local, error) {
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}

	absPath, err := filepath.Abs(tempRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	return &Local{tempRoot: absPath}, nil
}

// TempRoot returns the directory holding transient files
func (l *Local) TempRoot() string {
	return l.tempRoot
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &FileInfo{
		Path:      path,
		Size:      info.Size(),
		ModTime:   info.ModTime(),
		IsDir:     info.IsDir(),
		IsRegular: info.Mode().IsRegular(),
	}, nil
}

// TempPath returns a unique path under the temp root. UUIDs keep concurrent runs
// sharing a directory from colliding.
func (l *Local) TempPath(ctx context.Context) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate transient file name: %w", err)
	}
	return filepath.Join(l.tempRoot, tempPrefix+id.String()), nil
}

// Delete removes a file; a missing file is not an error
func (l *Local) Delete(ctx context.Context, path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}
