// Package fetch retrieves a remote resource into a local transient file.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/sdejongh/remotecomparer/pkg/models"
	"github.com/sdejongh/remotecomparer/pkg/ratelimit"
)

// Fetcher downloads the resource identified by uri into dest.
// Returned errors are *models.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, uri string, connectTimeout, readTimeout time.Duration, dest string) error
}

// ProgressFunc is called after each chunk written to the destination.
// total is -1 when the size is unknown.
type ProgressFunc func(written, total int64)

// Config holds fetcher settings shared by all schemes
type Config struct {
	UserAgent       string
	Headers         map[string]string
	EnableHTTP2     bool
	FollowRedirects bool
	MaxRedirects    int

	// BandwidthLimit in bytes per second (0 = unlimited)
	BandwidthLimit int64
}

// DefaultConfig returns the default fetcher configuration
func DefaultConfig() Config {
	return Config{
		UserAgent:       "remotecomparer",
		EnableHTTP2:     true,
		FollowRedirects: true,
		MaxRedirects:    10,
	}
}

// errReadTimeout is the cancellation cause set when the body stalls
var errReadTimeout = errors.New("no data received within read timeout")

// classify maps a transport or copy error to a FetchError
func classify(uri string, err error) *models.FetchError {
	var fetchErr *models.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}

	if errors.Is(err, errReadTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return models.NewFetchError(models.FetchTimeout, uri, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.NewFetchError(models.FetchTimeout, uri, err)
	}

	return models.NewFetchError(models.FetchIO, uri, err)
}

// progressWriter reports cumulative bytes written
type progressWriter struct {
	w        io.Writer
	written  int64
	total    int64
	progress ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if p.progress != nil && n > 0 {
		p.progress(p.written, p.total)
	}
	return n, err
}

// copyToFile streams src into a new file at dest. The file must not exist.
// On error a partially written dest is left in place for the caller to delete.
func copyToFile(ctx context.Context, dest string, src io.Reader, total int64, limiter *ratelimit.Limiter, progress ProgressFunc) (int64, error) {
	file, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination: %w", err)
	}

	pw := &progressWriter{w: file, total: total, progress: progress}
	buf := make([]byte, 32*1024)
	n, copyErr := io.CopyBuffer(pw, ratelimit.NewReader(ctx, src, limiter), buf)

	if closeErr := file.Close(); copyErr == nil && closeErr != nil {
		copyErr = fmt.Errorf("failed to close destination: %w", closeErr)
	}
	return n, copyErr
}
