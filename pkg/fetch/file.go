package fetch

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sdejongh/remotecomparer/internal/platform"
	"github.com/sdejongh/remotecomparer/pkg/logging"
	"github.com/sdejongh/remotecomparer/pkg/models"
	"github.com/sdejongh/remotecomparer/pkg/ratelimit"
)

// FileFetcher copies file:// resources. Timeouts do not apply.
type FileFetcher struct {
	limiter  *ratelimit.Limiter
	progress ProgressFunc
	logger   logging.Logger
}

// NewFileFetcher creates a new file:// fetcher
func NewFileFetcher(config Config, logger logging.Logger) *FileFetcher {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &FileFetcher{
		limiter: ratelimit.NewLimiter(config.BandwidthLimit),
		logger:  logger,
	}
}

// SetProgressCallback sets the function called while the copy is written
func (f *FileFetcher) SetProgressCallback(fn ProgressFunc) {
	f.progress = fn
}

// Fetch copies the file named by uri into dest
func (f *FileFetcher) Fetch(ctx context.Context, uri string, connectTimeout, readTimeout time.Duration, dest string) error {
	path, err := filePathFromURI(uri)
	if err != nil {
		return models.NewFetchError(models.FetchMalformedURI, uri, err)
	}

	src, err := os.Open(path)
	if err != nil {
		return models.NewFetchError(models.FetchIO, uri, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return models.NewFetchError(models.FetchIO, uri, err)
	}
	if !info.Mode().IsRegular() {
		return models.NewFetchError(models.FetchIO, uri, fmt.Errorf("%s is not a regular file", path))
	}

	n, err := copyToFile(ctx, dest, src, info.Size(), f.limiter, f.progress)
	if err != nil {
		return classify(uri, err)
	}

	f.logger.Debug(ctx, "Local resource copied", logging.Fields{"uri": uri, "bytes": n})
	return nil
}

// filePathFromURI extracts the local path of a file:// URI
func filePathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("unsupported file host %q", u.Host)
	}

	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return "", fmt.Errorf("missing file path")
	}

	// file:///C:/dir/file on Windows
	if runtime.GOOS == "windows" && len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}

	return platform.NormalizePath(filepath.FromSlash(path)), nil
}
