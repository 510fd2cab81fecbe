package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sdejongh/remotecomparer/pkg/logging"
	"github.com/sdejongh/remotecomparer/pkg/models"
	"github.com/sdejongh/remotecomparer/pkg/ratelimit"
	"golang.org/x/net/http2"
)

// HTTPFetcher downloads http and https resources
type HTTPFetcher struct {
	config   Config
	limiter  *ratelimit.Limiter
	progress ProgressFunc
	logger   logging.Logger
}

// NewHTTPFetcher creates a new HTTP fetcher
func NewHTTPFetcher(config Config, logger logging.Logger) *HTTPFetcher {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &HTTPFetcher{
		config:  config,
		limiter: ratelimit.NewLimiter(config.BandwidthLimit),
		logger:  logger,
	}
}

// SetProgressCallback sets the function called while the body is written
func (f *HTTPFetcher) SetProgressCallback(fn ProgressFunc) {
	f.progress = fn
}

// newClient builds a single-use client. connectTimeout bounds dialing and the TLS
// handshake, readTimeout bounds the wait for response headers. 0 disables either.
func (f *HTTPFetcher) newClient(ctx context.Context, connectTimeout, readTimeout time.Duration) (*http.Client, *http.Transport) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: readTimeout,
		DisableKeepAlives:     true,
	}

	if f.config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			f.logger.Warn(ctx, "Failed to configure HTTP/2, falling back to HTTP/1.1", logging.Fields{"error": err.Error()})
		}
	}

	client := &http.Client{Transport: transport}

	if !f.config.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	} else if f.config.MaxRedirects > 0 {
		maxRedirects := f.config.MaxRedirects
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		}
	}

	return client, transport
}

// Fetch downloads uri into dest
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string, connectTimeout, readTimeout time.Duration, dest string) error {
	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, uri, nil)
	if err != nil {
		return models.NewFetchError(models.FetchMalformedURI, uri, err)
	}

	for key, value := range f.config.Headers {
		req.Header.Set(key, value)
	}
	if f.config.UserAgent != "" {
		req.Header.Set("User-Agent", f.config.UserAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "*/*")
	}

	client, transport := f.newClient(ctx, connectTimeout, readTimeout)
	defer transport.CloseIdleConnections()

	start := time.Now()
	f.logger.Debug(ctx, "Fetching remote file", logging.Fields{
		"uri":                uri,
		"connect_timeout_ms": connectTimeout.Milliseconds(),
		"read_timeout_ms":    readTimeout.Milliseconds(),
		"bandwidth_limit":    f.limiter.BytesPerSecond(),
	})

	resp, err := client.Do(req)
	if err != nil {
		return classify(uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.NewHTTPStatusError(uri, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if readTimeout > 0 {
		idle := newIdleReader(resp.Body, readTimeout, func() { cancel(errReadTimeout) })
		defer idle.stop()
		body = idle
	}

	n, err := copyToFile(ctx, dest, body, resp.ContentLength, f.limiter, f.progress)
	if err != nil {
		if cause := context.Cause(reqCtx); cause == errReadTimeout {
			return models.NewFetchError(models.FetchTimeout, uri, fmt.Errorf("%w after %d bytes", errReadTimeout, n))
		}
		return classify(uri, err)
	}

	f.logger.Debug(ctx, "Remote file fetched", logging.Fields{
		"uri":         uri,
		"status":      resp.StatusCode,
		"protocol":    resp.Proto,
		"bytes":       n,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

// idleReader fires onIdle when a single read of r blocks for longer than timeout.
// The timer only runs inside Read, so time spent by consumers (rate limiting,
// disk writes) between reads never counts as idle.
type idleReader struct {
	r       io.Reader
	timeout time.Duration
	timer   *time.Timer
}

func newIdleReader(r io.Reader, timeout time.Duration, onIdle func()) *idleReader {
	timer := time.AfterFunc(timeout, onIdle)
	timer.Stop()
	return &idleReader{
		r:       r,
		timeout: timeout,
		timer:   timer,
	}
}

func (r *idleReader) Read(p []byte) (int, error) {
	r.timer.Reset(r.timeout)
	defer r.timer.Stop()
	return r.r.Read(p)
}

func (r *idleReader) stop() {
	r.timer.Stop()
}
