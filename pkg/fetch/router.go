package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sdejongh/remotecomparer/pkg/logging"
	"github.com/sdejongh/remotecomparer/pkg/models"
)

// Router dispatches a fetch to the fetcher registered for the URI scheme
type Router struct {
	fetchers map[string]Fetcher
}

// NewRouter creates an empty router
func NewRouter() *Router {
	return &Router{fetchers: make(map[string]Fetcher)}
}

// NewDefaultRouter registers the HTTP fetcher for http and https and the file
// fetcher for file. progress, when set, is attached to both.
func NewDefaultRouter(config Config, logger logging.Logger, progress ProgressFunc) *Router {
	httpFetcher := NewHTTPFetcher(config, logger)
	httpFetcher.SetProgressCallback(progress)

	fileFetcher := NewFileFetcher(config, logger)
	fileFetcher.SetProgressCallback(progress)

	r := NewRouter()
	r.Register(httpFetcher, "http", "https")
	r.Register(fileFetcher, "file")
	return r
}

// Register associates fetcher with each scheme (case-insensitive)
func (r *Router) Register(fetcher Fetcher, schemes ...string) {
	for _, scheme := range schemes {
		r.fetchers[strings.ToLower(scheme)] = fetcher
	}
}

// Schemes returns the registered schemes, sorted
func (r *Router) Schemes() []string {
	schemes := make([]string, 0, len(r.fetchers))
	for scheme := range r.fetchers {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}

// Fetch validates uri and delegates to the matching fetcher.
// An unparsable URI, a missing scheme or an unsupported scheme is malformed_uri.
func (r *Router) Fetch(ctx context.Context, uri string, connectTimeout, readTimeout time.Duration, dest string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return models.NewFetchError(models.FetchMalformedURI, uri, err)
	}
	if u.Scheme == "" {
		return models.NewFetchError(models.FetchMalformedURI, uri, errors.New("no protocol"))
	}

	fetcher, ok := r.fetchers[u.Scheme]
	if !ok {
		return models.NewFetchError(models.FetchMalformedURI, uri,
			fmt.Errorf("unknown protocol: %s (supported: %s)", u.Scheme, strings.Join(r.Schemes(), ", ")))
	}

	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return models.NewFetchError(models.FetchMalformedURI, uri, errors.New("missing host"))
	}

	if err := fetcher.Fetch(ctx, uri, connectTimeout, readTimeout, dest); err != nil {
		return classify(uri, err)
	}
	return nil
}
