package icons

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/griddock/griddock/pkg/errors"
	"github.com/griddock/griddock/pkg/httputil"
	"github.com/griddock/griddock/pkg/observability"
)

// maxFaviconBytes caps a favicon download. Sites serving larger images get
// the default icon instead.
const maxFaviconBytes = 512 * 1024

// faviconThumbDim bounds the cached favicon's dimensions. Launcher cells
// are small; caching a 512px favicon wastes the disk it sits on.
const faviconThumbDim = 128

// FaviconExtractor resolves icons for URL drops by fetching the site's
// /favicon.ico, downscaling it when it decodes, and caching the bytes on
// disk. The returned ref is the cached file's path, keyed per host so two
// drops from the same site share one fetch.
type FaviconExtractor struct {
	cache  Cache
	client *http.Client
}

// NewFaviconExtractor creates a favicon extractor storing results in
// cache. A nil client uses the package default with its 10s timeout.
func NewFaviconExtractor(cache Cache, client *http.Client) *FaviconExtractor {
	if cache == nil {
		cache = NewNullCache()
	}
	return &FaviconExtractor{cache: cache, client: client}
}

// Extract fetches the favicon for a URL target. Transient fetch failures
// are retried with backoff; anything still failing, including a host with
// no favicon at all, reports an extraction error for the caller's default
// substitution.
func (f *FaviconExtractor) Extract(ctx context.Context, target string) (Icon, error) {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return Icon{}, errors.New(errors.ErrCodeInvalidInput, "not a URL: %s", target)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Icon{}, errors.New(errors.ErrCodeInvalidInput, "unsupported scheme %q", u.Scheme)
	}

	key := "favicon:" + u.Host
	if path, ok := f.cache.Path(ctx, key); ok {
		observability.Cache().OnCacheHit(ctx, key)
		return Icon{Ref: path, Source: SourceExtracted}, nil
	}
	observability.Cache().OnCacheMiss(ctx, key)

	faviconURL := u.Scheme + "://" + u.Host + "/favicon.ico"
	var body []byte
	err = httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
		var ferr error
		body, ferr = httputil.FetchBytes(ctx, f.client, faviconURL, maxFaviconBytes)
		return ferr
	})
	if err != nil {
		return Icon{}, errors.Wrap(errors.ErrCodeExtraction, err, "fetch favicon for %s", u.Host)
	}

	// ICO payloads often do not decode; cache them as served.
	if thumb, terr := Thumbnail(body, faviconThumbDim); terr == nil {
		body = thumb
	}

	path, err := f.cache.Set(ctx, key, body)
	if err != nil {
		return Icon{}, errors.Wrap(errors.ErrCodeExtraction, err, "cache favicon for %s", u.Host)
	}
	if path == "" {
		return Icon{}, errors.New(errors.ErrCodeExtraction, "favicon cache is disabled")
	}
	observability.Cache().OnCacheWrite(ctx, key, len(body))

	return Icon{Ref: path, Source: SourceExtracted}, nil
}

// Ensure FaviconExtractor implements Extractor.
var _ Extractor = (*FaviconExtractor)(nil)
