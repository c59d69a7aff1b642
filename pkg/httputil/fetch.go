package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultClient is used by [FetchBytes] when no client is given. The
// timeout bounds a single attempt; retries layer on top of it.
var DefaultClient = &http.Client{Timeout: 10 * time.Second}

// FetchBytes GETs url and returns at most maxSize bytes of the response
// body. Transport failures and 5xx statuses come back wrapped as retryable
// so [Retry] attempts them again; other non-2xx statuses are permanent. A
// body longer than maxSize is a permanent error too: icon sources that
// large are not worth caching.
func FetchBytes(ctx context.Context, client *http.Client, url string, maxSize int64) ([]byte, error) {
	if client == nil {
		client = DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, Retryable(fmt.Errorf("fetch %s: %w", url, err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, Retryable(fmt.Errorf("fetch %s: status %d", url, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
	if err != nil {
		return nil, Retryable(fmt.Errorf("read %s: %w", url, err))
	}
	if int64(len(body)) > maxSize {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes", url, maxSize)
	}
	return body, nil
}
