// Package httputil provides the HTTP fetch layer for remote icon sources.
//
// # Overview
//
// Icon extraction sometimes leaves the local filesystem: URL drops resolve
// their icon by fetching a favicon. This package provides the two pieces
// that flow needs:
//
//   - [FetchBytes]: a bounded GET that classifies failures
//   - [Retry]: automatic retry with exponential backoff
//
// # Retry
//
// Transient failures (network errors, 5xx responses) are wrapped in
// [RetryableError]; anything else returns immediately. [Retry] only
// re-attempts retryable errors:
//
//	var body []byte
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    var err error
//	    body, err = httputil.FetchBytes(ctx, nil, url, maxIconBytes)
//	    return err
//	})
//
// A 404 from a host without a favicon therefore fails fast, while a flaky
// connection gets three attempts before the caller falls back to the
// default icon.
package httputil
