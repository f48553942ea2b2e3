// Package httputil provides HTTP utilities for the remote API clients.
//
// # Overview
//
// This package provides infrastructure used by the transport client in
// [github.com/matzehuels/presspub/pkg/integrations]:
//
//   - [Retry]: Automatic retry with exponential backoff
//   - [NewLimiter]: Optional request pacing
//
// # Retry
//
// [Retry] wraps an operation with automatic retry for failures explicitly
// marked as transient with [RetryableError]. The transport marks only
// connection-level failures (refused, reset, DNS) this way; an HTTP answer
// of any status is final.
//
//	err := httputil.Retry(ctx, httputil.DefaultPolicy(), func() error {
//	    resp, err = client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    return nil
//	})
//
// # Configuration
//
// Default settings match a patient publishing workflow:
//
//   - Max attempts: 10
//   - Base backoff: 500 milliseconds, doubling each attempt
//   - Backoff cap: 2 minutes
//
// Pacing is disabled unless a positive requests-per-second rate is given.
package httputil
