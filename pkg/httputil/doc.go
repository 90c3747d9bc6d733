// Package httputil provides the HTTP plumbing used to fetch remote
// resources such as the preset catalogue.
//
// # Overview
//
//   - [Get]: GET a URL with retries, mapping status codes to errors
//   - [Backoff]: retry policy with a doubling, capped delay
//
// # Retry
//
// [Backoff.Do] re-runs an operation only when it fails with a [RetryableError].
// [Get] marks transport failures and 5xx responses retryable; 404 maps to
// [ErrNotFound] and other statuses fail immediately.
//
//	data, err := httputil.Get(ctx, nil, "https://example.com/presets.json")
//	if errors.Is(err, httputil.ErrNotFound) {
//	    // fall back
//	}
package httputil
