// Package httputil provides the HTTP plumbing for fetching remote
// lockfiles.
//
// # Overview
//
//   - [Fetch]: GET a URL with automatic retry for transient failures
//   - [Retry]: generic retry with exponential backoff
//
// # Retry
//
// [Retry] re-attempts operations that fail with a [RetryableError]:
// network errors, 5xx server errors, and 429 rate-limit responses.
// Other failures (4xx, malformed URLs) return immediately.
//
// Default settings: 3 attempts, 1 second base delay, doubling each retry.
package httputil
