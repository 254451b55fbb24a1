package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/lockrank/pkg/observability"
)

// maxBodySize caps downloaded lockfiles at 50 MiB. Real-world
// package-lock.json files top out in the low tens of megabytes.
const maxBodySize = 50 << 20

// DefaultTimeout is the per-request timeout for [Fetch].
const DefaultTimeout = 30 * time.Second

// Fetch downloads the body of url with automatic retry on transient
// failures. Network errors, 5xx responses, and 429 responses are retried
// with exponential backoff; other non-2xx statuses fail immediately.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	client := &http.Client{Timeout: DefaultTimeout}

	var body []byte
	err := RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		start := time.Now()
		observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
		resp, err := client.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
			return &RetryableError{Err: err}
		}
		defer resp.Body.Close()
		observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path,
			resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return &RetryableError{Err: fmt.Errorf("GET %s: %s", url, resp.Status)}
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("GET %s: %s", url, resp.Status)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return &RetryableError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
