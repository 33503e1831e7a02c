// Package fetch downloads accent dictionaries over HTTP. Dictionary hosts
// vary in quality, so requests carry ordinary browser headers, timeouts
// are clamped to a sane range, and timeouts are retried a bounded number
// of times.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	minTimeout = 2 * time.Second
	maxTimeout = 99 * time.Second

	maxBodyBytes = 256 << 20 // formatted dictionaries run tens of MB
)

// RetryableError marks a download failure worth retrying (timeouts and
// server-side errors).
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Client downloads dictionary files.
type Client struct {
	httpClient *http.Client
	attempts   int
}

func NewClient(timeout time.Duration, attempts int) *Client {
	if timeout < minTimeout {
		timeout = minTimeout
	}
	if timeout > maxTimeout {
		timeout = maxTimeout
	}
	if attempts <= 0 {
		attempts = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		attempts:   attempts,
	}
}

// Download fetches url, retrying timed-out attempts up to the configured
// count. The final attempt's error is returned as-is.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		data, err := c.get(ctx, url)
		if err == nil {
			return data, nil
		}
		lastErr = err
		var retryErr *RetryableError
		if !errors.As(err, &retryErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport-level failures (timeouts included) are retryable.
		return nil, &RetryableError{Err: fmt.Errorf("get %s: %w", url, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &RetryableError{Err: fmt.Errorf("get %s: status %d", url, resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("read %s: %w", url, err)}
	}
	if int64(len(data)) > maxBodyBytes {
		return nil, fmt.Errorf("get %s: body exceeds %d bytes", url, int64(maxBodyBytes))
	}
	return data, nil
}

// setHeaders makes the request look like an ordinary browser; some
// dictionary mirrors refuse obvious bots.
func setHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:136.0) Gecko/20100101 Firefox/136.0")
}
