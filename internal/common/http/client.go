// internal/common/http/client.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrRetriesExhausted wraps the last failure once every attempt is used.
var ErrRetriesExhausted = errors.New("retries exhausted")

// RequestFunc builds a fresh request for each attempt so bodies are never
// replayed from a drained reader.
type RequestFunc func(ctx context.Context) (*http.Request, error)

type Client struct {
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewClient returns a client without an overall timeout; deadlines come
// from the request context.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseDelay:  100 * time.Millisecond,
	}
}

// WithRetries sets the number of additional attempts on transport errors,
// 429 and 5xx responses.
func (c *Client) WithRetries(n int) *Client {
	if n < 0 {
		n = 0
	}
	c.maxRetries = n
	return c
}

// DoWithRetry executes build with exponential backoff. Responses with a
// status that is not retryable (including 404) are returned as is; the
// caller owns the body.
func (c *Client) DoWithRetry(ctx context.Context, build RequestFunc) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.baseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := build(ctx)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		resp.Body.Close()
		lastErr = fmt.Errorf("status %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
