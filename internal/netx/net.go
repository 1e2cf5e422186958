// Package netx provides the connectivity oracle: a cheap "is the backend
// reachable right now" check polled before routing story submissions.
package netx

import (
	"context"
	"net/http"
	"time"
)

// Checker reports whether the device currently has connectivity to the
// backend. Implementations must be safe for concurrent use.
type Checker interface {
	Online(ctx context.Context) bool
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) bool

func (f CheckerFunc) Online(ctx context.Context) bool { return f(ctx) }

// HTTPChecker probes a URL with a short HEAD request. Any response, including
// an HTTP error status, counts as online; only transport failures count as
// offline.
type HTTPChecker struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPChecker builds a checker probing the given URL. A zero timeout
// defaults to 3 seconds.
func NewHTTPChecker(url string, timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &HTTPChecker{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

func (c *HTTPChecker) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}
