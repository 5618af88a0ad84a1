package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	// defaultMaxBytes bounds how much of a resource is read; image headers
	// sit at the start of the file.
	defaultMaxBytes = 8 << 20
)

// StatusError is returned when the server answers with an error status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// client fetches remote resources for probing.
type client struct {
	httpClient *http.Client
	maxBytes   int64
}

func newClient(timeout time.Duration) *client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &client{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   defaultMaxBytes,
	}
}

// get performs a GET request and returns a bounded reader over the body.
// The caller closes it.
func (c *client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/*, video/*;q=0.8, */*;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, c.maxBytes), resp.Body}, nil
}
