package httpclient

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const userAgent = "resumatch/1.0 (+https://github.com/rsilvagit/resumatch)"

// Options configures the retrying HTTP client.
type Options struct {
	MaxRetries int           // total attempts for idempotent requests
	RetryDelay time.Duration // first backoff, doubled on every retry
	Transport  http.RoundTripper
}

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	if o.Transport == nil {
		o.Transport = http.DefaultTransport
	}
	return o
}

// Client wraps http.Client with request tagging and bounded retries.
// Timeouts are carried by the request context, not by the client.
type Client struct {
	inner      *http.Client
	maxRetries int
	retryDelay time.Duration
	sleep      func(time.Duration) <-chan time.Time
}

// New creates a Client with the given options.
func New(opts Options) *Client {
	opts = opts.withDefaults()
	return &Client{
		inner:      &http.Client{Transport: opts.Transport},
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		sleep:      time.After,
	}
}

// Do executes the request. GET and HEAD requests that fail with a network
// error or a transient status (429, 502, 503, 504) are retried with
// exponential backoff; any other method is sent exactly once.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	setHeaders(req)

	attempts := 1
	if idempotent(req.Method) {
		attempts = c.maxRetries
	}

	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err = c.inner.Do(req)
		last := attempt == attempts-1

		switch {
		case err != nil:
			if last || req.Context().Err() != nil {
				return nil, fmt.Errorf("httpclient: request failed: %w", err)
			}
		case !retryableStatus(resp.StatusCode) || last:
			return resp, nil
		default:
			resp.Body.Close()
		}

		backoff := c.retryDelay * time.Duration(1<<uint(attempt))
		log.Printf("[httpclient] %s %s failed (%s), retrying in %v (attempt %d/%d)",
			req.Method, req.URL.Path, describe(resp, err), backoff, attempt+1, attempts)

		select {
		case <-c.sleep(backoff):
		case <-req.Context().Done():
			return nil, fmt.Errorf("httpclient: request failed: %w", req.Context().Err())
		}
	}

	return resp, err
}

func setHeaders(req *http.Request) {
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func describe(resp *http.Response, err error) string {
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
