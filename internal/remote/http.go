package remote

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single provider request.
	DefaultTimeout = 20 * time.Second
	// DefaultUserAgent identifies the client to the providers.
	DefaultUserAgent = "litfind/1.0 (+https://github.com/csheth/litfind)"

	maxRetries = 2
)

// RetryBaseDelay is the first backoff after an HTTP 429. Tests shorten it.
var RetryBaseDelay = 2 * time.Second

// client is the rate-limited HTTP plumbing shared by the online providers.
type client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	userAgent  string
}

// Option configures an online provider.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the provider at another endpoint (for testing).
func WithBaseURL(url string) Option {
	return func(c *client) {
		c.baseURL = url
	}
}

// WithLimiter replaces the provider's default rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *client) {
		c.limiter = l
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

func newClient(baseURL string, limiter *rate.Limiter, opts []Option) client {
	c := client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    limiter,
		baseURL:    baseURL,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// get waits for the limiter, issues the request and retries on 429 with
// exponential backoff. The caller closes the returned body.
func (c *client) get(ctx context.Context, url string) (io.ReadCloser, error) {
	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, fmt.Errorf("http %s: %s", resp.Status, string(body))
		}
		return resp.Body, nil
	}
}
