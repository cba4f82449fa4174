// Package transport is the HTTP client used to reach storefront pages and
// image hosts. It sets a User-Agent, bounds every request with a timeout,
// spaces requests to the same host, and caches recently fetched pages.
package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/logging"
)

// Client fetches pages and images over HTTP.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
	delay     time.Duration
	cacheSize int

	throttle *throttle
	pages    *lru.Cache[string, string]
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithPoliteDelay sets the minimum spacing between requests to one host.
// Zero disables spacing.
func WithPoliteDelay(d time.Duration) Option {
	return func(c *Client) {
		c.delay = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its own timeout is
// used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithPageCacheSize sets how many pages Page keeps. Zero disables caching.
func WithPageCacheSize(n int) Option {
	return func(c *Client) {
		c.cacheSize = n
	}
}

// New creates a client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		timeout:   constants.DefaultFetchTimeout,
		userAgent: constants.DefaultUserAgent,
		delay:     constants.DefaultPoliteDelay,
		cacheSize: constants.PageCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	c.throttle = newThrottle(c.delay)

	if c.cacheSize > 0 {
		cache, err := lru.New[string, string](c.cacheSize)
		if err != nil {
			return nil, errors.WrapResource("create", "page cache", "", err)
		}
		c.pages = cache
	}
	return c, nil
}

// Fetch GETs rawURL and returns the body. Failures, including non-2xx
// responses, are returned as *errors.APIError.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.NewValidationError("url", rawURL, "expected an absolute http(s) URL")
	}

	if err := c.throttle.wait(ctx, u.Host); err != nil {
		return nil, requestError(u.Host, rawURL, 0, err)
	}

	req, err := c.newRequest(ctx, rawURL)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+rawURL, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, requestError(u.Host, rawURL, c.http.Timeout, err)
	}

	body, err := readResponse(ctx, resp, u.Host, rawURL)
	logging.FromContext(ctx).Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("Fetched")
	return body, err
}

// Page fetches an HTML page, serving repeated requests from the cache.
func (c *Client) Page(ctx context.Context, rawURL string) (string, error) {
	if c.pages != nil {
		if page, ok := c.pages.Get(rawURL); ok {
			return page, nil
		}
	}
	body, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	page := string(body)
	if c.pages != nil {
		c.pages.Add(rawURL, page)
	}
	return page, nil
}

// CloseIdleConnections releases keep-alive connections held by the client.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}
