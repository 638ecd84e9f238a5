package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps resty for HTTP requests to the processor API.
type Client struct {
	r *resty.Client
}

// New creates a new HTTP client with the gateway defaults: 30s total timeout,
// 10s connect timeout, TLS 1.2 minimum and no automatic retries. Retry policy
// is the caller's business — the verification flow has its own fallback.
func New() *Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		TLSHandshakeTimeout: 10 * time.Second,
	}

	r := resty.New().
		SetTimeout(30 * time.Second).
		SetTransport(transport)

	return &Client{r: r}
}

// WithTimeout sets a custom total timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.r.SetTimeout(d)
	return c
}

// WithBearerToken sets a bearer token for authentication.
func (c *Client) WithBearerToken(token string) *Client {
	c.r.SetAuthToken(token)
	return c
}

// WithHeader sets a custom header on every request.
func (c *Client) WithHeader(key, value string) *Client {
	c.r.SetHeader(key, value)
	return c
}

// WithBaseURL sets the base URL for relative request paths.
func (c *Client) WithBaseURL(url string) *Client {
	c.r.SetBaseURL(url)
	return c
}

// Request returns a new resty Request for chaining.
func (c *Client) Request() *resty.Request {
	return c.r.R()
}

// Raw returns the underlying resty client for advanced usage.
func (c *Client) Raw() *resty.Client {
	return c.r
}
