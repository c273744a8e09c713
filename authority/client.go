package authority

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// TTLHeader carries the freshness duration, in seconds, of an accepted token.
	TTLHeader = "X-Auth-TTL"

	// DefaultHost is the loopback address the authority is expected on.
	DefaultHost = "127.0.0.1"

	// DefaultPort is the authority's conventional port.
	DefaultPort = 11000

	// DefaultTimeout bounds a single round trip.
	DefaultTimeout = 10 * time.Second

	// maxDrain caps how much of an unexpected response body is read before
	// the connection is released.
	maxDrain = 64 << 10
)

// Client performs token checks against the authority. It holds only
// read-only configuration and is safe for concurrent use.
type Client struct {
	host      string
	port      int
	useTLS    bool
	tlsConfig *tls.Config
	timeout   time.Duration
	client    *http.Client
}

// New builds a Client. Without options it talks plain HTTP to
// 127.0.0.1:11000 with a 10 second timeout.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		host:    DefaultHost,
		port:    DefaultPort,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.client == nil {
		c.client = c.defaultHTTPClient()
	}

	return c, nil
}

func (c *Client) defaultHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if c.useTLS {
		if c.tlsConfig != nil {
			transport.TLSClientConfig = c.tlsConfig.Clone()
		} else {
			transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
	}
	return &http.Client{
		Transport: transport,
		// Redirects are answered as they are; a 3xx is a rejection.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Endpoint returns the base URL the client sends checks to.
func (c *Client) Endpoint() *url.URL {
	scheme := "http"
	if c.useTLS {
		scheme = "https"
	}
	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.host, strconv.Itoa(c.port)),
	}
}

// Timeout returns the bound applied to each round trip.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Check asks the authority whether token is valid for account.
//
// The round trip is bounded by the configured timeout and is not cancelled
// when ctx is; values carried by ctx (trace spans) are kept. The response
// body is always drained and closed before Check returns.
func (c *Client) Check(ctx context.Context, account, token string) Verdict {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	u := c.Endpoint()
	u.Path = "/token/" + account + "/" + token
	u.RawPath = "/token/" + url.PathEscape(account) + "/" + url.PathEscape(token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return failed("request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// The URL carries the token; keep it out of the error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return failed("connect", err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain)); err != nil {
		return failed("read", err)
	}

	if resp.StatusCode != http.StatusNoContent {
		return rejected(resp.StatusCode, "status "+strconv.Itoa(resp.StatusCode))
	}

	ttl, ok := parseTTL(resp.Header.Get(TTLHeader))
	if !ok {
		return rejected(resp.StatusCode, "missing or invalid "+TTLHeader)
	}

	return accepted(resp.StatusCode, ttl)
}

// parseTTL reads a positive, finite number of seconds.
func parseTTL(raw string) (time.Duration, bool) {
	if raw == "" {
		return 0, false
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
		return 0, false
	}
	if secs > math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64), true
	}
	ttl := time.Duration(secs * float64(time.Second))
	if ttl <= 0 {
		return 0, false
	}
	return ttl, true
}
