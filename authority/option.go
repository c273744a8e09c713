package authority

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Option configures the Client.
type Option func(*Client) error

// WithHost sets the authority host name or IP address.
//
// Default: 127.0.0.1
func WithHost(host string) Option {
	return func(c *Client) error {
		if host == "" {
			return errors.New("host cannot be empty")
		}
		c.host = host
		return nil
	}
}

// WithPort sets the authority port.
//
// Default: 11000
func WithPort(port int) Option {
	return func(c *Client) error {
		if port < 1 || port > 65535 {
			return fmt.Errorf("port %d out of range", port)
		}
		c.port = port
		return nil
	}
}

// WithTLS switches the client to HTTPS.
//
// Default: false
func WithTLS(enabled bool) Option {
	return func(c *Client) error {
		c.useTLS = enabled
		return nil
	}
}

// WithTLSConfig sets the TLS configuration used when TLS is enabled. It
// implies WithTLS(true). Ignored when WithHTTPClient is also given.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) error {
		if cfg == nil {
			return errors.New("tls config cannot be nil")
		}
		c.useTLS = true
		c.tlsConfig = cfg
		return nil
	}
}

// WithTimeout bounds each round trip to the authority.
//
// Default: 10s
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return errors.New("timeout must be positive")
		}
		c.timeout = timeout
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for checks. The client's own
// Timeout still applies on top of WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) error {
		if client == nil {
			return errors.New("HTTP client cannot be nil")
		}
		c.client = client
		return nil
	}
}
