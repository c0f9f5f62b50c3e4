package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

const narrativeDialTimeout = 1500 * time.Millisecond

// dialAddress resolves the host:port a TCP probe of endpoint should dial.
// Endpoints without an explicit port use the scheme default.
func dialAddress(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid URL: missing host in %q", endpoint)
	}

	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// DialEndpoint opens and closes a TCP connection to endpoint. It only proves
// the host accepts connections, no request is sent.
func DialEndpoint(endpoint string, timeout time.Duration) error {
	address, err := dialAddress(endpoint)
	if err != nil {
		return err
	}
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// PingNarrative checks that the narrative summary API host is reachable, so
// the health report can mark the dashboard narrative as degraded.
func PingNarrative(narrativeURL string) error {
	return DialEndpoint(narrativeURL, narrativeDialTimeout)
}
