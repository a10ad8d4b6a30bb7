// Package validation checks URLs and user input before they reach the Spot API.
//
// ValidateEndpointURL is strict: it rejects private, loopback and cloud
// metadata destinations for the configured API endpoint. SetAllowPrivate(true)
// lets private and loopback addresses through for self-hosted and test
// servers; metadata and link-local addresses stay blocked regardless.
// ValidateBookmarkURL only checks the shape of a URL being shared, since the
// Spot server fetches it, not this client.
package validation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

var allowPrivate atomic.Bool

// SetAllowPrivate enables or disables private and localhost endpoints.
func SetAllowPrivate(enabled bool) {
	allowPrivate.Store(enabled)
}

// AllowPrivateEnabled reports whether private and localhost endpoints are allowed.
func AllowPrivateEnabled() bool {
	return allowPrivate.Load()
}

// resolveTimeout bounds the DNS lookup of an endpoint host.
const resolveTimeout = 5 * time.Second

// lookupHost is replaceable in tests.
var lookupHost = func(ctx context.Context, host string) ([]netip.Addr, error) {
	return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
}

var metadataAddr = netip.MustParseAddr("169.254.169.254")

// reservedRanges are never a public Spot server.
var reservedRanges = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("ff00::/8"),
	netip.MustParsePrefix("2001:db8::/32"),
}

var metadataHosts = map[string]bool{
	"169.254.169.254":          true,
	"metadata.google.internal": true,
	"metadata":                 true,
	"instance-data":            true,
	"fd00:ec2::254":            true,
}

func parseHTTPURL(rawURL string) (*url.URL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, errors.New("URL cannot be empty")
	}
	if len(rawURL) > MaxURLLength {
		return nil, fmt.Errorf("URL exceeds maximum length of %d characters", MaxURLLength)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, errors.New("URL must contain a hostname")
	}
	return u, nil
}

// ValidateEndpointURL checks the configured Spot API endpoint: an http(s) URL
// whose host is not a metadata service and, unless private endpoints are
// allowed, neither localhost nor an address in a private range. Host names
// are resolved and every address is checked; names that do not resolve yet
// are accepted.
func ValidateEndpointURL(rawURL string) error {
	u, err := parseHTTPURL(rawURL)
	if err != nil {
		return err
	}
	host := strings.ToLower(u.Hostname())

	if metadataHosts[host] || strings.HasSuffix(host, ".metadata.google.internal") {
		return errors.New("cloud metadata endpoints are not allowed")
	}
	if !allowPrivate.Load() && (host == "localhost" || strings.HasSuffix(host, ".localhost")) {
		return errors.New("localhost URLs are not allowed")
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return checkAddr(addr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	addrs, err := lookupHost(ctx, host)
	if err != nil {
		return nil
	}
	for _, addr := range addrs {
		if err := checkAddr(addr); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP %s: %w", host, addr, err)
		}
	}
	return nil
}

// ValidateBookmarkURL checks that a shared link is an absolute http(s) URL.
func ValidateBookmarkURL(rawURL string) error {
	_, err := parseHTTPURL(rawURL)
	return err
}

// checkAddr returns why addr cannot host the API endpoint, or nil.
func checkAddr(addr netip.Addr) error {
	addr = addr.Unmap()
	switch {
	case addr == metadataAddr:
		return errors.New("cloud metadata IP address is not allowed")
	case addr.IsUnspecified():
		return errors.New("unspecified IP addresses are not allowed")
	case addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast():
		return errors.New("link-local IP addresses are not allowed")
	case allowPrivate.Load():
		return nil
	case addr.IsLoopback():
		return errors.New("loopback IP addresses are not allowed")
	case inReservedRange(addr):
		return errors.New("private IP addresses are not allowed")
	}
	return nil
}

func inReservedRange(addr netip.Addr) bool {
	for _, p := range reservedRanges {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
