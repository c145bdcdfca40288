package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Backend is a marketplace API server found on the local network
type Backend struct {
	// Instance is the advertised service instance name (e.g., "Mirage Feira Centro")
	Instance string

	// Hostname is the mDNS hostname (e.g., "feira.local.")
	Hostname string

	// IP is the address to connect to, IPv4 when one was advertised
	IP string

	// Port is the HTTP port
	Port int

	// Metadata holds the TXT record. Recognised keys: "scheme" (http or
	// https), "path" (API root, default "/") and "version".
	Metadata map[string]string

	// DiscoveredAt is when the advertisement was received
	DiscoveredAt time.Time
}

// String returns a one-line description for listings
func (b *Backend) String() string {
	return fmt.Sprintf("%s (%s) em %s", b.Instance, strings.TrimSuffix(b.Hostname, "."), b.BaseURL())
}

// BaseURL returns the root URL of the backend's REST API
func (b *Backend) BaseURL() string {
	scheme := b.GetMetadata("scheme")
	if scheme != "https" {
		scheme = "http"
	}
	path := strings.TrimRight(b.GetMetadata("path"), "/")
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return scheme + "://" + net.JoinHostPort(b.IP, strconv.Itoa(b.Port)) + path
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Backend) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
