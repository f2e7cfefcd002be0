package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Relay represents a mini relay found on the local network
type Relay struct {
	// Instance is the advertised service instance name (e.g., "mini-relay on den")
	Instance string

	// Hostname is the mDNS hostname (e.g., "den.local.")
	Hostname string

	// IP is the relay address, IPv4 preferred
	IP string

	// Port is the listening port
	Port int

	// Path is the websocket endpoint path (from the "path" TXT record)
	Path string

	// TLS is set when the relay advertises "tls=1"
	TLS bool

	// Metadata contains all TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the relay was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the relay
func (r *Relay) String() string {
	return fmt.Sprintf("%s (%s) at %s", r.Instance, r.Hostname, r.URL())
}

// URL returns the websocket URL a client should dial
func (r *Relay) URL() string {
	scheme := "ws"
	if r.TLS {
		scheme = "wss"
	}
	path := r.Path
	if path == "" {
		path = DefaultPath
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(r.IP, strconv.Itoa(r.Port)), path)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (r *Relay) GetMetadata(key string) string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}
