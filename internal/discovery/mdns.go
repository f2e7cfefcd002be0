package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/DevOrc/mini/internal/logging"
)

const (
	// ServiceType is the mDNS service type relays advertise
	ServiceType = "_minichat._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for relay discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 6667

	// DefaultPath is the websocket endpoint served by the relay
	DefaultPath = "/ws"

	// collectGrace bounds the wait for the entry collector after browsing ends
	collectGrace = 200 * time.Millisecond
)

// Resolver browses and looks up mDNS services. *zeroconf.Resolver
// satisfies it. Both calls return immediately and close entries once ctx
// is done.
type Resolver interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
	Lookup(ctx context.Context, instance, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// Scanner handles mDNS relay discovery
type Scanner struct {
	// Timeout is the maximum time to wait for relays
	Timeout time.Duration

	// NewResolver creates the resolver for each scan
	NewResolver func() (Resolver, error)
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:     DefaultScanTimeout,
		NewResolver: newZeroconfResolver,
	}
}

func newZeroconfResolver() (Resolver, error) {
	return zeroconf.NewResolver(nil)
}

func (s *Scanner) resolver() (Resolver, error) {
	newResolver := s.NewResolver
	if newResolver == nil {
		newResolver = newZeroconfResolver
	}
	resolver, err := newResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}
	return resolver, nil
}

// Scan browses for relays until the timeout or ctx ends and returns them
// sorted by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Relay, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := s.resolver()
	if err != nil {
		return nil, err
	}

	entries := make(chan *zeroconf.ServiceEntry)
	collected := make(chan struct{})

	var mu sync.Mutex
	found := make(map[string]*Relay)

	go func() {
		defer close(collected)
		for entry := range entries {
			relay := parseServiceEntry(entry)
			if relay == nil {
				continue
			}
			logging.Debug("Relay discovered", zap.Stringer("relay", relay))
			mu.Lock()
			found[relay.Instance] = relay
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	select {
	case <-collected:
	case <-time.After(collectGrace):
	}

	mu.Lock()
	defer mu.Unlock()
	relays := make([]*Relay, 0, len(found))
	for _, r := range found {
		relays = append(relays, r)
	}
	sort.Slice(relays, func(i, j int) bool {
		return relays[i].Instance < relays[j].Instance
	})
	return relays, nil
}

// Find waits for the relay with the given instance name.
func (s *Scanner) Find(ctx context.Context, instance string) (*Relay, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := s.resolver()
	if err != nil {
		return nil, err
	}

	entries := make(chan *zeroconf.ServiceEntry)
	match := make(chan *Relay, 1)

	// Keep draining until the resolver closes entries; it blocks on sends.
	go func() {
		for entry := range entries {
			relay := parseServiceEntry(entry)
			if relay == nil || relay.Instance != instance {
				continue
			}
			select {
			case match <- relay:
				cancel()
			default:
			}
		}
	}()

	if err := resolver.Lookup(ctx, instance, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to look up relay %q: %w", instance, err)
	}

	select {
	case relay := <-match:
		return relay, nil
	case <-ctx.Done():
	}

	// A match cancels ctx itself, so both cases can be ready at once.
	select {
	case relay := <-match:
		return relay, nil
	default:
		return nil, fmt.Errorf("relay %q not found within timeout", instance)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Relay
// Returns nil if the entry has no usable address
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Relay {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	path := metadata["path"]
	if path == "" {
		path = DefaultPath
	}

	return &Relay{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         path,
		TLS:          metadata["tls"] == "1",
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Advertisement is a running mDNS registration.
type Advertisement struct {
	server *zeroconf.Server
}

// Advertise registers a relay listening on port under the given instance
// name. Call Shutdown to withdraw it.
func Advertise(instance string, port int, path string, tls bool, version string) (*Advertisement, error) {
	txt := []string{"path=" + path, "version=" + version}
	if tls {
		txt = append(txt, "tls=1")
	}

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising relay via mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)
	return &Advertisement{server: server}, nil
}

// Shutdown withdraws the advertisement.
func (a *Advertisement) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
	}
}
