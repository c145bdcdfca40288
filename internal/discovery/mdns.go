package discovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/mirage/artesanato/internal/logging"
)

const (
	// ServiceType is the mDNS service type marketplace backends advertise
	ServiceType = "_artesanato._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for backend discovery
	DefaultScanTimeout = 3 * time.Second

	// DefaultPort is used when an advertisement carries no port
	DefaultPort = 3000
)

// ErrNoBackend is returned by First when nothing answered before the timeout.
var ErrNoBackend = errors.New("no marketplace backend found on the local network")

// Scanner handles mDNS backend discovery
type Scanner struct {
	// Timeout is the maximum time to wait for advertisements
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan collects every backend that answers within the timeout.
func (s *Scanner) Scan(ctx context.Context) ([]*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu    sync.Mutex
		found []*Backend
	)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		seen := make(map[string]bool)
		for entry := range entries {
			b := parseServiceEntry(entry)
			if b == nil || seen[b.BaseURL()] {
				continue
			}
			seen[b.BaseURL()] = true
			logging.Debug("Discovered backend", zap.String("instance", b.Instance), zap.String("url", b.BaseURL()))
			mu.Lock()
			found = append(found, b)
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return slices.Clone(found), nil
}

// First returns the first backend that answers, or ErrNoBackend after the
// timeout.
func (s *Scanner) First(ctx context.Context) (*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Backend, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			if b := parseServiceEntry(entry); b != nil {
				select {
				case found <- b:
				default:
				}
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case b := <-found:
		return b, nil
	case <-ctx.Done():
		select {
		case b := <-found:
			return b, nil
		default:
			return nil, ErrNoBackend
		}
	}
}

// parseServiceEntry converts a zeroconf service entry to a Backend.
// Returns nil if the entry carries no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Backend {
	if entry == nil {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
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
		key, value, _ := strings.Cut(txt, "=")
		if key != "" {
			metadata[key] = value
		}
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return &Backend{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Discover runs a scan with the given timeout and returns the first
// backend's base URL.
func Discover(ctx context.Context, timeout time.Duration) (string, error) {
	s := NewScanner()
	if timeout > 0 {
		s.Timeout = timeout
	}
	b, err := s.First(ctx)
	if err != nil {
		return "", err
	}
	logging.Info("Using discovered backend", zap.String("instance", b.Instance), zap.String("url", b.BaseURL()))
	return b.BaseURL(), nil
}
