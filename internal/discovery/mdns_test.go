package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantIP       string
		wantPort     int
		wantURL      string
	}{
		{
			name: "IPv4 backend",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Feira Centro"},
				HostName:      "feira.local.",
				Port:          3000,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
				Text:          []string{"version=0.3.1"},
			},
			wantInstance: "Feira Centro",
			wantIP:       "192.168.4.16",
			wantPort:     3000,
			wantURL:      "http://192.168.4.16:3000",
		},
		{
			name: "https with api root",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Loja"},
				HostName:      "loja.local.",
				Port:          8443,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
				Text:          []string{"scheme=https", "path=api/v1/"},
			},
			wantInstance: "Loja",
			wantIP:       "10.0.0.5",
			wantPort:     8443,
			wantURL:      "https://10.0.0.5:8443/api/v1",
		},
		{
			name: "no port falls back to default",
			entry: &zeroconf.ServiceEntry{
				HostName: "ateliê.local.",
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantInstance: "ateliê.local",
			wantIP:       "172.16.0.1",
			wantPort:     DefaultPort,
			wantURL:      "http://172.16.0.1:3000",
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "v6"},
				HostName:      "v6.local.",
				Port:          3000,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantInstance: "v6",
			wantIP:       "fe80::1",
			wantPort:     3000,
			wantURL:      "http://[fe80::1]:3000",
		},
		{
			name: "both families prefer IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "dual"},
				Port:          3000,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantInstance: "dual",
			wantIP:       "192.168.1.50",
			wantPort:     3000,
			wantURL:      "http://192.168.1.50:3000",
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				HostName: "feira.local.",
				Port:     3000,
			},
			wantNil: true,
		},
		{
			name:    "nil entry",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if b != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", b)
				}
				return
			}
			if b == nil {
				t.Fatal("parseServiceEntry() = nil, want backend")
			}

			if b.Instance != tt.wantInstance {
				t.Errorf("Instance = %q, want %q", b.Instance, tt.wantInstance)
			}
			if b.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", b.IP, tt.wantIP)
			}
			if b.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", b.Port, tt.wantPort)
			}
			if got := b.BaseURL(); got != tt.wantURL {
				t.Errorf("BaseURL() = %q, want %q", got, tt.wantURL)
			}
			if time.Since(b.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", b.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntryMetadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "feira.local.",
		Port:     3000,
		AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
		Text:     []string{"path=/", "version=0.3.1", "flag", "=orphan"},
	}

	b := parseServiceEntry(entry)
	if b == nil {
		t.Fatal("parseServiceEntry() = nil, want backend")
	}

	want := map[string]string{
		"path":    "/",
		"version": "0.3.1",
		"flag":    "",
	}
	if len(b.Metadata) != len(want) {
		t.Errorf("Metadata has %d entries, want %d", len(b.Metadata), len(want))
	}
	for k, v := range want {
		if got := b.GetMetadata(k); got != v {
			t.Errorf("GetMetadata(%q) = %q, want %q", k, got, v)
		}
	}
	if got := b.BaseURL(); got != "http://192.168.4.16:3000" {
		t.Errorf("BaseURL() = %q", got)
	}
	if got := b.String(); got != "feira.local (feira.local) em http://192.168.4.16:3000" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}
