package network

import (
	"errors"
	"testing"
)

func TestNewEndpoint(t *testing.T) {
	tests := []struct {
		host    string
		port    int
		wantErr bool
	}{
		{"127.0.0.1", 10000, false},
		{"localhost", 1, false},
		{"::1", 65535, false},
		{"[::1]", 80, false},
		{"", 10000, true},
		{"   ", 10000, true},
		{"127.0.0.1", 0, true},
		{"127.0.0.1", -1, true},
		{"127.0.0.1", 65536, true},
		{"bad host", 10000, true},
	}
	for _, tt := range tests {
		ep, err := NewEndpoint(tt.host, tt.port)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidEndpoint) {
				t.Errorf("NewEndpoint(%q, %d): expected ErrInvalidEndpoint, got %v", tt.host, tt.port, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewEndpoint(%q, %d): %v", tt.host, tt.port, err)
			continue
		}
		if ep.Port != tt.port {
			t.Errorf("port = %d, want %d", ep.Port, tt.port)
		}
	}
}

func TestNewBindEndpointAllowsEphemeralPort(t *testing.T) {
	ep, err := NewBindEndpoint("127.0.0.1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if ep.Port != 0 {
		t.Fatalf("port = %d, want 0", ep.Port)
	}
}

func TestParseEndpoint(t *testing.T) {
	ep, err := ParseEndpoint("127.0.0.1:10000")
	if err != nil {
		t.Fatal(err)
	}
	if ep.Host != "127.0.0.1" || ep.Port != 10000 {
		t.Fatalf("got %+v", ep)
	}
	if ep.String() != "127.0.0.1:10000" {
		t.Fatalf("String() = %q", ep.String())
	}

	v6, err := ParseEndpoint("[::1]:9")
	if err != nil {
		t.Fatal(err)
	}
	if v6.String() != "[::1]:9" {
		t.Fatalf("String() = %q", v6.String())
	}

	for _, s := range []string{"127.0.0.1", "127.0.0.1:abc", ":10000", "127.0.0.1:70000"} {
		if _, err := ParseEndpoint(s); !errors.Is(err, ErrInvalidEndpoint) {
			t.Errorf("ParseEndpoint(%q): expected ErrInvalidEndpoint, got %v", s, err)
		}
	}
}

func TestEndpointUDPAddr(t *testing.T) {
	ep := Endpoint{Host: "127.0.0.1", Port: 4242}
	addr, err := ep.UDPAddr()
	if err != nil {
		t.Fatal(err)
	}
	if addr.Port != 4242 || !addr.IP.IsLoopback() {
		t.Fatalf("unexpected addr %v", addr)
	}

	bad := Endpoint{Host: "no-such-host.invalid", Port: 1}
	if _, err := bad.UDPAddr(); !errors.Is(err, ErrInvalidEndpoint) {
		t.Fatalf("expected ErrInvalidEndpoint, got %v", err)
	}
}
