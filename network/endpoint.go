package network

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// NewEndpoint validates a remote host/port pair.
func NewEndpoint(host string, port int) (Endpoint, error) {
	if port < 1 || port > 65535 {
		return Endpoint{}, fmt.Errorf("%w: port %d out of range", ErrInvalidEndpoint, port)
	}
	return newEndpoint(host, port)
}

// NewBindEndpoint is like NewEndpoint but accepts port 0 for an ephemeral bind.
func NewBindEndpoint(host string, port int) (Endpoint, error) {
	if port < 0 || port > 65535 {
		return Endpoint{}, fmt.Errorf("%w: port %d out of range", ErrInvalidEndpoint, port)
	}
	return newEndpoint(host, port)
}

func newEndpoint(host string, port int) (Endpoint, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return Endpoint{}, fmt.Errorf("%w: empty host", ErrInvalidEndpoint)
	}
	// brackets are accepted around IPv6 literals
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if strings.ContainsAny(host, " /") {
		return Endpoint{}, fmt.Errorf("%w: malformed host %q", ErrInvalidEndpoint, host)
	}
	return Endpoint{Host: host, Port: port}, nil
}

// ParseEndpoint parses "host:port".
func ParseEndpoint(s string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: port %q is not a number", ErrInvalidEndpoint, portStr)
	}
	return NewEndpoint(host, port)
}

func endpointFromAddr(addr *net.UDPAddr) Endpoint {
	if addr == nil {
		return Endpoint{}
	}
	return Endpoint{Host: addr.IP.String(), Port: addr.Port}
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// UDPAddr resolves the endpoint.
func (e Endpoint) UDPAddr() (*net.UDPAddr, error) {
	addr, err := net.ResolveUDPAddr("udp", e.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	return addr, nil
}
