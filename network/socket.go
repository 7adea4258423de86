package network

import (
	"context"
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/net/ipv4"
)

// Bind opens a socket listening on ep. A second Bind on the same endpoint fails
// with ErrAddressInUse.
func Bind(ep Endpoint, config SocketConfig) (*Socket, error) {
	addr, err := ep.UDPAddr()
	if err != nil {
		return nil, err
	}

	udpConn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", ep, Classify(err))
	}
	return newSocket(udpConn, config)
}

// Open creates an unbound socket on an ephemeral local port for sending.
func Open(config SocketConfig) (*Socket, error) {
	network, address := "udp", ":0"
	if config.Broadcast || config.TTL > 0 {
		// both options are IPv4 socket options
		network, address = "udp4", "0.0.0.0:0"
	}
	lc := net.ListenConfig{}
	if config.Broadcast {
		lc.Control = func(_, _ string, c syscall.RawConn) error {
			return enableBroadcast(c)
		}
	}

	pc, err := lc.ListenPacket(context.Background(), network, address)
	if err != nil {
		return nil, fmt.Errorf("failed to open socket: %w", Classify(err))
	}
	return newSocket(pc.(*net.UDPConn), config)
}

func newSocket(udpConn *net.UDPConn, config SocketConfig) (*Socket, error) {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultMaxDatagram
	}

	if config.TTL > 0 {
		if err := ipv4.NewPacketConn(udpConn).SetTTL(config.TTL); err != nil {
			udpConn.Close()
			return nil, fmt.Errorf("failed to set ttl %d: %w", config.TTL, err)
		}
	}

	s := &Socket{
		conn:   udpConn,
		config: config,
	}
	if la, ok := udpConn.LocalAddr().(*net.UDPAddr); ok {
		s.localAddr = endpointFromAddr(la)
	}
	return s, nil
}

// SendTo writes payload as one datagram. No framing is added.
func (s *Socket) SendTo(ep Endpoint, payload []byte) (int, error) {
	d, err := NewDatagram(payload, ep, s.config.BufferSize)
	if err != nil {
		return 0, err
	}

	raddr, err := d.Peer.UDPAddr()
	if err != nil {
		return 0, err
	}

	n, err := s.conn.WriteToUDP(d.Payload, raddr)
	if err != nil {
		return n, Classify(err)
	}
	return n, nil
}

// Receive blocks until one datagram arrives, the read deadline passes or the
// socket is closed. An empty payload is a valid datagram.
func (s *Socket) Receive() (Datagram, error) {
	if s.config.ReadTimeout > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout)); err != nil {
			return Datagram{}, Classify(err)
		}
	}

	buffer := make([]byte, s.config.BufferSize)
	n, addr, err := s.conn.ReadFromUDP(buffer)
	if err != nil {
		return Datagram{}, Classify(err)
	}

	return NewDatagram(buffer[:n], endpointFromAddr(addr), s.config.BufferSize)
}

// Close is idempotent and may be called concurrently with Receive to unblock it.
func (s *Socket) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

func (s *Socket) LocalEndpoint() Endpoint {
	return s.localAddr
}
