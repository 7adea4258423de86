package network

import (
	"net"
	"sync"
	"time"
)

// DefaultMaxDatagram is the receive buffer size used when none is configured.
const DefaultMaxDatagram = 1024

// Endpoint identifies one side of a datagram exchange.
type Endpoint struct {
	Host string
	Port int
}

// Datagram is a single received payload together with its origin.
type Datagram struct {
	Payload []byte
	Peer    Endpoint
	At      time.Time
}

type SocketConfig struct {
	// BufferSize caps a single datagram. Longer datagrams are truncated by the kernel.
	BufferSize int
	// ReadTimeout is applied as the read deadline of every Receive call. Zero blocks forever.
	ReadTimeout time.Duration
	// Broadcast enables SO_BROADCAST on the descriptor.
	Broadcast bool
	// TTL sets the IPv4 unicast hop limit when positive.
	TTL int
}

type Socket struct {
	conn      *net.UDPConn
	config    SocketConfig
	localAddr Endpoint
	closeOnce sync.Once
	closeErr  error
}
