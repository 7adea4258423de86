package network

import (
	"fmt"
	"time"
)

// NewDatagram copies payload into a Datagram, rejecting anything over max bytes.
func NewDatagram(payload []byte, peer Endpoint, max int) (Datagram, error) {
	if max <= 0 {
		max = DefaultMaxDatagram
	}
	if len(payload) > max {
		return Datagram{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrDatagramTooLarge, len(payload), max)
	}

	buf := make([]byte, len(payload))
	copy(buf, payload)
	return Datagram{
		Payload: buf,
		Peer:    peer,
		At:      time.Now(),
	}, nil
}

func (d Datagram) Len() int {
	return len(d.Payload)
}
