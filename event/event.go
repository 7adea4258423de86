package event

import (
	"time"

	"UDPBeat/network"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSend Kind = "send"
	KindRecv Kind = "recv"
)

// Prefix is the column-0 marker of an event line.
func (k Kind) Prefix() string {
	return "[" + string(k) + "]"
}

// Event is the log record of one transmission or reception. It is never persisted.
type Event struct {
	ID      uuid.UUID
	Kind    Kind
	Payload []byte
	Peer    network.Endpoint
	Bytes   int
	At      time.Time
	Err     error
}

func NewSend(payload []byte, to network.Endpoint) Event {
	return Event{
		ID:      uuid.New(),
		Kind:    KindSend,
		Payload: payload,
		Peer:    to,
		Bytes:   len(payload),
		At:      time.Now(),
	}
}

func NewRecv(d network.Datagram) Event {
	at := d.At
	if at.IsZero() {
		at = time.Now()
	}
	return Event{
		ID:      uuid.New(),
		Kind:    KindRecv,
		Payload: d.Payload,
		Peer:    d.Peer,
		Bytes:   d.Len(),
		At:      at,
	}
}
