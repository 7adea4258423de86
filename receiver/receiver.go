// Package receiver binds a local UDP endpoint and logs every datagram it sees.
package receiver

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"UDPBeat/event"
	"UDPBeat/network"

	"github.com/sirupsen/logrus"
)

type Receiver struct {
	sock    *network.Socket
	log     *logrus.Logger
	events  *event.Log
	handler func(network.Datagram)
	maxSize int

	datagrams atomic.Uint64
	bytes     atomic.Uint64
}

type Stats struct {
	Datagrams uint64
	Bytes     uint64
}

type Option func(*Receiver)

// WithMaxDatagram sets the receive buffer size.
func WithMaxDatagram(n int) Option {
	return func(r *Receiver) { r.maxSize = n }
}

func WithLogger(l *logrus.Logger) Option {
	return func(r *Receiver) { r.log = l }
}

func WithEvents(l *event.Log) Option {
	return func(r *Receiver) { r.events = l }
}

// WithHandler registers a callback run after each datagram is logged.
func WithHandler(h func(network.Datagram)) Option {
	return func(r *Receiver) { r.handler = h }
}

// New binds ep. It fails with network.ErrAddressInUse or
// network.ErrInvalidEndpoint when the endpoint cannot be bound.
func New(ep network.Endpoint, opts ...Option) (*Receiver, error) {
	r := &Receiver{
		log:     logrus.StandardLogger(),
		maxSize: network.DefaultMaxDatagram,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.events == nil {
		r.events = event.NewLog(os.Stdout, event.RenderBytes)
	}

	sock, err := network.Bind(ep, network.SocketConfig{BufferSize: r.maxSize})
	if err != nil {
		return nil, err
	}
	r.sock = sock
	return r, nil
}

// Run receives until ctx is cancelled or the socket fails. Cancellation is a
// clean shutdown and returns nil. The socket is closed on every return.
func (r *Receiver) Run(ctx context.Context) error {
	defer r.sock.Close()
	stop := context.AfterFunc(ctx, func() {
		r.sock.Close()
	})
	defer stop()

	r.log.WithFields(logrus.Fields{
		"addr": r.Addr().String(),
		"max":  r.maxSize,
	}).Info("receiver listening")

	for {
		d, err := r.sock.Receive()
		if err != nil {
			if ctx.Err() != nil {
				r.log.Info("receiver stopped")
				return nil
			}
			r.log.WithError(err).Error("receive failed")
			return fmt.Errorf("receive loop: %w", err)
		}

		r.datagrams.Add(1)
		r.bytes.Add(uint64(d.Len()))
		r.events.Emit(event.NewRecv(d))
		if r.handler != nil {
			r.handler(d)
		}
	}
}

func (r *Receiver) Addr() network.Endpoint {
	return r.sock.LocalEndpoint()
}

func (r *Receiver) Stats() Stats {
	return Stats{
		Datagrams: r.datagrams.Load(),
		Bytes:     r.bytes.Load(),
	}
}

func (r *Receiver) Close() error {
	return r.sock.Close()
}
