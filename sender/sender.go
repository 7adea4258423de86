// Package sender periodically transmits a payload to a remote endpoint.
package sender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"UDPBeat/event"
	"UDPBeat/network"

	"github.com/sirupsen/logrus"
)

// SeqToken in a payload is replaced by the 0-based send counter.
const SeqToken = "{seq}"

type Sender struct {
	sock      *network.Socket
	log       *logrus.Logger
	events    *event.Log
	timeout   time.Duration
	broadcast bool
	ttl       int
	maxSize   int
	count     uint64

	sent   atomic.Uint64
	failed atomic.Uint64
}

type Stats struct {
	Sent   uint64
	Failed uint64
}

type Option func(*Sender)

// WithTimeout sets the socket receive timeout. The send loop never reads.
func WithTimeout(d time.Duration) Option {
	return func(s *Sender) { s.timeout = d }
}

func WithBroadcast(enabled bool) Option {
	return func(s *Sender) { s.broadcast = enabled }
}

func WithTTL(ttl int) Option {
	return func(s *Sender) { s.ttl = ttl }
}

func WithMaxDatagram(n int) Option {
	return func(s *Sender) { s.maxSize = n }
}

// WithCount stops Run after n sends. Zero sends forever.
func WithCount(n uint64) Option {
	return func(s *Sender) { s.count = n }
}

func WithLogger(l *logrus.Logger) Option {
	return func(s *Sender) { s.log = l }
}

func WithEvents(l *event.Log) Option {
	return func(s *Sender) { s.events = l }
}

// New opens the sender socket.
func New(opts ...Option) (*Sender, error) {
	s := &Sender{
		log:     logrus.StandardLogger(),
		timeout: time.Second,
		maxSize: network.DefaultMaxDatagram,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.events == nil {
		s.events = event.NewLog(os.Stdout, event.RenderBytes)
	}

	sock, err := network.Open(network.SocketConfig{
		BufferSize:  s.maxSize,
		ReadTimeout: s.timeout,
		Broadcast:   s.broadcast,
		TTL:         s.ttl,
	})
	if err != nil {
		return nil, err
	}
	s.sock = sock
	return s, nil
}

// Run sends payload to remote, then sleeps for interval, until ctx is
// cancelled. Send failures are logged and the loop goes on; only a closed
// socket ends it with an error. A payload whose largest {seq} expansion can
// exceed the max is rejected before the first send.
func (s *Sender) Run(ctx context.Context, remote network.Endpoint, payload []byte, interval time.Duration) error {
	defer s.sock.Close()

	if interval <= 0 {
		return fmt.Errorf("invalid interval %s", interval)
	}
	if _, err := network.NewEndpoint(remote.Host, remote.Port); err != nil {
		return err
	}
	if _, err := remote.UDPAddr(); err != nil {
		return err
	}
	templated := bytes.Contains(payload, []byte(SeqToken))
	if n := s.longest(payload, templated); n > s.maxSize {
		return fmt.Errorf("%w: up to %d bytes exceeds %d", network.ErrDatagramTooLarge, n, s.maxSize)
	}

	s.log.WithFields(logrus.Fields{
		"remote":   remote.String(),
		"local":    s.sock.LocalEndpoint().String(),
		"interval": interval.String(),
	}).Info("sender started")

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for seq := uint64(0); ; seq++ {
		if ctx.Err() != nil {
			s.log.Info("sender stopped")
			return nil
		}

		msg := payload
		if templated {
			msg = Expand(payload, seq)
		}
		if err := s.send(remote, msg); err != nil {
			return err
		}

		if s.count > 0 && seq+1 >= s.count {
			return nil
		}

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			s.log.Info("sender stopped")
			return nil
		case <-timer.C:
		}
	}
}

// send returns an error only when the loop must stop.
func (s *Sender) send(remote network.Endpoint, msg []byte) error {
	ev := event.NewSend(msg, remote)
	_, err := s.sock.SendTo(remote, msg)
	if err == nil {
		s.sent.Add(1)
		s.events.Emit(ev)
		return nil
	}

	s.failed.Add(1)
	ev.Err = err
	s.events.Emit(ev)
	switch {
	case errors.Is(err, network.ErrSocketClosed), errors.Is(err, network.ErrDatagramTooLarge):
		s.log.WithError(err).Error("send failed")
		return fmt.Errorf("send loop: %w", err)
	case network.IsTransient(err):
		s.log.WithError(err).Warn("send failed, will retry")
	default:
		s.log.WithError(err).Warn("send failed")
	}
	return nil
}

// longest is the size of the biggest datagram the run can produce. The
// counter is bounded by the count when one is set.
func (s *Sender) longest(payload []byte, templated bool) int {
	if !templated {
		return len(payload)
	}
	last := uint64(math.MaxUint64)
	if s.count > 0 {
		last = s.count - 1
	}
	return len(Expand(payload, last))
}

// Expand substitutes SeqToken in payload with seq.
func Expand(payload []byte, seq uint64) []byte {
	return bytes.ReplaceAll(payload, []byte(SeqToken), []byte(strconv.FormatUint(seq, 10)))
}

func (s *Sender) LocalAddr() network.Endpoint {
	return s.sock.LocalEndpoint()
}

func (s *Sender) Stats() Stats {
	return Stats{
		Sent:   s.sent.Load(),
		Failed: s.failed.Load(),
	}
}

func (s *Sender) Close() error {
	return s.sock.Close()
}
