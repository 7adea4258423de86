package network

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

var (
	ErrInvalidEndpoint    = errors.New("invalid endpoint")
	ErrAddressInUse       = errors.New("address already in use")
	ErrNetworkUnreachable = errors.New("network unreachable")
	ErrConnectionRefused  = errors.New("connection refused")
	ErrTimeout            = errors.New("timeout")
	ErrSocketClosed       = errors.New("socket closed")
	ErrDatagramTooLarge   = errors.New("datagram too large")
)

var taxonomy = []error{
	ErrInvalidEndpoint,
	ErrAddressInUse,
	ErrNetworkUnreachable,
	ErrConnectionRefused,
	ErrTimeout,
	ErrSocketClosed,
	ErrDatagramTooLarge,
}

// Classify tags err with one of the package sentinels. The original error stays
// in the chain so both match with errors.Is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range taxonomy {
		if errors.Is(err, kind) {
			return err
		}
	}
	if errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrSocketClosed, err)
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if kind := errnoKind(errno); kind != nil {
			return fmt.Errorf("%w: %w", kind, err)
		}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

// IsTransient reports whether a send failure should be logged and retried on
// the next tick rather than ending the loop.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetworkUnreachable) ||
		errors.Is(err, ErrConnectionRefused) ||
		errors.Is(err, ErrTimeout)
}
