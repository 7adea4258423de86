//go:build unix

package network

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func errnoKind(errno syscall.Errno) error {
	switch errno {
	case unix.EADDRINUSE:
		return ErrAddressInUse
	case unix.EADDRNOTAVAIL:
		return ErrInvalidEndpoint
	case unix.ENETUNREACH, unix.EHOSTUNREACH, unix.ENETDOWN, unix.EHOSTDOWN:
		return ErrNetworkUnreachable
	case unix.ECONNREFUSED:
		return ErrConnectionRefused
	case unix.ETIMEDOUT, unix.EAGAIN:
		return ErrTimeout
	}
	return nil
}

func enableBroadcast(c syscall.RawConn) error {
	var serr error
	err := c.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return serr
}
