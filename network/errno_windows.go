//go:build windows

package network

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func errnoKind(errno syscall.Errno) error {
	switch errno {
	case windows.WSAEADDRINUSE:
		return ErrAddressInUse
	case windows.WSAEADDRNOTAVAIL:
		return ErrInvalidEndpoint
	case windows.WSAENETUNREACH, windows.WSAEHOSTUNREACH, windows.WSAENETDOWN, windows.WSAEHOSTDOWN:
		return ErrNetworkUnreachable
	// an ICMP port unreachable shows up as a reset on the next call
	case windows.WSAECONNREFUSED, windows.WSAECONNRESET:
		return ErrConnectionRefused
	case windows.WSAETIMEDOUT:
		return ErrTimeout
	}
	return nil
}

func enableBroadcast(c syscall.RawConn) error {
	var serr error
	err := c.Control(func(fd uintptr) {
		serr = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return serr
}
