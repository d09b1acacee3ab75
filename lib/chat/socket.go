package chat

import (
	"errors"
	"net"
	"syscall"

	"github.com/udpchat/udpchat/lib/util/logger"
)

// Listen binds a UDP socket on address. If the address is already in use it
// falls back once to an OS-assigned port on the same host, so two instances
// started with the same settings on one machine can talk to each other.
func Listen(address string) (net.PacketConn, error) {
	conn, err := net.ListenPacket("udp", address)
	if err == nil {
		return conn, nil
	}
	if !errors.Is(err, syscall.EADDRINUSE) {
		return nil, &TransportError{Op: "bind", Addr: address, Err: err}
	}

	host, _, splitErr := net.SplitHostPort(address)
	if splitErr != nil {
		return nil, &TransportError{Op: "bind", Addr: address, Err: splitErr}
	}
	fallback := net.JoinHostPort(host, "0")
	conn, err = net.ListenPacket("udp", fallback)
	if err != nil {
		return nil, &TransportError{Op: "bind", Addr: fallback, Err: err}
	}

	log.WithFields(logger.Fields{
		"requested": address,
		"bound":     conn.LocalAddr().String(),
	}).Info("Address in use, bound an ephemeral port instead")
	return conn, nil
}

// sameEndpoint reports whether remote is the socket's own address. A socket
// bound to the unspecified address sees its own traffic arrive from loopback.
func sameEndpoint(local, remote net.Addr) bool {
	l, lok := local.(*net.UDPAddr)
	r, rok := remote.(*net.UDPAddr)
	if !lok || !rok {
		return local.String() == remote.String()
	}
	if l.Port != r.Port {
		return false
	}
	if l.IP.Equal(r.IP) {
		return true
	}
	return (l.IP == nil || l.IP.IsUnspecified()) && r.IP.IsLoopback()
}
