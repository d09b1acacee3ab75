package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrMessageTooLarge is returned when an encrypted line does not fit in
	// one datagram. The line is not sent; the session continues.
	ErrMessageTooLarge = errors.New("message too large for one datagram")

	// ErrDatagramTooLarge marks an inbound datagram over the configured limit.
	// It is dropped, never decrypted.
	ErrDatagramTooLarge = errors.New("datagram exceeds maximum size")

	ErrNoInput  = errors.New("no input reader configured")
	ErrNoOutput = errors.New("no output printer configured")
)

// TransportError is a fatal socket failure: bind, send or receive.
type TransportError struct {
	Op   string
	Addr string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("udp %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("udp %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
