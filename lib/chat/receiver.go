package chat

import (
	"errors"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/udpchat/udpchat/lib/crypto"
	"github.com/udpchat/udpchat/lib/frame"
	"github.com/udpchat/udpchat/lib/handshake"
	"github.com/udpchat/udpchat/lib/util/logger"
)

// receiveLoop reads datagrams until a remote quit or the socket closes.
// Per-datagram problems never leave this loop.
func (s *Session) receiveLoop() (Termination, error) {
	// one byte past the limit so oversized datagrams are seen, not truncated
	buf := make([]byte, s.maxDatagram+1)
	for {
		n, addr, err := s.conn.ReadFrom(buf)
		if err != nil {
			if s.isClosed() || errors.Is(err, net.ErrClosed) {
				return Termination{Reason: Cancelled}, nil
			}
			return Termination{}, &TransportError{Op: "receive", Addr: s.conn.LocalAddr().String(), Err: err}
		}
		if term, done := s.handleDatagram(buf[:n], addr); done {
			return term, nil
		}
	}
}

// handleDatagram processes one datagram and reports whether the session is
// over.
func (s *Session) handleDatagram(data []byte, addr net.Addr) (Termination, bool) {
	if sameEndpoint(s.conn.LocalAddr(), addr) {
		return Termination{}, false
	}

	if len(data) > s.maxDatagram {
		s.logDrop(addr, len(data), ErrDatagramTooLarge)
		return Termination{}, false
	}

	f, err := frame.Decode(data)
	if err != nil {
		s.logDrop(addr, len(data), err)
		return Termination{}, false
	}

	if s.coord.State() == handshake.AwaitingPeer {
		if peer, ok := s.coord.Observe(addr, f); ok {
			s.recvKey = crypto.Precompute(peer.PublicKey, s.keys.Secret)
		}
		return Termination{}, false
	}

	if !s.coord.Accepts(f) {
		log.WithFields(logger.Fields{
			"from": addr.String(),
			"kind": f.Kind.String(),
		}).Debug("Ignoring frame not addressed to us")
		return Termination{}, false
	}

	plaintext, err := s.open(f)
	if err != nil {
		log.WithError(err).WithField("from", addr.String()).Debug("Failed to open message")
		s.out.Warn("received a message that could not be decrypted")
		return Termination{}, false
	}
	if !utf8.Valid(plaintext) {
		log.WithField("from", addr.String()).Debug("Dropping message with invalid UTF-8")
		return Termination{}, false
	}

	msg := string(plaintext)
	if strings.TrimSpace(msg) == s.quitToken {
		s.out.Info("Chat session has been terminated")
		return Termination{Reason: RemoteQuit}, true
	}
	s.out.Chat(msg)
	return Termination{}, false
}

// open decrypts with the key named in the frame. The discovered peer's
// shared key is cached; any other sender is opened directly.
func (s *Session) open(f *frame.Frame) ([]byte, error) {
	if peer, ok := s.coord.Peer(); ok && f.Src == peer.PublicKey && s.recvKey != nil {
		return s.recvKey.Open(f.Ciphertext, f.Nonce)
	}
	return crypto.Decrypt(f.Ciphertext, f.Nonce, f.Src, s.keys.Secret)
}

func (s *Session) logDrop(addr net.Addr, size int, err error) {
	if !s.dropLog.Allow() {
		return
	}
	log.WithError(err).WithFields(logger.Fields{
		"from": addr.String(),
		"size": size,
	}).Debug("Dropping malformed datagram")
}
