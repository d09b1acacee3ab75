package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/samber/oops"

	"github.com/udpchat/udpchat/lib/crypto"
	"github.com/udpchat/udpchat/lib/frame"
	"github.com/udpchat/udpchat/lib/handshake"
	"github.com/udpchat/udpchat/lib/util/logger"
)

type inputLine struct {
	text string
	err  error
}

// readLines moves blocking reads off the sender goroutine. The reader may
// stay blocked after the session ends until the LineReader is closed.
func (s *Session) readLines(ctx context.Context) <-chan inputLine {
	lines := make(chan inputLine)
	go func() {
		defer close(lines)
		for {
			text, err := s.in.ReadLine()
			select {
			case lines <- inputLine{text: text, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}

// peerLink is what the sender holds once discovery has happened.
type peerLink struct {
	info handshake.PeerInfo
	key  *crypto.SharedKey
}

func (s *Session) sendLoop(ctx context.Context) (Termination, error) {
	if err := s.announce(s.rendezvous); err != nil {
		return Termination{}, err
	}

	lines := s.readLines(ctx)
	var peer *peerLink

	for {
		select {
		case <-ctx.Done():
			return Termination{Reason: Cancelled}, nil

		case info := <-s.coord.Handoff():
			var err error
			if peer, err = s.adoptPeer(peer, info); err != nil {
				return Termination{}, err
			}

		case in, ok := <-lines:
			if !ok {
				return Termination{Reason: Cancelled}, nil
			}
			if in.err != nil {
				if errors.Is(in.err, io.EOF) {
					log.Debug("Input closed")
					return Termination{Reason: InputClosed}, nil
				}
				return Termination{}, oops.Wrapf(in.err, "failed to read input")
			}

			if peer == nil {
				if info, found := handshake.Poll(s.coord.Handoff()); found {
					var err error
					if peer, err = s.adoptPeer(peer, info); err != nil {
						return Termination{}, err
					}
				}
			}

			term, done, err := s.handleLine(peer, in.text)
			if err != nil || done {
				return term, err
			}
		}
	}
}

// adoptPeer finishes discovery on the sending side: it keeps the shared key
// and answers with an announce so the remote coordinator learns us too.
func (s *Session) adoptPeer(current *peerLink, info handshake.PeerInfo) (*peerLink, error) {
	if current != nil {
		return current, nil
	}
	link := &peerLink{
		info: info,
		key:  crypto.Precompute(info.PublicKey, s.keys.Secret),
	}
	if err := s.announce(info.Addr); err != nil {
		return nil, err
	}
	s.out.Info(fmt.Sprintf("Chat mate found at %s, key %s", info.Addr, info.PublicKey.Fingerprint()))
	return link, nil
}

func (s *Session) handleLine(peer *peerLink, line string) (Termination, bool, error) {
	text := strings.TrimSpace(line)
	quit := text == s.quitToken

	if peer == nil {
		if quit {
			s.out.Info("Bye Bye!")
			return Termination{Reason: LocalQuit}, true, nil
		}
		if err := s.announce(s.rendezvous); err != nil {
			return Termination{}, true, err
		}
		s.out.Info("Waiting for chat mate, message not sent")
		return Termination{}, false, nil
	}

	if text == "" {
		return Termination{}, false, nil
	}

	if err := s.sendMessage(peer, text); err != nil {
		if errors.Is(err, ErrMessageTooLarge) {
			log.WithError(err).Debug("Refusing oversized message")
			s.out.Warn("message too long, not sent")
			return Termination{}, false, nil
		}
		return Termination{}, true, err
	}

	if quit {
		s.out.Info("Bye Bye!")
		return Termination{Reason: LocalQuit}, true, nil
	}
	return Termination{}, false, nil
}

func (s *Session) sendMessage(peer *peerLink, text string) error {
	nonce, err := crypto.GenerateNonce()
	if err != nil {
		return oops.Wrapf(err, "failed to create nonce")
	}
	ciphertext := peer.key.Seal([]byte(text), nonce)
	f := frame.NewMessage(s.keys.Public, peer.info.PublicKey, nonce, ciphertext)
	if size := f.Size(); size > s.maxDatagram {
		return oops.Wrapf(ErrMessageTooLarge, "frame is %d bytes, limit %d", size, s.maxDatagram)
	}

	if err := s.writeTo(frame.Encode(f), peer.info.Addr); err != nil {
		return err
	}
	log.WithFields(logger.Fields{
		"to":   peer.info.Addr.String(),
		"size": f.Size(),
	}).Debug("Sent message")
	return nil
}

func (s *Session) announce(to net.Addr) error {
	if err := s.writeTo(frame.Encode(frame.NewAnnounce(s.keys.Public)), to); err != nil {
		return err
	}
	log.WithField("to", to.String()).Debug("Sent announce")
	return nil
}
