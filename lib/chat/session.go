package chat

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/samber/oops"
	"golang.org/x/time/rate"

	"github.com/udpchat/udpchat/lib/crypto"
	"github.com/udpchat/udpchat/lib/handshake"
	"github.com/udpchat/udpchat/lib/util/logger"
)

var log = logger.GetLogger()

const (
	DefaultQuitToken       = ":quit"
	DefaultMaxDatagramSize = 1024
)

// Session is one endpoint of a chat. Create it with NewSession and call Run
// once.
type Session struct {
	conn       net.PacketConn
	rendezvous net.Addr
	keys       crypto.KeyPair
	coord      *handshake.Coordinator

	quitToken   string
	maxDatagram int

	in  LineReader
	out Printer

	// receiver-owned
	recvKey *crypto.SharedKey

	dropLog   *rate.Limiter
	closeOnce sync.Once
	closed    chan struct{}
}

type Option func(*Session)

// WithKeyPair replaces the freshly generated key pair. Tests use it to get
// predictable identities.
func WithKeyPair(kp crypto.KeyPair) Option {
	return func(s *Session) { s.keys = kp }
}

func WithQuitToken(token string) Option {
	return func(s *Session) {
		if token != "" {
			s.quitToken = token
		}
	}
}

func WithMaxDatagramSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxDatagram = n
		}
	}
}

// NewSession wraps an already bound socket. Announces go to rendezvous until
// a peer is discovered.
func NewSession(conn net.PacketConn, rendezvous string, in LineReader, out Printer, opts ...Option) (*Session, error) {
	if in == nil {
		return nil, ErrNoInput
	}
	if out == nil {
		return nil, ErrNoOutput
	}
	addr, err := net.ResolveUDPAddr("udp", rendezvous)
	if err != nil {
		return nil, &TransportError{Op: "resolve", Addr: rendezvous, Err: err}
	}

	s := &Session{
		conn:        conn,
		rendezvous:  addr,
		quitToken:   DefaultQuitToken,
		maxDatagram: DefaultMaxDatagramSize,
		in:          in,
		out:         out,
		dropLog:     rate.NewLimiter(rate.Every(time.Second), 5),
		closed:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.keys.Public.IsZero() {
		kp, err := crypto.GenerateKeyPair()
		if err != nil {
			return nil, oops.Wrapf(err, "failed to create session identity")
		}
		s.keys = kp
	}
	s.coord = handshake.NewCoordinator(s.keys.Public)

	log.WithFields(logger.Fields{
		"local_addr": conn.LocalAddr().String(),
		"rendezvous": addr.String(),
		"public_key": s.keys.Public.Fingerprint(),
	}).Debug("Created chat session")
	return s, nil
}

func (s *Session) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

func (s *Session) PublicKey() crypto.PublicKey {
	return s.keys.Public
}

func (s *Session) State() handshake.State {
	return s.coord.State()
}

// Peer returns the discovered peer, if any.
func (s *Session) Peer() (handshake.PeerInfo, bool) {
	return s.coord.Peer()
}

type loopResult struct {
	term Termination
	err  error
}

// Run blocks until the session ends: a quit token in either direction, EOF
// on input, context cancellation or a fatal transport error. The socket is
// closed before Run returns.
func (s *Session) Run(ctx context.Context) (Termination, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.Close()

	results := make(chan loopResult, 2)
	go func() {
		term, err := s.receiveLoop()
		results <- loopResult{term, err}
	}()
	go func() {
		term, err := s.sendLoop(ctx)
		results <- loopResult{term, err}
	}()

	select {
	case r := <-results:
		if r.err != nil {
			log.WithError(r.err).Error("Chat session failed")
		} else {
			log.WithField("reason", r.term.String()).Debug("Chat session ended")
		}
		return r.term, r.err
	case <-ctx.Done():
		return Termination{Reason: Cancelled}, nil
	}
}

// Close releases the socket, which also unblocks the receiver. Safe to call
// more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closed)
		err = s.conn.Close()
	})
	return err
}

func (s *Session) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *Session) writeTo(b []byte, addr net.Addr) error {
	if _, err := s.conn.WriteTo(b, addr); err != nil {
		return &TransportError{Op: "send", Addr: addr.String(), Err: err}
	}
	return nil
}

// Run binds localBind (with the address-in-use fallback) and runs a session
// announcing to rendezvous.
func Run(ctx context.Context, localBind, rendezvous string, in LineReader, out Printer, opts ...Option) (Termination, error) {
	conn, err := Listen(localBind)
	if err != nil {
		return Termination{}, err
	}
	s, err := NewSession(conn, rendezvous, in, out, opts...)
	if err != nil {
		conn.Close()
		return Termination{}, err
	}
	return s.Run(ctx)
}
