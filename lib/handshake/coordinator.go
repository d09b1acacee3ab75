// Package handshake turns inbound frames into a discovered peer exactly once.
//
// A Coordinator starts in AwaitingPeer. The first frame it observes, from any
// address, names the peer: the frame's source key and the datagram's source
// address become the session's PeerInfo, which is published on the handoff
// channel, and the coordinator moves to PeerKnown for the rest of the
// session. There is no authentication beyond that: whoever reaches the
// rendezvous address first is trusted.
package handshake

import (
	"fmt"
	"net"
	"sync/atomic"

	"github.com/udpchat/udpchat/lib/crypto"
	"github.com/udpchat/udpchat/lib/frame"
	"github.com/udpchat/udpchat/lib/util/logger"
)

var log = logger.GetLogger()

type State int32

const (
	AwaitingPeer State = iota
	PeerKnown
)

func (s State) String() string {
	switch s {
	case AwaitingPeer:
		return "awaiting-peer"
	case PeerKnown:
		return "peer-known"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// PeerInfo is immutable once published.
type PeerInfo struct {
	Addr      net.Addr
	PublicKey crypto.PublicKey
}

func (p PeerInfo) String() string {
	return fmt.Sprintf("%s (%s)", p.Addr, p.PublicKey.Fingerprint())
}

// Coordinator is driven by a single receiving goroutine. State and Peer may
// be read from any goroutine.
type Coordinator struct {
	local   crypto.PublicKey
	state   atomic.Int32
	peer    PeerInfo
	handoff chan PeerInfo
}

func NewCoordinator(local crypto.PublicKey) *Coordinator {
	return &Coordinator{
		local:   local,
		handoff: make(chan PeerInfo, 1),
	}
}

func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Peer returns the discovered peer once the coordinator is in PeerKnown.
func (c *Coordinator) Peer() (PeerInfo, bool) {
	if c.State() != PeerKnown {
		return PeerInfo{}, false
	}
	return c.peer, true
}

// Handoff is the channel the sender drains to learn the peer.
func (c *Coordinator) Handoff() <-chan PeerInfo {
	return c.handoff
}

// Observe offers a frame received from addr as a discovery candidate. It
// returns the new PeerInfo and true only on the transition to PeerKnown;
// afterwards every call is a no-op.
func (c *Coordinator) Observe(addr net.Addr, f *frame.Frame) (PeerInfo, bool) {
	if c.State() == PeerKnown {
		return PeerInfo{}, false
	}

	c.peer = PeerInfo{Addr: addr, PublicKey: f.Src}
	c.state.Store(int32(PeerKnown))
	c.publish(c.peer)

	log.WithFields(logger.Fields{
		"peer_addr":  addr.String(),
		"peer_key":   f.Src.Fingerprint(),
		"frame_kind": f.Kind.String(),
		"local_key":  c.local.Fingerprint(),
	}).Info("Discovered chat peer")
	return c.peer, true
}

// Accepts reports whether f should be decrypted: only message frames
// addressed to the local key, and only after discovery. Everything else is
// traffic for someone else and is dropped silently.
func (c *Coordinator) Accepts(f *frame.Frame) bool {
	if c.State() != PeerKnown || f.IsAnnounce() {
		return false
	}
	return f.Dst == c.local
}

// publish never blocks the receiver. The channel only ever needs to hold the
// single discovery event.
func (c *Coordinator) publish(p PeerInfo) {
	select {
	case c.handoff <- p:
	default:
		log.WithField("peer_addr", p.Addr.String()).Debug("Handoff already pending")
	}
}

// Poll drains the handoff channel without blocking.
func Poll(ch <-chan PeerInfo) (PeerInfo, bool) {
	select {
	case p := <-ch:
		return p, true
	default:
		return PeerInfo{}, false
	}
}
