// Package chat runs one two-party chat session over UDP.
//
// A session owns a single net.PacketConn shared by two goroutines: the
// receiver blocks in ReadFrom, decodes frames, drives the handshake
// coordinator and surfaces decrypted messages; the sender blocks on user
// input, announces the local public key until a peer is known and then
// encrypts each line for that peer. The discovered peer crosses from the
// receiver to the sender exactly once, over the coordinator's handoff
// channel.
//
// Delivery is best effort. Malformed datagrams, frames for other recipients
// and messages that fail authentication are dropped without any reply.
// There is no receive timeout: a peer that never speaks leaves the receiver
// waiting until the session is quit or its context is cancelled.
//
// Either side ends the session by sending the quit token. Run reports how the
// session ended as a Termination instead of exiting the process.
package chat
