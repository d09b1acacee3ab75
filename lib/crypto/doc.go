// Package crypto is the chat's encryption engine: Curve25519 key pairs,
// random 24-byte nonces and NaCl box authenticated public-key encryption
// (X25519 + XSalsa20-Poly1305), wire-compatible with libsodium's crypto_box.
//
// Key pairs are ephemeral; nothing in this package touches the disk.
package crypto
