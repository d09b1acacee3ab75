package crypto

import (
	"golang.org/x/crypto/nacl/box"

	"github.com/udpchat/udpchat/lib/util/logger"
)

// Encrypt seals plaintext for peer using the local secret key. The result is
// len(plaintext)+Overhead bytes and is deterministic for identical inputs, so
// callers must never reuse a nonce.
func Encrypt(plaintext []byte, nonce Nonce, peer PublicKey, local SecretKey) []byte {
	return box.Seal(nil, plaintext,
		(*[NonceSize]byte)(&nonce),
		(*[PublicKeySize]byte)(&peer),
		(*[SecretKeySize]byte)(&local))
}

// Decrypt opens a ciphertext produced by Encrypt. It fails closed: on any
// error no plaintext is returned.
func Decrypt(ciphertext []byte, nonce Nonce, peer PublicKey, local SecretKey) ([]byte, error) {
	if len(ciphertext) < Overhead {
		return nil, ErrCiphertextTooShort
	}
	plaintext, ok := box.Open(nil, ciphertext,
		(*[NonceSize]byte)(&nonce),
		(*[PublicKeySize]byte)(&peer),
		(*[SecretKeySize]byte)(&local))
	if !ok {
		log.WithField("ciphertext_length", len(ciphertext)).Debug("box open failed")
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}

// SharedKey is the precomputed box key for one peer. Seal and Open produce
// the same bytes as Encrypt and Decrypt without repeating the scalar
// multiplication on every message.
type SharedKey [32]byte

func Precompute(peer PublicKey, local SecretKey) *SharedKey {
	var k SharedKey
	box.Precompute((*[32]byte)(&k), (*[PublicKeySize]byte)(&peer), (*[SecretKeySize]byte)(&local))
	log.WithFields(logger.Fields{"peer": peer.Fingerprint()}).Debug("Precomputed shared key")
	return &k
}

func (k *SharedKey) Seal(plaintext []byte, nonce Nonce) []byte {
	return box.SealAfterPrecomputation(nil, plaintext, (*[NonceSize]byte)(&nonce), (*[32]byte)(k))
}

func (k *SharedKey) Open(ciphertext []byte, nonce Nonce) ([]byte, error) {
	if len(ciphertext) < Overhead {
		return nil, ErrCiphertextTooShort
	}
	plaintext, ok := box.OpenAfterPrecomputation(nil, ciphertext, (*[NonceSize]byte)(&nonce), (*[32]byte)(k))
	if !ok {
		return nil, ErrAuthFailure
	}
	return plaintext, nil
}
