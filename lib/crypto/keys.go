package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/samber/oops"
	"github.com/udpchat/udpchat/lib/util/logger"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

var log = logger.GetLogger()

const (
	PublicKeySize = 32
	SecretKeySize = 32
	NonceSize     = 24
	// Overhead is the MAC length added to every ciphertext.
	Overhead = box.Overhead
)

type (
	PublicKey [PublicKeySize]byte
	SecretKey [SecretKeySize]byte
	Nonce     [NonceSize]byte
)

// KeyPair is the local endpoint's identity for one process run.
type KeyPair struct {
	Public PublicKey
	Secret SecretKey
}

// GenerateKeyPair creates a fresh Curve25519 key pair from crypto/rand.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, oops.Wrapf(err, "failed to generate Curve25519 key pair")
	}
	log.Debug("Generated new Curve25519 key pair")
	return KeyPair{Public: *pub, Secret: *priv}, nil
}

// KeyPairFromSeed deterministically derives a key pair from seed. The secret
// is the first 32 bytes of BLAKE2b-512(seed).
func KeyPairFromSeed(seed []byte) (KeyPair, error) {
	digest := blake2b.Sum512(seed)
	var kp KeyPair
	copy(kp.Secret[:], digest[:SecretKeySize])
	pub, err := DerivePublic(kp.Secret)
	if err != nil {
		return KeyPair{}, err
	}
	kp.Public = pub
	return kp, nil
}

// DerivePublic computes secret * basepoint.
func DerivePublic(secret SecretKey) (PublicKey, error) {
	out, err := curve25519.X25519(secret[:], curve25519.Basepoint)
	if err != nil {
		return PublicKey{}, oops.Wrapf(err, "failed to derive public key")
	}
	var pub PublicKey
	copy(pub[:], out)
	return pub, nil
}

// GenerateNonce returns 24 bytes from crypto/rand.
func GenerateNonce() (Nonce, error) {
	var n Nonce
	if _, err := rand.Read(n[:]); err != nil {
		return Nonce{}, oops.Wrapf(err, "failed to generate nonce")
	}
	return n, nil
}

// PublicKeyFromBytes copies b into a PublicKey, rejecting wrong lengths.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeySize {
		return pk, oops.Wrapf(ErrInvalidKeyLength, "public key is %d bytes, want %d", len(b), PublicKeySize)
	}
	copy(pk[:], b)
	return pk, nil
}

// NonceFromBytes copies b into a Nonce, rejecting wrong lengths.
func NonceFromBytes(b []byte) (Nonce, error) {
	var n Nonce
	if len(b) != NonceSize {
		return n, oops.Wrapf(ErrInvalidKeyLength, "nonce is %d bytes, want %d", len(b), NonceSize)
	}
	copy(n[:], b)
	return n, nil
}

func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}

// Fingerprint is a short, human-comparable digest of the key, e.g.
// "3f2a:91c0:07be:d412".
func (k PublicKey) Fingerprint() string {
	sum := blake2b.Sum256(k[:])
	h := hex.EncodeToString(sum[:8])
	parts := make([]string, 0, 4)
	for i := 0; i < len(h); i += 4 {
		parts = append(parts, h[i:i+4])
	}
	return strings.Join(parts, ":")
}
