package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustKeyPair(t *testing.T) KeyPair {
	t.Helper()
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	return kp
}

func mustNonce(t *testing.T) Nonce {
	t.Helper()
	n, err := GenerateNonce()
	require.NoError(t, err)
	return n
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	alice, bob := mustKeyPair(t), mustKeyPair(t)

	messages := [][]byte{
		[]byte("hello"),
		{},
		[]byte("multi\nline\nmessage"),
		bytes.Repeat([]byte{0x00, 0xff}, 512),
		[]byte("привет, мир"),
	}
	for _, m := range messages {
		n := mustNonce(t)
		c := Encrypt(m, n, bob.Public, alice.Secret)
		assert.Len(t, c, len(m)+Overhead)

		got, err := Decrypt(c, n, alice.Public, bob.Secret)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(m, got), "round trip mismatch for %q", m)
	}
}

func TestEncryptIsDeterministic(t *testing.T) {
	alice, bob := mustKeyPair(t), mustKeyPair(t)
	n := mustNonce(t)

	c1 := Encrypt([]byte("same"), n, bob.Public, alice.Secret)
	c2 := Encrypt([]byte("same"), n, bob.Public, alice.Secret)
	assert.Equal(t, c1, c2)
}

func TestFreshNoncesGiveDistinctCiphertexts(t *testing.T) {
	alice, bob := mustKeyPair(t), mustKeyPair(t)
	n1, n2 := mustNonce(t), mustNonce(t)
	require.NotEqual(t, n1, n2)

	c1 := Encrypt([]byte("same"), n1, bob.Public, alice.Secret)
	c2 := Encrypt([]byte("same"), n2, bob.Public, alice.Secret)
	assert.NotEqual(t, c1, c2)
}

func TestDecryptRejectsSingleBitFlips(t *testing.T) {
	alice, bob := mustKeyPair(t), mustKeyPair(t)
	n := mustNonce(t)
	msg := []byte("attack at dawn")
	c := Encrypt(msg, n, bob.Public, alice.Secret)

	t.Run("ciphertext", func(t *testing.T) {
		for i := 0; i < len(c)*8; i++ {
			tampered := append([]byte(nil), c...)
			tampered[i/8] ^= 1 << (i % 8)
			got, err := Decrypt(tampered, n, alice.Public, bob.Secret)
			require.ErrorIs(t, err, ErrAuthFailure, "bit %d", i)
			assert.Nil(t, got)
		}
	})

	t.Run("nonce", func(t *testing.T) {
		for i := 0; i < NonceSize*8; i++ {
			bad := n
			bad[i/8] ^= 1 << (i % 8)
			_, err := Decrypt(c, bad, alice.Public, bob.Secret)
			require.ErrorIs(t, err, ErrAuthFailure, "bit %d", i)
		}
	})

	t.Run("sender public key", func(t *testing.T) {
		// Bit 255 is masked by X25519, so only the low 255 bits are
		// meaningful in a Montgomery u-coordinate.
		for i := 0; i < 255; i++ {
			bad := alice.Public
			bad[i/8] ^= 1 << (i % 8)
			_, err := Decrypt(c, n, bad, bob.Secret)
			require.ErrorIs(t, err, ErrAuthFailure, "bit %d", i)
		}
	})

	t.Run("recipient secret key", func(t *testing.T) {
		// Clamping ignores bits 0-2 and 255 and forces bit 254.
		for i := 3; i < 254; i++ {
			bad := bob.Secret
			bad[i/8] ^= 1 << (i % 8)
			_, err := Decrypt(c, n, alice.Public, bad)
			require.ErrorIs(t, err, ErrAuthFailure, "bit %d", i)
		}
	})
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	alice, bob := mustKeyPair(t), mustKeyPair(t)
	n := mustNonce(t)

	for l := 0; l < Overhead; l++ {
		_, err := Decrypt(make([]byte, l), n, alice.Public, bob.Secret)
		assert.ErrorIs(t, err, ErrCiphertextTooShort)
		assert.ErrorIs(t, err, ErrAuthFailure)
	}
}

func TestDecryptWrongRecipient(t *testing.T) {
	alice, bob, eve := mustKeyPair(t), mustKeyPair(t), mustKeyPair(t)
	n := mustNonce(t)
	c := Encrypt([]byte("for bob only"), n, bob.Public, alice.Secret)

	_, err := Decrypt(c, n, alice.Public, eve.Secret)
	assert.True(t, errors.Is(err, ErrAuthFailure))
}

func TestPrecomputeMatchesEncrypt(t *testing.T) {
	alice, bob := mustKeyPair(t), mustKeyPair(t)
	n := mustNonce(t)
	msg := []byte("precomputed")

	aliceShared := Precompute(bob.Public, alice.Secret)
	bobShared := Precompute(alice.Public, bob.Secret)
	assert.Equal(t, *aliceShared, *bobShared)

	sealed := aliceShared.Seal(msg, n)
	assert.Equal(t, Encrypt(msg, n, bob.Public, alice.Secret), sealed)

	opened, err := bobShared.Open(sealed, n)
	require.NoError(t, err)
	assert.Equal(t, msg, opened)

	sealed[0] ^= 0x01
	_, err = bobShared.Open(sealed, n)
	assert.ErrorIs(t, err, ErrAuthFailure)

	_, err = bobShared.Open([]byte("short"), n)
	assert.ErrorIs(t, err, ErrCiphertextTooShort)
}
