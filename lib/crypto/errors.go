package crypto

import (
	"errors"
	"fmt"
)

// Sentinels are plain errors so errors.Is works by identity through any
// oops wrapper added by callers.
var (
	// ErrAuthFailure is returned when a ciphertext fails MAC verification.
	ErrAuthFailure = errors.New("message authentication failed")

	// ErrCiphertextTooShort is returned for ciphertexts that cannot even hold
	// the MAC. It matches ErrAuthFailure with errors.Is.
	ErrCiphertextTooShort = fmt.Errorf("%w: ciphertext shorter than %d-byte MAC", ErrAuthFailure, Overhead)

	ErrInvalidKeyLength = errors.New("invalid key length")
)
