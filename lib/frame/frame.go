// Package frame implements the chat's wire frame: one frame per datagram,
//
//	[src public key 32] '\n' [dst public key 32] '\n' [nonce 24] '\n' [ciphertext]
//
// An announce frame carries only the source key followed by '\n'.
//
// Key and nonce bytes are not escaped. A field that happens to contain '\n'
// desynchronizes the split and the frame is rejected; fixed widths make this
// rare but it is not prevented.
package frame

import (
	"bytes"

	"github.com/udpchat/udpchat/lib/crypto"
)

const (
	Delimiter = '\n'

	// MinMessageSize is the smallest well-formed message frame: three fixed
	// fields, three delimiters and an empty ciphertext. Anything shorter is
	// TooFewFields unless it is a well-formed announce.
	MinMessageSize = crypto.PublicKeySize + 1 + crypto.PublicKeySize + 1 + crypto.NonceSize + 1

	// AnnounceSize is the encoded length of an announce frame.
	AnnounceSize = crypto.PublicKeySize + 1
)

type Kind uint8

const (
	KindMessage Kind = iota
	KindAnnounce
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindAnnounce:
		return "announce"
	default:
		return "unknown"
	}
}

// Frame is the decoded content of one datagram. For announce frames only Src
// is meaningful.
type Frame struct {
	Kind       Kind
	Src        crypto.PublicKey
	Dst        crypto.PublicKey
	Nonce      crypto.Nonce
	Ciphertext []byte
}

func NewAnnounce(src crypto.PublicKey) *Frame {
	return &Frame{Kind: KindAnnounce, Src: src}
}

func NewMessage(src, dst crypto.PublicKey, nonce crypto.Nonce, ciphertext []byte) *Frame {
	return &Frame{
		Kind:       KindMessage,
		Src:        src,
		Dst:        dst,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}
}

func (f *Frame) IsAnnounce() bool {
	return f.Kind == KindAnnounce
}

// Size is the encoded length of f.
func (f *Frame) Size() int {
	if f.IsAnnounce() {
		return AnnounceSize
	}
	return MinMessageSize + len(f.Ciphertext)
}

// Encode serializes f. There is no trailing delimiter; the datagram boundary
// ends the frame.
func Encode(f *Frame) []byte {
	buf := make([]byte, 0, f.Size())
	buf = append(buf, f.Src[:]...)
	buf = append(buf, Delimiter)
	if f.IsAnnounce() {
		return buf
	}
	buf = append(buf, f.Dst[:]...)
	buf = append(buf, Delimiter)
	buf = append(buf, f.Nonce[:]...)
	buf = append(buf, Delimiter)
	buf = append(buf, f.Ciphertext...)
	return buf
}

// Decode parses one datagram. It never panics; every malformed input yields
// a *FrameError.
func Decode(b []byte) (*Frame, error) {
	fields := bytes.SplitN(b, []byte{Delimiter}, 4)

	if isAnnounceShape(fields) {
		if len(fields[0]) != crypto.PublicKeySize {
			if len(b) < MinMessageSize {
				return nil, tooFewFields(len(b), MinMessageSize)
			}
			return nil, invalidLength("source key", len(fields[0]), crypto.PublicKeySize)
		}
		f := &Frame{Kind: KindAnnounce}
		copy(f.Src[:], fields[0])
		return f, nil
	}

	if len(b) < MinMessageSize {
		return nil, tooFewFields(len(b), MinMessageSize)
	}
	if len(fields) < 4 {
		return nil, &FrameError{Err: ErrTooFewFields, Field: "fields", Got: len(fields), Want: 4}
	}

	if len(fields[0]) != crypto.PublicKeySize {
		return nil, invalidLength("source key", len(fields[0]), crypto.PublicKeySize)
	}
	if len(fields[1]) != crypto.PublicKeySize {
		return nil, invalidLength("destination key", len(fields[1]), crypto.PublicKeySize)
	}
	if len(fields[2]) != crypto.NonceSize {
		return nil, invalidLength("nonce", len(fields[2]), crypto.NonceSize)
	}

	f := &Frame{Kind: KindMessage}
	copy(f.Src[:], fields[0])
	copy(f.Dst[:], fields[1])
	copy(f.Nonce[:], fields[2])
	f.Ciphertext = append([]byte(nil), fields[3]...)
	return f, nil
}

// isAnnounceShape reports whether the key is followed by at least one
// delimiter and nothing but empty fields.
func isAnnounceShape(fields [][]byte) bool {
	if len(fields) < 2 {
		return false
	}
	for _, f := range fields[1:] {
		if len(f) != 0 {
			return false
		}
	}
	return true
}
