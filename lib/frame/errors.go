package frame

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewFields  = errors.New("too few fields in frame")
	ErrInvalidLength = errors.New("invalid frame field length")
)

// FrameError describes why a datagram could not be decoded. errors.Is
// matches it against ErrTooFewFields or ErrInvalidLength.
type FrameError struct {
	Err   error
	Field string
	Got   int
	Want  int
}

func (e *FrameError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: got %d, want %d", e.Err, e.Got, e.Want)
	}
	return fmt.Sprintf("%s: %s is %d bytes, want %d", e.Err, e.Field, e.Got, e.Want)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

func tooFewFields(got, want int) *FrameError {
	return &FrameError{Err: ErrTooFewFields, Got: got, Want: want}
}

func invalidLength(field string, got, want int) *FrameError {
	return &FrameError{Err: ErrInvalidLength, Field: field, Got: got, Want: want}
}
