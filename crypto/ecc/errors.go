package ecc

import (
	"errors"
	"fmt"
)

// ErrDecoding is the error kind matched by every *DecodingError through
// errors.Is.
var ErrDecoding = errors.New("decoding error")

// DecodingError is returned when a byte string cannot be decoded into a
// scalar, a group element or any structure built from them.
type DecodingError struct {
	What   string
	Reason string
}

// NewDecodingError returns a *DecodingError for the given element kind.
func NewDecodingError(what, format string, args ...any) *DecodingError {
	return &DecodingError{What: what, Reason: fmt.Sprintf(format, args...)}
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("cannot decode %s: %s", e.What, e.Reason)
}

// Is makes errors.Is(err, ErrDecoding) hold for any *DecodingError.
func (e *DecodingError) Is(target error) bool {
	return target == ErrDecoding
}

// CheckLength returns a *DecodingError when len(buf) differs from expected.
func CheckLength(what string, buf []byte, expected int) error {
	if len(buf) != expected {
		return NewDecodingError(what, "invalid input length: got %d bytes, expected %d bytes", len(buf), expected)
	}
	return nil
}
