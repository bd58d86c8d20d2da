package rigor

import (
	"errors"

	"github.com/pthm/rigor/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// Envelope is an alias for encoding.Envelope, the wire form of a bus
// message relayed between hosts.
type Envelope = encoding.Envelope

// NewEncoder creates a new encoder with the given signing key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// WrapDecodeError maps encoding package errors onto the rigor sentinels.
func WrapDecodeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidFormat) {
		return ErrInvalidFormat
	}
	if errors.Is(err, encoding.ErrSignatureInvalid) {
		return ErrSignatureInvalid
	}
	if errors.Is(err, encoding.ErrDecryptFailed) {
		return ErrDecryptFailed
	}
	return err
}
