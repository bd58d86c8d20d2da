package rigor

import (
	"errors"
	"fmt"
)

// Sentinel errors for render operations.
var (
	ErrInvalidComponent  = errors.New("rigor: component setup must return a render function")
	ErrInvalidNode       = errors.New("rigor: invalid node")
	ErrMissingCapability = errors.New("rigor: capability not provided")
	ErrUnknownFlavor     = errors.New("rigor: unknown flavor")
	ErrInvalidFormat     = errors.New("rigor: invalid message format")
	ErrSignatureInvalid  = errors.New("rigor: signature verification failed")
	ErrDecryptFailed     = errors.New("rigor: message decryption failed")
)

// CapabilityError reports a capability that a component asked for but the
// configured plugins did not provide, or provided with an unexpected type.
type CapabilityError struct {
	Name string
	Got  any
}

func (e *CapabilityError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("%v: %q", ErrMissingCapability, e.Name)
	}
	return fmt.Sprintf("%v: %q has type %T", ErrMissingCapability, e.Name, e.Got)
}

func (e *CapabilityError) Unwrap() error { return ErrMissingCapability }

// IsInvalidComponent checks if err is a component contract violation.
func IsInvalidComponent(err error) bool {
	return errors.Is(err, ErrInvalidComponent)
}

// IsMissingCapability checks if err reports an absent capability.
func IsMissingCapability(err error) bool {
	return errors.Is(err, ErrMissingCapability)
}

// IsDecodeError checks if err is a signature, decryption or format error
// from decoding a relayed message.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrDecryptFailed)
}

// recoverCapability turns a *CapabilityError panic raised by a typed
// accessor into an error return. Any other panic is re-raised.
func recoverCapability(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ce, ok := r.(*CapabilityError); ok {
		*err = ce
		return
	}
	panic(r)
}
