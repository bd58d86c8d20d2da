package rigor

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pthm/rigor/lib/encoding"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	errs := []error{
		ErrInvalidComponent,
		ErrInvalidNode,
		ErrMissingCapability,
		ErrUnknownFlavor,
		ErrInvalidFormat,
		ErrSignatureInvalid,
		ErrDecryptFailed,
	}

	for i, err1 := range errs {
		for j, err2 := range errs {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestErrorMessages(t *testing.T) {
	errs := []error{
		ErrInvalidComponent,
		ErrInvalidNode,
		ErrMissingCapability,
		ErrUnknownFlavor,
		ErrInvalidFormat,
		ErrSignatureInvalid,
		ErrDecryptFailed,
	}

	for _, err := range errs {
		if !strings.HasPrefix(err.Error(), "rigor:") {
			t.Errorf("Error %q should start with 'rigor:'", err.Error())
		}
	}
}

func TestIsInvalidComponent(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrInvalidComponent", ErrInvalidComponent, true},
		{"wrapped", fmt.Errorf("%w: demo.Broken returned nil", ErrInvalidComponent), true},
		{"ErrInvalidNode", ErrInvalidNode, false},
		{"other error", errors.New("other error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsInvalidComponent(tt.err)
			if result != tt.expect {
				t.Errorf("IsInvalidComponent(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestIsMissingCapability(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"sentinel", ErrMissingCapability, true},
		{"capability error", &CapabilityError{Name: "fetch"}, true},
		{"wrapped capability error", fmt.Errorf("mount: %w", &CapabilityError{Name: "on"}), true},
		{"ErrInvalidComponent", ErrInvalidComponent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsMissingCapability(tt.err)
			if result != tt.expect {
				t.Errorf("IsMissingCapability(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestCapabilityError_Message(t *testing.T) {
	missing := &CapabilityError{Name: "fetch"}
	if got := missing.Error(); got != `rigor: capability not provided: "fetch"` {
		t.Errorf("Error() = %q", got)
	}

	mistyped := &CapabilityError{Name: "log", Got: 42}
	if got := mistyped.Error(); got != `rigor: capability not provided: "log" has type int` {
		t.Errorf("Error() = %q", got)
	}
}

func TestRecoverCapability(t *testing.T) {
	run := func(fn func()) (err error) {
		defer recoverCapability(&err)
		fn()
		return nil
	}

	err := run(func() { panic(&CapabilityError{Name: "emit"}) })
	var ce *CapabilityError
	if !errors.As(err, &ce) || ce.Name != "emit" {
		t.Fatalf("run() error = %v, want *CapabilityError for emit", err)
	}

	if err := run(func() {}); err != nil {
		t.Errorf("run() error = %v, want nil", err)
	}

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recover() = %v, want boom to be re-raised", r)
		}
	}()
	_ = run(func() { panic("boom") })
}

func TestIsDecodeError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{"nil error", nil, false},
		{"ErrDecryptFailed", ErrDecryptFailed, true},
		{"ErrSignatureInvalid", ErrSignatureInvalid, true},
		{"ErrInvalidFormat", ErrInvalidFormat, true},
		{"wrapped ErrDecryptFailed", fmt.Errorf("wrapped: %w", ErrDecryptFailed), true},
		{"ErrMissingCapability", ErrMissingCapability, false},
		{"other error", errors.New("other error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsDecodeError(tt.err)
			if result != tt.expect {
				t.Errorf("IsDecodeError(%v) = %v, want %v", tt.err, result, tt.expect)
			}
		})
	}
}

func TestWrapDecodeError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectWrapped error
		isDecodeError bool
	}{
		{"nil error", nil, nil, false},
		{"encoding.ErrInvalidFormat", encoding.ErrInvalidFormat, ErrInvalidFormat, true},
		{"encoding.ErrSignatureInvalid", encoding.ErrSignatureInvalid, ErrSignatureInvalid, true},
		{"encoding.ErrDecryptFailed", encoding.ErrDecryptFailed, ErrDecryptFailed, true},
		{"other error passthrough", errors.New("other"), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapDecodeError(tt.err)

			if tt.expectWrapped != nil {
				if !errors.Is(result, tt.expectWrapped) {
					t.Errorf("WrapDecodeError(%v) = %v, want %v", tt.err, result, tt.expectWrapped)
				}
			}

			if IsDecodeError(result) != tt.isDecodeError {
				t.Errorf("IsDecodeError(WrapDecodeError(%v)) = %v, want %v", tt.err, !tt.isDecodeError, tt.isDecodeError)
			}
		})
	}
}
