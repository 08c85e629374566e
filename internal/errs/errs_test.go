package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKindsMatchSentinels(t *testing.T) {
	cause := errors.New("module not found")
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"config", NewConfigError("not a mapping: %T", 5), ErrConfig},
		{"missing", NewMissingSpecError("add"), ErrMissingSpec},
		{"resolution", NewResolutionError("a", "geo.Point", cause), ErrResolution},
		{"mismatch", &SpecMismatchError{Func: "add", Missing: []string{"b"}}, ErrSpecMismatch},
		{"type", NewTypeError("a", "int", "string"), ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("decorating: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", wrapped, tt.sentinel)
			}
			if errors.Is(wrapped, ErrType) != (tt.sentinel == ErrType) {
				t.Errorf("%v unexpectedly matched ErrType", wrapped)
			}
		})
	}
}

func TestResolutionErrorUnwraps(t *testing.T) {
	cause := errors.New("no such member")
	err := NewResolutionError("p", "geometry.Pointt", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "geometry.Pointt") || !strings.Contains(err.Error(), "p") {
		t.Errorf("message lacks reference or param: %s", err)
	}
}

func TestTypeErrorMessage(t *testing.T) {
	err := NewTypeError("x", "int", "string")
	want := "Wrong type for x: expected: int, actual: string."
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}

	var te *TypeError
	if !errors.As(fmt.Errorf("call: %w", err), &te) || te.Param != "x" {
		t.Errorf("errors.As did not recover the TypeError")
	}
}

func TestSpecMismatchMessage(t *testing.T) {
	err := &SpecMismatchError{Func: "add", Unexpected: []string{"c"}, Missing: []string{"b"}}
	msg := err.Error()
	if !strings.Contains(msg, "unexpected c") || !strings.Contains(msg, "missing b") {
		t.Errorf("unexpected message: %s", msg)
	}
}
