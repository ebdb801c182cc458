package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorInvalidArgument, "invalid_argument"},
		{ErrorProcessing, "processing"},
		{ErrorTransport, "transport"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsInvalidArgument(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"nil values", ErrNilValues, true},
		{"empty batch", ErrEmptyBatch, true},
		{"bad tuple ref", ErrBadTupleRef, true},
		{"wrapped nil values", fmt.Errorf("emit: %w", ErrNilValues), true},
		{"transport closed", ErrClosed, false},
		{"plain error", errors.New("boom"), false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalidArgument, Err: errors.New("x")}, true},
		{"classified processing", &ClassifiedError{Class: ErrorProcessing, Err: errors.New("x")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalidArgument(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsTransport(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"closed", ErrClosed, true},
		{"missing handshake", ErrMissingHandshake, true},
		{"bad frame", ErrBadFrame, true},
		{"wrapped closed", fmt.Errorf("read: %w", ErrClosed), true},
		{"nil values", ErrNilValues, false},
		{"classified transport", &ClassifiedError{Class: ErrorTransport, Err: errors.New("x")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsTransport(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	if IsFatal(nil) {
		t.Error("nil error should not be fatal")
	}
	if IsFatal(ErrNilValues) {
		t.Error("invalid-argument errors are never fatal")
	}
	if !IsFatal(ErrClosed) {
		t.Error("transport errors are fatal")
	}
	if !IsFatal(errors.New("user code blew up")) {
		t.Error("unknown errors are fatal")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"invalid argument", ErrNilValues, ErrorInvalidArgument},
		{"transport", ErrClosed, ErrorTransport},
		{"unknown defaults to processing", errors.New("boom"), ErrorProcessing},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWrapHelpers(t *testing.T) {
	base := errors.New("underlying")

	err := WrapProcessing(base, "engine", "Run", "dispatch tuple")
	if err == nil {
		t.Fatal("expected non-nil wrapped error")
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should unwrap to the original")
	}
	if !IsProcessing(err) {
		t.Error("WrapProcessing should classify as processing")
	}

	expected := "engine.Run: dispatch tuple failed: underlying"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	if WrapTransport(nil, "c", "m", "a") != nil {
		t.Error("wrapping nil should return nil")
	}
	if !IsTransport(WrapTransport(base, "conn", "ReadTuple", "decode frame")) {
		t.Error("WrapTransport should classify as transport")
	}
	if !IsInvalidArgument(WrapInvalidArgument(base, "collector", "Emit", "validate values")) {
		t.Error("WrapInvalidArgument should classify as invalid argument")
	}
}

func TestClassifiedError_Message(t *testing.T) {
	ce := &ClassifiedError{Class: ErrorProcessing, Err: errors.New("inner"), Message: "outer"}
	if ce.Error() != "outer" {
		t.Errorf("message should take precedence, got %q", ce.Error())
	}

	ce = &ClassifiedError{Class: ErrorProcessing, Err: errors.New("inner")}
	if ce.Error() != "inner" {
		t.Errorf("should fall back to inner error, got %q", ce.Error())
	}
}
