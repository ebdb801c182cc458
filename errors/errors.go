// Package errors provides standardized error handling patterns for streamparse
// workers. It includes error classification, standard error variables, and
// helper functions for consistent error wrapping across the engine.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorInvalidArgument represents errors caused by a malformed payload
	// passed to a collector operation; raised synchronously to the caller
	// and never auto-handled by the engine
	ErrorInvalidArgument ErrorClass = iota
	// ErrorProcessing represents errors raised from user bolt code
	// (Initialize, Process, ProcessBatch); always fatal to the worker
	ErrorProcessing
	// ErrorTransport represents read/write failures on the underlying
	// stream; treated exactly like processing failures (fatal)
	ErrorTransport
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorInvalidArgument:
		return "invalid_argument"
	case ErrorProcessing:
		return "processing"
	case ErrorTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Collector argument errors
	ErrNilValues   = errors.New("emit values must be a non-nil list")
	ErrEmptyBatch  = errors.New("emit batch must contain at least one tuple")
	ErrBadTupleRef = errors.New("tuple reference must be a string id or a Tuple")

	// Transport errors
	ErrClosed           = errors.New("transport closed")
	ErrMissingHandshake = errors.New("handshake not received")
	ErrBadFrame         = errors.New("malformed protocol frame")

	// Engine lifecycle errors
	ErrNilBolt     = errors.New("bolt implementation cannot be nil")
	ErrNilConn     = errors.New("transport connection cannot be nil")
	ErrBadInterval = errors.New("flush interval must be positive")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// IsInvalidArgument checks if an error is due to a malformed caller payload
func IsInvalidArgument(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorInvalidArgument
	}

	return errors.Is(err, ErrNilValues) ||
		errors.Is(err, ErrEmptyBatch) ||
		errors.Is(err, ErrBadTupleRef)
}

// IsTransport checks if an error originated at the stream boundary
func IsTransport(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransport
	}

	return errors.Is(err, ErrClosed) ||
		errors.Is(err, ErrMissingHandshake) ||
		errors.Is(err, ErrBadFrame)
}

// IsProcessing checks if an error came from user bolt code
func IsProcessing(err error) bool {
	if err == nil {
		return false
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorProcessing
	}

	return false
}

// IsFatal reports whether an error terminates the worker process.
// Everything except invalid-argument errors is fatal: the engine retries
// nothing internally and relies on the orchestrator to respawn workers.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !IsInvalidArgument(err)
}

// Classify returns the error class for an error
func Classify(err error) ErrorClass {
	if IsInvalidArgument(err) {
		return ErrorInvalidArgument
	}
	if IsTransport(err) {
		return ErrorTransport
	}

	// Unknown errors surface from user code paths
	return ErrorProcessing
}

// newClassified creates a new classified error
// This is an internal helper - use the Wrap* functions instead.
func newClassified(class ErrorClass, err error, component, operation, message string) *ClassifiedError {
	return &ClassifiedError{
		Class:     class,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapInvalidArgument wraps an error as an invalid-argument condition with context
func WrapInvalidArgument(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorInvalidArgument, wrappedErr, component, method, wrappedErr.Error())
}

// WrapProcessing wraps an error as a fatal processing failure with context
func WrapProcessing(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorProcessing, wrappedErr, component, method, wrappedErr.Error())
}

// WrapTransport wraps an error as a stream-boundary failure with context
func WrapTransport(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrappedErr := Wrap(err, component, method, action)
	return newClassified(ErrorTransport, wrappedErr, component, method, wrappedErr.Error())
}
