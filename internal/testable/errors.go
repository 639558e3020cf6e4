package testable

import (
	"errors"
	"fmt"

	"github.com/roach88/skin/internal/repr"
)

// AssertionError is an expected assertion failure. Scopes count it as failed
// rather than errored.
type AssertionError struct {
	Message string
	// Diff is the go-cmp diff for equality failures, empty otherwise.
	Diff string
}

func (e *AssertionError) Error() string {
	return e.Message
}

// PanicError wraps a value recovered from a panic inside an assertion verb.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return "panic: " + err.Error()
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panicked error value to errors.Is and errors.As.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// KeyError reports a missing map key.
type KeyError struct {
	Key any
}

func (e *KeyError) Error() string {
	return "key not found: " + repr.Repr(e.Key)
}

// IndexError reports an out-of-range index.
type IndexError struct {
	Index any
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s out of range [0:%d]", repr.Repr(e.Index), e.Len)
}

// AttributeError reports a missing method or exported field.
type AttributeError struct {
	Type string
	Name string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s object has no attribute %s", repr.String(e.Type), repr.String(e.Name))
}

// TypeError reports an operation applied to a value of the wrong type.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string {
	return e.Message
}

// ArgumentError reports arguments a callee cannot accept.
type ArgumentError struct {
	Callee  string
	Message string
}

func (e *ArgumentError) Error() string {
	if e.Callee == "" {
		return e.Message
	}
	return e.Callee + "() " + e.Message
}

// IsAssertionError reports whether err is or wraps an *AssertionError.
func IsAssertionError(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}

// IsPanic reports whether err is or wraps a *PanicError.
func IsPanic(err error) bool {
	var pe *PanicError
	return errors.As(err, &pe)
}
