package callqueue

import (
	"errors"
	"fmt"
)

var (
	// ErrNilCallback is returned by the Schedule variants when the supplied
	// callback is nil.
	ErrNilCallback = errors.New("callqueue: nil callback")
)

// PanicError wraps a panic value recovered from a queued callback.
//
// Panics in queued work items are captured rather than propagated, because
// no caller's stack is waiting on them at that point; the recovered value is
// attached to the item's [Completion] wrapped in this type.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("callqueue: callback panicked: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value is an error type.
// This enables use with [errors.Is] and [errors.As] for error matching
// through the cause chain. If the panic value is not an error (e.g., a
// string), returns nil.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
