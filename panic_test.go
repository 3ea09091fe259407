package callqueue

import (
	"errors"
	"io"
	"testing"
)

// TestPanic_QueuedItemCaptured verifies a panic in a queued work item is
// recovered, wrapped in PanicError, and attached to that item's handle -
// without preventing subsequent items from beginning.
func TestPanic_QueuedItemCaptured(t *testing.T) {
	q, err := New()
	if err != nil {
		t.Fatal(err)
	}

	var cPanic, cNext *Completion
	var nextRan bool

	_, err = q.Schedule(func() error {
		cPanic, _ = q.Schedule(func() error {
			panic("kaboom")
		})
		cNext, _ = q.Schedule(func() error {
			nextRan = true
			return nil
		})
		return nil
	})
	if err != nil {
		t.Fatalf("outer Schedule failed: %v", err)
	}

	if !nextRan {
		t.Fatal("item after a panicking item never ran")
	}
	if cPanic.State() != Rejected {
		t.Fatalf("expected Rejected, got %v", cPanic.State())
	}
	var pe PanicError
	if !errors.As(cPanic.Err(), &pe) {
		t.Fatalf("expected PanicError, got %T: %v", cPanic.Err(), cPanic.Err())
	}
	if pe.Value != "kaboom" {
		t.Errorf("expected panic value %q, got %v", "kaboom", pe.Value)
	}
	if cNext.State() != Resolved {
		t.Errorf("expected next item Resolved, got %v", cNext.State())
	}
}

// TestPanic_ErrorValueUnwraps verifies PanicError participates in error
// matching when the panic value is itself an error.
func TestPanic_ErrorValueUnwraps(t *testing.T) {
	q, err := New()
	if err != nil {
		t.Fatal(err)
	}

	var c *Completion
	_, err = q.Schedule(func() error {
		c, _ = q.Schedule(func() error {
			panic(io.EOF)
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if !errors.Is(c.Err(), io.EOF) {
		t.Errorf("expected errors.Is to match through PanicError, got %v", c.Err())
	}
}

// TestPanic_ImmediatePathPropagates verifies a panic on the immediate
// synchronous path unwinds to the caller, while pending work still drains
// and the queue returns to idle.
func TestPanic_ImmediatePathPropagates(t *testing.T) {
	q, err := New()
	if err != nil {
		t.Fatal(err)
	}

	var deferredRan bool
	var recovered any

	func() {
		defer func() { recovered = recover() }()
		_, _ = q.Schedule(func() error {
			q.Enqueue(func() error {
				deferredRan = true
				return nil
			})
			panic("kaboom")
		})
	}()

	if recovered != "kaboom" {
		t.Fatalf("expected the panic to reach the caller, got %v", recovered)
	}
	if !deferredRan {
		t.Error("pending work was not drained during unwind")
	}
	if q.State() != StateIdle || q.HasUnstartedWork() {
		t.Error("queue did not return to idle/empty after the panic")
	}
}
