package callqueue

import (
	"context"
	"sync"
	"sync/atomic"
)

// Result represents the value a settled [Completion] carries.
// It can be any type. For resolved completions this holds the success value
// (nil for plain synchronous callbacks, which produce no value).
// For rejected completions the failure is exposed separately via
// [Completion.Err].
type Result = any

// CompletionState represents the lifecycle state of a [Completion].
// A completion starts in [Pending] state and transitions to either
// [Resolved] or [Rejected]. State transitions are irreversible.
type CompletionState int32

const (
	// Pending indicates the work item has not finished yet.
	Pending CompletionState = iota

	// Resolved indicates the work item completed successfully.
	Resolved

	// Rejected indicates the work item failed with a captured error.
	Rejected
)

// String returns a human-readable representation of the completion state.
func (s CompletionState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Resolved:
		return "Resolved"
	case Rejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// ResolveFunc is the function used to fulfill a completion with a value.
// Calling resolve on an already-settled completion has no effect.
// Can be called from any goroutine.
type ResolveFunc func(Result)

// RejectFunc is the function used to reject a completion with an error.
// Calling reject on an already-settled completion has no effect.
// Can be called from any goroutine.
type RejectFunc func(error)

// Completion is a one-shot, write-once signal carrying either success or a
// captured failure. It is shared between the queue (producer of the result)
// and the original caller (consumer awaiting it), and is resolved exactly
// once, by exactly the work item that owns it.
//
// All methods are safe for concurrent use.
type Completion struct {
	result Result
	err    error
	done   chan struct{}
	subs   []func(Result, error)
	state  atomic.Int32
	mu     sync.Mutex
}

// NewCompletion creates a new pending completion along with its resolve and
// reject functions. This is the constructor asynchronous callbacks use to
// hand an eventual result back to the queue.
//
// Example:
//
//	done, resolve, reject := callqueue.NewCompletion()
//	go func() {
//	    result, err := doWork()
//	    if err != nil {
//	        reject(err)
//	    } else {
//	        resolve(result)
//	    }
//	}()
//
// The resolve and reject functions can be called from any goroutine.
// Only the first call has an effect; subsequent calls are ignored.
func NewCompletion() (*Completion, ResolveFunc, RejectFunc) {
	c := newCompletion()
	return c, c.resolve, c.reject
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// State returns the current [CompletionState].
func (c *Completion) State() CompletionState {
	return CompletionState(c.state.Load())
}

// Result returns the success value if the completion is resolved.
// Returns nil if the completion is pending or rejected.
// Note: a resolved completion can legitimately have a nil result value.
func (c *Completion) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if CompletionState(c.state.Load()) == Resolved {
		return c.result
	}
	return nil
}

// Err returns the captured failure if the completion is rejected.
// Returns nil if the completion is pending or resolved.
func (c *Completion) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Done returns a channel that is closed when the completion settles.
// Multiple goroutines may safely wait on it.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the completion settles or ctx expires, and yields the
// outcome: the success value and nil, or nil and the captured failure.
// A ctx error is returned as-is and does not settle the completion.
func (c *Completion) Wait(ctx context.Context) (Result, error) {
	select {
	case <-c.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.err
}

// resolve transitions the completion to [Resolved] if still pending.
func (c *Completion) resolve(val Result) {
	c.settle(Resolved, val, nil)
}

// reject transitions the completion to [Rejected] if still pending.
func (c *Completion) reject(err error) {
	c.settle(Rejected, nil, err)
}

// settle performs the one-shot state transition, closes the done channel,
// and notifies subscribers. Subscribers run synchronously on the settling
// goroutine, outside the lock.
func (c *Completion) settle(state CompletionState, val Result, err error) {
	c.mu.Lock()
	if CompletionState(c.state.Load()) != Pending {
		c.mu.Unlock()
		return
	}
	c.result = val
	c.err = err
	c.state.Store(int32(state))
	subs := c.subs
	c.subs = nil // release memory
	close(c.done)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(val, err)
	}
}

// subscribe registers fn to run when the completion settles. If already
// settled, fn runs synchronously before subscribe returns.
func (c *Completion) subscribe(fn func(Result, error)) {
	c.mu.Lock()
	if CompletionState(c.state.Load()) != Pending {
		val, err := c.result, c.err
		c.mu.Unlock()
		fn(val, err)
		return
	}
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}
