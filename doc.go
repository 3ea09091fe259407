// Package callqueue provides a reentrancy-safe, FIFO call-ordering queue for
// serializing callbacks that arrive from a single-threaded host environment,
// such as a JavaScript runtime or UI dispatcher, into application logic.
//
// # Architecture
//
// The package is built around a [Queue] that tracks whether a call is
// currently in progress. Scheduling work on an idle queue executes the
// callback immediately, synchronously, on the caller's goroutine - the
// common, zero-overhead case. Scheduling work while another callback is
// running (reentrancy) defers it to a FIFO pending queue, which is drained
// once the outer callback unwinds. The net effect is that callbacks never
// nest inside one another's call stacks, while ordering is equivalent to a
// model where every callback goes through an external dispatcher.
//
// Each unit of deferred work carries a [Completion], a one-shot, write-once
// handle that settles with either success or the captured failure.
//
// # Execution Model
//
// Per logical queue session the state machine is:
//
//	StateIdle → StateInProgress → StateDraining → StateIdle
//
// Scheduling while in StateInProgress or StateDraining always takes the
// enqueue branch, never the execute-immediately branch. Work queued during a
// drain cycle is appended to the tail of the same pending queue, so nested
// scheduling preserves overall arrival order without stack recursion.
//
// Asynchronous callbacks ([Queue.ScheduleAsync]) run their synchronous
// portion on the queue like any other callback, then hand back a
// [Completion] for the remainder. The drain loop never blocks on it; the
// work item's own handle settles in the background when the inner completion
// settles. This is the one place true overlap is permitted.
//
// # Thread Safety
//
// The queue assumes a single logical thread of control, matching the
// single-threaded hosts it is designed for. Queue state is deliberately
// unsynchronized; calling Schedule from multiple goroutines concurrently
// requires an external mutual-exclusion layer. [Completion] values, by
// contrast, are safe for concurrent use - they are shared between the queue
// (producer) and whichever goroutine awaits them.
//
// # Failure Semantics
//
// A callback that fails on the immediate synchronous path reports its error
// directly to the caller of Schedule, preserving ordinary call semantics. A
// callback that fails as a queued work item never unwinds any caller's
// stack; the failure (including recovered panics, as [PanicError]) is
// captured on that item's [Completion]. The drain loop is failure-proof: one
// item failing never prevents subsequent items from beginning.
//
// Fire-and-forget work ([Queue.Enqueue]) discards the completion handle, so
// a failure there would otherwise vanish silently. Such failures are routed
// to the handler configured via [WithFailureHandler], defaulting to an
// error-level log on the configured logger.
//
// # Usage
//
//	queue, err := callqueue.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	done, err := queue.Schedule(func() error {
//	    // runs immediately; anything scheduled from in here is deferred
//	    queue.Enqueue(func() error {
//	        // runs after the outer callback returns, in FIFO order
//	        return nil
//	    })
//	    return nil
//	})
//	if err != nil {
//	    // the callback itself failed, synchronously
//	}
//	_, _ = done.Wait(context.Background())
package callqueue
