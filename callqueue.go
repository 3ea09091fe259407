package callqueue

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

var queueIDCounter atomic.Uint64

// Queue is a reentrancy-safe, FIFO call-ordering queue.
//
// PERFORMANCE: The common, non-reentrant case executes the callback
// immediately and synchronously on the caller's goroutine - no goroutine
// hop, no channel, no allocation beyond the completion handle. Only calls
// arriving while another call is in progress pay for deferral.
//
// A Queue is constructed once (see [New]) and passed by reference to every
// collaborator that needs to schedule work. It lives for the life of the
// process; there is no teardown. The zero value is not usable.
//
// Queue state is intentionally unsynchronized: all Schedule and drain
// activity is assumed to happen on one logical thread of control (see the
// package documentation). It is not safe for concurrent multi-goroutine
// invocation without an external mutual-exclusion layer.
type Queue struct {
	// Prevent copying
	_ [0]func()

	logger    *logiface.Logger[logiface.Event]
	onFailure func(error)
	metrics   *Metrics

	// pending is only ever drained while state != StateIdle, on the same
	// logical thread that entered StateInProgress.
	pending []*workItem

	id    uint64
	state State
}

// New creates a new call queue.
func New(opts ...Option) (*Queue, error) {
	cfg, err := resolveQueueOptions(opts)
	if err != nil {
		return nil, err
	}

	q := &Queue{
		id:        queueIDCounter.Add(1),
		logger:    cfg.logger,
		onFailure: cfg.onFailure,
	}
	if cfg.metricsEnabled {
		q.metrics = &Metrics{}
	}

	return q, nil
}

// Schedule schedules a synchronous zero-argument callback.
//
// If no call is in progress, fn executes immediately, before Schedule
// returns; its error (if any) is returned directly, preserving ordinary
// call-stack failure semantics, and a panic propagates to the caller. In
// both cases the pending queue is still drained and the queue returns to
// idle.
//
// If a call is already in progress, fn is appended to the pending queue and
// Schedule returns a nil error immediately without blocking; fn's outcome is
// then only observable via the returned [Completion].
func (q *Queue) Schedule(fn Func) (*Completion, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return q.schedule(&workItem{q: q, fn: fn, c: newCompletion()})
}

// ScheduleState schedules a synchronous callback parameterized by an opaque
// state value, avoiding closure capture allocation. Sequencing and failure
// semantics are identical to [Queue.Schedule].
func (q *Queue) ScheduleState(state any, fn StateFunc) (*Completion, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return q.schedule(&workItem{q: q, sfn: fn, state: state, c: newCompletion()})
}

// ScheduleAsync schedules an asynchronous callback. The callback's body is
// its synchronous portion and runs under the same sequencing rules as
// [Queue.Schedule]; the [Completion] it returns represents the remainder of
// the operation and settles the work item's handle when it settles.
//
// The queue does not wait for the asynchronous remainder: draining continues
// (and the queue may go idle, run further calls, and so on) while it is in
// flight. It is tracked solely via the returned handle.
func (q *Queue) ScheduleAsync(state any, fn AsyncFunc) (*Completion, error) {
	if fn == nil {
		return nil, ErrNilCallback
	}
	return q.schedule(&workItem{q: q, afn: fn, state: state, c: newCompletion()})
}

// Enqueue schedules a synchronous callback whose outcome the caller does not
// need to observe: "run this when it's safe, in order". Sequencing is
// identical to [Queue.Schedule], but the completion handle is discarded.
//
// Failures are swallowed at the work-item boundary rather than surfaced to
// Enqueue's caller; they are routed to the queue's failure handler (see
// [WithFailureHandler]), which defaults to an error-level log. Intended for
// callbacks that cannot fail - an unobserved failure silently halts
// visibility into that unit of work without halting the queue itself.
func (q *Queue) Enqueue(fn Func) {
	if fn == nil {
		q.reportDroppedFailure(ErrNilCallback)
		return
	}
	_, _ = q.schedule(&workItem{q: q, fn: fn, c: newCompletion(), discard: true})
}

// HasUnstartedWork reports whether any work items are pending (deferred but
// not yet begun). It is an observability hook for collaborators to detect
// unexpected reentrancy, not a control-flow primitive.
func (q *Queue) HasUnstartedWork() bool {
	return len(q.pending) > 0
}

// State returns the queue's current session [State].
func (q *Queue) State() State {
	return q.state
}

// schedule is the single entry point behind the Schedule variants: decide,
// based on the current state, whether to run w immediately or defer it.
func (q *Queue) schedule(w *workItem) (*Completion, error) {
	if q.metrics != nil {
		q.metrics.scheduled.Add(1)
	}

	if q.state != StateIdle {
		// Reentrant call: defer until the in-progress call unwinds.
		q.pending = append(q.pending, w)
		if q.metrics != nil {
			q.metrics.deferred.Add(1)
			q.metrics.observeDepth(int64(len(q.pending)))
		}
		return w.c, nil
	}

	q.state = StateInProgress
	if q.metrics != nil {
		q.metrics.immediate.Add(1)
	}

	// The drain runs even if the callback panics out through the caller:
	// pending items must still begin, and the queue must return to idle.
	defer func() {
		q.state = StateDraining
		q.drain()
		q.state = StateIdle
	}()

	err := w.beginImmediate()
	return w.c, err
}

// drain begins every pending work item in FIFO order until none remain.
// Items scheduled by a draining item land at the tail of the same queue, so
// the loop also consumes self-reinforcing work. Beginning one item never
// prevents subsequent items from beginning (begin captures all failures).
func (q *Queue) drain() {
	var n int64
	for len(q.pending) > 0 {
		w := q.pending[0]
		q.pending[0] = nil // release for GC
		q.pending = q.pending[1:]
		w.begin()
		n++
	}
	q.pending = nil

	if n == 0 {
		return
	}
	if q.metrics != nil {
		q.metrics.drained.Add(n)
		q.metrics.drainCycles.Add(1)
	}
	q.logger.Trace().
		Uint64(`queue`, q.id).
		Int64(`items`, n).
		Log(`drain cycle complete`)
}

// reportDroppedFailure routes a failure nobody is awaiting to the configured
// failure handler, defaulting to an error-level log.
func (q *Queue) reportDroppedFailure(err error) {
	if q.onFailure != nil {
		q.onFailure(err)
		return
	}
	q.logger.Err().
		Err(err).
		Uint64(`queue`, q.id).
		Log(`fire-and-forget callback failed`)
}
