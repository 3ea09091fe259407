package callqueue

// Func is a plain synchronous callback. A non-nil error is the callback's
// failure.
type Func func() error

// StateFunc is a synchronous callback parameterized by an opaque state
// value, for callers who want to avoid closure capture allocation.
type StateFunc func(state any) error

// AsyncFunc is an asynchronous callback. Its body is the synchronous portion
// of the operation; the returned [Completion], if non-nil, represents the
// remainder and settles the work item's own handle when it settles.
// Returning (nil, nil) means the operation finished within the synchronous
// portion. A non-nil error is a synchronous failure.
type AsyncFunc func(state any) (*Completion, error)

// workItem is one deferred unit of work: a callback in exactly one of the
// three forms, plus the completion handle the original caller may be
// awaiting. The queue exclusively owns the item from enqueue until Begin;
// after that, outcome reporting belongs to the completion.
type workItem struct {
	q     *Queue
	fn    Func
	sfn   StateFunc
	afn   AsyncFunc
	state any
	c     *Completion

	// discard marks fire-and-forget items whose completion nobody holds;
	// their failures route to the queue's failure handler instead.
	discard bool
}

// invoke runs the stored callback's synchronous portion. Exactly one of the
// callback fields is set.
func (w *workItem) invoke() (*Completion, error) {
	switch {
	case w.fn != nil:
		return nil, w.fn()
	case w.sfn != nil:
		return nil, w.sfn(w.state)
	default:
		return w.afn(w.state)
	}
}

// begin executes the stored callback exactly once and never panics or
// otherwise propagates a failure to its caller: errors and recovered panics
// are captured on the completion handle. Used on the queued path, where no
// caller's stack is waiting.
func (w *workItem) begin() {
	defer func() {
		if r := recover(); r != nil {
			w.fail(PanicError{Value: r})
		}
	}()

	inner, err := w.invoke()
	if err != nil {
		w.fail(err)
		return
	}
	if inner != nil {
		w.adopt(inner)
		return
	}
	w.c.resolve(nil)
}

// beginImmediate executes the callback on the immediate synchronous path.
// Failures are NOT swallowed here: the error is returned to the caller of
// Schedule (in addition to settling the handle), and panics propagate.
func (w *workItem) beginImmediate() error {
	inner, err := w.invoke()
	if err != nil {
		w.fail(err)
		return err
	}
	if inner != nil {
		w.adopt(inner)
		return nil
	}
	w.c.resolve(nil)
	return nil
}

// adopt ties the work item's handle to the asynchronous remainder of its
// callback. The drain loop does not wait on it; the handle settles in the
// background when inner does.
func (w *workItem) adopt(inner *Completion) {
	inner.subscribe(func(val Result, err error) {
		if err != nil {
			w.fail(err)
			return
		}
		w.c.resolve(val)
	})
}

// fail settles the handle with the captured failure and reports it per the
// item's observability: fire-and-forget failures go to the queue's failure
// handler, awaited ones are surfaced to whoever awaits the handle.
func (w *workItem) fail(err error) {
	w.c.reject(err)
	if w.q.metrics != nil {
		w.q.metrics.failures.Add(1)
	}
	if w.discard {
		w.q.reportDroppedFailure(err)
		return
	}
	w.q.logger.Debug().
		Err(err).
		Uint64(`queue`, w.q.id).
		Log(`callback failed`)
}
