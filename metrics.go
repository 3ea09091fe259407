package callqueue

import (
	"sync/atomic"
)

// Metrics tracks runtime statistics for a [Queue].
// Metrics are optional and attached via [WithMetrics].
//
// All counters use atomic operations and are safe to read from any
// goroutine, even though the queue itself is single-threaded.
type Metrics struct {
	scheduled   atomic.Int64
	immediate   atomic.Int64
	deferred    atomic.Int64
	drained     atomic.Int64
	drainCycles atomic.Int64
	failures    atomic.Int64
	maxDepth    atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of a queue's counters.
//
// Example:
//
//	queue, _ := New(WithMetrics(true))
//	// ... schedule work ...
//	stats := queue.Metrics()
//	fmt.Printf("deferred=%d maxDepth=%d\n", stats.Deferred, stats.MaxDepth)
type MetricsSnapshot struct {
	// Scheduled is the total number of callbacks accepted, on either path.
	Scheduled int64
	// Immediate is the number of callbacks that ran synchronously on the
	// caller's goroutine (the queue was idle).
	Immediate int64
	// Deferred is the number of callbacks appended to the pending queue
	// because a call was already in progress.
	Deferred int64
	// Drained is the number of work items begun by drain cycles.
	Drained int64
	// DrainCycles is the number of drain cycles that began at least one item.
	DrainCycles int64
	// Failures is the number of callbacks that failed, on either path.
	Failures int64
	// MaxDepth is the high-water mark of the pending queue length.
	MaxDepth int64
}

// observeDepth records a pending-queue depth sample, retaining the maximum.
func (m *Metrics) observeDepth(depth int64) {
	for {
		cur := m.maxDepth.Load()
		if depth <= cur || m.maxDepth.CompareAndSwap(cur, depth) {
			return
		}
	}
}

// snapshot copies the counters.
func (m *Metrics) snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Scheduled:   m.scheduled.Load(),
		Immediate:   m.immediate.Load(),
		Deferred:    m.deferred.Load(),
		Drained:     m.drained.Load(),
		DrainCycles: m.drainCycles.Load(),
		Failures:    m.failures.Load(),
		MaxDepth:    m.maxDepth.Load(),
	}
}

// Metrics returns a point-in-time snapshot of the queue's counters.
// Returns the zero value if metrics were not enabled via [WithMetrics].
func (q *Queue) Metrics() MetricsSnapshot {
	if q.metrics == nil {
		return MetricsSnapshot{}
	}
	return q.metrics.snapshot()
}
