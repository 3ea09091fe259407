package callqueue

// State represents the current phase of a [Queue]'s call session.
//
// State Machine:
//
//	StateIdle (0) → StateInProgress (1)    [Schedule on an idle queue]
//	StateInProgress (1) → StateDraining (2) [triggering callback returned]
//	StateDraining (2) → StateIdle (0)       [pending queue empty]
//
// Schedule calls made while in StateInProgress or StateDraining always take
// the enqueue branch. The pending queue is only ever drained while the state
// is StateDraining, on the same logical thread that entered StateInProgress.
type State int32

const (
	// StateIdle indicates no call is in progress; the next Schedule executes
	// its callback immediately and synchronously.
	StateIdle State = iota
	// StateInProgress indicates the triggering callback is currently
	// executing.
	StateInProgress
	// StateDraining indicates the triggering callback has returned and
	// pending work items are being begun in FIFO order.
	StateDraining
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateInProgress:
		return "InProgress"
	case StateDraining:
		return "Draining"
	default:
		return "Unknown"
	}
}
