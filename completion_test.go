package callqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion_ResolveExactlyOnce(t *testing.T) {
	c, resolve, reject := NewCompletion()
	require.Equal(t, Pending, c.State())

	resolve("first")
	assert.Equal(t, Resolved, c.State())
	assert.Equal(t, "first", c.Result())

	// Subsequent settlement attempts are no-ops.
	resolve("second")
	reject(errors.New("late"))
	assert.Equal(t, Resolved, c.State())
	assert.Equal(t, "first", c.Result())
	assert.NoError(t, c.Err())
}

func TestCompletion_RejectExactlyOnce(t *testing.T) {
	c, resolve, reject := NewCompletion()

	errBoom := errors.New("boom")
	reject(errBoom)
	assert.Equal(t, Rejected, c.State())
	assert.ErrorIs(t, c.Err(), errBoom)
	assert.Nil(t, c.Result())

	resolve("late")
	assert.Equal(t, Rejected, c.State())
	assert.Nil(t, c.Result())
}

func TestCompletion_DoneClosesOnSettle(t *testing.T) {
	c, resolve, _ := NewCompletion()

	select {
	case <-c.Done():
		t.Fatal("Done closed before settlement")
	default:
	}

	resolve(nil)

	select {
	case <-c.Done():
	default:
		t.Fatal("Done not closed after settlement")
	}
}

func TestCompletion_WaitFromAnotherGoroutine(t *testing.T) {
	c, resolve, _ := NewCompletion()

	go func() {
		time.Sleep(10 * time.Millisecond)
		resolve(42)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, err := c.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	// Read-many: awaiting an already-settled completion yields the same.
	v, err = c.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestCompletion_WaitContextExpiry(t *testing.T) {
	c, _, _ := NewCompletion()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// The completion itself is untouched by the caller giving up.
	assert.Equal(t, Pending, c.State())
}

func TestCompletion_ResolvedNilValue(t *testing.T) {
	// A resolved completion can legitimately carry a nil result.
	c, resolve, _ := NewCompletion()
	resolve(nil)
	assert.Equal(t, Resolved, c.State())
	assert.Nil(t, c.Result())
	assert.NoError(t, c.Err())
}

func TestCompletionState_String(t *testing.T) {
	assert.Equal(t, "Pending", Pending.String())
	assert.Equal(t, "Resolved", Resolved.String())
	assert.Equal(t, "Rejected", Rejected.String())
	assert.Equal(t, "Unknown", CompletionState(99).String())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "InProgress", StateInProgress.String())
	assert.Equal(t, "Draining", StateDraining.String())
	assert.Equal(t, "Unknown", State(99).String())
}
