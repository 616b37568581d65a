package eventloop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaver-tableqa/weaversite/internal/testutil"
)

func TestLoop_DoRunsInOrder(t *testing.T) {
	l := New(testutil.NewTestLogger(t))
	defer l.Close()

	var got []int
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Post(func() { got = append(got, i) }))
	}
	// Do waits for everything queued before it
	require.NoError(t, l.Do(context.Background(), func() {}))

	var snapshot []int
	require.NoError(t, l.Do(context.Background(), func() { snapshot = append(snapshot, got...) }))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, snapshot)
}

func TestLoop_AfterFuncRunsOnLoop(t *testing.T) {
	l := New(testutil.NewTestLogger(t))
	defer l.Close()

	fired := make(chan struct{})
	l.AfterFunc(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer callback did not run")
	}
}

func TestLoop_StopPreventsCallback(t *testing.T) {
	l := New(testutil.NewTestLogger(t))
	defer l.Close()

	var fired atomic.Bool
	timer := l.AfterFunc(20*time.Millisecond, func() { fired.Store(true) })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports nothing to stop")

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestLoop_PanicDoesNotKillLoop(t *testing.T) {
	l := New(testutil.NewTestLogger(t))
	defer l.Close()

	require.NoError(t, l.Post(func() { panic("boom") }))

	ran := false
	require.NoError(t, l.Do(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestLoop_ClosedRejectsWork(t *testing.T) {
	l := New(nil)
	l.Close()
	l.Close() // idempotent

	assert.ErrorIs(t, l.Post(func() {}), ErrClosed)
	assert.ErrorIs(t, l.Do(context.Background(), func() {}), ErrClosed)
}

func TestLoop_DoHonorsContext(t *testing.T) {
	l := New(nil)
	defer l.Close()

	block := make(chan struct{})
	require.NoError(t, l.Post(func() { <-block }))
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Do(ctx, func() {}), context.DeadlineExceeded)
}

// =============================================================================
// Fake scheduler
// =============================================================================

func TestFake_FiresInDeadlineOrder(t *testing.T) {
	f := NewFake()
	var order []string

	f.AfterFunc(3*time.Second, func() { order = append(order, "c") })
	f.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	f.AfterFunc(2*time.Second, func() { order = append(order, "b") })

	f.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"a"}, order)
	assert.Equal(t, 2, f.Pending())

	f.Advance(10 * time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, f.Pending())
	assert.Equal(t, 11500*time.Millisecond, f.Now())
}

func TestFake_ChainedTimersFireWithinWindow(t *testing.T) {
	f := NewFake()
	var at []time.Duration

	var arm func(n int)
	arm = func(n int) {
		if n == 0 {
			return
		}
		f.AfterFunc(time.Second, func() {
			at = append(at, f.Now())
			arm(n - 1)
		})
	}
	arm(3)

	f.Advance(3 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, at)
}

func TestFake_StoppedTimerNeverFires(t *testing.T) {
	f := NewFake()
	fired := false
	timer := f.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	f.Advance(2 * time.Second)
	assert.False(t, fired)
	assert.False(t, timer.Stop())
}
