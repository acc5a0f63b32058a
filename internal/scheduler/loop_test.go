package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := NewLoop(64)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = l.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

// onLoop runs fn on the loop goroutine and waits for it.
func onLoop(t *testing.T, l *Loop, fn func()) {
	t.Helper()
	done := make(chan struct{})
	require.True(t, l.Submit(func() {
		fn()
		close(done)
	}))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not run submitted callback")
	}
}

func TestLoop_SubmitAndDefer(t *testing.T) {
	l := startLoop(t)

	var order []string
	done := make(chan struct{})
	l.Submit(func() {
		l.Defer(func() {
			order = append(order, "deferred")
			close(done)
		})
		order = append(order, "event")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deferred callback never ran")
	}
	assert.Equal(t, []string{"event", "deferred"}, order)
}

func TestLoop_AfterFires(t *testing.T) {
	l := startLoop(t)

	fired := make(chan struct{})
	onLoop(t, l, func() {
		l.After(10*time.Millisecond, func() { close(fired) })
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("After callback never fired")
	}
	assert.Eventually(t, func() bool { return l.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLoop_CancelledTimerNeverFires(t *testing.T) {
	l := startLoop(t)

	var fired atomic.Bool
	onLoop(t, l, func() {
		tok := l.After(20*time.Millisecond, func() { fired.Store(true) })
		l.Cancel(tok)
	})

	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.Equal(t, 0, l.Pending())
}

func TestLoop_EveryRepeats(t *testing.T) {
	l := startLoop(t)

	var calls atomic.Int32
	var tok Token
	onLoop(t, l, func() {
		tok = l.Every(5*time.Millisecond, func() { calls.Add(1) }, true)
	})

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	onLoop(t, l, func() { l.Cancel(tok) })

	n := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), n+1, "at most one tick already queued before cancel")
}

func TestLoop_PanicDoesNotStopLoop(t *testing.T) {
	l := startLoop(t)

	l.Submit(func() { panic("boom") })

	ran := false
	onLoop(t, l, func() { ran = true })
	assert.True(t, ran)
}

func TestLoop_StopUnblocksSubmit(t *testing.T) {
	l := NewLoop(1)
	l.Stop()
	l.Stop()

	assert.False(t, l.Submit(func() {}))
}

func TestLoop_CancelledContextRejectsSubmit(t *testing.T) {
	l := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, l.Start(ctx), context.Canceled)

	assert.False(t, l.Submit(func() {}))
	assert.False(t, l.Submit(func() {}), "full queue must not block after shutdown")
}
