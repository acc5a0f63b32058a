// Package scheduler provides the single logical thread every game-mode
// handler runs on. Timers, intervals and deferred callbacks never run
// concurrently with each other or with submitted host events.
package scheduler

import (
	"log/slog"
	"runtime/debug"
	"time"
)

// Token identifies a scheduled task. The zero Token is never issued,
// so it can be used as "nothing scheduled".
type Token uint64

// Scheduler is the timer/interval primitive used by game logic.
type Scheduler interface {
	// After runs fn once after delay.
	After(delay time.Duration, fn func()) Token
	// Every runs fn each interval until cancelled. When immediate is set,
	// fn also runs once at the end of the current turn.
	Every(interval time.Duration, fn func(), immediate bool) Token
	// Cancel stops a task. Cancelling zero or an already finished token is a no-op.
	Cancel(t Token)
	// Defer runs fn after the current callback returns, before the next
	// event or timer is processed.
	Defer(fn func())
}

// run executes fn and contains a panic to that single callback.
func run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduled callback panicked",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
