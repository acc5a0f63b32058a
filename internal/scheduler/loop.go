package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is the production Scheduler: one goroutine drains a queue of
// callbacks. Timer expirations are posted onto the same queue, so every
// callback observes state fully written by the previous one.
type Loop struct {
	events chan func()
	stopCh chan struct{}
	once   sync.Once

	nextID atomic.Uint64

	mu     sync.Mutex
	timers map[Token]*time.Timer

	deferMu  sync.Mutex
	deferred []func()
}

// NewLoop creates a loop whose event queue holds up to queueSize callbacks.
func NewLoop(queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Loop{
		events: make(chan func(), queueSize),
		stopCh: make(chan struct{}),
		timers: make(map[Token]*time.Timer),
	}
}

// Start runs the loop (blocks until context is canceled or Stop is called).
func (l *Loop) Start(ctx context.Context) error {
	slog.Info("scheduler loop started")

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler loop stopping")
			l.Stop()
			l.stopTimers()
			return ctx.Err()

		case <-l.stopCh:
			slog.Info("scheduler loop stopped")
			l.stopTimers()
			return nil

		case fn := <-l.events:
			run(fn)
			l.flushDeferred()
		}
	}
}

// Stop stops the loop. Safe to call more than once.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stopCh) })
}

// Submit posts fn to the loop from any goroutine. It blocks while the queue
// is full and returns false once the loop is stopped.
func (l *Loop) Submit(fn func()) bool {
	select {
	case <-l.stopCh:
		return false
	default:
	}

	select {
	case l.events <- fn:
		return true
	case <-l.stopCh:
		return false
	}
}

// After implements Scheduler.
func (l *Loop) After(delay time.Duration, fn func()) Token {
	id := Token(l.nextID.Add(1))
	l.arm(id, delay, func() {
		if !l.release(id) {
			return
		}
		fn()
	})
	return id
}

// Every implements Scheduler.
func (l *Loop) Every(interval time.Duration, fn func(), immediate bool) Token {
	if interval <= 0 {
		interval = time.Millisecond
	}
	id := Token(l.nextID.Add(1))

	var tick func()
	tick = func() {
		if !l.active(id) {
			return
		}
		// re-arm first so fn may cancel its own token
		l.arm(id, interval, tick)
		fn()
	}
	l.arm(id, interval, tick)

	if immediate {
		l.Defer(func() {
			if l.active(id) {
				fn()
			}
		})
	}
	return id
}

// Cancel implements Scheduler.
func (l *Loop) Cancel(t Token) {
	if t == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if timer, ok := l.timers[t]; ok {
		timer.Stop()
		delete(l.timers, t)
	}
}

// Defer implements Scheduler.
func (l *Loop) Defer(fn func()) {
	l.deferMu.Lock()
	wake := len(l.deferred) == 0
	l.deferred = append(l.deferred, fn)
	l.deferMu.Unlock()

	if wake {
		// Outside of a loop turn nothing would flush the list.
		select {
		case l.events <- func() {}:
		default:
		}
	}
}

// Pending returns number of scheduled timers and intervals.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

func (l *Loop) arm(id Token, delay time.Duration, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timers[id] = time.AfterFunc(delay, func() {
		l.Submit(fn)
	})
}

func (l *Loop) active(id Token) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.timers[id]
	return ok
}

func (l *Loop) release(id Token) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.timers[id]; !ok {
		return false
	}
	delete(l.timers, id)
	return true
}

func (l *Loop) flushDeferred() {
	for {
		l.deferMu.Lock()
		batch := l.deferred
		l.deferred = nil
		l.deferMu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			run(fn)
		}
	}
}

func (l *Loop) stopTimers() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, timer := range l.timers {
		timer.Stop()
		delete(l.timers, id)
	}
}
