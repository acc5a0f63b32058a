package scheduler

import (
	"sort"
	"time"
)

// Manual is a virtual-time Scheduler. Nothing runs until the owner calls
// Advance or Flush, which makes timer-driven logic deterministic in tests
// and offline simulations.
type Manual struct {
	now      time.Duration
	nextID   Token
	tasks    map[Token]*manualTask
	deferred []func()
}

type manualTask struct {
	due      time.Duration
	interval time.Duration // zero for one-shot
	fn       func()
}

// NewManual creates a Manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{tasks: make(map[Token]*manualTask)}
}

// Now returns the virtual time elapsed since creation.
func (m *Manual) Now() time.Duration {
	return m.now
}

// After implements Scheduler.
func (m *Manual) After(delay time.Duration, fn func()) Token {
	m.nextID++
	m.tasks[m.nextID] = &manualTask{due: m.now + delay, fn: fn}
	return m.nextID
}

// Every implements Scheduler.
func (m *Manual) Every(interval time.Duration, fn func(), immediate bool) Token {
	if interval <= 0 {
		interval = time.Millisecond
	}
	m.nextID++
	id := m.nextID
	m.tasks[id] = &manualTask{due: m.now + interval, interval: interval, fn: fn}
	if immediate {
		m.Defer(func() {
			if _, ok := m.tasks[id]; ok {
				fn()
			}
		})
	}
	return id
}

// Cancel implements Scheduler.
func (m *Manual) Cancel(t Token) {
	delete(m.tasks, t)
}

// Defer implements Scheduler.
func (m *Manual) Defer(fn func()) {
	m.deferred = append(m.deferred, fn)
}

// Pending returns the number of scheduled timers and intervals.
func (m *Manual) Pending() int {
	return len(m.tasks)
}

// Deferred returns the number of deferred callbacks waiting for Flush.
func (m *Manual) Deferred() int {
	return len(m.deferred)
}

// Active reports whether t is still scheduled.
func (m *Manual) Active(t Token) bool {
	_, ok := m.tasks[t]
	return ok
}

// Flush runs deferred callbacks until none are left.
func (m *Manual) Flush() {
	for len(m.deferred) > 0 {
		batch := m.deferred
		m.deferred = nil
		for _, fn := range batch {
			run(fn)
		}
	}
}

// Advance moves virtual time forward by d, running every task that becomes
// due in due-time order (ties in scheduling order). Deferred callbacks are
// flushed before the first task and after each one.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	m.Flush()
	for {
		id, task, ok := m.nextDue(target)
		if !ok {
			break
		}
		m.now = task.due
		if task.interval > 0 {
			task.due += task.interval
		} else {
			delete(m.tasks, id)
		}
		run(task.fn)
		m.Flush()
	}
	m.now = target
}

func (m *Manual) nextDue(limit time.Duration) (Token, *manualTask, bool) {
	ids := make([]Token, 0, len(m.tasks))
	for id, task := range m.tasks {
		if task.due <= limit {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil, false
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := m.tasks[ids[i]], m.tasks[ids[j]]
		if a.due != b.due {
			return a.due < b.due
		}
		return ids[i] < ids[j]
	})
	return ids[0], m.tasks[ids[0]], true
}
