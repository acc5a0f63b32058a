package spawn

import (
	"log/slog"
	"slices"
	"time"

	"github.com/udisondev/bountyhunter/internal/model"
	"github.com/udisondev/bountyhunter/internal/scheduler"
)

// State is the drain loop state.
type State int

const (
	StateIdle State = iota
	StateEnabledWaiting
	StateDraining
	StateEnabledScheduled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEnabledWaiting:
		return "enabled-waiting"
	case StateDraining:
		return "draining"
	case StateEnabledScheduled:
		return "enabled-scheduled"
	default:
		return "unknown"
	}
}

// Placer validates queued players and places them at a spawn point.
type Placer interface {
	Valid(id model.PlayerID) bool
	Place(id model.PlayerID, at PrecomputedSpawn)
}

// Picker chooses a spawn point for the next placement.
type Picker interface {
	Pick() PrecomputedSpawn
}

// Queue is a FIFO of players waiting to be placed, drained by a
// self-rescheduling pass on the scheduler thread.
// Not safe for concurrent use: all calls must come from the scheduler.
type Queue struct {
	picker Picker
	placer Placer
	sched  scheduler.Scheduler
	delay  time.Duration

	enabled  bool
	draining bool
	next     scheduler.Token

	fifo   []model.PlayerID
	queued map[model.PlayerID]struct{}
}

// NewQueue creates a disabled queue. delay is the pause between drain passes.
func NewQueue(picker Picker, placer Placer, sched scheduler.Scheduler, delay time.Duration) *Queue {
	return &Queue{
		picker: picker,
		placer: placer,
		sched:  sched,
		delay:  delay,
		queued: make(map[model.PlayerID]struct{}),
	}
}

// Enable turns the drain loop on and runs a pass immediately.
func (q *Queue) Enable() {
	if q.enabled {
		return
	}
	q.enabled = true
	slog.Debug("spawn queue enabled", "queued", len(q.fifo))
	q.drain()
}

// Disable suppresses future passes. A pass in progress finishes but
// does not reschedule.
func (q *Queue) Disable() {
	if !q.enabled {
		return
	}
	q.enabled = false
	q.sched.Cancel(q.next)
	q.next = 0
	slog.Debug("spawn queue disabled", "queued", len(q.fifo))
}

// Enqueue appends id to the queue. Returns false when id is already queued.
func (q *Queue) Enqueue(id model.PlayerID) bool {
	if _, ok := q.queued[id]; ok {
		slog.Debug("player already in spawn queue", "playerID", id)
		return false
	}
	q.fifo = append(q.fifo, id)
	q.queued[id] = struct{}{}

	if q.enabled && !q.draining {
		q.drain()
	}
	return true
}

// Remove drops id from the queue if present.
func (q *Queue) Remove(id model.PlayerID) bool {
	if _, ok := q.queued[id]; !ok {
		return false
	}
	delete(q.queued, id)
	q.fifo = slices.DeleteFunc(q.fifo, func(v model.PlayerID) bool { return v == id })
	return true
}

// Len returns number of queued players.
func (q *Queue) Len() int {
	return len(q.fifo)
}

// Contains reports whether id is queued.
func (q *Queue) Contains(id model.PlayerID) bool {
	_, ok := q.queued[id]
	return ok
}

// State returns current drain loop state.
func (q *Queue) State() State {
	switch {
	case q.draining:
		return StateDraining
	case !q.enabled:
		return StateIdle
	case q.next != 0:
		return StateEnabledScheduled
	default:
		return StateEnabledWaiting
	}
}

// drain places every queued player, then reschedules itself while enabled.
// Players enqueued during the pass are picked up by the same pass.
func (q *Queue) drain() {
	if q.draining {
		return
	}
	q.draining = true
	q.sched.Cancel(q.next)
	q.next = 0
	defer q.finishPass()

	placed, skipped := 0, 0
	for len(q.fifo) > 0 {
		id := q.fifo[0]
		q.fifo = q.fifo[1:]
		delete(q.queued, id)

		if !q.placer.Valid(id) {
			skipped++
			continue
		}

		at := q.picker.Pick()
		q.placer.Place(id, at)
		placed++
	}

	if placed > 0 || skipped > 0 {
		slog.Debug("spawn queue drained", "placed", placed, "skipped", skipped)
	}
}

func (q *Queue) finishPass() {
	q.draining = false
	if !q.enabled {
		return
	}
	q.next = q.sched.After(q.delay, func() {
		q.next = 0
		q.drain()
	})
}
