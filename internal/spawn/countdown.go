package spawn

import (
	"time"

	"github.com/udisondev/bountyhunter/internal/model"
	"github.com/udisondev/bountyhunter/internal/scheduler"
)

// Enqueuer accepts players whose countdown finished.
type Enqueuer interface {
	Enqueue(id model.PlayerID) bool
}

// TickFunc receives remaining seconds on every countdown tick, 0 when done.
type TickFunc func(id model.PlayerID, remaining int)

type countdown struct {
	remaining int
	token     scheduler.Token
}

// Countdowns tracks per-player "deploying in N" timers.
type Countdowns struct {
	sched  scheduler.Scheduler
	queue  Enqueuer
	onTick TickFunc

	active map[model.PlayerID]*countdown
}

// NewCountdowns creates countdown tracker. onTick may be nil.
func NewCountdowns(sched scheduler.Scheduler, queue Enqueuer, onTick TickFunc) *Countdowns {
	return &Countdowns{
		sched:  sched,
		queue:  queue,
		onTick: onTick,
		active: make(map[model.PlayerID]*countdown),
	}
}

// Start begins a countdown of delaySeconds for id, replacing any running
// one. delaySeconds <= 0 enqueues immediately.
func (c *Countdowns) Start(id model.PlayerID, delaySeconds int) {
	c.Cancel(id)

	if delaySeconds <= 0 {
		c.queue.Enqueue(id)
		return
	}

	cd := &countdown{remaining: delaySeconds}
	c.active[id] = cd
	c.notify(id, cd.remaining)
	cd.token = c.sched.Every(time.Second, func() { c.tick(id, cd) }, false)
}

// Cancel stops the countdown for id. Returns false if none was running.
func (c *Countdowns) Cancel(id model.PlayerID) bool {
	cd, ok := c.active[id]
	if !ok {
		return false
	}
	c.sched.Cancel(cd.token)
	delete(c.active, id)
	return true
}

// Remaining returns seconds left for id.
func (c *Countdowns) Remaining(id model.PlayerID) (int, bool) {
	cd, ok := c.active[id]
	if !ok {
		return 0, false
	}
	return cd.remaining, true
}

// Len returns number of running countdowns.
func (c *Countdowns) Len() int {
	return len(c.active)
}

// Stop cancels every countdown.
func (c *Countdowns) Stop() {
	for id := range c.active {
		c.Cancel(id)
	}
}

func (c *Countdowns) tick(id model.PlayerID, cd *countdown) {
	if c.active[id] != cd {
		return
	}
	cd.remaining--
	if cd.remaining > 0 {
		c.notify(id, cd.remaining)
		return
	}

	c.sched.Cancel(cd.token)
	delete(c.active, id)
	c.notify(id, 0)
	c.queue.Enqueue(id)
}

func (c *Countdowns) notify(id model.PlayerID, remaining int) {
	if c.onTick != nil {
		c.onTick(id, remaining)
	}
}
