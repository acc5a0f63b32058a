package bounty

import (
	"cmp"
	"slices"

	"github.com/udisondev/bountyhunter/internal/game/geo"
	"github.com/udisondev/bountyhunter/internal/model"
	"github.com/udisondev/bountyhunter/internal/scheduler"
)

// Entry is one tracked big bounty.
type Entry struct {
	Player   model.PlayerID
	Bounty   int
	Position model.Location
}

// Tracker keeps every player whose bounty is at or above the threshold.
// Changes are fanned out through onChange once per scheduler turn.
type Tracker struct {
	threshold int
	sched     scheduler.Scheduler
	onChange  func(sorted []Entry)

	entries map[model.PlayerID]Entry
	pending bool
}

// NewTracker creates tracker. onChange receives the ascending list.
func NewTracker(threshold int, sched scheduler.Scheduler, onChange func(sorted []Entry)) *Tracker {
	return &Tracker{
		threshold: threshold,
		sched:     sched,
		onChange:  onChange,
		entries:   make(map[model.PlayerID]Entry),
	}
}

// Update inserts, replaces or removes the entry for id depending on bounty.
// Returns true if the tracked set changed; an identical upsert notifies nobody.
func (t *Tracker) Update(id model.PlayerID, bounty int, pos model.Location) bool {
	if bounty < t.threshold {
		return t.Remove(id)
	}
	e := Entry{Player: id, Bounty: bounty, Position: pos}
	if old, ok := t.entries[id]; ok && old == e {
		return false
	}
	t.entries[id] = e
	t.schedule()
	return true
}

// Remove drops the entry for id. Returns false (and notifies nobody) if
// there was none.
func (t *Tracker) Remove(id model.PlayerID) bool {
	if _, ok := t.entries[id]; !ok {
		return false
	}
	delete(t.entries, id)
	t.schedule()
	return true
}

// Get returns the entry for id.
func (t *Tracker) Get(id model.PlayerID) (Entry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// Len returns number of tracked entries.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Sorted returns entries ordered by ascending bounty, ties by player id.
func (t *Tracker) Sorted() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(a.Bounty, b.Bounty); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})
	return out
}

// Clear drops every entry without notifying.
func (t *Tracker) Clear() {
	clear(t.entries)
}

// schedule coalesces notifications: a burst of updates within one turn
// produces a single onChange, which reads the list at run time.
func (t *Tracker) schedule() {
	if t.pending {
		return
	}
	t.pending = true
	t.sched.Defer(func() {
		t.pending = false
		if t.onChange != nil {
			t.onChange(t.Sorted())
		}
	})
}

// Row is one line of a viewer's big-bounty panel.
type Row struct {
	Player   model.PlayerID
	Bounty   int
	Heading  geo.Direction
	Distance int
	// Known is false when the viewer has no position; Heading and Distance
	// are then meaningless.
	Known bool
}

// Project builds viewer's panel from the ascending list: viewer's own entry
// is skipped and at most limit rows are returned, highest bounty first.
// distance may be nil when the viewer position is unknown.
func Project(sorted []Entry, viewer model.PlayerID, viewerPos model.Location, known bool,
	limit int, distance func(a, b model.Location) float64) []Row {
	rows := make([]Row, 0, limit)
	for i := len(sorted) - 1; i >= 0 && len(rows) < limit; i-- {
		e := sorted[i]
		if e.Player == viewer {
			continue
		}
		row := Row{Player: e.Player, Bounty: e.Bounty, Known: known}
		if known {
			row.Heading = geo.Bearing(viewerPos, e.Position)
			row.Distance = geo.TruncatedDistance(distance(viewerPos, e.Position))
		}
		rows = append(rows, row)
	}
	return rows
}
