package bounty

import (
	"log/slog"

	"github.com/udisondev/bountyhunter/internal/model"
)

// dropScavenger leaves a drop where the victim died. Picking it up awards
// ScavengerPoints; uncollected drops expire after ScavengerLifetime.
func (e *Engine) dropScavenger(v *Combatant) {
	if e.cfg.ScavengerPoints <= 0 {
		return
	}
	pos, ok := e.host.Spatial.Position(v.id)
	if !ok {
		return
	}

	var drop model.DropID
	drop = e.host.Scavenger.CreateDrop(pos, func(finder model.PlayerID) {
		e.collectDrop(drop, finder)
	})
	e.drops[drop] = e.sched.After(e.cfg.ScavengerLifetime, func() {
		if _, ok := e.drops[drop]; !ok {
			return
		}
		delete(e.drops, drop)
		e.host.Scavenger.RemoveDrop(drop)
	})
}

func (e *Engine) collectDrop(drop model.DropID, finder model.PlayerID) {
	token, ok := e.drops[drop]
	if !ok {
		// already collected or expired
		return
	}
	delete(e.drops, drop)
	e.sched.Cancel(token)
	e.host.Scavenger.RemoveDrop(drop)

	f := e.resolve(finder)
	if f == nil {
		return
	}
	f.points += e.cfg.ScavengerPoints
	f.notify(model.Msg(MsgScavenged, e.cfg.ScavengerPoints), false)
	e.pushRow(f)
	e.pushModeScore(f)

	slog.Debug("scavenger drop collected", "dropID", drop, "finder", f.id, "points", e.cfg.ScavengerPoints)
	e.checkTarget(f)
}

// Drops returns number of live scavenger drops.
func (e *Engine) Drops() int {
	return len(e.drops)
}
