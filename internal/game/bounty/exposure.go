package bounty

import (
	"log/slog"

	"github.com/udisondev/bountyhunter/internal/model"
)

// reschedule replaces the killer's spot and flag tasks with the ones for
// its current streak.
func (e *Engine) reschedule(c *Combatant) {
	e.sched.Cancel(c.spotting)
	c.spotting = 0
	e.sched.Cancel(c.flagging)
	c.flagging = 0

	s := c.killStreak
	if delay := e.table.SpottingDelay(s); delay > 0 {
		interval := e.table.SpottingDuration(s) + delay
		id := c.id
		c.spotting = e.sched.Every(interval, func() { e.spot(id) }, false)
	}
	if delay := e.table.FlaggingDelay(s); delay > 0 {
		id := c.id
		c.flagging = e.sched.Every(delay, func() { e.flag(id) }, false)
	}
}

// spot exposes the player to enemies for the streak's spotting duration.
func (e *Engine) spot(id model.PlayerID) {
	c := e.resolve(id)
	if c == nil {
		return
	}
	d := e.table.SpottingDuration(c.killStreak)
	e.host.Spotter.Spot(c.id, d)

	if c.isAI {
		return
	}
	el := model.Element{Kind: model.ElemSpotted}
	c.setText(el, model.Msg(MsgSpotted, int(d.Seconds())))
	c.setVisible(el, true)
	c.setOutline(true)

	e.sched.Cancel(c.spotHide)
	c.spotHide = e.sched.After(d, func() {
		c.spotHide = 0
		c.setVisible(el, false)
		c.setOutline(false)
	})
}

// flag moves (or creates) the player's world marker and feeds the tracker.
func (e *Engine) flag(id model.PlayerID) {
	c := e.resolve(id)
	if c == nil {
		return
	}
	pos, ok := e.host.Spatial.Position(c.id)
	if !ok {
		return
	}

	at := model.Offset(pos, e.cfg.FlagMarkerHeight)
	if !c.hasMarker {
		c.marker = e.host.Markers.CreateMarker(at)
		c.hasMarker = true
	} else {
		e.host.Markers.SetMarkerPosition(c.marker, at)
	}

	bounty := e.table.Bounty(c.killStreak)
	e.host.Markers.SetMarkerText(c.marker, model.Msg(MsgFlag, bounty))
	e.tracker.Update(c.id, bounty, pos)
}

func (e *Engine) stopSpotting(c *Combatant) {
	e.sched.Cancel(c.spotting)
	c.spotting = 0
	if c.spotHide != 0 {
		e.sched.Cancel(c.spotHide)
		c.spotHide = 0
		c.setVisible(model.Element{Kind: model.ElemSpotted}, false)
		c.setOutline(false)
	}
}

func (e *Engine) stopFlagging(c *Combatant) {
	e.sched.Cancel(c.flagging)
	c.flagging = 0
	if c.hasMarker {
		e.host.Markers.DestroyMarker(c.marker)
		c.hasMarker = false
		c.marker = 0
		slog.Debug("flag marker destroyed", "playerID", c.id)
	}
}
