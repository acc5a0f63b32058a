package bounty

import (
	"maps"
	"slices"

	"github.com/udisondev/bountyhunter/internal/model"
)

// renderAll pushes the big-bounty panel to every human combatant.
func (e *Engine) renderAll(sorted []Entry) {
	for _, c := range e.sortedCombatants() {
		e.render(c, sorted)
	}
}

// render fills viewer's panel rows and hides unused ones.
func (e *Engine) render(c *Combatant, sorted []Entry) {
	if c.hud == nil {
		return
	}
	pos, known := e.host.Spatial.Position(c.id)
	rows := Project(sorted, c.id, pos, known, e.cfg.MaxBigBounties, e.host.Spatial.Distance)

	for i := range e.cfg.MaxBigBounties {
		if i >= len(rows) {
			for cell := range model.CellsPerRow {
				c.setVisible(model.BigBountyCell(i, cell), false)
			}
			continue
		}

		row := rows[i]
		heading, distance := model.Msg(MsgUnknown), model.Msg(MsgUnknown)
		if row.Known {
			heading = model.Msg(MsgHeading, row.Heading.String())
			distance = model.Msg(MsgDistance, row.Distance)
		}
		c.setText(model.BigBountyCell(i, model.CellBounty), model.Msg(MsgBigBounty, row.Bounty))
		c.setText(model.BigBountyCell(i, model.CellHeading), heading)
		c.setText(model.BigBountyCell(i, model.CellDistance), distance)
		for cell := range model.CellsPerRow {
			c.setVisible(model.BigBountyCell(i, cell), true)
		}
	}
}

func (e *Engine) sortedCombatants() []*Combatant {
	out := make([]*Combatant, 0, len(e.combatants))
	for _, id := range slices.Sorted(maps.Keys(e.combatants)) {
		out = append(out, e.combatants[id])
	}
	return out
}

// ShowDeployCountdown shows "deploying in N", hides it at zero.
func (e *Engine) ShowDeployCountdown(id model.PlayerID, remaining int) {
	c := e.resolve(id)
	if c == nil {
		return
	}
	el := model.Element{Kind: model.ElemDeployCountdown}
	if remaining <= 0 {
		c.setVisible(el, false)
		return
	}
	c.setText(el, model.Msg(MsgDeployCountdown, remaining))
	c.setVisible(el, true)
}
