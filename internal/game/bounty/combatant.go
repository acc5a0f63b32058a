package bounty

import (
	"github.com/udisondev/bountyhunter/internal/model"
	"github.com/udisondev/bountyhunter/internal/scheduler"
)

// Combatant is per-player match state. Owned by Engine, mutated only on the
// scheduler thread.
type Combatant struct {
	id   model.PlayerID
	name string
	isAI bool
	hud  HUD // nil for AI

	killStreak int
	// killStreakBeforeDeath snapshots killStreak at death so an assist that
	// arrives after the kill still prices the victim correctly.
	killStreakBeforeDeath int
	bestStreak            int

	points  int
	kills   int
	assists int
	deaths  int

	deployed bool

	spotting  scheduler.Token
	spotHide  scheduler.Token
	flagging  scheduler.Token
	awardHide scheduler.Token

	marker    model.MarkerID
	hasMarker bool
}

func (c *Combatant) ID() model.PlayerID { return c.id }
func (c *Combatant) Name() string { return c.name }
func (c *Combatant) IsAI() bool { return c.isAI }
func (c *Combatant) KillStreak() int { return c.killStreak }
func (c *Combatant) KillStreakBeforeDeath() int { return c.killStreakBeforeDeath }
func (c *Combatant) BestStreak() int { return c.bestStreak }
func (c *Combatant) Points() int { return c.points }
func (c *Combatant) Kills() int { return c.kills }
func (c *Combatant) Assists() int { return c.assists }
func (c *Combatant) Deaths() int { return c.deaths }
func (c *Combatant) Deployed() bool { return c.deployed }

// Spotting reports whether a recurring spot task is scheduled.
func (c *Combatant) Spotting() bool { return c.spotting != 0 }

// Flagging reports whether a recurring flag task is scheduled.
func (c *Combatant) Flagging() bool { return c.flagging != 0 }

// Marker returns the flag marker, if one exists.
func (c *Combatant) Marker() (model.MarkerID, bool) { return c.marker, c.hasMarker }

func (c *Combatant) result() model.PlayerResult {
	return model.PlayerResult{
		PlayerID:   c.id,
		Name:       c.name,
		IsAI:       c.isAI,
		Points:     c.points,
		Kills:      c.kills,
		Assists:    c.assists,
		Deaths:     c.deaths,
		BestStreak: c.bestStreak,
	}
}

// HUD helpers, no-op for AI.

func (c *Combatant) setText(el model.Element, msg model.Message) {
	if c.hud != nil {
		c.hud.SetText(el, msg)
	}
}

func (c *Combatant) setVisible(el model.Element, visible bool) {
	if c.hud != nil {
		c.hud.SetVisible(el, visible)
	}
}

func (c *Combatant) notify(msg model.Message, highlight bool) {
	if c.hud != nil {
		c.hud.Notify(msg, highlight)
	}
}

func (c *Combatant) setOutline(visible bool) {
	for edge := range model.OutlineEdges {
		c.setVisible(model.Outline(edge), visible)
	}
}
