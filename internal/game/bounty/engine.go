// Package bounty implements Bounty Hunter scoring: kill streaks, bounties,
// big-bounty tracking, spotting and flagging of dangerous players.
package bounty

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/udisondev/bountyhunter/internal/game/streak"
	"github.com/udisondev/bountyhunter/internal/model"
	"github.com/udisondev/bountyhunter/internal/scheduler"
)

// Engine owns the combatant registry and the big-bounty tracker.
// All methods must be called on the scheduler thread.
type Engine struct {
	cfg   Config
	table *streak.Table
	host  Host
	sched scheduler.Scheduler

	combatants map[model.PlayerID]*Combatant
	tracker    *Tracker
	drops      map[model.DropID]scheduler.Token

	targetPoints    int
	targetReached   bool
	onTargetReached func(winner model.PlayerID)
}

// New creates engine for one match.
func New(cfg Config, table *streak.Table, host Host, sched scheduler.Scheduler) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("%w: nil streak table", ErrInvalidConfig)
	}
	if err := host.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		table:      table,
		host:       host,
		sched:      sched,
		combatants: make(map[model.PlayerID]*Combatant),
		drops:      make(map[model.DropID]scheduler.Token),
	}
	e.tracker = NewTracker(cfg.BigBountyThreshold, sched, e.renderAll)
	return e, nil
}

// Tracker returns the big-bounty tracker.
func (e *Engine) Tracker() *Tracker {
	return e.tracker
}

// AddCombatant registers a player. Adding an already registered player
// returns the existing combatant.
func (e *Engine) AddCombatant(id model.PlayerID) *Combatant {
	if c, ok := e.combatants[id]; ok {
		return c
	}

	c := &Combatant{
		id:   id,
		name: e.host.Directory.Name(id),
		isAI: e.host.Directory.IsAI(id),
	}
	if !c.isAI {
		c.hud = e.host.HUDs.NewHUD(id)
	}
	e.combatants[id] = c

	c.setText(model.Element{Kind: model.ElemKillStreak}, model.Msg(MsgKillStreak, 0))
	c.setVisible(model.Element{Kind: model.ElemSpotted}, false)
	c.setVisible(model.Element{Kind: model.ElemAward}, false)
	c.setVisible(model.Element{Kind: model.ElemBigBountyPanel}, false)
	c.setOutline(false)
	e.pushRow(c)
	e.pushModeScore(c)

	slog.Debug("combatant added", "playerID", id, "name", c.name, "ai", c.isAI)
	return c
}

// RemoveCombatant destroys a player's state. Returns false if unknown.
func (e *Engine) RemoveCombatant(id model.PlayerID) bool {
	c, ok := e.combatants[id]
	if !ok {
		return false
	}
	e.destroy(c)
	return true
}

// Combatant returns a registered combatant.
func (e *Engine) Combatant(id model.PlayerID) (*Combatant, bool) {
	c, ok := e.combatants[id]
	return c, ok
}

// Len returns number of registered combatants.
func (e *Engine) Len() int {
	return len(e.combatants)
}

// HandleKill processes a death. killer and victim may be NoPlayer.
func (e *Engine) HandleKill(killer, victim model.PlayerID) {
	k := e.resolve(killer)
	v := e.resolve(victim)

	if v == nil {
		// No victim, no bounty to price.
		slog.Debug("kill without registered victim", "killer", killer, "victim", victim)
		return
	}

	victimStreak := v.killStreak
	e.dropScavenger(v)
	bounty := e.table.Bounty(victimStreak)

	if e.tracker.Remove(v.id) && bounty >= e.cfg.BigBountyThreshold {
		e.broadcastCollected(k, v, bounty)
	}

	v.killStreakBeforeDeath = v.killStreak
	v.deaths++
	v.killStreak = 0
	v.setVisible(model.Element{Kind: model.ElemBigBountyPanel}, false)
	v.setText(model.Element{Kind: model.ElemKillStreak}, model.Msg(MsgKillStreak, 0))
	e.stopFlagging(v)
	e.stopSpotting(v)
	e.pushRow(v)

	if k == nil || k == v {
		return
	}

	k.points += bounty
	k.kills++
	k.killStreak++
	k.bestStreak = max(k.bestStreak, k.killStreak)

	if !k.isAI {
		e.playAward(k, victimStreak)
		e.showAward(k, bounty)
		k.notify(model.Msg(MsgKillFeed, v.name, victimStreak, bounty), true)
		k.setText(model.Element{Kind: model.ElemKillStreak}, model.Msg(MsgKillStreak, k.killStreak))
	}
	e.pushRow(k)
	e.pushModeScore(k)

	slog.Debug("bounty awarded",
		"killer", k.id,
		"victim", v.id,
		"victimStreak", victimStreak,
		"bounty", bounty,
		"killerStreak", k.killStreak,
		"points", k.points)

	e.reschedule(k)
	e.checkTarget(k)
}

// HandleAssist awards half the victim's bounty. Kill and assist for the same
// death may arrive in either order; a victim already reset by the kill is
// priced from its pre-death streak.
func (e *Engine) HandleAssist(assister, victim model.PlayerID) {
	if assister == victim {
		return
	}
	a := e.resolve(assister)
	if a == nil {
		return
	}
	v := e.resolve(victim)
	if v == nil {
		return
	}

	s := v.killStreak
	if s == 0 {
		s = v.killStreakBeforeDeath
	}
	award := e.table.AssistBounty(s)

	a.points += award
	a.assists++
	a.notify(model.Msg(MsgAssist, v.name, award), false)
	e.pushRow(a)
	e.pushModeScore(a)

	slog.Debug("assist awarded", "assister", a.id, "victim", v.id, "streak", s, "points", award)
	e.checkTarget(a)
}

// HandleDeployed marks the player as back in the world.
func (e *Engine) HandleDeployed(id model.PlayerID) {
	c := e.resolve(id)
	if c == nil {
		return
	}
	c.killStreakBeforeDeath = 0
	c.deployed = true
	c.setVisible(model.Element{Kind: model.ElemBigBountyPanel}, true)
	e.render(c, e.tracker.Sorted())
}

// HandleUndeployed marks the player as out of the world.
func (e *Engine) HandleUndeployed(id model.PlayerID) {
	c := e.resolve(id)
	if c == nil {
		return
	}
	c.deployed = false
	c.setVisible(model.Element{Kind: model.ElemBigBountyPanel}, false)
}

// Leader returns the combatant with most points, lowest id on ties.
// Returns false when nobody is registered.
func (e *Engine) Leader() (model.PlayerID, bool) {
	var best *Combatant
	for _, c := range e.combatants {
		if best == nil || c.points > best.points || (c.points == best.points && c.id < best.id) {
			best = c
		}
	}
	if best == nil {
		return model.NoPlayer, false
	}
	return best.id, true
}

// SetTargetPoints arms the target check. n <= 0 disables it.
func (e *Engine) SetTargetPoints(n int) {
	e.targetPoints = n
	e.targetReached = false
}

// TargetPoints returns current target.
func (e *Engine) TargetPoints() int {
	return e.targetPoints
}

// OnTargetReached sets the callback fired once, after the current turn, when
// a combatant reaches the target.
func (e *Engine) OnTargetReached(fn func(winner model.PlayerID)) {
	e.onTargetReached = fn
}

// Snapshot returns every combatant's stats, best first.
func (e *Engine) Snapshot() []model.PlayerResult {
	out := make([]model.PlayerResult, 0, len(e.combatants))
	for _, c := range e.combatants {
		out = append(out, c.result())
	}
	slices.SortFunc(out, func(a, b model.PlayerResult) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out
}

// Shutdown tears down every combatant and drop.
func (e *Engine) Shutdown() {
	for _, id := range slices.Sorted(maps.Keys(e.combatants)) {
		e.destroy(e.combatants[id])
	}
	for _, id := range slices.Sorted(maps.Keys(e.drops)) {
		e.sched.Cancel(e.drops[id])
		delete(e.drops, id)
		e.host.Scavenger.RemoveDrop(id)
	}
	e.tracker.Clear()
	e.onTargetReached = nil
}

// resolve returns the registered combatant for id, purging it first if
// the host no longer knows the player.
func (e *Engine) resolve(id model.PlayerID) *Combatant {
	if !id.Valid() {
		return nil
	}
	c, ok := e.combatants[id]
	if !ok {
		return nil
	}
	if !e.host.Directory.Valid(id) {
		slog.Debug("purging stale combatant", "playerID", id)
		e.destroy(c)
		return nil
	}
	return c
}

func (e *Engine) destroy(c *Combatant) {
	e.stopSpotting(c)
	e.stopFlagging(c)
	e.sched.Cancel(c.awardHide)
	c.awardHide = 0

	delete(e.combatants, c.id)
	e.tracker.Remove(c.id)

	if c.hud != nil {
		c.hud.Destroy()
		c.hud = nil
	}
	slog.Debug("combatant destroyed", "playerID", c.id)
}

func (e *Engine) pushRow(c *Combatant) {
	e.host.Scoreboard.SetRow(c.id, model.ScoreRow{
		Points:     c.points,
		Kills:      c.kills,
		Assists:    c.assists,
		Deaths:     c.deaths,
		NextBounty: e.table.Bounty(c.killStreak),
	})
}

func (e *Engine) pushModeScore(c *Combatant) {
	e.host.Scoreboard.SetModeScore(c.id, c.points)
}

func (e *Engine) checkTarget(c *Combatant) {
	if e.targetPoints <= 0 || e.targetReached || c.points < e.targetPoints {
		return
	}
	e.targetReached = true
	slog.Info("target points reached", "playerID", c.id, "points", c.points, "target", e.targetPoints)

	if fn := e.onTargetReached; fn != nil {
		winner := c.id
		e.sched.Defer(func() { fn(winner) })
	}
}
