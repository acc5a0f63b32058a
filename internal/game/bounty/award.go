package bounty

import (
	"github.com/udisondev/bountyhunter/internal/game/streak"
	"github.com/udisondev/bountyhunter/internal/model"
)

// playAward plays the award sound picked by the victim's streak.
func (e *Engine) playAward(k *Combatant, victimStreak int) {
	idx := e.table.AwardSound(victimStreak)
	asset := streak.Lookup(e.cfg.AwardSounds, idx)
	e.host.Sound.Play(asset, model.SoundOptions{
		Duration:  e.cfg.SoundDuration,
		Target:    k.id,
		Amplitude: e.cfg.SoundAmplitude,
	})
}

// showAward shows the award popup and hides it after AwardDuration.
// A newer award restarts the timer.
func (e *Engine) showAward(k *Combatant, bounty int) {
	el := model.Element{Kind: model.ElemAward}
	k.setText(el, model.Msg(MsgAward, bounty))
	k.setVisible(el, true)

	e.sched.Cancel(k.awardHide)
	k.awardHide = e.sched.After(e.cfg.AwardDuration, func() {
		k.awardHide = 0
		k.setVisible(el, false)
	})
}

// broadcastCollected tells everyone but the victim that a big bounty fell.
func (e *Engine) broadcastCollected(k, v *Combatant, bounty int) {
	msg := model.Msg(MsgBountyLost, v.name, bounty)
	if k != nil && k != v {
		msg = model.Msg(MsgBountyCollected, k.name, v.name, bounty)
	}
	for _, c := range e.sortedCombatants() {
		if c == v {
			continue
		}
		c.notify(msg, false)
	}
}
