package mode

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/udisondev/bountyhunter/internal/model"
	"github.com/udisondev/bountyhunter/internal/spawn"
)

// OnGameModeStart places the spawn pool, arms the target and opens the
// spawn queue. targetPoints <= 0 uses the configured target. Starting again
// after the match ended begins a rematch; the spawn pool is reused.
func (m *Mode) OnGameModeStart(targetPoints int) error {
	if m.started && !m.ended {
		return ErrAlreadyStarted
	}
	if m.ended {
		if err := m.rematch(); err != nil {
			return err
		}
	}

	if m.pool == nil {
		pool, err := spawn.NewPool(m.region, m.cfg.Spawn.PoolSize, m.host.Spawner, m.poolRng)
		if err != nil {
			return fmt.Errorf("creating spawn pool: %w", err)
		}
		m.pool = pool
	}
	pool := m.pool

	if targetPoints <= 0 {
		targetPoints = m.cfg.TargetPoints
	}
	m.targetPoints = targetPoints
	m.engine.SetTargetPoints(targetPoints)
	m.engine.OnTargetReached(func(winner model.PlayerID) {
		m.end(winner, model.ReasonTargetReached)
	})

	m.matchID = uuid.New()
	m.startedAt = m.now()
	m.started = true

	slog.Info("game mode started",
		"mode", m.cfg.Name,
		"matchID", m.matchID,
		"targetPoints", targetPoints,
		"spawnPoints", pool.Len(),
		"combatants", m.engine.Len())

	m.queue.Enable()
	return nil
}

// OnPlayerJoin registers the player and starts its deploy countdown.
func (m *Mode) OnPlayerJoin(id model.PlayerID) {
	if !id.Valid() {
		return
	}
	if m.ended {
		if !slices.Contains(m.lobby, id) {
			m.lobby = append(m.lobby, id)
		}
		return
	}
	m.engine.AddCombatant(id)
	m.startCountdown(id)
}

// OnPlayerLeave drops every trace of the player.
func (m *Mode) OnPlayerLeave(id model.PlayerID) {
	m.lobby = slices.DeleteFunc(m.lobby, func(l model.PlayerID) bool { return l == id })
	m.countdowns.Cancel(id)
	m.queue.Remove(id)
	m.engine.RemoveCombatant(id)
}

// OnPlayerDeployed is called once the player is in the world.
func (m *Mode) OnPlayerDeployed(id model.PlayerID) {
	if m.ended {
		return
	}
	m.countdowns.Cancel(id)
	m.engine.HandleDeployed(id)
}

// OnPlayerUndeployed hides the panel and sends the player back to the queue.
func (m *Mode) OnPlayerUndeployed(id model.PlayerID) {
	if m.ended {
		return
	}
	m.engine.HandleUndeployed(id)
	if _, ok := m.engine.Combatant(id); ok {
		m.startCountdown(id)
	}
}

// OnPlayerDied processes a death. killer may be NoPlayer.
func (m *Mode) OnPlayerDied(victim, killer model.PlayerID) {
	if m.ended {
		return
	}
	m.engine.HandleKill(killer, victim)
}

// OnPlayerAssist processes an assist.
func (m *Mode) OnPlayerAssist(assister, victim model.PlayerID) {
	if m.ended {
		return
	}
	m.engine.HandleAssist(assister, victim)
}

// OnMatchTimeExpired ends the match and returns the leader.
func (m *Mode) OnMatchTimeExpired() model.PlayerID {
	if m.ended {
		return m.result.Winner
	}
	winner, _ := m.engine.Leader()
	m.end(winner, model.ReasonTimeExpired)
	return winner
}

// Shutdown stops every timer without recording a result.
func (m *Mode) Shutdown() {
	m.queue.Disable()
	m.countdowns.Stop()
	m.engine.Shutdown()
}

func (m *Mode) startCountdown(id model.PlayerID) {
	c, ok := m.engine.Combatant(id)
	if !ok {
		return
	}
	delay := m.cfg.Spawn.StartDelay
	if c.IsAI() {
		delay = 0
	}
	m.countdowns.Start(id, delay)
}

// rematch swaps the finished match for a fresh one. Players of the last
// match and the lobby carry over while the host still knows them.
func (m *Mode) rematch() error {
	carry := make([]model.PlayerID, 0, len(m.result.Players)+len(m.lobby))
	for _, p := range m.result.Players {
		carry = append(carry, p.PlayerID)
	}
	carry = append(carry, m.lobby...)

	if err := m.build(); err != nil {
		return err
	}
	m.lobby = nil
	m.started = false
	m.ended = false
	m.result = model.MatchResult{}

	for _, id := range carry {
		if !m.host.Bounty.Directory.Valid(id) {
			continue
		}
		if _, ok := m.engine.Combatant(id); ok {
			continue
		}
		m.engine.AddCombatant(id)
		m.startCountdown(id)
	}
	slog.Debug("rematch prepared", "combatants", m.engine.Len())
	return nil
}

func (m *Mode) end(winner model.PlayerID, reason string) {
	if m.ended {
		return
	}
	m.ended = true

	m.result = model.MatchResult{
		ID:           m.matchID,
		Mode:         m.cfg.Name,
		StartedAt:    m.startedAt,
		EndedAt:      m.now(),
		TargetPoints: m.targetPoints,
		Winner:       winner,
		Reason:       reason,
		Players:      m.engine.Snapshot(),
	}

	slog.Info("match ended",
		"matchID", m.matchID,
		"winner", winner,
		"reason", reason,
		"duration", m.result.Duration(),
		"players", len(m.result.Players))

	m.Shutdown()
	m.host.Announcer.AnnounceWinner(winner, reason)
	if m.recorder != nil {
		m.recorder.Record(m.result)
	}
}
