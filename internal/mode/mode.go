// Package mode wires the bounty engine and the drop-in spawn system to the
// host's game-mode event surface.
package mode

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/bountyhunter/internal/config"
	"github.com/udisondev/bountyhunter/internal/game/bounty"
	"github.com/udisondev/bountyhunter/internal/game/streak"
	"github.com/udisondev/bountyhunter/internal/model"
	"github.com/udisondev/bountyhunter/internal/scheduler"
	"github.com/udisondev/bountyhunter/internal/spawn"
)

// Errors.
var (
	ErrAlreadyStarted = errors.New("game mode already started")
	ErrMissingHost    = errors.New("game mode host collaborator is nil")
)

// Option configures Mode.
type Option func(*Mode)

// WithRecorder sets where finished matches go.
func WithRecorder(r Recorder) Option {
	return func(m *Mode) { m.recorder = r }
}

// WithClock overrides time.Now for match timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Mode) { m.now = now }
}

// Mode runs Bounty Hunter matches one after another. Each OnGameModeStart
// after a finished match starts a rematch with fresh engine state. All
// methods must be called on the scheduler thread.
type Mode struct {
	cfg      config.Mode
	host     Host
	sched    scheduler.Scheduler
	recorder Recorder
	now      func() time.Time
	table    *streak.Table

	engine     *bounty.Engine
	region     *spawn.Region
	pool       *spawn.Pool
	poolRng    *rand.Rand
	queue      *spawn.Queue
	countdowns *spawn.Countdowns

	matchID      uuid.UUID
	startedAt    time.Time
	targetPoints int
	started      bool
	ended        bool
	result       model.MatchResult

	// joined after the last match ended, waiting for the rematch
	lobby []model.PlayerID
}

// New validates cfg and builds every component. The spawn pool is created
// at OnGameModeStart.
func New(cfg config.Mode, host Host, sched scheduler.Scheduler, opts ...Option) (*Mode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating mode config: %w", err)
	}
	if host.Spawner == nil || host.Announcer == nil {
		return nil, ErrMissingHost
	}

	table, err := streak.New(cfg.BaseKillPoints, streak.Tables{
		Multipliers:       cfg.Streaks.Multipliers,
		SpottingDurations: cfg.Streaks.SpottingDurations,
		SpottingDelays:    cfg.Streaks.SpottingDelays,
		FlaggingDelays:    cfg.Streaks.FlaggingDelays,
		AwardSounds:       cfg.Streaks.AwardSounds,
	})
	if err != nil {
		return nil, fmt.Errorf("building streak table: %w", err)
	}

	regionRng, poolRng := seededRands(cfg.Spawn.Seed)
	region, err := spawn.NewRegion(cfg.Spawn.Rectangles, cfg.Spawn.Elevation, regionRng)
	if err != nil {
		return nil, err
	}

	m := &Mode{
		cfg:     cfg,
		host:    host,
		sched:   sched,
		now:     time.Now,
		table:   table,
		region:  region,
		poolRng: poolRng,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.build(); err != nil {
		return nil, err
	}
	return m, nil
}

// build creates the per-match engine, spawn queue and countdowns.
func (m *Mode) build() error {
	engine, err := bounty.New(engineConfig(m.cfg), m.table, m.host.Bounty, m.sched)
	if err != nil {
		return fmt.Errorf("building bounty engine: %w", err)
	}
	m.engine = engine
	m.queue = spawn.NewQueue(placer{m}, placer{m}, m.sched, m.cfg.Spawn.QueueProcessingDelay)
	m.countdowns = spawn.NewCountdowns(m.sched, m.queue, engine.ShowDeployCountdown)
	return nil
}

func engineConfig(cfg config.Mode) bounty.Config {
	return bounty.Config{
		BigBountyThreshold: cfg.BigBountyThreshold,
		MaxBigBounties:     cfg.MaxBigBounties,
		AwardDuration:      cfg.AwardDuration,
		AwardSounds:        cfg.AwardSounds,
		SoundDuration:      cfg.SoundDuration,
		SoundAmplitude:     cfg.SoundAmplitude,
		FlagMarkerHeight:   cfg.FlagMarkerHeight,
		ScavengerPoints:    cfg.ScavengerPoints,
		ScavengerLifetime:  cfg.ScavengerLifetime,
	}
}

// seededRands returns sources for the region and the pool. seed 0 means random.
func seededRands(seed uint64) (*rand.Rand, *rand.Rand) {
	if seed == 0 {
		return nil, nil
	}
	return rand.New(rand.NewPCG(seed, 1)), rand.New(rand.NewPCG(seed, 2))
}

// Engine returns the bounty engine of the current match.
func (m *Mode) Engine() *bounty.Engine { return m.engine }

// Queue returns the spawn queue.
func (m *Mode) Queue() *spawn.Queue { return m.queue }

// Countdowns returns the deploy countdowns.
func (m *Mode) Countdowns() *spawn.Countdowns { return m.countdowns }

// MatchID returns the id assigned at start (uuid.Nil before).
func (m *Mode) MatchID() uuid.UUID { return m.matchID }

// Started reports whether OnGameModeStart succeeded for the current match.
func (m *Mode) Started() bool { return m.started }

// Ended reports whether the match is over.
func (m *Mode) Ended() bool { return m.ended }

// Result returns the final result. Valid only after Ended.
func (m *Mode) Result() model.MatchResult { return m.result }

// placer adapts Mode to the spawn queue.
type placer struct{ m *Mode }

func (p placer) Valid(id model.PlayerID) bool {
	if _, ok := p.m.engine.Combatant(id); !ok {
		return false
	}
	return p.m.host.Bounty.Directory.Valid(id)
}

func (p placer) Place(id model.PlayerID, at spawn.PrecomputedSpawn) {
	p.m.host.Spawner.SpawnPlayer(id, at.Point)
	slog.Debug("player spawned", "playerID", id, "spawnPoint", at.Point, "index", at.Index)
}

func (p placer) Pick() spawn.PrecomputedSpawn {
	return p.m.pool.Pick()
}
