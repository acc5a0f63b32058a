package mode

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/bountyhunter/internal/config"
	"github.com/udisondev/bountyhunter/internal/model"
	"github.com/udisondev/bountyhunter/internal/scheduler"
	"github.com/udisondev/bountyhunter/internal/spawn"
	"github.com/udisondev/bountyhunter/internal/testutil"
)

type fakeRecorder struct {
	results []model.MatchResult
}

func (r *fakeRecorder) Record(result model.MatchResult) {
	r.results = append(r.results, result)
}

type fixture struct {
	mode     *Mode
	host     *testutil.FakeHost
	sched    *scheduler.Manual
	recorder *fakeRecorder
	clock    time.Time
}

func testModeConfig() config.Mode {
	cfg := config.DefaultMode()
	cfg.Spawn.PoolSize = 4
	cfg.Spawn.StartDelay = 3
	cfg.Spawn.Seed = 7
	cfg.ScavengerPoints = 0
	cfg.TargetPoints = 100
	return cfg
}

func newFixture(t *testing.T, cfg config.Mode) *fixture {
	t.Helper()

	f := &fixture{
		host:     testutil.NewFakeHost(),
		sched:    scheduler.NewManual(),
		recorder: &fakeRecorder{},
		clock:    time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	host := Host{Bounty: f.host.BountyHost(), Spawner: f.host, Announcer: f.host}

	m, err := New(cfg, host, f.sched,
		WithRecorder(f.recorder),
		WithClock(func() time.Time { return f.clock }))
	require.NoError(t, err)
	f.mode = m
	return f
}

func (f *fixture) join(id model.PlayerID) {
	f.host.AddPlayer(id, "player")
	f.mode.OnPlayerJoin(id)
}

func TestNew_InvalidConfig(t *testing.T) {
	host := testutil.NewFakeHost()
	h := Host{Bounty: host.BountyHost(), Spawner: host, Announcer: host}

	cfg := testModeConfig()
	cfg.Spawn.Rectangles = []model.Rect{{MinX: 0, MinZ: 0, MaxX: 0, MaxZ: 5}}
	_, err := New(cfg, h, scheduler.NewManual())
	assert.ErrorIs(t, err, spawn.ErrZeroArea)

	cfg = testModeConfig()
	cfg.Streaks.Multipliers = []int{3, 1}
	_, err = New(cfg, h, scheduler.NewManual())
	assert.Error(t, err)

	cfg = testModeConfig()
	cfg.BaseKillPoints = 0
	_, err = New(cfg, h, scheduler.NewManual())
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = New(testModeConfig(), Host{Bounty: host.BountyHost()}, scheduler.NewManual())
	assert.ErrorIs(t, err, ErrMissingHost)
}

func TestMode_StartCreatesPoolAndEnablesQueue(t *testing.T) {
	f := newFixture(t, testModeConfig())

	require.NoError(t, f.mode.OnGameModeStart(0))

	assert.Len(t, f.host.SpawnPoints, 4)
	assert.True(t, f.mode.Started())
	assert.NotEqual(t, uuid.Nil, f.mode.MatchID())
	assert.Equal(t, 100, f.mode.Engine().TargetPoints())
	assert.Equal(t, spawn.StateEnabledScheduled, f.mode.Queue().State())

	assert.ErrorIs(t, f.mode.OnGameModeStart(50), ErrAlreadyStarted)
}

func TestMode_Rematch(t *testing.T) {
	f := newFixture(t, testModeConfig())
	require.NoError(t, f.mode.OnGameModeStart(20))
	first := f.mode.MatchID()
	f.join(1)
	f.join(2)
	f.join(3)
	f.mode.OnPlayerDied(2, 1)
	f.mode.OnPlayerDied(3, 1)
	f.sched.Flush()
	require.True(t, f.mode.Ended())

	// joins between matches wait for the rematch; leavers are dropped
	f.join(4)
	f.host.Players[3].Gone = true
	f.mode.OnPlayerLeave(3)
	assert.Equal(t, 0, f.mode.Engine().Len())

	require.NoError(t, f.mode.OnGameModeStart(0))

	assert.True(t, f.mode.Started())
	assert.False(t, f.mode.Ended())
	assert.NotEqual(t, first, f.mode.MatchID())
	assert.Len(t, f.host.SpawnPoints, 4, "pool is reused")
	assert.Equal(t, 3, f.mode.Engine().Len())
	c, ok := f.mode.Engine().Combatant(1)
	require.True(t, ok)
	assert.Equal(t, 0, c.Points())
	_, ok = f.mode.Engine().Combatant(3)
	assert.False(t, ok)

	f.sched.Advance(3 * time.Second)
	assert.ElementsMatch(t, []model.PlayerID{1, 2, 4}, f.host.SpawnedIDs())

	assert.ErrorIs(t, f.mode.OnGameModeStart(0), ErrAlreadyStarted)

	f.mode.OnPlayerDied(4, 2)
	assert.Equal(t, model.PlayerID(2), f.mode.OnMatchTimeExpired())
	require.Len(t, f.recorder.results, 2)
	assert.NotEqual(t, f.recorder.results[0].ID, f.recorder.results[1].ID)
	assert.Len(t, f.recorder.results[1].Players, 3)
}

func TestMode_SpawnPointsInsideRegion(t *testing.T) {
	cfg := testModeConfig()
	rect := model.Rect{MinX: 10, MinZ: 20, MaxX: 30, MaxZ: 25}
	cfg.Spawn.Rectangles = []model.Rect{rect}
	cfg.Spawn.Elevation = 7
	f := newFixture(t, cfg)

	require.NoError(t, f.mode.OnGameModeStart(0))

	for _, p := range f.host.SpawnPoints {
		assert.True(t, rect.Contains(p.X(), p.Z()), "%v", p)
		assert.Equal(t, 7.0, p.Y())
	}
}

func TestMode_HumanWaitsForCountdown(t *testing.T) {
	f := newFixture(t, testModeConfig())
	require.NoError(t, f.mode.OnGameModeStart(0))

	f.join(1)
	countdown := model.Element{Kind: model.ElemDeployCountdown}
	assert.True(t, f.host.HUDs[1].Shown(countdown))

	f.sched.Advance(2 * time.Second)
	assert.Empty(t, f.host.Spawns)

	f.sched.Advance(time.Second)
	require.Equal(t, []model.PlayerID{1}, f.host.SpawnedIDs())
	assert.False(t, f.host.HUDs[1].Shown(countdown))
	assert.True(t, f.host.Spawns[0].Point >= 1 && f.host.Spawns[0].Point <= 4)
}

func TestMode_AISpawnsImmediately(t *testing.T) {
	f := newFixture(t, testModeConfig())
	require.NoError(t, f.mode.OnGameModeStart(0))

	f.host.AddAI(9, "bot")
	f.mode.OnPlayerJoin(9)

	assert.Equal(t, []model.PlayerID{9}, f.host.SpawnedIDs())
}

func TestMode_JoinBeforeStartSpawnsOnStart(t *testing.T) {
	f := newFixture(t, testModeConfig())
	f.host.AddAI(1, "bot")
	f.mode.OnPlayerJoin(1)
	f.host.AddAI(2, "bot")
	f.mode.OnPlayerJoin(2)
	assert.Empty(t, f.host.Spawns)
	assert.Equal(t, 2, f.mode.Queue().Len())

	require.NoError(t, f.mode.OnGameModeStart(0))

	assert.Equal(t, []model.PlayerID{1, 2}, f.host.SpawnedIDs())
}

func TestMode_UndeployRequeues(t *testing.T) {
	f := newFixture(t, testModeConfig())
	require.NoError(t, f.mode.OnGameModeStart(0))
	f.join(1)
	f.sched.Advance(3 * time.Second)
	f.mode.OnPlayerDeployed(1)
	require.Len(t, f.host.Spawns, 1)

	f.mode.OnPlayerUndeployed(1)
	assert.False(t, f.host.HUDs[1].Shown(model.Element{Kind: model.ElemBigBountyPanel}))
	f.sched.Advance(3 * time.Second)

	assert.Equal(t, []model.PlayerID{1, 1}, f.host.SpawnedIDs())
}

func TestMode_DeployedCancelsCountdown(t *testing.T) {
	f := newFixture(t, testModeConfig())
	require.NoError(t, f.mode.OnGameModeStart(0))
	f.join(1)

	f.mode.OnPlayerDeployed(1)
	f.sched.Advance(10 * time.Second)

	assert.Empty(t, f.host.Spawns)
	assert.Equal(t, 0, f.mode.Countdowns().Len())
	assert.True(t, f.host.HUDs[1].Shown(model.Element{Kind: model.ElemBigBountyPanel}))
}

func TestMode_LeaveDuringCountdown(t *testing.T) {
	f := newFixture(t, testModeConfig())
	require.NoError(t, f.mode.OnGameModeStart(0))
	f.join(1)

	f.sched.Advance(time.Second)
	f.mode.OnPlayerLeave(1)
	f.sched.Advance(10 * time.Second)

	assert.Empty(t, f.host.Spawns)
	assert.Equal(t, 0, f.mode.Engine().Len())
}

func TestMode_LeftPlayerSkippedByQueue(t *testing.T) {
	f := newFixture(t, testModeConfig())
	f.host.AddAI(1, "bot")
	f.mode.OnPlayerJoin(1)
	f.host.AddAI(2, "bot")
	f.mode.OnPlayerJoin(2)
	f.host.Players[1].Gone = true

	require.NoError(t, f.mode.OnGameModeStart(0))

	assert.Equal(t, []model.PlayerID{2}, f.host.SpawnedIDs())
}

func TestMode_TimeExpired(t *testing.T) {
	f := newFixture(t, testModeConfig())
	require.NoError(t, f.mode.OnGameModeStart(0))
	f.join(1)
	f.join(2)
	f.join(3)
	f.mode.OnPlayerDied(2, 3)
	f.mode.OnPlayerAssist(1, 2)
	f.clock = f.clock.Add(10 * time.Minute)

	winner := f.mode.OnMatchTimeExpired()

	assert.Equal(t, model.PlayerID(3), winner)
	assert.True(t, f.mode.Ended())
	require.Equal(t, []testutil.WinnerCall{{Winner: 3, Reason: model.ReasonTimeExpired}}, f.host.Winners)

	require.Len(t, f.recorder.results, 1)
	res := f.recorder.results[0]
	assert.Equal(t, f.mode.MatchID(), res.ID)
	assert.Equal(t, "bounty_hunter", res.Mode)
	assert.Equal(t, 10*time.Minute, res.Duration())
	assert.Equal(t, 100, res.TargetPoints)
	require.Len(t, res.Players, 3)
	assert.Equal(t, model.PlayerID(3), res.Players[0].PlayerID)
	assert.Equal(t, 10, res.Players[0].Points)
	assert.Equal(t, 5, res.Players[1].Points)
	assert.Equal(t, 1, res.Players[1].Assists)

	// idempotent
	assert.Equal(t, model.PlayerID(3), f.mode.OnMatchTimeExpired())
	assert.Len(t, f.recorder.results, 1)
	assert.Len(t, f.host.Winners, 1)

	assert.Equal(t, spawn.StateIdle, f.mode.Queue().State())
	assert.Equal(t, 0, f.sched.Pending())
}

func TestMode_TargetReachedEndsMatch(t *testing.T) {
	cfg := testModeConfig()
	f := newFixture(t, cfg)
	require.NoError(t, f.mode.OnGameModeStart(20))
	f.join(1)
	f.join(2)
	f.join(3)

	f.mode.OnPlayerDied(2, 1)
	f.mode.OnPlayerDied(3, 1)
	assert.False(t, f.mode.Ended(), "end runs after the current turn")

	f.sched.Flush()

	assert.True(t, f.mode.Ended())
	require.Len(t, f.host.Winners, 1)
	assert.Equal(t, testutil.WinnerCall{Winner: 1, Reason: model.ReasonTargetReached}, f.host.Winners[0])
	require.Len(t, f.recorder.results, 1)
	assert.Equal(t, 20, f.recorder.results[0].TargetPoints)

	// events after end are ignored
	f.join(4)
	f.mode.OnPlayerDied(1, 2)
	assert.Equal(t, 0, f.mode.Engine().Len())
}

func TestMode_TimeExpiredWithoutPlayers(t *testing.T) {
	f := newFixture(t, testModeConfig())
	require.NoError(t, f.mode.OnGameModeStart(0))

	assert.Equal(t, model.NoPlayer, f.mode.OnMatchTimeExpired())
	require.Len(t, f.recorder.results, 1)
	assert.Empty(t, f.recorder.results[0].Players)
}

func TestMode_Deterministic(t *testing.T) {
	a := newFixture(t, testModeConfig())
	b := newFixture(t, testModeConfig())
	require.NoError(t, a.mode.OnGameModeStart(0))
	require.NoError(t, b.mode.OnGameModeStart(0))

	assert.Equal(t, a.host.SpawnPoints, b.host.SpawnPoints)
}
