package bridge_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/bountyhunter/internal/bridge"
	"github.com/udisondev/bountyhunter/internal/config"
	"github.com/udisondev/bountyhunter/internal/db"
	"github.com/udisondev/bountyhunter/internal/mode"
	"github.com/udisondev/bountyhunter/internal/model"
	"github.com/udisondev/bountyhunter/internal/scheduler"
	"github.com/udisondev/bountyhunter/internal/testutil"
)

func send(t *testing.T, ws *websocket.Conn, typ string, payload any) {
	t.Helper()
	data, err := bridge.Encode(typ, payload)
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.BinaryMessage, data))
}

// readUntil reads commands until want arrives and returns it with every type seen.
func readUntil(t *testing.T, ws *websocket.Conn, want string) (bridge.InEnvelope, []string) {
	t.Helper()
	var seen []string
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, data, err := ws.ReadMessage()
		require.NoError(t, err, "waiting for %s, got %v", want, seen)
		env, err := bridge.Decode(data)
		require.NoError(t, err)
		seen = append(seen, env.T)
		if env.T == want {
			return env, seen
		}
	}
}

func TestBridge_FullMatch(t *testing.T) {
	ctx, cancel := testutil.ContextWithCancel(t)

	repo, err := db.OpenSQLite(ctx, config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "history.db"),
	}.DSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	recorder := db.NewRecorder(repo, time.Second)
	recDone := make(chan error, 1)
	go func() { recDone <- recorder.Run(ctx) }()

	loop := scheduler.NewLoop(256)
	go func() { _ = loop.Start(ctx) }()

	bridgeCfg := config.DefaultServer().Bridge
	bridgeCfg.Secret = "integration"
	br := bridge.New(bridgeCfg, loop)

	modeCfg := config.DefaultMode()
	modeCfg.Spawn.PoolSize = 2
	modeCfg.Spawn.Seed = 11
	modeCfg.ScavengerPoints = 0
	game, err := mode.New(modeCfg, br.Host(), loop, mode.WithRecorder(recorder))
	require.NoError(t, err)
	br.Attach(game)

	srv := httptest.NewServer(br.Handler())
	t.Cleanup(srv.Close)
	t.Cleanup(cancel)

	token, err := br.Authenticator().Issue(time.Minute)
	require.NoError(t, err)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	ws, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/bridge", header)
	require.NoError(t, err)
	resp.Body.Close()
	defer ws.Close()
	require.Eventually(t, br.Connected, time.Second, 5*time.Millisecond)

	send(t, ws, bridge.MsgModeStart, bridge.ModeStartMsg{TargetPoints: 20})
	env, _ := readUntil(t, ws, bridge.MsgSpawnPoint)
	var sp bridge.SpawnPointMsg
	require.NoError(t, bridge.DecodePayload(env, &sp))
	assert.Equal(t, model.SpawnPointID(1), sp.ID)

	// bots are queued at once, no countdown
	send(t, ws, bridge.MsgJoin, bridge.JoinMsg{Player: 1, Name: "Hunter", AI: true})
	env, _ = readUntil(t, ws, bridge.MsgSpawn)
	var spawned bridge.SpawnMsg
	require.NoError(t, bridge.DecodePayload(env, &spawned))
	assert.Equal(t, model.PlayerID(1), spawned.Player)

	send(t, ws, bridge.MsgJoin, bridge.JoinMsg{Player: 2, Name: "Prey", AI: true})
	readUntil(t, ws, bridge.MsgSpawn)

	for _, id := range []model.PlayerID{1, 2} {
		send(t, ws, bridge.MsgDeploy, bridge.PlayerMsg{Player: id})
	}
	send(t, ws, bridge.MsgPositions, bridge.PositionsMsg{Players: []bridge.PositionMsg{
		{Player: 1, Pos: bridge.Vec{X: 0, Z: 0}, Alive: true},
		{Player: 2, Pos: bridge.Vec{X: 30, Z: 40}, Alive: true},
	}})

	send(t, ws, bridge.MsgDied, bridge.DiedMsg{Victim: 2, Killer: 1})
	env, _ = readUntil(t, ws, bridge.MsgModeScore)
	var score bridge.ModeScoreMsg
	require.NoError(t, bridge.DecodePayload(env, &score))
	assert.Equal(t, bridge.ModeScoreMsg{Player: 1, Points: 10}, score)

	// victim goes back to the queue via undeploy
	send(t, ws, bridge.MsgUndeploy, bridge.PlayerMsg{Player: 2})
	readUntil(t, ws, bridge.MsgSpawn)
	send(t, ws, bridge.MsgDeploy, bridge.PlayerMsg{Player: 2})

	send(t, ws, bridge.MsgDied, bridge.DiedMsg{Victim: 2, Killer: 1})
	env, _ = readUntil(t, ws, bridge.MsgMatchEnd)
	var end bridge.MatchEndMsg
	require.NoError(t, bridge.DecodePayload(env, &end))
	assert.Equal(t, bridge.MatchEndMsg{Winner: 1, Reason: model.ReasonTargetReached}, end)

	done := make(chan model.MatchResult, 1)
	require.True(t, loop.Submit(func() { done <- game.Result() }))
	result := <-done
	assert.True(t, game.Ended())

	require.Eventually(t, func() bool {
		_, err := repo.LoadMatch(ctx, result.ID)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	saved, err := repo.LoadMatch(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlayerID(1), saved.Winner)
	assert.Equal(t, 20, saved.TargetPoints)
	require.Len(t, saved.Players, 2)
	assert.Equal(t, "Hunter", saved.Players[0].Name)
	assert.Equal(t, 20, saved.Players[0].Points)
	assert.Equal(t, 2, saved.Players[0].Kills)
	assert.Equal(t, 2, saved.Players[1].Deaths)
	assert.True(t, saved.Players[1].IsAI)

	cancel()
	assert.NoError(t, <-recDone)
}
