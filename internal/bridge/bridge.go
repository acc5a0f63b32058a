package bridge

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/bountyhunter/internal/config"
	"github.com/udisondev/bountyhunter/internal/game/bounty"
	"github.com/udisondev/bountyhunter/internal/mode"
	"github.com/udisondev/bountyhunter/internal/model"
)

// Events receives host events. Every call happens on the game loop.
type Events interface {
	OnGameModeStart(targetPoints int) error
	OnPlayerJoin(id model.PlayerID)
	OnPlayerLeave(id model.PlayerID)
	OnPlayerDeployed(id model.PlayerID)
	OnPlayerUndeployed(id model.PlayerID)
	OnPlayerDied(victim, killer model.PlayerID)
	OnPlayerAssist(assister, victim model.PlayerID)
	OnMatchTimeExpired() model.PlayerID
}

// Submitter runs fn on the game loop.
type Submitter interface {
	Submit(fn func()) bool
}

// playerState is the cached view of a host player.
type playerState struct {
	name     string
	ai       bool
	pos      model.Location
	embodied bool
}

// Bridge connects the game mode to a remote host engine. Collaborator
// methods and event dispatch run on the game loop; only the connection
// slot is shared with the HTTP goroutines.
type Bridge struct {
	cfg  config.BridgeConfig
	auth *Authenticator
	loop Submitter

	connMu sync.Mutex
	conn   *hostConn

	connected atomic.Bool
	players   atomic.Int64

	// owned by the game loop
	events         Events
	directory      map[model.PlayerID]*playerState
	dropCallbacks  map[model.DropID]func(model.PlayerID)
	lastMarker     model.MarkerID
	lastSpawnPoint model.SpawnPointID
	lastDrop       model.DropID
}

// New creates a bridge. Attach must be called before the host connects.
func New(cfg config.BridgeConfig, loop Submitter) *Bridge {
	return &Bridge{
		cfg:           cfg,
		auth:          NewAuthenticator(cfg.Secret, cfg.ServerID),
		loop:          loop,
		directory:     make(map[model.PlayerID]*playerState),
		dropCallbacks: make(map[model.DropID]func(model.PlayerID)),
	}
}

// Attach sets the receiver of host events.
func (b *Bridge) Attach(ev Events) {
	b.events = ev
}

// Authenticator returns the token verifier of this bridge.
func (b *Bridge) Authenticator() *Authenticator {
	return b.auth
}

// Host returns the bridge as the full set of mode collaborators.
func (b *Bridge) Host() mode.Host {
	return mode.Host{
		Bounty: bounty.Host{
			Directory:  b,
			Spatial:    b,
			Markers:    b,
			HUDs:       b,
			Scoreboard: b,
			Sound:      b,
			Spotter:    b,
			Scavenger:  b,
		},
		Spawner:   b,
		Announcer: b,
	}
}

// Connected reports whether a host is attached.
func (b *Bridge) Connected() bool {
	return b.connected.Load()
}

// Players returns the number of players known from the host.
func (b *Bridge) Players() int {
	return int(b.players.Load())
}

// setConn installs c as the active connection and closes the previous one.
func (b *Bridge) setConn(c *hostConn) {
	b.connMu.Lock()
	old := b.conn
	b.conn = c
	b.connMu.Unlock()
	b.connected.Store(true)

	if old != nil {
		slog.Info("host connection replaced", "old", old.remote, "new", c.remote)
		old.Close()
	}
}

// dropConn clears the slot if c is still the active connection.
func (b *Bridge) dropConn(c *hostConn) {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	if b.conn == c {
		b.conn = nil
		b.connected.Store(false)
	}
}

func (b *Bridge) send(t string, payload any) {
	b.connMu.Lock()
	c := b.conn
	b.connMu.Unlock()
	if c == nil {
		slog.Debug("no host connection, dropping command", "type", t)
		return
	}

	data, err := Encode(t, payload)
	if err != nil {
		slog.Error("failed to encode command", "type", t, "error", err)
		return
	}
	if err := c.Send(data); err != nil {
		slog.Warn("failed to send command", "type", t, "error", err)
	}
}

// handleFrame decodes a frame on the read goroutine and submits the
// resulting event to the loop.
func (b *Bridge) handleFrame(data []byte) {
	env, err := Decode(data)
	if err != nil {
		slog.Warn("dropping malformed frame", "error", err)
		return
	}

	apply, err := b.decodeEvent(env)
	if err != nil {
		slog.Warn("dropping malformed message", "type", env.T, "error", err)
		return
	}
	if apply == nil {
		slog.Debug("unknown message type", "type", env.T)
		return
	}
	if !b.loop.Submit(apply) {
		slog.Debug("game loop stopped, dropping message", "type", env.T)
	}
}

func (b *Bridge) decodeEvent(env InEnvelope) (func(), error) {
	switch env.T {
	case MsgJoin:
		var m JoinMsg
		if err := DecodePayload(env, &m); err != nil {
			return nil, err
		}
		return func() { b.join(m) }, nil

	case MsgLeave, MsgDeploy, MsgUndeploy:
		var m PlayerMsg
		if err := DecodePayload(env, &m); err != nil {
			return nil, err
		}
		switch env.T {
		case MsgLeave:
			return func() { b.leave(m.Player) }, nil
		case MsgDeploy:
			return func() { b.deploy(m.Player) }, nil
		default:
			return func() { b.undeploy(m.Player) }, nil
		}

	case MsgDied:
		var m DiedMsg
		if err := DecodePayload(env, &m); err != nil {
			return nil, err
		}
		return func() { b.died(m) }, nil

	case MsgAssist:
		var m AssistMsg
		if err := DecodePayload(env, &m); err != nil {
			return nil, err
		}
		return func() { b.events.OnPlayerAssist(m.Assister, m.Victim) }, nil

	case MsgPositions:
		var m PositionsMsg
		if err := DecodePayload(env, &m); err != nil {
			return nil, err
		}
		return func() { b.positions(m) }, nil

	case MsgTimeExpired:
		return func() { b.events.OnMatchTimeExpired() }, nil

	case MsgModeStart:
		var m ModeStartMsg
		if len(env.D) > 0 {
			if err := DecodePayload(env, &m); err != nil {
				return nil, err
			}
		}
		return func() {
			if err := b.events.OnGameModeStart(m.TargetPoints); err != nil {
				slog.Warn("mode start rejected", "error", err)
			}
		}, nil

	case MsgDropCollected:
		var m DropCollectedMsg
		if err := DecodePayload(env, &m); err != nil {
			return nil, err
		}
		return func() { b.dropCollected(m) }, nil
	}
	return nil, nil
}

func (b *Bridge) join(m JoinMsg) {
	if !m.Player.Valid() {
		return
	}
	if _, ok := b.directory[m.Player]; !ok {
		b.players.Add(1)
	}
	b.directory[m.Player] = &playerState{name: m.Name, ai: m.AI}
	b.events.OnPlayerJoin(m.Player)
}

func (b *Bridge) leave(id model.PlayerID) {
	if _, ok := b.directory[id]; !ok {
		return
	}
	b.events.OnPlayerLeave(id)
	delete(b.directory, id)
	b.players.Add(-1)
}

func (b *Bridge) deploy(id model.PlayerID) {
	if p, ok := b.directory[id]; ok {
		p.embodied = true
	}
	b.events.OnPlayerDeployed(id)
}

func (b *Bridge) undeploy(id model.PlayerID) {
	if p, ok := b.directory[id]; ok {
		p.embodied = false
	}
	b.events.OnPlayerUndeployed(id)
}

func (b *Bridge) died(m DiedMsg) {
	// the engine needs the death position, so disembody afterwards
	b.events.OnPlayerDied(m.Victim, m.Killer)
	if p, ok := b.directory[m.Victim]; ok {
		p.embodied = false
	}
}

func (b *Bridge) positions(m PositionsMsg) {
	for _, u := range m.Players {
		p, ok := b.directory[u.Player]
		if !ok {
			continue
		}
		p.pos = u.Pos.Location()
		p.embodied = u.Alive
	}
}

func (b *Bridge) dropCollected(m DropCollectedMsg) {
	cb, ok := b.dropCallbacks[m.Drop]
	if !ok {
		slog.Debug("collected unknown drop", "dropID", m.Drop)
		return
	}
	cb(m.Finder)
}

// Directory.

func (b *Bridge) Valid(id model.PlayerID) bool {
	_, ok := b.directory[id]
	return ok
}

func (b *Bridge) IsAI(id model.PlayerID) bool {
	p, ok := b.directory[id]
	return ok && p.ai
}

func (b *Bridge) Name(id model.PlayerID) string {
	if p, ok := b.directory[id]; ok {
		return p.name
	}
	return ""
}

// Spatial.

func (b *Bridge) Position(id model.PlayerID) (model.Location, bool) {
	p, ok := b.directory[id]
	if !ok || !p.embodied {
		return model.Location{}, false
	}
	return p.pos, true
}

func (b *Bridge) Distance(a, c model.Location) float64 {
	return model.Distance(a, c)
}

// Markers.

func (b *Bridge) CreateMarker(at model.Location) model.MarkerID {
	b.lastMarker++
	pos := vecOf(at)
	b.send(MsgMarker, MarkerMsg{ID: b.lastMarker, Op: MarkerCreate, Pos: &pos})
	return b.lastMarker
}

func (b *Bridge) SetMarkerText(m model.MarkerID, text model.Message) {
	b.send(MsgMarker, MarkerMsg{ID: m, Op: MarkerText, Text: &text})
}

func (b *Bridge) SetMarkerPosition(m model.MarkerID, at model.Location) {
	pos := vecOf(at)
	b.send(MsgMarker, MarkerMsg{ID: m, Op: MarkerMove, Pos: &pos})
}

func (b *Bridge) DestroyMarker(m model.MarkerID) {
	b.send(MsgMarker, MarkerMsg{ID: m, Op: MarkerDestroy})
}

// HUDs.

func (b *Bridge) NewHUD(id model.PlayerID) bounty.HUD {
	return &remoteHUD{b: b, player: id}
}

// remoteHUD forwards widget updates of one player to the host.
type remoteHUD struct {
	b      *Bridge
	player model.PlayerID
}

func (h *remoteHUD) SetText(el model.Element, text model.Message) {
	h.b.send(MsgHUD, HUDMsg{Player: h.player, Op: HUDText, Element: el, Text: &text})
}

func (h *remoteHUD) SetVisible(el model.Element, visible bool) {
	h.b.send(MsgHUD, HUDMsg{Player: h.player, Op: HUDVisible, Element: el, Visible: visible})
}

func (h *remoteHUD) Notify(msg model.Message, highlight bool) {
	h.b.send(MsgNotify, NotifyMsg{Player: h.player, Msg: msg, Highlight: highlight})
}

func (h *remoteHUD) Destroy() {
	h.b.send(MsgHUD, HUDMsg{Player: h.player, Op: HUDDestroy})
}

// Scoreboard.

func (b *Bridge) SetRow(id model.PlayerID, row model.ScoreRow) {
	b.send(MsgScoreRow, ScoreRowMsg{Player: id, Row: row})
}

func (b *Bridge) SetModeScore(id model.PlayerID, points int) {
	b.send(MsgModeScore, ModeScoreMsg{Player: id, Points: points})
}

// Sound.

func (b *Bridge) Play(asset string, opts model.SoundOptions) {
	b.send(MsgSound, SoundMsg{
		Asset:      asset,
		DurationMs: opts.Duration.Milliseconds(),
		Target:     opts.Target,
		Amplitude:  opts.Amplitude,
	})
}

// Spotter.

func (b *Bridge) Spot(id model.PlayerID, d time.Duration) {
	b.send(MsgSpot, SpotMsg{Player: id, DurationMs: d.Milliseconds()})
}

// Scavenger.

func (b *Bridge) CreateDrop(at model.Location, onCollected func(finder model.PlayerID)) model.DropID {
	b.lastDrop++
	id := b.lastDrop
	b.dropCallbacks[id] = onCollected
	b.send(MsgDrop, DropMsg{ID: id, Pos: vecOf(at)})
	return id
}

func (b *Bridge) RemoveDrop(id model.DropID) {
	if _, ok := b.dropCallbacks[id]; !ok {
		return
	}
	delete(b.dropCallbacks, id)
	b.send(MsgDropRemove, DropRemoveMsg{ID: id})
}

// Spawner.

func (b *Bridge) CreateSpawnPoint(at model.Location) model.SpawnPointID {
	b.lastSpawnPoint++
	b.send(MsgSpawnPoint, SpawnPointMsg{ID: b.lastSpawnPoint, Pos: vecOf(at)})
	return b.lastSpawnPoint
}

func (b *Bridge) SpawnPlayer(id model.PlayerID, point model.SpawnPointID) {
	b.send(MsgSpawn, SpawnMsg{Player: id, Point: point})
}

// Announcer.

func (b *Bridge) AnnounceWinner(winner model.PlayerID, reason string) {
	b.send(MsgMatchEnd, MatchEndMsg{Winner: winner, Reason: reason})
}
