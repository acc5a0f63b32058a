package testutil

import (
	"maps"
	"slices"
	"time"

	"github.com/udisondev/bountyhunter/internal/game/bounty"
	"github.com/udisondev/bountyhunter/internal/model"
)

// FakePlayer: игрок в FakeHost.
type FakePlayer struct {
	ID       model.PlayerID
	Name     string
	AI       bool
	Gone     bool // Valid() возвращает false
	Pos      model.Location
	Embodied bool // Position() возвращает ok
}

// Note: сообщение kill-feed.
type Note struct {
	Msg       model.Message
	Highlight bool
}

// FakeHUD записывает всё, что движок выводит на экран игрока.
type FakeHUD struct {
	Texts     map[model.Element]model.Message
	Visible   map[model.Element]bool
	Notes     []Note
	Destroyed bool
}

func newFakeHUD() *FakeHUD {
	return &FakeHUD{
		Texts:   make(map[model.Element]model.Message),
		Visible: make(map[model.Element]bool),
	}
}

func (h *FakeHUD) SetText(el model.Element, text model.Message) { h.Texts[el] = text }

func (h *FakeHUD) SetVisible(el model.Element, visible bool) { h.Visible[el] = visible }

func (h *FakeHUD) Notify(msg model.Message, highlight bool) {
	h.Notes = append(h.Notes, Note{Msg: msg, Highlight: highlight})
}

func (h *FakeHUD) Destroy() { h.Destroyed = true }

// Text возвращает текст элемента (нулевой Message если не задан).
func (h *FakeHUD) Text(el model.Element) model.Message { return h.Texts[el] }

// Shown сообщает, виден ли элемент.
func (h *FakeHUD) Shown(el model.Element) bool { return h.Visible[el] }

// NoteKeys возвращает ключи всех сообщений kill-feed по порядку.
func (h *FakeHUD) NoteKeys() []string {
	keys := make([]string, 0, len(h.Notes))
	for _, n := range h.Notes {
		keys = append(keys, n.Msg.Key)
	}
	return keys
}

// SoundCall: один вызов Play.
type SoundCall struct {
	Asset string
	Opts  model.SoundOptions
}

// SpotCall: один вызов Spot.
type SpotCall struct {
	Player   model.PlayerID
	Duration time.Duration
}

// FakeMarker: маркер в мире.
type FakeMarker struct {
	Pos       model.Location
	Text      model.Message
	Destroyed bool
}

// FakeDrop: выпавший трофей.
type FakeDrop struct {
	Pos       model.Location
	Collect   func(finder model.PlayerID)
	Destroyed bool
}

// SpawnCall: один вызов SpawnPlayer.
type SpawnCall struct {
	Player model.PlayerID
	Point  model.SpawnPointID
}

// WinnerCall: один вызов AnnounceWinner.
type WinnerCall struct {
	Winner model.PlayerID
	Reason string
}

// FakeHost: in-memory имплементация всех интерфейсов хоста для unit тестов.
// Не потокобезопасен: тесты вызывают его с одного потока, как и планировщик.
type FakeHost struct {
	Players    map[model.PlayerID]*FakePlayer
	HUDs       map[model.PlayerID]*FakeHUD
	Rows       map[model.PlayerID]model.ScoreRow
	ModeScores map[model.PlayerID]int
	Sounds     []SoundCall
	Spots      []SpotCall
	Markers    map[model.MarkerID]*FakeMarker
	Drops      map[model.DropID]*FakeDrop

	SpawnPoints []model.Location
	Spawns      []SpawnCall
	Winners     []WinnerCall

	nextMarker model.MarkerID
	nextDrop   model.DropID
}

// NewFakeHost создаёт пустой FakeHost.
func NewFakeHost() *FakeHost {
	return &FakeHost{
		Players:    make(map[model.PlayerID]*FakePlayer),
		HUDs:       make(map[model.PlayerID]*FakeHUD),
		Rows:       make(map[model.PlayerID]model.ScoreRow),
		ModeScores: make(map[model.PlayerID]int),
		Markers:    make(map[model.MarkerID]*FakeMarker),
		Drops:      make(map[model.DropID]*FakeDrop),
	}
}

// AddPlayer регистрирует живого игрока в точке (0,0,0).
func (h *FakeHost) AddPlayer(id model.PlayerID, name string) *FakePlayer {
	p := &FakePlayer{ID: id, Name: name, Embodied: true}
	h.Players[id] = p
	return p
}

// AddAI регистрирует бота.
func (h *FakeHost) AddAI(id model.PlayerID, name string) *FakePlayer {
	p := h.AddPlayer(id, name)
	p.AI = true
	return p
}

// BountyHost возвращает bounty.Host, все поля которого указывают на h.
func (h *FakeHost) BountyHost() bounty.Host {
	return bounty.Host{
		Directory:  h,
		Spatial:    h,
		Markers:    h,
		HUDs:       h,
		Scoreboard: h,
		Sound:      h,
		Spotter:    h,
		Scavenger:  h,
	}
}

// Directory.

func (h *FakeHost) Valid(id model.PlayerID) bool {
	p, ok := h.Players[id]
	return ok && !p.Gone
}

func (h *FakeHost) IsAI(id model.PlayerID) bool {
	p, ok := h.Players[id]
	return ok && p.AI
}

func (h *FakeHost) Name(id model.PlayerID) string {
	if p, ok := h.Players[id]; ok {
		return p.Name
	}
	return ""
}

// Spatial.

func (h *FakeHost) Position(id model.PlayerID) (model.Location, bool) {
	p, ok := h.Players[id]
	if !ok || p.Gone || !p.Embodied {
		return model.Location{}, false
	}
	return p.Pos, true
}

func (h *FakeHost) Distance(a, b model.Location) float64 {
	return model.Distance(a, b)
}

// Markers.

func (h *FakeHost) CreateMarker(at model.Location) model.MarkerID {
	h.nextMarker++
	h.Markers[h.nextMarker] = &FakeMarker{Pos: at}
	return h.nextMarker
}

func (h *FakeHost) SetMarkerText(m model.MarkerID, text model.Message) {
	if mk, ok := h.Markers[m]; ok {
		mk.Text = text
	}
}

func (h *FakeHost) SetMarkerPosition(m model.MarkerID, at model.Location) {
	if mk, ok := h.Markers[m]; ok {
		mk.Pos = at
	}
}

func (h *FakeHost) DestroyMarker(m model.MarkerID) {
	if mk, ok := h.Markers[m]; ok {
		mk.Destroyed = true
	}
}

// LiveMarkers возвращает число неуничтоженных маркеров.
func (h *FakeHost) LiveMarkers() int {
	n := 0
	for _, mk := range h.Markers {
		if !mk.Destroyed {
			n++
		}
	}
	return n
}

// HUDs.

func (h *FakeHost) NewHUD(id model.PlayerID) bounty.HUD {
	hud := newFakeHUD()
	h.HUDs[id] = hud
	return hud
}

// Scoreboard.

func (h *FakeHost) SetRow(id model.PlayerID, row model.ScoreRow) {
	h.Rows[id] = row
}

func (h *FakeHost) SetModeScore(id model.PlayerID, points int) {
	h.ModeScores[id] = points
}

// Sound.

func (h *FakeHost) Play(asset string, opts model.SoundOptions) {
	h.Sounds = append(h.Sounds, SoundCall{Asset: asset, Opts: opts})
}

// Spotter.

func (h *FakeHost) Spot(id model.PlayerID, d time.Duration) {
	h.Spots = append(h.Spots, SpotCall{Player: id, Duration: d})
}

// Scavenger.

func (h *FakeHost) CreateDrop(at model.Location, onCollected func(finder model.PlayerID)) model.DropID {
	h.nextDrop++
	h.Drops[h.nextDrop] = &FakeDrop{Pos: at, Collect: onCollected}
	return h.nextDrop
}

func (h *FakeHost) RemoveDrop(id model.DropID) {
	if d, ok := h.Drops[id]; ok {
		d.Destroyed = true
	}
}

// LiveDrops возвращает id неубранных трофеев по возрастанию.
func (h *FakeHost) LiveDrops() []model.DropID {
	var out []model.DropID
	for _, id := range slices.Sorted(maps.Keys(h.Drops)) {
		if !h.Drops[id].Destroyed {
			out = append(out, id)
		}
	}
	return out
}

// Spawner.

func (h *FakeHost) CreateSpawnPoint(at model.Location) model.SpawnPointID {
	h.SpawnPoints = append(h.SpawnPoints, at)
	return model.SpawnPointID(len(h.SpawnPoints))
}

func (h *FakeHost) SpawnPlayer(id model.PlayerID, point model.SpawnPointID) {
	h.Spawns = append(h.Spawns, SpawnCall{Player: id, Point: point})
}

// SpawnedIDs возвращает id заспавненных игроков по порядку.
func (h *FakeHost) SpawnedIDs() []model.PlayerID {
	out := make([]model.PlayerID, 0, len(h.Spawns))
	for _, s := range h.Spawns {
		out = append(out, s.Player)
	}
	return out
}

// Announcer.

func (h *FakeHost) AnnounceWinner(winner model.PlayerID, reason string) {
	h.Winners = append(h.Winners, WinnerCall{Winner: winner, Reason: reason})
}
