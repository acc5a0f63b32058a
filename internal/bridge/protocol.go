package bridge

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/udisondev/bountyhunter/internal/model"
)

// Host -> service message types.
const (
	MsgJoin          = "join"
	MsgLeave         = "leave"
	MsgDeploy        = "deploy"
	MsgUndeploy      = "undeploy"
	MsgDied          = "died"
	MsgAssist        = "assist"
	MsgPositions     = "positions"
	MsgTimeExpired   = "time_expired"
	MsgModeStart     = "mode_start"
	MsgDropCollected = "drop_collected"
)

// Service -> host message types.
const (
	MsgSpawnPoint = "spawn_point"
	MsgSpawn      = "spawn"
	MsgSpot       = "spot"
	MsgMarker     = "marker"
	MsgHUD        = "hud"
	MsgNotify     = "notify"
	MsgScoreRow   = "score_row"
	MsgModeScore  = "mode_score"
	MsgSound      = "sound"
	MsgDrop       = "drop"
	MsgDropRemove = "drop_remove"
	MsgMatchEnd   = "match_end"
)

// Envelope wraps every outgoing message with a type field.
type Envelope struct {
	T string `msgpack:"t"`
	D any    `msgpack:"d,omitempty"`
}

// InEnvelope is used for incoming messages; D is decoded once T is known.
type InEnvelope struct {
	T string             `msgpack:"t"`
	D msgpack.RawMessage `msgpack:"d,omitempty"`
}

// Vec is a world position on the wire.
type Vec struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	Z float64 `msgpack:"z"`
}

func vecOf(l model.Location) Vec {
	return Vec{X: l.X(), Y: l.Y(), Z: l.Z()}
}

// Location converts back to model.Location.
func (v Vec) Location() model.Location {
	return model.NewLocation(v.X, v.Y, v.Z)
}

// Inbound payloads.

type JoinMsg struct {
	Player model.PlayerID `msgpack:"p"`
	Name   string         `msgpack:"n"`
	AI     bool           `msgpack:"ai,omitempty"`
}

// PlayerMsg is the payload of leave, deploy and undeploy.
type PlayerMsg struct {
	Player model.PlayerID `msgpack:"p"`
}

type DiedMsg struct {
	Victim model.PlayerID `msgpack:"v"`
	Killer model.PlayerID `msgpack:"k,omitempty"`
}

type AssistMsg struct {
	Assister model.PlayerID `msgpack:"a"`
	Victim   model.PlayerID `msgpack:"v"`
}

type PositionMsg struct {
	Player model.PlayerID `msgpack:"p"`
	Pos    Vec            `msgpack:"pos"`
	Alive  bool           `msgpack:"alive"`
}

type PositionsMsg struct {
	Players []PositionMsg `msgpack:"ps"`
}

type ModeStartMsg struct {
	TargetPoints int `msgpack:"tp"`
}

type DropCollectedMsg struct {
	Drop   model.DropID   `msgpack:"id"`
	Finder model.PlayerID `msgpack:"f"`
}

// Outbound payloads.

type SpawnPointMsg struct {
	ID  model.SpawnPointID `msgpack:"id"`
	Pos Vec                `msgpack:"pos"`
}

type SpawnMsg struct {
	Player model.PlayerID     `msgpack:"p"`
	Point  model.SpawnPointID `msgpack:"sp"`
}

type SpotMsg struct {
	Player     model.PlayerID `msgpack:"p"`
	DurationMs int64          `msgpack:"ms"`
}

// Marker operations.
const (
	MarkerCreate  = "create"
	MarkerMove    = "move"
	MarkerText    = "text"
	MarkerDestroy = "destroy"
)

type MarkerMsg struct {
	ID   model.MarkerID `msgpack:"id"`
	Op   string         `msgpack:"op"`
	Pos  *Vec           `msgpack:"pos,omitempty"`
	Text *model.Message `msgpack:"txt,omitempty"`
}

// HUD operations.
const (
	HUDText    = "text"
	HUDVisible = "visible"
	HUDDestroy = "destroy"
)

type HUDMsg struct {
	Player  model.PlayerID `msgpack:"p"`
	Op      string         `msgpack:"op"`
	Element model.Element  `msgpack:"el"`
	Text    *model.Message `msgpack:"txt,omitempty"`
	Visible bool           `msgpack:"vis,omitempty"`
}

type NotifyMsg struct {
	Player    model.PlayerID `msgpack:"p"`
	Msg       model.Message  `msgpack:"m"`
	Highlight bool           `msgpack:"hl,omitempty"`
}

type ScoreRowMsg struct {
	Player model.PlayerID `msgpack:"p"`
	Row    model.ScoreRow `msgpack:"row"`
}

type ModeScoreMsg struct {
	Player model.PlayerID `msgpack:"p"`
	Points int            `msgpack:"pts"`
}

type SoundMsg struct {
	Asset      string         `msgpack:"a"`
	DurationMs int64          `msgpack:"ms"`
	Target     model.PlayerID `msgpack:"p,omitempty"`
	Amplitude  float64        `msgpack:"amp"`
}

type DropMsg struct {
	ID  model.DropID `msgpack:"id"`
	Pos Vec          `msgpack:"pos"`
}

type DropRemoveMsg struct {
	ID model.DropID `msgpack:"id"`
}

type MatchEndMsg struct {
	Winner model.PlayerID `msgpack:"w"`
	Reason string         `msgpack:"r"`
}

// Encode marshals an outgoing message.
func Encode(t string, payload any) ([]byte, error) {
	data, err := msgpack.Marshal(Envelope{T: t, D: payload})
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", t, err)
	}
	return data, nil
}

// Decode unmarshals an envelope. The payload stays raw.
func Decode(data []byte) (InEnvelope, error) {
	var env InEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.T == "" {
		return env, fmt.Errorf("decoding envelope: empty type")
	}
	return env, nil
}

// DecodePayload unmarshals env.D into v.
func DecodePayload(env InEnvelope, v any) error {
	if err := msgpack.Unmarshal(env.D, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", env.T, err)
	}
	return nil
}
