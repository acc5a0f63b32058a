package bounty

import (
	"errors"
	"time"

	"github.com/udisondev/bountyhunter/internal/model"
)

// ErrMissingCollaborator is returned by New when a Host field is nil.
var ErrMissingCollaborator = errors.New("host collaborator is nil")

// Directory answers identity questions about players.
type Directory interface {
	// Valid reports whether the player is still connected.
	Valid(id model.PlayerID) bool
	IsAI(id model.PlayerID) bool
	Name(id model.PlayerID) string
}

// Spatial answers position questions.
type Spatial interface {
	// Position returns false when the player is not embodied (dead, not deployed).
	Position(id model.PlayerID) (model.Location, bool)
	Distance(a, b model.Location) float64
}

// Markers manages world markers (icon with text above a player).
type Markers interface {
	CreateMarker(at model.Location) model.MarkerID
	SetMarkerText(m model.MarkerID, text model.Message)
	SetMarkerPosition(m model.MarkerID, at model.Location)
	DestroyMarker(m model.MarkerID)
}

// HUD is one player's on-screen surface.
type HUD interface {
	SetText(el model.Element, text model.Message)
	SetVisible(el model.Element, visible bool)
	// Notify pushes a kill-feed style message.
	Notify(msg model.Message, highlight bool)
	Destroy()
}

// HUDs creates HUD surfaces.
type HUDs interface {
	NewHUD(id model.PlayerID) HUD
}

// Scoreboard is the scoreboard sink.
type Scoreboard interface {
	SetRow(id model.PlayerID, row model.ScoreRow)
	SetModeScore(id model.PlayerID, points int)
}

// Sound plays sound assets.
type Sound interface {
	Play(asset string, opts model.SoundOptions)
}

// Spotter marks a player visible to enemies.
type Spotter interface {
	Spot(id model.PlayerID, d time.Duration)
}

// Scavenger places drops that award points to whoever picks them up.
type Scavenger interface {
	CreateDrop(at model.Location, onCollected func(finder model.PlayerID)) model.DropID
	RemoveDrop(id model.DropID)
}

// Host bundles every collaborator the engine talks to.
type Host struct {
	Directory  Directory
	Spatial    Spatial
	Markers    Markers
	HUDs       HUDs
	Scoreboard Scoreboard
	Sound      Sound
	Spotter    Spotter
	Scavenger  Scavenger
}

func (h Host) validate() error {
	switch {
	case h.Directory == nil:
		return errors.Join(ErrMissingCollaborator, errors.New("directory"))
	case h.Spatial == nil:
		return errors.Join(ErrMissingCollaborator, errors.New("spatial"))
	case h.Markers == nil:
		return errors.Join(ErrMissingCollaborator, errors.New("markers"))
	case h.HUDs == nil:
		return errors.Join(ErrMissingCollaborator, errors.New("huds"))
	case h.Scoreboard == nil:
		return errors.Join(ErrMissingCollaborator, errors.New("scoreboard"))
	case h.Sound == nil:
		return errors.Join(ErrMissingCollaborator, errors.New("sound"))
	case h.Spotter == nil:
		return errors.Join(ErrMissingCollaborator, errors.New("spotter"))
	case h.Scavenger == nil:
		return errors.Join(ErrMissingCollaborator, errors.New("scavenger"))
	}
	return nil
}
