package mode

import (
	"github.com/udisondev/bountyhunter/internal/game/bounty"
	"github.com/udisondev/bountyhunter/internal/model"
)

// Spawner places spawn points and players in the host world.
type Spawner interface {
	CreateSpawnPoint(at model.Location) model.SpawnPointID
	SpawnPlayer(id model.PlayerID, point model.SpawnPointID)
}

// Announcer tells the host the match is over.
type Announcer interface {
	AnnounceWinner(winner model.PlayerID, reason string)
}

// Recorder persists finished matches. Record must not block the caller.
type Recorder interface {
	Record(result model.MatchResult)
}

// Host bundles the collaborators of a game mode.
type Host struct {
	Bounty    bounty.Host
	Spawner   Spawner
	Announcer Announcer
}
