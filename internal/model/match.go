package model

import (
	"time"

	"github.com/google/uuid"
)

// Причины завершения матча.
const (
	ReasonTargetReached = "target_reached"
	ReasonTimeExpired   = "time_expired"
)

// PlayerResult итоговая строка игрока в завершённом матче.
type PlayerResult struct {
	PlayerID   PlayerID
	Name       string
	IsAI       bool
	Points     int
	Kills      int
	Assists    int
	Deaths     int
	BestStreak int
}

// MatchResult запись о завершённом матче.
type MatchResult struct {
	ID           uuid.UUID
	Mode         string
	StartedAt    time.Time
	EndedAt      time.Time
	TargetPoints int
	Winner       PlayerID // NoPlayer если никто не участвовал
	Reason       string
	Players      []PlayerResult
}

// Duration возвращает длительность матча.
func (m MatchResult) Duration() time.Duration {
	return m.EndedAt.Sub(m.StartedAt)
}
