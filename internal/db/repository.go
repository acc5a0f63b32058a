package db

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/udisondev/bountyhunter/internal/model"
)

// ErrMatchNotFound is returned by LoadMatch for an unknown id.
var ErrMatchNotFound = errors.New("match not found")

// MatchRepository stores finished matches.
type MatchRepository interface {
	// SaveMatch inserts the match with all player lines in one transaction.
	SaveMatch(ctx context.Context, m model.MatchResult) error
	// LoadMatch returns the match with player lines ordered by points desc.
	LoadMatch(ctx context.Context, id uuid.UUID) (model.MatchResult, error)
	// RecentMatches returns up to limit latest matches without player lines.
	RecentMatches(ctx context.Context, limit int) ([]model.MatchResult, error)
}
