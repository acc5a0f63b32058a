package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/bountyhunter/internal/model"
)

// PostgresMatchRepository is the PostgreSQL match history.
type PostgresMatchRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMatchRepository creates a new match repository.
func NewPostgresMatchRepository(pool *pgxpool.Pool) *PostgresMatchRepository {
	return &PostgresMatchRepository{pool: pool}
}

// SaveMatch implements MatchRepository.
func (r *PostgresMatchRepository) SaveMatch(ctx context.Context, m model.MatchResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for match %s: %w", m.ID, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`INSERT INTO matches
		 (match_id, mode, started_at, ended_at, target_points, winner_id, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Mode, m.StartedAt, m.EndedAt, m.TargetPoints, int32(m.Winner), m.Reason,
	); err != nil {
		return fmt.Errorf("inserting match %s: %w", m.ID, err)
	}

	if len(m.Players) > 0 {
		rows := make([][]any, 0, len(m.Players))
		for _, p := range m.Players {
			rows = append(rows, []any{
				m.ID, int32(p.PlayerID), p.Name, p.IsAI,
				int32(p.Points), int32(p.Kills), int32(p.Assists), int32(p.Deaths), int32(p.BestStreak),
			})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"match_players"},
			[]string{"match_id", "player_id", "name", "is_ai", "points", "kills", "assists", "deaths", "best_streak"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("inserting players of match %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit match %s: %w", m.ID, err)
	}

	slog.Debug("saved match", "matchID", m.ID, "players", len(m.Players))
	return nil
}

// LoadMatch implements MatchRepository.
func (r *PostgresMatchRepository) LoadMatch(ctx context.Context, id uuid.UUID) (model.MatchResult, error) {
	m := model.MatchResult{ID: id}
	var winner int32
	err := r.pool.QueryRow(ctx,
		`SELECT mode, started_at, ended_at, target_points, winner_id, reason
		 FROM matches WHERE match_id = $1`, id,
	).Scan(&m.Mode, &m.StartedAt, &m.EndedAt, &m.TargetPoints, &winner, &m.Reason)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MatchResult{}, fmt.Errorf("loading match %s: %w", id, ErrMatchNotFound)
	}
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("loading match %s: %w", id, err)
	}
	m.Winner = model.PlayerID(winner)

	rows, err := r.pool.Query(ctx,
		`SELECT player_id, name, is_ai, points, kills, assists, deaths, best_streak
		 FROM match_players WHERE match_id = $1
		 ORDER BY points DESC, player_id`, id,
	)
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("loading players of match %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p                                      model.PlayerResult
			playerID                               int32
			points, kills, assists, deaths, streak int32
		)
		if err := rows.Scan(&playerID, &p.Name, &p.IsAI, &points, &kills, &assists, &deaths, &streak); err != nil {
			return model.MatchResult{}, fmt.Errorf("scanning player row: %w", err)
		}
		p.PlayerID = model.PlayerID(playerID)
		p.Points, p.Kills, p.Assists, p.Deaths, p.BestStreak = int(points), int(kills), int(assists), int(deaths), int(streak)
		m.Players = append(m.Players, p)
	}
	if err := rows.Err(); err != nil {
		return model.MatchResult{}, fmt.Errorf("iterating player rows: %w", err)
	}
	return m, nil
}

// RecentMatches implements MatchRepository.
func (r *PostgresMatchRepository) RecentMatches(ctx context.Context, limit int) ([]model.MatchResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT match_id, mode, started_at, ended_at, target_points, winner_id, reason
		 FROM matches ORDER BY ended_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("loading recent matches: %w", err)
	}
	defer rows.Close()

	matches := make([]model.MatchResult, 0, limit)
	for rows.Next() {
		var (
			m      model.MatchResult
			winner int32
		)
		if err := rows.Scan(&m.ID, &m.Mode, &m.StartedAt, &m.EndedAt, &m.TargetPoints, &winner, &m.Reason); err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		m.Winner = model.PlayerID(winner)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating match rows: %w", err)
	}
	return matches, nil
}
