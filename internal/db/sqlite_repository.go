package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/udisondev/bountyhunter/internal/config"
	"github.com/udisondev/bountyhunter/internal/model"
)

// SQLiteMatchRepository is the single-file match history for local runs.
type SQLiteMatchRepository struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at dsn and applies migrations.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteMatchRepository, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// single writer, otherwise SQLITE_BUSY under load
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := Migrate(ctx, conn, config.DriverSQLite); err != nil {
		conn.Close()
		return nil, err
	}
	return &SQLiteMatchRepository{db: conn}, nil
}

// Close closes the database.
func (r *SQLiteMatchRepository) Close() error {
	return r.db.Close()
}

// SaveMatch implements MatchRepository.
func (r *SQLiteMatchRepository) SaveMatch(ctx context.Context, m model.MatchResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction for match %s: %w", m.ID, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO matches
		 (match_id, mode, started_at, ended_at, target_points, winner_id, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.Mode, m.StartedAt.UnixMilli(), m.EndedAt.UnixMilli(),
		m.TargetPoints, int32(m.Winner), m.Reason,
	); err != nil {
		return fmt.Errorf("inserting match %s: %w", m.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO match_players
		 (match_id, player_id, name, is_ai, points, kills, assists, deaths, best_streak)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing player insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range m.Players {
		if _, err := stmt.ExecContext(ctx,
			m.ID.String(), int32(p.PlayerID), p.Name, p.IsAI,
			p.Points, p.Kills, p.Assists, p.Deaths, p.BestStreak,
		); err != nil {
			return fmt.Errorf("inserting player %d of match %s: %w", p.PlayerID, m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match %s: %w", m.ID, err)
	}

	slog.Debug("saved match", "matchID", m.ID, "players", len(m.Players))
	return nil
}

// LoadMatch implements MatchRepository.
func (r *SQLiteMatchRepository) LoadMatch(ctx context.Context, id uuid.UUID) (model.MatchResult, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT match_id, mode, started_at, ended_at, target_points, winner_id, reason
		 FROM matches WHERE match_id = ?`, id.String())
	m, err := scanSQLiteMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MatchResult{}, fmt.Errorf("loading match %s: %w", id, ErrMatchNotFound)
	}
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("loading match %s: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id, name, is_ai, points, kills, assists, deaths, best_streak
		 FROM match_players WHERE match_id = ?
		 ORDER BY points DESC, player_id`, id.String())
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("loading players of match %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p        model.PlayerResult
			playerID int64
		)
		if err := rows.Scan(&playerID, &p.Name, &p.IsAI, &p.Points, &p.Kills, &p.Assists, &p.Deaths, &p.BestStreak); err != nil {
			return model.MatchResult{}, fmt.Errorf("scanning player row: %w", err)
		}
		p.PlayerID = model.PlayerID(playerID)
		m.Players = append(m.Players, p)
	}
	if err := rows.Err(); err != nil {
		return model.MatchResult{}, fmt.Errorf("iterating player rows: %w", err)
	}
	return m, nil
}

// RecentMatches implements MatchRepository.
func (r *SQLiteMatchRepository) RecentMatches(ctx context.Context, limit int) ([]model.MatchResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT match_id, mode, started_at, ended_at, target_points, winner_id, reason
		 FROM matches ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading recent matches: %w", err)
	}
	defer rows.Close()

	matches := make([]model.MatchResult, 0, limit)
	for rows.Next() {
		m, err := scanSQLiteMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating match rows: %w", err)
	}
	return matches, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteMatch(row rowScanner) (model.MatchResult, error) {
	var (
		m              model.MatchResult
		id             string
		started, ended int64
		winner         int64
	)
	if err := row.Scan(&id, &m.Mode, &started, &ended, &m.TargetPoints, &winner, &m.Reason); err != nil {
		return model.MatchResult{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("parsing match id %q: %w", id, err)
	}
	m.ID = parsed
	m.StartedAt = time.UnixMilli(started).UTC()
	m.EndedAt = time.UnixMilli(ended).UTC()
	m.Winner = model.PlayerID(winner)
	return m, nil
}
