package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/bountyhunter/internal/model"
)

const recorderQueueSize = 16

// Recorder writes finished matches off the game loop. Record never blocks;
// when the queue is full the result is logged and dropped.
type Recorder struct {
	repo    MatchRepository
	timeout time.Duration
	queue   chan model.MatchResult
}

// NewRecorder creates a recorder. Non-positive timeout means 5s.
func NewRecorder(repo MatchRepository, timeout time.Duration) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{
		repo:    repo,
		timeout: timeout,
		queue:   make(chan model.MatchResult, recorderQueueSize),
	}
}

// Record queues m for saving.
func (r *Recorder) Record(m model.MatchResult) {
	select {
	case r.queue <- m:
	default:
		slog.Error("match recorder queue full, result dropped", "matchID", m.ID, "winner", m.Winner)
	}
}

// Run saves queued results until ctx is canceled, then drains what is left.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case m := <-r.queue:
			r.save(context.Background(), m)
		case <-ctx.Done():
			for {
				select {
				case m := <-r.queue:
					r.save(context.Background(), m)
				default:
					return nil
				}
			}
		}
	}
}

func (r *Recorder) save(parent context.Context, m model.MatchResult) {
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	if err := r.repo.SaveMatch(ctx, m); err != nil {
		slog.Error("failed to save match", "matchID", m.ID, "error", err)
		return
	}
	slog.Info("match saved", "matchID", m.ID, "winner", m.Winner, "players", len(m.Players))
}
