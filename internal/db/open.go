package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/bountyhunter/internal/config"
)

// Open connects to the configured match history and applies migrations.
// DriverNone yields a nil repository and a no-op close.
func Open(ctx context.Context, cfg config.DatabaseConfig) (MatchRepository, func(), error) {
	switch cfg.Driver {
	case config.DriverNone:
		slog.Info("match history disabled")
		return nil, func() {}, nil

	case config.DriverSQLite:
		repo, err := OpenSQLite(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		slog.Info("match history opened", "driver", cfg.Driver, "path", cfg.Path)
		return repo, func() { _ = repo.Close() }, nil

	case config.DriverPostgres:
		database, err := New(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := RunMigrations(ctx, database.Pool()); err != nil {
			database.Close()
			return nil, nil, err
		}
		slog.Info("match history opened", "driver", cfg.Driver, "host", cfg.Host, "dbname", cfg.DBName)
		return NewPostgresMatchRepository(database.Pool()), database.Close, nil
	}
	return nil, nil, fmt.Errorf("opening match history: unknown driver %q", cfg.Driver)
}
