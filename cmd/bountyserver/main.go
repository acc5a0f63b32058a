package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/bountyhunter/internal/bridge"
	"github.com/udisondev/bountyhunter/internal/config"
	"github.com/udisondev/bountyhunter/internal/db"
	"github.com/udisondev/bountyhunter/internal/mode"
	"github.com/udisondev/bountyhunter/internal/scheduler"
)

const (
	ServerConfigPath = "config/bountyserver.yaml"
	ModeConfigPath   = "config/bounty_hunter.yaml"

	loopQueueSize = 4096
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configs FIRST to determine log level
	serverCfgPath := ServerConfigPath
	if p := os.Getenv("BOUNTY_SERVER_CONFIG"); p != "" {
		serverCfgPath = p
	}
	serverCfg, err := config.LoadServer(serverCfgPath)
	if err != nil {
		return fmt.Errorf("loading server config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(serverCfg.LogLevel),
	})))

	if err := serverCfg.Validate(); err != nil {
		return fmt.Errorf("validating server config: %w", err)
	}

	modeCfgPath := ModeConfigPath
	if p := os.Getenv("BOUNTY_MODE_CONFIG"); p != "" {
		modeCfgPath = p
	}
	modeCfg, err := config.LoadMode(modeCfgPath)
	if err != nil {
		return fmt.Errorf("loading mode config: %w", err)
	}

	slog.Info("bounty server starting",
		"log_level", serverCfg.LogLevel,
		"bind", serverCfg.BindAddress,
		"port", serverCfg.Port,
		"mode", modeCfg.Name,
		"database", serverCfg.Database.Driver)

	repo, closeDB, err := db.Open(ctx, serverCfg.Database)
	if err != nil {
		return fmt.Errorf("opening match history: %w", err)
	}
	defer closeDB()

	loop := scheduler.NewLoop(loopQueueSize)
	br := bridge.New(serverCfg.Bridge, loop)

	var opts []mode.Option
	var recorder *db.Recorder
	if repo != nil {
		recorder = db.NewRecorder(repo, serverCfg.Database.WriteTimeout)
		opts = append(opts, mode.WithRecorder(recorder))
	}

	game, err := mode.New(modeCfg, br.Host(), loop, opts...)
	if err != nil {
		return fmt.Errorf("creating game mode: %w", err)
	}
	br.Attach(game)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting game loop")
		err := loop.Start(gctx)
		// loop stopped, nothing else touches the mode now
		game.Shutdown()
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("game loop: %w", err)
		}
		return nil
	})

	addr := net.JoinHostPort(serverCfg.BindAddress, strconv.Itoa(serverCfg.Port))
	g.Go(func() error {
		slog.Info("starting bridge", "address", addr)
		if err := br.Run(gctx, addr); err != nil {
			return fmt.Errorf("bridge: %w", err)
		}
		return nil
	})

	if recorder != nil {
		g.Go(func() error {
			slog.Info("starting match recorder")
			return recorder.Run(gctx)
		})
	}

	slog.Info("all services started")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
