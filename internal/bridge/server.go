package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const shutdownTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// the host is a game server, not a browser
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Health is the /healthz body.
type Health struct {
	Connected bool `json:"connected"`
	Players   int  `json:"players"`
}

// Handler returns the HTTP routes of the bridge.
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bridge", b.serveBridge)
	mux.HandleFunc("GET /healthz", b.serveHealth)
	return mux
}

func (b *Bridge) serveBridge(w http.ResponseWriter, r *http.Request) {
	if err := b.auth.VerifyRequest(r); err != nil {
		slog.Warn("host rejected", "remote", r.RemoteAddr, "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newHostConn(ws, r.RemoteAddr, b.cfg.SendQueueSize, b.cfg.WriteTimeout, b.cfg.PongTimeout, b.cfg.MaxMessage)
	b.setConn(c)
	slog.Info("host connected", "remote", c.remote)

	go c.writePump()
	c.readPump(b.handleFrame)

	b.dropConn(c)
	slog.Info("host disconnected", "remote", c.remote)
}

func (b *Bridge) serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Health{
		Connected: b.Connected(),
		Players:   b.Players(),
	})
}

// Serve accepts host connections on ln until ctx is canceled.
func (b *Bridge) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           b.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	slog.Info("bridge listening", "address", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving bridge: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		b.closeConn()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down bridge: %w", err)
		}
		return nil
	}
}

// Run listens on addr and serves until ctx is canceled.
func (b *Bridge) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return b.Serve(ctx, ln)
}

// closeConn closes the active host connection. Hijacked connections are
// not tracked by http.Server.Shutdown.
func (b *Bridge) closeConn() {
	b.connMu.Lock()
	c := b.conn
	b.connMu.Unlock()
	if c != nil {
		c.Close()
	}
}
