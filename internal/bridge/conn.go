package bridge

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errSendQueueFull = errors.New("send queue full")

// hostConn is one authenticated host WebSocket connection.
type hostConn struct {
	ws     *websocket.Conn
	remote string

	send      chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once

	writeTimeout time.Duration
	pongTimeout  time.Duration
	maxMessage   int64
}

func newHostConn(ws *websocket.Conn, remote string, queueSize int, writeTimeout, pongTimeout time.Duration, maxMessage int64) *hostConn {
	return &hostConn{
		ws:           ws,
		remote:       remote,
		send:         make(chan []byte, queueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: writeTimeout,
		pongTimeout:  pongTimeout,
		maxMessage:   maxMessage,
	}
}

// readPump reads binary frames and hands them to onMessage until the
// connection fails.
func (c *hostConn) readPump(onMessage func([]byte)) {
	defer c.Close()

	c.ws.SetReadLimit(c.maxMessage)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.pongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.pongTimeout))
	})

	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("host connection read failed", "remote", c.remote, "error", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			slog.Debug("ignoring non-binary frame", "remote", c.remote, "type", msgType)
			continue
		}
		// any host frame proves liveness
		_ = c.ws.SetReadDeadline(time.Now().Add(c.pongTimeout))
		onMessage(data)
	}
}

// writePump is the only writer of ws.
func (c *hostConn) writePump() {
	ping := time.NewTicker(c.pongTimeout * 9 / 10)
	defer func() {
		ping.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
				slog.Warn("host connection write failed", "remote", c.remote, "error", err)
				c.Close()
				return
			}

		case <-ping.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}

		case <-c.closeCh:
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(c.writeTimeout))
			return
		}
	}
}

// Send queues data. Non-blocking: a full queue means the host stalled,
// the connection is closed.
func (c *hostConn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return websocket.ErrCloseSent
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		slog.Warn("send queue full, disconnecting host", "remote", c.remote)
		c.Close()
		return errSendQueueFull
	}
}

// Close stops the pumps. Safe to call multiple times.
func (c *hostConn) Close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
	})
}

// Done is closed once the connection is closing.
func (c *hostConn) Done() <-chan struct{} {
	return c.closeCh
}
