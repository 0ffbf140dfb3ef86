package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hexforge/worldengine/game/session"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
	sendBuf    = 64
)

// Client is one WebSocket connection attached to a battle. All writes go
// through the send channel so the write pump is the only goroutine touching
// the connection's write side.
type Client struct {
	ID     string
	battle *session.Battle

	conn *websocket.Conn
	send chan session.Event
	done chan struct{}

	closeOnce sync.Once
	logger    *zap.Logger
}

func newClient(id string, battle *session.Battle, conn *websocket.Conn, logger *zap.Logger) *Client {
	return &Client{
		ID:     id,
		battle: battle,
		conn:   conn,
		send:   make(chan session.Event, sendBuf),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Battle returns the battle this client is attached to.
func (c *Client) Battle() *session.Battle {
	return c.battle
}

// Send queues an event for the client, dropping it if the buffer is full.
func (c *Client) Send(ev session.Event) {
	select {
	case c.send <- ev:
	case <-c.done:
	default:
		c.logger.Warn("ws event dropped (client slow)",
			zap.String("client", c.ID),
			zap.String("type", ev.Type))
	}
}

// Close tears the connection down. Safe to call from any goroutine.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writePump serializes queued events onto the connection and keeps the
// heartbeat alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
