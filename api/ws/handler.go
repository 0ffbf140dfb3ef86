package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hexforge/worldengine/game/session"
	"go.uber.org/zap"
)

// Handler is the Gin handler for GET /ws/battles/:id.
type Handler struct {
	sessions *session.Manager
	router   *Router
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket Handler. allowedOrigins controls which
// origins may connect; an empty slice permits all (development only).
func NewHandler(sessions *session.Manager, allowedOrigins []string, router *Router, logger *zap.Logger) *Handler {
	h := &Handler{
		sessions: sessions,
		router:   router,
		logger:   logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true // dev mode: allow all
			}
			origin := r.Header.Get("Origin")
			for _, o := range allowedOrigins {
				if o == origin {
					return true
				}
			}
			return false
		},
	}
	return h
}

// ServeWS upgrades the request and streams the battle's events until the
// connection drops.
func (h *Handler) ServeWS(c *gin.Context) {
	battle := h.sessions.Get(c.Param("id"))
	if battle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "battle not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", zap.Error(err))
		return
	}

	client := newClient(uuid.New().String(), battle, conn, h.logger)
	subID, events := battle.Subscribe()

	// Forward battle broadcasts into the client's send queue. Ends when the
	// subscription channel closes (battle deleted) or the client goes away.
	go func() {
		defer client.Close()
		for ev := range events {
			client.Send(ev)
		}
	}()
	go client.writePump()

	h.logger.Info("ws client connected",
		zap.String("battle", battle.ID),
		zap.String("client", client.ID))

	h.readPump(client)
	battle.Unsubscribe(subID)
	client.Close()
	h.logger.Info("ws client disconnected",
		zap.String("battle", battle.ID),
		zap.String("client", client.ID))
}

// readPump reads messages from the connection and dispatches them until the
// connection closes.
func (h *Handler) readPump(c *Client) {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived) {
				h.logger.Warn("ws unexpected close",
					zap.String("client", c.ID),
					zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		h.router.Dispatch(c, raw)
	}
}
