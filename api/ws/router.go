package ws

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// Packet is the wire envelope for inbound client messages.
type Packet struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// HandlerFunc processes a decoded WS message payload for one client.
type HandlerFunc func(ctx context.Context, c *Client, payload json.RawMessage) error

// Router dispatches incoming WS packets to registered handlers.
type Router struct {
	handlers map[string]HandlerFunc
	logger   *zap.Logger
}

// NewRouter creates a new Router.
func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// On registers a HandlerFunc for the given message type.
func (r *Router) On(msgType string, fn HandlerFunc) {
	r.handlers[msgType] = fn
}

// Dispatch decodes raw bytes and invokes the matching handler.
func (r *Router) Dispatch(c *Client, raw []byte) {
	var pkt Packet
	if err := json.Unmarshal(raw, &pkt); err != nil {
		r.logger.Warn("malformed packet",
			zap.String("client", c.ID),
			zap.Error(err))
		return
	}

	fn, ok := r.handlers[pkt.Type]
	if !ok {
		r.logger.Debug("unhandled message type",
			zap.String("type", pkt.Type),
			zap.String("client", c.ID))
		return
	}

	if err := fn(context.Background(), c, pkt.Payload); err != nil {
		r.logger.Error("handler error",
			zap.String("type", pkt.Type),
			zap.String("client", c.ID),
			zap.Error(err))
	}
}
