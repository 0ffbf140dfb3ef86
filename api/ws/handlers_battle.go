package ws

import (
	"context"
	"encoding/json"

	"github.com/hexforge/worldengine/game/session"
	"github.com/hexforge/worldengine/game/turn"
	"go.uber.org/zap"
)

// BattleHandlers routes inbound battle commands from WS clients. Outcomes
// travel back through the battle's broadcast hooks, so every subscriber sees
// the same declare/resolve/turn-start stream.
type BattleHandlers struct {
	logger *zap.Logger
}

// NewBattleHandlers creates the command handlers.
func NewBattleHandlers(logger *zap.Logger) *BattleHandlers {
	return &BattleHandlers{logger: logger}
}

// RegisterHandlers registers the battle command types.
func (bh *BattleHandlers) RegisterHandlers(r *Router) {
	r.On("declare", bh.HandleDeclare)
	r.On("resolve", bh.HandleResolve)
	r.On("next", bh.HandleNext)
	r.On("state", bh.HandleState)
}

// HandleDeclare proposes an action. The verdict reaches all subscribers via
// the action_declared broadcast, whether or not it passed validation.
func (bh *BattleHandlers) HandleDeclare(_ context.Context, c *Client, raw json.RawMessage) error {
	var action turn.PlannedAction
	if err := json.Unmarshal(raw, &action); err != nil {
		return err
	}
	c.Battle().Declare(action)
	return nil
}

// HandleResolve runs a resolution pass; the report goes out as a broadcast.
func (bh *BattleHandlers) HandleResolve(_ context.Context, c *Client, _ json.RawMessage) error {
	c.Battle().Resolve()
	return nil
}

// HandleNext advances to the next combatant. A stalled battle (no eligible
// actor) is answered directly to the requesting client.
func (bh *BattleHandlers) HandleNext(_ context.Context, c *Client, _ json.RawMessage) error {
	if ev := c.Battle().Next(); ev == nil {
		c.Send(session.Event{Type: "no_actor"})
	}
	return nil
}

// HandleState answers with a snapshot, directly to the requesting client.
func (bh *BattleHandlers) HandleState(_ context.Context, c *Client, _ json.RawMessage) error {
	c.Send(session.Event{Type: "state", Data: c.Battle().Snapshot()})
	return nil
}
