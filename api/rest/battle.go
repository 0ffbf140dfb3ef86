package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hexforge/worldengine/game/session"
	"github.com/hexforge/worldengine/game/turn"
	"go.uber.org/zap"
)

// BattleHandler exposes battle sessions over REST.
type BattleHandler struct {
	sessions *session.Manager
	logger   *zap.Logger
}

// NewBattleHandler creates a new BattleHandler.
func NewBattleHandler(sessions *session.Manager, logger *zap.Logger) *BattleHandler {
	return &BattleHandler{sessions: sessions, logger: logger}
}

// RegisterRoutes mounts the battle endpoints under the given group.
func (h *BattleHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.POST("/battles", h.Create)
	g.GET("/battles/:id", h.State)
	g.DELETE("/battles/:id", h.Delete)
	g.POST("/battles/:id/units", h.AddUnit)
	g.DELETE("/battles/:id/units/:unit", h.RemoveUnit)
	g.POST("/battles/:id/declare", h.Declare)
	g.POST("/battles/:id/resolve", h.Resolve)
	g.POST("/battles/:id/next", h.Next)
}

type createBattleRequest struct {
	Mode  string             `json:"mode"`
	Seed  uint32             `json:"seed"`
	Units []session.UnitSpec `json:"units"`
}

// Create handles POST /api/battles.
func (h *BattleHandler) Create(c *gin.Context) {
	var req createBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.sessions.Create(req.Mode, req.Seed, req.Units)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": b.ID, "state": b.Snapshot()})
}

// State handles GET /api/battles/:id.
func (h *BattleHandler) State(c *gin.Context) {
	b := h.battle(c)
	if b == nil {
		return
	}
	c.JSON(http.StatusOK, b.Snapshot())
}

// Delete handles DELETE /api/battles/:id.
func (h *BattleHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if h.sessions.Get(id) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "battle not found"})
		return
	}
	h.sessions.Delete(id)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// AddUnit handles POST /api/battles/:id/units.
func (h *BattleHandler) AddUnit(c *gin.Context) {
	b := h.battle(c)
	if b == nil {
		return
	}
	var spec session.UnitSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := b.AddUnit(spec)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// RemoveUnit handles DELETE /api/battles/:id/units/:unit.
func (h *BattleHandler) RemoveUnit(c *gin.Context) {
	b := h.battle(c)
	if b == nil {
		return
	}
	b.RemoveUnit(c.Param("unit"))
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// Declare handles POST /api/battles/:id/declare. Validation failures are
// game outcomes, not HTTP errors: the verdict comes back with 200.
func (h *BattleHandler) Declare(c *gin.Context) {
	b := h.battle(c)
	if b == nil {
		return
	}
	var action turn.PlannedAction
	if err := c.ShouldBindJSON(&action); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b.Declare(action))
}

// Resolve handles POST /api/battles/:id/resolve.
func (h *BattleHandler) Resolve(c *gin.Context) {
	b := h.battle(c)
	if b == nil {
		return
	}
	c.JSON(http.StatusOK, b.Resolve())
}

// Next handles POST /api/battles/:id/next.
func (h *BattleHandler) Next(c *gin.Context) {
	b := h.battle(c)
	if b == nil {
		return
	}
	ev := b.Next()
	if ev == nil {
		c.JSON(http.StatusOK, gin.H{"event": nil, "reason": "no eligible actor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": ev})
}

// battle resolves the :id param, writing a 404 and returning nil when the
// battle does not exist.
func (h *BattleHandler) battle(c *gin.Context) *session.Battle {
	b := h.sessions.Get(c.Param("id"))
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "battle not found"})
	}
	return b
}
