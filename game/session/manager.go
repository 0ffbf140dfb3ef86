package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hexforge/worldengine/config"
	"github.com/hexforge/worldengine/game/turn"
	"github.com/hexforge/worldengine/game/world"
	"go.uber.org/zap"
)

// Manager is the uuid-keyed registry of live battles. Battles hold no disk
// state; an expired or deleted battle is simply gone.
type Manager struct {
	mu      sync.RWMutex
	battles map[string]*Battle
	cfg     config.BattleConfig
	logger  *zap.Logger
}

// NewManager creates a battle registry.
func NewManager(cfg config.BattleConfig, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		battles: make(map[string]*Battle),
		cfg:     cfg,
		logger:  logger,
	}
}

// Create starts a battle in the given mode with the given roster. mode ""
// falls back to the configured default; seed 0 picks a clock-derived one.
func (m *Manager) Create(mode string, seed uint32, units []UnitSpec) (*Battle, error) {
	if mode == "" {
		mode = m.cfg.Mode
	}
	var tmode turn.Mode
	switch mode {
	case string(turn.ModeRound), "":
		tmode = turn.ModeRound
	case string(turn.ModeCT):
		tmode = turn.ModeCT
	default:
		return nil, fmt.Errorf("unknown battle mode %q", mode)
	}
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.MaxSessions > 0 && len(m.battles) >= m.cfg.MaxSessions {
		return nil, fmt.Errorf("session limit reached (%d)", m.cfg.MaxSessions)
	}

	id := uuid.New().String()
	mgr := turn.NewTurnManager(turn.Config{
		Mode:        tmode,
		Carry:       m.cfg.APCarry,
		Threshold:   m.cfg.CTThreshold,
		AttackPower: m.cfg.AttackPower,
		SpellPower:  m.cfg.SpellPower,
		CastMPCost:  m.cfg.CastMPCost,
		RNG:         turn.NewRNG(seed),
		Logger:      m.logger.With(zap.String("battle", id)),
	})
	state := world.NewState()
	mgr.AttachWorld(state)

	b := newBattle(id, mgr, state, m.cfg.EventBuf, m.logger)
	m.battles[id] = b

	for _, u := range units {
		b.AddUnit(u)
	}

	m.logger.Info("battle created",
		zap.String("battle", id),
		zap.String("mode", mode),
		zap.Int("units", len(units)),
	)
	return b, nil
}

// Get returns a battle by id, or nil.
func (m *Manager) Get(id string) *Battle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.battles[id]
}

// Delete removes a battle and closes its subscribers. Unknown ids are no-ops.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	b, ok := m.battles[id]
	if ok {
		delete(m.battles, id)
	}
	m.mu.Unlock()
	if ok {
		b.closeSubscribers()
		m.logger.Info("battle deleted", zap.String("battle", id))
	}
}

// Count returns the number of live battles.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.battles)
}

// Reap deletes battles idle longer than the configured TTL. Returns the
// number removed. Intended to run from a scheduler ticker.
func (m *Manager) Reap() int {
	ttl := m.cfg.SessionTTL
	if ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-ttl)

	m.mu.RLock()
	var stale []string
	for id, b := range m.battles {
		if b.IdleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.Delete(id)
	}
	if len(stale) > 0 {
		m.logger.Info("reaped idle battles", zap.Int("count", len(stale)))
	}
	return len(stale)
}
