package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hexforge/worldengine/game/turn"
	"github.com/hexforge/worldengine/game/world"
	"go.uber.org/zap"
)

// Event is the envelope broadcast to battle subscribers (WS clients, bots).
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// UnitSpec describes one combatant at creation time: scheduling stats plus
// the world-state record.
type UnitSpec struct {
	ID    string    `json:"id"`
	Team  string    `json:"team,omitempty"`
	Speed int       `json:"speed"`
	APMax int       `json:"ap_max"`
	HP    int       `json:"hp"`
	MP    int       `json:"mp"`
	Pos   world.Hex `json:"pos"`
}

// Battle owns one turn manager and its world state. All lifecycle calls are
// serialized by the battle mutex; turn core itself is single-threaded by
// design.
type Battle struct {
	ID string

	mu    sync.Mutex
	mgr   *turn.TurnManager
	state *world.State

	subMu sync.RWMutex
	subs  map[string]chan Event

	lastActive time.Time
	eventBuf   int
	logger     *zap.Logger
}

func newBattle(id string, mgr *turn.TurnManager, state *world.State, eventBuf int, logger *zap.Logger) *Battle {
	if eventBuf <= 0 {
		eventBuf = 64
	}
	b := &Battle{
		ID:         id,
		mgr:        mgr,
		state:      state,
		subs:       make(map[string]chan Event),
		lastActive: time.Now(),
		eventBuf:   eventBuf,
		logger:     logger,
	}
	mgr.SetHooks(turn.Hooks{
		OnActionDeclared: func(a turn.PlannedAction, v turn.Verdict) {
			b.broadcast(Event{Type: "action_declared", Data: map[string]interface{}{
				"action":  a,
				"verdict": v,
			}})
		},
		OnTurnStart: func(ev turn.TurnEvent) {
			b.broadcast(Event{Type: "turn_start", Data: ev})
		},
		OnResolve: func(r *turn.ResolutionReport) {
			b.broadcast(Event{Type: "resolve", Data: r})
		},
	})
	return b
}

// Subscribe registers an event channel and returns its id plus the receive
// end. Events are dropped, not blocked on, when a subscriber lags.
func (b *Battle) Subscribe() (string, <-chan Event) {
	id := uuid.New().String()
	ch := make(chan Event, b.eventBuf)
	b.subMu.Lock()
	b.subs[id] = ch
	b.subMu.Unlock()
	return id, ch
}

// Unsubscribe removes and closes a subscriber channel.
func (b *Battle) Unsubscribe(id string) {
	b.subMu.Lock()
	ch, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.subMu.Unlock()
	if ok {
		close(ch)
	}
}

func (b *Battle) broadcast(ev Event) {
	b.subMu.RLock()
	defer b.subMu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Warn("battle event dropped (subscriber full)",
				zap.String("battle", b.ID),
				zap.String("subscriber", id),
				zap.String("type", ev.Type),
			)
		}
	}
}

func (b *Battle) touch() {
	b.lastActive = time.Now()
}

// IdleSince reports the last lifecycle activity.
func (b *Battle) IdleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastActive
}

// AddUnit registers a combatant with the scheduler and places its record in
// world state. An empty id gets a generated one; the final id is returned.
func (b *Battle) AddUnit(spec UnitSpec) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()

	if spec.ID == "" {
		spec.ID = uuid.New().String()
	}
	b.state.Place(&world.Unit{
		ID:  spec.ID,
		HP:  spec.HP,
		MP:  spec.MP,
		AP:  spec.APMax,
		Pos: spec.Pos,
	})
	b.mgr.AddUnit(turn.UnitRef{
		ID:    spec.ID,
		Team:  spec.Team,
		Speed: spec.Speed,
		APMax: spec.APMax,
	})
	return spec.ID
}

// RemoveUnit drops a combatant from the scheduler and world state.
func (b *Battle) RemoveUnit(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	b.mgr.RemoveUnit(id)
	b.state.Remove(id)
}

// Declare proposes an action for the next resolution pass.
func (b *Battle) Declare(a turn.PlannedAction) turn.Verdict {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	return b.mgr.DeclareAction(a)
}

// Resolve drains the action window and applies effects.
func (b *Battle) Resolve() *turn.ResolutionReport {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	return b.mgr.Resolve()
}

// Next advances the scheduler to the next eligible combatant. Nil means no
// eligible actor.
func (b *Battle) Next() *turn.TurnEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	return b.mgr.Next()
}

// Consume deducts resources for a freeform action outside Resolve.
func (b *Battle) Consume(actor string, apCost, timeCost int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	b.mgr.Consume(actor, apCost, timeCost)
}

// Snapshot returns the debug view of the turn manager.
func (b *Battle) Snapshot() turn.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mgr.State()
}

// World returns the shared battle state. Callers may read it; only the turn
// core's effect applier writes it.
func (b *Battle) World() *world.State {
	return b.state
}

func (b *Battle) closeSubscribers() {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
