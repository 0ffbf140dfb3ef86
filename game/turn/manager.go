package turn

import (
	"sort"
	"time"

	"github.com/hexforge/worldengine/game/world"
	"go.uber.org/zap"
)

// Mode selects the initiative model. It is fixed for the lifetime of a
// TurnManager.
type Mode string

const (
	// ModeRound is classic fixed-order initiative: one turn per unit per
	// round, AP refilled on round wrap.
	ModeRound Mode = "round"
	// ModeCT is continuous-time initiative: units act when their
	// speed-driven meter crosses the threshold.
	ModeCT Mode = "ct"
)

// Default combat tuning. Overridable via Config.
const (
	DefaultCarry       = 0.25
	DefaultAttackPower = 10
	DefaultSpellPower  = 8
	DefaultCastMPCost  = 5
)

// StatusDefend halves incoming damage for its holder.
const StatusDefend = "defend"

// UnitRef describes a combatant being registered with the manager.
type UnitRef struct {
	ID    string `json:"id"`
	Team  string `json:"team,omitempty"`
	Speed int    `json:"speed"`
	AP    int    `json:"ap"`
	APMax int    `json:"ap_max"`
}

// TurnEvent announces whose turn begins.
type TurnEvent struct {
	Type  string `json:"type"`
	Unit  string `json:"unit"`
	Round int    `json:"round,omitempty"`
	Time  int    `json:"time,omitempty"`
}

// ResolutionReport is the immutable output of one resolve pass.
type ResolutionReport struct {
	Steps StepList `json:"steps"`
	Seed  uint32   `json:"seed"`
	Log   []string `json:"log"`
}

// Hooks are optional callbacks into the caller (UI, AI, transport). Nil
// hooks are skipped.
type Hooks struct {
	OnActionDeclared func(PlannedAction, Verdict)
	OnTurnStart      func(TurnEvent)
	OnResolve        func(*ResolutionReport)
}

// Config configures a TurnManager.
type Config struct {
	Mode      Mode
	Carry     float64 // AP carry-over fraction; 0 selects DefaultCarry
	Threshold int     // CT activation threshold; 0 selects DefaultThreshold

	AttackPower int
	SpellPower  int
	CastMPCost  int

	RNG    *RNG // injectable for testing
	Logger *zap.Logger
}

// UnitState is one entry in a debug snapshot.
type UnitState struct {
	ID       string `json:"id"`
	Team     string `json:"team,omitempty"`
	Speed    int    `json:"speed"`
	AP       int    `json:"ap"`
	APMax    int    `json:"ap_max"`
	Meter    int    `json:"meter,omitempty"`
	Stunned  bool   `json:"stunned,omitempty"`
	SkipNext bool   `json:"skip_next,omitempty"`
}

// Snapshot is a point-in-time debug view of the manager. Serializing it is
// how callers persist battles; the manager itself holds no disk format.
type Snapshot struct {
	Mode    Mode        `json:"mode"`
	Round   int         `json:"round,omitempty"`
	Time    int         `json:"time,omitempty"`
	Pending int         `json:"pending"`
	Units   []UnitState `json:"units"`
}

// TurnManager composes the combatant registry, the active scheduler, the
// action window, validation, and effect application into the
// declare/resolve/advance lifecycle. All methods are synchronous; identical
// (seed, roster, declared-action sequence) inputs produce identical report
// logs.
type TurnManager struct {
	mode    Mode
	entries map[string]*TimelineEntry

	round *RoundScheduler
	ct    *CTScheduler

	window ActionWindow
	world  *world.State
	hooks  Hooks

	attackPower int
	spellPower  int
	castMPCost  int

	rng    *RNG
	logger *zap.Logger
}

// NewTurnManager creates a manager in the configured mode.
func NewTurnManager(cfg Config) *TurnManager {
	if cfg.Mode == "" {
		cfg.Mode = ModeRound
	}
	if cfg.Carry == 0 {
		cfg.Carry = DefaultCarry
	}
	if cfg.AttackPower == 0 {
		cfg.AttackPower = DefaultAttackPower
	}
	if cfg.SpellPower == 0 {
		cfg.SpellPower = DefaultSpellPower
	}
	if cfg.CastMPCost == 0 {
		cfg.CastMPCost = DefaultCastMPCost
	}
	if cfg.RNG == nil {
		cfg.RNG = NewRNG(uint32(time.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	m := &TurnManager{
		mode:        cfg.Mode,
		entries:     make(map[string]*TimelineEntry),
		attackPower: cfg.AttackPower,
		spellPower:  cfg.SpellPower,
		castMPCost:  cfg.CastMPCost,
		rng:         cfg.RNG,
		logger:      cfg.Logger,
	}
	switch cfg.Mode {
	case ModeCT:
		m.ct = NewCTScheduler(cfg.Threshold)
	default:
		m.round = NewRoundScheduler(cfg.Carry)
	}
	return m
}

// Mode returns the initiative model this manager was built with.
func (m *TurnManager) Mode() Mode {
	return m.mode
}

// AttachWorld hands the manager shared battle state. Validation reads it;
// effect application is its only writer.
func (m *TurnManager) AttachWorld(w *world.State) {
	m.world = w
}

// SetHooks installs the caller's callbacks.
func (m *TurnManager) SetHooks(h Hooks) {
	m.hooks = h
}

// SetThreshold retunes the CT activation threshold. No-op in round mode.
func (m *TurnManager) SetThreshold(t int) {
	if m.ct != nil {
		m.ct.SetThreshold(t)
	}
}

// Entry returns the timeline entry for a combatant (nil if unknown). The
// returned pointer is live; status flags may be set on it directly.
func (m *TurnManager) Entry(id string) *TimelineEntry {
	return m.entries[id]
}

// AddUnit registers a combatant and reseeds the active scheduler.
func (m *TurnManager) AddUnit(ref UnitRef) {
	ap := ref.AP
	if ap == 0 {
		ap = ref.APMax
	}
	if ap > ref.APMax {
		ap = ref.APMax
	}
	m.entries[ref.ID] = &TimelineEntry{
		ID:    ref.ID,
		Team:  ref.Team,
		Speed: ref.Speed,
		AP:    ap,
		APMax: ref.APMax,
	}
	m.reseed()
}

// RemoveUnit unregisters a combatant (death, retreat) and reseeds. Unknown
// ids are no-ops.
func (m *TurnManager) RemoveUnit(id string) {
	if _, ok := m.entries[id]; !ok {
		return
	}
	delete(m.entries, id)
	m.reseed()
}

func (m *TurnManager) reseed() {
	units := m.orderedEntries()
	if m.ct != nil {
		m.ct.Reseed(units)
	} else {
		m.round.Reseed(units)
	}
}

// orderedEntries returns the registry sorted by the tie-break comparator so
// downstream iteration never depends on map order.
func (m *TurnManager) orderedEntries() []*TimelineEntry {
	units := make([]*TimelineEntry, 0, len(m.entries))
	for _, e := range m.entries {
		units = append(units, e)
	}
	sort.SliceStable(units, func(i, j int) bool {
		return Less(units[i], units[j])
	})
	return units
}

// DeclareAction proposes an action for the next resolution pass. With no
// world attached the declaration is accepted unconditionally (headless
// mode); with a world it is validated first and only buffered when legal.
// The declare hook fires with the verdict either way.
func (m *TurnManager) DeclareAction(a PlannedAction) Verdict {
	verdict := Verdict{OK: true}
	if m.world != nil {
		verdict = Validate(m.world, a)
	}
	if verdict.OK {
		m.window.Declare(a)
	} else {
		m.logger.Debug("action rejected",
			zap.String("actor", a.Actor),
			zap.String("kind", string(a.Kind)),
			zap.Strings("reasons", verdict.Reasons),
		)
	}
	if m.hooks.OnActionDeclared != nil {
		m.hooks.OnActionDeclared(a, verdict)
	}
	return verdict
}

// Resolve drains the action window and produces a report. Without a world
// attached it returns a stub report in declaration order. With a world it
// sorts by (speed desc, actor id asc, kind priority asc), re-validates each
// action against the current state, synthesizes effect steps, applies them,
// removes the fallen, and settles resource accounting with the scheduler.
func (m *TurnManager) Resolve() *ResolutionReport {
	actions := m.window.Drain()
	report := &ResolutionReport{Seed: m.rng.Uint32()}

	if m.world == nil {
		for _, a := range actions {
			report.Log = append(report.Log, logLine(a))
		}
		if m.hooks.OnResolve != nil {
			m.hooks.OnResolve(report)
		}
		return report
	}

	sort.SliceStable(actions, func(i, j int) bool {
		si, sj := m.actorSpeed(actions[i].Actor), m.actorSpeed(actions[j].Actor)
		if si != sj {
			return si > sj
		}
		if actions[i].Actor != actions[j].Actor {
			return actions[i].Actor < actions[j].Actor
		}
		return kindPriority(actions[i].Kind) < kindPriority(actions[j].Kind)
	})

	timeSpent := make(map[string]int)
	var actors []string
	for _, a := range actions {
		// The world may have changed since declare (a combatant can die
		// between declare and resolve), so legality is re-checked here.
		if v := Validate(m.world, a); !v.OK {
			m.logger.Debug("action dropped at resolve",
				zap.String("actor", a.Actor),
				zap.Strings("reasons", v.Reasons),
			)
			continue
		}
		report.Log = append(report.Log, logLine(a))
		report.Steps = append(report.Steps, m.buildSteps(a)...)
		if _, seen := timeSpent[a.Actor]; !seen {
			actors = append(actors, a.Actor)
		}
		timeSpent[a.Actor] += a.Cost.Time
	}

	Apply(m.world, report.Steps)

	// Sweep the fallen in roster order so the extra steps are deterministic.
	var deadSteps []EffectStep
	var deadIDs []string
	for _, e := range m.orderedEntries() {
		if u := m.world.Units[e.ID]; u != nil && u.HP <= 0 {
			deadSteps = append(deadSteps, UnitDead{ID: e.ID})
			deadIDs = append(deadIDs, e.ID)
		}
	}
	if len(deadSteps) > 0 {
		Apply(m.world, deadSteps)
		report.Steps = append(report.Steps, deadSteps...)
	}

	// Reconcile each actor's AP from world state, then charge summed time
	// per actor in CT mode.
	for _, id := range actors {
		e := m.entries[id]
		if e == nil {
			continue
		}
		if u := m.world.Units[id]; u != nil {
			e.AP = u.AP
		}
		if m.ct != nil {
			m.ct.Consume(timeSpent[id])
		}
	}

	// Registry removal reseeds the scheduler, so it runs after accounting.
	for _, id := range deadIDs {
		m.RemoveUnit(id)
	}

	if m.hooks.OnResolve != nil {
		m.hooks.OnResolve(report)
	}
	return report
}

// Next pulls the next combatant from the active scheduler, skipping stunned
// units (and, in round mode, burning one-shot skip flags). The loop is
// bounded by roster size; nil means no eligible actor.
func (m *TurnManager) Next() *TurnEvent {
	limit := len(m.entries)
	for i := 0; i < limit; i++ {
		var ev *TurnEvent
		if m.ct != nil {
			e := m.ct.Advance()
			if e == nil {
				return nil
			}
			if e.Stunned {
				continue
			}
			ev = &TurnEvent{Type: "turn_start", Unit: e.ID, Time: m.ct.Time()}
		} else {
			round := m.round.Round()
			e := m.round.Next()
			if e == nil {
				return nil
			}
			if e.Stunned {
				continue
			}
			if e.SkipNext {
				e.SkipNext = false
				continue
			}
			ev = &TurnEvent{Type: "turn_start", Unit: e.ID, Round: round}
		}
		if m.hooks.OnTurnStart != nil {
			m.hooks.OnTurnStart(*ev)
		}
		return ev
	}
	return nil
}

// Consume deducts resources for callers that bypass Resolve (a single
// freeform action). AP clamps at zero; in CT mode the time cost advances the
// global clock. Unknown actors deduct nothing, but world time still passes.
func (m *TurnManager) Consume(actor string, apCost, timeCost int) {
	if e := m.entries[actor]; e != nil {
		e.AP -= apCost
		if e.AP < 0 {
			e.AP = 0
		}
		if m.world != nil {
			if u := m.world.Units[actor]; u != nil {
				u.AP = e.AP
			}
		}
	}
	if m.ct != nil {
		m.ct.Consume(timeCost)
	}
}

// State returns a debug snapshot. Units are listed in comparator order.
func (m *TurnManager) State() Snapshot {
	snap := Snapshot{
		Mode:    m.mode,
		Pending: m.window.Size(),
	}
	if m.ct != nil {
		snap.Time = m.ct.Time()
	} else {
		snap.Round = m.round.Round()
	}
	for _, e := range m.orderedEntries() {
		snap.Units = append(snap.Units, UnitState{
			ID:       e.ID,
			Team:     e.Team,
			Speed:    e.Speed,
			AP:       e.AP,
			APMax:    e.APMax,
			Meter:    e.Meter,
			Stunned:  e.Stunned,
			SkipNext: e.SkipNext,
		})
	}
	return snap
}

func (m *TurnManager) actorSpeed(id string) int {
	if e := m.entries[id]; e != nil {
		return e.Speed
	}
	return 0
}

// buildSteps translates one validated action into effect steps.
func (m *TurnManager) buildSteps(a PlannedAction) []EffectStep {
	var steps []EffectStep
	if a.Cost.AP != 0 {
		steps = append(steps, APDelta{ID: a.Actor, Delta: -a.Cost.AP})
	}
	switch a.Kind {
	case KindMove:
		for _, t := range a.Targets {
			if t.Pos != nil {
				steps = append(steps, PosChange{ID: a.Actor, To: *t.Pos})
				break
			}
		}
	case KindAttack:
		for _, t := range a.Targets {
			if t.Unit != "" {
				steps = append(steps, HPDelta{ID: t.Unit, Delta: -m.damageTo(t.Unit, m.attackPower)})
			}
		}
	case KindCast:
		steps = append(steps, MPDelta{ID: a.Actor, Delta: -m.castMPCost})
		for _, t := range a.Targets {
			if t.Unit != "" {
				steps = append(steps, HPDelta{ID: t.Unit, Delta: -m.damageTo(t.Unit, m.spellPower)})
			}
		}
	case KindDefend:
		steps = append(steps, StatusAdd{ID: a.Actor, Name: StatusDefend, Turns: 1})
	}
	return steps
}

// damageTo halves (integer floor) damage against a defending target.
func (m *TurnManager) damageTo(id string, power int) int {
	if u := m.world.Units[id]; u != nil && u.HasStatus(StatusDefend) {
		return power / 2
	}
	return power
}

func logLine(a PlannedAction) string {
	return a.Actor + ":" + string(a.Kind)
}
