package turn

import "github.com/hexforge/worldengine/game/world"

// EffectStep is one atomic, typed world-state mutation instruction. The
// discriminator mirrors the wire tag; appliers ignore step types they don't
// recognize, so new kinds can be added without breaking old appliers.
type EffectStep interface {
	StepType() string
}

// HPDelta adjusts a unit's hit points.
type HPDelta struct {
	ID    string `json:"id"`
	Delta int    `json:"delta"`
}

func (HPDelta) StepType() string { return "hp" }

// MPDelta adjusts a unit's magic points.
type MPDelta struct {
	ID    string `json:"id"`
	Delta int    `json:"delta"`
}

func (MPDelta) StepType() string { return "mp" }

// APDelta adjusts a unit's action points.
type APDelta struct {
	ID    string `json:"id"`
	Delta int    `json:"delta"`
}

func (APDelta) StepType() string { return "ap" }

// PosChange moves a unit to a new hex.
type PosChange struct {
	ID string    `json:"id"`
	To world.Hex `json:"to"`
}

func (PosChange) StepType() string { return "pos" }

// StatusAdd attaches a named status to a unit, replacing any existing status
// with the same name.
type StatusAdd struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Turns  int    `json:"turns"`
	Amount int    `json:"amount,omitempty"`
}

func (StatusAdd) StepType() string { return "status-add" }

// StatusRemove strips a named status from a unit.
type StatusRemove struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (StatusRemove) StepType() string { return "status-rem" }

// UnitDead removes a unit entirely and frees its occupied slot.
type UnitDead struct {
	ID string `json:"id"`
}

func (UnitDead) StepType() string { return "unit-dead" }

// Apply executes steps in order against the shared world state. It is the
// only component permitted to write the state. Resource deltas clamp at
// zero but deliberately not at any maximum; capping at max HP is the
// caller's policy. Steps referencing unknown unit ids and steps of unknown
// types are no-ops.
func Apply(w *world.State, steps []EffectStep) {
	for _, step := range steps {
		switch s := step.(type) {
		case HPDelta:
			if u := w.Units[s.ID]; u != nil {
				u.HP = clampZero(u.HP + s.Delta)
			}
		case MPDelta:
			if u := w.Units[s.ID]; u != nil {
				u.MP = clampZero(u.MP + s.Delta)
			}
		case APDelta:
			if u := w.Units[s.ID]; u != nil {
				u.AP = clampZero(u.AP + s.Delta)
			}
		case PosChange:
			if u := w.Units[s.ID]; u != nil {
				delete(w.Occupied, u.Pos.Key())
				u.Pos = s.To
				w.Occupied[u.Pos.Key()] = true
			}
		case StatusAdd:
			if u := w.Units[s.ID]; u != nil {
				applied := false
				for i := range u.Statuses {
					if u.Statuses[i].Name == s.Name {
						u.Statuses[i].Turns = s.Turns
						u.Statuses[i].Amount = s.Amount
						applied = true
						break
					}
				}
				if !applied {
					u.Statuses = append(u.Statuses, world.Status{
						Name:   s.Name,
						Turns:  s.Turns,
						Amount: s.Amount,
					})
				}
			}
		case StatusRemove:
			if u := w.Units[s.ID]; u != nil {
				kept := u.Statuses[:0]
				for _, st := range u.Statuses {
					if st.Name != s.Name {
						kept = append(kept, st)
					}
				}
				u.Statuses = kept
			}
		case UnitDead:
			w.Remove(s.ID)
		default:
			// Unknown step kind: ignore (forward compatibility).
		}
	}
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
