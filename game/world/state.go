package world

import "fmt"

// Hex is an axial hex-grid coordinate.
type Hex struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Key returns the "q,r" string used by the occupied index.
func (h Hex) Key() string {
	return fmt.Sprintf("%d,%d", h.Q, h.R)
}

// Status is a named condition carried by a unit (e.g. "stunned", "defend").
type Status struct {
	Name   string `json:"name"`
	Turns  int    `json:"turns"`
	Amount int    `json:"amount,omitempty"`
}

// Unit is the mutable per-combatant record in battle state.
type Unit struct {
	ID       string   `json:"id"`
	HP       int      `json:"hp"`
	MP       int      `json:"mp"`
	AP       int      `json:"ap"`
	Pos      Hex      `json:"pos"`
	Statuses []Status `json:"statuses,omitempty"`
}

// HasStatus reports whether the unit carries a status with the given name.
func (u *Unit) HasStatus(name string) bool {
	for _, s := range u.Statuses {
		if s.Name == name {
			return true
		}
	}
	return false
}

// View is a read-only window onto battle state. Validation code receives a
// View; only the effect applier gets the mutable *State.
type View interface {
	// Lookup returns a copy of the unit record, or false if absent.
	Lookup(id string) (Unit, bool)
}

// State is the shared battle state: unit records plus an occupancy index
// keyed by hex position. It is mutated in place during effect application
// and must not be written by any other component.
type State struct {
	Units    map[string]*Unit `json:"units"`
	Occupied map[string]bool  `json:"occupied"`
}

// NewState creates an empty battle state.
func NewState() *State {
	return &State{
		Units:    make(map[string]*Unit),
		Occupied: make(map[string]bool),
	}
}

// Place adds (or replaces) a unit and marks its position occupied.
func (s *State) Place(u *Unit) {
	if prev, ok := s.Units[u.ID]; ok {
		delete(s.Occupied, prev.Pos.Key())
	}
	s.Units[u.ID] = u
	s.Occupied[u.Pos.Key()] = true
}

// Remove deletes a unit and frees its occupied slot. Unknown ids are no-ops.
func (s *State) Remove(id string) {
	u, ok := s.Units[id]
	if !ok {
		return
	}
	delete(s.Occupied, u.Pos.Key())
	delete(s.Units, id)
}

// Lookup implements View.
func (s *State) Lookup(id string) (Unit, bool) {
	u, ok := s.Units[id]
	if !ok {
		return Unit{}, false
	}
	return *u, true
}
