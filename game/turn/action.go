package turn

import "github.com/hexforge/worldengine/game/world"

// Kind enumerates the closed set of action kinds.
type Kind string

const (
	KindMove   Kind = "move"
	KindAttack Kind = "attack"
	KindCast   Kind = "cast"
	KindUse    Kind = "use"
	KindDefend Kind = "defend"
	KindWait   Kind = "wait"
)

// Cost is the resource price of a planned action.
type Cost struct {
	AP   int `json:"ap"`
	Time int `json:"time"`
}

// Target references either a unit or a hex destination. Exactly one field is
// expected to be set; which one depends on the action kind.
type Target struct {
	Unit string     `json:"unit,omitempty"`
	Pos  *world.Hex `json:"pos,omitempty"`
}

// PlannedAction is a proposed action awaiting resolution. It lives only
// inside the action window between declare and drain.
type PlannedAction struct {
	Actor   string   `json:"actor"`
	Kind    Kind     `json:"kind"`
	Targets []Target `json:"targets,omitempty"`
	Cost    Cost     `json:"cost"`
}

// kindPriority orders a single actor's queued actions within a resolution
// pass: defensive postures commit before movement, movement before offense.
// Unlisted kinds sort last.
func kindPriority(k Kind) int {
	switch k {
	case KindDefend:
		return 0
	case KindWait:
		return 1
	case KindMove:
		return 2
	case KindCast:
		return 3
	case KindAttack:
		return 4
	case KindUse:
		return 5
	default:
		return 99
	}
}
