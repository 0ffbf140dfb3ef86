package turn

import "github.com/hexforge/worldengine/game/world"

// Validation failure reasons. These are game-flow outcomes, not errors:
// callers decide whether to re-plan or surface them to a player.
const (
	ReasonNoActor        = "no_actor"
	ReasonInsufficientAP = "insufficient_ap"
	ReasonStunned        = "stunned"
	ReasonNoDestination  = "no_destination"
	ReasonNoTarget       = "no_target"
)

// StatusStunned is the world-state status name that gates all actions
// except wait.
const StatusStunned = "stunned"

// Verdict is the outcome of validating one planned action. Reasons can carry
// several simultaneous failures.
type Verdict struct {
	OK      bool     `json:"ok"`
	Reasons []string `json:"reasons,omitempty"`
}

// Validate checks a planned action against a read-only view of world state.
// A missing actor short-circuits (no further check is meaningful); all other
// checks accumulate so the verdict reports every failure at once.
func Validate(v world.View, a PlannedAction) Verdict {
	actor, ok := v.Lookup(a.Actor)
	if !ok {
		return Verdict{Reasons: []string{ReasonNoActor}}
	}

	var reasons []string
	if actor.AP < a.Cost.AP {
		reasons = append(reasons, ReasonInsufficientAP)
	}
	if actor.HasStatus(StatusStunned) && a.Kind != KindWait {
		reasons = append(reasons, ReasonStunned)
	}
	switch a.Kind {
	case KindMove:
		if len(a.Targets) == 0 {
			reasons = append(reasons, ReasonNoDestination)
		}
	case KindAttack, KindCast:
		if len(a.Targets) == 0 {
			reasons = append(reasons, ReasonNoTarget)
		}
	}

	return Verdict{OK: len(reasons) == 0, Reasons: reasons}
}
