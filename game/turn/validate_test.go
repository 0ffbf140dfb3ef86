package turn

import (
	"testing"

	"github.com/hexforge/worldengine/game/world"
	"github.com/stretchr/testify/assert"
)

func validationWorld() *world.State {
	w := world.NewState()
	w.Place(&world.Unit{ID: "hero", HP: 20, MP: 10, AP: 4, Pos: world.Hex{Q: 0, R: 0}})
	w.Place(&world.Unit{ID: "ghoul", HP: 15, AP: 2, Pos: world.Hex{Q: 1, R: 0}})
	return w
}

func TestValidateMissingActorShortCircuits(t *testing.T) {
	w := validationWorld()
	v := Validate(w, PlannedAction{
		Actor: "nobody",
		Kind:  KindAttack,
		Cost:  Cost{AP: 99},
	})
	assert.False(t, v.OK)
	assert.Equal(t, []string{ReasonNoActor}, v.Reasons, "no further checks after a missing actor")
}

func TestValidateInsufficientAP(t *testing.T) {
	w := validationWorld()
	v := Validate(w, PlannedAction{
		Actor:   "hero",
		Kind:    KindAttack,
		Targets: []Target{{Unit: "ghoul"}},
		Cost:    Cost{AP: 5},
	})
	assert.False(t, v.OK)
	assert.Contains(t, v.Reasons, ReasonInsufficientAP)
}

func TestValidateStunnedGatesEverythingButWait(t *testing.T) {
	w := validationWorld()
	w.Units["hero"].Statuses = []world.Status{{Name: StatusStunned, Turns: 1}}

	v := Validate(w, PlannedAction{Actor: "hero", Kind: KindDefend})
	assert.False(t, v.OK)
	assert.Contains(t, v.Reasons, ReasonStunned)

	v = Validate(w, PlannedAction{Actor: "hero", Kind: KindWait})
	assert.True(t, v.OK, "wait is always legal while stunned")
}

func TestValidateTargetRequirements(t *testing.T) {
	w := validationWorld()

	v := Validate(w, PlannedAction{Actor: "hero", Kind: KindMove})
	assert.Equal(t, []string{ReasonNoDestination}, v.Reasons)

	v = Validate(w, PlannedAction{Actor: "hero", Kind: KindAttack})
	assert.Equal(t, []string{ReasonNoTarget}, v.Reasons)

	v = Validate(w, PlannedAction{Actor: "hero", Kind: KindCast})
	assert.Equal(t, []string{ReasonNoTarget}, v.Reasons)

	v = Validate(w, PlannedAction{Actor: "hero", Kind: KindUse})
	assert.True(t, v.OK, "use has no target requirement")
}

func TestValidateAccumulatesMultipleReasons(t *testing.T) {
	w := validationWorld()
	w.Units["hero"].Statuses = []world.Status{{Name: StatusStunned, Turns: 1}}

	v := Validate(w, PlannedAction{
		Actor: "hero",
		Kind:  KindAttack,
		Cost:  Cost{AP: 10},
	})
	assert.False(t, v.OK)
	assert.Equal(t, []string{ReasonInsufficientAP, ReasonStunned, ReasonNoTarget}, v.Reasons)
}

func TestValidateOK(t *testing.T) {
	w := validationWorld()
	v := Validate(w, PlannedAction{
		Actor:   "hero",
		Kind:    KindAttack,
		Targets: []Target{{Unit: "ghoul"}},
		Cost:    Cost{AP: 2},
	})
	assert.True(t, v.OK)
	assert.Empty(t, v.Reasons)
}
