package turn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCTSchedulerActivationAndOverflow(t *testing.T) {
	s := NewCTScheduler(100)
	fast := &TimelineEntry{ID: "fast", Speed: 30}
	s.Reseed([]*TimelineEntry{fast})

	e := s.Advance()
	require.Same(t, fast, e)
	// Activates at tick 4 (meter 120), keeping the 20 overflow.
	assert.Equal(t, 4, s.Time())
	assert.Equal(t, 20, fast.Meter)
	assert.Equal(t, 4, fast.NextTick)
}

func TestCTSchedulerFairness(t *testing.T) {
	s := NewCTScheduler(100)
	fast := &TimelineEntry{ID: "fast", Speed: 20}
	slow := &TimelineEntry{ID: "slow", Speed: 10}
	s.Reseed([]*TimelineEntry{fast, slow})

	counts := map[string]int{}
	for i := 0; i < 100; i++ {
		e := s.Advance()
		require.NotNil(t, e)
		counts[e.ID]++
	}

	ratio := float64(counts["fast"]) / float64(counts["slow"])
	assert.InDelta(t, 2.0, ratio, 0.2, "turn frequency tracks speed ratio (fast=%d slow=%d)", counts["fast"], counts["slow"])
}

func TestCTSchedulerStunnedNeverActivates(t *testing.T) {
	s := NewCTScheduler(100)
	stunned := &TimelineEntry{ID: "s", Speed: 50, Stunned: true}
	normal := &TimelineEntry{ID: "n", Speed: 10}
	s.Reseed([]*TimelineEntry{stunned, normal})

	for i := 0; i < 10; i++ {
		e := s.Advance()
		require.NotNil(t, e)
		assert.Equal(t, "n", e.ID)
	}
	assert.Equal(t, 0, stunned.Meter, "stunned units accrue no meter")
}

func TestCTSchedulerNoRunnableReturnsNil(t *testing.T) {
	s := NewCTScheduler(100)
	assert.Nil(t, s.Advance(), "empty roster")

	s.Reseed([]*TimelineEntry{{ID: "a", Speed: 20, Stunned: true}})
	assert.Nil(t, s.Advance(), "all stunned")

	s.Reseed([]*TimelineEntry{{ID: "b", Speed: 0}})
	assert.Nil(t, s.Advance(), "zero speed below threshold")
}

func TestCTSchedulerConsumeAdvancesOnlyGlobalTime(t *testing.T) {
	s := NewCTScheduler(100)
	e := &TimelineEntry{ID: "a", Speed: 25, Meter: 40}
	s.Reseed([]*TimelineEntry{e})

	s.Consume(12)
	assert.Equal(t, 12, s.Time())
	assert.Equal(t, 40, e.Meter, "consume never touches the actor's banked meter")

	s.Consume(-5)
	assert.Equal(t, 12, s.Time(), "negative cost is a no-op")
}

func TestCTSchedulerSetThreshold(t *testing.T) {
	s := NewCTScheduler(0)
	assert.Equal(t, DefaultThreshold, s.threshold)

	e := &TimelineEntry{ID: "a", Speed: 10}
	s.Reseed([]*TimelineEntry{e})
	s.SetThreshold(20)

	got := s.Advance()
	require.Same(t, e, got)
	assert.Equal(t, 2, s.Time(), "lower threshold means earlier activation")
}

func TestCTSchedulerTieGoesToComparatorOrder(t *testing.T) {
	s := NewCTScheduler(100)
	a := &TimelineEntry{ID: "a", Speed: 10}
	b := &TimelineEntry{ID: "b", Speed: 10}
	s.Reseed([]*TimelineEntry{b, a})

	// Both cross the threshold on the same tick; roster order (speed desc,
	// id asc) decides who activates first.
	first := s.Advance()
	require.NotNil(t, first)
	assert.Equal(t, "a", first.ID)

	second := s.Advance()
	require.NotNil(t, second)
	assert.Equal(t, "b", second.ID)
}
