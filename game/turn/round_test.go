package turn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryWithSpeed(id string, speed int) *TimelineEntry {
	return &TimelineEntry{ID: id, Speed: speed, AP: 5, APMax: 5}
}

func TestLessOrdersBySpeedThenID(t *testing.T) {
	a := entryWithSpeed("A", 10)
	b := entryWithSpeed("B", 10)
	c := entryWithSpeed("C", 8)

	assert.True(t, Less(a, c), "higher speed first")
	assert.False(t, Less(c, a))
	assert.True(t, Less(a, b), "equal speed breaks ties by id")
	assert.False(t, Less(b, a))
}

func TestRoundSchedulerOrderAndWrap(t *testing.T) {
	s := NewRoundScheduler(0.25)
	units := []*TimelineEntry{
		entryWithSpeed("D", 6),
		entryWithSpeed("B", 10),
		entryWithSpeed("A", 10),
		entryWithSpeed("C", 8),
	}
	s.Reseed(units)

	want := []string{"A", "B", "C", "D", "A"}
	for i, w := range want {
		e := s.Next()
		require.NotNil(t, e)
		assert.Equal(t, w, e.ID, "call %d", i+1)
	}
	assert.Equal(t, 2, s.Round(), "round advances after the order wraps")
}

func TestRoundSchedulerAPCarryOver(t *testing.T) {
	s := NewRoundScheduler(0.25)
	e := &TimelineEntry{ID: "A", Speed: 10, AP: 3, APMax: 10}
	s.Reseed([]*TimelineEntry{e})

	// min(10, floor(3*0.25)+10) = 10
	assert.Equal(t, 10, e.AP)
}

func TestRoundSchedulerSingleUnitWrap(t *testing.T) {
	s := NewRoundScheduler(0.5)
	e := &TimelineEntry{ID: "solo", Speed: 5, AP: 4, APMax: 4}
	s.Reseed([]*TimelineEntry{e})

	got := s.Next()
	require.Same(t, e, got)
	assert.Equal(t, 2, s.Round(), "single unit wraps every call")
	assert.Equal(t, 4, e.AP, "refresh clamps at max, applied once")
}

func TestRoundSchedulerEmptyRoster(t *testing.T) {
	s := NewRoundScheduler(0.25)
	s.Reseed(nil)
	assert.Nil(t, s.Next())
}

func TestRoundSchedulerReseedResetsCursor(t *testing.T) {
	s := NewRoundScheduler(0.25)
	a := entryWithSpeed("A", 10)
	b := entryWithSpeed("B", 8)
	s.Reseed([]*TimelineEntry{a, b})

	require.Equal(t, "A", s.Next().ID)

	c := entryWithSpeed("C", 9)
	s.Reseed([]*TimelineEntry{a, b, c})
	assert.Equal(t, "A", s.Next().ID, "cursor restarts at the top after reseed")
	assert.Equal(t, "C", s.Next().ID)
	assert.Equal(t, "B", s.Next().ID)
}
