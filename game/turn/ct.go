package turn

import "sort"

// DefaultThreshold is the CT meter level at which a unit activates.
const DefaultThreshold = 100

// CTScheduler implements continuous-time ("ATB") initiative: every tick adds
// each unit's speed to its meter, and the first unit over the threshold acts.
// Turn frequency converges on the speed ratio between units because the
// meter keeps its overflow on activation instead of resetting to zero.
type CTScheduler struct {
	time      int
	threshold int
	order     []*TimelineEntry
}

// NewCTScheduler creates a scheduler with the given activation threshold
// (<= 0 selects DefaultThreshold).
func NewCTScheduler(threshold int) *CTScheduler {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &CTScheduler{threshold: threshold}
}

// Time returns the global clock.
func (s *CTScheduler) Time() int {
	return s.time
}

// SetThreshold retunes the activation threshold mid-battle.
func (s *CTScheduler) SetThreshold(t int) {
	if t > 0 {
		s.threshold = t
	}
}

// Reseed replaces the roster. Meters live on the entries, so accumulated
// progress survives roster changes.
func (s *CTScheduler) Reseed(units []*TimelineEntry) {
	s.order = append([]*TimelineEntry(nil), units...)
	sort.SliceStable(s.order, func(i, j int) bool {
		return Less(s.order[i], s.order[j])
	})
}

// Advance ticks the clock until a unit activates and returns it. Stunned
// units neither accrue meter nor activate. Returns nil when no unit can ever
// reach the threshold (empty roster, or everyone stunned/zero-speed below
// the threshold), so the caller never spins forever.
func (s *CTScheduler) Advance() *TimelineEntry {
	runnable := false
	for _, e := range s.order {
		if e.Stunned {
			continue
		}
		if e.Speed > 0 || e.Meter >= s.threshold {
			runnable = true
			break
		}
	}
	if !runnable {
		return nil
	}

	for {
		s.time++
		for _, e := range s.order {
			if !e.Stunned {
				e.Meter += e.Speed
			}
		}
		for _, e := range s.order {
			if e.Stunned {
				continue
			}
			if e.Meter >= s.threshold {
				e.Meter -= s.threshold
				e.NextTick = s.time
				return e
			}
		}
	}
}

// Consume advances the global clock by the action's time cost. The acting
// unit's own meter is untouched: the world moves on while it acts, and its
// only cost is the one-threshold reduction paid at activation.
func (s *CTScheduler) Consume(timeCost int) {
	if timeCost > 0 {
		s.time += timeCost
	}
}
