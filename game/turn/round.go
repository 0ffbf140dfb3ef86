package turn

import "sort"

// RoundScheduler serves a fixed turn order per round. The order is computed
// once per reseed from the tie-break comparator; the cursor walks it and a
// wrap starts the next round.
type RoundScheduler struct {
	round int
	order []*TimelineEntry
	idx   int
	carry float64
}

// NewRoundScheduler creates a scheduler starting at round 1. carry is the
// fraction of leftover AP applied on top of each round's refill.
func NewRoundScheduler(carry float64) *RoundScheduler {
	return &RoundScheduler{round: 1, carry: carry}
}

// Round returns the current round counter.
func (s *RoundScheduler) Round() int {
	return s.round
}

// Reseed recomputes the turn order from the given roster, resets the cursor,
// and refreshes every unit's AP. Must be called on any roster change so the
// scheduler never orders a stale view.
func (s *RoundScheduler) Reseed(units []*TimelineEntry) {
	s.order = append([]*TimelineEntry(nil), units...)
	sort.SliceStable(s.order, func(i, j int) bool {
		return Less(s.order[i], s.order[j])
	})
	s.idx = 0
	for _, e := range s.order {
		e.refreshAP(s.carry)
	}
}

// Next returns the entry under the cursor and advances it. When the cursor
// wraps, the round counter increments and all entries get an AP refresh —
// after the returned entry has been selected, so a single surviving unit is
// not refreshed twice in the call that returns it.
func (s *RoundScheduler) Next() *TimelineEntry {
	if len(s.order) == 0 {
		return nil
	}
	e := s.order[s.idx]
	s.idx = (s.idx + 1) % len(s.order)
	if s.idx == 0 {
		s.round++
		for _, u := range s.order {
			u.refreshAP(s.carry)
		}
	}
	return e
}
