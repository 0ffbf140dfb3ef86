package turn

// TimelineEntry is the per-combatant scheduling record. Both schedulers share
// the same entry: round mode reads Speed/AP, CT mode additionally drives
// Meter and NextTick.
type TimelineEntry struct {
	ID   string `json:"id"`
	Team string `json:"team,omitempty"`

	Speed int `json:"speed"`
	AP    int `json:"ap"`
	APMax int `json:"ap_max"`

	// Meter accumulates Speed per CT tick; on activation it keeps the
	// overflow above the threshold so slow units don't drift unfairly.
	Meter    int `json:"meter,omitempty"`
	NextTick int `json:"next_tick,omitempty"`

	Stunned  bool `json:"stunned,omitempty"`
	SkipNext bool `json:"skip_next,omitempty"`
}

// Less is the canonical tie-break comparator: speed descending, then id
// ascending. Every ordering decision in the package (round order, CT roster
// scan, resolution sort) goes through this single function so the total
// order is reproducible regardless of insertion order.
func Less(a, b *TimelineEntry) bool {
	if a.Speed != b.Speed {
		return a.Speed > b.Speed
	}
	return a.ID < b.ID
}

// refreshAP refills action points for a new round, carrying over a fraction
// of unspent AP on top of the refill, clamped at the maximum.
func (e *TimelineEntry) refreshAP(carry float64) {
	ap := int(float64(e.AP)*carry) + e.APMax
	if ap > e.APMax {
		ap = e.APMax
	}
	if ap < 0 {
		ap = 0
	}
	e.AP = ap
}
