package turn

// RNG is a small deterministic generator (mulberry32) used for the report
// seed and any tie-break salting. It is constructed explicitly and passed
// into the TurnManager so tests can pin the stream; there is no package-level
// shared state.
type RNG struct {
	state uint32
}

// NewRNG creates a generator with the given seed.
func NewRNG(seed uint32) *RNG {
	return &RNG{state: seed}
}

// Uint32 advances the stream and returns the next value.
func (r *RNG) Uint32() uint32 {
	r.state += 0x6d2b79f5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return z ^ (z >> 14)
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Uint32()) / (1 << 32)
}

// Intn returns a value in [0, n). n <= 0 returns 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint32() % uint32(n))
}
