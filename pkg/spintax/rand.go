package spintax

const (
	// lehmerModulus is 2^31-1, a Mersenne prime.
	lehmerModulus = 2147483647
	// lehmerMultiplier is the Park-Miller "minimal standard" multiplier.
	lehmerMultiplier = 16807
)

// Rand is a Lehmer (Park-Miller) pseudo-random generator. The same seed
// always produces the same sequence, which is what makes per-recipient
// template expansion reproducible.
type Rand struct {
	state int64
}

// NewRand creates a generator from an arbitrary integer seed.
// The seed is normalized into [1, lehmerModulus-1]; zero and negative
// reductions are shifted up so the generator never gets stuck.
func NewRand(seed int64) *Rand {
	s := seed % lehmerModulus
	if s <= 0 {
		s += lehmerModulus - 1
	}
	return &Rand{state: s}
}

// Float64 returns the next value in [0, 1).
func (r *Rand) Float64() float64 {
	r.state = r.state * lehmerMultiplier % lehmerModulus
	return float64(r.state-1) / float64(lehmerModulus-1)
}
