package motion

import (
	"math/rand"
	"time"
)

// Rand is the randomness source used for direction sampling, stage 4 nudges and
// random repositioning. *rand.Rand satisfies it; tests supply scripted sequences.
type Rand interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64
}

// NewRand returns a seeded source. A zero seed means "seed from the clock".
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// uniform samples [lo, hi).
func uniform(rng Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// coin is a fair coin flip.
func coin(rng Rand) bool {
	return rng.Float64() < 0.5
}
