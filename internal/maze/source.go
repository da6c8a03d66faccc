package maze

import (
	"math/rand"
	"time"
)

// Source supplies the random draws the generator needs. *rand.Rand
// satisfies it.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

// NewSource returns a seeded random source. A seed of 0 means a random seed
// will be generated.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
