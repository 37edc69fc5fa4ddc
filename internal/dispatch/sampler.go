package dispatch

import (
	"math/rand/v2"
	"sync"
)

// Sampler decides how many of n fixture rows a run returns.
type Sampler interface {
	Size(n int) int
}

// SeededSampler picks a size uniformly from [Min, n]. The same seed always yields the
// same sequence of sizes.
type SeededSampler struct {
	Min int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSampler returns a sampler seeded with seed that never returns fewer than
// minRows rows (or n, when n is smaller).
func NewSeededSampler(seed uint64, minRows int) *SeededSampler {
	return &SeededSampler{
		Min: max(minRows, 0),
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (s *SeededSampler) Size(n int) int {
	if n <= s.Min {
		return n
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Min + s.rng.IntN(n-s.Min+1)
}

// FixedSize always returns the same size, capped at n.
type FixedSize int

func (f FixedSize) Size(n int) int {
	return max(0, min(int(f), n))
}
