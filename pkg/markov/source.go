package markov

import (
	"math/rand/v2"
	"sync"
)

// Source is the randomness a chain consumes. IntN returns a uniformly
// distributed int in [0, n) and is only called with n > 0.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// NewSource returns a PCG backed Source seeded with seed. Equal seeds produce
// equal streams. The returned Source is safe for concurrent use.
func NewSource(seed uint64) Source {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed))}
}

func newRuntimeSource() Source {
	return &lockedSource{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}
