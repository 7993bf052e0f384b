package sampling

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source is a uniform random source safe for concurrent use.
type Source interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64
	// IntRange returns a number in [lo, hi]. It panics if lo > hi.
	IntRange(lo, hi int64) int64
}

// lockedSource serializes access to a *rand.Rand.
type lockedSource struct {
	mu   sync.Mutex
	rand *rand.Rand
	seed uint64
}

// NewSource returns a deterministic Source seeded with seed.
func NewSource(seed uint64) Source {
	return &lockedSource{
		rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// NewRandomSource returns a Source seeded from the clock.
func NewRandomSource() Source {
	return NewSource(uint64(time.Now().UnixNano()))
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64()
}

func (s *lockedSource) IntRange(lo, hi int64) int64 {
	if lo > hi {
		panic("sampling: invalid range")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	span := uint64(hi - lo)
	if span == ^uint64(0) {
		return int64(s.rand.Uint64())
	}
	return lo + int64(s.rand.Uint64N(span+1))
}
