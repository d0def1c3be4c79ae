// Package entropy provides the seedable random source that drives every
// stochastic event in the core. All consumers receive a *Source explicitly;
// replaying a run from the same seed reproduces the exact tick-by-tick
// trajectory, which the tests rely on.
package entropy

import (
	"math/rand"

	"github.com/google/uuid"
)

// Source is a deterministic pseudorandom stream.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a source seeded for reproducible runs.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float returns a uniform float64 in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Chance performs a Bernoulli trial with probability p.
func (s *Source) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}

// Pick returns an index drawn proportionally to the given weights.
// Non-positive weights are skipped. Returns -1 if no weight is positive.
func (s *Source) Pick(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	roll := s.rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		roll -= w
		if roll < 0 {
			return i
		}
	}
	// Floating point slack: fall back to the last positive weight.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return -1
}

// UUID returns a random UUID drawn from this stream, so mission ids are
// stable across replays of the same seed.
func (s *Source) UUID() uuid.UUID {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		// rand.Rand.Read never fails; uuid.Nil is the impossible fallback.
		return uuid.Nil
	}
	return id
}
