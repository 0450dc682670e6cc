package dice

import "math/rand/v2"

// seededSource implements Source with a PCG generator.
//
// Invariant: two seededSources built from the same seed yield the same sequence.
type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a deterministic Source seeded with seed.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0. Panics if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}

// NewSource returns a seeded Source when seed is non-zero and a crypto/rand
// backed Source otherwise.
func NewSource(seed uint64) Source {
	if seed == 0 {
		return NewCryptoSource()
	}
	return NewSeededSource(seed)
}
