// Package dice provides the randomness abstraction used by the combat core.
// Every random decision in a tick goes through a Source so that a seeded
// source reproduces a match given identical frame deltas.
package dice

import "go.uber.org/zap"

// Source is the randomness provider for combat rolls.
//
// Implementations are not required to be safe for concurrent use; the
// simulation loop owns its Source.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Chance reports whether a percentile roll lands under probability p.
// The roll is an integer in [0, 100) compared against p*100, so p <= 0 never
// succeeds and p >= 1 always does.
//
// Precondition: src must be non-nil.
func Chance(src Source, p float64) bool {
	return float64(src.Intn(100)) < p*100
}

// loggedSource wraps a Source and logs every draw at debug level.
type loggedSource struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedSource returns a Source that delegates to src and logs each draw.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) Source {
	return &loggedSource{src: src, logger: logger}
}

// Intn draws from the wrapped source and logs the bound and result.
func (l *loggedSource) Intn(n int) int {
	v := l.src.Intn(n)
	l.logger.Debug("random draw", zap.Int("n", n), zap.Int("result", v))
	return v
}
