package status

// Effect is one applied instance of a Def. Identity matters: two effects built
// from the same Def are distinct ledger entries.
type Effect struct {
	Def *Def
	// Duration is this instance's lifetime in seconds. Negative means permanent.
	Duration float64
	elapsed  float64
}

// NewEffect creates an effect instance from def lasting duration seconds.
//
// Precondition: def must not be nil.
func NewEffect(def *Def, duration float64) *Effect {
	return &Effect{Def: def, Duration: duration}
}

// NewDefaultEffect creates an effect instance using def's default duration.
func NewDefaultEffect(def *Def) *Effect {
	return NewEffect(def, def.Duration)
}

// Update advances the effect's timer by diff milliseconds.
func (e *Effect) Update(diff float64) {
	e.elapsed += diff / 1000
}

// IsExpired reports whether the effect has run its full duration.
func (e *Effect) IsExpired() bool {
	return e.Duration >= 0 && e.elapsed >= e.Duration
}

// Elapsed returns the seconds this effect has been active.
func (e *Effect) Elapsed() float64 {
	return e.elapsed
}

// IsTypeOf reports whether the effect belongs to category c.
func (e *Effect) IsTypeOf(c Category) bool {
	for _, have := range e.Def.Categories {
		if have == c {
			return true
		}
	}
	return false
}
