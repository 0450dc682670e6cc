package status

import "fmt"

// Ledger is the ordered set of effects active on one unit.
// It is not safe for concurrent use; the owning unit's tick serialises access.
type Ledger struct {
	effects []*Effect
	halt    func()
}

// NewLedger creates an empty Ledger. halt is invoked when a Stun or Root
// effect is applied; it may be nil.
func NewLedger(halt func()) *Ledger {
	return &Ledger{halt: halt}
}

// Apply appends e to the ledger. Stun and Root effects halt movement immediately.
//
// Precondition: e and e.Def must not be nil.
// Postcondition: e is the last entry of All().
func (l *Ledger) Apply(e *Effect) error {
	if e == nil || e.Def == nil {
		return fmt.Errorf("Apply: effect and definition must not be nil")
	}
	if (e.IsTypeOf(Stun) || e.IsTypeOf(Root)) && l.halt != nil {
		l.halt()
	}
	l.effects = append(l.effects, e)
	return nil
}

// Remove deletes e by identity. It reports whether e was present.
func (l *Ledger) Remove(e *Effect) bool {
	for i, have := range l.effects {
		if have == e {
			l.effects = append(l.effects[:i], l.effects[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every effect.
func (l *Ledger) Clear() {
	l.effects = nil
}

// Has reports whether any active effect belongs to category c.
func (l *Ledger) Has(c Category) bool {
	for _, e := range l.effects {
		if e.IsTypeOf(c) {
			return true
		}
	}
	return false
}

// Advance moves every effect forward by diff milliseconds, then drops the
// ones that expired. Expiry is evaluated only after the delta is applied.
//
// Postcondition: Returns the removed effects in ledger order; none of them remain in All().
func (l *Ledger) Advance(diff float64) []*Effect {
	for _, e := range l.effects {
		e.Update(diff)
	}
	var expired []*Effect
	kept := l.effects[:0]
	for _, e := range l.effects {
		if e.IsExpired() {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(l.effects); i++ {
		l.effects[i] = nil
	}
	l.effects = kept
	return expired
}

// All returns a snapshot of the active effects in application order.
func (l *Ledger) All() []*Effect {
	out := make([]*Effect, len(l.effects))
	copy(out, l.effects)
	return out
}

// Len returns the number of active effects.
func (l *Ledger) Len() int {
	return len(l.effects)
}
