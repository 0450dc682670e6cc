// Package notify provides unit.Notifier implementations: fan-out, structured
// logging, and an in-memory recorder.
package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/unit"
)

// Fanout delivers every event to each sink in order.
type Fanout []unit.Notifier

// Notify forwards ev to every sink.
func (f Fanout) Notify(ev unit.Event) {
	for _, n := range f {
		n.Notify(ev)
	}
}

// LogSink writes events to a zap logger. Attack-cycle chatter is logged at
// debug level; deaths and rewards at info.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink.
//
// Precondition: logger must be non-nil.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs ev.
func (s *LogSink) Notify(ev unit.Event) {
	switch e := ev.(type) {
	case unit.TargetSet:
		s.logger.Debug("target set", zap.Uint32("unit", uint32(e.Unit)), zap.Uint32("target", uint32(e.Target)))
	case unit.ProjectileShown:
		s.logger.Debug("projectile shown",
			zap.Uint32("projectile", uint32(e.Projectile)),
			zap.Uint32("owner", uint32(e.Owner)),
			zap.Uint32("target", uint32(e.Target)),
		)
	case unit.AttackBegun:
		s.logger.Debug("attack begun",
			zap.Uint32("attacker", uint32(e.Attacker)),
			zap.Uint32("target", uint32(e.Target)),
			zap.Bool("critical", e.Critical),
		)
	case unit.AttackContinued:
		s.logger.Debug("attack continued",
			zap.Uint32("attacker", uint32(e.Attacker)),
			zap.Uint32("target", uint32(e.Target)),
			zap.Bool("critical", e.Critical),
			zap.Bool("parity", e.Parity),
		)
	case unit.AttackDeclared:
		s.logger.Debug("attack declared",
			zap.Uint32("attacker", uint32(e.Attacker)),
			zap.Uint32("target", uint32(e.Target)),
			zap.Uint8("type", uint8(e.Type)),
		)
	case unit.DamageDealt:
		s.logger.Debug("damage dealt",
			zap.Uint32("source", uint32(e.Source)),
			zap.Uint32("target", uint32(e.Target)),
			zap.Float64("amount", e.Amount),
			zap.Uint8("text", uint8(e.Text)),
		)
	case unit.Died:
		s.logger.Info("unit died", zap.Uint32("victim", uint32(e.Victim)), zap.Uint32("killer", uint32(e.Killer)))
	case unit.ExperienceGranted:
		s.logger.Info("experience granted",
			zap.Uint32("unit", uint32(e.Unit)),
			zap.Uint32("victim", uint32(e.Victim)),
			zap.Float64("amount", e.Amount),
		)
	case unit.CurrencyGranted:
		s.logger.Info("currency granted",
			zap.Uint32("unit", uint32(e.Unit)),
			zap.Uint32("victim", uint32(e.Victim)),
			zap.Float64("amount", e.Amount),
		)
	default:
		s.logger.Warn("unhandled event", zap.Any("event", ev))
	}
}

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []unit.Event
}

// Notify records ev.
func (r *Recorder) Notify(ev unit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []unit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]unit.Event(nil), r.events...)
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// OfType returns the recorded events of type T, in order.
func OfType[T unit.Event](r *Recorder) []T {
	var out []T
	for _, ev := range r.Events() {
		if e, ok := ev.(T); ok {
			out = append(out, e)
		}
	}
	return out
}
