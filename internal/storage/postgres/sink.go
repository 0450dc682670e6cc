package postgres

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/unit"
)

// EntryStore persists journal entries. JournalRepository implements it.
// InsertEntries must not retain the slice.
type EntryStore interface {
	InsertEntries(ctx context.Context, entries []Entry) error
}

// writeTimeout bounds one batch write.
const writeTimeout = 5 * time.Second

// JournalSink is a unit.Notifier that journals deaths and rewards. Notify
// never blocks the tick: entries go into a bounded buffer that a background
// goroutine drains, and entries that do not fit are dropped and counted.
type JournalSink struct {
	store   EntryStore
	matchID uuid.UUID
	clock   func() float64
	every   time.Duration
	logger  *zap.Logger

	mu      sync.RWMutex
	closed  bool
	entries chan Entry
	done    chan struct{}
	dropped atomic.Uint64
}

// NewJournalSink returns a sink stamping entries with matchID and the
// simulated time reported by clock. Nothing is written until Start.
//
// Precondition: store, clock and logger non-nil; bufferSize >= 1; flushEvery > 0.
func NewJournalSink(store EntryStore, matchID uuid.UUID, clock func() float64, bufferSize int, flushEvery time.Duration, logger *zap.Logger) *JournalSink {
	if store == nil || clock == nil || logger == nil {
		panic("postgres.NewJournalSink: store, clock and logger must not be nil")
	}
	if bufferSize < 1 || flushEvery <= 0 {
		panic("postgres.NewJournalSink: bufferSize must be >= 1 and flushEvery > 0")
	}
	return &JournalSink{
		store:   store,
		matchID: matchID,
		clock:   clock,
		every:   flushEvery,
		logger:  logger.With(zap.String("match_id", matchID.String())),
		entries: make(chan Entry, bufferSize),
		done:    make(chan struct{}),
	}
}

// Notify journals Died, ExperienceGranted and CurrencyGranted. Other events are ignored.
func (s *JournalSink) Notify(ev unit.Event) {
	var e Entry
	switch ev := ev.(type) {
	case unit.Died:
		e = Entry{Kind: EntryDeath, Unit: uint32(ev.Killer), Victim: uint32(ev.Victim)}
	case unit.ExperienceGranted:
		e = Entry{Kind: EntryExperience, Unit: uint32(ev.Unit), Victim: uint32(ev.Victim), Amount: ev.Amount}
	case unit.CurrencyGranted:
		e = Entry{Kind: EntryCurrency, Unit: uint32(ev.Unit), Victim: uint32(ev.Victim), Amount: ev.Amount}
	default:
		return
	}
	e.MatchID = s.matchID
	e.SimTimeMs = s.clock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.entries <- e:
	default:
		n := s.dropped.Add(1)
		s.logger.Warn("journal buffer full; entry dropped",
			zap.String("kind", string(e.Kind)),
			zap.Uint32("victim", e.Victim),
			zap.Uint64("dropped_total", n),
		)
	}
}

// Dropped returns the number of entries discarded because the buffer was full.
func (s *JournalSink) Dropped() uint64 { return s.dropped.Load() }

// Start launches the writer goroutine. It flushes whenever a full buffer's
// worth of entries is pending or flushEvery elapses.
//
// Precondition: Start is called at most once.
func (s *JournalSink) Start() {
	go s.run()
}

// Close stops accepting entries, flushes what is buffered and waits for the
// writer to exit.
//
// Precondition: Start was called.
func (s *JournalSink) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	s.mu.Unlock()
	<-s.done
}

func (s *JournalSink) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	limit := cap(s.entries)
	pending := make([]Entry, 0, limit)
	for {
		select {
		case e, ok := <-s.entries:
			if !ok {
				s.flush(pending)
				return
			}
			pending = append(pending, e)
			if len(pending) >= limit {
				s.flush(pending)
				pending = pending[:0]
			}
		case <-ticker.C:
			s.flush(pending)
			pending = pending[:0]
		}
	}
}

// flush writes batch. Failed batches are logged and discarded; the journal
// is best-effort and never stalls the simulation.
func (s *JournalSink) flush(batch []Entry) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	start := time.Now()
	if err := s.store.InsertEntries(ctx, batch); err != nil {
		s.logger.Error("journal flush failed", zap.Int("entries", len(batch)), zap.Error(err))
		return
	}
	s.logger.Debug("journal flushed", zap.Int("entries", len(batch)), zap.Duration("elapsed", time.Since(start)))
}
