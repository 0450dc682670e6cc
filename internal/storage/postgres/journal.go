package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EntryKind classifies a journal entry.
type EntryKind string

const (
	EntryDeath      EntryKind = "death"
	EntryExperience EntryKind = "experience"
	EntryCurrency   EntryKind = "currency"
)

// ErrMatchNotFound is returned when a match id has no row.
var ErrMatchNotFound = errors.New("match not found")

// Entry is one journaled combat outcome. For deaths Unit is the killer and
// Amount is zero; for rewards Unit is the recipient.
type Entry struct {
	ID         int64
	MatchID    uuid.UUID
	Kind       EntryKind
	Unit       uint32
	Victim     uint32
	Amount     float64
	SimTimeMs  float64
	RecordedAt time.Time
}

// Match is a journaled simulation run.
type Match struct {
	ID        uuid.UUID
	Name      string
	StartedAt time.Time
	EndedAt   *time.Time
	ElapsedMs float64
}

// JournalRepository stores matches and their entries.
type JournalRepository struct {
	db *pgxpool.Pool
}

// NewJournalRepository creates a JournalRepository backed by db.
//
// Precondition: db must be a valid, open connection pool.
func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

// StartMatch inserts the match row that entries reference.
//
// Postcondition: A matches row with id exists, or an error is returned.
func (r *JournalRepository) StartMatch(ctx context.Context, id uuid.UUID, name string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO matches (id, name) VALUES ($1, $2)`,
		id, name,
	)
	if err != nil {
		return fmt.Errorf("inserting match %s: %w", id, err)
	}
	return nil
}

// EndMatch stamps the match's end time and simulated duration.
//
// Postcondition: Returns ErrMatchNotFound if no row was updated.
func (r *JournalRepository) EndMatch(ctx context.Context, id uuid.UUID, elapsedMs float64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE matches SET ended_at = NOW(), elapsed_ms = $2 WHERE id = $1`,
		id, elapsedMs,
	)
	if err != nil {
		return fmt.Errorf("ending match %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// GetMatch loads a match by id.
func (r *JournalRepository) GetMatch(ctx context.Context, id uuid.UUID) (Match, error) {
	var m Match
	err := r.db.QueryRow(ctx,
		`SELECT id, name, started_at, ended_at, elapsed_ms FROM matches WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Name, &m.StartedAt, &m.EndedAt, &m.ElapsedMs)
	if errors.Is(err, pgx.ErrNoRows) {
		return Match{}, ErrMatchNotFound
	}
	if err != nil {
		return Match{}, fmt.Errorf("querying match %s: %w", id, err)
	}
	return m, nil
}

// InsertEntries writes entries in a single batch round trip.
//
// Precondition: every entry's match must already exist.
// Postcondition: All entries are stored, or an error is returned for the first failure.
func (r *JournalRepository) InsertEntries(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO journal_entries (match_id, kind, unit_id, victim_id, amount, sim_time_ms)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			e.MatchID, string(e.Kind), int64(e.Unit), int64(e.Victim), e.Amount, e.SimTimeMs,
		)
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for i := range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("inserting journal entry %d of %d: %w", i+1, len(entries), err)
		}
	}
	return nil
}

// ListEntries returns a match's entries in insertion order.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *JournalRepository) ListEntries(ctx context.Context, matchID uuid.UUID) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, match_id, kind, unit_id, victim_id, amount, sim_time_ms, recorded_at
		FROM journal_entries WHERE match_id = $1 ORDER BY id ASC`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e            Entry
			kind         string
			unit, victim int64
		)
		if err := rows.Scan(&e.ID, &e.MatchID, &kind, &unit, &victim, &e.Amount, &e.SimTimeMs, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		e.Kind = EntryKind(kind)
		e.Unit = uint32(unit)
		e.Victim = uint32(victim)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal entries: %w", err)
	}
	return out, nil
}

// RewardTotals sums experience and currency per recipient for a match.
//
// Postcondition: Returns a map keyed by unit id; units without rewards are absent.
func (r *JournalRepository) RewardTotals(ctx context.Context, matchID uuid.UUID) (map[uint32]Totals, error) {
	rows, err := r.db.Query(ctx, `
		SELECT unit_id,
		       COALESCE(SUM(amount) FILTER (WHERE kind = 'experience'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE kind = 'currency'), 0)
		FROM journal_entries
		WHERE match_id = $1 AND kind <> 'death'
		GROUP BY unit_id`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("summing rewards: %w", err)
	}
	defer rows.Close()

	out := make(map[uint32]Totals)
	for rows.Next() {
		var (
			id int64
			t  Totals
		)
		if err := rows.Scan(&id, &t.Experience, &t.Currency); err != nil {
			return nil, fmt.Errorf("scanning reward totals: %w", err)
		}
		out[uint32(id)] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reward totals: %w", err)
	}
	return out, nil
}

// Totals is a unit's summed rewards.
type Totals struct {
	Experience float64
	Currency   float64
}
