package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/arena/internal/game/unit"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	"github.com/cory-johannsen/arena/internal/testutil"
)

func setupJournal(t *testing.T) *postgres.JournalRepository {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewJournalRepository(pc.RawPool)
}

func TestJournalRepository_MatchLifecycle(t *testing.T) {
	repo := setupJournal(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, repo.StartMatch(ctx, id, "skirmish"))
	m, err := repo.GetMatch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "skirmish", m.Name)
	assert.Nil(t, m.EndedAt)

	require.NoError(t, repo.EndMatch(ctx, id, 30000))
	m, err = repo.GetMatch(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, m.EndedAt)
	assert.Equal(t, 30000.0, m.ElapsedMs)

	assert.ErrorIs(t, repo.EndMatch(ctx, uuid.New(), 0), postgres.ErrMatchNotFound)
	_, err = repo.GetMatch(ctx, uuid.New())
	assert.ErrorIs(t, err, postgres.ErrMatchNotFound)
}

func TestJournalRepository_InsertAndList(t *testing.T) {
	repo := setupJournal(t)
	ctx := context.Background()
	id := uuid.New()
	require.NoError(t, repo.StartMatch(ctx, id, "batch"))

	entries := []postgres.Entry{
		{MatchID: id, Kind: postgres.EntryDeath, Unit: 3, Victim: 7, SimTimeMs: 990},
		{MatchID: id, Kind: postgres.EntryExperience, Unit: 3, Victim: 7, Amount: 100, SimTimeMs: 990},
		{MatchID: id, Kind: postgres.EntryExperience, Unit: 4, Victim: 7, Amount: 100, SimTimeMs: 990},
		{MatchID: id, Kind: postgres.EntryCurrency, Unit: 3, Victim: 7, Amount: 300, SimTimeMs: 990},
	}
	require.NoError(t, repo.InsertEntries(ctx, entries))
	require.NoError(t, repo.InsertEntries(ctx, nil))

	got, err := repo.ListEntries(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i, e := range got {
		assert.Equal(t, entries[i].Kind, e.Kind)
		assert.Equal(t, entries[i].Unit, e.Unit)
		assert.Equal(t, entries[i].Amount, e.Amount)
		assert.Positive(t, e.ID)
		assert.False(t, e.RecordedAt.IsZero())
	}

	totals, err := repo.RewardTotals(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, postgres.Totals{Experience: 100, Currency: 300}, totals[3])
	assert.Equal(t, postgres.Totals{Experience: 100}, totals[4])
}

func TestJournalRepository_InsertRequiresMatch(t *testing.T) {
	repo := setupJournal(t)
	err := repo.InsertEntries(context.Background(), []postgres.Entry{
		{MatchID: uuid.New(), Kind: postgres.EntryDeath, Victim: 1},
	})
	assert.Error(t, err)
}

func TestJournalSink_WritesToPostgres(t *testing.T) {
	repo := setupJournal(t)
	ctx := context.Background()
	id := uuid.New()
	require.NoError(t, repo.StartMatch(ctx, id, "sink"))

	sink := postgres.NewJournalSink(repo, id, func() float64 { return 42 }, 8, 20*time.Millisecond, zaptest.NewLogger(t))
	sink.Start()
	sink.Notify(unit.Died{Victim: 9, Killer: 2})
	sink.Notify(unit.CurrencyGranted{Unit: 2, Victim: 9, Amount: 20})
	sink.Close()

	got, err := repo.ListEntries(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, postgres.EntryDeath, got[0].Kind)
	assert.Equal(t, 42.0, got[1].SimTimeMs)
}
