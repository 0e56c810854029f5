package cases

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pv-tools/signal-atlas/pkg/models/store"
	"github.com/pv-tools/signal-atlas/pkg/store/duckdb"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	st, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{db: db, store: st}
}

func sampleRecords() []store.CaseRecord {
	dose := 50.0
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	return []store.CaseRecord{
		{
			Drug:      "drugA",
			Reaction:  "headache",
			DoseRaw:   "50 mg",
			DoseMg:    &dose,
			Lot:       "L001",
			EventDate: &jan,
			Serious:   false,
		},
		{
			Drug:      "drugB",
			Reaction:  "nausea",
			EventDate: &feb,
			Serious:   true,
		},
	}
}

func TestCaseStore_AddAndGet(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	err := f.store.Add(ctx, "ds1", sampleRecords())
	require.NoError(t, err)

	t.Run("returns rows ordered by event date", func(t *testing.T) {
		records, err := f.store.GetCases(ctx, "ds1")
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "drugA", records[0].Drug)
		require.NotNil(t, records[0].DoseMg)
		assert.Equal(t, 50.0, *records[0].DoseMg)
		assert.Equal(t, "L001", records[0].Lot)

		assert.Equal(t, "drugB", records[1].Drug)
		assert.Nil(t, records[1].DoseMg)
		assert.True(t, records[1].Serious)
	})

	t.Run("unknown dataset yields an empty slice", func(t *testing.T) {
		records, err := f.store.GetCases(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestCaseStore_GetStats(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "ds1", sampleRecords()))

	stats, err := f.store.GetStats(ctx, "ds1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.CaseCount)
	require.NotNil(t, stats.FirstEventTime)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), stats.FirstEventTime.UTC())

	empty, err := f.store.GetStats(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.CaseCount)
	assert.Nil(t, empty.FirstEventTime)
}

func TestCaseStore_DeleteCases(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "ds1", sampleRecords()))
	require.NoError(t, f.store.DeleteCases(ctx, "ds1"))

	records, err := f.store.GetCases(ctx, "ds1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCaseStore_AddWithinTransaction(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	tx, err := f.db.BeginTx(ctx, nil)
	require.NoError(t, err)

	txCtx := duckdb.WithTransaction(ctx, tx)
	require.NoError(t, f.store.Add(txCtx, "ds1", sampleRecords()))
	require.NoError(t, tx.Rollback())

	records, err := f.store.GetCases(ctx, "ds1")
	require.NoError(t, err)
	assert.Empty(t, records, "rolled back inserts should not be visible")
}
