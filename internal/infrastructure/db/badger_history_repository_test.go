package db

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestBadgerHistoryRepository(t *testing.T) {
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)
	ctx := context.Background()

	t.Run("Save and restore round-trips the ledger", func(t *testing.T) {
		repo := NewBadgerHistoryRepository(openTestDB(t), log)

		entries := []entity.HistoryEntry{
			{ID: 2, Amount: 10, From: "EUR", To: "PEN", Result: 41.11, EffectiveRate: 4.111, DisplayDate: "2025-06-01 12:30"},
			{ID: 1, Amount: 5, From: "USD", To: "EUR", Result: 4.5, EffectiveRate: 0.9, DisplayDate: "2025-06-01 12:00"},
		}

		assert.NoError(t, repo.SaveLedger(ctx, entries))

		restored, err := repo.LoadLedger(ctx)
		assert.NoError(t, err)
		assert.Equal(t, entries, restored)
	})

	t.Run("Missing ledger restores as empty", func(t *testing.T) {
		repo := NewBadgerHistoryRepository(openTestDB(t), log)

		restored, err := repo.LoadLedger(ctx)
		assert.NoError(t, err)
		assert.Empty(t, restored)
	})

	t.Run("Corrupt stored value restores as empty", func(t *testing.T) {
		database := openTestDB(t)
		require.NoError(t, database.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(historyKey), []byte("{not json"))
		}))

		repo := NewBadgerHistoryRepository(database, log)

		restored, err := repo.LoadLedger(ctx)
		assert.NoError(t, err)
		assert.Empty(t, restored)
	})

	t.Run("Saving replaces the previous ledger", func(t *testing.T) {
		repo := NewBadgerHistoryRepository(openTestDB(t), log)

		assert.NoError(t, repo.SaveLedger(ctx, []entity.HistoryEntry{{ID: 1, Amount: 1, From: "USD", To: "EUR"}}))
		assert.NoError(t, repo.SaveLedger(ctx, []entity.HistoryEntry{{ID: 2, Amount: 2, From: "USD", To: "PEN"}}))

		restored, err := repo.LoadLedger(ctx)
		assert.NoError(t, err)
		assert.Len(t, restored, 1)
		assert.Equal(t, int64(2), restored[0].ID)
	})
}
