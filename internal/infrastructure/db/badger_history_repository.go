package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
)

// historyKey is the single key the ledger lives under. The store holds the
// whole serialized ledger as one value; there is no per-entry keyspace.
const historyKey = "xchange:history"

// BadgerHistoryRepository implements the history repository interface using
// BadgerDB.
type BadgerHistoryRepository struct {
	db     *badger.DB
	logger logger.Logger
}

// NewBadgerHistoryRepository creates a new BadgerDB history repository
func NewBadgerHistoryRepository(db *badger.DB, log logger.Logger) *BadgerHistoryRepository {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &BadgerHistoryRepository{db: db, logger: log}
}

// SaveLedger persists the full ledger, replacing the stored value.
func (r *BadgerHistoryRepository) SaveLedger(ctx context.Context, entries []entity.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal history ledger: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(historyKey), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store history ledger: %w", err)
	}

	return nil
}

// LoadLedger restores the persisted ledger. Missing or corrupt data means
// "no history": the user never sees a storage error, only an empty panel.
func (r *BadgerHistoryRepository) LoadLedger(ctx context.Context) ([]entity.HistoryEntry, error) {
	var entries []entity.HistoryEntry

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(historyKey))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entries)
		})
	})

	if err == badger.ErrKeyNotFound {
		return nil, nil
	}

	if err != nil {
		r.logger.Warn("Discarding unreadable history ledger", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil
	}

	return entries, nil
}
