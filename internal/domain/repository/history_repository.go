// Package repository internal/domain/repository/history_repository.go
package repository

import (
	"context"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
)

// HistoryRepository defines the interface for persisting the conversion
// ledger. The ledger is stored as one value under a fixed key; there is no
// per-entry access.
type HistoryRepository interface {
	// SaveLedger persists the full ledger, replacing the stored value.
	SaveLedger(ctx context.Context, entries []entity.HistoryEntry) error

	// LoadLedger restores the persisted ledger. A missing or corrupt stored
	// value yields an empty slice, never an error.
	LoadLedger(ctx context.Context) ([]entity.HistoryEntry, error)
}
