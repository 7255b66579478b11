// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/jlozanoc/xchange-service/internal/domain/repository"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/cache"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/middleware"
)

// ConversionService converts amounts against the current snapshot and keeps
// the conversion ledger.
type ConversionService struct {
	store       *cache.SnapshotStore
	historyRepo repository.HistoryRepository
	ledger      *entity.Ledger
	logger      logger.Logger
	now         func() time.Time
	mutex       sync.Mutex
}

// NewConversionService creates a new conversion service around a restored
// ledger.
func NewConversionService(store *cache.SnapshotStore, historyRepo repository.HistoryRepository, ledger *entity.Ledger, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if ledger == nil {
		ledger = entity.NewLedger(nil)
	}

	return &ConversionService{
		store:       store,
		historyRepo: historyRepo,
		ledger:      ledger,
		logger:      log,
		now:         time.Now,
	}
}

// Convert converts amount between two currencies of the current snapshot.
// A malformed amount degrades to a zero result and is not recorded; valid
// conversions are appended to the ledger subject to its dedup rule.
func (s *ConversionService) Convert(ctx context.Context, amount float64, from, to string) (*entity.ConversionResult, error) {
	requestID := middleware.GetRequestID(ctx)

	snapshot, ok := s.store.Current()
	if !ok {
		s.logger.Warn("Conversion requested before any snapshot loaded", map[string]interface{}{
			"request_id": requestID,
		})
		return nil, fmt.Errorf("no rate snapshot loaded: %w", entity.ErrDataUnavailable)
	}

	degenerate := math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0

	result, err := snapshot.Convert(amount, from, to)
	if err != nil {
		// The selectors are populated from the same snapshot, so an unknown
		// code is a programming error, not user input to tolerate.
		s.logger.Error("Conversion against unknown currency", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("failed to convert: %w", err)
	}

	s.logger.Debug("Conversion computed", map[string]interface{}{
		"request_id":     requestID,
		"amount":         result.Amount,
		"from":           from,
		"to":             to,
		"result":         result.Result,
		"effective_rate": result.EffectiveRate,
	})

	if !degenerate {
		s.record(ctx, result, requestID)
	}

	return &result, nil
}

// record appends the conversion to the ledger and persists it when the
// ledger actually changed. Persistence failures are logged, not surfaced:
// the conversion itself already succeeded.
func (s *ConversionService) record(ctx context.Context, result entity.ConversionResult, requestID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry := entity.NewHistoryEntry(result, s.now())
	if !s.ledger.Record(entry) {
		return
	}

	if err := s.historyRepo.SaveLedger(ctx, s.ledger.Entries()); err != nil {
		s.logger.Error("Failed to persist conversion history", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

// History returns the recorded conversions, newest first.
func (s *ConversionService) History() []entity.HistoryEntry {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.ledger.Entries()
}
