// Package service internal/application/service/rate_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	domainservice "github.com/jlozanoc/xchange-service/internal/domain/service"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/cache"
	"github.com/jlozanoc/xchange-service/internal/infrastructure/logger"
)

// RateService populates the snapshot store from the primary rate source,
// falling back to the bundled document when the primary is unreachable.
type RateService struct {
	primary  domainservice.RateSource
	fallback domainservice.RateSource
	store    *cache.SnapshotStore
	logger   logger.Logger
	now      func() time.Time
}

// NewRateService creates a new rate service
func NewRateService(primary, fallback domainservice.RateSource, store *cache.SnapshotStore, log logger.Logger) *RateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateService{
		primary:  primary,
		fallback: fallback,
		store:    store,
		logger:   log,
		now:      time.Now,
	}
}

// Load fetches a fresh snapshot and installs it in the store, replacing any
// previous one wholesale. It fails only when both sources fail; in that case
// the store is left untouched.
func (s *RateService) Load(ctx context.Context) (*entity.RateSnapshot, error) {
	snapshot, primaryErr := s.primary.FetchLatest(ctx)
	if primaryErr != nil {
		s.logger.Warn("Primary rate source failed, trying fallback", map[string]interface{}{
			"error": primaryErr.Error(),
		})

		var fallbackErr error
		snapshot, fallbackErr = s.fallback.FetchLatest(ctx)
		if fallbackErr != nil {
			s.logger.Error("All rate sources failed", map[string]interface{}{
				"primary_error":  primaryErr.Error(),
				"fallback_error": fallbackErr.Error(),
			})
			return nil, fmt.Errorf("%w: primary: %v; fallback: %v",
				entity.ErrDataUnavailable, primaryErr, fallbackErr)
		}
	}

	snapshot.Normalize(s.now())
	if err := snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDataUnavailable, err)
	}

	s.store.Replace(snapshot)

	s.logger.Info("Rate snapshot installed", map[string]interface{}{
		"base":       snapshot.Base,
		"currencies": len(snapshot.Rates),
		"source":     snapshot.Source,
		"fetched_at": snapshot.FetchedAt.Format(time.RFC3339),
	})

	return snapshot, nil
}
