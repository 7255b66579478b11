package service

import (
	"context"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
)

// RateSource defines the interface for obtaining a full rate snapshot. Both
// the live rate API and the bundled fallback document implement it.
type RateSource interface {
	// FetchLatest retrieves the current set of rates relative to one base.
	FetchLatest(ctx context.Context) (*entity.RateSnapshot, error)
}

// HistoricalRateSource defines the interface for obtaining dated rate samples
// for one currency pair.
type HistoricalRateSource interface {
	// LatestDate returns the most recent date the source has data for.
	LatestDate(ctx context.Context, from, to string) (string, error)

	// FetchRange retrieves daily samples for the pair between two dates
	// inclusive, in ascending date order.
	FetchRange(ctx context.Context, from, to, start, end string) ([]entity.TrendPoint, error)
}
