// Package mocks internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockHistoryRepository mocks the HistoryRepository interface
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) SaveLedger(ctx context.Context, entries []entity.HistoryEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockHistoryRepository) LoadLedger(ctx context.Context) ([]entity.HistoryEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.HistoryEntry), args.Error(1)
}

// MockRateSource mocks the RateSource interface
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchLatest(ctx context.Context) (*entity.RateSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateSnapshot), args.Error(1)
}

// MockHistoricalRateSource mocks the HistoricalRateSource interface
type MockHistoricalRateSource struct {
	mock.Mock
}

func (m *MockHistoricalRateSource) LatestDate(ctx context.Context, from, to string) (string, error) {
	args := m.Called(ctx, from, to)
	return args.String(0), args.Error(1)
}

func (m *MockHistoricalRateSource) FetchRange(ctx context.Context, from, to, start, end string) ([]entity.TrendPoint, error) {
	args := m.Called(ctx, from, to, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.TrendPoint), args.Error(1)
}
