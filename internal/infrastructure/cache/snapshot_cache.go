package cache

import (
	"sync"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
)

// SnapshotStore holds the current rate snapshot and the most recently
// rendered trend chart. It is the one piece of shared mutable state in the
// process: the snapshot is replaced wholesale by the load path and only read
// everywhere else.
type SnapshotStore struct {
	mutex   sync.RWMutex
	current *entity.RateSnapshot

	// Trend responses can resolve out of order when the pair changes
	// rapidly. Each build takes a token; a stale token's result is dropped
	// so the last issued request wins, not the last one to resolve.
	trendToken uint64
	trendGeom  *entity.PlotGeometry
	trendPair  [2]string
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Replace installs a new snapshot, fully replacing the previous one.
func (s *SnapshotStore) Replace(snapshot *entity.RateSnapshot) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.current = snapshot
}

// Current returns the installed snapshot, or false when no load has
// succeeded yet.
func (s *SnapshotStore) Current() (*entity.RateSnapshot, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.current == nil {
		return nil, false
	}
	return s.current, true
}

// NextTrendToken issues a fencing token for a trend build.
func (s *SnapshotStore) NextTrendToken() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trendToken++
	return s.trendToken
}

// PutTrend stores a rendered chart if the token is still the latest issued
// one. Returns whether the chart was applied.
func (s *SnapshotStore) PutTrend(from, to string, geom entity.PlotGeometry, token uint64) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if token != s.trendToken {
		return false
	}

	s.trendGeom = &geom
	s.trendPair = [2]string{from, to}
	return true
}

// LatestTrend returns the last applied chart and its pair, or false when no
// chart has been rendered yet.
func (s *SnapshotStore) LatestTrend() (entity.PlotGeometry, string, string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.trendGeom == nil {
		return entity.PlotGeometry{}, "", "", false
	}
	return *s.trendGeom, s.trendPair[0], s.trendPair[1], true
}
