// Package fallback bundles a static rate snapshot used when the primary
// source is unreachable. The figures are a point-in-time copy kept solely so
// the converter works offline; they make no claim of freshness.
package fallback

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jlozanoc/xchange-service/internal/domain/entity"
)

//go:embed fallback-rates.json
var ratesDocument []byte

// StaticSource serves the bundled snapshot. It implements the same source
// interface as the live client so the load path treats both uniformly.
type StaticSource struct{}

// NewStaticSource creates the bundled-document rate source.
func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

type staticDocument struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
	TS    int64              `json:"ts"`
}

// FetchLatest decodes the bundled document. It can only fail if the embedded
// file is malformed, which a test guards against.
func (s *StaticSource) FetchLatest(_ context.Context) (*entity.RateSnapshot, error) {
	var doc staticDocument
	if err := json.Unmarshal(ratesDocument, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode bundled rates document: %w", err)
	}
	if doc.Base == "" || len(doc.Rates) == 0 {
		return nil, fmt.Errorf("bundled rates document is incomplete")
	}

	snapshot := &entity.RateSnapshot{
		Base:   doc.Base,
		Rates:  doc.Rates,
		Source: entity.SourceFallback,
	}
	if doc.TS > 0 {
		snapshot.FetchedAt = time.UnixMilli(doc.TS)
	}
	return snapshot, nil
}
