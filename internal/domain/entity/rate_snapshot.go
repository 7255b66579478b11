package entity

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// SnapshotSource records where a snapshot's data came from.
type SnapshotSource string

const (
	// SourceLive means the snapshot was fetched from the primary rate API.
	SourceLive SnapshotSource = "live"
	// SourceFallback means the snapshot came from the bundled static document.
	SourceFallback SnapshotSource = "fallback"
)

// ErrDataUnavailable is returned when no rate source could produce a snapshot.
var ErrDataUnavailable = errors.New("exchange rate data unavailable")

// RateSnapshot is one atomically-replaced set of rates, all expressed relative
// to Base. Snapshots are rebuilt wholesale on every fetch, never merged.
type RateSnapshot struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
	Source    SnapshotSource     `json:"source"`
}

// Normalize enforces the snapshot invariants: the base currency carries a
// self-rate of 1 and FetchedAt is never zero.
func (s *RateSnapshot) Normalize(now time.Time) {
	if s.Rates == nil {
		s.Rates = make(map[string]float64)
	}
	if _, ok := s.Rates[s.Base]; !ok {
		s.Rates[s.Base] = 1
	}
	if s.FetchedAt.IsZero() {
		s.FetchedAt = now
	}
}

// Validate checks that the snapshot is usable for conversions.
func (s *RateSnapshot) Validate() error {
	if s.Base == "" {
		return errors.New("snapshot has no base currency")
	}
	if len(s.Rates) == 0 {
		return errors.New("snapshot has no rates")
	}
	if r, ok := s.Rates[s.Base]; !ok || r != 1 {
		return fmt.Errorf("snapshot base %s must carry self-rate 1", s.Base)
	}
	return nil
}

// Codes returns the snapshot's currency codes in sorted order.
func (s *RateSnapshot) Codes() []string {
	codes := make([]string, 0, len(s.Rates))
	for code := range s.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Has reports whether the snapshot carries a rate for the given code.
func (s *RateSnapshot) Has(code string) bool {
	_, ok := s.Rates[code]
	return ok
}

// ConversionResult is the outcome of converting an amount between two
// currencies of one snapshot. It is derived data, never stored on its own.
type ConversionResult struct {
	Amount        float64 `json:"amount"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Result        float64 `json:"result"`
	EffectiveRate float64 `json:"effective_rate"`
}

// Convert computes amount in the target currency by going through the base:
// rates are stored relative to a single base, not pairwise, so the amount is
// divided by rates[from] and multiplied by rates[to].
//
// A non-finite or negative amount degrades to a zero result; the effective
// rate is still computed because it is shown to the user independent of the
// amount. Unknown currency codes are an invariant violation, not a runtime
// case: the selectors feeding this call are populated from the same snapshot.
func (s *RateSnapshot) Convert(amount float64, from, to string) (ConversionResult, error) {
	rateFrom, ok := s.Rates[from]
	if !ok {
		return ConversionResult{}, fmt.Errorf("currency %s not present in snapshot", from)
	}
	rateTo, ok := s.Rates[to]
	if !ok {
		return ConversionResult{}, fmt.Errorf("currency %s not present in snapshot", to)
	}

	effectiveRate := rateTo / rateFrom

	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return ConversionResult{
			Amount:        0,
			From:          from,
			To:            to,
			Result:        0,
			EffectiveRate: effectiveRate,
		}, nil
	}

	inBase := amount / rateFrom
	return ConversionResult{
		Amount:        amount,
		From:          from,
		To:            to,
		Result:        inBase * rateTo,
		EffectiveRate: effectiveRate,
	}, nil
}
