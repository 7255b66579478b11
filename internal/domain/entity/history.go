package entity

import (
	"time"
)

// MaxHistoryEntries caps the ledger length; inserting beyond it evicts the
// oldest entry.
const MaxHistoryEntries = 10

// HistoryEntry is one recorded conversion. Entries are immutable after
// creation and owned solely by the ledger.
type HistoryEntry struct {
	ID            int64   `json:"id"`
	Amount        float64 `json:"amount"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Result        float64 `json:"result"`
	EffectiveRate float64 `json:"rate"`
	DisplayDate   string  `json:"date"`
}

// NewHistoryEntry builds an entry from a conversion result at the given time.
func NewHistoryEntry(res ConversionResult, at time.Time) HistoryEntry {
	return HistoryEntry{
		ID:            at.UnixMilli(),
		Amount:        res.Amount,
		From:          res.From,
		To:            res.To,
		Result:        res.Result,
		EffectiveRate: res.EffectiveRate,
		DisplayDate:   at.Format("2006-01-02 15:04"),
	}
}

// Ledger is an ordered, size-bounded log of past conversions, newest first.
type Ledger struct {
	entries []HistoryEntry
}

// NewLedger builds a ledger from previously persisted entries, enforcing the
// cap in case the stored value predates it.
func NewLedger(entries []HistoryEntry) *Ledger {
	if len(entries) > MaxHistoryEntries {
		entries = entries[:MaxHistoryEntries]
	}
	return &Ledger{entries: append([]HistoryEntry(nil), entries...)}
}

// Record inserts an entry at the front. If the newest existing entry has the
// same (amount, from, to) the insert is a no-op: re-renders replay identical
// conversions and those are not user actions worth logging. Returns whether
// the ledger changed.
func (l *Ledger) Record(entry HistoryEntry) bool {
	if len(l.entries) > 0 {
		last := l.entries[0]
		if last.Amount == entry.Amount && last.From == entry.From && last.To == entry.To {
			return false
		}
	}

	l.entries = append([]HistoryEntry{entry}, l.entries...)
	if len(l.entries) > MaxHistoryEntries {
		l.entries = l.entries[:MaxHistoryEntries]
	}
	return true
}

// Entries returns a copy of the ledger contents, newest first.
func (l *Ledger) Entries() []HistoryEntry {
	return append([]HistoryEntry(nil), l.entries...)
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}
