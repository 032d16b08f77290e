package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates whether a journal line is a debit or a credit.
type EntrySide string

const (
	Debit  EntrySide = "debit"
	Credit EntrySide = "credit"
)

// Opposite returns the other side.
func (s EntrySide) Opposite() EntrySide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// JournalEntryDraft is an unposted journal line.
type JournalEntryDraft struct {
	AccountCode string          `json:"accountCode"`
	Side        EntrySide       `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
}

// JournalEntry is a persisted journal line. Entries sharing a ReferenceID
// belong to one business event and balance exactly.
type JournalEntry struct {
	ID          string          `json:"id"`
	ReferenceID string          `json:"referenceID"`
	AccountCode string          `json:"accountCode"`
	Side        EntrySide       `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	LineNo      int             `json:"lineNo"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Draft returns the unposted form of the entry.
func (e JournalEntry) Draft() JournalEntryDraft {
	return JournalEntryDraft{AccountCode: e.AccountCode, Side: e.Side, Amount: e.Amount}
}

// PostResult is returned by a successful posting.
type PostResult struct {
	ReferenceID string         `json:"referenceID"`
	EntryIDs    []string       `json:"entryIDs"`
	Entries     []JournalEntry `json:"entries"`
}

// DoubleEntryCheck is the reconciliation view of one reference.
type DoubleEntryCheck struct {
	ReferenceID string          `json:"reference_id"`
	Balanced    bool            `json:"balanced"`
	Debits      decimal.Decimal `json:"debits"`
	Credits     decimal.Decimal `json:"credits"`
	Difference  decimal.Decimal `json:"difference"`
	EntryCount  int             `json:"entry_count"`
}

// MirrorEntries returns drafts with every side swapped, same accounts and amounts.
func MirrorEntries(entries []JournalEntry) []JournalEntryDraft {
	drafts := make([]JournalEntryDraft, 0, len(entries))
	for _, e := range entries {
		drafts = append(drafts, JournalEntryDraft{AccountCode: e.AccountCode, Side: e.Side.Opposite(), Amount: e.Amount})
	}
	return drafts
}
