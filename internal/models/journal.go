package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`
	ReferenceID string          `json:"referenceID"`
	AccountCode string          `json:"accountCode"`
	Side        string          `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	LineNo      int             `json:"lineNo"`
	CreatedAt   time.Time       `json:"createdAt"`
}
