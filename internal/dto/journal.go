package dto

import (
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryResponse defines the data returned for a journal line.
type JournalEntryResponse struct {
	LineNo      int             `json:"line_no"`
	AccountCode string          `json:"account_code"`
	Side        string          `json:"side"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToJournalEntryResponses converts journal entries to their response form.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	if len(entries) == 0 {
		return nil
	}
	responses := make([]JournalEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = JournalEntryResponse{
			LineNo:      e.LineNo,
			AccountCode: e.AccountCode,
			Side:        string(e.Side),
			Amount:      e.Amount,
			Currency:    e.Currency,
			CreatedAt:   e.CreatedAt,
		}
	}
	return responses
}

// GetJournalResponse is returned by GET /journal/{referenceID}.
type GetJournalResponse struct {
	ReferenceID string                 `json:"reference_id"`
	Entries     []JournalEntryResponse `json:"entries"`
}
