package dto

import (
	"strings"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountsRequest carries the pre-computed amounts of an event. Total may be
// omitted for ticket issues, reissues and refunds; it is then derived from
// base+tax or base+penalty.
type AmountsRequest struct {
	Base     decimal.Decimal `json:"base"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Fee      decimal.Decimal `json:"fee"`
	Penalty  decimal.Decimal `json:"penalty"`
	Currency string          `json:"currency" binding:"required,len=3"`
}

// RecordEventRequest defines the data needed to record a ticketing event.
type RecordEventRequest struct {
	SourceEventID         string         `json:"source_event_id" binding:"required,max=128"`
	EventType             string         `json:"event_type" binding:"required,oneof=ticket_issue ticket_void ticket_refund ticket_reissue payment_received commission_earned commission_paid"`
	AgentID               string         `json:"agent_id" binding:"required,max=64"`
	Amounts               AmountsRequest `json:"amounts"`
	OccurredAt            *time.Time     `json:"occurred_at"`
	ReversesSourceEventID string         `json:"reverses_source_event_id" binding:"required_if=EventType ticket_void"`
}

// ToEventInput converts the request into the service input.
func (r RecordEventRequest) ToEventInput() domain.EventInput {
	input := domain.EventInput{
		SourceEventID: strings.TrimSpace(r.SourceEventID),
		EventType:     domain.EventType(r.EventType),
		AgentID:       strings.TrimSpace(r.AgentID),
		Amounts: domain.Amounts{
			Base:     r.Amounts.Base,
			Tax:      r.Amounts.Tax,
			Total:    r.Amounts.Total,
			Fee:      r.Amounts.Fee,
			Penalty:  r.Amounts.Penalty,
			Currency: r.Amounts.Currency,
		},
		ReversesSourceEventID: strings.TrimSpace(r.ReversesSourceEventID),
	}
	if r.OccurredAt != nil {
		input.OccurredAt = r.OccurredAt.UTC()
	}
	return input
}

// TransactionResponse defines the data returned for a transaction log row.
type TransactionResponse struct {
	TransactionNumber     string          `json:"transaction_number"`
	EventType             string          `json:"event_type"`
	AgentID               string          `json:"agent_id"`
	Status                string          `json:"status"`
	BaseAmount            decimal.Decimal `json:"base_amount"`
	TaxAmount             decimal.Decimal `json:"tax_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	FeeAmount             decimal.Decimal `json:"fee_amount"`
	PenaltyAmount         decimal.Decimal `json:"penalty_amount"`
	Currency              string          `json:"currency"`
	ReferenceID           string          `json:"reference_id,omitempty"`
	SourceEventID         string          `json:"source_event_id"`
	ReversesTransactionID *string         `json:"reverses_transaction_id,omitempty"`
	FailureReason         string          `json:"failure_reason,omitempty"`
	OccurredAt            time.Time       `json:"occurred_at"`
	CreatedAt             time.Time       `json:"created_at"`
	PostedAt              *time.Time      `json:"posted_at,omitempty"`
}

// ToTransactionResponse converts a domain.TransactionLog to TransactionResponse DTO.
func ToTransactionResponse(t *domain.TransactionLog) TransactionResponse {
	return TransactionResponse{
		TransactionNumber:     t.TransactionNumber,
		EventType:             string(t.EventType),
		AgentID:               t.AgentID,
		Status:                string(t.Status),
		BaseAmount:            t.BaseAmount,
		TaxAmount:             t.TaxAmount,
		TotalAmount:           t.TotalAmount,
		FeeAmount:             t.FeeAmount,
		PenaltyAmount:         t.PenaltyAmount,
		Currency:              t.Currency,
		ReferenceID:           t.ReferenceID,
		SourceEventID:         t.SourceEventID,
		ReversesTransactionID: t.ReversesTransactionID,
		FailureReason:         t.FailureReason,
		OccurredAt:            t.OccurredAt,
		CreatedAt:             t.CreatedAt,
		PostedAt:              t.PostedAt,
	}
}

// ToTransactionResponses converts a slice of domain.TransactionLog.
func ToTransactionResponses(txns []domain.TransactionLog) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// RecordEventResponse is returned by POST /events.
type RecordEventResponse struct {
	Transaction TransactionResponse    `json:"transaction"`
	Entries     []JournalEntryResponse `json:"entries,omitempty"`
	Duplicate   bool                   `json:"duplicate"`
	Error       string                 `json:"error,omitempty"`
}

// ToRecordEventResponse converts a domain.RecordEventResult.
func ToRecordEventResponse(r *domain.RecordEventResult) RecordEventResponse {
	return RecordEventResponse{
		Transaction: ToTransactionResponse(&r.Transaction),
		Entries:     ToJournalEntryResponses(r.Entries),
		Duplicate:   r.Duplicate,
	}
}

// ListTransactionsParams defines query parameters for listing an agent's transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
