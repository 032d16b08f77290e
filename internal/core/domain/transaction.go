package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType identifies the business event a transaction log row records.
type EventType string

const (
	EventTicketIssue      EventType = "ticket_issue"
	EventTicketVoid       EventType = "ticket_void"
	EventTicketRefund     EventType = "ticket_refund"
	EventTicketReissue    EventType = "ticket_reissue"
	EventPaymentReceived  EventType = "payment_received"
	EventCommissionEarned EventType = "commission_earned"
	EventCommissionPaid   EventType = "commission_paid"
)

// EventTypes lists every supported event type in a stable order.
var EventTypes = []EventType{
	EventTicketIssue,
	EventTicketVoid,
	EventTicketRefund,
	EventTicketReissue,
	EventPaymentReceived,
	EventCommissionEarned,
	EventCommissionPaid,
}

// Valid reports whether e is a known event type.
func (e EventType) Valid() bool {
	for _, known := range EventTypes {
		if e == known {
			return true
		}
	}
	return false
}

// TransactionStatus is the state of a transaction log row.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusPosted   TransactionStatus = "posted"
	StatusFailed   TransactionStatus = "failed"
	StatusReversed TransactionStatus = "reversed" // read-side view of a posted row with a posted reversal
)

// Terminal reports whether no further stored transition is allowed.
func (s TransactionStatus) Terminal() bool {
	return s == StatusPosted || s == StatusFailed
}

// Amounts are the pre-computed monetary inputs of an event.
type Amounts struct {
	Base     decimal.Decimal `json:"base"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Fee      decimal.Decimal `json:"fee"`
	Penalty  decimal.Decimal `json:"penalty"`
	Currency string          `json:"currency"`
}

// EventInput is what the ticketing workflow hands to RecordEvent.
type EventInput struct {
	SourceEventID         string
	EventType             EventType
	AgentID               string
	Amounts               Amounts
	OccurredAt            time.Time
	ReversesSourceEventID string // required for ticket_void
}

// TransactionLog is the append-only record of one business event.
type TransactionLog struct {
	ID                    string            `json:"id"`
	TransactionNumber     string            `json:"transactionNumber"`
	EventType             EventType         `json:"eventType"`
	AgentID               string            `json:"agentID"`
	BaseAmount            decimal.Decimal   `json:"baseAmount"`
	TaxAmount             decimal.Decimal   `json:"taxAmount"`
	TotalAmount           decimal.Decimal   `json:"totalAmount"`
	FeeAmount             decimal.Decimal   `json:"feeAmount"`
	PenaltyAmount         decimal.Decimal   `json:"penaltyAmount"`
	Currency              string            `json:"currency"`
	Status                TransactionStatus `json:"status"`
	ReferenceID           string            `json:"referenceID"`
	SourceEventID         string            `json:"sourceEventID"`
	ReversesTransactionID *string           `json:"reversesTransactionID,omitempty"`
	FailureReason         string            `json:"failureReason,omitempty"`
	ActorID               string            `json:"actorID"`
	OccurredAt            time.Time         `json:"occurredAt"`
	CreatedAt             time.Time         `json:"createdAt"`
	PostedAt              *time.Time        `json:"postedAt,omitempty"`
}

// Amounts returns the monetary inputs stored on the row.
func (t TransactionLog) Amounts() Amounts {
	return Amounts{
		Base:     t.BaseAmount,
		Tax:      t.TaxAmount,
		Total:    t.TotalAmount,
		Fee:      t.FeeAmount,
		Penalty:  t.PenaltyAmount,
		Currency: t.Currency,
	}
}

// SetAmounts copies a onto the row.
func (t *TransactionLog) SetAmounts(a Amounts) {
	t.BaseAmount = a.Base
	t.TaxAmount = a.Tax
	t.TotalAmount = a.Total
	t.FeeAmount = a.Fee
	t.PenaltyAmount = a.Penalty
	t.Currency = a.Currency
}

// RecordEventResult is returned by RecordEvent. Duplicate is set when the
// source event had already been recorded and Transaction is the stored row.
type RecordEventResult struct {
	Transaction TransactionLog    `json:"transaction"`
	Entries     []JournalEntry    `json:"entries,omitempty"`
	LedgerEntry *AgentLedgerEntry `json:"ledgerEntry,omitempty"`
	Duplicate   bool              `json:"duplicate"`
}

// NewTransactionNumber formats a human readable unique number for a row
// created at the given time.
func NewTransactionNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return "TXN-" + at.UTC().Format("20060102") + "-" + suffix
}
