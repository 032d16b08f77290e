package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLog is a row of the transaction_logs table. Failed rows have
// no reference id.
type TransactionLog struct {
	TransactionLogID      string          `json:"transactionLogID"`
	TransactionNumber     string          `json:"transactionNumber"`
	EventType             string          `json:"eventType"`
	AgentID               string          `json:"agentID"`
	BaseAmount            decimal.Decimal `json:"baseAmount"`
	TaxAmount             decimal.Decimal `json:"taxAmount"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	FeeAmount             decimal.Decimal `json:"feeAmount"`
	PenaltyAmount         decimal.Decimal `json:"penaltyAmount"`
	Currency              string          `json:"currency"`
	Status                string          `json:"status"`
	ReferenceID           sql.NullString  `json:"referenceID"`
	SourceEventID         string          `json:"sourceEventID"`
	ReversesTransactionID sql.NullString  `json:"reversesTransactionID"`
	FailureReason         sql.NullString  `json:"failureReason"`
	ActorID               string          `json:"actorID"`
	OccurredAt            time.Time       `json:"occurredAt"`
	CreatedAt             time.Time       `json:"createdAt"`
	PostedAt              sql.NullTime    `json:"postedAt"`
}
