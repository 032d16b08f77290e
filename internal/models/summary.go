package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodSummary is a row of the period_summaries table. EventCounts is
// stored as JSONB.
type PeriodSummary struct {
	AgentID          string           `json:"agentID"`
	Granularity      string           `json:"granularity"`
	PeriodStart      time.Time        `json:"periodStart"`
	EventCounts      map[string]int64 `json:"eventCounts"`
	TransactionCount int64            `json:"transactionCount"`
	TotalSales       decimal.Decimal  `json:"totalSales"`
	TotalRefunds     decimal.Decimal  `json:"totalRefunds"`
	TotalPayments    decimal.Decimal  `json:"totalPayments"`
	TotalCommission  decimal.Decimal  `json:"totalCommission"`
	OpeningBalance   decimal.Decimal  `json:"openingBalance"`
	ClosingBalance   decimal.Decimal  `json:"closingBalance"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}
