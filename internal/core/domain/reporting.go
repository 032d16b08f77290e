package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Granularity of a periodic summary.
type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

// Valid reports whether g is daily or monthly.
func (g Granularity) Valid() bool {
	return g == Daily || g == Monthly
}

// PeriodStart truncates t (in UTC) to the start of its period.
func (g Granularity) PeriodStart(t time.Time) time.Time {
	t = t.UTC()
	if g == Monthly {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PeriodEnd returns the exclusive end of the period starting at start.
func (g Granularity) PeriodEnd(start time.Time) time.Time {
	if g == Monthly {
		return start.AddDate(0, 1, 0)
	}
	return start.AddDate(0, 0, 1)
}

// Label formats the period starting at start.
func (g Granularity) Label(start time.Time) string {
	if g == Monthly {
		return start.Format("2006-01")
	}
	return start.Format("2006-01-02")
}

// EventFigures splits a posted transaction into the sales, refund, payment
// and commission figures it contributes to totals.
type EventFigures struct {
	Sales      decimal.Decimal
	Refunds    decimal.Decimal
	Payments   decimal.Decimal
	Commission decimal.Decimal
}

// FiguresFor returns the contribution of a posted transaction.
func FiguresFor(txn TransactionLog) EventFigures {
	f := EventFigures{Sales: decimal.Zero, Refunds: decimal.Zero, Payments: decimal.Zero, Commission: decimal.Zero}
	switch txn.EventType {
	case EventTicketIssue, EventTicketReissue:
		f.Sales = txn.TotalAmount
	case EventTicketVoid:
		f.Sales = txn.TotalAmount.Neg()
	case EventTicketRefund:
		f.Refunds = txn.TotalAmount
	case EventPaymentReceived:
		f.Payments = txn.TotalAmount
	case EventCommissionEarned:
		f.Commission = txn.TotalAmount
	}
	return f
}

// PeriodSummary is a daily or monthly roll-up for one agent. It is a
// cache over the transaction log and agent ledger.
type PeriodSummary struct {
	AgentID          string              `json:"agent_id"`
	Granularity      Granularity         `json:"granularity"`
	PeriodStart      time.Time           `json:"period_start"`
	Period           string              `json:"period"`
	EventCounts      map[EventType]int64 `json:"event_counts"`
	TransactionCount int64               `json:"transaction_count"`
	TotalSales       decimal.Decimal     `json:"total_sales"`
	TotalRefunds     decimal.Decimal     `json:"total_refunds"`
	TotalPayments    decimal.Decimal     `json:"total_payments"`
	TotalCommission  decimal.Decimal     `json:"total_commission"`
	OpeningBalance   decimal.Decimal     `json:"opening_balance"`
	ClosingBalance   decimal.Decimal     `json:"closing_balance"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// NewPeriodSummary returns an empty summary opening at the given balance.
func NewPeriodSummary(agentID string, g Granularity, start time.Time, opening decimal.Decimal) PeriodSummary {
	counts := make(map[EventType]int64, len(EventTypes))
	for _, et := range EventTypes {
		counts[et] = 0
	}
	return PeriodSummary{
		AgentID:         agentID,
		Granularity:     g,
		PeriodStart:     start,
		Period:          g.Label(start),
		EventCounts:     counts,
		TotalSales:      decimal.Zero,
		TotalRefunds:    decimal.Zero,
		TotalPayments:   decimal.Zero,
		TotalCommission: decimal.Zero,
		OpeningBalance:  opening,
		ClosingBalance:  opening,
	}
}

// Apply folds one posted transaction into the summary. Incremental updates
// and rebuilds both go through here.
func (s *PeriodSummary) Apply(txn TransactionLog, balanceAfter decimal.Decimal) {
	if s.EventCounts == nil {
		s.EventCounts = make(map[EventType]int64, len(EventTypes))
	}
	s.EventCounts[txn.EventType]++
	s.TransactionCount++

	f := FiguresFor(txn)
	s.TotalSales = s.TotalSales.Add(f.Sales)
	s.TotalRefunds = s.TotalRefunds.Add(f.Refunds)
	s.TotalPayments = s.TotalPayments.Add(f.Payments)
	s.TotalCommission = s.TotalCommission.Add(f.Commission)
	s.ClosingBalance = balanceAfter
}

// SameFigures reports whether two summaries carry identical counters, totals
// and balances. UpdatedAt is ignored.
func (s PeriodSummary) SameFigures(o PeriodSummary) bool {
	if s.AgentID != o.AgentID || s.Granularity != o.Granularity || !s.PeriodStart.Equal(o.PeriodStart) {
		return false
	}
	if s.TransactionCount != o.TransactionCount {
		return false
	}
	for _, et := range EventTypes {
		if s.EventCounts[et] != o.EventCounts[et] {
			return false
		}
	}
	return s.TotalSales.Equal(o.TotalSales) &&
		s.TotalRefunds.Equal(o.TotalRefunds) &&
		s.TotalPayments.Equal(o.TotalPayments) &&
		s.TotalCommission.Equal(o.TotalCommission) &&
		s.OpeningBalance.Equal(o.OpeningBalance) &&
		s.ClosingBalance.Equal(o.ClosingBalance)
}
