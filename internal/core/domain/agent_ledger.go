package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgentAccount is the per-agent ledger tail. It is locked for every
// posting that affects the agent and holds the projected balances.
type AgentAccount struct {
	AgentID           string          `json:"agentID"`
	Currency          string          `json:"currency"`
	CreditLimit       decimal.Decimal `json:"creditLimit"`
	LastSequence      int64           `json:"lastSequence"`
	RunningBalance    decimal.Decimal `json:"runningBalance"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalPayments     decimal.Decimal `json:"totalPayments"`
	TotalRefunds      decimal.Decimal `json:"totalRefunds"`
	TotalCommission   decimal.Decimal `json:"totalCommission"`
	LastTransactionAt *time.Time      `json:"lastTransactionAt,omitempty"`
	LastPaymentAt     *time.Time      `json:"lastPaymentAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// AvailableCredit is the credit limit minus the net receivable. A
// prepayment therefore extends the credit available to the agent.
func (a AgentAccount) AvailableCredit() decimal.Decimal {
	return a.CreditLimit.Sub(a.Outstanding)
}

// AgentLedgerEntry is the derived, append-only agent-facing effect of one
// posted transaction.
type AgentLedgerEntry struct {
	ID                  string          `json:"id"`
	AgentID             string          `json:"agentID"`
	TransactionLogID    string          `json:"transactionLogID"`
	Sequence            int64           `json:"sequence"`
	Direction           EntrySide       `json:"direction"`
	Amount              decimal.Decimal `json:"amount"`
	ReceivableDelta     decimal.Decimal `json:"receivableDelta"`
	RunningBalanceAfter decimal.Decimal `json:"runningBalanceAfter"`
	OutstandingAfter    decimal.Decimal `json:"outstandingAfter"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// SignedAmount is positive for debits (agent owes more) and negative for credits.
func (e AgentLedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == Credit {
		return e.Amount.Neg()
	}
	return e.Amount
}

// AgentBalance is the GetBalance view. OutstandingAmount never goes below
// zero: receivable credits beyond what is owed show up as UnappliedCredit,
// matching the outstanding detail view.
type AgentBalance struct {
	AgentID           string          `json:"agent_id"`
	Currency          string          `json:"currency"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	UnappliedCredit   decimal.Decimal `json:"unapplied_credit"`
	CreditLimit       decimal.Decimal `json:"credit_limit"`
	AvailableCredit   decimal.Decimal `json:"available_credit"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalPayments     decimal.Decimal `json:"total_payments"`
	TotalRefunds      decimal.Decimal `json:"total_refunds"`
	LastTransactionAt *time.Time      `json:"last_transaction_at"`
	LastPaymentAt     *time.Time      `json:"last_payment_at"`
	AsOf              time.Time       `json:"as_of"`
}

// BalanceFromAccount projects the tail row into the balance view.
func BalanceFromAccount(a AgentAccount, asOf time.Time) AgentBalance {
	outstanding, unapplied := a.Outstanding, decimal.Zero
	if outstanding.IsNegative() {
		outstanding, unapplied = decimal.Zero, outstanding.Neg()
	}
	return AgentBalance{
		AgentID:           a.AgentID,
		Currency:          a.Currency,
		CurrentBalance:    a.RunningBalance,
		OutstandingAmount: outstanding,
		UnappliedCredit:   unapplied,
		CreditLimit:       a.CreditLimit,
		AvailableCredit:   a.AvailableCredit(),
		TotalSales:        a.TotalSales,
		TotalPayments:     a.TotalPayments,
		TotalRefunds:      a.TotalRefunds,
		LastTransactionAt: a.LastTransactionAt,
		LastPaymentAt:     a.LastPaymentAt,
		AsOf:              asOf,
	}
}

// ReceivableMovement is a ledger entry joined with its transaction, as
// needed by the aging computation.
type ReceivableMovement struct {
	TransactionLogID      string          `json:"transactionLogID"`
	TransactionNumber     string          `json:"transactionNumber"`
	EventType             EventType       `json:"eventType"`
	ReversesTransactionID *string         `json:"reversesTransactionID,omitempty"`
	Sequence              int64           `json:"sequence"`
	Delta                 decimal.Decimal `json:"delta"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// Aging bucket labels.
const (
	Bucket0To7   = "0-7"
	Bucket8To30  = "8-30"
	Bucket31To60 = "31-60"
	Bucket61To90 = "61-90"
	BucketOver90 = "90+"
)

// AgingBuckets lists the labels in ascending age.
var AgingBuckets = []string{Bucket0To7, Bucket8To30, Bucket31To60, Bucket61To90, BucketOver90}

// BucketForAge returns the label for an open item of the given age in days.
func BucketForAge(days int) string {
	switch {
	case days <= 7:
		return Bucket0To7
	case days <= 30:
		return Bucket8To30
	case days <= 60:
		return Bucket31To60
	case days <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// OutstandingItem is an open receivable-creating transaction.
type OutstandingItem struct {
	TransactionLogID  string          `json:"transaction_log_id"`
	TransactionNumber string          `json:"transaction_number"`
	EventType         EventType       `json:"event_type"`
	OriginalAmount    decimal.Decimal `json:"original_amount"`
	OpenAmount        decimal.Decimal `json:"open_amount"`
	CreatedAt         time.Time       `json:"created_at"`
	DaysOutstanding   int             `json:"days_outstanding"`
	Bucket            string          `json:"bucket"`
}

// OutstandingDetail is the GetOutstandingDetail view.
type OutstandingDetail struct {
	AgentID          string                     `json:"agent_id"`
	TotalOutstanding decimal.Decimal            `json:"total_outstanding"`
	UnappliedCredit  decimal.Decimal            `json:"unapplied_credit"`
	Items            []OutstandingItem          `json:"items"`
	AgingSummary     map[string]decimal.Decimal `json:"aging_summary"`
	AsOf             time.Time                  `json:"as_of"`
}

// CreditCheck is the CheckCredit result.
type CreditCheck struct {
	AgentID         string          `json:"agent_id"`
	Allowed         bool            `json:"allowed"`
	Requested       decimal.Decimal `json:"requested"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	Shortfall       decimal.Decimal `json:"shortfall"`
}
