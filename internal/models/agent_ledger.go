package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// AgentAccount is a row of the agent_accounts table, the per-agent ledger tail.
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
	LastTransactionAt sql.NullTime    `json:"lastTransactionAt"`
	LastPaymentAt     sql.NullTime    `json:"lastPaymentAt"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// AgentLedgerEntry is a row of the agent_ledger_entries table.
type AgentLedgerEntry struct {
	EntryID             string          `json:"entryID"`
	AgentID             string          `json:"agentID"`
	TransactionLogID    string          `json:"transactionLogID"`
	Sequence            int64           `json:"sequence"`
	Direction           string          `json:"direction"`
	Amount              decimal.Decimal `json:"amount"`
	ReceivableDelta     decimal.Decimal `json:"receivableDelta"`
	RunningBalanceAfter decimal.Decimal `json:"runningBalanceAfter"`
	OutstandingAfter    decimal.Decimal `json:"outstandingAfter"`
	CreatedAt           time.Time       `json:"createdAt"`
}
