package domain

import "time"

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalBalance returns the side on which balances of this type increase.
func (t AccountType) NormalBalance() EntrySide {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// Account codes of the default chart.
const (
	AccountCash              = "1100"
	AccountReceivable        = "1200"
	AccountTaxPayable        = "2100"
	AccountCommissionPayable = "2200"
	AccountTicketRevenue     = "4100"
	AccountRefundExpense     = "5100"
	AccountPaymentFeeExpense = "5200"
	AccountCommissionExpense = "5300"
)

// Account is an entry of the chart of accounts. It is immutable once
// journal entries reference it.
type Account struct {
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Type          AccountType `json:"type"`
	NormalBalance EntrySide   `json:"normalBalance"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// NewAccount builds an account with its normal balance derived from the type.
func NewAccount(code, name string, accountType AccountType) Account {
	return Account{
		Code:          code,
		Name:          name,
		Type:          accountType,
		NormalBalance: accountType.NormalBalance(),
	}
}

// DefaultChart is seeded at startup.
func DefaultChart() []Account {
	return []Account{
		NewAccount(AccountCash, "Cash", Asset),
		NewAccount(AccountReceivable, "Accounts Receivable", Asset),
		NewAccount(AccountTaxPayable, "Tax Payable", Liability),
		NewAccount(AccountCommissionPayable, "Commission Payable", Liability),
		NewAccount(AccountTicketRevenue, "Ticket Revenue", Revenue),
		NewAccount(AccountRefundExpense, "Refund Expense", Expense),
		NewAccount(AccountPaymentFeeExpense, "Payment Fee Expense", Expense),
		NewAccount(AccountCommissionExpense, "Commission Expense", Expense),
	}
}

// AgentFacingAccounts are the accounts whose movements make up an agent's
// running balance. The bool marks receivable accounts, which also drive
// the outstanding amount and aging.
var AgentFacingAccounts = map[string]bool{
	AccountReceivable:        true,
	AccountCommissionPayable: false,
}
