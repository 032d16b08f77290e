package domain

import "github.com/shopspring/decimal"

// AmountSource selects which input amount a posting line carries.
type AmountSource string

const (
	SourceTotal        AmountSource = "total"
	SourceBase         AmountSource = "base"
	SourceTax          AmountSource = "tax"
	SourceFee          AmountSource = "fee"
	SourcePenalty      AmountSource = "penalty"
	SourceTotalLessFee AmountSource = "total_less_fee"
)

// Resolve picks the amount for this source out of a.
func (s AmountSource) Resolve(a Amounts) decimal.Decimal {
	switch s {
	case SourceTotal:
		return a.Total
	case SourceBase:
		return a.Base
	case SourceTax:
		return a.Tax
	case SourceFee:
		return a.Fee
	case SourcePenalty:
		return a.Penalty
	case SourceTotalLessFee:
		return a.Total.Sub(a.Fee)
	default:
		return decimal.Zero
	}
}

// PostingLine is one templated journal line. Optional lines are dropped
// when their amount is zero.
type PostingLine struct {
	AccountCode string
	Side        EntrySide
	Source      AmountSource
	Optional    bool
}

// PostingRule maps an event type to its journal lines. A rule with
// ReversalOf set has no lines of its own: it mirrors the entries of a
// referenced transaction of one of those types. TotalOf lists the amounts
// that add up to the event total; when empty the total is taken as given.
type PostingRule struct {
	EventType  EventType
	Lines      []PostingLine
	ReversalOf []EventType
	TotalOf    []AmountSource
}

// DerivedTotal sums the TotalOf components of a. ok is false for rules
// whose total is not made of other amounts.
func (r PostingRule) DerivedTotal(a Amounts) (total decimal.Decimal, ok bool) {
	if len(r.TotalOf) == 0 {
		return decimal.Zero, false
	}
	total = decimal.Zero
	for _, src := range r.TotalOf {
		total = total.Add(src.Resolve(a))
	}
	return total, true
}

// WithTotal fills a missing total from its components.
func (r PostingRule) WithTotal(a Amounts) Amounts {
	if !a.Total.IsZero() {
		return a
	}
	if total, ok := r.DerivedTotal(a); ok {
		a.Total = total
	}
	return a
}

// IsReversal reports whether the rule mirrors a referenced transaction.
func (r PostingRule) IsReversal() bool {
	return len(r.ReversalOf) > 0
}

// Reverses reports whether a transaction of type et can be reversed by this rule.
func (r PostingRule) Reverses(et EventType) bool {
	for _, t := range r.ReversalOf {
		if t == et {
			return true
		}
	}
	return false
}

// Drafts expands the rule's lines for the given amounts.
func (r PostingRule) Drafts(a Amounts) []JournalEntryDraft {
	drafts := make([]JournalEntryDraft, 0, len(r.Lines))
	for _, line := range r.Lines {
		amount := line.Source.Resolve(a)
		if line.Optional && amount.IsZero() {
			continue
		}
		drafts = append(drafts, JournalEntryDraft{AccountCode: line.AccountCode, Side: line.Side, Amount: amount})
	}
	return drafts
}

// PostingRules is the event type to journal mapping.
var PostingRules = map[EventType]PostingRule{
	EventTicketIssue: {
		EventType: EventTicketIssue,
		Lines: []PostingLine{
			{AccountCode: AccountReceivable, Side: Debit, Source: SourceTotal},
			{AccountCode: AccountTicketRevenue, Side: Credit, Source: SourceBase},
			{AccountCode: AccountTaxPayable, Side: Credit, Source: SourceTax, Optional: true},
		},
		TotalOf: []AmountSource{SourceBase, SourceTax},
	},
	EventTicketReissue: {
		EventType: EventTicketReissue,
		Lines: []PostingLine{
			{AccountCode: AccountReceivable, Side: Debit, Source: SourceTotal},
			{AccountCode: AccountTicketRevenue, Side: Credit, Source: SourceBase},
			{AccountCode: AccountTaxPayable, Side: Credit, Source: SourceTax, Optional: true},
		},
		TotalOf: []AmountSource{SourceBase, SourceTax},
	},
	EventTicketVoid: {
		EventType:  EventTicketVoid,
		ReversalOf: []EventType{EventTicketIssue, EventTicketReissue},
	},
	EventTicketRefund: {
		EventType: EventTicketRefund,
		Lines: []PostingLine{
			{AccountCode: AccountTicketRevenue, Side: Debit, Source: SourceBase},
			{AccountCode: AccountRefundExpense, Side: Debit, Source: SourcePenalty, Optional: true},
			{AccountCode: AccountCash, Side: Credit, Source: SourceTotal},
		},
		TotalOf: []AmountSource{SourceBase, SourcePenalty},
	},
	EventPaymentReceived: {
		EventType: EventPaymentReceived,
		Lines: []PostingLine{
			{AccountCode: AccountCash, Side: Debit, Source: SourceTotalLessFee},
			{AccountCode: AccountPaymentFeeExpense, Side: Debit, Source: SourceFee, Optional: true},
			{AccountCode: AccountReceivable, Side: Credit, Source: SourceTotal},
		},
	},
	EventCommissionEarned: {
		EventType: EventCommissionEarned,
		Lines: []PostingLine{
			{AccountCode: AccountCommissionExpense, Side: Debit, Source: SourceTotal},
			{AccountCode: AccountCommissionPayable, Side: Credit, Source: SourceTotal},
		},
	},
	EventCommissionPaid: {
		EventType: EventCommissionPaid,
		Lines: []PostingLine{
			{AccountCode: AccountCommissionPayable, Side: Debit, Source: SourceTotal},
			{AccountCode: AccountCash, Side: Credit, Source: SourceTotal},
		},
	},
}

// RuleFor returns the posting rule for et.
func RuleFor(et EventType) (PostingRule, bool) {
	r, ok := PostingRules[et]
	return r, ok
}
