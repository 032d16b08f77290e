package domain_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPostingRules_Drafts(t *testing.T) {
	tests := []struct {
		name    string
		event   domain.EventType
		amounts domain.Amounts
		want    []domain.JournalEntryDraft
	}{
		{
			name:    "ticket issue with tax",
			event:   domain.EventTicketIssue,
			amounts: domain.Amounts{Base: dec("500.00"), Tax: dec("75.00"), Total: dec("575.00")},
			want: []domain.JournalEntryDraft{
				{AccountCode: domain.AccountReceivable, Side: domain.Debit, Amount: dec("575.00")},
				{AccountCode: domain.AccountTicketRevenue, Side: domain.Credit, Amount: dec("500.00")},
				{AccountCode: domain.AccountTaxPayable, Side: domain.Credit, Amount: dec("75.00")},
			},
		},
		{
			name:    "ticket issue without tax drops the optional line",
			event:   domain.EventTicketIssue,
			amounts: domain.Amounts{Base: dec("100"), Total: dec("100")},
			want: []domain.JournalEntryDraft{
				{AccountCode: domain.AccountReceivable, Side: domain.Debit, Amount: dec("100")},
				{AccountCode: domain.AccountTicketRevenue, Side: domain.Credit, Amount: dec("100")},
			},
		},
		{
			name:    "payment with fee",
			event:   domain.EventPaymentReceived,
			amounts: domain.Amounts{Total: dec("1000"), Fee: dec("12.50")},
			want: []domain.JournalEntryDraft{
				{AccountCode: domain.AccountCash, Side: domain.Debit, Amount: dec("987.50")},
				{AccountCode: domain.AccountPaymentFeeExpense, Side: domain.Debit, Amount: dec("12.50")},
				{AccountCode: domain.AccountReceivable, Side: domain.Credit, Amount: dec("1000")},
			},
		},
		{
			name:    "refund with penalty",
			event:   domain.EventTicketRefund,
			amounts: domain.Amounts{Base: dec("400"), Penalty: dec("50"), Total: dec("450")},
			want: []domain.JournalEntryDraft{
				{AccountCode: domain.AccountTicketRevenue, Side: domain.Debit, Amount: dec("400")},
				{AccountCode: domain.AccountRefundExpense, Side: domain.Debit, Amount: dec("50")},
				{AccountCode: domain.AccountCash, Side: domain.Credit, Amount: dec("450")},
			},
		},
		{
			name:    "commission earned",
			event:   domain.EventCommissionEarned,
			amounts: domain.Amounts{Total: dec("30")},
			want: []domain.JournalEntryDraft{
				{AccountCode: domain.AccountCommissionExpense, Side: domain.Debit, Amount: dec("30")},
				{AccountCode: domain.AccountCommissionPayable, Side: domain.Credit, Amount: dec("30")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := domain.RuleFor(tt.event)
			require.True(t, ok)
			got := rule.Drafts(tt.amounts)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].AccountCode, got[i].AccountCode)
				assert.Equal(t, tt.want[i].Side, got[i].Side)
				assert.True(t, tt.want[i].Amount.Equal(got[i].Amount), "line %d: want %s got %s", i, tt.want[i].Amount, got[i].Amount)
			}
		})
	}
}

func TestPostingRules_CoverEveryEventType(t *testing.T) {
	for _, et := range domain.EventTypes {
		rule, ok := domain.RuleFor(et)
		require.True(t, ok, "missing rule for %s", et)
		if rule.IsReversal() {
			continue
		}
		debits, credits := 0, 0
		for _, line := range rule.Lines {
			if line.Side == domain.Debit {
				debits++
			} else {
				credits++
			}
		}
		assert.Positive(t, debits, et)
		assert.Positive(t, credits, et)
	}

	void, _ := domain.RuleFor(domain.EventTicketVoid)
	assert.True(t, void.Reverses(domain.EventTicketIssue))
	assert.True(t, void.Reverses(domain.EventTicketReissue))
	assert.False(t, void.Reverses(domain.EventPaymentReceived))
}

func TestPostingRules_WithTotal(t *testing.T) {
	issue, _ := domain.RuleFor(domain.EventTicketIssue)
	filled := issue.WithTotal(domain.Amounts{Base: dec("500.00"), Tax: dec("75.00")})
	assert.True(t, filled.Total.Equal(dec("575.00")))

	given := issue.WithTotal(domain.Amounts{Base: dec("500.00"), Tax: dec("75.00"), Total: dec("600.00")})
	assert.True(t, given.Total.Equal(dec("600.00")), "a supplied total is kept for validation")

	refund, _ := domain.RuleFor(domain.EventTicketRefund)
	total, ok := refund.DerivedTotal(domain.Amounts{Base: dec("400"), Penalty: dec("50")})
	assert.True(t, ok)
	assert.True(t, total.Equal(dec("450")))

	payment, _ := domain.RuleFor(domain.EventPaymentReceived)
	_, ok = payment.DerivedTotal(domain.Amounts{Total: dec("10")})
	assert.False(t, ok)
	assert.True(t, payment.WithTotal(domain.Amounts{}).Total.IsZero())
}

func TestMirrorEntries(t *testing.T) {
	entries := []domain.JournalEntry{
		{AccountCode: domain.AccountReceivable, Side: domain.Debit, Amount: dec("575")},
		{AccountCode: domain.AccountTicketRevenue, Side: domain.Credit, Amount: dec("500")},
	}
	mirrored := domain.MirrorEntries(entries)
	require.Len(t, mirrored, 2)
	assert.Equal(t, domain.Credit, mirrored[0].Side)
	assert.Equal(t, domain.Debit, mirrored[1].Side)
	assert.Equal(t, domain.AccountTicketRevenue, mirrored[1].AccountCode)
	assert.True(t, mirrored[0].Amount.Equal(dec("575")))
}

func TestBucketForAge(t *testing.T) {
	cases := map[int]string{
		0: domain.Bucket0To7, 7: domain.Bucket0To7, 8: domain.Bucket8To30, 30: domain.Bucket8To30,
		31: domain.Bucket31To60, 60: domain.Bucket31To60, 61: domain.Bucket61To90, 90: domain.Bucket61To90,
		91: domain.BucketOver90, 400: domain.BucketOver90,
	}
	for days, want := range cases {
		assert.Equal(t, want, domain.BucketForAge(days), "days=%d", days)
	}
}

func TestGranularity(t *testing.T) {
	ts := time.Date(2026, 3, 31, 23, 59, 0, 0, time.FixedZone("X", -2*3600))

	day := domain.Daily.PeriodStart(ts)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), day)
	assert.Equal(t, "2026-04-01", domain.Daily.Label(day))
	assert.Equal(t, day.AddDate(0, 0, 1), domain.Daily.PeriodEnd(day))

	month := domain.Monthly.PeriodStart(ts)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), month)
	assert.Equal(t, "2026-04", domain.Monthly.Label(month))
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), domain.Monthly.PeriodEnd(month))
}

func TestPeriodSummary_Apply(t *testing.T) {
	start := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	s := domain.NewPeriodSummary("agent-1", domain.Daily, start, dec("100"))

	s.Apply(domain.TransactionLog{EventType: domain.EventTicketIssue, TotalAmount: dec("575")}, dec("675"))
	s.Apply(domain.TransactionLog{EventType: domain.EventTicketVoid, TotalAmount: dec("575")}, dec("100"))
	s.Apply(domain.TransactionLog{EventType: domain.EventPaymentReceived, TotalAmount: dec("50")}, dec("50"))
	s.Apply(domain.TransactionLog{EventType: domain.EventCommissionEarned, TotalAmount: dec("5")}, dec("45"))

	assert.Equal(t, int64(4), s.TransactionCount)
	assert.Equal(t, int64(1), s.EventCounts[domain.EventTicketVoid])
	assert.True(t, s.TotalSales.IsZero())
	assert.True(t, s.TotalPayments.Equal(dec("50")))
	assert.True(t, s.TotalCommission.Equal(dec("5")))
	assert.True(t, s.OpeningBalance.Equal(dec("100")))
	assert.True(t, s.ClosingBalance.Equal(dec("45")))

	other := domain.NewPeriodSummary("agent-1", domain.Daily, start, dec("100"))
	assert.False(t, s.SameFigures(other))
}

func TestNewTransactionNumber(t *testing.T) {
	at := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	n1 := domain.NewTransactionNumber(at)
	n2 := domain.NewTransactionNumber(at)

	assert.Regexp(t, regexp.MustCompile(`^TXN-20261016-[0-9A-F]{10}$`), n1)
	assert.NotEqual(t, n1, n2)
}

func TestAccountType_NormalBalance(t *testing.T) {
	assert.Equal(t, domain.Debit, domain.Asset.NormalBalance())
	assert.Equal(t, domain.Debit, domain.Expense.NormalBalance())
	assert.Equal(t, domain.Credit, domain.Liability.NormalBalance())
	assert.Equal(t, domain.Credit, domain.Equity.NormalBalance())
	assert.Equal(t, domain.Credit, domain.Revenue.NormalBalance())
	assert.False(t, domain.AccountType("income").Valid())
}
