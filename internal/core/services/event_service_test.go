package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/SscSPs/travel_ledger/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type EventServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	engine *engine
}

func (suite *EventServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	clock := newTestClock(time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC))
	suite.engine = newEngine(dec("50000"), nil, memory.NewStore(), clock)
}

func (suite *EventServiceTestSuite) record(input domain.EventInput) *domain.RecordEventResult {
	res, err := suite.engine.events.RecordEvent(suite.ctx, input)
	suite.Require().NoError(err)
	suite.Require().NotNil(res)
	return res
}

func (suite *EventServiceTestSuite) requireEntry(entry domain.JournalEntry, code string, side domain.EntrySide, amount string) {
	suite.Equal(code, entry.AccountCode)
	suite.Equal(side, entry.Side)
	suite.True(entry.Amount.Equal(dec(amount)), "%s: want %s, got %s", code, amount, entry.Amount)
}

func (suite *EventServiceTestSuite) TestIssueThenVoid() {
	issue := suite.record(issueInput("evt-1", "agent-A", "500.00", "75.00"))

	suite.Equal(domain.StatusPosted, issue.Transaction.Status)
	suite.False(issue.Duplicate)
	suite.True(issue.Transaction.TotalAmount.Equal(dec("575.00")))
	suite.Regexp(`^TXN-20261016-[0-9A-F]{10}$`, issue.Transaction.TransactionNumber)
	suite.Require().Len(issue.Entries, 3)
	suite.requireEntry(issue.Entries[0], domain.AccountReceivable, domain.Debit, "575.00")
	suite.requireEntry(issue.Entries[1], domain.AccountTicketRevenue, domain.Credit, "500.00")
	suite.requireEntry(issue.Entries[2], domain.AccountTaxPayable, domain.Credit, "75.00")
	suite.Require().NotNil(issue.LedgerEntry)
	suite.Equal(int64(1), issue.LedgerEntry.Sequence)
	suite.Equal(domain.Debit, issue.LedgerEntry.Direction)

	balance, err := suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(balance.OutstandingAmount.Equal(dec("575.00")))
	suite.True(balance.CurrentBalance.Equal(dec("575.00")))
	suite.True(balance.AvailableCredit.Equal(dec("49425.00")))
	suite.True(balance.TotalSales.Equal(dec("575.00")))
	suite.Equal("USD", balance.Currency)

	void := suite.record(voidInput("evt-2", "agent-A", "evt-1"))

	suite.Equal(domain.StatusPosted, void.Transaction.Status)
	suite.Require().NotNil(void.Transaction.ReversesTransactionID)
	suite.Equal(issue.Transaction.ID, *void.Transaction.ReversesTransactionID)
	suite.True(void.Transaction.TotalAmount.Equal(dec("575.00")))
	suite.Require().Len(void.Entries, 3)
	for i := range issue.Entries {
		suite.Equal(issue.Entries[i].AccountCode, void.Entries[i].AccountCode)
		suite.Equal(issue.Entries[i].Side.Opposite(), void.Entries[i].Side)
		suite.True(issue.Entries[i].Amount.Equal(void.Entries[i].Amount))
	}

	balance, err = suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(balance.OutstandingAmount.IsZero())
	suite.True(balance.CurrentBalance.IsZero())
	suite.True(balance.TotalSales.IsZero())

	for _, ref := range []string{issue.Transaction.ReferenceID, void.Transaction.ReferenceID} {
		check, err := suite.engine.journal.VerifyDoubleEntry(suite.ctx, ref)
		suite.Require().NoError(err)
		suite.True(check.Balanced)
		suite.True(check.Difference.IsZero())
		suite.Equal(3, check.EntryCount)
	}

	original, err := suite.engine.events.GetTransaction(suite.ctx, issue.Transaction.TransactionNumber)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusReversed, original.Status)

	reversal, err := suite.engine.events.GetTransaction(suite.ctx, void.Transaction.TransactionNumber)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, reversal.Status)

	detail, err := suite.engine.agentLedger.GetOutstandingDetail(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.Empty(detail.Items)
	suite.True(detail.TotalOutstanding.IsZero())
}

func (suite *EventServiceTestSuite) TestPaymentIncreasesAvailableCredit() {
	suite.record(issueInput("evt-1", "agent-A", "12000.00", "575.00"))
	before, err := suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)

	suite.engine.clock.Advance(time.Hour)
	payment := suite.record(totalInput("pay-1", "agent-A", domain.EventPaymentReceived, "10000.00"))
	suite.Require().Len(payment.Entries, 2)
	suite.requireEntry(payment.Entries[0], domain.AccountCash, domain.Debit, "10000.00")
	suite.requireEntry(payment.Entries[1], domain.AccountReceivable, domain.Credit, "10000.00")

	after, err := suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(before.OutstandingAmount.Sub(after.OutstandingAmount).Equal(dec("10000")))
	suite.True(after.AvailableCredit.Sub(before.AvailableCredit).Equal(dec("10000")))
	suite.True(after.TotalPayments.Equal(dec("10000")))
	suite.Require().NotNil(after.LastPaymentAt)
	suite.True(after.LastPaymentAt.Equal(suite.engine.clock.Now()))
}

func (suite *EventServiceTestSuite) TestRecordEvent_Idempotent() {
	first := suite.record(issueInput("evt-1", "agent-A", "500.00", "75.00"))
	second := suite.record(issueInput("evt-1", "agent-A", "500.00", "75.00"))

	suite.True(second.Duplicate)
	suite.Equal(first.Transaction.ID, second.Transaction.ID)
	suite.Equal(1, suite.engine.store.CountTransactions())
	suite.Equal(3, suite.engine.store.CountJournalEntries())

	balance, err := suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(balance.OutstandingAmount.Equal(dec("575.00")))
}

func (suite *EventServiceTestSuite) TestRecordEvent_ConcurrentDuplicates() {
	var wg sync.WaitGroup
	ids := make([]string, 10)
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := suite.engine.events.RecordEvent(suite.ctx, issueInput("evt-1", "agent-A", "100", "0"))
			errs[i] = err
			if res != nil {
				ids[i] = res.Transaction.ID
			}
		}(i)
	}
	wg.Wait()

	for i := range ids {
		suite.NoError(errs[i])
		suite.Equal(ids[0], ids[i])
	}
	suite.Equal(1, suite.engine.store.CountTransactions())
	suite.Equal(2, suite.engine.store.CountJournalEntries())
}

func (suite *EventServiceTestSuite) TestRecordEvent_ConcurrentPostingsSerializePerAgent() {
	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := suite.engine.events.RecordEvent(suite.ctx, issueInput(fmt.Sprintf("evt-%d", i), "agent-A", "100", "0"))
			suite.NoError(err)
		}(i)
	}
	wg.Wait()

	entries, err := suite.engine.store.ListLedgerEntries(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.Require().Len(entries, n)
	for i, e := range entries {
		suite.Equal(int64(i+1), e.Sequence)
		suite.True(e.RunningBalanceAfter.Equal(dec("100").Mul(dec(fmt.Sprint(i+1)))), "sequence %d balance %s", e.Sequence, e.RunningBalanceAfter)
	}

	balance, err := suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(balance.OutstandingAmount.Equal(dec("2000")))
}

func (suite *EventServiceTestSuite) TestRecordEvent_ValidationFailureIsRecorded() {
	input := issueInput("evt-bad", "agent-A", "500.00", "75.00")
	input.Amounts.Total = dec("600.00")

	res, err := suite.engine.events.RecordEvent(suite.ctx, input)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Require().NotNil(res)
	suite.Equal(domain.StatusFailed, res.Transaction.Status)
	suite.NotEmpty(res.Transaction.FailureReason)
	suite.Empty(res.Transaction.ReferenceID)
	suite.Equal(1, suite.engine.store.CountTransactions())
	suite.Equal(0, suite.engine.store.CountJournalEntries())

	_, err = suite.engine.store.FindAgentAccount(suite.ctx, "agent-A")
	suite.ErrorIs(err, apperrors.ErrNotFound, "a failed posting must not touch the agent ledger")

	replay, err := suite.engine.events.RecordEvent(suite.ctx, input)
	suite.Require().NoError(err)
	suite.True(replay.Duplicate)
	suite.Equal(res.Transaction.ID, replay.Transaction.ID)
	suite.Equal(domain.StatusFailed, replay.Transaction.Status)

	failedAudits := 0
	for _, entry := range suite.engine.store.AuditLog() {
		if entry.Action == domain.ActionTransactionFailed {
			failedAudits++
		}
	}
	suite.Equal(1, failedAudits)
}

func (suite *EventServiceTestSuite) TestRecordEvent_RejectsMalformedEnvelope() {
	tests := map[string]func(*domain.EventInput){
		"missing agent":      func(in *domain.EventInput) { in.AgentID = "" },
		"missing source id":  func(in *domain.EventInput) { in.SourceEventID = "" },
		"unknown event type": func(in *domain.EventInput) { in.EventType = "ticket_exchange" },
		"missing currency":   func(in *domain.EventInput) { in.Amounts.Currency = "" },
		"malformed currency": func(in *domain.EventInput) { in.Amounts.Currency = "US1" },
	}
	for name, mutate := range tests {
		suite.Run(name, func() {
			input := issueInput("evt-"+name, "agent-A", "10", "0")
			mutate(&input)
			res, err := suite.engine.events.RecordEvent(suite.ctx, input)
			suite.Nil(res)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.Equal(0, suite.engine.store.CountTransactions())
}

func (suite *EventServiceTestSuite) TestRecordEvent_RejectsNonPositiveAmounts() {
	res, err := suite.engine.events.RecordEvent(suite.ctx, totalInput("pay-0", "agent-A", domain.EventPaymentReceived, "0"))
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Require().NotNil(res)
	suite.Equal(domain.StatusFailed, res.Transaction.Status)

	res, err = suite.engine.events.RecordEvent(suite.ctx, issueInput("evt-neg", "agent-A", "100", "-5"))
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(domain.StatusFailed, res.Transaction.Status)
}

func (suite *EventServiceTestSuite) TestVoid_Rejections() {
	suite.record(issueInput("evt-1", "agent-A", "100", "0"))
	suite.record(issueInput("evt-b", "agent-B", "100", "0"))
	suite.record(totalInput("pay-1", "agent-A", domain.EventPaymentReceived, "50"))
	suite.record(voidInput("void-1", "agent-A", "evt-1"))

	tests := []struct {
		name  string
		input domain.EventInput
	}{
		{name: "unknown original", input: voidInput("void-x", "agent-A", "evt-missing")},
		{name: "no reference", input: voidInput("void-y", "agent-A", "")},
		{name: "already reversed", input: voidInput("void-2", "agent-A", "evt-1")},
		{name: "not reversible", input: voidInput("void-3", "agent-A", "pay-1")},
		{name: "other agent", input: voidInput("void-4", "agent-A", "evt-b")},
		{name: "amount mismatch", input: func() domain.EventInput {
			in := voidInput("void-5", "agent-B", "evt-b")
			in.Amounts.Total = dec("99")
			return in
		}()},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			res, err := suite.engine.events.RecordEvent(suite.ctx, tt.input)
			suite.ErrorIs(err, apperrors.ErrValidation)
			suite.Require().NotNil(res)
			suite.Equal(domain.StatusFailed, res.Transaction.Status)
		})
	}

	balance, err := suite.engine.agentLedger.GetBalance(suite.ctx, "agent-B")
	suite.Require().NoError(err)
	suite.True(balance.OutstandingAmount.Equal(dec("100")))
}

func (suite *EventServiceTestSuite) TestRecordEvent_CurrencyFixedByFirstPosting() {
	suite.record(issueInput("evt-1", "agent-A", "100", "0"))

	input := issueInput("evt-2", "agent-A", "100", "0")
	input.Amounts.Currency = "eur"
	res, err := suite.engine.events.RecordEvent(suite.ctx, input)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(domain.StatusFailed, res.Transaction.Status)
	suite.Equal("EUR", res.Transaction.Currency)
}

func (suite *EventServiceTestSuite) TestRefundHasNoAgentLedgerEffect() {
	suite.record(issueInput("evt-1", "agent-A", "500.00", "75.00"))
	refund := suite.record(domain.EventInput{
		SourceEventID: "ref-1",
		EventType:     domain.EventTicketRefund,
		AgentID:       "agent-A",
		Amounts:       domain.Amounts{Base: dec("400"), Penalty: dec("50"), Total: dec("450"), Currency: "USD"},
	})

	suite.Nil(refund.LedgerEntry)
	suite.Require().Len(refund.Entries, 3)
	suite.requireEntry(refund.Entries[2], domain.AccountCash, domain.Credit, "450")

	balance, err := suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(balance.OutstandingAmount.Equal(dec("575")))
	suite.True(balance.TotalRefunds.Equal(dec("450")))
}

func (suite *EventServiceTestSuite) TestCommissionMovesBalanceButNotOutstanding() {
	suite.record(issueInput("evt-1", "agent-A", "500.00", "75.00"))

	earned := suite.record(totalInput("com-1", "agent-A", domain.EventCommissionEarned, "30"))
	suite.Require().NotNil(earned.LedgerEntry)
	suite.Equal(domain.Credit, earned.LedgerEntry.Direction)
	suite.True(earned.LedgerEntry.ReceivableDelta.IsZero())

	balance, err := suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(balance.CurrentBalance.Equal(dec("545")))
	suite.True(balance.OutstandingAmount.Equal(dec("575")))

	suite.record(totalInput("com-pay-1", "agent-A", domain.EventCommissionPaid, "30"))
	balance, err = suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(balance.CurrentBalance.Equal(dec("575")))
}

func (suite *EventServiceTestSuite) TestAuditFailureAbortsPosting() {
	suite.engine.store.FailAuditWith(errors.New("disk full"))

	res, err := suite.engine.events.RecordEvent(suite.ctx, issueInput("evt-1", "agent-A", "100", "0"))

	suite.Nil(res)
	suite.ErrorIs(err, apperrors.ErrPersistence)
	suite.True(apperrors.IsRetryable(err))
	suite.Equal(0, suite.engine.store.CountTransactions())
	suite.Equal(0, suite.engine.store.CountJournalEntries())

	suite.engine.store.FailAuditWith(nil)
	res = suite.record(issueInput("evt-1", "agent-A", "100", "0"))
	suite.False(res.Duplicate)
	suite.Equal(domain.StatusPosted, res.Transaction.Status)
}

func (suite *EventServiceTestSuite) TestRetriesConcurrencyConflicts() {
	store := memory.NewStore()
	txManager := &MockTransactionManager{next: store}
	eng := newEngine(dec("1000"), txManager, store, newTestClock(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)))
	conflict := apperrors.NewConcurrencyError("could not serialize access", nil)

	txManager.On("WithinTransaction", mock.Anything).Return(conflict).Twice()
	txManager.On("WithinTransaction", mock.Anything).Return(nil)

	res, err := eng.events.RecordEvent(suite.ctx, issueInput("evt-1", "agent-A", "100", "0"))
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, res.Transaction.Status)
	txManager.AssertNumberOfCalls(suite.T(), "WithinTransaction", 3)
}

func (suite *EventServiceTestSuite) TestRetriesAreBounded() {
	store := memory.NewStore()
	txManager := &MockTransactionManager{next: store}
	eng := newEngine(dec("1000"), txManager, store, newTestClock(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)))

	txManager.On("WithinTransaction", mock.Anything).Return(apperrors.NewConcurrencyError("deadlock detected", nil))

	res, err := eng.events.RecordEvent(suite.ctx, issueInput("evt-1", "agent-A", "100", "0"))
	suite.Nil(res)
	suite.ErrorIs(err, apperrors.ErrConcurrencyConflict)
	suite.True(apperrors.IsRetryable(err))
	txManager.AssertNumberOfCalls(suite.T(), "WithinTransaction", 3)
	suite.Equal(0, store.CountTransactions())
}

func (suite *EventServiceTestSuite) TestListAgentTransactions_Paginates() {
	for i := 0; i < 3; i++ {
		suite.record(issueInput(fmt.Sprintf("evt-%d", i), "agent-A", "10", "0"))
		suite.engine.clock.Advance(time.Minute)
	}

	page, next, err := suite.engine.events.ListAgentTransactions(suite.ctx, "agent-A", 2, nil)
	suite.Require().NoError(err)
	suite.Len(page, 2)
	suite.Require().NotNil(next)
	suite.Equal("evt-2", page[0].SourceEventID)

	rest, next, err := suite.engine.events.ListAgentTransactions(suite.ctx, "agent-A", 2, next)
	suite.Require().NoError(err)
	suite.Len(rest, 1)
	suite.Nil(next)
	suite.Equal("evt-0", rest[0].SourceEventID)

	_, _, err = suite.engine.events.ListAgentTransactions(suite.ctx, "", 2, nil)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EventServiceTestSuite) TestGetTransaction_NotFound() {
	_, err := suite.engine.events.GetTransaction(suite.ctx, "TXN-20260101-0000000000")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EventServiceTestSuite) TestOverpaymentShowsAsUnappliedCredit() {
	suite.record(issueInput("evt-1", "agent-A", "500.00", "75.00"))
	suite.record(totalInput("pay-1", "agent-A", domain.EventPaymentReceived, "625.00"))

	balance, err := suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(balance.OutstandingAmount.IsZero(), "got %s", balance.OutstandingAmount)
	suite.True(balance.UnappliedCredit.Equal(dec("50.00")), "got %s", balance.UnappliedCredit)
	suite.True(balance.AvailableCredit.Equal(dec("50050.00")), "got %s", balance.AvailableCredit)

	detail, err := suite.engine.agentLedger.GetOutstandingDetail(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(detail.TotalOutstanding.Equal(balance.OutstandingAmount))
	suite.True(detail.UnappliedCredit.Equal(balance.UnappliedCredit))

	suite.record(voidInput("void-1", "agent-A", "evt-1"))
	balance, err = suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(balance.OutstandingAmount.IsZero())
	suite.True(balance.UnappliedCredit.Equal(dec("625.00")))

	detail, err = suite.engine.agentLedger.GetOutstandingDetail(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(detail.TotalOutstanding.IsZero())
	suite.True(detail.UnappliedCredit.Equal(balance.UnappliedCredit))
}

func (suite *EventServiceTestSuite) TestRecordEvent_DerivesMissingTotal() {
	issue := suite.record(domain.EventInput{
		SourceEventID: "evt-1",
		EventType:     domain.EventTicketIssue,
		AgentID:       "agent-A",
		Amounts:       domain.Amounts{Base: dec("500.00"), Tax: dec("75.00"), Currency: "USD"},
	})
	suite.Equal(domain.StatusPosted, issue.Transaction.Status)
	suite.True(issue.Transaction.TotalAmount.Equal(dec("575.00")), "got %s", issue.Transaction.TotalAmount)
	suite.Require().Len(issue.Entries, 3)
	suite.requireEntry(issue.Entries[0], domain.AccountReceivable, domain.Debit, "575.00")

	balance, err := suite.engine.agentLedger.GetBalance(suite.ctx, "agent-A")
	suite.Require().NoError(err)
	suite.True(balance.OutstandingAmount.Equal(dec("575.00")))

	refund := suite.record(domain.EventInput{
		SourceEventID: "ref-1",
		EventType:     domain.EventTicketRefund,
		AgentID:       "agent-A",
		Amounts:       domain.Amounts{Base: dec("400"), Penalty: dec("50"), Currency: "USD"},
	})
	suite.True(refund.Transaction.TotalAmount.Equal(dec("450")))
	suite.Require().Len(refund.Entries, 3)
	suite.requireEntry(refund.Entries[2], domain.AccountCash, domain.Credit, "450")
}

func (suite *EventServiceTestSuite) TestRecordEvent_RejectsTotalThatDisagreesWithParts() {
	input := domain.EventInput{
		SourceEventID: "ref-bad",
		EventType:     domain.EventTicketRefund,
		AgentID:       "agent-A",
		Amounts:       domain.Amounts{Base: dec("400"), Penalty: dec("50"), Total: dec("500"), Currency: "USD"},
	}
	res, err := suite.engine.events.RecordEvent(suite.ctx, input)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Require().NotNil(res)
	suite.Equal(domain.StatusFailed, res.Transaction.Status)
	suite.Contains(res.Transaction.FailureReason, "total")
	suite.Equal(0, suite.engine.store.CountJournalEntries())
}

func TestEventService(t *testing.T) {
	suite.Run(t, new(EventServiceTestSuite))
}
