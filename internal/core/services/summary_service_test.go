package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/core/services"
	"github.com/SscSPs/travel_ledger/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type SummaryServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	day1   time.Time
	day2   time.Time
	engine *engine
}

func (suite *SummaryServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.day1 = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	suite.day2 = suite.day1.AddDate(0, 0, 1)
	suite.engine = newEngine(dec("50000"), nil, memory.NewStore(), newTestClock(suite.day1))

	at := func(day time.Time, hour int) { suite.engine.clock.Set(day.Add(time.Duration(hour) * time.Hour)) }

	at(suite.day1, 10)
	suite.record(issueInput("evt-1", "agent-A", "500.00", "75.00"))
	at(suite.day1, 11)
	suite.record(issueInput("evt-2", "agent-A", "1000.00", "0"))
	at(suite.day1, 12)
	suite.record(totalInput("pay-1", "agent-A", domain.EventPaymentReceived, "300"))
	at(suite.day1, 13)
	suite.record(voidInput("void-1", "agent-A", "evt-1"))

	at(suite.day2, 9)
	suite.record(totalInput("com-1", "agent-A", domain.EventCommissionEarned, "20"))
	at(suite.day2, 10)
	suite.record(domain.EventInput{
		SourceEventID: "ref-1",
		EventType:     domain.EventTicketRefund,
		AgentID:       "agent-A",
		Amounts:       domain.Amounts{Base: dec("100"), Total: dec("100"), Currency: "USD"},
	})
	at(suite.day2, 11)
	suite.record(issueInput("evt-3", "agent-A", "250", "0"))
}

func (suite *SummaryServiceTestSuite) record(input domain.EventInput) {
	_, err := suite.engine.events.RecordEvent(suite.ctx, input)
	suite.Require().NoError(err)
}

func (suite *SummaryServiceTestSuite) TestDailyFigures() {
	first, err := suite.engine.summaries.GetDailySummary(suite.ctx, "agent-A", suite.day1.Add(15*time.Hour))
	suite.Require().NoError(err)
	suite.Equal("2026-03-14", first.Period)
	suite.Equal(int64(4), first.TransactionCount)
	suite.Equal(int64(2), first.EventCounts[domain.EventTicketIssue])
	suite.Equal(int64(1), first.EventCounts[domain.EventTicketVoid])
	suite.True(first.TotalSales.Equal(dec("1000")), "got %s", first.TotalSales)
	suite.True(first.TotalPayments.Equal(dec("300")))
	suite.True(first.OpeningBalance.IsZero())
	suite.True(first.ClosingBalance.Equal(dec("700")), "got %s", first.ClosingBalance)

	second, err := suite.engine.summaries.GetDailySummary(suite.ctx, "agent-A", suite.day2)
	suite.Require().NoError(err)
	suite.True(second.OpeningBalance.Equal(first.ClosingBalance))
	suite.True(second.TotalRefunds.Equal(dec("100")))
	suite.True(second.TotalCommission.Equal(dec("20")))
	suite.True(second.ClosingBalance.Equal(dec("930")), "got %s", second.ClosingBalance)
}

func (suite *SummaryServiceTestSuite) TestMonthlyFigures() {
	month, err := suite.engine.summaries.GetMonthlySummary(suite.ctx, "agent-A", 2026, time.March)
	suite.Require().NoError(err)
	suite.Equal("2026-03", month.Period)
	suite.Equal(int64(7), month.TransactionCount)
	suite.True(month.TotalSales.Equal(dec("1250")))
	suite.True(month.OpeningBalance.IsZero())
	suite.True(month.ClosingBalance.Equal(dec("930")))

	_, err = suite.engine.summaries.GetMonthlySummary(suite.ctx, "agent-A", 2026, time.Month(13))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SummaryServiceTestSuite) TestGetDailySummary_EmptyPeriod() {
	quiet, err := suite.engine.summaries.GetDailySummary(suite.ctx, "agent-A", suite.day2.AddDate(0, 0, 3))
	suite.Require().NoError(err)
	suite.Equal(int64(0), quiet.TransactionCount)
	suite.True(quiet.OpeningBalance.Equal(dec("930")))
	suite.True(quiet.ClosingBalance.Equal(dec("930")))

	_, err = suite.engine.summaries.GetDailySummary(suite.ctx, "", suite.day1)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SummaryServiceTestSuite) TestRebuildMatchesIncrementalSummaries() {
	periods := []struct {
		g     domain.Granularity
		start time.Time
	}{
		{domain.Daily, suite.day1},
		{domain.Daily, suite.day2},
		{domain.Monthly, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, p := range periods {
		stored, err := suite.engine.store.FindSummary(suite.ctx, "agent-A", p.g, p.start)
		suite.Require().NoError(err)

		rebuilt, err := suite.engine.summaries.Rebuild(suite.ctx, "agent-A", p.g, p.start)
		suite.Require().NoError(err)
		suite.True(stored.SameFigures(*rebuilt), "%s %s: stored %+v rebuilt %+v", p.g, p.start, stored, rebuilt)
	}
}

func (suite *SummaryServiceTestSuite) TestRebuildRepairsCorruptedSummary() {
	original, err := suite.engine.store.FindSummary(suite.ctx, "agent-A", domain.Daily, suite.day1)
	suite.Require().NoError(err)

	corrupted := *original
	corrupted.TotalSales = dec("1")
	corrupted.TransactionCount = 99
	err = suite.engine.store.WithinTransaction(suite.ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Summaries.SaveSummary(ctx, corrupted)
	})
	suite.Require().NoError(err)

	_, err = suite.engine.summaries.Rebuild(suite.ctx, "agent-A", domain.Daily, suite.day1.Add(5*time.Hour))
	suite.Require().NoError(err)

	repaired, err := suite.engine.store.FindSummary(suite.ctx, "agent-A", domain.Daily, suite.day1)
	suite.Require().NoError(err)
	suite.True(original.SameFigures(*repaired))
}

func (suite *SummaryServiceTestSuite) TestRebuildRange() {
	n, err := suite.engine.summaries.RebuildRange(suite.ctx, nil, domain.Daily, suite.day1, suite.day2)
	suite.Require().NoError(err)
	suite.Equal(2, n)

	n, err = suite.engine.summaries.RebuildRange(suite.ctx, []string{"agent-A", ""}, domain.Monthly, suite.day1, suite.day2)
	suite.Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(1, n)

	_, err = suite.engine.summaries.RebuildRange(suite.ctx, nil, domain.Granularity("weekly"), suite.day1, suite.day2)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.engine.summaries.RebuildRange(suite.ctx, nil, domain.Daily, suite.day2, suite.day1)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// callRecorder notes the order of the repository calls made inside a transaction.
type callRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *callRecorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

type recordingLedger struct {
	portsrepo.AgentLedgerTxRepository
	rec *callRecorder
}

func (l recordingLedger) LockExistingAgentAccount(ctx context.Context, agentID string) (*domain.AgentAccount, error) {
	l.rec.add("lock")
	return l.AgentLedgerTxRepository.LockExistingAgentAccount(ctx, agentID)
}

type recordingTransactions struct {
	portsrepo.TransactionLogRepositoryFacade
	rec *callRecorder
}

func (t recordingTransactions) ListPostedByAgentBetween(ctx context.Context, agentID string, from, to time.Time) ([]domain.TransactionLog, error) {
	t.rec.add("list")
	return t.TransactionLogRepositoryFacade.ListPostedByAgentBetween(ctx, agentID, from, to)
}

type recordingSummaries struct {
	portsrepo.SummaryRepositoryFacade
	rec *callRecorder
}

func (s recordingSummaries) SaveSummary(ctx context.Context, summary domain.PeriodSummary) error {
	s.rec.add("save")
	return s.SummaryRepositoryFacade.SaveSummary(ctx, summary)
}

type recordingTxManager struct {
	next portsrepo.TransactionManager
	rec  *callRecorder
}

func (m *recordingTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	return m.next.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		repos.Ledger = recordingLedger{AgentLedgerTxRepository: repos.Ledger, rec: m.rec}
		repos.Transactions = recordingTransactions{TransactionLogRepositoryFacade: repos.Transactions, rec: m.rec}
		repos.Summaries = recordingSummaries{SummaryRepositoryFacade: repos.Summaries, rec: m.rec}
		return fn(ctx, repos)
	})
}

func (suite *SummaryServiceTestSuite) TestRebuildLocksAgentBeforeReplaying() {
	rec := &callRecorder{}
	txManager := &recordingTxManager{next: suite.engine.store, rec: rec}
	summaries := services.NewSummaryService(suite.engine.store, suite.engine.store, txManager, suite.engine.audit,
		services.WithSummaryClock(suite.engine.clock.Now))

	_, err := summaries.Rebuild(suite.ctx, "agent-A", domain.Daily, suite.day1)
	suite.Require().NoError(err)
	suite.Equal([]string{"lock", "list", "save"}, rec.calls)
}

func (suite *SummaryServiceTestSuite) TestRebuildSkipsAgentWithoutLedger() {
	rec := &callRecorder{}
	txManager := &recordingTxManager{next: suite.engine.store, rec: rec}
	summaries := services.NewSummaryService(suite.engine.store, suite.engine.store, txManager, suite.engine.audit,
		services.WithSummaryClock(suite.engine.clock.Now))

	rebuilt, err := summaries.Rebuild(suite.ctx, "agent-Z", domain.Daily, suite.day1)
	suite.Require().NoError(err)
	suite.Equal(int64(0), rebuilt.TransactionCount)
	suite.True(rebuilt.ClosingBalance.IsZero())
	suite.Equal([]string{"lock"}, rec.calls)

	_, err = suite.engine.store.FindSummary(suite.ctx, "agent-Z", domain.Daily, suite.day1)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestSummaryService(t *testing.T) {
	suite.Run(t, new(SummaryServiceTestSuite))
}
