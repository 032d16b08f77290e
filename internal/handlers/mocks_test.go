package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock EventService ---
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) RecordEvent(ctx context.Context, input domain.EventInput) (*domain.RecordEventResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecordEventResult), args.Error(1)
}

func (m *MockEventService) GetTransaction(ctx context.Context, transactionNumber string) (*domain.TransactionLog, error) {
	args := m.Called(ctx, transactionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionLog), args.Error(1)
}

func (m *MockEventService) ListAgentTransactions(ctx context.Context, agentID string, limit int, nextToken *string) ([]domain.TransactionLog, *string, error) {
	args := m.Called(ctx, agentID, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.TransactionLog), next, args.Error(2)
}

var _ portssvc.EventSvcFacade = (*MockEventService)(nil)

// --- Mock AgentLedgerService ---
type MockAgentLedgerService struct {
	mock.Mock
}

func (m *MockAgentLedgerService) GetBalance(ctx context.Context, agentID string) (*domain.AgentBalance, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentBalance), args.Error(1)
}

func (m *MockAgentLedgerService) GetOutstandingDetail(ctx context.Context, agentID string) (*domain.OutstandingDetail, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutstandingDetail), args.Error(1)
}

func (m *MockAgentLedgerService) CheckCredit(ctx context.Context, agentID string, amount decimal.Decimal) (*domain.CreditCheck, error) {
	args := m.Called(ctx, agentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditCheck), args.Error(1)
}

func (m *MockAgentLedgerService) SetCreditLimit(ctx context.Context, agentID string, limit decimal.Decimal) (*domain.AgentAccount, error) {
	args := m.Called(ctx, agentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentAccount), args.Error(1)
}

func (m *MockAgentLedgerService) LockAgent(ctx context.Context, repos portsrepo.TxRepositories, agentID, currency string) (*domain.AgentAccount, error) {
	args := m.Called(ctx, repos, agentID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentAccount), args.Error(1)
}

func (m *MockAgentLedgerService) ApplyPosted(ctx context.Context, repos portsrepo.TxRepositories, account *domain.AgentAccount, txn domain.TransactionLog, entries []domain.JournalEntry) (*domain.AgentLedgerEntry, error) {
	args := m.Called(ctx, repos, account, txn, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentLedgerEntry), args.Error(1)
}

func (m *MockAgentLedgerService) Invalidate(ctx context.Context, agentID string) {
	m.Called(ctx, agentID)
}

var _ portssvc.AgentLedgerSvcFacade = (*MockAgentLedgerService)(nil)

// --- Mock SummaryService ---
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) GetDailySummary(ctx context.Context, agentID string, date time.Time) (*domain.PeriodSummary, error) {
	args := m.Called(ctx, agentID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodSummary), args.Error(1)
}

func (m *MockSummaryService) GetMonthlySummary(ctx context.Context, agentID string, year int, month time.Month) (*domain.PeriodSummary, error) {
	args := m.Called(ctx, agentID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodSummary), args.Error(1)
}

func (m *MockSummaryService) Rebuild(ctx context.Context, agentID string, granularity domain.Granularity, periodStart time.Time) (*domain.PeriodSummary, error) {
	args := m.Called(ctx, agentID, granularity, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodSummary), args.Error(1)
}

func (m *MockSummaryService) RebuildRange(ctx context.Context, agentIDs []string, granularity domain.Granularity, from, to time.Time) (int, error) {
	args := m.Called(ctx, agentIDs, granularity, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockSummaryService) UpdateOnPost(ctx context.Context, repos portsrepo.TxRepositories, txn domain.TransactionLog, balanceBefore, balanceAfter decimal.Decimal) error {
	args := m.Called(ctx, repos, txn, balanceBefore, balanceAfter)
	return args.Error(0)
}

var _ portssvc.SummarySvcFacade = (*MockSummaryService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntries(ctx context.Context, referenceID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) VerifyDoubleEntry(ctx context.Context, referenceID string) (*domain.DoubleEntryCheck, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DoubleEntryCheck), args.Error(1)
}

func (m *MockJournalService) Post(ctx context.Context, referenceID, currency string, drafts []domain.JournalEntryDraft) (*domain.PostResult, error) {
	args := m.Called(ctx, referenceID, currency, drafts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostResult), args.Error(1)
}

func (m *MockJournalService) PostInTx(ctx context.Context, repos portsrepo.TxRepositories, referenceID, currency string, drafts []domain.JournalEntryDraft, at time.Time) (*domain.PostResult, error) {
	args := m.Called(ctx, repos, referenceID, currency, drafts, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostResult), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock ChartOfAccountsService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) SeedAccounts(ctx context.Context, accounts []domain.Account) (int, error) {
	args := m.Called(ctx, accounts)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountService) SeedDefaults(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

var _ portssvc.ChartOfAccountsSvcFacade = (*MockAccountService)(nil)
