package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/core/services"
	"github.com/SscSPs/travel_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testClock is a settable clock shared by the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(at time.Time) *testClock {
	return &testClock{now: at}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *testClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}

// engine wires every service against one memory store.
type engine struct {
	store       *memory.Store
	clock       *testClock
	audit       portssvc.AuditSvc
	accounts    portssvc.ChartOfAccountsSvcFacade
	journal     portssvc.JournalSvcFacade
	agentLedger portssvc.AgentLedgerSvcFacade
	summaries   portssvc.SummarySvcFacade
	events      portssvc.EventSvcFacade
}

func newEngine(creditLimit decimal.Decimal, txManager portsrepo.TransactionManager, store *memory.Store, clock *testClock) *engine {
	if txManager == nil {
		txManager = store
	}
	e := &engine{store: store, clock: clock}
	e.audit = services.NewAuditService(services.WithAuditClock(clock.Now))
	e.accounts = services.NewChartOfAccountsService(store, store, e.audit, services.WithAccountsClock(clock.Now))
	e.journal = services.NewJournalService(store, txManager, services.WithJournalClock(clock.Now))
	e.agentLedger = services.NewAgentLedgerService(store, txManager, e.audit,
		services.WithAgentLedgerClock(clock.Now),
		services.WithDefaultCreditLimit(creditLimit))
	e.summaries = services.NewSummaryService(store, store, txManager, e.audit, services.WithSummaryClock(clock.Now))
	e.events = services.NewEventService(store, txManager, e.journal, e.agentLedger, e.summaries, e.audit,
		services.WithEventClock(clock.Now),
		services.WithPostingRetry(3, time.Millisecond))
	if _, err := e.accounts.SeedDefaults(context.Background()); err != nil {
		panic(err)
	}
	return e
}

func issueInput(sourceID, agentID, base, tax string) domain.EventInput {
	b, t := dec(base), dec(tax)
	return domain.EventInput{
		SourceEventID: sourceID,
		EventType:     domain.EventTicketIssue,
		AgentID:       agentID,
		Amounts:       domain.Amounts{Base: b, Tax: t, Total: b.Add(t), Currency: "USD"},
	}
}

func voidInput(sourceID, agentID, reverses string) domain.EventInput {
	return domain.EventInput{
		SourceEventID:         sourceID,
		EventType:             domain.EventTicketVoid,
		AgentID:               agentID,
		Amounts:               domain.Amounts{Currency: "USD"},
		ReversesSourceEventID: reverses,
	}
}

func totalInput(sourceID, agentID string, et domain.EventType, total string) domain.EventInput {
	return domain.EventInput{
		SourceEventID: sourceID,
		EventType:     et,
		AgentID:       agentID,
		Amounts:       domain.Amounts{Total: dec(total), Currency: "USD"},
	}
}

// MockTransactionManager fails on demand and otherwise delegates.
type MockTransactionManager struct {
	mock.Mock
	next portsrepo.TransactionManager
}

var _ portsrepo.TransactionManager = (*MockTransactionManager)(nil)

func (m *MockTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return m.next.WithinTransaction(ctx, fn)
}
