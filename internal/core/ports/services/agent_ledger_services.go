package services

import (
	"context"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// AgentLedgerReaderSvc defines read-only balance queries. They take no locks.
type AgentLedgerReaderSvc interface {
	GetBalance(ctx context.Context, agentID string) (*domain.AgentBalance, error)
	GetOutstandingDetail(ctx context.Context, agentID string) (*domain.OutstandingDetail, error)
	CheckCredit(ctx context.Context, agentID string, amount decimal.Decimal) (*domain.CreditCheck, error)
}

// AgentLedgerWriterSvc defines write operations on agent ledgers
type AgentLedgerWriterSvc interface {
	// SetCreditLimit changes an agent's credit limit.
	SetCreditLimit(ctx context.Context, agentID string, limit decimal.Decimal) (*domain.AgentAccount, error)
}

// AgentLedgerProjector projects posted transactions inside the posting transaction
type AgentLedgerProjector interface {
	// LockAgent creates and locks the agent's ledger tail for the rest of the transaction.
	LockAgent(ctx context.Context, repos portsrepo.TxRepositories, agentID, currency string) (*domain.AgentAccount, error)

	// ApplyPosted appends the agent ledger entry for a posted transaction and
	// updates the locked tail. It returns nil when the posting has no
	// agent-facing effect.
	ApplyPosted(ctx context.Context, repos portsrepo.TxRepositories, account *domain.AgentAccount, txn domain.TransactionLog, entries []domain.JournalEntry) (*domain.AgentLedgerEntry, error)

	// Invalidate drops any cached balance for the agent.
	Invalidate(ctx context.Context, agentID string)
}

// AgentLedgerSvcFacade combines all agent ledger service interfaces
type AgentLedgerSvcFacade interface {
	AgentLedgerReaderSvc
	AgentLedgerWriterSvc
	AgentLedgerProjector
}
