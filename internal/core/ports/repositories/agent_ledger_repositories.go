package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AgentLedgerReader defines read operations for agent ledgers
type AgentLedgerReader interface {
	// FindAgentAccount retrieves an agent's ledger tail.
	FindAgentAccount(ctx context.Context, agentID string) (*domain.AgentAccount, error)

	// ListLedgerEntries retrieves an agent's entries in sequence order.
	ListLedgerEntries(ctx context.Context, agentID string) ([]domain.AgentLedgerEntry, error)

	// ListLedgerEntriesBetween retrieves entries created in [from, to) in sequence order.
	ListLedgerEntriesBetween(ctx context.Context, agentID string, from, to time.Time) ([]domain.AgentLedgerEntry, error)

	// BalanceBefore returns the running balance after the last entry created before t.
	BalanceBefore(ctx context.Context, agentID string, t time.Time) (decimal.Decimal, error)

	// ListReceivableMovements retrieves entries with a receivable effect joined with their transactions.
	ListReceivableMovements(ctx context.Context, agentID string) ([]domain.ReceivableMovement, error)

	// ListAgentIDs retrieves every agent with a ledger tail.
	ListAgentIDs(ctx context.Context) ([]string, error)
}

// AgentLedgerWriter defines write operations for agent ledgers
type AgentLedgerWriter interface {
	// LockAgentAccount creates the tail from defaults when missing and locks
	// it for the rest of the transaction.
	LockAgentAccount(ctx context.Context, defaults domain.AgentAccount) (*domain.AgentAccount, error)

	// LockExistingAgentAccount locks an existing tail for the rest of the
	// transaction, or returns ErrNotFound when the agent has never posted.
	LockExistingAgentAccount(ctx context.Context, agentID string) (*domain.AgentAccount, error)

	// SaveAgentAccount writes back a locked tail.
	SaveAgentAccount(ctx context.Context, account domain.AgentAccount) error

	// AppendLedgerEntry stores a new entry. (agent_id, sequence) is unique.
	AppendLedgerEntry(ctx context.Context, entry domain.AgentLedgerEntry) error
}

// AgentLedgerTxRepository is the agent ledger as seen inside a transaction
type AgentLedgerTxRepository interface {
	AgentLedgerReader
	AgentLedgerWriter
}
