package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
)

// TransactionLogReader defines read operations for the transaction log
type TransactionLogReader interface {
	// FindTransactionByID retrieves a row by its id.
	FindTransactionByID(ctx context.Context, id string) (*domain.TransactionLog, error)

	// FindTransactionBySourceEventID retrieves the row recorded for a source event.
	FindTransactionBySourceEventID(ctx context.Context, sourceEventID string) (*domain.TransactionLog, error)

	// FindTransactionByNumber retrieves a row by its transaction number.
	FindTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.TransactionLog, error)

	// FindReversalOf retrieves the posted row reversing originalID, or ErrNotFound.
	FindReversalOf(ctx context.Context, originalID string) (*domain.TransactionLog, error)

	// ListPostedByAgentBetween retrieves posted rows with posted_at in [from, to) in posting order.
	ListPostedByAgentBetween(ctx context.Context, agentID string, from, to time.Time) ([]domain.TransactionLog, error)

	// ListTransactionsByAgent retrieves a page of an agent's rows, newest first.
	ListTransactionsByAgent(ctx context.Context, agentID string, limit int, nextToken *string) ([]domain.TransactionLog, *string, error)
}

// TransactionLogWriter defines write operations for the transaction log
type TransactionLogWriter interface {
	// InsertTransaction stores a new row. It reports false, without error,
	// when a row with the same source_event_id already exists.
	InsertTransaction(ctx context.Context, txn domain.TransactionLog) (bool, error)

	// MarkPosted moves a pending row to posted.
	MarkPosted(ctx context.Context, id string, postedAt time.Time) error
}

// TransactionLogRepositoryFacade combines all transaction log repository interfaces
type TransactionLogRepositoryFacade interface {
	TransactionLogReader
	TransactionLogWriter
}
