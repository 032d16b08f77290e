package services

import (
	"context"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
)

// EventRecorderSvc is the entry point used by the ticketing workflow
type EventRecorderSvc interface {
	// RecordEvent turns one business event into a posted transaction. It is
	// idempotent on the source event id.
	RecordEvent(ctx context.Context, input domain.EventInput) (*domain.RecordEventResult, error)
}

// TransactionReaderSvc defines read operations on the transaction log
type TransactionReaderSvc interface {
	// GetTransaction retrieves a row by transaction number, reporting reversed rows as reversed.
	GetTransaction(ctx context.Context, transactionNumber string) (*domain.TransactionLog, error)

	// ListAgentTransactions retrieves a page of an agent's rows, newest first.
	ListAgentTransactions(ctx context.Context, agentID string, limit int, nextToken *string) ([]domain.TransactionLog, *string, error)
}

// EventSvcFacade combines all event and transaction log service interfaces
type EventSvcFacade interface {
	EventRecorderSvc
	TransactionReaderSvc
}
