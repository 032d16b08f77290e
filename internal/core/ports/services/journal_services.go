package services

import (
	"context"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntries retrieves the entries of one reference.
	GetEntries(ctx context.Context, referenceID string) ([]domain.JournalEntry, error)

	// VerifyDoubleEntry sums both sides of a reference for reconciliation.
	VerifyDoubleEntry(ctx context.Context, referenceID string) (*domain.DoubleEntryCheck, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// Post validates and persists drafts atomically in their own transaction.
	Post(ctx context.Context, referenceID, currency string, drafts []domain.JournalEntryDraft) (*domain.PostResult, error)
}

// JournalTxPoster posts inside a transaction opened by the caller
type JournalTxPoster interface {
	PostInTx(ctx context.Context, repos portsrepo.TxRepositories, referenceID, currency string, drafts []domain.JournalEntryDraft, at time.Time) (*domain.PostResult, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalTxPoster
}
