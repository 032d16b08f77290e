package repositories

import (
	"context"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntriesByReference retrieves all entries of one reference ordered by line number.
	FindEntriesByReference(ctx context.Context, referenceID string) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// SaveEntries persists a balanced set of entries. Entries are never updated.
	SaveEntries(ctx context.Context, entries []domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
