package mapping

import (
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/SscSPs/travel_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:     d.ID,
		ReferenceID: d.ReferenceID,
		AccountCode: d.AccountCode,
		Side:        string(d.Side),
		Amount:      d.Amount,
		Currency:    d.Currency,
		LineNo:      d.LineNo,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		ID:          m.EntryID,
		ReferenceID: m.ReferenceID,
		AccountCode: m.AccountCode,
		Side:        domain.EntrySide(m.Side),
		Amount:      m.Amount,
		Currency:    m.Currency,
		LineNo:      m.LineNo,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

// ToDomainJournalEntrySlice converts a slice of model entries to domain entries
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}
