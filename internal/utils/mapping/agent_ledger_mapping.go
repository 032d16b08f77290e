package mapping

import (
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/SscSPs/travel_ledger/internal/models"
)

// ToModelAgentAccount converts a domain AgentAccount to a model AgentAccount
func ToModelAgentAccount(d domain.AgentAccount) models.AgentAccount {
	return models.AgentAccount{
		AgentID:           d.AgentID,
		Currency:          d.Currency,
		CreditLimit:       d.CreditLimit,
		LastSequence:      d.LastSequence,
		RunningBalance:    d.RunningBalance,
		Outstanding:       d.Outstanding,
		TotalSales:        d.TotalSales,
		TotalPayments:     d.TotalPayments,
		TotalRefunds:      d.TotalRefunds,
		TotalCommission:   d.TotalCommission,
		LastTransactionAt: nullTime(d.LastTransactionAt),
		LastPaymentAt:     nullTime(d.LastPaymentAt),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// ToDomainAgentAccount converts a model AgentAccount to a domain AgentAccount
func ToDomainAgentAccount(m models.AgentAccount) domain.AgentAccount {
	return domain.AgentAccount{
		AgentID:           m.AgentID,
		Currency:          m.Currency,
		CreditLimit:       m.CreditLimit,
		LastSequence:      m.LastSequence,
		RunningBalance:    m.RunningBalance,
		Outstanding:       m.Outstanding,
		TotalSales:        m.TotalSales,
		TotalPayments:     m.TotalPayments,
		TotalRefunds:      m.TotalRefunds,
		TotalCommission:   m.TotalCommission,
		LastTransactionAt: timePtr(m.LastTransactionAt),
		LastPaymentAt:     timePtr(m.LastPaymentAt),
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

// ToModelAgentLedgerEntry converts a domain AgentLedgerEntry to a model AgentLedgerEntry
func ToModelAgentLedgerEntry(d domain.AgentLedgerEntry) models.AgentLedgerEntry {
	return models.AgentLedgerEntry{
		EntryID:             d.ID,
		AgentID:             d.AgentID,
		TransactionLogID:    d.TransactionLogID,
		Sequence:            d.Sequence,
		Direction:           string(d.Direction),
		Amount:              d.Amount,
		ReceivableDelta:     d.ReceivableDelta,
		RunningBalanceAfter: d.RunningBalanceAfter,
		OutstandingAfter:    d.OutstandingAfter,
		CreatedAt:           d.CreatedAt,
	}
}

// ToDomainAgentLedgerEntry converts a model AgentLedgerEntry to a domain AgentLedgerEntry
func ToDomainAgentLedgerEntry(m models.AgentLedgerEntry) domain.AgentLedgerEntry {
	return domain.AgentLedgerEntry{
		ID:                  m.EntryID,
		AgentID:             m.AgentID,
		TransactionLogID:    m.TransactionLogID,
		Sequence:            m.Sequence,
		Direction:           domain.EntrySide(m.Direction),
		Amount:              m.Amount,
		ReceivableDelta:     m.ReceivableDelta,
		RunningBalanceAfter: m.RunningBalanceAfter,
		OutstandingAfter:    m.OutstandingAfter,
		CreatedAt:           m.CreatedAt.UTC(),
	}
}

// ToDomainAgentLedgerEntrySlice converts a slice of model entries to domain entries
func ToDomainAgentLedgerEntrySlice(ms []models.AgentLedgerEntry) []domain.AgentLedgerEntry {
	ds := make([]domain.AgentLedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAgentLedgerEntry(m)
	}
	return ds
}
