package mapping

import (
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/SscSPs/travel_ledger/internal/models"
)

// ToModelTransactionLog converts a domain TransactionLog to a model TransactionLog
func ToModelTransactionLog(d domain.TransactionLog) models.TransactionLog {
	return models.TransactionLog{
		TransactionLogID:      d.ID,
		TransactionNumber:     d.TransactionNumber,
		EventType:             string(d.EventType),
		AgentID:               d.AgentID,
		BaseAmount:            d.BaseAmount,
		TaxAmount:             d.TaxAmount,
		TotalAmount:           d.TotalAmount,
		FeeAmount:             d.FeeAmount,
		PenaltyAmount:         d.PenaltyAmount,
		Currency:              d.Currency,
		Status:                string(d.Status),
		ReferenceID:           nullString(d.ReferenceID),
		SourceEventID:         d.SourceEventID,
		ReversesTransactionID: nullStringPtr(d.ReversesTransactionID),
		FailureReason:         nullString(d.FailureReason),
		ActorID:               d.ActorID,
		OccurredAt:            d.OccurredAt,
		CreatedAt:             d.CreatedAt,
		PostedAt:              nullTime(d.PostedAt),
	}
}

// ToDomainTransactionLog converts a model TransactionLog to a domain TransactionLog
func ToDomainTransactionLog(m models.TransactionLog) domain.TransactionLog {
	return domain.TransactionLog{
		ID:                    m.TransactionLogID,
		TransactionNumber:     m.TransactionNumber,
		EventType:             domain.EventType(m.EventType),
		AgentID:               m.AgentID,
		BaseAmount:            m.BaseAmount,
		TaxAmount:             m.TaxAmount,
		TotalAmount:           m.TotalAmount,
		FeeAmount:             m.FeeAmount,
		PenaltyAmount:         m.PenaltyAmount,
		Currency:              m.Currency,
		Status:                domain.TransactionStatus(m.Status),
		ReferenceID:           m.ReferenceID.String,
		SourceEventID:         m.SourceEventID,
		ReversesTransactionID: stringPtr(m.ReversesTransactionID),
		FailureReason:         m.FailureReason.String,
		ActorID:               m.ActorID,
		OccurredAt:            m.OccurredAt.UTC(),
		CreatedAt:             m.CreatedAt.UTC(),
		PostedAt:              timePtr(m.PostedAt),
	}
}

// ToDomainTransactionLogSlice converts a slice of model rows to domain rows
func ToDomainTransactionLogSlice(ms []models.TransactionLog) []domain.TransactionLog {
	ds := make([]domain.TransactionLog, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionLog(m)
	}
	return ds
}
