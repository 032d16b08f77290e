package mapping

import (
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	"github.com/SscSPs/travel_ledger/internal/models"
)

// ToModelPeriodSummary converts a domain PeriodSummary to a model PeriodSummary
func ToModelPeriodSummary(d domain.PeriodSummary) models.PeriodSummary {
	counts := make(map[string]int64, len(d.EventCounts))
	for et, n := range d.EventCounts {
		counts[string(et)] = n
	}
	return models.PeriodSummary{
		AgentID:          d.AgentID,
		Granularity:      string(d.Granularity),
		PeriodStart:      d.PeriodStart,
		EventCounts:      counts,
		TransactionCount: d.TransactionCount,
		TotalSales:       d.TotalSales,
		TotalRefunds:     d.TotalRefunds,
		TotalPayments:    d.TotalPayments,
		TotalCommission:  d.TotalCommission,
		OpeningBalance:   d.OpeningBalance,
		ClosingBalance:   d.ClosingBalance,
		UpdatedAt:        d.UpdatedAt,
	}
}

// ToDomainPeriodSummary converts a model PeriodSummary to a domain
// PeriodSummary. Event types missing from the stored counts read as zero.
func ToDomainPeriodSummary(m models.PeriodSummary) domain.PeriodSummary {
	g := domain.Granularity(m.Granularity)
	start := m.PeriodStart.UTC()
	counts := make(map[domain.EventType]int64, len(domain.EventTypes))
	for _, et := range domain.EventTypes {
		counts[et] = m.EventCounts[string(et)]
	}
	return domain.PeriodSummary{
		AgentID:          m.AgentID,
		Granularity:      g,
		PeriodStart:      start,
		Period:           g.Label(start),
		EventCounts:      counts,
		TransactionCount: m.TransactionCount,
		TotalSales:       m.TotalSales,
		TotalRefunds:     m.TotalRefunds,
		TotalPayments:    m.TotalPayments,
		TotalCommission:  m.TotalCommission,
		OpeningBalance:   m.OpeningBalance,
		ClosingBalance:   m.ClosingBalance,
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}
