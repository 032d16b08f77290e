package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/models"
	"github.com/SscSPs/travel_ledger/internal/utils/mapping"
)

type PgxSummaryRepository struct {
	BaseRepository
}

// newPgxSummaryRepository creates a new repository for periodic summaries.
func newPgxSummaryRepository(db querier) *PgxSummaryRepository {
	return &PgxSummaryRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxSummaryRepository implements portsrepo.SummaryRepositoryFacade
var _ portsrepo.SummaryRepositoryFacade = (*PgxSummaryRepository)(nil)

func (r *PgxSummaryRepository) FindSummary(ctx context.Context, agentID string, granularity domain.Granularity, periodStart time.Time) (*domain.PeriodSummary, error) {
	query := `
		SELECT agent_id, granularity, period_start, event_counts, transaction_count,
		       total_sales, total_refunds, total_payments, total_commission,
		       opening_balance, closing_balance, updated_at
		FROM period_summaries
		WHERE agent_id = $1 AND granularity = $2 AND period_start = $3;
	`
	var m models.PeriodSummary
	err := r.db.QueryRow(ctx, query, agentID, string(granularity), periodStart.UTC()).Scan(
		&m.AgentID,
		&m.Granularity,
		&m.PeriodStart,
		&m.EventCounts,
		&m.TransactionCount,
		&m.TotalSales,
		&m.TotalRefunds,
		&m.TotalPayments,
		&m.TotalCommission,
		&m.OpeningBalance,
		&m.ClosingBalance,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err, "no "+string(granularity)+" summary for agent "+agentID)
	}
	summary := mapping.ToDomainPeriodSummary(m)
	return &summary, nil
}

// SaveSummary upserts a summary keyed by (agent_id, granularity, period_start).
func (r *PgxSummaryRepository) SaveSummary(ctx context.Context, summary domain.PeriodSummary) error {
	m := mapping.ToModelPeriodSummary(summary)
	query := `
		INSERT INTO period_summaries (
			agent_id, granularity, period_start, event_counts, transaction_count,
			total_sales, total_refunds, total_payments, total_commission,
			opening_balance, closing_balance, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (agent_id, granularity, period_start) DO UPDATE SET
			event_counts = EXCLUDED.event_counts,
			transaction_count = EXCLUDED.transaction_count,
			total_sales = EXCLUDED.total_sales,
			total_refunds = EXCLUDED.total_refunds,
			total_payments = EXCLUDED.total_payments,
			total_commission = EXCLUDED.total_commission,
			opening_balance = EXCLUDED.opening_balance,
			closing_balance = EXCLUDED.closing_balance,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := r.db.Exec(ctx, query,
		m.AgentID,
		m.Granularity,
		m.PeriodStart.UTC(),
		m.EventCounts,
		m.TransactionCount,
		m.TotalSales,
		m.TotalRefunds,
		m.TotalPayments,
		m.TotalCommission,
		m.OpeningBalance,
		m.ClosingBalance,
		m.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "failed to save summary for agent "+m.AgentID)
	}
	return nil
}
