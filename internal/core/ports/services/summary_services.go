package services

import (
	"context"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// SummaryReaderSvc defines read operations for periodic summaries
type SummaryReaderSvc interface {
	GetDailySummary(ctx context.Context, agentID string, date time.Time) (*domain.PeriodSummary, error)
	GetMonthlySummary(ctx context.Context, agentID string, year int, month time.Month) (*domain.PeriodSummary, error)
}

// SummaryRebuilderSvc recomputes summaries from the transaction log and agent ledger
type SummaryRebuilderSvc interface {
	// Rebuild recomputes one period from scratch and stores it.
	Rebuild(ctx context.Context, agentID string, granularity domain.Granularity, periodStart time.Time) (*domain.PeriodSummary, error)

	// RebuildRange rebuilds every period in [from, to] for each agent and
	// returns the combined error of the periods that failed.
	RebuildRange(ctx context.Context, agentIDs []string, granularity domain.Granularity, from, to time.Time) (int, error)
}

// SummaryUpdater maintains summaries inside the posting transaction
type SummaryUpdater interface {
	// UpdateOnPost folds a posted transaction into its daily and monthly summaries.
	UpdateOnPost(ctx context.Context, repos portsrepo.TxRepositories, txn domain.TransactionLog, balanceBefore, balanceAfter decimal.Decimal) error
}

// SummarySvcFacade combines all summary service interfaces
type SummarySvcFacade interface {
	SummaryReaderSvc
	SummaryRebuilderSvc
	SummaryUpdater
}
