package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
)

// SummaryReader defines read operations for periodic summaries
type SummaryReader interface {
	// FindSummary retrieves one summary, or ErrNotFound.
	FindSummary(ctx context.Context, agentID string, granularity domain.Granularity, periodStart time.Time) (*domain.PeriodSummary, error)
}

// SummaryWriter defines write operations for periodic summaries
type SummaryWriter interface {
	// SaveSummary inserts or replaces a summary.
	SaveSummary(ctx context.Context, summary domain.PeriodSummary) error
}

// SummaryRepositoryFacade combines all summary repository interfaces
type SummaryRepositoryFacade interface {
	SummaryReader
	SummaryWriter
}
