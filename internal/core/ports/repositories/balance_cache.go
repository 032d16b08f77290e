package repositories

import (
	"context"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
)

// BalanceCache holds recently read agent balances. Entries expire after the
// configured staleness bound and are dropped after every posting.
type BalanceCache interface {
	GetBalance(ctx context.Context, agentID string) (*domain.AgentBalance, bool, error)
	SetBalance(ctx context.Context, balance domain.AgentBalance) error
	InvalidateBalance(ctx context.Context, agentID string) error
}
