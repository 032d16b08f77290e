package services

import (
	"context"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
)

// ChartOfAccountsReaderSvc defines read operations on the chart of accounts
type ChartOfAccountsReaderSvc interface {
	// GetAccount retrieves an account by code or returns a not found error.
	GetAccount(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves the whole chart.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// ChartOfAccountsSeederSvc seeds the chart at startup
type ChartOfAccountsSeederSvc interface {
	// SeedAccounts inserts the given accounts unless their code exists. Re-running is a no-op.
	SeedAccounts(ctx context.Context, accounts []domain.Account) (int, error)

	// SeedDefaults seeds the default travel agency chart.
	SeedDefaults(ctx context.Context) (int, error)
}

// ChartOfAccountsSvcFacade combines all chart of accounts service interfaces
type ChartOfAccountsSvcFacade interface {
	ChartOfAccountsReaderSvc
	ChartOfAccountsSeederSvc
}
