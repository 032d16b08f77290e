package services

import (
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/platform/config"
	"github.com/SscSPs/travel_ledger/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// cache and m may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, cache portsrepo.BalanceCache, m *metrics.LedgerMetrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit is appended inside the callers' transactions, so every writer depends on it
	container.Audit = NewAuditService()

	container.Accounts = NewChartOfAccountsService(repos.AccountRepo, repos.TxManager, container.Audit)
	container.Journal = NewJournalService(repos.JournalRepo, repos.TxManager)

	ledgerOpts := []AgentLedgerServiceOption{
		WithDefaultCreditLimit(cfg.DefaultCreditLimit),
		WithAgentLedgerMetrics(m),
	}
	if cache != nil {
		ledgerOpts = append(ledgerOpts, WithBalanceCache(cache))
	}
	container.AgentLedger = NewAgentLedgerService(repos.LedgerRepo, repos.TxManager, container.Audit, ledgerOpts...)

	container.Summaries = NewSummaryService(repos.SummaryRepo, repos.LedgerRepo, repos.TxManager, container.Audit,
		WithSummaryMetrics(m))

	container.Events = NewEventService(
		repos.TransactionRepo,
		repos.TxManager,
		container.Journal,
		container.AgentLedger,
		container.Summaries,
		container.Audit,
		WithPostingRetry(cfg.MaxPostingAttempts, cfg.PostingRetryBaseDelay),
		WithEventMetrics(m),
	)

	return container
}
