package repositories

import "context"

// TxRepositories are repositories bound to one open storage transaction.
// Everything written through them commits or rolls back together.
type TxRepositories struct {
	Accounts     AccountRepositoryFacade
	Journal      JournalRepositoryFacade
	Transactions TransactionLogRepositoryFacade
	Ledger       AgentLedgerTxRepository
	Summaries    SummaryRepositoryFacade
	Audit        AuditWriter
}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithinTransaction runs fn inside a single storage transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
