package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
// Ledger and summary readers may be served from a read replica.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	JournalRepo     JournalReader
	TransactionRepo TransactionLogReader
	LedgerRepo      AgentLedgerReader
	SummaryRepo     SummaryReader
	TxManager       TransactionManager
}
