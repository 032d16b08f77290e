package pgsql

import (
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the repositories. Balance, ledger and summary
// reads go to readPool when it is set, which may lag the primary.
func NewRepositoryProvider(dbPool, readPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	if readPool == nil {
		readPool = dbPool
	}

	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		JournalRepo:     newPgxJournalRepository(dbPool),
		TransactionRepo: newPgxTransactionLogRepository(dbPool),
		LedgerRepo:      newPgxAgentLedgerRepository(readPool),
		SummaryRepo:     newPgxSummaryRepository(readPool),
		TxManager:       newPgxTransactionManager(dbPool),
	}
}
