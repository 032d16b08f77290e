package pgsql

import (
	"context"
	"errors"
	"log/slog"

	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTransactionManager runs units of work in a single pgx transaction.
type PgxTransactionManager struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// newPgxTransactionManager creates a transaction manager. READ COMMITTED is
// enough because every posting serializes on the agent's row lock.
func newPgxTransactionManager(pool *pgxpool.Pool) *PgxTransactionManager {
	return &PgxTransactionManager{pool: pool, opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// Ensure PgxTransactionManager implements portsrepo.TransactionManager
var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// txRepositories binds every writer to tx.
func txRepositories(tx pgx.Tx) portsrepo.TxRepositories {
	return portsrepo.TxRepositories{
		Accounts:     newPgxAccountRepository(tx),
		Journal:      newPgxJournalRepository(tx),
		Transactions: newPgxTransactionLogRepository(tx),
		Ledger:       newPgxAgentLedgerRepository(tx),
		Summaries:    newPgxSummaryRepository(tx),
		Audit:        newPgxAuditRepository(tx),
	}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
func (m *PgxTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		return mapError(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to roll back transaction", slog.String("error", err.Error()))
		}
	}()

	if err := fn(ctx, txRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "failed to commit transaction")
	}
	return nil
}
