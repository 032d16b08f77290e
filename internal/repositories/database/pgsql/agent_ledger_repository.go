package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/models"
	"github.com/SscSPs/travel_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxAgentLedgerRepository struct {
	BaseRepository
}

// newPgxAgentLedgerRepository creates a new repository for agent ledger tails and entries.
func newPgxAgentLedgerRepository(db querier) *PgxAgentLedgerRepository {
	return &PgxAgentLedgerRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxAgentLedgerRepository implements portsrepo.AgentLedgerTxRepository
var _ portsrepo.AgentLedgerTxRepository = (*PgxAgentLedgerRepository)(nil)

const agentAccountColumns = `
	agent_id, currency, credit_limit, last_sequence, running_balance, outstanding,
	total_sales, total_payments, total_refunds, total_commission,
	last_transaction_at, last_payment_at, created_at, updated_at`

const ledgerEntryColumns = `
	entry_id, agent_id, transaction_log_id, sequence, direction, amount,
	receivable_delta, running_balance_after, outstanding_after, created_at`

func scanAgentAccount(row pgx.Row) (models.AgentAccount, error) {
	var m models.AgentAccount
	err := row.Scan(
		&m.AgentID,
		&m.Currency,
		&m.CreditLimit,
		&m.LastSequence,
		&m.RunningBalance,
		&m.Outstanding,
		&m.TotalSales,
		&m.TotalPayments,
		&m.TotalRefunds,
		&m.TotalCommission,
		&m.LastTransactionAt,
		&m.LastPaymentAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func scanLedgerEntry(row pgx.Row) (models.AgentLedgerEntry, error) {
	var m models.AgentLedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.AgentID,
		&m.TransactionLogID,
		&m.Sequence,
		&m.Direction,
		&m.Amount,
		&m.ReceivableDelta,
		&m.RunningBalanceAfter,
		&m.OutstandingAfter,
		&m.CreatedAt,
	)
	return m, err
}

// LockAgentAccount creates the tail from defaults when missing, then takes a
// row lock held until the surrounding transaction ends. Concurrent postings
// for the same agent queue here.
func (r *PgxAgentLedgerRepository) LockAgentAccount(ctx context.Context, defaults domain.AgentAccount) (*domain.AgentAccount, error) {
	m := mapping.ToModelAgentAccount(defaults)
	insert := `
		INSERT INTO agent_accounts (` + agentAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (agent_id) DO NOTHING;
	`
	if _, err := r.db.Exec(ctx, insert,
		m.AgentID, m.Currency, m.CreditLimit, m.LastSequence, m.RunningBalance, m.Outstanding,
		m.TotalSales, m.TotalPayments, m.TotalRefunds, m.TotalCommission,
		m.LastTransactionAt, m.LastPaymentAt, m.CreatedAt, m.UpdatedAt,
	); err != nil {
		return nil, mapError(err, "failed to create ledger for agent "+m.AgentID)
	}

	query := `SELECT ` + agentAccountColumns + ` FROM agent_accounts WHERE agent_id = $1 FOR UPDATE;`
	locked, err := scanAgentAccount(r.db.QueryRow(ctx, query, m.AgentID))
	if err != nil {
		return nil, mapError(err, "failed to lock ledger for agent "+m.AgentID)
	}
	acc := mapping.ToDomainAgentAccount(locked)
	return &acc, nil
}

// LockExistingAgentAccount takes the same row lock as LockAgentAccount
// without creating a tail.
func (r *PgxAgentLedgerRepository) LockExistingAgentAccount(ctx context.Context, agentID string) (*domain.AgentAccount, error) {
	query := `SELECT ` + agentAccountColumns + ` FROM agent_accounts WHERE agent_id = $1 FOR UPDATE;`
	locked, err := scanAgentAccount(r.db.QueryRow(ctx, query, agentID))
	if err != nil {
		return nil, mapError(err, "agent "+agentID+" has no ledger")
	}
	acc := mapping.ToDomainAgentAccount(locked)
	return &acc, nil
}

// SaveAgentAccount writes back a locked tail.
func (r *PgxAgentLedgerRepository) SaveAgentAccount(ctx context.Context, account domain.AgentAccount) error {
	m := mapping.ToModelAgentAccount(account)
	query := `
		UPDATE agent_accounts
		SET currency = $2, credit_limit = $3, last_sequence = $4, running_balance = $5, outstanding = $6,
		    total_sales = $7, total_payments = $8, total_refunds = $9, total_commission = $10,
		    last_transaction_at = $11, last_payment_at = $12, updated_at = $13
		WHERE agent_id = $1;
	`
	tag, err := r.db.Exec(ctx, query,
		m.AgentID, m.Currency, m.CreditLimit, m.LastSequence, m.RunningBalance, m.Outstanding,
		m.TotalSales, m.TotalPayments, m.TotalRefunds, m.TotalCommission,
		m.LastTransactionAt, m.LastPaymentAt, m.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "failed to save ledger for agent "+m.AgentID)
	}
	if tag.RowsAffected() != 1 {
		return mapError(pgx.ErrNoRows, "ledger for agent "+m.AgentID+" not found")
	}
	return nil
}

// AppendLedgerEntry inserts an entry. A duplicate (agent_id, sequence)
// means another writer got past the lock and is reported as a concurrency conflict.
func (r *PgxAgentLedgerRepository) AppendLedgerEntry(ctx context.Context, entry domain.AgentLedgerEntry) error {
	m := mapping.ToModelAgentLedgerEntry(entry)
	query := `
		INSERT INTO agent_ledger_entries (` + ledgerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		m.EntryID, m.AgentID, m.TransactionLogID, m.Sequence, m.Direction, m.Amount,
		m.ReceivableDelta, m.RunningBalanceAfter, m.OutstandingAfter, m.CreatedAt,
	)
	if err != nil {
		return mapError(err, "failed to append ledger entry for agent "+m.AgentID)
	}
	return nil
}

// FindAgentAccount reads a tail without locking it.
func (r *PgxAgentLedgerRepository) FindAgentAccount(ctx context.Context, agentID string) (*domain.AgentAccount, error) {
	query := `SELECT ` + agentAccountColumns + ` FROM agent_accounts WHERE agent_id = $1;`
	m, err := scanAgentAccount(r.db.QueryRow(ctx, query, agentID))
	if err != nil {
		return nil, mapError(err, "agent "+agentID+" has no ledger")
	}
	acc := mapping.ToDomainAgentAccount(m)
	return &acc, nil
}

func (r *PgxAgentLedgerRepository) ListLedgerEntries(ctx context.Context, agentID string) ([]domain.AgentLedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM agent_ledger_entries WHERE agent_id = $1 ORDER BY sequence;`
	return r.queryEntries(ctx, query, agentID)
}

func (r *PgxAgentLedgerRepository) ListLedgerEntriesBetween(ctx context.Context, agentID string, from, to time.Time) ([]domain.AgentLedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM agent_ledger_entries
		WHERE agent_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY sequence;
	`
	return r.queryEntries(ctx, query, agentID, from, to)
}

// BalanceBefore returns the running balance after the last entry created before t.
func (r *PgxAgentLedgerRepository) BalanceBefore(ctx context.Context, agentID string, t time.Time) (decimal.Decimal, error) {
	query := `
		SELECT running_balance_after
		FROM agent_ledger_entries
		WHERE agent_id = $1 AND created_at < $2
		ORDER BY sequence DESC
		LIMIT 1;
	`
	var balance decimal.Decimal
	err := r.db.QueryRow(ctx, query, agentID, t).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, mapError(err, "failed to read balance of agent "+agentID)
	}
	return balance, nil
}

// ListReceivableMovements joins the receivable-moving entries of an agent
// with their transactions, in sequence order.
func (r *PgxAgentLedgerRepository) ListReceivableMovements(ctx context.Context, agentID string) ([]domain.ReceivableMovement, error) {
	query := `
		SELECT e.transaction_log_id, t.transaction_number, t.event_type, t.reverses_transaction_id,
		       e.sequence, e.receivable_delta, e.created_at
		FROM agent_ledger_entries e
		JOIN transaction_logs t ON t.transaction_log_id = e.transaction_log_id
		WHERE e.agent_id = $1 AND e.receivable_delta <> 0
		ORDER BY e.sequence;
	`
	rows, err := r.db.Query(ctx, query, agentID)
	if err != nil {
		return nil, mapError(err, "failed to query receivable movements")
	}
	defer rows.Close()

	movements := []domain.ReceivableMovement{}
	for rows.Next() {
		var (
			mv        domain.ReceivableMovement
			eventType string
			reverses  *string
		)
		if err := rows.Scan(&mv.TransactionLogID, &mv.TransactionNumber, &eventType, &reverses, &mv.Sequence, &mv.Delta, &mv.CreatedAt); err != nil {
			return nil, mapError(err, "failed to scan receivable movement")
		}
		mv.EventType = domain.EventType(eventType)
		mv.ReversesTransactionID = reverses
		mv.CreatedAt = mv.CreatedAt.UTC()
		movements = append(movements, mv)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating receivable movements")
	}
	return movements, nil
}

func (r *PgxAgentLedgerRepository) ListAgentIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT agent_id FROM agent_accounts ORDER BY agent_id;`)
	if err != nil {
		return nil, mapError(err, "failed to list agents")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, "failed to scan agent ids")
	}
	return ids, nil
}

func (r *PgxAgentLedgerRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.AgentLedgerEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query agent ledger entries")
	}
	defer rows.Close()

	var entries []models.AgentLedgerEntry
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan agent ledger entry")
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating agent ledger entries")
	}
	return mapping.ToDomainAgentLedgerEntrySlice(entries), nil
}
