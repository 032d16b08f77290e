package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/models"
	"github.com/SscSPs/travel_ledger/internal/utils/mapping"
	"github.com/SscSPs/travel_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxTransactionLogRepository struct {
	BaseRepository
}

// newPgxTransactionLogRepository creates a new repository for the transaction log.
func newPgxTransactionLogRepository(db querier) *PgxTransactionLogRepository {
	return &PgxTransactionLogRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxTransactionLogRepository implements portsrepo.TransactionLogRepositoryFacade
var _ portsrepo.TransactionLogRepositoryFacade = (*PgxTransactionLogRepository)(nil)

const transactionLogColumns = `
	transaction_log_id, transaction_number, event_type, agent_id,
	base_amount, tax_amount, total_amount, fee_amount, penalty_amount, currency,
	status, reference_id, source_event_id, reverses_transaction_id, failure_reason,
	actor_id, occurred_at, created_at, posted_at`

func scanTransactionLog(row pgx.Row) (models.TransactionLog, error) {
	var m models.TransactionLog
	err := row.Scan(
		&m.TransactionLogID,
		&m.TransactionNumber,
		&m.EventType,
		&m.AgentID,
		&m.BaseAmount,
		&m.TaxAmount,
		&m.TotalAmount,
		&m.FeeAmount,
		&m.PenaltyAmount,
		&m.Currency,
		&m.Status,
		&m.ReferenceID,
		&m.SourceEventID,
		&m.ReversesTransactionID,
		&m.FailureReason,
		&m.ActorID,
		&m.OccurredAt,
		&m.CreatedAt,
		&m.PostedAt,
	)
	return m, err
}

// InsertTransaction inserts a new row. A row already recorded for the
// source event wins and false is returned.
func (r *PgxTransactionLogRepository) InsertTransaction(ctx context.Context, txn domain.TransactionLog) (bool, error) {
	m := mapping.ToModelTransactionLog(txn)
	query := `
		INSERT INTO transaction_logs (` + transactionLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (source_event_id) DO NOTHING;
	`
	tag, err := r.db.Exec(ctx, query,
		m.TransactionLogID,
		m.TransactionNumber,
		m.EventType,
		m.AgentID,
		m.BaseAmount,
		m.TaxAmount,
		m.TotalAmount,
		m.FeeAmount,
		m.PenaltyAmount,
		m.Currency,
		m.Status,
		m.ReferenceID,
		m.SourceEventID,
		m.ReversesTransactionID,
		m.FailureReason,
		m.ActorID,
		m.OccurredAt,
		m.CreatedAt,
		m.PostedAt,
	)
	if err != nil {
		// A unique transaction number or a second reversal of the same row
		// lost a race; retrying picks a new number or sees the reversal.
		return false, mapError(err, "failed to insert transaction "+m.TransactionNumber)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkPosted moves a pending row to posted.
func (r *PgxTransactionLogRepository) MarkPosted(ctx context.Context, id string, postedAt time.Time) error {
	query := `
		UPDATE transaction_logs
		SET status = 'posted', posted_at = $2
		WHERE transaction_log_id = $1 AND status = 'pending';
	`
	tag, err := r.db.Exec(ctx, query, id, postedAt)
	if err != nil {
		return mapError(err, "failed to mark transaction "+id+" posted")
	}
	if tag.RowsAffected() != 1 {
		return apperrors.NewAppError(http.StatusConflict, fmt.Sprintf("transaction %s is not pending", id), apperrors.ErrConflict)
	}
	return nil
}

func (r *PgxTransactionLogRepository) findOne(ctx context.Context, where string, arg any, notFound string) (*domain.TransactionLog, error) {
	query := `SELECT ` + transactionLogColumns + ` FROM transaction_logs WHERE ` + where + `;`
	m, err := scanTransactionLog(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapError(err, notFound)
	}
	txn := mapping.ToDomainTransactionLog(m)
	return &txn, nil
}

// FindTransactionByID retrieves a row by its id.
func (r *PgxTransactionLogRepository) FindTransactionByID(ctx context.Context, id string) (*domain.TransactionLog, error) {
	return r.findOne(ctx, "transaction_log_id = $1", id, "transaction "+id+" not found")
}

// FindTransactionBySourceEventID retrieves the row recorded for a source event.
func (r *PgxTransactionLogRepository) FindTransactionBySourceEventID(ctx context.Context, sourceEventID string) (*domain.TransactionLog, error) {
	return r.findOne(ctx, "source_event_id = $1", sourceEventID, "source event "+sourceEventID+" not recorded")
}

// FindTransactionByNumber retrieves a row by its transaction number.
func (r *PgxTransactionLogRepository) FindTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.TransactionLog, error) {
	return r.findOne(ctx, "transaction_number = $1", transactionNumber, "transaction "+transactionNumber+" not found")
}

// FindReversalOf retrieves the posted row reversing originalID.
func (r *PgxTransactionLogRepository) FindReversalOf(ctx context.Context, originalID string) (*domain.TransactionLog, error) {
	return r.findOne(ctx, "reverses_transaction_id = $1 AND status = 'posted'", originalID, "transaction "+originalID+" has no reversal")
}

// ListPostedByAgentBetween retrieves posted rows with posted_at in [from, to) in posting order.
func (r *PgxTransactionLogRepository) ListPostedByAgentBetween(ctx context.Context, agentID string, from, to time.Time) ([]domain.TransactionLog, error) {
	query := `
		SELECT ` + transactionLogColumns + `
		FROM transaction_logs
		WHERE agent_id = $1 AND status = 'posted' AND posted_at >= $2 AND posted_at < $3
		ORDER BY posted_at, transaction_log_id;
	`
	return r.queryMany(ctx, query, agentID, from, to)
}

// ListTransactionsByAgent retrieves a page of an agent's rows, newest first,
// using keyset pagination on (created_at, transaction_log_id).
func (r *PgxTransactionLogRepository) ListTransactionsByAgent(ctx context.Context, agentID string, limit int, nextToken *string) ([]domain.TransactionLog, *string, error) {
	args := []any{agentID}
	query := `SELECT ` + transactionLogColumns + ` FROM transaction_logs WHERE agent_id = $1`
	if nextToken != nil && *nextToken != "" {
		tokenAt, tokenID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		query += ` AND (created_at, transaction_log_id::text) < ($2, $3)`
		args = append(args, tokenAt, tokenID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_log_id::text DESC LIMIT %d;`, limit+1)

	txns, err := r.queryMany(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	if len(txns) <= limit {
		return txns, nil, nil
	}
	page := txns[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.ID)
	return page, &token, nil
}

func (r *PgxTransactionLogRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.TransactionLog, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query transaction logs")
	}
	defer rows.Close()

	var txns []models.TransactionLog
	for rows.Next() {
		m, err := scanTransactionLog(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan transaction log row")
		}
		txns = append(txns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating transaction log rows")
	}
	return mapping.ToDomainTransactionLogSlice(txns), nil
}
