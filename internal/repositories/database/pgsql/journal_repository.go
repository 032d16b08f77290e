package pgsql

import (
	"context"
	"net/http"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/models"
	"github.com/SscSPs/travel_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries.
func newPgxJournalRepository(db querier) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveEntries inserts all lines of one reference in a single batch.
// (reference_id, line_no) is unique, so a reference is written at most once.
func (r *PgxJournalRepository) SaveEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		INSERT INTO journal_entries (entry_id, reference_id, account_code, side, amount, currency, line_no, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelJournalEntry(e)
		batch.Queue(query, m.EntryID, m.ReferenceID, m.AccountCode, m.Side, m.Amount, m.Currency, m.LineNo, m.CreatedAt)
	}

	// Close reports the first failing statement of the batch.
	br := r.db.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if isUniqueViolation(err, "journal_entries_reference_line_key") {
			return apperrors.NewAppError(http.StatusConflict, "journal reference "+entries[0].ReferenceID+" already posted", apperrors.ErrConflict)
		}
		return mapError(err, "failed to save journal entries for reference "+entries[0].ReferenceID)
	}
	return nil
}

// FindEntriesByReference retrieves all lines of a reference in line order.
func (r *PgxJournalRepository) FindEntriesByReference(ctx context.Context, referenceID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT entry_id, reference_id, account_code, side, amount, currency, line_no, created_at
		FROM journal_entries
		WHERE reference_id = $1
		ORDER BY line_no;
	`
	rows, err := r.db.Query(ctx, query, referenceID)
	if err != nil {
		return nil, mapError(err, "failed to query journal entries")
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var m models.JournalEntry
		if err := rows.Scan(&m.EntryID, &m.ReferenceID, &m.AccountCode, &m.Side, &m.Amount, &m.Currency, &m.LineNo, &m.CreatedAt); err != nil {
			return nil, mapError(err, "failed to scan journal entry row")
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating journal entry rows")
	}
	return mapping.ToDomainJournalEntrySlice(entries), nil
}
