package pgsql

import (
	"context"

	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/models"
	"github.com/SscSPs/travel_ledger/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for the chart of accounts.
func newPgxAccountRepository(db querier) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `code, name, account_type, normal_balance, created_at`

// InsertAccountIfAbsent inserts the account unless its code exists.
func (r *PgxAccountRepository) InsertAccountIfAbsent(ctx context.Context, account domain.Account) (bool, error) {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (code, name, account_type, normal_balance, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING;
	`
	tag, err := r.db.Exec(ctx, query, m.Code, m.Name, m.AccountType, m.NormalBalance, m.CreatedAt)
	if err != nil {
		return false, mapError(err, "failed to insert account "+m.Code)
	}
	return tag.RowsAffected() == 1, nil
}

// FindAccountByCode retrieves an account by its code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	var m models.Account
	err := r.db.QueryRow(ctx, query, code).Scan(&m.Code, &m.Name, &m.AccountType, &m.NormalBalance, &m.CreatedAt)
	if err != nil {
		return nil, mapError(err, "account "+code+" not found")
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountsByCodes retrieves the accounts that exist among codes.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	found := make(map[string]domain.Account, len(codes))
	if len(codes) == 0 {
		return found, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = ANY($1);`
	accounts, err := r.queryAccounts(ctx, query, codes)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		found[acc.Code] = acc
	}
	return found, nil
}

// ListAccounts retrieves the chart ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return r.queryAccounts(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY code;`)
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query accounts")
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.Code, &m.Name, &m.AccountType, &m.NormalBalance, &m.CreatedAt); err != nil {
			return nil, mapError(err, "failed to scan account row")
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating account rows")
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}
