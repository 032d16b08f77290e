package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/middleware"
)

type chartOfAccountsService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txManager   portsrepo.TransactionManager
	audit       portssvc.AuditSvc
}

// ChartOfAccountsServiceOption is a functional option for configuring the chart of accounts service
type ChartOfAccountsServiceOption func(*chartOfAccountsService)

// WithAccountsClock overrides the clock used for account creation timestamps.
func WithAccountsClock(clock func() time.Time) ChartOfAccountsServiceOption {
	return func(s *chartOfAccountsService) {
		s.clock = clock
	}
}

// NewChartOfAccountsService creates the chart of accounts service.
func NewChartOfAccountsService(accountRepo portsrepo.AccountReader, txManager portsrepo.TransactionManager, audit portssvc.AuditSvc, options ...ChartOfAccountsServiceOption) portssvc.ChartOfAccountsSvcFacade {
	svc := &chartOfAccountsService{
		accountRepo: accountRepo,
		txManager:   txManager,
		audit:       audit,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ChartOfAccountsSvcFacade = (*chartOfAccountsService)(nil)

func (s *chartOfAccountsService) GetAccount(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code", slog.String("account_code", code))
		}
		return nil, err
	}
	s.LogDebug(ctx, "Account retrieved successfully", slog.String("account_code", code))
	return account, nil
}

func (s *chartOfAccountsService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *chartOfAccountsService) SeedDefaults(ctx context.Context) (int, error) {
	return s.SeedAccounts(ctx, domain.DefaultChart())
}

// SeedAccounts inserts missing accounts in one transaction. An existing code
// with a different type fails validation and nothing is seeded.
func (s *chartOfAccountsService) SeedAccounts(ctx context.Context, accounts []domain.Account) (int, error) {
	for _, acc := range accounts {
		if acc.Code == "" {
			return 0, apperrors.NewValidationError("code", "account code is required")
		}
		if !acc.Type.Valid() {
			return 0, apperrors.NewValidationError("type", "account %s has unknown type %q", acc.Code, acc.Type)
		}
	}

	actor := middleware.GetActorFromCtx(ctx)
	inserted := 0
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		inserted = 0
		for _, acc := range accounts {
			acc.NormalBalance = acc.Type.NormalBalance()
			acc.CreatedAt = s.Now()

			existing, err := repos.Accounts.FindAccountByCode(ctx, acc.Code)
			switch {
			case err == nil:
				if existing.Type != acc.Type {
					return apperrors.NewValidationError("type", "account %s exists as %s, cannot reseed as %s", acc.Code, existing.Type, acc.Type)
				}
				continue
			case !errors.Is(err, apperrors.ErrNotFound):
				return err
			}

			created, err := repos.Accounts.InsertAccountIfAbsent(ctx, acc)
			if err != nil {
				return err
			}
			if !created {
				continue
			}
			if err := s.audit.Append(ctx, repos.Audit, domain.EntityAccount, acc.Code, domain.ActionAccountSeeded, nil, acc, actor); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to seed chart of accounts")
		return 0, err
	}

	s.LogInfo(ctx, "Chart of accounts seeded", slog.Int("inserted", inserted), slog.Int("requested", len(accounts)))
	return inserted, nil
}
