package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/middleware"
	"github.com/SscSPs/travel_ledger/internal/platform/metrics"
	"github.com/SscSPs/travel_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type agentLedgerService struct {
	BaseService
	ledgerRepo         portsrepo.AgentLedgerReader
	txManager          portsrepo.TransactionManager
	audit              portssvc.AuditSvc
	cache              portsrepo.BalanceCache
	metrics            *metrics.LedgerMetrics
	defaultCreditLimit decimal.Decimal
}

// AgentLedgerServiceOption is a functional option for configuring the agent ledger service
type AgentLedgerServiceOption func(*agentLedgerService)

// WithAgentLedgerClock overrides the clock used for tail timestamps and aging.
func WithAgentLedgerClock(clock func() time.Time) AgentLedgerServiceOption {
	return func(s *agentLedgerService) {
		s.clock = clock
	}
}

// WithDefaultCreditLimit sets the credit limit given to agents on their first posting.
func WithDefaultCreditLimit(limit decimal.Decimal) AgentLedgerServiceOption {
	return func(s *agentLedgerService) {
		s.defaultCreditLimit = limit
	}
}

// WithBalanceCache serves GetBalance through cache.
func WithBalanceCache(cache portsrepo.BalanceCache) AgentLedgerServiceOption {
	return func(s *agentLedgerService) {
		s.cache = cache
	}
}

// WithAgentLedgerMetrics records cache lookups on m.
func WithAgentLedgerMetrics(m *metrics.LedgerMetrics) AgentLedgerServiceOption {
	return func(s *agentLedgerService) {
		s.metrics = m
	}
}

// NewAgentLedgerService creates the agent ledger projector and balance reader.
func NewAgentLedgerService(ledgerRepo portsrepo.AgentLedgerReader, txManager portsrepo.TransactionManager, audit portssvc.AuditSvc, options ...AgentLedgerServiceOption) portssvc.AgentLedgerSvcFacade {
	svc := &agentLedgerService{
		ledgerRepo:         ledgerRepo,
		txManager:          txManager,
		audit:              audit,
		defaultCreditLimit: decimal.Zero,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AgentLedgerSvcFacade = (*agentLedgerService)(nil)

func (s *agentLedgerService) newTail(agentID string) domain.AgentAccount {
	now := s.Now()
	return domain.AgentAccount{
		AgentID:         agentID,
		CreditLimit:     s.defaultCreditLimit,
		RunningBalance:  decimal.Zero,
		Outstanding:     decimal.Zero,
		TotalSales:      decimal.Zero,
		TotalPayments:   decimal.Zero,
		TotalRefunds:    decimal.Zero,
		TotalCommission: decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// LockAgent locks the agent's tail row, creating it on first use. The
// agent's currency is fixed by its first posting.
func (s *agentLedgerService) LockAgent(ctx context.Context, repos portsrepo.TxRepositories, agentID, currency string) (*domain.AgentAccount, error) {
	account, err := repos.Ledger.LockAgentAccount(ctx, s.newTail(agentID))
	if err != nil {
		s.LogError(ctx, err, "Failed to lock agent ledger", slog.String("agent_id", agentID))
		return nil, err
	}
	if account.Currency == "" {
		account.Currency = currency
	} else if account.Currency != currency {
		return nil, apperrors.NewValidationError("currency", "agent %s posts in %s, got %s", agentID, account.Currency, currency)
	}
	return account, nil
}

// ApplyPosted folds a posted transaction into the locked tail. The agent
// effect comes from the journal entries on agent-facing accounts only.
func (s *agentLedgerService) ApplyPosted(ctx context.Context, repos portsrepo.TxRepositories, account *domain.AgentAccount, txn domain.TransactionLog, entries []domain.JournalEntry) (*domain.AgentLedgerEntry, error) {
	if account == nil || account.AgentID != txn.AgentID {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "agent ledger tail does not match transaction "+txn.ID, nil)
	}
	if txn.Status != domain.StatusPosted || txn.PostedAt == nil {
		return nil, apperrors.NewValidationError("status", "transaction %s is not posted", txn.ID)
	}

	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		codes = append(codes, e.AccountCode)
	}
	accounts, err := repos.Accounts.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	balanceDelta, receivableDelta, err := accounting.AgentEffect(entries, accounts)
	if err != nil {
		return nil, err
	}

	postedAt := *txn.PostedAt
	figures := domain.FiguresFor(txn)
	account.TotalSales = account.TotalSales.Add(figures.Sales)
	account.TotalRefunds = account.TotalRefunds.Add(figures.Refunds)
	account.TotalPayments = account.TotalPayments.Add(figures.Payments)
	account.TotalCommission = account.TotalCommission.Add(figures.Commission)
	account.LastTransactionAt = &postedAt
	if txn.EventType == domain.EventPaymentReceived {
		account.LastPaymentAt = &postedAt
	}
	account.UpdatedAt = postedAt

	var entry *domain.AgentLedgerEntry
	if !balanceDelta.IsZero() || !receivableDelta.IsZero() {
		direction := domain.Debit
		if balanceDelta.IsNegative() {
			direction = domain.Credit
		}
		account.LastSequence++
		account.RunningBalance = account.RunningBalance.Add(balanceDelta)
		account.Outstanding = account.Outstanding.Add(receivableDelta)

		entry = &domain.AgentLedgerEntry{
			ID:                  uuid.NewString(),
			AgentID:             account.AgentID,
			TransactionLogID:    txn.ID,
			Sequence:            account.LastSequence,
			Direction:           direction,
			Amount:              balanceDelta.Abs(),
			ReceivableDelta:     receivableDelta,
			RunningBalanceAfter: account.RunningBalance,
			OutstandingAfter:    account.Outstanding,
			CreatedAt:           postedAt,
		}
		if err := repos.Ledger.AppendLedgerEntry(ctx, *entry); err != nil {
			s.LogError(ctx, err, "Failed to append agent ledger entry",
				slog.String("agent_id", account.AgentID),
				slog.Int64("sequence", entry.Sequence))
			return nil, err
		}
	}

	if err := repos.Ledger.SaveAgentAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to save agent ledger tail", slog.String("agent_id", account.AgentID))
		return nil, err
	}

	if entry != nil {
		if err := s.audit.Append(ctx, repos.Audit, domain.EntityLedgerEntry, entry.ID, domain.ActionLedgerAppended, nil, entry, middleware.GetActorFromCtx(ctx)); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// Invalidate drops the cached balance. Errors are logged; the cache TTL
// bounds any staleness left behind.
func (s *agentLedgerService) Invalidate(ctx context.Context, agentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBalance(ctx, agentID); err != nil {
		s.LogWarn(ctx, "Failed to invalidate cached balance", slog.String("agent_id", agentID), slog.String("error", err.Error()))
	}
}

func (s *agentLedgerService) GetBalance(ctx context.Context, agentID string) (*domain.AgentBalance, error) {
	if agentID == "" {
		return nil, apperrors.NewValidationError("agent_id", "agent id is required")
	}

	if s.cache != nil {
		cached, ok, err := s.cache.GetBalance(ctx, agentID)
		switch {
		case err != nil:
			s.metrics.IncCache(metrics.CacheError)
			s.LogWarn(ctx, "Balance cache lookup failed", slog.String("agent_id", agentID), slog.String("error", err.Error()))
		case ok:
			s.metrics.IncCache(metrics.CacheHit)
			return cached, nil
		default:
			s.metrics.IncCache(metrics.CacheMiss)
		}
	}

	account, err := s.ledgerRepo.FindAgentAccount(ctx, agentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load agent ledger", slog.String("agent_id", agentID))
			return nil, err
		}
		tail := s.newTail(agentID)
		account = &tail
	}

	balance := domain.BalanceFromAccount(*account, s.Now())
	if s.cache != nil {
		if err := s.cache.SetBalance(ctx, balance); err != nil {
			s.LogWarn(ctx, "Failed to cache balance", slog.String("agent_id", agentID), slog.String("error", err.Error()))
		}
	}
	return &balance, nil
}

func (s *agentLedgerService) GetOutstandingDetail(ctx context.Context, agentID string) (*domain.OutstandingDetail, error) {
	if agentID == "" {
		return nil, apperrors.NewValidationError("agent_id", "agent id is required")
	}
	movements, err := s.ledgerRepo.ListReceivableMovements(ctx, agentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list receivable movements", slog.String("agent_id", agentID))
		return nil, err
	}
	detail := accounting.ComputeAging(agentID, movements, s.Now())
	return &detail, nil
}

// CheckCredit is a pure read. It may observe a balance up to the cache
// staleness bound old.
func (s *agentLedgerService) CheckCredit(ctx context.Context, agentID string, amount decimal.Decimal) (*domain.CreditCheck, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "amount must be positive, got %s", amount.String())
	}
	balance, err := s.GetBalance(ctx, agentID)
	if err != nil {
		return nil, err
	}

	available := balance.AvailableCredit
	shortfall := amount.Sub(available)
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}
	return &domain.CreditCheck{
		AgentID:         agentID,
		Allowed:         amount.LessThanOrEqual(available),
		Requested:       amount,
		AvailableCredit: available,
		Shortfall:       shortfall,
	}, nil
}

func (s *agentLedgerService) SetCreditLimit(ctx context.Context, agentID string, limit decimal.Decimal) (*domain.AgentAccount, error) {
	if agentID == "" {
		return nil, apperrors.NewValidationError("agent_id", "agent id is required")
	}
	if limit.IsNegative() {
		return nil, apperrors.NewValidationError("credit_limit", "credit limit must not be negative, got %s", limit.String())
	}

	var updated domain.AgentAccount
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		account, err := repos.Ledger.LockAgentAccount(ctx, s.newTail(agentID))
		if err != nil {
			return err
		}
		before := *account
		account.CreditLimit = limit
		account.UpdatedAt = s.Now()
		if err := repos.Ledger.SaveAgentAccount(ctx, *account); err != nil {
			return err
		}
		updated = *account
		return s.audit.Append(ctx, repos.Audit, domain.EntityAgent, agentID, domain.ActionCreditLimitChanged,
			map[string]string{"credit_limit": before.CreditLimit.String()},
			map[string]string{"credit_limit": limit.String()},
			middleware.GetActorFromCtx(ctx))
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to set credit limit", slog.String("agent_id", agentID))
		return nil, err
	}

	s.Invalidate(ctx, agentID)
	s.LogInfo(ctx, "Credit limit updated", slog.String("agent_id", agentID), slog.String("credit_limit", limit.String()))
	return &updated, nil
}
