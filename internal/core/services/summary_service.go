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
	"github.com/SscSPs/travel_ledger/internal/platform/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

type summaryService struct {
	BaseService
	summaryRepo portsrepo.SummaryReader
	ledgerRepo  portsrepo.AgentLedgerReader
	txManager   portsrepo.TransactionManager
	audit       portssvc.AuditSvc
	metrics     *metrics.LedgerMetrics
}

// SummaryServiceOption is a functional option for configuring the summary service
type SummaryServiceOption func(*summaryService)

// WithSummaryClock overrides the clock used for UpdatedAt stamps.
func WithSummaryClock(clock func() time.Time) SummaryServiceOption {
	return func(s *summaryService) {
		s.clock = clock
	}
}

// WithSummaryMetrics records rebuild outcomes on m.
func WithSummaryMetrics(m *metrics.LedgerMetrics) SummaryServiceOption {
	return func(s *summaryService) {
		s.metrics = m
	}
}

// NewSummaryService creates the periodic summarizer.
func NewSummaryService(summaryRepo portsrepo.SummaryReader, ledgerRepo portsrepo.AgentLedgerReader, txManager portsrepo.TransactionManager, audit portssvc.AuditSvc, options ...SummaryServiceOption) portssvc.SummarySvcFacade {
	svc := &summaryService{
		summaryRepo: summaryRepo,
		ledgerRepo:  ledgerRepo,
		txManager:   txManager,
		audit:       audit,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SummarySvcFacade = (*summaryService)(nil)

var summaryGranularities = []domain.Granularity{domain.Daily, domain.Monthly}

// UpdateOnPost folds txn into the daily and monthly summaries of its posting
// date. A period seen for the first time opens at balanceBefore.
func (s *summaryService) UpdateOnPost(ctx context.Context, repos portsrepo.TxRepositories, txn domain.TransactionLog, balanceBefore, balanceAfter decimal.Decimal) error {
	if txn.PostedAt == nil {
		return apperrors.NewValidationError("posted_at", "transaction %s has no posting time", txn.ID)
	}
	for _, g := range summaryGranularities {
		start := g.PeriodStart(*txn.PostedAt)
		summary, err := repos.Summaries.FindSummary(ctx, txn.AgentID, g, start)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			fresh := domain.NewPeriodSummary(txn.AgentID, g, start, balanceBefore)
			summary = &fresh
		}
		summary.Apply(txn, balanceAfter)
		summary.UpdatedAt = s.Now()
		if err := repos.Summaries.SaveSummary(ctx, *summary); err != nil {
			s.LogError(ctx, err, "Failed to save summary",
				slog.String("agent_id", txn.AgentID),
				slog.String("granularity", string(g)),
				slog.String("period", summary.Period))
			return err
		}
	}
	return nil
}

func (s *summaryService) GetDailySummary(ctx context.Context, agentID string, date time.Time) (*domain.PeriodSummary, error) {
	return s.getSummary(ctx, agentID, domain.Daily, domain.Daily.PeriodStart(date))
}

func (s *summaryService) GetMonthlySummary(ctx context.Context, agentID string, year int, month time.Month) (*domain.PeriodSummary, error) {
	if month < time.January || month > time.December {
		return nil, apperrors.NewValidationError("month", "month must be between 1 and 12, got %d", month)
	}
	return s.getSummary(ctx, agentID, domain.Monthly, time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// getSummary returns the stored summary or, for a period without activity,
// an empty one carrying the balance at that time. Nothing is written.
func (s *summaryService) getSummary(ctx context.Context, agentID string, g domain.Granularity, start time.Time) (*domain.PeriodSummary, error) {
	if agentID == "" {
		return nil, apperrors.NewValidationError("agent_id", "agent id is required")
	}
	summary, err := s.summaryRepo.FindSummary(ctx, agentID, g, start)
	if err == nil {
		return summary, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to find summary", slog.String("agent_id", agentID), slog.String("period", g.Label(start)))
		return nil, err
	}

	balance, err := s.ledgerRepo.BalanceBefore(ctx, agentID, g.PeriodEnd(start))
	if err != nil {
		return nil, err
	}
	empty := domain.NewPeriodSummary(agentID, g, start, balance)
	return &empty, nil
}

// Rebuild replays the posted transactions and agent ledger entries of one
// period and replaces the stored summary. It holds the agent's tail lock
// while reading and writing so a concurrent posting cannot land between the
// replay and the save. An agent without a tail has nothing to rebuild and
// gets an empty summary that is not stored.
func (s *summaryService) Rebuild(ctx context.Context, agentID string, g domain.Granularity, periodStart time.Time) (*domain.PeriodSummary, error) {
	if agentID == "" {
		return nil, apperrors.NewValidationError("agent_id", "agent id is required")
	}
	if !g.Valid() {
		return nil, apperrors.NewValidationError("granularity", "unknown granularity %q", g)
	}
	start := g.PeriodStart(periodStart)
	end := g.PeriodEnd(start)

	var rebuilt domain.PeriodSummary
	stored := true
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		if _, err := repos.Ledger.LockExistingAgentAccount(ctx, agentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				rebuilt = domain.NewPeriodSummary(agentID, g, start, decimal.Zero)
				rebuilt.UpdatedAt = s.Now()
				stored = false
				return nil
			}
			return err
		}

		opening, err := repos.Ledger.BalanceBefore(ctx, agentID, start)
		if err != nil {
			return err
		}
		txns, err := repos.Transactions.ListPostedByAgentBetween(ctx, agentID, start, end)
		if err != nil {
			return err
		}
		entries, err := repos.Ledger.ListLedgerEntriesBetween(ctx, agentID, start, end)
		if err != nil {
			return err
		}
		byTxn := make(map[string]domain.AgentLedgerEntry, len(entries))
		for _, e := range entries {
			byTxn[e.TransactionLogID] = e
		}

		rebuilt = domain.NewPeriodSummary(agentID, g, start, opening)
		balance := opening
		var lastSeq int64
		for _, txn := range txns {
			if e, ok := byTxn[txn.ID]; ok && e.Sequence > lastSeq {
				balance = e.RunningBalanceAfter
				lastSeq = e.Sequence
			}
			rebuilt.Apply(txn, balance)
		}
		rebuilt.UpdatedAt = s.Now()

		var before any
		if existing, err := repos.Summaries.FindSummary(ctx, agentID, g, start); err == nil {
			before = existing
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if err := repos.Summaries.SaveSummary(ctx, rebuilt); err != nil {
			return err
		}
		entityID := fmt.Sprintf("%s/%s/%s", agentID, g, rebuilt.Period)
		return s.audit.Append(ctx, repos.Audit, domain.EntitySummary, entityID, domain.ActionSummaryRebuilt, before, rebuilt, middleware.GetActorFromCtx(ctx))
	})
	if err != nil {
		s.metrics.IncRebuild(string(g), metrics.OutcomeError)
		s.LogError(ctx, err, "Failed to rebuild summary", slog.String("agent_id", agentID), slog.String("period", g.Label(start)))
		return nil, err
	}

	if !stored {
		s.LogDebug(ctx, "Agent has no ledger, nothing to rebuild", slog.String("agent_id", agentID), slog.String("period", rebuilt.Period))
		return &rebuilt, nil
	}

	s.metrics.IncRebuild(string(g), metrics.OutcomePosted)
	s.LogDebug(ctx, "Summary rebuilt", slog.String("agent_id", agentID), slog.String("period", rebuilt.Period), slog.Int64("transactions", rebuilt.TransactionCount))
	return &rebuilt, nil
}

// RebuildRange rebuilds every period touching [from, to] for each agent, or
// for every known agent when agentIDs is empty. It keeps going past failed
// periods and returns how many were rebuilt together with their combined error.
func (s *summaryService) RebuildRange(ctx context.Context, agentIDs []string, g domain.Granularity, from, to time.Time) (int, error) {
	if !g.Valid() {
		return 0, apperrors.NewValidationError("granularity", "unknown granularity %q", g)
	}
	if to.Before(from) {
		return 0, apperrors.NewValidationError("to", "range end %s is before start %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	if len(agentIDs) == 0 {
		ids, err := s.ledgerRepo.ListAgentIDs(ctx)
		if err != nil {
			return 0, err
		}
		agentIDs = ids
	}

	rebuilt := 0
	var errs error
	for _, agentID := range agentIDs {
		for start := g.PeriodStart(from); !start.After(to); start = g.PeriodEnd(start) {
			if err := ctx.Err(); err != nil {
				return rebuilt, multierr.Append(errs, err)
			}
			if _, err := s.Rebuild(ctx, agentID, g, start); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("agent %s period %s: %w", agentID, g.Label(start), err))
				continue
			}
			rebuilt++
		}
	}

	s.LogInfo(ctx, "Summary range rebuilt",
		slog.Int("agents", len(agentIDs)),
		slog.Int("rebuilt", rebuilt),
		slog.Int("failed", len(multierr.Errors(errs))))
	return rebuilt, errs
}
