package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/middleware"
	"github.com/SscSPs/travel_ledger/internal/platform/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
)

const (
	defaultMaxPostingAttempts = 3
	defaultRetryBaseDelay     = 10 * time.Millisecond
	defaultPageSize           = 20
	maxPageSize               = 100
)

type eventService struct {
	BaseService
	txnRepo     portsrepo.TransactionLogReader
	txManager   portsrepo.TransactionManager
	journal     portssvc.JournalTxPoster
	agentLedger portssvc.AgentLedgerProjector
	summaries   portssvc.SummaryUpdater
	audit       portssvc.AuditSvc
	metrics     *metrics.LedgerMetrics
	validate    *validator.Validate
	maxAttempts int
	retryBase   time.Duration
}

// EventServiceOption is a functional option for configuring the event service
type EventServiceOption func(*eventService)

// WithEventClock overrides the clock used for creation and posting times.
func WithEventClock(clock func() time.Time) EventServiceOption {
	return func(s *eventService) {
		s.clock = clock
	}
}

// WithPostingRetry bounds the attempts made when a posting hits a
// concurrency conflict.
func WithPostingRetry(maxAttempts int, baseDelay time.Duration) EventServiceOption {
	return func(s *eventService) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			s.retryBase = baseDelay
		}
	}
}

// WithEventMetrics records event outcomes on m.
func WithEventMetrics(m *metrics.LedgerMetrics) EventServiceOption {
	return func(s *eventService) {
		s.metrics = m
	}
}

// NewEventService creates the transaction log / event handler.
func NewEventService(
	txnRepo portsrepo.TransactionLogReader,
	txManager portsrepo.TransactionManager,
	journal portssvc.JournalTxPoster,
	agentLedger portssvc.AgentLedgerProjector,
	summaries portssvc.SummaryUpdater,
	audit portssvc.AuditSvc,
	options ...EventServiceOption,
) portssvc.EventSvcFacade {
	svc := &eventService{
		txnRepo:     txnRepo,
		txManager:   txManager,
		journal:     journal,
		agentLedger: agentLedger,
		summaries:   summaries,
		audit:       audit,
		validate:    newEnvelopeValidator(),
		maxAttempts: defaultMaxPostingAttempts,
		retryBase:   defaultRetryBaseDelay,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.EventSvcFacade = (*eventService)(nil)

// eventEnvelope holds the fields that must be present before anything is
// recorded for an event.
type eventEnvelope struct {
	SourceEventID string `json:"source_event_id" validate:"required,max=128"`
	EventType     string `json:"event_type" validate:"required,oneof=ticket_issue ticket_void ticket_refund ticket_reissue payment_received commission_earned commission_paid"`
	AgentID       string `json:"agent_id" validate:"required,max=64"`
	Currency      string `json:"currency" validate:"required,len=3,alpha"`
}

func newEnvelopeValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *eventService) checkEnvelope(input domain.EventInput) error {
	env := eventEnvelope{
		SourceEventID: input.SourceEventID,
		EventType:     string(input.EventType),
		AgentID:       input.AgentID,
		Currency:      input.Amounts.Currency,
	}
	if err := s.validate.Struct(env); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperrors.NewValidationError(fe.Field(), "failed on the '%s' rule", fe.Tag())
		}
		return apperrors.NewValidationError("", "%s", err.Error())
	}
	return nil
}

// RecordEvent records and posts one business event. Malformed envelopes are
// rejected without writing anything; events that fail posting validation are
// stored as failed rows and returned together with the validation error.
func (s *eventService) RecordEvent(ctx context.Context, input domain.EventInput) (*domain.RecordEventResult, error) {
	started := time.Now()
	input.Amounts.Currency = strings.ToUpper(strings.TrimSpace(input.Amounts.Currency))
	logger := s.GetLogger(ctx).With(
		slog.String("source_event_id", input.SourceEventID),
		slog.String("event_type", string(input.EventType)),
		slog.String("agent_id", input.AgentID))
	ctx = middleware.WithLogger(ctx, logger)

	if err := s.checkEnvelope(input); err != nil {
		s.metrics.ObserveEvent(string(input.EventType), metrics.OutcomeError, time.Since(started))
		return nil, err
	}
	if rule, ok := domain.RuleFor(input.EventType); ok {
		input.Amounts = rule.WithTotal(input.Amounts)
	}

	if existing, err := s.txnRepo.FindTransactionBySourceEventID(ctx, input.SourceEventID); err == nil {
		s.metrics.ObserveEvent(string(input.EventType), metrics.OutcomeDuplicate, time.Since(started))
		s.LogDebug(ctx, "Source event already recorded", slog.String("transaction_number", existing.TransactionNumber))
		return &domain.RecordEventResult{Transaction: *existing, Duplicate: true}, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed idempotency lookup")
		s.metrics.ObserveEvent(string(input.EventType), metrics.OutcomeError, time.Since(started))
		return nil, err
	}

	var result *domain.RecordEventResult
	backoff := retry.WithMaxRetries(uint64(s.maxAttempts-1), retry.NewExponential(s.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res, err := s.postOnce(ctx, input)
		if err != nil {
			if errors.Is(err, apperrors.ErrConcurrencyConflict) {
				s.metrics.IncConflict("record_event")
				s.LogWarn(ctx, "Posting hit a concurrency conflict, retrying", slog.String("error", err.Error()))
				return retry.RetryableError(err)
			}
			return err
		}
		result = res
		return nil
	})

	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			failed, ferr := s.recordFailure(ctx, input, err)
			if ferr != nil {
				s.metrics.ObserveEvent(string(input.EventType), metrics.OutcomeError, time.Since(started))
				return nil, multierr.Combine(err, ferr)
			}
			s.metrics.ObserveEvent(string(input.EventType), metrics.OutcomeFailed, time.Since(started))
			return failed, err
		}
		s.LogError(ctx, err, "Failed to record event")
		s.metrics.ObserveEvent(string(input.EventType), metrics.OutcomeError, time.Since(started))
		return nil, err
	}

	if result.Duplicate {
		s.metrics.ObserveEvent(string(input.EventType), metrics.OutcomeDuplicate, time.Since(started))
		return result, nil
	}

	s.agentLedger.Invalidate(ctx, input.AgentID)
	s.metrics.ObserveEvent(string(input.EventType), metrics.OutcomePosted, time.Since(started))
	s.LogInfo(ctx, "Event posted",
		slog.String("transaction_number", result.Transaction.TransactionNumber),
		slog.String("reference_id", result.Transaction.ReferenceID))
	return result, nil
}

// postOnce runs one attempt of the posting transaction.
func (s *eventService) postOnce(ctx context.Context, input domain.EventInput) (*domain.RecordEventResult, error) {
	var result *domain.RecordEventResult
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		existing, err := repos.Transactions.FindTransactionBySourceEventID(ctx, input.SourceEventID)
		if err == nil {
			result = &domain.RecordEventResult{Transaction: *existing, Duplicate: true}
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		plan, err := s.planPosting(ctx, repos, input)
		if err != nil {
			return err
		}

		account, err := s.agentLedger.LockAgent(ctx, repos, input.AgentID, plan.amounts.Currency)
		if err != nil {
			return err
		}

		actor := middleware.GetActorFromCtx(ctx)
		now := s.Now()
		occurredAt := input.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = now
		}
		txn := domain.TransactionLog{
			ID:                    uuid.NewString(),
			TransactionNumber:     domain.NewTransactionNumber(now),
			EventType:             input.EventType,
			AgentID:               input.AgentID,
			Status:                domain.StatusPending,
			ReferenceID:           uuid.NewString(),
			SourceEventID:         input.SourceEventID,
			ReversesTransactionID: plan.reverses,
			ActorID:               actor.ID,
			OccurredAt:            occurredAt.UTC(),
			CreatedAt:             now,
		}
		txn.SetAmounts(plan.amounts)

		inserted, err := repos.Transactions.InsertTransaction(ctx, txn)
		if err != nil {
			return err
		}
		if !inserted {
			existing, err := repos.Transactions.FindTransactionBySourceEventID(ctx, input.SourceEventID)
			if err != nil {
				return err
			}
			result = &domain.RecordEventResult{Transaction: *existing, Duplicate: true}
			return nil
		}
		if err := s.audit.Append(ctx, repos.Audit, domain.EntityTransaction, txn.ID, domain.ActionTransactionCreated, nil, txn, actor); err != nil {
			return err
		}

		posted, err := s.journal.PostInTx(ctx, repos, txn.ReferenceID, txn.Currency, plan.drafts, now)
		if err != nil {
			return err
		}

		if err := repos.Transactions.MarkPosted(ctx, txn.ID, now); err != nil {
			return err
		}
		pending := txn
		txn.Status = domain.StatusPosted
		txn.PostedAt = &now

		balanceBefore := account.RunningBalance
		ledgerEntry, err := s.agentLedger.ApplyPosted(ctx, repos, account, txn, posted.Entries)
		if err != nil {
			return err
		}
		if err := s.summaries.UpdateOnPost(ctx, repos, txn, balanceBefore, account.RunningBalance); err != nil {
			return err
		}
		if err := s.audit.Append(ctx, repos.Audit, domain.EntityTransaction, txn.ID, domain.ActionTransactionPosted, pending, txn, actor); err != nil {
			return err
		}

		result = &domain.RecordEventResult{Transaction: txn, Entries: posted.Entries, LedgerEntry: ledgerEntry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type postingPlan struct {
	drafts   []domain.JournalEntryDraft
	amounts  domain.Amounts
	reverses *string
}

// planPosting expands the posting rule of the event into journal drafts.
// Reversal rules mirror the journal of the referenced transaction.
func (s *eventService) planPosting(ctx context.Context, repos portsrepo.TxRepositories, input domain.EventInput) (*postingPlan, error) {
	rule, ok := domain.RuleFor(input.EventType)
	if !ok {
		return nil, apperrors.NewValidationError("event_type", "no posting rule for %s", input.EventType)
	}
	if !rule.IsReversal() {
		if total, ok := rule.DerivedTotal(input.Amounts); ok && !total.Equal(input.Amounts.Total) {
			return nil, apperrors.NewValidationError("total", "total %s does not equal the sum of its parts %s", input.Amounts.Total.String(), total.String())
		}
		return &postingPlan{drafts: rule.Drafts(input.Amounts), amounts: input.Amounts}, nil
	}

	if input.ReversesSourceEventID == "" {
		return nil, apperrors.NewValidationError("reverses_source_event_id", "%s must reference the event it reverses", input.EventType)
	}
	original, err := repos.Transactions.FindTransactionBySourceEventID(ctx, input.ReversesSourceEventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("reverses_source_event_id", "source event %s has not been recorded", input.ReversesSourceEventID)
		}
		return nil, err
	}
	switch {
	case original.Status != domain.StatusPosted:
		return nil, apperrors.NewValidationError("reverses_source_event_id", "transaction %s is %s, only posted transactions can be reversed", original.TransactionNumber, original.Status)
	case original.AgentID != input.AgentID:
		return nil, apperrors.NewValidationError("agent_id", "transaction %s belongs to another agent", original.TransactionNumber)
	case !rule.Reverses(original.EventType):
		return nil, apperrors.NewValidationError("reverses_source_event_id", "%s cannot reverse a %s", input.EventType, original.EventType)
	case original.Currency != input.Amounts.Currency:
		return nil, apperrors.NewValidationError("currency", "reversal currency %s differs from original %s", input.Amounts.Currency, original.Currency)
	case !input.Amounts.Total.IsZero() && !input.Amounts.Total.Equal(original.TotalAmount):
		return nil, apperrors.NewValidationError("total", "reversal total %s differs from original %s", input.Amounts.Total.String(), original.TotalAmount.String())
	}

	if reversal, err := repos.Transactions.FindReversalOf(ctx, original.ID); err == nil {
		return nil, apperrors.NewValidationError("reverses_source_event_id", "transaction %s was already reversed by %s", original.TransactionNumber, reversal.TransactionNumber)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	entries, err := repos.Journal.FindEntriesByReference(ctx, original.ReferenceID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, fmt.Sprintf("posted transaction %s has no journal entries", original.TransactionNumber), nil)
	}

	originalID := original.ID
	return &postingPlan{
		drafts:   domain.MirrorEntries(entries),
		amounts:  original.Amounts(),
		reverses: &originalID,
	}, nil
}

// recordFailure stores a failed row for an event rejected during posting.
// A row already stored for the source event wins and is returned as is.
func (s *eventService) recordFailure(ctx context.Context, input domain.EventInput, cause error) (*domain.RecordEventResult, error) {
	var result *domain.RecordEventResult
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		existing, err := repos.Transactions.FindTransactionBySourceEventID(ctx, input.SourceEventID)
		if err == nil {
			result = &domain.RecordEventResult{Transaction: *existing, Duplicate: true}
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		actor := middleware.GetActorFromCtx(ctx)
		now := s.Now()
		occurredAt := input.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = now
		}
		txn := domain.TransactionLog{
			ID:                uuid.NewString(),
			TransactionNumber: domain.NewTransactionNumber(now),
			EventType:         input.EventType,
			AgentID:           input.AgentID,
			Status:            domain.StatusFailed,
			SourceEventID:     input.SourceEventID,
			FailureReason:     cause.Error(),
			ActorID:           actor.ID,
			OccurredAt:        occurredAt.UTC(),
			CreatedAt:         now,
		}
		txn.SetAmounts(input.Amounts)

		inserted, err := repos.Transactions.InsertTransaction(ctx, txn)
		if err != nil {
			return err
		}
		if !inserted {
			existing, err := repos.Transactions.FindTransactionBySourceEventID(ctx, input.SourceEventID)
			if err != nil {
				return err
			}
			result = &domain.RecordEventResult{Transaction: *existing, Duplicate: true}
			return nil
		}
		if err := s.audit.Append(ctx, repos.Audit, domain.EntityTransaction, txn.ID, domain.ActionTransactionFailed, nil, txn, actor); err != nil {
			return err
		}
		result = &domain.RecordEventResult{Transaction: txn}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record failed transaction")
		return nil, err
	}

	s.LogWarn(ctx, "Event rejected", slog.String("reason", cause.Error()), slog.String("transaction_number", result.Transaction.TransactionNumber))
	return result, nil
}

// GetTransaction reports a posted row with a posted reversal as reversed.
func (s *eventService) GetTransaction(ctx context.Context, transactionNumber string) (*domain.TransactionLog, error) {
	txn, err := s.txnRepo.FindTransactionByNumber(ctx, transactionNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_number", transactionNumber))
		}
		return nil, err
	}
	if txn.Status == domain.StatusPosted {
		if _, err := s.txnRepo.FindReversalOf(ctx, txn.ID); err == nil {
			txn.Status = domain.StatusReversed
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	return txn, nil
}

// ListAgentTransactions returns stored statuses; use GetTransaction for the reversal view.
func (s *eventService) ListAgentTransactions(ctx context.Context, agentID string, limit int, nextToken *string) ([]domain.TransactionLog, *string, error) {
	if agentID == "" {
		return nil, nil, apperrors.NewValidationError("agent_id", "agent id is required")
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	txns, next, err := s.txnRepo.ListTransactionsByAgent(ctx, agentID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list agent transactions", slog.String("agent_id", agentID))
		return nil, nil, err
	}
	if txns == nil {
		txns = []domain.TransactionLog{}
	}
	return txns, next, nil
}
