package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/utils/accounting"
	"github.com/google/uuid"
)

type journalService struct {
	BaseService
	journalRepo portsrepo.JournalReader
	txManager   portsrepo.TransactionManager
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalClock overrides the clock used by Post.
func WithJournalClock(clock func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.clock = clock
	}
}

// NewJournalService creates the double-entry journal engine.
func NewJournalService(journalRepo portsrepo.JournalReader, txManager portsrepo.TransactionManager, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		txManager:   txManager,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// Post validates drafts and persists them in a transaction of their own.
func (s *journalService) Post(ctx context.Context, referenceID, currency string, drafts []domain.JournalEntryDraft) (*domain.PostResult, error) {
	var result *domain.PostResult
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		result, err = s.PostInTx(ctx, repos, referenceID, currency, drafts, s.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PostInTx validates drafts against the chart and writes them through repos.
// Nothing is written when validation fails.
func (s *journalService) PostInTx(ctx context.Context, repos portsrepo.TxRepositories, referenceID, currency string, drafts []domain.JournalEntryDraft, at time.Time) (*domain.PostResult, error) {
	if referenceID == "" {
		return nil, apperrors.NewValidationError("reference_id", "reference id is required")
	}
	if currency == "" {
		return nil, apperrors.NewValidationError("currency", "currency is required")
	}

	codes := make([]string, 0, len(drafts))
	for _, d := range drafts {
		codes = append(codes, d.AccountCode)
	}
	accounts, err := repos.Accounts.FindAccountsByCodes(ctx, codes)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for posting", slog.String("reference_id", referenceID))
		return nil, err
	}
	if err := accounting.ValidateJournalBalance(drafts, accounts, currency); err != nil {
		s.LogWarn(ctx, "Rejected unbalanced or invalid journal", slog.String("reference_id", referenceID), slog.String("reason", err.Error()))
		return nil, err
	}

	entries := make([]domain.JournalEntry, 0, len(drafts))
	ids := make([]string, 0, len(drafts))
	for i, d := range drafts {
		entry := domain.JournalEntry{
			ID:          uuid.NewString(),
			ReferenceID: referenceID,
			AccountCode: d.AccountCode,
			Side:        d.Side,
			Amount:      d.Amount,
			Currency:    currency,
			LineNo:      i + 1,
			CreatedAt:   at,
		}
		entries = append(entries, entry)
		ids = append(ids, entry.ID)
	}

	if err := repos.Journal.SaveEntries(ctx, entries); err != nil {
		s.LogError(ctx, err, "Failed to save journal entries", slog.String("reference_id", referenceID))
		return nil, err
	}

	s.LogDebug(ctx, "Journal posted", slog.String("reference_id", referenceID), slog.Int("entries", len(entries)))
	return &domain.PostResult{ReferenceID: referenceID, EntryIDs: ids, Entries: entries}, nil
}

func (s *journalService) GetEntries(ctx context.Context, referenceID string) ([]domain.JournalEntry, error) {
	entries, err := s.journalRepo.FindEntriesByReference(ctx, referenceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find journal entries", slog.String("reference_id", referenceID))
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperrors.NewNotFoundError("journal reference " + referenceID + " not found")
	}
	return entries, nil
}

// VerifyDoubleEntry recomputes both sides of a posted reference.
func (s *journalService) VerifyDoubleEntry(ctx context.Context, referenceID string) (*domain.DoubleEntryCheck, error) {
	entries, err := s.GetEntries(ctx, referenceID)
	if err != nil {
		return nil, err
	}

	drafts := make([]domain.JournalEntryDraft, 0, len(entries))
	for _, e := range entries {
		drafts = append(drafts, e.Draft())
	}
	debits, credits := accounting.Totals(drafts)
	check := &domain.DoubleEntryCheck{
		ReferenceID: referenceID,
		Balanced:    debits.Equal(credits),
		Debits:      debits,
		Credits:     credits,
		Difference:  debits.Sub(credits),
		EntryCount:  len(entries),
	}
	if !check.Balanced {
		s.LogWarn(ctx, "Journal reference is unbalanced",
			slog.String("reference_id", referenceID),
			slog.String("difference", check.Difference.String()))
	}
	return check, nil
}
