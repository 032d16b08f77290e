package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/travel_ledger/internal/core/services"
	"github.com/SscSPs/travel_ledger/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockJournalReader is a mock implementation of JournalReader
type MockJournalReader struct {
	mock.Mock
}

var _ portsrepo.JournalReader = (*MockJournalReader)(nil)

func (m *MockJournalReader) FindEntriesByReference(ctx context.Context, referenceID string) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

type JournalServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	engine *engine
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.engine = newEngine(dec("0"), nil, memory.NewStore(), newTestClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func (suite *JournalServiceTestSuite) TestPost_Balanced() {
	drafts := []domain.JournalEntryDraft{
		{AccountCode: domain.AccountCash, Side: domain.Debit, Amount: dec("120.50")},
		{AccountCode: domain.AccountTicketRevenue, Side: domain.Credit, Amount: dec("100.50")},
		{AccountCode: domain.AccountTaxPayable, Side: domain.Credit, Amount: dec("20.00")},
	}

	result, err := suite.engine.journal.Post(suite.ctx, "ref-1", "USD", drafts)
	suite.Require().NoError(err)
	suite.Equal("ref-1", result.ReferenceID)
	suite.Len(result.EntryIDs, 3)
	for i, e := range result.Entries {
		suite.Equal(i+1, e.LineNo)
		suite.Equal("USD", e.Currency)
		suite.True(e.CreatedAt.Equal(suite.engine.clock.Now()))
	}

	entries, err := suite.engine.journal.GetEntries(suite.ctx, "ref-1")
	suite.Require().NoError(err)
	suite.Len(entries, 3)

	_, err = suite.engine.journal.Post(suite.ctx, "ref-1", "USD", drafts)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *JournalServiceTestSuite) TestPost_Rejected() {
	tests := []struct {
		name      string
		reference string
		currency  string
		drafts    []domain.JournalEntryDraft
	}{
		{
			name:      "unbalanced",
			reference: "ref-u",
			currency:  "USD",
			drafts: []domain.JournalEntryDraft{
				{AccountCode: domain.AccountCash, Side: domain.Debit, Amount: dec("100")},
				{AccountCode: domain.AccountTicketRevenue, Side: domain.Credit, Amount: dec("99.99")},
			},
		},
		{
			name:      "unknown account",
			reference: "ref-x",
			currency:  "USD",
			drafts: []domain.JournalEntryDraft{
				{AccountCode: "9999", Side: domain.Debit, Amount: dec("1")},
				{AccountCode: domain.AccountTicketRevenue, Side: domain.Credit, Amount: dec("1")},
			},
		},
		{
			name:     "missing reference",
			currency: "USD",
			drafts: []domain.JournalEntryDraft{
				{AccountCode: domain.AccountCash, Side: domain.Debit, Amount: dec("1")},
				{AccountCode: domain.AccountTicketRevenue, Side: domain.Credit, Amount: dec("1")},
			},
		},
		{
			name:      "fractional yen",
			reference: "ref-j",
			currency:  "JPY",
			drafts: []domain.JournalEntryDraft{
				{AccountCode: domain.AccountCash, Side: domain.Debit, Amount: dec("1.5")},
				{AccountCode: domain.AccountTicketRevenue, Side: domain.Credit, Amount: dec("1.5")},
			},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.engine.journal.Post(suite.ctx, tt.reference, tt.currency, tt.drafts)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.Equal(0, suite.engine.store.CountJournalEntries())
}

func (suite *JournalServiceTestSuite) TestGetEntries_NotFound() {
	_, err := suite.engine.journal.GetEntries(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestVerifyDoubleEntry_ReportsDifference() {
	reader := new(MockJournalReader)
	svc := services.NewJournalService(reader, suite.engine.store)

	reader.On("FindEntriesByReference", mock.Anything, "ref-bad").Return([]domain.JournalEntry{
		{AccountCode: domain.AccountReceivable, Side: domain.Debit, Amount: dec("575")},
		{AccountCode: domain.AccountTicketRevenue, Side: domain.Credit, Amount: dec("500")},
	}, nil).Once()

	check, err := svc.VerifyDoubleEntry(suite.ctx, "ref-bad")
	suite.Require().NoError(err)
	suite.False(check.Balanced)
	suite.True(check.Difference.Equal(dec("75")))
	suite.Equal(2, check.EntryCount)

	reader.On("FindEntriesByReference", mock.Anything, "ref-down").Return(nil, errors.New("connection reset")).Once()
	_, err = svc.VerifyDoubleEntry(suite.ctx, "ref-down")
	suite.Error(err)
	reader.AssertExpectations(suite.T())
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
