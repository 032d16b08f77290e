package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/travel_ledger/internal/apperrors"
	"github.com/SscSPs/travel_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/travel_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_ledger/internal/core/ports/services"
	"github.com/SscSPs/travel_ledger/internal/core/services"
	"github.com/SscSPs/travel_ledger/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountReader interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	store    *memory.Store
	service  portssvc.ChartOfAccountsSvcFacade
	seeder   portssvc.ChartOfAccountsSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.store = memory.NewStore()
	audit := services.NewAuditService()
	suite.service = services.NewChartOfAccountsService(suite.mockRepo, suite.store, audit)
	suite.seeder = services.NewChartOfAccountsService(suite.store, suite.store, audit)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestGetAccount_Success() {
	ctx := context.Background()
	expected := domain.NewAccount(domain.AccountReceivable, "Accounts Receivable", domain.Asset)
	suite.mockRepo.On("FindAccountByCode", ctx, domain.AccountReceivable).Return(&expected, nil).Once()

	acc, err := suite.service.GetAccount(ctx, domain.AccountReceivable)

	suite.Require().NoError(err)
	suite.Equal(domain.Debit, acc.NormalBalance)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccount_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "9999").Return(nil, apperrors.NewNotFoundError("account 9999 not found")).Once()

	acc, err := suite.service.GetAccount(ctx, "9999")

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_NilBecomesEmpty() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx)

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}

func (suite *AccountServiceTestSuite) TestListAccounts_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx).Return(nil, assert.AnError).Once()

	_, err := suite.service.ListAccounts(ctx)

	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestSeedDefaults_Idempotent() {
	ctx := context.Background()

	inserted, err := suite.seeder.SeedDefaults(ctx)
	suite.Require().NoError(err)
	suite.Equal(len(domain.DefaultChart()), inserted)

	inserted, err = suite.seeder.SeedDefaults(ctx)
	suite.Require().NoError(err)
	suite.Equal(0, inserted)

	accounts, err := suite.seeder.ListAccounts(ctx)
	suite.Require().NoError(err)
	suite.Len(accounts, len(domain.DefaultChart()))
	suite.Equal(domain.AccountCash, accounts[0].Code)

	seeded := 0
	for _, entry := range suite.store.AuditLog() {
		if entry.Action == domain.ActionAccountSeeded {
			seeded++
			suite.Equal(domain.SystemActor, entry.ActorID)
		}
	}
	suite.Equal(len(domain.DefaultChart()), seeded)
}

func (suite *AccountServiceTestSuite) TestSeedAccounts_TypeChangeRequiresMigration() {
	ctx := context.Background()
	_, err := suite.seeder.SeedDefaults(ctx)
	suite.Require().NoError(err)

	_, err = suite.seeder.SeedAccounts(ctx, []domain.Account{
		domain.NewAccount("6100", "Bank Charges", domain.Expense),
		domain.NewAccount(domain.AccountCash, "Cash", domain.Liability),
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.seeder.GetAccount(ctx, "6100")
	suite.ErrorIs(err, apperrors.ErrNotFound, "a rejected seed run must not insert anything")

	cash, err := suite.seeder.GetAccount(ctx, domain.AccountCash)
	suite.Require().NoError(err)
	suite.Equal(domain.Asset, cash.Type)
}

func (suite *AccountServiceTestSuite) TestSeedAccounts_RejectsUnknownType() {
	_, err := suite.seeder.SeedAccounts(context.Background(), []domain.Account{{Code: "7000", Name: "Odd", Type: "income"}})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
