package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/core/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, workplaceID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, workplaceID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, workplaceID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAllAccounts(ctx context.Context, workplaceID string) ([]domain.Account, error) {
	args := m.Called(ctx, workplaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) HasChildAccounts(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock LedgerReader ---
type MockLedgerReader struct {
	mock.Mock
}

var _ portsrepo.LedgerReader = (*MockLedgerReader)(nil)

func (m *MockLedgerReader) ListEntriesByAccount(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error) {
	args := m.Called(ctx, workplaceID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		token = &tokenVal
	}
	return args.Get(0).([]domain.GeneralLedgerEntry), token, args.Error(2)
}

func (m *MockLedgerReader) GetAccountPeriodTotals(ctx context.Context, workplaceID, accountID, periodID string) (*domain.AccountPeriodTotals, error) {
	args := m.Called(ctx, workplaceID, accountID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountPeriodTotals), args.Error(1)
}

func (m *MockLedgerReader) GetTrialBalance(ctx context.Context, workplaceID string) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, workplaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockLedgerReader) CountEntriesByAccount(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite Setup ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockLedgerRepo   *MockLedgerReader
	mockWorkplaceSvc *MockWorkplaceAuthorizer
	service          portssvc.AccountSvcFacade

	workplaceID string
	adminID     string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockLedgerRepo = new(MockLedgerReader)
	suite.mockWorkplaceSvc = new(MockWorkplaceAuthorizer)
	suite.service = services.NewAccountService(suite.mockAccountRepo, suite.mockLedgerRepo, suite.mockWorkplaceSvc)

	suite.workplaceID = uuid.NewString()
	suite.adminID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) account(code string) *domain.Account {
	return &domain.Account{
		AccountID:   uuid.NewString(),
		WorkplaceID: suite.workplaceID,
		Code:        code,
		Name:        "Account " + code,
		AccountType: domain.Asset,
		IsActive:    true,
		Balance:     decimal.Zero,
	}
}

// --- CreateAccount ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "ASSET"}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.workplaceID, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.workplaceID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal("1000", account.Code)
	suite.Equal(domain.Asset, account.AccountType)
	suite.True(account.IsActive)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "ASSET"}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.workplaceID, "1000").Return(suite.account("1000"), nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.workplaceID, req, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "WEIRD"}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleAdmin).Return(nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.workplaceID, req, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentMustBeGroup() {
	ctx := context.Background()
	parent := suite.account("1000")
	parent.IsGroup = false
	req := dto.CreateAccountRequest{Code: "1001", Name: "Petty cash", AccountType: "ASSET", ParentAccountID: parent.AccountID}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByCode", ctx, suite.workplaceID, "1001").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, parent.AccountID).Return(parent, nil).Once()

	_, err := suite.service.CreateAccount(ctx, suite.workplaceID, req, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrParentNotGroup)
}

// --- DeleteAccount guards ---

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	ctx := context.Background()
	account := suite.account("1000")

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockLedgerRepo.On("CountEntriesByAccount", ctx, account.AccountID).Return(int64(0), nil).Once()
	suite.mockAccountRepo.On("HasChildAccounts", ctx, account.AccountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("DeleteAccount", ctx, account.AccountID).Return(nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.workplaceID, account.AccountID, suite.adminID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_NonZeroBalance() {
	ctx := context.Background()
	account := suite.account("1000")
	account.Balance = decimal.NewFromInt(500)

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.workplaceID, account.AccountID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountHasBalance)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HasLedgerEntries() {
	ctx := context.Background()
	account := suite.account("1000")

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockLedgerRepo.On("CountEntriesByAccount", ctx, account.AccountID).Return(int64(12), nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.workplaceID, account.AccountID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountHasEntries)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_HasChildren() {
	ctx := context.Background()
	account := suite.account("1000")
	account.IsGroup = true

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()
	suite.mockLedgerRepo.On("CountEntriesByAccount", ctx, account.AccountID).Return(int64(0), nil).Once()
	suite.mockAccountRepo.On("HasChildAccounts", ctx, account.AccountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.workplaceID, account.AccountID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountHasChildren)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_SystemAccount() {
	ctx := context.Background()
	account := suite.account("9999")
	account.IsSystem = true

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleAdmin).Return(nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(account, nil).Once()

	err := suite.service.DeleteAccount(ctx, suite.workplaceID, account.AccountID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrSystemAccount)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "CountEntriesByAccount", mock.Anything, mock.Anything)
}

// --- AccountTree ---

func (suite *AccountServiceTestSuite) TestAccountTree_DepthFirstCodeOrder() {
	ctx := context.Background()
	root := *suite.account("1000")
	root.IsGroup = true
	childB := *suite.account("1200")
	childB.ParentAccountID = root.AccountID
	childA := *suite.account("1100")
	childA.ParentAccountID = root.AccountID
	other := *suite.account("2000")

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAccountRepo.On("ListAllAccounts", ctx, suite.workplaceID).
		Return([]domain.Account{root, childB, childA, other}, nil).Once()

	tree, err := suite.service.AccountTree(ctx, suite.workplaceID, suite.adminID)
	suite.Require().NoError(err)

	var codes []string
	for node := range tree {
		codes = append(codes, node.Code)
	}
	suite.Equal([]string{"1000", "1100", "1200", "2000"}, codes)

	// The sequence restarts from the top on a second range.
	var first string
	for node := range tree {
		first = node.Code
		break
	}
	suite.Equal("1000", first)
}

func (suite *AccountServiceTestSuite) TestAccountTree_OrphanSurfacesAtRoot() {
	ctx := context.Background()
	orphan := *suite.account("3000")
	orphan.ParentAccountID = uuid.NewString() // parent not in the workplace snapshot

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.workplaceID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAccountRepo.On("ListAllAccounts", ctx, suite.workplaceID).
		Return([]domain.Account{orphan}, nil).Once()

	tree, err := suite.service.AccountTree(ctx, suite.workplaceID, suite.adminID)
	suite.Require().NoError(err)

	var codes []string
	for node := range tree {
		codes = append(codes, node.Code)
	}
	suite.Equal([]string{"3000"}, codes)
}

// --- Run Test Suite ---
func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
