package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
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

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournalsByWorkplace(ctx context.Context, workplaceID string, status *domain.JournalStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, workplaceID, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		token = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, journal, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) ReplaceJournalLines(ctx context.Context, journal domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, journal, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournalWorkflow(ctx context.Context, journal domain.JournalEntry, expectedStatus domain.JournalStatus) error {
	args := m.Called(ctx, journal, expectedStatus)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteJournal(ctx context.Context, journalID string) error {
	args := m.Called(ctx, journalID)
	return args.Error(0)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalLine, error) {
	args := m.Called(ctx, journalIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.JournalLine), args.Error(1)
}

// --- Mock AccountReader ---
type MockAccountReader struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountReader)(nil)

func (m *MockAccountReader) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindAccountByCode(ctx context.Context, workplaceID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, workplaceID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountReader) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListAccounts(ctx context.Context, workplaceID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, workplaceID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReader) ListAllAccounts(ctx context.Context, workplaceID string) ([]domain.Account, error) {
	args := m.Called(ctx, workplaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountReader) HasChildAccounts(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

// --- Mock SequenceRepository ---
type MockSequenceRepository struct {
	mock.Mock
}

var _ portsrepo.SequenceRepository = (*MockSequenceRepository)(nil)

func (m *MockSequenceRepository) NextSequence(ctx context.Context, workplaceID string, entityType string, date time.Time) (int64, error) {
	args := m.Called(ctx, workplaceID, entityType, date)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

func (m *MockPeriodService) CreatePeriod(ctx context.Context, workplaceID string, req dto.CreatePeriodRequest, creatorUserID string) (*domain.FinancialPeriod, error) {
	args := m.Called(ctx, workplaceID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialPeriod), args.Error(1)
}

func (m *MockPeriodService) GetPeriodByID(ctx context.Context, workplaceID string, periodID string, requestingUserID string) (*domain.FinancialPeriod, error) {
	args := m.Called(ctx, workplaceID, periodID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialPeriod), args.Error(1)
}

func (m *MockPeriodService) ListPeriods(ctx context.Context, workplaceID string, requestingUserID string) ([]domain.FinancialPeriod, error) {
	args := m.Called(ctx, workplaceID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialPeriod), args.Error(1)
}

func (m *MockPeriodService) ClosePeriod(ctx context.Context, workplaceID string, periodID string, requestingUserID string) error {
	args := m.Called(ctx, workplaceID, periodID, requestingUserID)
	return args.Error(0)
}

func (m *MockPeriodService) ReopenPeriod(ctx context.Context, workplaceID string, periodID string, requestingUserID string) error {
	args := m.Called(ctx, workplaceID, periodID, requestingUserID)
	return args.Error(0)
}

func (m *MockPeriodService) LockPeriod(ctx context.Context, workplaceID string, periodID string, requestingUserID string) error {
	args := m.Called(ctx, workplaceID, periodID, requestingUserID)
	return args.Error(0)
}

func (m *MockPeriodService) FindOpenPeriodFor(ctx context.Context, workplaceID string, date time.Time) (*domain.FinancialPeriod, error) {
	args := m.Called(ctx, workplaceID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialPeriod), args.Error(1)
}

// --- Mock ApprovalEngine ---
type MockApprovalEngine struct {
	mock.Mock
}

var _ portssvc.ApprovalSvcFacade = (*MockApprovalEngine)(nil)

func (m *MockApprovalEngine) Submit(ctx context.Context, workplaceID string, entityType domain.ApprovalEntityType, entityID string, amount decimal.Decimal, requesterID string, priority int) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, workplaceID, entityType, entityID, amount, requesterID, priority)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalEngine) Approve(ctx context.Context, workplaceID string, requestID string, actorID string, comment string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, workplaceID, requestID, actorID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalEngine) Reject(ctx context.Context, workplaceID string, requestID string, actorID string, reason string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, workplaceID, requestID, actorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalEngine) Escalate(ctx context.Context, workplaceID string, requestID string, actorID string, targetUserID string, reason string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, workplaceID, requestID, actorID, targetUserID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalEngine) Reassign(ctx context.Context, workplaceID string, requestID string, actorID string, comment string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, workplaceID, requestID, actorID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalEngine) Cancel(ctx context.Context, workplaceID string, requestID string, actorID string, comment string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, workplaceID, requestID, actorID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalEngine) BulkApprove(ctx context.Context, workplaceID string, requestIDs []string, actorID string, comment string) []domain.BulkActionResult {
	args := m.Called(ctx, workplaceID, requestIDs, actorID, comment)
	return args.Get(0).([]domain.BulkActionResult)
}

func (m *MockApprovalEngine) BulkReject(ctx context.Context, workplaceID string, requestIDs []string, actorID string, reason string) []domain.BulkActionResult {
	args := m.Called(ctx, workplaceID, requestIDs, actorID, reason)
	return args.Get(0).([]domain.BulkActionResult)
}

func (m *MockApprovalEngine) GetRequestByID(ctx context.Context, workplaceID string, requestID string, requestingUserID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, workplaceID, requestID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalEngine) GetPendingRequestForEntity(ctx context.Context, entityType domain.ApprovalEntityType, entityID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalEngine) ListApprovals(ctx context.Context, workplaceID string, params dto.ListApprovalsParams, requestingUserID string) ([]domain.ApprovalRequest, error) {
	args := m.Called(ctx, workplaceID, params, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalEngine) GetHistory(ctx context.Context, workplaceID string, requestID string, requestingUserID string) ([]domain.ApprovalHistory, error) {
	args := m.Called(ctx, workplaceID, requestID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalHistory), args.Error(1)
}

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

func (m *MockPostingService) PostJournal(ctx context.Context, workplaceID string, journalID string, posterID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, workplaceID, journalID, posterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Test Suite Setup ---
type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountRepo  *MockAccountReader
	mockSequenceRepo *MockSequenceRepository
	mockPeriodSvc    *MockPeriodService
	mockApprovalSvc  *MockApprovalEngine
	mockPostingSvc   *MockPostingService
	mockWorkplaceSvc *MockWorkplaceAuthorizer
	service          portssvc.JournalSvcFacade

	workplaceID    string
	userID         string
	approverID     string
	openPeriod     *domain.FinancialPeriod
	cashAccount    domain.Account
	revenueAccount domain.Account
	journalDate    time.Time
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountReader)
	suite.mockSequenceRepo = new(MockSequenceRepository)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.mockApprovalSvc = new(MockApprovalEngine)
	suite.mockPostingSvc = new(MockPostingService)
	suite.mockWorkplaceSvc = new(MockWorkplaceAuthorizer)
	suite.service = services.NewJournalService(
		suite.mockJournalRepo,
		suite.mockAccountRepo,
		suite.mockSequenceRepo,
		suite.mockPeriodSvc,
		suite.mockApprovalSvc,
		suite.mockPostingSvc,
		suite.mockWorkplaceSvc,
	)

	suite.workplaceID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.approverID = uuid.NewString()
	suite.journalDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	suite.openPeriod = &domain.FinancialPeriod{
		PeriodID:    uuid.NewString(),
		WorkplaceID: suite.workplaceID,
		Status:      domain.PeriodOpen,
	}
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		WorkplaceID: suite.workplaceID,
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		WorkplaceID: suite.workplaceID,
		AccountType: domain.Revenue,
		IsActive:    true,
	}
}

func (suite *JournalServiceTestSuite) balancedRequest() dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		JournalDate: suite.journalDate,
		Narration:   "Cash sale",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *JournalServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
}

func (suite *JournalServiceTestSuite) draftJournal() *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalID:   uuid.NewString(),
		WorkplaceID: suite.workplaceID,
		JournalType: domain.JournalTypeManual,
		JournalDate: suite.journalDate,
		Status:      domain.JournalDraft,
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
		PeriodID:    suite.openPeriod.PeriodID,
		AuditFields: domain.AuditFields{CreatedBy: suite.userID},
	}
}

// --- CreateJournal ---

func (suite *JournalServiceTestSuite) TestCreateJournal_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, req.JournalDate).Return(suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()
	suite.mockSequenceRepo.On("NextSequence", ctx, suite.workplaceID, "JOURNAL", req.JournalDate).Return(int64(7), nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()

	journal, err := suite.service.CreateJournal(ctx, suite.workplaceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(journal)
	suite.Equal(domain.JournalDraft, journal.Status)
	suite.Equal("JV-20260315-0007", journal.JournalNumber)
	suite.Equal(suite.openPeriod.PeriodID, journal.PeriodID)
	suite.True(journal.TotalDebit.Equal(decimal.NewFromInt(100)))
	suite.True(journal.TotalCredit.Equal(decimal.NewFromInt(100)))
	suite.Len(journal.Lines, 2)
	suite.Equal(1, journal.Lines[0].LineNo)
	suite.Equal(2, journal.Lines[1].LineNo)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateJournal_Unbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Credit = decimal.NewFromInt(99)

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, req.JournalDate).Return(suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(suite.accountsMap(), nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.workplaceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_BothSidesOnOneLine() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].Credit = decimal.NewFromInt(50)

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, req.JournalDate).Return(suite.openPeriod, nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.workplaceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrLineSideInvalid)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	inactive := suite.revenueAccount
	inactive.IsActive = false
	accounts := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		inactive.AccountID:          inactive,
	}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, req.JournalDate).Return(suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.workplaceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInactiveAccount)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_GroupAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	group := suite.revenueAccount
	group.IsGroup = true
	accounts := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		group.AccountID:             group,
	}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, req.JournalDate).Return(suite.openPeriod, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).Return(accounts, nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.workplaceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrGroupAccountPosting)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_NoOpenPeriod() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, req.JournalDate).Return(nil, services.ErrNoOpenPeriod).Once()

	_, err := suite.service.CreateJournal(ctx, suite.workplaceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoOpenPeriod)
}

func (suite *JournalServiceTestSuite) TestCreateJournal_ReversalTypeRejected() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.JournalType = string(domain.JournalTypeReversal)

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.workplaceID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockPeriodSvc.AssertNotCalled(suite.T(), "FindOpenPeriodFor", mock.Anything, mock.Anything, mock.Anything)
}

// --- Submit ---

func (suite *JournalServiceTestSuite) TestSubmitJournal_Success() {
	ctx := context.Background()
	journal := suite.draftJournal()

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, journal.JournalDate).Return(suite.openPeriod, nil).Once()
	suite.mockApprovalSvc.On("Submit", ctx, suite.workplaceID, domain.EntityJournalEntry, journal.JournalID, journal.TotalDebit, suite.userID, 2).
		Return(&domain.ApprovalRequest{RequestID: uuid.NewString()}, nil).Once()
	suite.mockJournalRepo.On("UpdateJournalWorkflow", ctx, mock.AnythingOfType("domain.JournalEntry"), domain.JournalDraft).Return(nil).Once()

	submitted, err := suite.service.SubmitJournal(ctx, suite.workplaceID, journal.JournalID, dto.SubmitJournalRequest{Priority: 2}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.JournalPendingApproval, submitted.Status)
	suite.Require().NotNil(submitted.SubmittedBy)
	suite.Equal(suite.userID, *submitted.SubmittedBy)
	suite.mockApprovalSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestSubmitJournal_NotDraft() {
	ctx := context.Background()
	journal := suite.draftJournal()
	journal.Status = domain.JournalPosted

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	_, err := suite.service.SubmitJournal(ctx, suite.workplaceID, journal.JournalID, dto.SubmitJournalRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidJournalState)
	suite.mockApprovalSvc.AssertNotCalled(suite.T(), "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Approve / Reject / Resubmit ---

func (suite *JournalServiceTestSuite) TestApproveJournal_Success() {
	ctx := context.Background()
	journal := suite.draftJournal()
	journal.Status = domain.JournalPendingApproval
	request := &domain.ApprovalRequest{RequestID: uuid.NewString(), Status: domain.ApprovalPending}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockApprovalSvc.On("GetPendingRequestForEntity", ctx, domain.EntityJournalEntry, journal.JournalID).Return(request, nil).Once()
	suite.mockApprovalSvc.On("Approve", ctx, suite.workplaceID, request.RequestID, suite.approverID, "ok").Return(request, nil).Once()
	suite.mockJournalRepo.On("UpdateJournalWorkflow", ctx, mock.AnythingOfType("domain.JournalEntry"), domain.JournalPendingApproval).Return(nil).Once()

	approved, err := suite.service.ApproveJournal(ctx, suite.workplaceID, journal.JournalID, dto.ApproveJournalRequest{Comment: "ok"}, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.JournalApproved, approved.Status)
	suite.mockPostingSvc.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestApproveJournal_AutoPost() {
	ctx := context.Background()
	journal := suite.draftJournal()
	journal.Status = domain.JournalPendingApproval
	request := &domain.ApprovalRequest{RequestID: uuid.NewString(), Status: domain.ApprovalPending}
	posted := suite.draftJournal()
	posted.Status = domain.JournalPosted

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockApprovalSvc.On("GetPendingRequestForEntity", ctx, domain.EntityJournalEntry, journal.JournalID).Return(request, nil).Once()
	suite.mockApprovalSvc.On("Approve", ctx, suite.workplaceID, request.RequestID, suite.approverID, "").Return(request, nil).Once()
	suite.mockJournalRepo.On("UpdateJournalWorkflow", ctx, mock.AnythingOfType("domain.JournalEntry"), domain.JournalPendingApproval).Return(nil).Once()
	suite.mockPostingSvc.On("PostJournal", ctx, suite.workplaceID, journal.JournalID, suite.approverID).Return(posted, nil).Once()

	result, err := suite.service.ApproveJournal(ctx, suite.workplaceID, journal.JournalID, dto.ApproveJournalRequest{AutoPost: true}, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.JournalPosted, result.Status)
	suite.mockPostingSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestApproveJournal_EngineRejectsSelfApproval() {
	ctx := context.Background()
	journal := suite.draftJournal()
	journal.Status = domain.JournalPendingApproval
	request := &domain.ApprovalRequest{RequestID: uuid.NewString(), Status: domain.ApprovalPending}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockApprovalSvc.On("GetPendingRequestForEntity", ctx, domain.EntityJournalEntry, journal.JournalID).Return(request, nil).Once()
	suite.mockApprovalSvc.On("Approve", ctx, suite.workplaceID, request.RequestID, suite.userID, "").Return(nil, services.ErrMakerCheckerViolation).Once()

	_, err := suite.service.ApproveJournal(ctx, suite.workplaceID, journal.JournalID, dto.ApproveJournalRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.True(services.IsMakerCheckerViolation(err))
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "UpdateJournalWorkflow", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestRejectJournal_SetsReason() {
	ctx := context.Background()
	journal := suite.draftJournal()
	journal.Status = domain.JournalPendingApproval
	request := &domain.ApprovalRequest{RequestID: uuid.NewString(), Status: domain.ApprovalPending}

	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockApprovalSvc.On("GetPendingRequestForEntity", ctx, domain.EntityJournalEntry, journal.JournalID).Return(request, nil).Once()
	suite.mockApprovalSvc.On("Reject", ctx, suite.workplaceID, request.RequestID, suite.approverID, "wrong account").Return(request, nil).Once()
	suite.mockJournalRepo.On("UpdateJournalWorkflow", ctx, mock.AnythingOfType("domain.JournalEntry"), domain.JournalPendingApproval).Return(nil).Once()

	rejected, err := suite.service.RejectJournal(ctx, suite.workplaceID, journal.JournalID, dto.RejectJournalRequest{Reason: "wrong account"}, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.JournalRejected, rejected.Status)
	suite.Equal("wrong account", rejected.RejectionReason)
}

func (suite *JournalServiceTestSuite) TestResubmitJournal_Success() {
	ctx := context.Background()
	journal := suite.draftJournal()
	journal.Status = domain.JournalRejected
	journal.RejectionReason = "wrong account"

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, journal.JournalDate).Return(suite.openPeriod, nil).Once()
	suite.mockApprovalSvc.On("Submit", ctx, suite.workplaceID, domain.EntityJournalEntry, journal.JournalID, journal.TotalDebit, suite.userID, 0).
		Return(&domain.ApprovalRequest{RequestID: uuid.NewString()}, nil).Once()
	suite.mockJournalRepo.On("UpdateJournalWorkflow", ctx, mock.AnythingOfType("domain.JournalEntry"), domain.JournalRejected).Return(nil).Once()

	resubmitted, err := suite.service.ResubmitJournal(ctx, suite.workplaceID, journal.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.JournalPendingApproval, resubmitted.Status)
	suite.Empty(resubmitted.RejectionReason)
}

// --- Cancel / Delete ---

func (suite *JournalServiceTestSuite) TestCancelJournal_PendingWithdrawsApproval() {
	ctx := context.Background()
	journal := suite.draftJournal()
	journal.Status = domain.JournalPendingApproval
	request := &domain.ApprovalRequest{RequestID: uuid.NewString(), Status: domain.ApprovalPending}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockApprovalSvc.On("GetPendingRequestForEntity", ctx, domain.EntityJournalEntry, journal.JournalID).Return(request, nil).Once()
	suite.mockApprovalSvc.On("Cancel", ctx, suite.workplaceID, request.RequestID, suite.userID, mock.AnythingOfType("string")).Return(request, nil).Once()
	suite.mockJournalRepo.On("UpdateJournalWorkflow", ctx, mock.AnythingOfType("domain.JournalEntry"), domain.JournalPendingApproval).Return(nil).Once()

	err := suite.service.CancelJournal(ctx, suite.workplaceID, journal.JournalID, suite.userID)

	suite.Require().NoError(err)
	suite.mockApprovalSvc.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCancelJournal_PostedFails() {
	ctx := context.Background()
	journal := suite.draftJournal()
	journal.Status = domain.JournalPosted

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	err := suite.service.CancelJournal(ctx, suite.workplaceID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidJournalState)
}

func (suite *JournalServiceTestSuite) TestDeleteJournal_OnlyDraft() {
	ctx := context.Background()
	journal := suite.draftJournal()
	journal.Status = domain.JournalPendingApproval

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleMember).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	err := suite.service.DeleteJournal(ctx, suite.workplaceID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidJournalState)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteJournal", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestGetJournalByID_WrongWorkplace() {
	ctx := context.Background()
	journal := suite.draftJournal()
	journal.WorkplaceID = uuid.NewString()

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	_, err := suite.service.GetJournalByID(ctx, suite.workplaceID, journal.JournalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Test Suite ---
func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
