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
)

// --- Mock JournalReader ---
type MockJournalReader struct {
	mock.Mock
}

var _ portsrepo.JournalReader = (*MockJournalReader)(nil)

func (m *MockJournalReader) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalReader) ListJournalsByWorkplace(ctx context.Context, workplaceID string, status *domain.JournalStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
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

// --- Mock LedgerPoster ---
type MockLedgerPoster struct {
	mock.Mock
}

var _ portsrepo.LedgerPoster = (*MockLedgerPoster)(nil)

func (m *MockLedgerPoster) PostJournal(ctx context.Context, journalID string, postedBy string, now time.Time) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalID, postedBy, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerPoster) SaveAndPostReversal(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalLine, originalJournalID string, postedBy string, now time.Time) error {
	args := m.Called(ctx, reversal, lines, originalJournalID, postedBy, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalReader
	mockLedgerRepo   *MockLedgerPoster
	mockPeriodSvc    *MockPeriodService
	mockWorkplaceSvc *MockWorkplaceAuthorizer
	service          portssvc.PostingSvcFacade

	workplaceID string
	posterID    string
	openPeriod  *domain.FinancialPeriod
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalReader)
	suite.mockLedgerRepo = new(MockLedgerPoster)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.mockWorkplaceSvc = new(MockWorkplaceAuthorizer)
	suite.service = services.NewPostingService(
		suite.mockJournalRepo,
		suite.mockLedgerRepo,
		suite.mockPeriodSvc,
		suite.mockWorkplaceSvc,
	)

	suite.workplaceID = uuid.NewString()
	suite.posterID = uuid.NewString()
	suite.openPeriod = &domain.FinancialPeriod{
		PeriodID:    uuid.NewString(),
		WorkplaceID: suite.workplaceID,
		Status:      domain.PeriodOpen,
	}
}

func (suite *PostingServiceTestSuite) approvedJournal() *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalID:   uuid.NewString(),
		WorkplaceID: suite.workplaceID,
		JournalDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:      domain.JournalApproved,
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
	}
}

func (suite *PostingServiceTestSuite) TestPostJournal_Success() {
	ctx := context.Background()
	journal := suite.approvedJournal()
	posted := *journal
	posted.Status = domain.JournalPosted
	posted.PostedBy = &suite.posterID

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.posterID, suite.workplaceID, domain.RoleApprover).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, journal.JournalDate).Return(suite.openPeriod, nil).Once()
	suite.mockLedgerRepo.On("PostJournal", ctx, journal.JournalID, suite.posterID, mock.AnythingOfType("time.Time")).Return(&posted, nil).Once()

	result, err := suite.service.PostJournal(ctx, suite.workplaceID, journal.JournalID, suite.posterID)

	suite.Require().NoError(err)
	suite.Equal(domain.JournalPosted, result.Status)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostJournal_RequiresApproverRole() {
	ctx := context.Background()
	journalID := uuid.NewString()

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.posterID, suite.workplaceID, domain.RoleApprover).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.PostJournal(ctx, suite.workplaceID, journalID, suite.posterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindJournalByID", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostJournal_NotApproved() {
	ctx := context.Background()
	journal := suite.approvedJournal()
	journal.Status = domain.JournalPendingApproval

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.posterID, suite.workplaceID, domain.RoleApprover).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	_, err := suite.service.PostJournal(ctx, suite.workplaceID, journal.JournalID, suite.posterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalNotApproved)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostJournal_WrongWorkplace() {
	ctx := context.Background()
	journal := suite.approvedJournal()
	journal.WorkplaceID = uuid.NewString()

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.posterID, suite.workplaceID, domain.RoleApprover).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()

	_, err := suite.service.PostJournal(ctx, suite.workplaceID, journal.JournalID, suite.posterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PostingServiceTestSuite) TestPostJournal_PeriodClosed() {
	ctx := context.Background()
	journal := suite.approvedJournal()

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.posterID, suite.workplaceID, domain.RoleApprover).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journal.JournalID).Return(journal, nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, journal.JournalDate).Return(nil, services.ErrNoOpenPeriod).Once()

	_, err := suite.service.PostJournal(ctx, suite.workplaceID, journal.JournalID, suite.posterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoOpenPeriod)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestPostingService(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
