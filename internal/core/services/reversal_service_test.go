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
	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/core/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
)

type ReversalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockLedgerRepo   *MockLedgerPoster
	mockSequenceRepo *MockSequenceRepository
	mockPeriodSvc    *MockPeriodService
	mockWorkplaceSvc *MockWorkplaceAuthorizer
	service          portssvc.ReversalSvcFacade

	workplaceID  string
	userID       string
	openPeriod   *domain.FinancialPeriod
	reversalDate time.Time
}

func (suite *ReversalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockLedgerRepo = new(MockLedgerPoster)
	suite.mockSequenceRepo = new(MockSequenceRepository)
	suite.mockPeriodSvc = new(MockPeriodService)
	suite.mockWorkplaceSvc = new(MockWorkplaceAuthorizer)
	suite.service = services.NewReversalService(
		suite.mockJournalRepo,
		suite.mockLedgerRepo,
		suite.mockSequenceRepo,
		suite.mockPeriodSvc,
		suite.mockWorkplaceSvc,
	)

	suite.workplaceID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.reversalDate = time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	suite.openPeriod = &domain.FinancialPeriod{
		PeriodID:    uuid.NewString(),
		WorkplaceID: suite.workplaceID,
		Status:      domain.PeriodOpen,
	}
}

func (suite *ReversalServiceTestSuite) postedJournal() *domain.JournalEntry {
	return &domain.JournalEntry{
		JournalID:     uuid.NewString(),
		WorkplaceID:   suite.workplaceID,
		JournalNumber: "JV-20260315-0007",
		JournalType:   domain.JournalTypeManual,
		JournalDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:        domain.JournalPosted,
		TotalDebit:    decimal.NewFromInt(250),
		TotalCredit:   decimal.NewFromInt(250),
	}
}

func (suite *ReversalServiceTestSuite) originalLines(journalID string) []domain.JournalLine {
	return []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: uuid.NewString(), LineNo: 1, Debit: decimal.NewFromInt(250)},
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: uuid.NewString(), LineNo: 2, Credit: decimal.NewFromInt(250)},
	}
}

func (suite *ReversalServiceTestSuite) TestReverseJournal_Success() {
	ctx := context.Background()
	original := suite.postedJournal()
	lines := suite.originalLines(original.JournalID)
	req := dto.ReverseJournalRequest{ReversalDate: suite.reversalDate, Reason: "duplicate entry"}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleApprover).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, original.JournalID).Return(original, nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, req.ReversalDate).Return(suite.openPeriod, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, original.JournalID).Return(lines, nil).Once()
	suite.mockSequenceRepo.On("NextSequence", ctx, suite.workplaceID, "JOURNAL", req.ReversalDate).Return(int64(12), nil).Once()

	var savedReversal domain.JournalEntry
	var savedLines []domain.JournalLine
	suite.mockLedgerRepo.On("SaveAndPostReversal", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine"), original.JournalID, suite.userID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			savedReversal = args.Get(1).(domain.JournalEntry)
			savedLines = args.Get(2).([]domain.JournalLine)
		}).
		Return(nil).Once()

	reversal, err := suite.service.ReverseJournal(ctx, suite.workplaceID, original.JournalID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)

	// The reversal goes to the repository pre-approved; posting happens inside
	// the same transaction.
	suite.Equal(domain.JournalApproved, savedReversal.Status)
	suite.Equal(domain.JournalTypeReversal, savedReversal.JournalType)
	suite.Equal("JV-20260402-0012", savedReversal.JournalNumber)
	suite.Require().NotNil(savedReversal.ReversalOfID)
	suite.Equal(original.JournalID, *savedReversal.ReversalOfID)
	suite.Contains(savedReversal.Narration, original.JournalNumber)
	suite.Contains(savedReversal.Narration, "duplicate entry")

	// Sides swap, amounts stay.
	suite.Require().Len(savedLines, 2)
	suite.True(savedLines[0].Debit.Equal(lines[0].Credit))
	suite.True(savedLines[0].Credit.Equal(lines[0].Debit))
	suite.True(savedLines[1].Debit.Equal(lines[1].Credit))
	suite.True(savedLines[1].Credit.Equal(lines[1].Debit))
	suite.Equal(lines[0].AccountID, savedLines[0].AccountID)
	suite.Equal(lines[1].AccountID, savedLines[1].AccountID)

	suite.Equal(domain.JournalPosted, reversal.Status)
	suite.Require().NotNil(reversal.PostedBy)
	suite.Equal(suite.userID, *reversal.PostedBy)
	suite.Len(reversal.Lines, 2)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ReversalServiceTestSuite) TestReverseJournal_NotPosted() {
	ctx := context.Background()
	original := suite.postedJournal()
	original.Status = domain.JournalApproved
	req := dto.ReverseJournalRequest{ReversalDate: suite.reversalDate, Reason: "duplicate entry"}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleApprover).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, original.JournalID).Return(original, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, suite.workplaceID, original.JournalID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalNotPosted)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveAndPostReversal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReversalServiceTestSuite) TestReverseJournal_AlreadyReversed() {
	ctx := context.Background()
	original := suite.postedJournal()
	original.IsReversed = true
	req := dto.ReverseJournalRequest{ReversalDate: suite.reversalDate, Reason: "duplicate entry"}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleApprover).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, original.JournalID).Return(original, nil).Once()

	_, err := suite.service.ReverseJournal(ctx, suite.workplaceID, original.JournalID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyReversed)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ReversalServiceTestSuite) TestReverseJournal_NoOpenPeriod() {
	ctx := context.Background()
	original := suite.postedJournal()
	req := dto.ReverseJournalRequest{ReversalDate: suite.reversalDate, Reason: "duplicate entry"}

	suite.mockWorkplaceSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.workplaceID, domain.RoleApprover).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, original.JournalID).Return(original, nil).Once()
	suite.mockPeriodSvc.On("FindOpenPeriodFor", ctx, suite.workplaceID, req.ReversalDate).Return(nil, services.ErrNoOpenPeriod).Once()

	_, err := suite.service.ReverseJournal(ctx, suite.workplaceID, original.JournalID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNoOpenPeriod)
	suite.mockSequenceRepo.AssertNotCalled(suite.T(), "NextSequence", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestReversalService(t *testing.T) {
	suite.Run(t, new(ReversalServiceTestSuite))
}
