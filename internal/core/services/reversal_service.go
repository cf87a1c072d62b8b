package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
	"github.com/traxel-labs/erp_ledger_app/internal/middleware"
)

var (
	// ErrJournalNotPosted is returned when reversal is attempted on a journal
	// that never reached the ledger.
	ErrJournalNotPosted = fmt.Errorf("%w: only POSTED journals can be reversed", ErrInvalidJournalState)

	// ErrAlreadyReversed is returned when the journal has a reversal already.
	ErrAlreadyReversed = fmt.Errorf("%w: journal has already been reversed", apperrors.ErrConflict)
)

// reversalService corrects posted journals by deriving a debit/credit-swapped
// counter-entry. Reversals skip the approval queue: the original entry already
// passed it, and the reversal changes nothing it did not authorize.
type reversalService struct {
	journalRepo  portsrepo.JournalRepositoryFacade
	ledgerRepo   portsrepo.LedgerPoster
	sequenceRepo portsrepo.SequenceRepository
	periodSvc    portssvc.PeriodSvcFacade
	workplaceSvc portssvc.WorkplaceAuthorizerSvc
	now          func() time.Time
}

// NewReversalService creates a new ReversalService.
func NewReversalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	ledgerRepo portsrepo.LedgerPoster,
	sequenceRepo portsrepo.SequenceRepository,
	periodSvc portssvc.PeriodSvcFacade,
	workplaceSvc portssvc.WorkplaceAuthorizerSvc,
) portssvc.ReversalSvcFacade {
	return &reversalService{
		journalRepo:  journalRepo,
		ledgerRepo:   ledgerRepo,
		sequenceRepo: sequenceRepo,
		periodSvc:    periodSvc,
		workplaceSvc: workplaceSvc,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ReversalSvcFacade = (*reversalService)(nil)

// ReverseJournal creates and immediately posts the counter-entry for a posted
// journal. The insert, posting and back-link all happen in one transaction.
func (s *reversalService) ReverseJournal(ctx context.Context, workplaceID string, journalID string, req dto.ReverseJournalRequest, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleApprover); err != nil {
		return nil, err
	}

	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.WorkplaceID != workplaceID {
		return nil, apperrors.ErrNotFound
	}
	if original.Status != domain.JournalPosted {
		return nil, fmt.Errorf("%w: status is %s", ErrJournalNotPosted, original.Status)
	}
	if original.IsReversed {
		return nil, ErrAlreadyReversed
	}

	period, err := s.periodSvc.FindOpenPeriodFor(ctx, workplaceID, req.ReversalDate)
	if err != nil {
		return nil, err
	}

	originalLines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}
	if len(originalLines) == 0 {
		return nil, fmt.Errorf("%w: journal has no lines", apperrors.ErrInternal)
	}

	seq, err := s.sequenceRepo.NextSequence(ctx, workplaceID, "JOURNAL", req.ReversalDate)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate journal number: %w", err)
	}

	now := s.now()
	reversalID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     requestingUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: requestingUserID,
	}

	lines := make([]domain.JournalLine, len(originalLines))
	for i, ol := range originalLines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   reversalID,
			AccountID:   ol.AccountID,
			LineNo:      ol.LineNo,
			Debit:       ol.Credit, // sides swap, amounts stay
			Credit:      ol.Debit,
			CostCenter:  ol.CostCenter,
			Narration:   ol.Narration,
			AuditFields: audit,
		}
	}

	reversal := domain.JournalEntry{
		JournalID:     reversalID,
		WorkplaceID:   workplaceID,
		JournalNumber: fmt.Sprintf("JV-%s-%04d", req.ReversalDate.Format("20060102"), seq),
		JournalType:   domain.JournalTypeReversal,
		JournalDate:   req.ReversalDate,
		Narration:     fmt.Sprintf("Reversal of %s: %s", original.JournalNumber, req.Reason),
		Status:        domain.JournalApproved,
		TotalDebit:    original.TotalCredit,
		TotalCredit:   original.TotalDebit,
		PeriodID:      period.PeriodID,
		ApprovedBy:    &requestingUserID,
		ApprovedAt:    &now,
		ReversalOfID:  &journalID,
		AuditFields:   audit,
	}

	if err := s.ledgerRepo.SaveAndPostReversal(ctx, reversal, lines, journalID, requestingUserID, now); err != nil {
		logger.Error("Failed to post reversal",
			slog.String("journal_id", journalID),
			slog.String("error", err.Error()))
		return nil, err
	}

	reversal.Status = domain.JournalPosted
	reversal.PostedBy = &requestingUserID
	reversal.PostedAt = &now
	reversal.Lines = lines

	logger.Info("Journal reversed",
		slog.String("journal_id", journalID),
		slog.String("reversal_id", reversalID),
		slog.String("reversal_number", reversal.JournalNumber))
	return &reversal, nil
}
