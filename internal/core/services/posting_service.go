package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/middleware"
)

// ErrJournalNotApproved is returned when posting is attempted on a journal
// that is not in APPROVED status.
var ErrJournalNotApproved = fmt.Errorf("%w: only APPROVED journals can be posted", ErrInvalidJournalState)

// postingService is the sole gateway from the approval workflow into the
// general ledger. The actual append runs in one repository-owned transaction
// that re-checks the journal status under a row lock, so a stale read here
// cannot double-post.
type postingService struct {
	journalRepo  portsrepo.JournalReader
	ledgerRepo   portsrepo.LedgerPoster
	periodSvc    portssvc.PeriodSvcFacade
	workplaceSvc portssvc.WorkplaceAuthorizerSvc
	now          func() time.Time
}

// NewPostingService creates a new PostingService.
func NewPostingService(journalRepo portsrepo.JournalReader, ledgerRepo portsrepo.LedgerPoster, periodSvc portssvc.PeriodSvcFacade, workplaceSvc portssvc.WorkplaceAuthorizerSvc) portssvc.PostingSvcFacade {
	return &postingService{
		journalRepo:  journalRepo,
		ledgerRepo:   ledgerRepo,
		periodSvc:    periodSvc,
		workplaceSvc: workplaceSvc,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// PostJournal turns an APPROVED journal into immutable general ledger rows.
func (s *postingService) PostJournal(ctx context.Context, workplaceID string, journalID string, posterID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, posterID, workplaceID, domain.RoleApprover); err != nil {
		return nil, err
	}

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.WorkplaceID != workplaceID {
		return nil, apperrors.ErrNotFound
	}
	if journal.Status != domain.JournalApproved {
		return nil, fmt.Errorf("%w: status is %s", ErrJournalNotApproved, journal.Status)
	}

	// The period check is advisory here; the posting transaction is the
	// authority on the journal's state.
	if _, err := s.periodSvc.FindOpenPeriodFor(ctx, workplaceID, journal.JournalDate); err != nil {
		return nil, err
	}

	posted, err := s.ledgerRepo.PostJournal(ctx, journalID, posterID, s.now())
	if err != nil {
		logger.Error("Failed to post journal",
			slog.String("journal_id", journalID),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal posted",
		slog.String("journal_id", journalID),
		slog.String("journal_number", posted.JournalNumber),
		slog.String("posted_by", posterID))
	return posted, nil
}
