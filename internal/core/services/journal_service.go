package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
	"github.com/traxel-labs/erp_ledger_app/internal/middleware"
	"github.com/traxel-labs/erp_ledger_app/internal/utils/accounting"
)

var (
	// ErrJournalUnbalanced is returned when total debits do not equal total credits.
	ErrJournalUnbalanced = fmt.Errorf("%w: journal debits and credits must balance", apperrors.ErrValidation)

	// ErrInvalidJournalState is returned when a journal's current status does
	// not permit the attempted operation.
	ErrInvalidJournalState = fmt.Errorf("%w: journal state does not permit this operation", apperrors.ErrConflict)

	// ErrLineSideInvalid is returned when a line does not carry exactly one
	// positive side.
	ErrLineSideInvalid = fmt.Errorf("%w: each line must have exactly one of debit or credit positive", apperrors.ErrValidation)

	// ErrInactiveAccount is returned when a line references a deactivated account.
	ErrInactiveAccount = fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)

	// ErrGroupAccountPosting is returned when a line references a group
	// (non-postable) account.
	ErrGroupAccountPosting = fmt.Errorf("%w: cannot post to a group account", apperrors.ErrValidation)
)

// journalService drives journal entries through their lifecycle. Balance
// mutation never happens here; only the posting service touches the general
// ledger.
type journalService struct {
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountReader
	sequenceRepo portsrepo.SequenceRepository
	periodSvc    portssvc.PeriodSvcFacade
	approvalSvc  portssvc.ApprovalSvcFacade
	postingSvc   portssvc.PostingSvcFacade
	workplaceSvc portssvc.WorkplaceAuthorizerSvc
	now          func() time.Time
}

// NewJournalService creates a new JournalService with its dependencies.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	sequenceRepo portsrepo.SequenceRepository,
	periodSvc portssvc.PeriodSvcFacade,
	approvalSvc portssvc.ApprovalSvcFacade,
	postingSvc portssvc.PostingSvcFacade,
	workplaceSvc portssvc.WorkplaceAuthorizerSvc,
) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		sequenceRepo: sequenceRepo,
		periodSvc:    periodSvc,
		approvalSvc:  approvalSvc,
		postingSvc:   postingSvc,
		workplaceSvc: workplaceSvc,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts line requests into domain lines, normalizing amounts to
// money precision and numbering them in request order.
func buildLines(journalID string, reqs []dto.JournalLineRequest, userID string, now time.Time) ([]domain.JournalLine, error) {
	lines := make([]domain.JournalLine, 0, len(reqs))
	for i, lr := range reqs {
		debit := accounting.RoundAmount(lr.Debit)
		credit := accounting.RoundAmount(lr.Credit)
		if debit.IsNegative() || credit.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		if debit.IsPositive() == credit.IsPositive() {
			return nil, fmt.Errorf("line %d: %w", i+1, ErrLineSideInvalid)
		}
		lines = append(lines, domain.JournalLine{
			LineID:     uuid.NewString(),
			JournalID:  journalID,
			AccountID:  lr.AccountID,
			LineNo:     i + 1,
			Debit:      debit,
			Credit:     credit,
			CostCenter: lr.CostCenter,
			Narration:  lr.Narration,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}
	return lines, nil
}

// validateLineAccounts verifies that every referenced account exists in the
// workplace, is active and is postable.
func (s *journalService) validateLineAccounts(ctx context.Context, workplaceID string, lines []domain.JournalLine) error {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch line accounts: %w", err)
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok || account.WorkplaceID != workplaceID {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !account.IsActive {
			return fmt.Errorf("account %s: %w", id, ErrInactiveAccount)
		}
		if account.IsGroup {
			return fmt.Errorf("account %s: %w", id, ErrGroupAccountPosting)
		}
	}
	return nil
}

// checkBalanced verifies the double-entry invariant and returns the totals.
func checkBalanced(lines []domain.JournalLine) (decimal.Decimal, decimal.Decimal, error) {
	totalDebit, totalCredit := accounting.SumLines(lines)
	if !totalDebit.Equal(totalCredit) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: debits %s, credits %s", ErrJournalUnbalanced, totalDebit, totalCredit)
	}
	if totalDebit.IsZero() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: journal total must be positive", apperrors.ErrValidation)
	}
	return totalDebit, totalCredit, nil
}

// CreateJournal validates and persists a new DRAFT journal entry.
func (s *journalService) CreateJournal(ctx context.Context, workplaceID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, creatorUserID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}

	journalType := domain.JournalTypeManual
	if req.JournalType != "" {
		journalType = domain.JournalType(req.JournalType)
	}
	if journalType == domain.JournalTypeReversal {
		return nil, fmt.Errorf("%w: reversal journals are created through the reversal endpoint", apperrors.ErrValidation)
	}

	period, err := s.periodSvc.FindOpenPeriodFor(ctx, workplaceID, req.JournalDate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	journalID := uuid.NewString()

	lines, err := buildLines(journalID, req.Lines, creatorUserID, now)
	if err != nil {
		return nil, err
	}
	if err := s.validateLineAccounts(ctx, workplaceID, lines); err != nil {
		return nil, err
	}
	totalDebit, totalCredit, err := checkBalanced(lines)
	if err != nil {
		return nil, err
	}

	seq, err := s.sequenceRepo.NextSequence(ctx, workplaceID, "JOURNAL", req.JournalDate)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate journal number: %w", err)
	}

	journal := domain.JournalEntry{
		JournalID:     journalID,
		WorkplaceID:   workplaceID,
		JournalNumber: fmt.Sprintf("JV-%s-%04d", req.JournalDate.Format("20060102"), seq),
		JournalType:   journalType,
		JournalDate:   req.JournalDate,
		Narration:     req.Narration,
		Status:        domain.JournalDraft,
		TotalDebit:    totalDebit,
		TotalCredit:   totalCredit,
		PeriodID:      period.PeriodID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveJournal(ctx, journal, lines); err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	journal.Lines = lines
	logger.Info("Journal created",
		slog.String("journal_id", journal.JournalID),
		slog.String("journal_number", journal.JournalNumber))
	return &journal, nil
}

// fetchOwnedJournal loads a journal and verifies workplace ownership.
func (s *journalService) fetchOwnedJournal(ctx context.Context, workplaceID, journalID string) (*domain.JournalEntry, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.WorkplaceID != workplaceID {
		return nil, apperrors.ErrNotFound
	}
	return journal, nil
}

// GetJournalByID retrieves a journal with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, workplaceID string, journalID string, requestingUserID string) (*domain.JournalEntry, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	journal, err := s.fetchOwnedJournal(ctx, workplaceID, journalID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal lines: %w", err)
	}
	journal.Lines = lines
	return journal, nil
}

// ListJournals lists a page of a workplace's journals.
func (s *journalService) ListJournals(ctx context.Context, workplaceID string, params dto.ListJournalsParams, requestingUserID string) (*dto.ListJournalsResponse, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	var status *domain.JournalStatus
	if params.Status != nil {
		st := domain.JournalStatus(*params.Status)
		status = &st
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	journals, nextToken, err := s.journalRepo.ListJournalsByWorkplace(ctx, workplaceID, status, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}

	if params.IncludeLines && len(journals) > 0 {
		ids := make([]string, len(journals))
		for i := range journals {
			ids[i] = journals[i].JournalID
		}
		linesByJournal, err := s.journalRepo.FindLinesByJournalIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load journal lines: %w", err)
		}
		for i := range journals {
			journals[i].Lines = linesByJournal[journals[i].JournalID]
		}
	}

	resp := &dto.ListJournalsResponse{NextToken: nextToken}
	for i := range journals {
		resp.Journals = append(resp.Journals, dto.ToJournalResponse(&journals[i]))
	}
	return resp, nil
}

// canEdit reports whether the journal may have its content changed.
func canEdit(status domain.JournalStatus) bool {
	return status == domain.JournalDraft || status == domain.JournalRejected
}

// requireCreatorOrAdmin allows the journal's creator through, otherwise
// demands the admin role.
func (s *journalService) requireCreatorOrAdmin(ctx context.Context, journal *domain.JournalEntry, userID string) error {
	if journal.CreatedBy == userID {
		return nil
	}
	return s.workplaceSvc.AuthorizeUserAction(ctx, userID, journal.WorkplaceID, domain.RoleAdmin)
}

// UpdateJournal replaces a draft (or rejected) journal's content.
func (s *journalService) UpdateJournal(ctx context.Context, workplaceID string, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	journal, err := s.fetchOwnedJournal(ctx, workplaceID, journalID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCreatorOrAdmin(ctx, journal, requestingUserID); err != nil {
		return nil, err
	}
	if !canEdit(journal.Status) {
		return nil, fmt.Errorf("%w: status is %s", ErrInvalidJournalState, journal.Status)
	}

	now := s.now()
	if req.JournalDate != nil {
		period, err := s.periodSvc.FindOpenPeriodFor(ctx, workplaceID, *req.JournalDate)
		if err != nil {
			return nil, err
		}
		journal.JournalDate = *req.JournalDate
		journal.PeriodID = period.PeriodID
	}
	if req.Narration != nil {
		journal.Narration = *req.Narration
	}

	lines := journal.Lines
	if req.Lines != nil {
		lines, err = buildLines(journal.JournalID, req.Lines, requestingUserID, now)
		if err != nil {
			return nil, err
		}
		if err := s.validateLineAccounts(ctx, workplaceID, lines); err != nil {
			return nil, err
		}
		journal.TotalDebit, journal.TotalCredit, err = checkBalanced(lines)
		if err != nil {
			return nil, err
		}
	} else {
		lines, err = s.journalRepo.FindLinesByJournalID(ctx, journalID)
		if err != nil {
			return nil, fmt.Errorf("failed to load journal lines: %w", err)
		}
	}

	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = requestingUserID

	if err := s.journalRepo.ReplaceJournalLines(ctx, *journal, lines); err != nil {
		logger.Error("Failed to update journal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update journal: %w", err)
	}

	journal.Lines = lines
	logger.Info("Journal updated", slog.String("journal_id", journal.JournalID))
	return journal, nil
}

// DeleteJournal removes a DRAFT journal entirely.
func (s *journalService) DeleteJournal(ctx context.Context, workplaceID string, journalID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleMember); err != nil {
		return err
	}
	journal, err := s.fetchOwnedJournal(ctx, workplaceID, journalID)
	if err != nil {
		return err
	}
	if err := s.requireCreatorOrAdmin(ctx, journal, requestingUserID); err != nil {
		return err
	}
	if journal.Status != domain.JournalDraft {
		return fmt.Errorf("%w: only DRAFT journals can be deleted, status is %s", ErrInvalidJournalState, journal.Status)
	}

	if err := s.journalRepo.DeleteJournal(ctx, journalID); err != nil {
		return fmt.Errorf("failed to delete journal: %w", err)
	}
	logger.Info("Journal deleted", slog.String("journal_id", journalID))
	return nil
}

// CancelJournal abandons a journal before it reaches the ledger. A pending
// approval request on the journal is withdrawn alongside.
func (s *journalService) CancelJournal(ctx context.Context, workplaceID string, journalID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleMember); err != nil {
		return err
	}
	journal, err := s.fetchOwnedJournal(ctx, workplaceID, journalID)
	if err != nil {
		return err
	}
	if err := s.requireCreatorOrAdmin(ctx, journal, requestingUserID); err != nil {
		return err
	}

	switch journal.Status {
	case domain.JournalDraft, domain.JournalPendingApproval, domain.JournalRejected:
		// cancellable
	default:
		return fmt.Errorf("%w: status is %s", ErrInvalidJournalState, journal.Status)
	}

	expected := journal.Status
	if journal.Status == domain.JournalPendingApproval {
		if _, err := s.cancelApprovalRequest(ctx, workplaceID, journalID, requestingUserID); err != nil {
			return err
		}
	}

	now := s.now()
	journal.Status = domain.JournalCancelled
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = requestingUserID
	if err := s.journalRepo.UpdateJournalWorkflow(ctx, *journal, expected); err != nil {
		return fmt.Errorf("failed to cancel journal: %w", err)
	}

	logger.Info("Journal cancelled", slog.String("journal_id", journalID))
	return nil
}

func (s *journalService) cancelApprovalRequest(ctx context.Context, workplaceID, journalID, actorID string) (*domain.ApprovalRequest, error) {
	request, err := s.findLiveApprovalRequest(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.approvalSvc.Cancel(ctx, workplaceID, request.RequestID, actorID, "journal cancelled")
}

func (s *journalService) findLiveApprovalRequest(ctx context.Context, journalID string) (*domain.ApprovalRequest, error) {
	return s.approvalSvc.GetPendingRequestForEntity(ctx, domain.EntityJournalEntry, journalID)
}

// SubmitJournal moves a DRAFT journal to PENDING_APPROVAL and opens an
// approval request sized by the journal's total debit.
func (s *journalService) SubmitJournal(ctx context.Context, workplaceID string, journalID string, req dto.SubmitJournalRequest, submitterID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, submitterID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	journal, err := s.fetchOwnedJournal(ctx, workplaceID, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.JournalDraft {
		return nil, fmt.Errorf("%w: only DRAFT journals can be submitted, status is %s", ErrInvalidJournalState, journal.Status)
	}

	// The period may have closed since the draft was created.
	if _, err := s.periodSvc.FindOpenPeriodFor(ctx, workplaceID, journal.JournalDate); err != nil {
		return nil, err
	}

	if _, err := s.approvalSvc.Submit(ctx, workplaceID, domain.EntityJournalEntry, journal.JournalID, journal.TotalDebit, submitterID, req.Priority); err != nil {
		return nil, err
	}

	now := s.now()
	journal.Status = domain.JournalPendingApproval
	journal.SubmittedBy = &submitterID
	journal.SubmittedAt = &now
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = submitterID

	if err := s.journalRepo.UpdateJournalWorkflow(ctx, *journal, domain.JournalDraft); err != nil {
		logger.Error("Failed to submit journal", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal submitted", slog.String("journal_id", journalID))
	return journal, nil
}

// ApproveJournal routes the approval through the maker-checker engine, then
// transitions the journal to APPROVED. With AutoPost set, the journal is
// posted immediately after.
func (s *journalService) ApproveJournal(ctx context.Context, workplaceID string, journalID string, req dto.ApproveJournalRequest, approverID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.fetchOwnedJournal(ctx, workplaceID, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.JournalPendingApproval {
		return nil, fmt.Errorf("%w: only PENDING_APPROVAL journals can be approved, status is %s", ErrInvalidJournalState, journal.Status)
	}

	request, err := s.findLiveApprovalRequest(ctx, journalID)
	if err != nil {
		return nil, err
	}
	// The engine enforces the maker-checker rule and the level's role.
	if _, err := s.approvalSvc.Approve(ctx, workplaceID, request.RequestID, approverID, req.Comment); err != nil {
		return nil, err
	}

	now := s.now()
	journal.Status = domain.JournalApproved
	journal.ApprovedBy = &approverID
	journal.ApprovedAt = &now
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = approverID

	if err := s.journalRepo.UpdateJournalWorkflow(ctx, *journal, domain.JournalPendingApproval); err != nil {
		logger.Error("Failed to mark journal approved", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal approved", slog.String("journal_id", journalID), slog.String("approved_by", approverID))

	if req.AutoPost {
		return s.postingSvc.PostJournal(ctx, workplaceID, journalID, approverID)
	}
	return journal, nil
}

// RejectJournal routes the rejection through the engine, then marks the
// journal REJECTED with the reason.
func (s *journalService) RejectJournal(ctx context.Context, workplaceID string, journalID string, req dto.RejectJournalRequest, approverID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.fetchOwnedJournal(ctx, workplaceID, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.JournalPendingApproval {
		return nil, fmt.Errorf("%w: only PENDING_APPROVAL journals can be rejected, status is %s", ErrInvalidJournalState, journal.Status)
	}

	request, err := s.findLiveApprovalRequest(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if _, err := s.approvalSvc.Reject(ctx, workplaceID, request.RequestID, approverID, req.Reason); err != nil {
		return nil, err
	}

	now := s.now()
	journal.Status = domain.JournalRejected
	journal.RejectionReason = req.Reason
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = approverID

	if err := s.journalRepo.UpdateJournalWorkflow(ctx, *journal, domain.JournalPendingApproval); err != nil {
		logger.Error("Failed to mark journal rejected", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal rejected", slog.String("journal_id", journalID))
	return journal, nil
}

// ResubmitJournal puts a REJECTED journal back into the approval queue with a
// fresh request. The resubmitter becomes the new requester.
func (s *journalService) ResubmitJournal(ctx context.Context, workplaceID string, journalID string, requesterID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requesterID, workplaceID, domain.RoleMember); err != nil {
		return nil, err
	}
	journal, err := s.fetchOwnedJournal(ctx, workplaceID, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.JournalRejected {
		return nil, fmt.Errorf("%w: only REJECTED journals can be resubmitted, status is %s", ErrInvalidJournalState, journal.Status)
	}
	if _, err := s.periodSvc.FindOpenPeriodFor(ctx, workplaceID, journal.JournalDate); err != nil {
		return nil, err
	}

	if _, err := s.approvalSvc.Submit(ctx, workplaceID, domain.EntityJournalEntry, journal.JournalID, journal.TotalDebit, requesterID, 0); err != nil {
		return nil, err
	}

	now := s.now()
	journal.Status = domain.JournalPendingApproval
	journal.SubmittedBy = &requesterID
	journal.SubmittedAt = &now
	journal.RejectionReason = ""
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = requesterID

	if err := s.journalRepo.UpdateJournalWorkflow(ctx, *journal, domain.JournalRejected); err != nil {
		logger.Error("Failed to resubmit journal", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Journal resubmitted", slog.String("journal_id", journalID))
	return journal, nil
}
