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
)

var (
	// ErrMakerCheckerViolation is returned when the requester of an approval
	// attempts to act on it themselves.
	ErrMakerCheckerViolation = fmt.Errorf("%w: requester cannot act on their own request", apperrors.ErrForbidden)

	// ErrInvalidStateTransition is returned when a request is not in a state
	// that permits the attempted action.
	ErrInvalidStateTransition = fmt.Errorf("%w: request state does not permit this action", apperrors.ErrConflict)
)

// approvalService is the generic maker-checker engine. It knows nothing about
// the entities it authorizes; callers react to the terminal status.
type approvalService struct {
	approvalRepo portsrepo.ApprovalRepositoryFacade
	workplaceSvc portssvc.WorkplaceAuthorizerSvc
	policy       domain.ApprovalPolicy
	now          func() time.Time
}

// NewApprovalService creates a new ApprovalService using the shared threshold policy.
func NewApprovalService(approvalRepo portsrepo.ApprovalRepositoryFacade, workplaceSvc portssvc.WorkplaceAuthorizerSvc, policy domain.ApprovalPolicy) portssvc.ApprovalSvcFacade {
	return &approvalService{
		approvalRepo: approvalRepo,
		workplaceSvc: workplaceSvc,
		policy:       policy,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// Submit creates a PENDING approval request for any entity.
func (s *approvalService) Submit(ctx context.Context, workplaceID string, entityType domain.ApprovalEntityType, entityID string, amount decimal.Decimal, requesterID string, priority int) (*domain.ApprovalRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if entityID == "" {
		return nil, fmt.Errorf("%w: entity id is required", apperrors.ErrValidation)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	if priority == 0 {
		priority = 5
	}
	if priority < 1 || priority > 10 {
		return nil, fmt.Errorf("%w: priority must be between 1 and 10", apperrors.ErrValidation)
	}

	now := s.now()
	request := domain.ApprovalRequest{
		RequestID:   uuid.NewString(),
		WorkplaceID: workplaceID,
		EntityType:  entityType,
		EntityID:    entityID,
		Amount:      amount,
		Level:       s.policy.LevelFor(amount),
		Status:      domain.ApprovalPending,
		RequesterID: requesterID,
		Priority:    priority,
		DueDate:     s.policy.DueDateFor(now, priority),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterID,
		},
	}
	history := domain.ApprovalHistory{
		HistoryID:  uuid.NewString(),
		RequestID:  request.RequestID,
		Action:     domain.ActionSubmit,
		FromStatus: "",
		ToStatus:   domain.ApprovalPending,
		ActorID:    requesterID,
		CreatedAt:  now,
	}

	if err := s.approvalRepo.SaveRequest(ctx, request, history); err != nil {
		logger.Error("Failed to save approval request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save approval request: %w", err)
	}

	logger.Info("Approval request submitted",
		slog.String("approval_request_id", request.RequestID),
		slog.String("entity_type", string(entityType)),
		slog.String("level", string(request.Level)))
	return &request, nil
}

// transition applies a mutation to a request under its row lock, writing
// exactly one history row. mutate returns the action recorded; it must leave
// the request in its new status.
func (s *approvalService) transition(ctx context.Context, workplaceID, requestID, actorID, comment string, mutate func(req *domain.ApprovalRequest) (domain.ApprovalAction, error)) (*domain.ApprovalRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.approvalRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.approvalRepo.Rollback(ctx, tx) }()

	request, err := s.approvalRepo.FindRequestForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if request.WorkplaceID != workplaceID {
		return nil, apperrors.ErrNotFound
	}

	fromStatus := request.Status
	action, err := mutate(request)
	if err != nil {
		return nil, err
	}

	now := s.now()
	request.LastUpdatedAt = now
	request.LastUpdatedBy = actorID

	if err := s.approvalRepo.UpdateRequestInTx(ctx, tx, *request); err != nil {
		return nil, err
	}

	history := domain.ApprovalHistory{
		HistoryID:  uuid.NewString(),
		RequestID:  request.RequestID,
		Action:     action,
		FromStatus: fromStatus,
		ToStatus:   request.Status,
		ActorID:    actorID,
		Comment:    comment,
		CreatedAt:  now,
	}
	if err := s.approvalRepo.InsertHistoryInTx(ctx, tx, history); err != nil {
		return nil, err
	}

	if err := s.approvalRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Approval request transitioned",
		slog.String("approval_request_id", request.RequestID),
		slog.String("action", string(action)),
		slog.String("from", string(fromStatus)),
		slog.String("to", string(request.Status)))
	return request, nil
}

// guardActionable enforces the maker-checker invariant and rejects terminal
// requests. Runs under the row lock, so concurrent approvals serialize here.
func (s *approvalService) guardActionable(req *domain.ApprovalRequest, actorID string) error {
	if req.Status.IsTerminal() {
		return fmt.Errorf("%w: status is %s", ErrInvalidStateTransition, req.Status)
	}
	if req.RequesterID == actorID {
		return ErrMakerCheckerViolation
	}
	return nil
}

// Approve marks a PENDING request approved.
func (s *approvalService) Approve(ctx context.Context, workplaceID string, requestID string, actorID string, comment string) (*domain.ApprovalRequest, error) {
	// Role check happens before taking the lock; the level is immutable.
	probe, err := s.approvalRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, actorID, workplaceID, s.policy.MinimumRoleFor(probe.Level)); err != nil {
		return nil, err
	}

	return s.transition(ctx, workplaceID, requestID, actorID, comment, func(req *domain.ApprovalRequest) (domain.ApprovalAction, error) {
		if err := s.guardActionable(req, actorID); err != nil {
			return "", err
		}
		if req.Status != domain.ApprovalPending {
			return "", fmt.Errorf("%w: status is %s, expected PENDING", ErrInvalidStateTransition, req.Status)
		}
		now := s.now()
		req.Status = domain.ApprovalApproved
		req.ApproverID = &actorID
		req.ActedAt = &now
		req.Comment = comment
		return domain.ActionApprove, nil
	})
}

// Reject marks a PENDING request rejected with a mandatory reason.
func (s *approvalService) Reject(ctx context.Context, workplaceID string, requestID string, actorID string, reason string) (*domain.ApprovalRequest, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	probe, err := s.approvalRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, actorID, workplaceID, s.policy.MinimumRoleFor(probe.Level)); err != nil {
		return nil, err
	}

	return s.transition(ctx, workplaceID, requestID, actorID, reason, func(req *domain.ApprovalRequest) (domain.ApprovalAction, error) {
		if err := s.guardActionable(req, actorID); err != nil {
			return "", err
		}
		if req.Status != domain.ApprovalPending {
			return "", fmt.Errorf("%w: status is %s, expected PENDING", ErrInvalidStateTransition, req.Status)
		}
		now := s.now()
		req.Status = domain.ApprovalRejected
		req.ApproverID = &actorID
		req.ActedAt = &now
		req.Comment = reason
		return domain.ActionReject, nil
	})
}

// Escalate moves a PENDING request to ESCALATED targeting a specific user.
// It does not re-enter PENDING; reassignment is a separate explicit action.
func (s *approvalService) Escalate(ctx context.Context, workplaceID string, requestID string, actorID string, targetUserID string, reason string) (*domain.ApprovalRequest, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: escalation reason is required", apperrors.ErrValidation)
	}
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, actorID, workplaceID, domain.RoleApprover); err != nil {
		return nil, err
	}
	// The escalation target must be a member able to act on requests.
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, targetUserID, workplaceID, domain.RoleApprover); err != nil {
		return nil, fmt.Errorf("escalation target: %w", err)
	}

	return s.transition(ctx, workplaceID, requestID, actorID, reason, func(req *domain.ApprovalRequest) (domain.ApprovalAction, error) {
		if err := s.guardActionable(req, actorID); err != nil {
			return "", err
		}
		if req.Status != domain.ApprovalPending {
			return "", fmt.Errorf("%w: status is %s, expected PENDING", ErrInvalidStateTransition, req.Status)
		}
		req.Status = domain.ApprovalEscalated
		req.EscalatedToID = &targetUserID
		req.EscalationReason = reason
		return domain.ActionEscalate, nil
	})
}

// Reassign re-targets an ESCALATED request back to PENDING so the escalation
// target (or any eligible approver) can act on it.
func (s *approvalService) Reassign(ctx context.Context, workplaceID string, requestID string, actorID string, comment string) (*domain.ApprovalRequest, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, actorID, workplaceID, domain.RoleApprover); err != nil {
		return nil, err
	}

	return s.transition(ctx, workplaceID, requestID, actorID, comment, func(req *domain.ApprovalRequest) (domain.ApprovalAction, error) {
		if req.Status != domain.ApprovalEscalated {
			return "", fmt.Errorf("%w: status is %s, expected ESCALATED", ErrInvalidStateTransition, req.Status)
		}
		req.Status = domain.ApprovalPending
		return domain.ActionReassign, nil
	})
}

// Cancel withdraws a PENDING request. Only the requester or an admin may cancel.
func (s *approvalService) Cancel(ctx context.Context, workplaceID string, requestID string, actorID string, comment string) (*domain.ApprovalRequest, error) {
	probe, err := s.approvalRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if probe.RequesterID != actorID {
		if err := s.workplaceSvc.AuthorizeUserAction(ctx, actorID, workplaceID, domain.RoleAdmin); err != nil {
			return nil, err
		}
	}

	return s.transition(ctx, workplaceID, requestID, actorID, comment, func(req *domain.ApprovalRequest) (domain.ApprovalAction, error) {
		if req.Status != domain.ApprovalPending {
			return "", fmt.Errorf("%w: status is %s, expected PENDING", ErrInvalidStateTransition, req.Status)
		}
		req.Status = domain.ApprovalCancelled
		return domain.ActionCancel, nil
	})
}

// BulkApprove applies Approve to each id independently, reporting per-item outcomes.
func (s *approvalService) BulkApprove(ctx context.Context, workplaceID string, requestIDs []string, actorID string, comment string) []domain.BulkActionResult {
	results := make([]domain.BulkActionResult, 0, len(requestIDs))
	for _, id := range requestIDs {
		_, err := s.Approve(ctx, workplaceID, id, actorID, comment)
		results = append(results, toBulkResult(id, err))
	}
	return results
}

// BulkReject applies Reject to each id independently, reporting per-item outcomes.
func (s *approvalService) BulkReject(ctx context.Context, workplaceID string, requestIDs []string, actorID string, reason string) []domain.BulkActionResult {
	results := make([]domain.BulkActionResult, 0, len(requestIDs))
	for _, id := range requestIDs {
		_, err := s.Reject(ctx, workplaceID, id, actorID, reason)
		results = append(results, toBulkResult(id, err))
	}
	return results
}

func toBulkResult(requestID string, err error) domain.BulkActionResult {
	result := domain.BulkActionResult{RequestID: requestID, Success: err == nil}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

// GetRequestByID retrieves a request, verifying workplace ownership.
func (s *approvalService) GetRequestByID(ctx context.Context, workplaceID string, requestID string, requestingUserID string) (*domain.ApprovalRequest, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	request, err := s.approvalRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.WorkplaceID != workplaceID {
		return nil, apperrors.ErrNotFound
	}
	return request, nil
}

// GetPendingRequestForEntity returns the live request wrapping the entity.
func (s *approvalService) GetPendingRequestForEntity(ctx context.Context, entityType domain.ApprovalEntityType, entityID string) (*domain.ApprovalRequest, error) {
	return s.approvalRepo.FindPendingRequestByEntity(ctx, entityType, entityID)
}

// ListApprovals lists pending (or overdue) requests of a workplace.
func (s *approvalService) ListApprovals(ctx context.Context, workplaceID string, params dto.ListApprovalsParams, requestingUserID string) ([]domain.ApprovalRequest, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if params.Overdue {
		return s.approvalRepo.ListOverdueRequests(ctx, workplaceID, s.now())
	}

	var level *domain.ApprovalLevel
	if params.Level != nil {
		l := domain.ApprovalLevel(*params.Level)
		level = &l
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	return s.approvalRepo.ListPendingRequests(ctx, workplaceID, level, limit, params.Offset)
}

// GetHistory retrieves the audit trail of a request.
func (s *approvalService) GetHistory(ctx context.Context, workplaceID string, requestID string, requestingUserID string) ([]domain.ApprovalHistory, error) {
	if _, err := s.GetRequestByID(ctx, workplaceID, requestID, requestingUserID); err != nil {
		return nil, err
	}
	history, err := s.approvalRepo.ListHistory(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval history: %w", err)
	}
	return history, nil
}

// IsMakerCheckerViolation reports whether err is (or wraps) the maker-checker violation.
func IsMakerCheckerViolation(err error) bool {
	return errors.Is(err, ErrMakerCheckerViolation)
}
