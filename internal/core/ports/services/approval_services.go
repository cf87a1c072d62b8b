package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
)

// ApprovalSvcFacade is the generic, entity-agnostic maker-checker engine.
// Any subsystem needing sign-off before an action takes effect submits a
// request here and reacts to the terminal status.
type ApprovalSvcFacade interface {
	// Submit creates a PENDING request, deriving the level from the shared
	// threshold policy and the advisory due date from the priority.
	Submit(ctx context.Context, workplaceID string, entityType domain.ApprovalEntityType, entityID string, amount decimal.Decimal, requesterID string, priority int) (*domain.ApprovalRequest, error)

	Approve(ctx context.Context, workplaceID string, requestID string, actorID string, comment string) (*domain.ApprovalRequest, error)
	Reject(ctx context.Context, workplaceID string, requestID string, actorID string, reason string) (*domain.ApprovalRequest, error)
	Escalate(ctx context.Context, workplaceID string, requestID string, actorID string, targetUserID string, reason string) (*domain.ApprovalRequest, error)
	Reassign(ctx context.Context, workplaceID string, requestID string, actorID string, comment string) (*domain.ApprovalRequest, error)
	Cancel(ctx context.Context, workplaceID string, requestID string, actorID string, comment string) (*domain.ApprovalRequest, error)

	BulkApprove(ctx context.Context, workplaceID string, requestIDs []string, actorID string, comment string) []domain.BulkActionResult
	BulkReject(ctx context.Context, workplaceID string, requestIDs []string, actorID string, reason string) []domain.BulkActionResult

	GetRequestByID(ctx context.Context, workplaceID string, requestID string, requestingUserID string) (*domain.ApprovalRequest, error)

	// GetPendingRequestForEntity returns the live (PENDING or ESCALATED)
	// request wrapping the entity, or ErrNotFound. Host services use this to
	// locate the request backing their own workflow state.
	GetPendingRequestForEntity(ctx context.Context, entityType domain.ApprovalEntityType, entityID string) (*domain.ApprovalRequest, error)
	ListApprovals(ctx context.Context, workplaceID string, params dto.ListApprovalsParams, requestingUserID string) ([]domain.ApprovalRequest, error)
	GetHistory(ctx context.Context, workplaceID string, requestID string, requestingUserID string) ([]domain.ApprovalHistory, error)
}
