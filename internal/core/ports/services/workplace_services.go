package services

import (
	"context"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
)

// WorkplaceAuthorizerSvc is the authorization gate every service consults
// before acting on workplace-scoped data.
type WorkplaceAuthorizerSvc interface {
	// AuthorizeUserAction verifies the user holds at least minRole in the
	// workplace, returning ErrNotFound for non-members (to obscure
	// existence) and ErrForbidden for insufficient roles.
	AuthorizeUserAction(ctx context.Context, userID, workplaceID string, minRole domain.UserWorkplaceRole) error
}

// WorkplaceSvcFacade defines tenant workplace management.
type WorkplaceSvcFacade interface {
	WorkplaceAuthorizerSvc

	CreateWorkplace(ctx context.Context, req dto.CreateWorkplaceRequest, creatorUserID string) (*domain.Workplace, error)
	ListWorkplaces(ctx context.Context, userID string) ([]domain.Workplace, error)
	AddUserToWorkplace(ctx context.Context, workplaceID string, req dto.AddUserToWorkplaceRequest, actingUserID string) error
}
