package repositories

import (
	"context"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// WorkplaceRepositoryFacade defines persistence operations for workplaces and
// their memberships.
type WorkplaceRepositoryFacade interface {
	// SaveWorkplace persists a new workplace and its creator's ADMIN
	// membership in one transaction.
	SaveWorkplace(ctx context.Context, workplace domain.Workplace, creatorMembership domain.UserWorkplace) error

	FindWorkplaceByID(ctx context.Context, workplaceID string) (*domain.Workplace, error)
	ListWorkplacesByUser(ctx context.Context, userID string) ([]domain.Workplace, error)

	// AddUserToWorkplace inserts or updates a membership row.
	AddUserToWorkplace(ctx context.Context, membership domain.UserWorkplace) error

	// FindUserWorkplaceRole returns the role of a user in a workplace, or
	// ErrNotFound when the user is not a member.
	FindUserWorkplaceRole(ctx context.Context, userID, workplaceID string) (domain.UserWorkplaceRole, error)
}
