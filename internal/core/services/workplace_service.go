package services

import (
	"context"
	"errors"
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

// workplaceService manages tenant workplaces and memberships, and is the
// authorization gate consulted by every other service.
type workplaceService struct {
	workplaceRepo portsrepo.WorkplaceRepositoryFacade
	userRepo      portsrepo.UserRepositoryFacade
}

// NewWorkplaceService creates a new WorkplaceService.
func NewWorkplaceService(workplaceRepo portsrepo.WorkplaceRepositoryFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.WorkplaceSvcFacade {
	return &workplaceService{
		workplaceRepo: workplaceRepo,
		userRepo:      userRepo,
	}
}

var _ portssvc.WorkplaceSvcFacade = (*workplaceService)(nil)

// AuthorizeUserAction verifies the user holds at least minRole in the workplace.
// Non-members get ErrNotFound to obscure workplace existence.
func (s *workplaceService) AuthorizeUserAction(ctx context.Context, userID, workplaceID string, minRole domain.UserWorkplaceRole) error {
	role, err := s.workplaceRepo.FindUserWorkplaceRole(ctx, userID, workplaceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to check workplace membership: %w", err)
	}
	if role == domain.RoleRemoved {
		return apperrors.ErrNotFound
	}
	if !role.AtLeast(minRole) {
		return fmt.Errorf("%w: role %s does not permit this action", apperrors.ErrForbidden, role)
	}
	return nil
}

// CreateWorkplace creates a workplace with the creator as ADMIN.
func (s *workplaceService) CreateWorkplace(ctx context.Context, req dto.CreateWorkplaceRequest, creatorUserID string) (*domain.Workplace, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	workplace := domain.Workplace{
		WorkplaceID: uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	membership := domain.UserWorkplace{
		UserID:      creatorUserID,
		WorkplaceID: workplace.WorkplaceID,
		Role:        domain.RoleAdmin,
		JoinedAt:    now,
	}

	if err := s.workplaceRepo.SaveWorkplace(ctx, workplace, membership); err != nil {
		logger.Error("Failed to save workplace", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save workplace: %w", err)
	}

	logger.Info("Workplace created", slog.String("workplace_id", workplace.WorkplaceID))
	return &workplace, nil
}

// ListWorkplaces lists the workplaces the user belongs to.
func (s *workplaceService) ListWorkplaces(ctx context.Context, userID string) ([]domain.Workplace, error) {
	workplaces, err := s.workplaceRepo.ListWorkplacesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workplaces: %w", err)
	}
	return workplaces, nil
}

// AddUserToWorkplace assigns a role to a user. Admins only.
func (s *workplaceService) AddUserToWorkplace(ctx context.Context, workplaceID string, req dto.AddUserToWorkplaceRequest, actingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.AuthorizeUserAction(ctx, actingUserID, workplaceID, domain.RoleAdmin); err != nil {
		logger.Warn("Authorization failed for AddUserToWorkplace", slog.String("error", err.Error()))
		return err
	}

	// Target user must exist.
	if _, err := s.userRepo.FindUserByID(ctx, req.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, req.UserID)
		}
		return fmt.Errorf("failed to look up user %s: %w", req.UserID, err)
	}

	membership := domain.UserWorkplace{
		UserID:      req.UserID,
		WorkplaceID: workplaceID,
		Role:        domain.UserWorkplaceRole(req.Role),
		JoinedAt:    time.Now().UTC(),
	}
	if err := s.workplaceRepo.AddUserToWorkplace(ctx, membership); err != nil {
		logger.Error("Failed to add user to workplace", slog.String("error", err.Error()), slog.String("target_user_id", req.UserID))
		return fmt.Errorf("failed to add user to workplace: %w", err)
	}

	logger.Info("User added to workplace", slog.String("target_user_id", req.UserID), slog.String("role", req.Role))
	return nil
}
