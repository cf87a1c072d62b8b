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

var (
	ErrPeriodOverlap   = errors.New("period overlaps an existing period")
	ErrUnpostedEntries = errors.New("period has journals that are not yet posted")
	ErrPeriodLocked    = errors.New("period is locked and cannot change")
	ErrPeriodNotClosed = errors.New("period must be closed before locking")
	ErrNoOpenPeriod    = errors.New("no open period covers the given date")
)

// periodService owns the financial period lifecycle used to gate all postings.
type periodService struct {
	periodRepo   portsrepo.PeriodRepositoryFacade
	workplaceSvc portssvc.WorkplaceAuthorizerSvc
}

// NewPeriodService creates a new PeriodService.
func NewPeriodService(periodRepo portsrepo.PeriodRepositoryFacade, workplaceSvc portssvc.WorkplaceAuthorizerSvc) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo:   periodRepo,
		workplaceSvc: workplaceSvc,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// CreatePeriod opens a new period after verifying it does not overlap any
// existing one.
func (s *periodService) CreatePeriod(ctx context.Context, workplaceID string, req dto.CreatePeriodRequest, creatorUserID string) (*domain.FinancialPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, creatorUserID, workplaceID, domain.RoleAdmin); err != nil {
		logger.Warn("Authorization failed for CreatePeriod", slog.String("error", err.Error()))
		return nil, err
	}

	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidation)
	}

	overlapping, err := s.periodRepo.FindOverlappingPeriod(ctx, workplaceID, req.StartDate, req.EndDate)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check period overlap: %w", err)
	}
	if overlapping != nil {
		return nil, fmt.Errorf("%w: overlaps %s", ErrPeriodOverlap, overlapping.Name)
	}

	now := time.Now().UTC()
	period := domain.FinancialPeriod{
		PeriodID:    uuid.NewString(),
		WorkplaceID: workplaceID,
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		logger.Error("Failed to save period", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save period: %w", err)
	}

	logger.Info("Period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

// GetPeriodByID retrieves a period, verifying workplace ownership.
func (s *periodService) GetPeriodByID(ctx context.Context, workplaceID string, periodID string, requestingUserID string) (*domain.FinancialPeriod, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.fetchOwnedPeriod(ctx, workplaceID, periodID)
}

// ListPeriods retrieves all periods of a workplace.
func (s *periodService) ListPeriods(ctx context.Context, workplaceID string, requestingUserID string) ([]domain.FinancialPeriod, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	periods, err := s.periodRepo.ListPeriods(ctx, workplaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	return periods, nil
}

// ClosePeriod transitions OPEN -> CLOSED once every journal dated inside the
// period has reached a final disposition (posted, cancelled or rejected).
func (s *periodService) ClosePeriod(ctx context.Context, workplaceID string, periodID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleAdmin); err != nil {
		return err
	}

	period, err := s.fetchOwnedPeriod(ctx, workplaceID, periodID)
	if err != nil {
		return err
	}
	if period.Status != domain.PeriodOpen {
		return fmt.Errorf("%w: period status is %s, expected OPEN", apperrors.ErrConflict, period.Status)
	}

	unposted, err := s.periodRepo.CountUnpostedJournalsInRange(ctx, workplaceID, period.StartDate, period.EndDate)
	if err != nil {
		return fmt.Errorf("failed to count unposted journals: %w", err)
	}
	if unposted > 0 {
		return fmt.Errorf("%w: %d journals pending", ErrUnpostedEntries, unposted)
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodOpen, domain.PeriodClosed, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to close period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return err
	}

	logger.Info("Period closed", slog.String("period_id", periodID))
	return nil
}

// ReopenPeriod transitions CLOSED -> OPEN. Locked periods never reopen.
func (s *periodService) ReopenPeriod(ctx context.Context, workplaceID string, periodID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleAdmin); err != nil {
		return err
	}

	period, err := s.fetchOwnedPeriod(ctx, workplaceID, periodID)
	if err != nil {
		return err
	}
	switch period.Status {
	case domain.PeriodLocked:
		return fmt.Errorf("%w: period %s", ErrPeriodLocked, period.Name)
	case domain.PeriodOpen:
		return fmt.Errorf("%w: period status is %s, expected CLOSED", apperrors.ErrConflict, period.Status)
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodClosed, domain.PeriodOpen, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to reopen period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return err
	}

	logger.Info("Period reopened", slog.String("period_id", periodID))
	return nil
}

// LockPeriod transitions CLOSED -> LOCKED. One way; an OPEN period must be
// closed first.
func (s *periodService) LockPeriod(ctx context.Context, workplaceID string, periodID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleAdmin); err != nil {
		return err
	}

	period, err := s.fetchOwnedPeriod(ctx, workplaceID, periodID)
	if err != nil {
		return err
	}
	switch period.Status {
	case domain.PeriodOpen:
		return fmt.Errorf("%w: period %s is still open", ErrPeriodNotClosed, period.Name)
	case domain.PeriodLocked:
		return fmt.Errorf("%w: period status is already LOCKED", apperrors.ErrConflict)
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodClosed, domain.PeriodLocked, requestingUserID, time.Now().UTC()); err != nil {
		logger.Error("Failed to lock period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return err
	}

	logger.Info("Period locked", slog.String("period_id", periodID))
	return nil
}

// FindOpenPeriodFor returns the OPEN period covering the date.
func (s *periodService) FindOpenPeriodFor(ctx context.Context, workplaceID string, date time.Time) (*domain.FinancialPeriod, error) {
	period, err := s.periodRepo.FindOpenPeriodForDate(ctx, workplaceID, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoOpenPeriod, date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to find open period: %w", err)
	}
	return period, nil
}

func (s *periodService) fetchOwnedPeriod(ctx context.Context, workplaceID, periodID string) (*domain.FinancialPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	if period.WorkplaceID != workplaceID {
		return nil, apperrors.ErrNotFound
	}
	return period, nil
}
