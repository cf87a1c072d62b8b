package services

import (
	"context"
	"time"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
)

// PeriodSvcFacade defines the financial period calendar operations.
type PeriodSvcFacade interface {
	CreatePeriod(ctx context.Context, workplaceID string, req dto.CreatePeriodRequest, creatorUserID string) (*domain.FinancialPeriod, error)
	GetPeriodByID(ctx context.Context, workplaceID string, periodID string, requestingUserID string) (*domain.FinancialPeriod, error)
	ListPeriods(ctx context.Context, workplaceID string, requestingUserID string) ([]domain.FinancialPeriod, error)
	ClosePeriod(ctx context.Context, workplaceID string, periodID string, requestingUserID string) error
	ReopenPeriod(ctx context.Context, workplaceID string, periodID string, requestingUserID string) error
	LockPeriod(ctx context.Context, workplaceID string, periodID string, requestingUserID string) error

	// FindOpenPeriodFor returns the OPEN period covering the date or
	// ErrNoOpenPeriod. Used by the journal service to gate postings.
	FindOpenPeriodFor(ctx context.Context, workplaceID string, date time.Time) (*domain.FinancialPeriod, error)
}
