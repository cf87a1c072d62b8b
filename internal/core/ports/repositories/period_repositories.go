package repositories

import (
	"context"
	"time"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// PeriodReader defines read operations for financial period data
type PeriodReader interface {
	// FindPeriodByID retrieves a period by its unique identifier.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FinancialPeriod, error)

	// FindOverlappingPeriod returns any period of the workplace whose range
	// intersects [start, end], or nil if none exists.
	FindOverlappingPeriod(ctx context.Context, workplaceID string, start, end time.Time) (*domain.FinancialPeriod, error)

	// FindOpenPeriodForDate returns the OPEN period covering the given date.
	FindOpenPeriodForDate(ctx context.Context, workplaceID string, date time.Time) (*domain.FinancialPeriod, error)

	// ListPeriods retrieves all periods of a workplace ordered by start date.
	ListPeriods(ctx context.Context, workplaceID string) ([]domain.FinancialPeriod, error)

	// CountUnpostedJournalsInRange counts journals dated inside [start, end]
	// that are still live (not POSTED, CANCELLED or REJECTED).
	CountUnpostedJournalsInRange(ctx context.Context, workplaceID string, start, end time.Time) (int64, error)
}

// PeriodWriter defines write operations for financial period data
type PeriodWriter interface {
	// SavePeriod persists a new period.
	SavePeriod(ctx context.Context, period domain.FinancialPeriod) error

	// UpdatePeriodStatus transitions a period's status. The update is
	// conditional on the expected current status and reports a conflict if
	// another writer got there first.
	UpdatePeriodStatus(ctx context.Context, periodID string, from, to domain.PeriodStatus, userID string, now time.Time) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
