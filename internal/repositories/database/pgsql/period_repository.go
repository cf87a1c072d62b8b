package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
)

const periodColumns = `
	period_id, workplace_id, name, start_date, end_date, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for financial period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (*domain.FinancialPeriod, error) {
	var p domain.FinancialPeriod
	err := row.Scan(
		&p.PeriodID, &p.WorkplaceID, &p.Name, &p.StartDate, &p.EndDate, &p.Status,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan period", err)
	}
	return &p, nil
}

// SavePeriod persists a new period.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.FinancialPeriod) error {
	query := `
		INSERT INTO financial_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		period.PeriodID, period.WorkplaceID, period.Name,
		period.StartDate, period.EndDate, period.Status,
		period.CreatedAt, period.CreatedBy, period.LastUpdatedAt, period.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert period "+period.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a period by its unique identifier.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods WHERE period_id = $1;`
	return scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
}

// FindOverlappingPeriod returns any period of the workplace whose range
// intersects [start, end], or ErrNotFound.
func (r *PgxPeriodRepository) FindOverlappingPeriod(ctx context.Context, workplaceID string, start, end time.Time) (*domain.FinancialPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM financial_periods
		WHERE workplace_id = $1 AND start_date <= $3 AND end_date >= $2
		LIMIT 1;
	`
	return scanPeriod(r.Pool.QueryRow(ctx, query, workplaceID, start, end))
}

// FindOpenPeriodForDate returns the OPEN period covering the given date.
func (r *PgxPeriodRepository) FindOpenPeriodForDate(ctx context.Context, workplaceID string, date time.Time) (*domain.FinancialPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM financial_periods
		WHERE workplace_id = $1 AND status = $2 AND start_date <= $3 AND end_date >= $3
		LIMIT 1;
	`
	return scanPeriod(r.Pool.QueryRow(ctx, query, workplaceID, domain.PeriodOpen, date))
}

// ListPeriods retrieves all periods of a workplace ordered by start date.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, workplaceID string) ([]domain.FinancialPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM financial_periods WHERE workplace_id = $1 ORDER BY start_date;`
	rows, err := r.Pool.Query(ctx, query, workplaceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query periods", err)
	}
	defer rows.Close()

	periods := []domain.FinancialPeriod{}
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating period rows", err)
	}
	return periods, nil
}

// CountUnpostedJournalsInRange counts journals dated inside [start, end] that
// are still live (not POSTED, CANCELLED or REJECTED).
func (r *PgxPeriodRepository) CountUnpostedJournalsInRange(ctx context.Context, workplaceID string, start, end time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM journals
		WHERE workplace_id = $1
		  AND journal_date BETWEEN $2 AND $3
		  AND status NOT IN ($4, $5, $6);
	`
	var count int64
	err := r.Pool.QueryRow(ctx, query, workplaceID, start, end,
		domain.JournalPosted, domain.JournalCancelled, domain.JournalRejected,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count unposted journals", err)
	}
	return count, nil
}

// UpdatePeriodStatus transitions a period's status conditionally on its
// expected current status.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, from, to domain.PeriodStatus, userID string, now time.Time) error {
	query := `
		UPDATE financial_periods
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, periodID, from, to, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update period status "+periodID, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the period vanished or a concurrent writer changed its status.
		return apperrors.ErrConflict
	}
	return nil
}
