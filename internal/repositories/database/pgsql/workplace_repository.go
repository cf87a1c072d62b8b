package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
)

const workplaceColumns = `
	workplace_id, name, description, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxWorkplaceRepository struct {
	BaseRepository
}

// newPgxWorkplaceRepository creates a new repository for workplace data.
func newPgxWorkplaceRepository(pool *pgxpool.Pool) portsrepo.WorkplaceRepositoryFacade {
	return &PgxWorkplaceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkplaceRepositoryFacade = (*PgxWorkplaceRepository)(nil)

func scanWorkplace(row pgx.Row) (*domain.Workplace, error) {
	var w domain.Workplace
	err := row.Scan(
		&w.WorkplaceID, &w.Name, &w.Description, &w.IsActive,
		&w.CreatedAt, &w.CreatedBy, &w.LastUpdatedAt, &w.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan workplace", err)
	}
	return &w, nil
}

// SaveWorkplace persists a new workplace and its creator's ADMIN membership in
// one transaction.
func (r *PgxWorkplaceRepository) SaveWorkplace(ctx context.Context, workplace domain.Workplace, creatorMembership domain.UserWorkplace) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	workplaceQuery := `
		INSERT INTO workplaces (` + workplaceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, workplaceQuery,
		workplace.WorkplaceID, workplace.Name, workplace.Description, workplace.IsActive,
		workplace.CreatedAt, workplace.CreatedBy, workplace.LastUpdatedAt, workplace.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert workplace "+workplace.WorkplaceID, err)
	}

	membershipQuery := `
		INSERT INTO user_workplaces (user_id, workplace_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err = tx.Exec(ctx, membershipQuery,
		creatorMembership.UserID, creatorMembership.WorkplaceID,
		creatorMembership.Role, creatorMembership.JoinedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert creator membership", err)
	}

	return r.Commit(ctx, tx)
}

// FindWorkplaceByID retrieves a workplace by its unique identifier.
func (r *PgxWorkplaceRepository) FindWorkplaceByID(ctx context.Context, workplaceID string) (*domain.Workplace, error) {
	query := `SELECT ` + workplaceColumns + ` FROM workplaces WHERE workplace_id = $1;`
	return scanWorkplace(r.Pool.QueryRow(ctx, query, workplaceID))
}

// ListWorkplacesByUser retrieves workplaces the user is an active member of.
func (r *PgxWorkplaceRepository) ListWorkplacesByUser(ctx context.Context, userID string) ([]domain.Workplace, error) {
	query := `
		SELECT w.workplace_id, w.name, w.description, w.is_active,
		       w.created_at, w.created_by, w.last_updated_at, w.last_updated_by
		FROM workplaces w
		JOIN user_workplaces uw ON uw.workplace_id = w.workplace_id
		WHERE uw.user_id = $1 AND uw.role <> $2
		ORDER BY w.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID, domain.RoleRemoved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workplaces", err)
	}
	defer rows.Close()

	workplaces := []domain.Workplace{}
	for rows.Next() {
		workplace, err := scanWorkplace(rows)
		if err != nil {
			return nil, err
		}
		workplaces = append(workplaces, *workplace)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating workplace rows", err)
	}
	return workplaces, nil
}

// AddUserToWorkplace inserts or updates a membership row.
func (r *PgxWorkplaceRepository) AddUserToWorkplace(ctx context.Context, membership domain.UserWorkplace) error {
	query := `
		INSERT INTO user_workplaces (user_id, workplace_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, workplace_id)
		DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID, membership.WorkplaceID, membership.Role, membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			// Unknown user or workplace.
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to upsert membership", err)
	}
	return nil
}

// FindUserWorkplaceRole returns the role of a user in a workplace.
func (r *PgxWorkplaceRepository) FindUserWorkplaceRole(ctx context.Context, userID, workplaceID string) (domain.UserWorkplaceRole, error) {
	query := `SELECT role FROM user_workplaces WHERE user_id = $1 AND workplace_id = $2;`
	var role domain.UserWorkplaceRole
	err := r.Pool.QueryRow(ctx, query, userID, workplaceID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", apperrors.NewAppError(500, "failed to query membership role", err)
	}
	return role, nil
}
