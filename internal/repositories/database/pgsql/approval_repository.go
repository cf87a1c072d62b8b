package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
)

const approvalColumns = `
	request_id, workplace_id, entity_type, entity_id, amount, level, status,
	requester_id, approver_id, acted_at, priority, due_date,
	escalated_to_id, escalation_reason, comment,
	created_at, created_by, last_updated_at, last_updated_by`

const approvalHistoryColumns = `
	history_id, request_id, action, from_status, to_status, actor_id, comment, created_at`

type PgxApprovalRepository struct {
	BaseRepository
}

// newPgxApprovalRepository creates a new repository for approval workflow data.
func newPgxApprovalRepository(pool *pgxpool.Pool) portsrepo.ApprovalRepositoryFacade {
	return &PgxApprovalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ApprovalRepositoryFacade = (*PgxApprovalRepository)(nil)

func scanApprovalRequest(row pgx.Row) (*domain.ApprovalRequest, error) {
	var r domain.ApprovalRequest
	var escalationReason, comment *string
	err := row.Scan(
		&r.RequestID, &r.WorkplaceID, &r.EntityType, &r.EntityID, &r.Amount, &r.Level, &r.Status,
		&r.RequesterID, &r.ApproverID, &r.ActedAt, &r.Priority, &r.DueDate,
		&r.EscalatedToID, &escalationReason, &comment,
		&r.CreatedAt, &r.CreatedBy, &r.LastUpdatedAt, &r.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan approval request", err)
	}
	if escalationReason != nil {
		r.EscalationReason = *escalationReason
	}
	if comment != nil {
		r.Comment = *comment
	}
	return &r, nil
}

func queueHistoryInsert(batch *pgx.Batch, h domain.ApprovalHistory) {
	query := `
		INSERT INTO approval_history (` + approvalHistoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch.Queue(query, h.HistoryID, h.RequestID, h.Action, h.FromStatus, h.ToStatus, h.ActorID, h.Comment, h.CreatedAt)
}

// SaveRequest persists a new request together with its initial SUBMIT history
// row in one transaction.
func (r *PgxApprovalRepository) SaveRequest(ctx context.Context, request domain.ApprovalRequest, history domain.ApprovalHistory) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO approval_requests (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = tx.Exec(ctx, query,
		request.RequestID, request.WorkplaceID, request.EntityType, request.EntityID,
		request.Amount, request.Level, request.Status,
		request.RequesterID, request.ApproverID, request.ActedAt, request.Priority, request.DueDate,
		request.EscalatedToID, request.EscalationReason, request.Comment,
		request.CreatedAt, request.CreatedBy, request.LastUpdatedAt, request.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert approval request "+request.RequestID, err)
	}

	batch := &pgx.Batch{}
	queueHistoryInsert(batch, history)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert approval history", err)
	}

	return r.Commit(ctx, tx)
}

// FindRequestByID retrieves an approval request by its unique identifier.
func (r *PgxApprovalRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE request_id = $1;`
	return scanApprovalRequest(r.Pool.QueryRow(ctx, query, requestID))
}

// FindRequestForUpdate retrieves and locks a request row inside tx.
func (r *PgxApprovalRepository) FindRequestForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.ApprovalRequest, error) {
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE request_id = $1 FOR UPDATE;`
	return scanApprovalRequest(tx.QueryRow(ctx, query, requestID))
}

// FindPendingRequestByEntity returns the live (PENDING or ESCALATED) request
// wrapping the given entity.
func (r *PgxApprovalRepository) FindPendingRequestByEntity(ctx context.Context, entityType domain.ApprovalEntityType, entityID string) (*domain.ApprovalRequest, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM approval_requests
		WHERE entity_type = $1 AND entity_id = $2 AND status IN ($3, $4)
		ORDER BY created_at DESC
		LIMIT 1;
	`
	return scanApprovalRequest(r.Pool.QueryRow(ctx, query, entityType, entityID,
		domain.ApprovalPending, domain.ApprovalEscalated))
}

// UpdateRequestInTx persists the mutated request inside tx.
func (r *PgxApprovalRepository) UpdateRequestInTx(ctx context.Context, tx pgx.Tx, request domain.ApprovalRequest) error {
	query := `
		UPDATE approval_requests
		SET status = $2, approver_id = $3, acted_at = $4,
		    escalated_to_id = $5, escalation_reason = $6, comment = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE request_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		request.RequestID, request.Status, request.ApproverID, request.ActedAt,
		request.EscalatedToID, request.EscalationReason, request.Comment,
		request.LastUpdatedAt, request.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update approval request "+request.RequestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// InsertHistoryInTx appends one audit row inside tx.
func (r *PgxApprovalRepository) InsertHistoryInTx(ctx context.Context, tx pgx.Tx, history domain.ApprovalHistory) error {
	query := `
		INSERT INTO approval_history (` + approvalHistoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := tx.Exec(ctx, query,
		history.HistoryID, history.RequestID, history.Action,
		history.FromStatus, history.ToStatus, history.ActorID, history.Comment, history.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert approval history", err)
	}
	return nil
}

func collectApprovalRequests(rows pgx.Rows) ([]domain.ApprovalRequest, error) {
	defer rows.Close()
	requests := []domain.ApprovalRequest{}
	for rows.Next() {
		request, err := scanApprovalRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating approval rows", err)
	}
	return requests, nil
}

// ListPendingRequests retrieves pending requests of a workplace, optionally
// filtered by level, urgent first.
func (r *PgxApprovalRepository) ListPendingRequests(ctx context.Context, workplaceID string, level *domain.ApprovalLevel, limit, offset int) ([]domain.ApprovalRequest, error) {
	args := []interface{}{workplaceID, domain.ApprovalPending}
	query := `SELECT ` + approvalColumns + ` FROM approval_requests WHERE workplace_id = $1 AND status = $2`
	if level != nil {
		args = append(args, *level)
		query += ` AND level = $3`
	}
	args = append(args, limit, offset)
	query += ` ORDER BY priority, due_date LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pending approvals", err)
	}
	return collectApprovalRequests(rows)
}

// ListOverdueRequests retrieves pending requests whose advisory due date has passed.
func (r *PgxApprovalRepository) ListOverdueRequests(ctx context.Context, workplaceID string, asOf time.Time) ([]domain.ApprovalRequest, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM approval_requests
		WHERE workplace_id = $1 AND status = $2 AND due_date < $3
		ORDER BY due_date;
	`
	rows, err := r.Pool.Query(ctx, query, workplaceID, domain.ApprovalPending, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query overdue approvals", err)
	}
	return collectApprovalRequests(rows)
}

// ListHistory retrieves the append-only audit trail of a request in
// chronological order.
func (r *PgxApprovalRepository) ListHistory(ctx context.Context, requestID string) ([]domain.ApprovalHistory, error) {
	query := `
		SELECT ` + approvalHistoryColumns + `
		FROM approval_history
		WHERE request_id = $1
		ORDER BY created_at, history_id;
	`
	rows, err := r.Pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approval history", err)
	}
	defer rows.Close()

	history := []domain.ApprovalHistory{}
	for rows.Next() {
		var h domain.ApprovalHistory
		var comment *string
		err := rows.Scan(&h.HistoryID, &h.RequestID, &h.Action, &h.FromStatus, &h.ToStatus, &h.ActorID, &comment, &h.CreatedAt)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan approval history row", err)
		}
		if comment != nil {
			h.Comment = *comment
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating approval history rows", err)
	}
	return history, nil
}
