package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// ApprovalReader defines read operations for approval request data
type ApprovalReader interface {
	// FindRequestByID retrieves an approval request by its unique identifier.
	FindRequestByID(ctx context.Context, requestID string) (*domain.ApprovalRequest, error)

	// FindPendingRequestByEntity returns the live (PENDING or ESCALATED)
	// request wrapping the given entity, or ErrNotFound.
	FindPendingRequestByEntity(ctx context.Context, entityType domain.ApprovalEntityType, entityID string) (*domain.ApprovalRequest, error)

	// ListPendingRequests retrieves pending requests of a workplace,
	// optionally filtered by level.
	ListPendingRequests(ctx context.Context, workplaceID string, level *domain.ApprovalLevel, limit, offset int) ([]domain.ApprovalRequest, error)

	// ListOverdueRequests retrieves pending requests whose advisory due date
	// has passed.
	ListOverdueRequests(ctx context.Context, workplaceID string, asOf time.Time) ([]domain.ApprovalRequest, error)

	// ListHistory retrieves the append-only audit trail of a request in
	// chronological order.
	ListHistory(ctx context.Context, requestID string) ([]domain.ApprovalHistory, error)
}

// ApprovalWriter defines write operations for approval request data. Status
// transitions happen under a row lock so concurrent actors serialize per request.
type ApprovalWriter interface {
	// SaveRequest persists a new request together with its initial SUBMIT
	// history row in one transaction.
	SaveRequest(ctx context.Context, request domain.ApprovalRequest, history domain.ApprovalHistory) error

	// FindRequestForUpdate retrieves and locks a request row inside tx.
	FindRequestForUpdate(ctx context.Context, tx pgx.Tx, requestID string) (*domain.ApprovalRequest, error)

	// UpdateRequestInTx persists the mutated request inside tx.
	UpdateRequestInTx(ctx context.Context, tx pgx.Tx, request domain.ApprovalRequest) error

	// InsertHistoryInTx appends one audit row inside tx.
	InsertHistoryInTx(ctx context.Context, tx pgx.Tx, history domain.ApprovalHistory) error
}

// ApprovalRepositoryFacade combines all approval-related repository interfaces.
type ApprovalRepositoryFacade interface {
	ApprovalReader
	ApprovalWriter
	TransactionManager
}
