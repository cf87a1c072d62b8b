package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
)

type PgxSequenceRepository struct {
	BaseRepository
}

// newPgxSequenceRepository creates a new repository for document number sequences.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextSequence atomically increments and returns the counter for a
// (workplace, entity type, date) scope. The upsert serializes concurrent
// callers on the counter row, so two journals created the same day can never
// share a number.
func (r *PgxSequenceRepository) NextSequence(ctx context.Context, workplaceID string, entityType string, date time.Time) (int64, error) {
	query := `
		INSERT INTO document_sequences (workplace_id, entity_type, sequence_date, last_value)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (workplace_id, entity_type, sequence_date)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	day := date.Truncate(24 * time.Hour)
	if err := r.Pool.QueryRow(ctx, query, workplaceID, entityType, day).Scan(&value); err != nil {
		return 0, apperrors.NewAppError(500, "failed to advance document sequence", err)
	}
	return value, nil
}
