package repositories

import (
	"context"
	"time"
)

// SequenceRepository issues document numbers from an atomic,
// persistence-backed counter scoped by (workplace, entity type, date).
type SequenceRepository interface {
	// NextSequence atomically increments and returns the counter value for
	// the given scope. Safe under concurrent callers.
	NextSequence(ctx context.Context, workplaceID string, entityType string, date time.Time) (int64, error)
}
