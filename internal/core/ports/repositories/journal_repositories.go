package repositories

import (
	"context"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListJournalsByWorkplace retrieves a paginated list of journals for a
	// given workplace using token-based pagination, optionally filtered by status.
	ListJournalsByWorkplace(ctx context.Context, workplaceID string, status *domain.JournalStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a new journal and its lines atomically.
	SaveJournal(ctx context.Context, journal domain.JournalEntry, lines []domain.JournalLine) error

	// ReplaceJournalLines atomically replaces a draft journal's lines and
	// updates its header (totals, date, narration).
	ReplaceJournalLines(ctx context.Context, journal domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateJournalWorkflow persists workflow fields (status, submitter,
	// approver, rejection reason, approval linkage). The update is conditional
	// on the journal still being in expectedStatus; a concurrent transition
	// surfaces as a state conflict.
	UpdateJournalWorkflow(ctx context.Context, journal domain.JournalEntry, expectedStatus domain.JournalStatus) error

	// DeleteJournal removes a DRAFT journal and its lines.
	DeleteJournal(ctx context.Context, journalID string) error
}

// JournalLineReader defines read operations for journal line data
type JournalLineReader interface {
	// FindLinesByJournalID retrieves all lines of a single journal ordered by line number.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// FindLinesByJournalIDs retrieves lines for multiple journals, grouped by journal ID.
	FindLinesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalLine, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalLineReader
}
