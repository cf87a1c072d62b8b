package repositories

import (
	"context"
	"time"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// LedgerPoster defines the write side of the general ledger. It is the only
// component permitted to append GL rows and mutate account balances, and each
// method is a single all-or-nothing database transaction.
type LedgerPoster interface {
	// PostJournal posts an APPROVED journal: locks the journal row, re-checks
	// its status under the lock, locks the affected accounts, appends one GL
	// row per line carrying the running balance after that line, applies the
	// balance deltas and transitions the journal to POSTED.
	PostJournal(ctx context.Context, journalID string, postedBy string, now time.Time) (*domain.JournalEntry, error)

	// SaveAndPostReversal inserts a pre-approved reversal journal with its
	// lines and posts it in the same transaction, marking the original
	// journal reversed with back/forward links.
	SaveAndPostReversal(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalLine, originalJournalID string, postedBy string, now time.Time) error
}

// LedgerReader defines read operations over posted general ledger rows.
type LedgerReader interface {
	// ListEntriesByAccount retrieves a paginated list of GL rows for an
	// account in commit order using token-based pagination.
	ListEntriesByAccount(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error)

	// GetAccountPeriodTotals aggregates an account's posted activity inside a period.
	GetAccountPeriodTotals(ctx context.Context, workplaceID, accountID, periodID string) (*domain.AccountPeriodTotals, error)

	// GetTrialBalance returns per-account debit/credit aggregates for the workplace.
	GetTrialBalance(ctx context.Context, workplaceID string) ([]domain.TrialBalanceRow, error)

	// CountEntriesByAccount counts GL rows referencing the account, used by
	// the account deletion guard.
	CountEntriesByAccount(ctx context.Context, accountID string) (int64, error)
}

// LedgerRepositoryFacade combines the posting and reading sides of the ledger.
type LedgerRepositoryFacade interface {
	LedgerPoster
	LedgerReader
}
