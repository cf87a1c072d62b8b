package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
	"github.com/traxel-labs/erp_ledger_app/internal/utils/accounting"
	"github.com/traxel-labs/erp_ledger_app/internal/utils/pagination"
)

const glColumns = `
	gl_entry_id, workplace_id, journal_id, line_id, account_id, period_id, entry_date,
	debit, credit, running_balance, cost_center, posted_by, posted_at`

// PgxLedgerRepository owns the general ledger table. Posting is the only code
// path that writes GL rows or account balances, and it runs as one
// serializable unit: journal row lock, account row locks, appends, balance
// updates, status flip.
type PgxLedgerRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxLedgerRepository creates a new repository for general ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// PostJournal posts an APPROVED journal inside one transaction.
func (r *PgxLedgerRepository) PostJournal(ctx context.Context, journalID string, postedBy string, now time.Time) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	journal, err := r.postJournalInTx(ctx, tx, journalID, postedBy, now)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return journal, nil
}

// postJournalInTx locks the journal, re-checks its status under the lock and
// appends its lines to the ledger.
func (r *PgxLedgerRepository) postJournalInTx(ctx context.Context, tx pgx.Tx, journalID string, postedBy string, now time.Time) (*domain.JournalEntry, error) {
	lockQuery := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1 FOR UPDATE;`
	journal, err := scanJournal(tx.QueryRow(ctx, lockQuery, journalID))
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.JournalApproved {
		// A concurrent poster got here first, or the journal never was approved.
		return nil, apperrors.ErrConflict
	}

	linesQuery := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_id = $1 ORDER BY line_no;`
	rows, err := tx.Query(ctx, linesQuery, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal "+journalID, err)
	}
	lines, err := collectLines(rows)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperrors.NewAppError(500, "journal "+journalID+" has no lines", nil)
	}

	if err := r.appendLinesToLedger(ctx, tx, journal, lines, postedBy, now); err != nil {
		return nil, err
	}

	statusQuery := `
		UPDATE journals
		SET status = $2, posted_by = $3, posted_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE journal_id = $1;
	`
	if _, err := tx.Exec(ctx, statusQuery, journalID, domain.JournalPosted, postedBy, now); err != nil {
		return nil, apperrors.NewAppError(500, "failed to mark journal posted "+journalID, err)
	}

	journal.Status = domain.JournalPosted
	journal.PostedBy = &postedBy
	journal.PostedAt = &now
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = postedBy
	journal.Lines = lines
	return journal, nil
}

// appendLinesToLedger locks the affected accounts in sorted id order, writes
// one GL row per line with the running balance after that line, and applies
// the accumulated balance deltas.
func (r *PgxLedgerRepository) appendLinesToLedger(ctx context.Context, tx pgx.Tx, journal *domain.JournalEntry, lines []domain.JournalLine, postedBy string, now time.Time) error {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		accountIDs = append(accountIDs, l.AccountID)
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	running := make(map[string]decimal.Decimal, len(lockedAccounts))
	balanceChanges := make(map[string]decimal.Decimal, len(lockedAccounts))
	for id, acc := range lockedAccounts {
		running[id] = acc.Balance
		balanceChanges[id] = decimal.Zero
	}

	insertQuery := `
		INSERT INTO general_ledger (` + glColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		account := lockedAccounts[line.AccountID]
		delta, err := accounting.LineDelta(line, account.AccountType)
		if err != nil {
			return apperrors.NewAppError(500, "failed to compute balance delta for line "+line.LineID, err)
		}
		running[line.AccountID] = running[line.AccountID].Add(delta)
		balanceChanges[line.AccountID] = balanceChanges[line.AccountID].Add(delta)

		batch.Queue(insertQuery,
			uuid.NewString(), journal.WorkplaceID, journal.JournalID, line.LineID,
			line.AccountID, journal.PeriodID, journal.JournalDate,
			line.Debit, line.Credit, running[line.AccountID], line.CostCenter,
			postedBy, now,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger rows for journal "+journal.JournalID, err)
	}

	return r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, postedBy, now)
}

// SaveAndPostReversal inserts a pre-approved reversal journal with its lines
// and posts it in the same transaction, marking the original reversed.
func (r *PgxLedgerRepository) SaveAndPostReversal(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalLine, originalJournalID string, postedBy string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Claim the original first; loses races with both double-reversal and a
	// concurrent reversal of the same journal.
	claimQuery := `
		UPDATE journals
		SET is_reversed = TRUE, reversed_by_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $1 AND status = $5 AND is_reversed = FALSE;
	`
	tag, err := tx.Exec(ctx, claimQuery, originalJournalID, reversal.JournalID, now, postedBy, domain.JournalPosted)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark journal reversed "+originalJournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	if err := insertJournalInTx(ctx, tx, reversal); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	queueLineInserts(batch, lines)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal "+reversal.JournalID, err)
	}

	if _, err := r.postJournalInTx(ctx, tx, reversal.JournalID, postedBy, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ListEntriesByAccount retrieves a page of GL rows in commit order using
// keyset pagination.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, workplaceID, accountID string, limit int, nextToken *string) ([]domain.GeneralLedgerEntry, *string, error) {
	args := []interface{}{workplaceID, accountID}
	query := `SELECT ` + glColumns + ` FROM general_ledger WHERE workplace_id = $1 AND account_id = $2`

	if nextToken != nil && *nextToken != "" {
		postedAt, entryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		args = append(args, postedAt, entryID)
		n := len(args)
		query += ` AND (posted_at, gl_entry_id) > ($` + strconv.Itoa(n-1) + `, $` + strconv.Itoa(n) + `)`
	}

	args = append(args, limit+1)
	query += ` ORDER BY posted_at, gl_entry_id LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries", err)
	}
	defer rows.Close()

	entries := []domain.GeneralLedgerEntry{}
	for rows.Next() {
		var e domain.GeneralLedgerEntry
		err := rows.Scan(
			&e.GLEntryID, &e.WorkplaceID, &e.JournalID, &e.LineID, &e.AccountID, &e.PeriodID, &e.EntryDate,
			&e.Debit, &e.Credit, &e.RunningBalance, &e.CostCenter, &e.PostedBy, &e.PostedAt,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed iterating ledger rows", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		t := pagination.EncodeToken(last.PostedAt, last.GLEntryID)
		token = &t
	}
	return entries, token, nil
}

// GetAccountPeriodTotals aggregates an account's posted activity inside a period.
func (r *PgxLedgerRepository) GetAccountPeriodTotals(ctx context.Context, workplaceID, accountID, periodID string) (*domain.AccountPeriodTotals, error) {
	var accountType domain.AccountType
	err := r.Pool.QueryRow(ctx, `SELECT account_type FROM accounts WHERE account_id = $1;`, accountID).Scan(&accountType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to load account type", err)
	}

	totals := &domain.AccountPeriodTotals{AccountID: accountID, PeriodID: periodID}
	sumQuery := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM general_ledger
		WHERE workplace_id = $1 AND account_id = $2 AND period_id = $3;
	`
	if err := r.Pool.QueryRow(ctx, sumQuery, workplaceID, accountID, periodID).Scan(&totals.TotalDebit, &totals.TotalCredit); err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate period totals", err)
	}

	closingQuery := `
		SELECT running_balance
		FROM general_ledger
		WHERE workplace_id = $1 AND account_id = $2 AND period_id = $3
		ORDER BY posted_at DESC, gl_entry_id DESC
		LIMIT 1;
	`
	err = r.Pool.QueryRow(ctx, closingQuery, workplaceID, accountID, periodID).Scan(&totals.ClosingBalance)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// Nothing posted in this period; the balance carried straight through.
		currentQuery := `
			SELECT running_balance
			FROM general_ledger
			WHERE workplace_id = $1 AND account_id = $2
			ORDER BY posted_at DESC, gl_entry_id DESC
			LIMIT 1;
		`
		err = r.Pool.QueryRow(ctx, currentQuery, workplaceID, accountID).Scan(&totals.ClosingBalance)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewAppError(500, "failed to load running balance", err)
		}
		totals.OpeningBalance = totals.ClosingBalance
		return totals, nil
	case err != nil:
		return nil, apperrors.NewAppError(500, "failed to load closing balance", err)
	}

	delta, err := accounting.SignedDelta(accountType, totals.TotalDebit, totals.TotalCredit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to compute period delta", err)
	}
	totals.OpeningBalance = totals.ClosingBalance.Sub(delta)
	return totals, nil
}

// GetTrialBalance returns per-account debit/credit aggregates for the workplace.
func (r *PgxLedgerRepository) GetTrialBalance(ctx context.Context, workplaceID string) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(gl.debit), 0), COALESCE(SUM(gl.credit), 0), a.balance
		FROM accounts a
		LEFT JOIN general_ledger gl ON gl.account_id = a.account_id
		WHERE a.workplace_id = $1 AND a.is_group = FALSE
		GROUP BY a.account_id, a.code, a.name, a.account_type, a.balance
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, workplaceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		err := rows.Scan(&row.AccountID, &row.Code, &row.Name, &row.AccountType,
			&row.TotalDebit, &row.TotalCredit, &row.Balance)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating trial balance rows", err)
	}
	return result, nil
}

// CountEntriesByAccount counts GL rows referencing the account.
func (r *PgxLedgerRepository) CountEntriesByAccount(ctx context.Context, accountID string) (int64, error) {
	var count int64
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM general_ledger WHERE account_id = $1;`, accountID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count ledger entries", err)
	}
	return count, nil
}
