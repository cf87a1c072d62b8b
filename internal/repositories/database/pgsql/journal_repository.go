package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
	"github.com/traxel-labs/erp_ledger_app/internal/utils/pagination"
)

const journalColumns = `
	journal_id, workplace_id, journal_number, journal_type, journal_date, narration, status,
	total_debit, total_credit, period_id,
	submitted_by, submitted_at, approved_by, approved_at, posted_by, posted_at,
	rejection_reason, is_reversed, reversal_of_id, reversed_by_id,
	created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `
	line_id, journal_id, account_id, line_no, debit, credit, cost_center, narration,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (*domain.JournalEntry, error) {
	var j domain.JournalEntry
	var rejectionReason *string
	err := row.Scan(
		&j.JournalID, &j.WorkplaceID, &j.JournalNumber, &j.JournalType, &j.JournalDate, &j.Narration, &j.Status,
		&j.TotalDebit, &j.TotalCredit, &j.PeriodID,
		&j.SubmittedBy, &j.SubmittedAt, &j.ApprovedBy, &j.ApprovedAt, &j.PostedBy, &j.PostedAt,
		&rejectionReason, &j.IsReversed, &j.ReversalOfID, &j.ReversedByID,
		&j.CreatedAt, &j.CreatedBy, &j.LastUpdatedAt, &j.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan journal", err)
	}
	if rejectionReason != nil {
		j.RejectionReason = *rejectionReason
	}
	return &j, nil
}

func scanJournalLine(row pgx.Row) (*domain.JournalLine, error) {
	var l domain.JournalLine
	err := row.Scan(
		&l.LineID, &l.JournalID, &l.AccountID, &l.LineNo, &l.Debit, &l.Credit, &l.CostCenter, &l.Narration,
		&l.CreatedAt, &l.CreatedBy, &l.LastUpdatedAt, &l.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan journal line", err)
	}
	return &l, nil
}

func queueLineInserts(batch *pgx.Batch, lines []domain.JournalLine) {
	query := `
		INSERT INTO journal_lines (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, l := range lines {
		batch.Queue(query,
			l.LineID, l.JournalID, l.AccountID, l.LineNo, l.Debit, l.Credit, l.CostCenter, l.Narration,
			l.CreatedAt, l.CreatedBy, l.LastUpdatedAt, l.LastUpdatedBy,
		)
	}
}

// SaveJournal persists a new journal and its lines atomically. No balances are
// touched here; the ledger only moves when the journal is posted.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertJournalInTx(ctx, tx, journal); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, lines)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal "+journal.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

func insertJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.JournalEntry) error {
	query := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := tx.Exec(ctx, query,
		journal.JournalID, journal.WorkplaceID, journal.JournalNumber, journal.JournalType,
		journal.JournalDate, journal.Narration, journal.Status,
		journal.TotalDebit, journal.TotalCredit, journal.PeriodID,
		journal.SubmittedBy, journal.SubmittedAt, journal.ApprovedBy, journal.ApprovedAt,
		journal.PostedBy, journal.PostedAt,
		journal.RejectionReason, journal.IsReversed, journal.ReversalOfID, journal.ReversedByID,
		journal.CreatedAt, journal.CreatedBy, journal.LastUpdatedAt, journal.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal "+journal.JournalID, err)
	}
	return nil
}

// ReplaceJournalLines atomically replaces a draft journal's lines and updates
// its header.
func (r *PgxJournalRepository) ReplaceJournalLines(ctx context.Context, journal domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	headerQuery := `
		UPDATE journals
		SET journal_date = $2, narration = $3, total_debit = $4, total_credit = $5,
		    period_id = $6, last_updated_at = $7, last_updated_by = $8
		WHERE journal_id = $1;
	`
	tag, err := tx.Exec(ctx, headerQuery,
		journal.JournalID, journal.JournalDate, journal.Narration,
		journal.TotalDebit, journal.TotalCredit, journal.PeriodID,
		journal.LastUpdatedAt, journal.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal "+journal.JournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, journal.JournalID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for journal "+journal.JournalID, err)
	}

	batch := &pgx.Batch{}
	queueLineInserts(batch, lines)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal "+journal.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateJournalWorkflow persists workflow fields conditionally on the journal
// still being in expectedStatus.
func (r *PgxJournalRepository) UpdateJournalWorkflow(ctx context.Context, journal domain.JournalEntry, expectedStatus domain.JournalStatus) error {
	query := `
		UPDATE journals
		SET status = $3,
		    submitted_by = $4, submitted_at = $5,
		    approved_by = $6, approved_at = $7,
		    posted_by = $8, posted_at = $9,
		    rejection_reason = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE journal_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		journal.JournalID, expectedStatus, journal.Status,
		journal.SubmittedBy, journal.SubmittedAt,
		journal.ApprovedBy, journal.ApprovedAt,
		journal.PostedBy, journal.PostedAt,
		journal.RejectionReason,
		journal.LastUpdatedAt, journal.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal workflow "+journal.JournalID, err)
	}
	if tag.RowsAffected() == 0 {
		// Lost the race to a concurrent transition.
		return apperrors.ErrConflict
	}
	return nil
}

// DeleteJournal removes a DRAFT journal and its lines.
func (r *PgxJournalRepository) DeleteJournal(ctx context.Context, journalID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, journalID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for journal "+journalID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM journals WHERE journal_id = $1;`, journalID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete journal "+journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// FindJournalByID retrieves a specific journal by its unique identifier.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`
	return scanJournal(r.Pool.QueryRow(ctx, query, journalID))
}

// FindLinesByJournalID retrieves all lines of a single journal ordered by line number.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_id = $1 ORDER BY line_no;`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal "+journalID, err)
	}
	return collectLines(rows)
}

// FindLinesByJournalIDs retrieves lines for multiple journals, grouped by journal ID.
func (r *PgxJournalRepository) FindLinesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalLine, error) {
	if len(journalIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}
	query := `SELECT ` + journalLineColumns + ` FROM journal_lines WHERE journal_id = ANY($1) ORDER BY journal_id, line_no;`
	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", err)
	}
	lines, err := collectLines(rows)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]domain.JournalLine, len(journalIDs))
	for _, l := range lines {
		grouped[l.JournalID] = append(grouped[l.JournalID], l)
	}
	return grouped, nil
}

func collectLines(rows pgx.Rows) ([]domain.JournalLine, error) {
	defer rows.Close()
	lines := []domain.JournalLine{}
	for rows.Next() {
		line, err := scanJournalLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed iterating journal line rows", err)
	}
	return lines, nil
}

// ListJournalsByWorkplace retrieves a page of journals in reverse creation
// order using keyset pagination.
func (r *PgxJournalRepository) ListJournalsByWorkplace(ctx context.Context, workplaceID string, status *domain.JournalStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := []interface{}{workplaceID}
	query := `SELECT ` + journalColumns + ` FROM journals WHERE workplace_id = $1`

	if status != nil {
		args = append(args, *status)
		query += ` AND status = $2`
	}

	if nextToken != nil && *nextToken != "" {
		createdAt, journalID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		args = append(args, createdAt, journalID)
		n := len(args)
		query += ` AND (created_at, journal_id) < ($` + strconv.Itoa(n-1) + `, $` + strconv.Itoa(n) + `)`
	}

	args = append(args, limit+1)
	query += ` ORDER BY created_at DESC, journal_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals", err)
	}
	defer rows.Close()

	journals := []domain.JournalEntry{}
	for rows.Next() {
		journal, err := scanJournal(rows)
		if err != nil {
			return nil, nil, err
		}
		journals = append(journals, *journal)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed iterating journal rows", err)
	}

	var token *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[limit-1]
		t := pagination.EncodeToken(last.CreatedAt, last.JournalID)
		token = &t
	}
	return journals, token, nil
}
