package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)
	return &portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		PeriodRepo:    newPgxPeriodRepository(pool),
		JournalRepo:   newPgxJournalRepository(pool),
		LedgerRepo:    newPgxLedgerRepository(pool, accountRepo),
		ApprovalRepo:  newPgxApprovalRepository(pool),
		SequenceRepo:  newPgxSequenceRepository(pool),
		UserRepo:      newPgxUserRepository(pool),
		WorkplaceRepo: newPgxWorkplaceRepository(pool),
	}
}
