package services

import (
	"context"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
)

// LedgerSvcFacade exposes read-only views over posted general ledger rows.
// External collaborators (document rendering, reconciliation) consume these
// and never mutate ledger state.
type LedgerSvcFacade interface {
	GetAccountLedger(ctx context.Context, workplaceID string, accountID string, params dto.ListLedgerParams, requestingUserID string) (*dto.ListLedgerResponse, error)
	GetAccountPeriodTotals(ctx context.Context, workplaceID string, accountID string, periodID string, requestingUserID string) (*domain.AccountPeriodTotals, error)
	GetTrialBalance(ctx context.Context, workplaceID string, requestingUserID string) ([]domain.TrialBalanceRow, error)
}
