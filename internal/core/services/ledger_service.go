package services

import (
	"context"
	"fmt"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
)

// ledgerService exposes read-only views over posted GL rows.
type ledgerService struct {
	ledgerRepo   portsrepo.LedgerReader
	accountRepo  portsrepo.AccountReader
	workplaceSvc portssvc.WorkplaceAuthorizerSvc
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerReader, accountRepo portsrepo.AccountReader, workplaceSvc portssvc.WorkplaceAuthorizerSvc) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:   ledgerRepo,
		accountRepo:  accountRepo,
		workplaceSvc: workplaceSvc,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) requireOwnedAccount(ctx context.Context, workplaceID, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.WorkplaceID != workplaceID {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetAccountLedger returns an account's GL rows in commit order.
func (s *ledgerService) GetAccountLedger(ctx context.Context, workplaceID string, accountID string, params dto.ListLedgerParams, requestingUserID string) (*dto.ListLedgerResponse, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if err := s.requireOwnedAccount(ctx, workplaceID, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, workplaceID, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return &dto.ListLedgerResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// GetAccountPeriodTotals aggregates an account's posted activity in a period.
func (s *ledgerService) GetAccountPeriodTotals(ctx context.Context, workplaceID string, accountID string, periodID string, requestingUserID string) (*domain.AccountPeriodTotals, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	if err := s.requireOwnedAccount(ctx, workplaceID, accountID); err != nil {
		return nil, err
	}

	totals, err := s.ledgerRepo.GetAccountPeriodTotals(ctx, workplaceID, accountID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate period totals: %w", err)
	}
	return totals, nil
}

// GetTrialBalance returns per-account aggregates for the whole workplace.
func (s *ledgerService) GetTrialBalance(ctx context.Context, workplaceID string, requestingUserID string) ([]domain.TrialBalanceRow, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	rows, err := s.ledgerRepo.GetTrialBalance(ctx, workplaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute trial balance: %w", err)
	}
	return rows, nil
}
