package services

import (
	"context"
	"iter"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
)

// AccountSvcFacade defines the chart-of-accounts registry operations.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, workplaceID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, workplaceID string, accountID string, requestingUserID string) (*domain.Account, error)
	GetAccountByIDs(ctx context.Context, workplaceID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, workplaceID string, params dto.ListAccountsParams, requestingUserID string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, workplaceID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, workplaceID string, accountID string, requestingUserID string) error
	DeleteAccount(ctx context.Context, workplaceID string, accountID string, requestingUserID string) error

	// AccountTree returns a lazy depth-first traversal over the workplace's
	// chart of accounts. The sequence is restartable; each range starts a
	// fresh walk.
	AccountTree(ctx context.Context, workplaceID string, requestingUserID string) (iter.Seq[*domain.AccountNode], error)
}
