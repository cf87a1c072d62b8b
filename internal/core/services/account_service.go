package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/traxel-labs/erp_ledger_app/internal/apperrors"
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	portsrepo "github.com/traxel-labs/erp_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/traxel-labs/erp_ledger_app/internal/core/ports/services"
	"github.com/traxel-labs/erp_ledger_app/internal/dto"
	"github.com/traxel-labs/erp_ledger_app/internal/middleware"
)

var (
	ErrAccountHasBalance  = errors.New("account has a non-zero balance and cannot be deleted")
	ErrAccountHasEntries  = errors.New("account has ledger entries and cannot be deleted")
	ErrAccountHasChildren = errors.New("account has child accounts and cannot be deleted")
	ErrParentNotGroup     = errors.New("parent account must be a group account")
	ErrSystemAccount      = errors.New("system accounts cannot be deleted")
)

// accountService owns the chart-of-accounts tree. Account balances are never
// mutated here; only the ledger posting transaction writes them.
type accountService struct {
	accountRepo  portsrepo.AccountRepositoryFacade
	ledgerRepo   portsrepo.LedgerReader
	workplaceSvc portssvc.WorkplaceAuthorizerSvc
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerReader, workplaceSvc portssvc.WorkplaceAuthorizerSvc) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		ledgerRepo:   ledgerRepo,
		workplaceSvc: workplaceSvc,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a chart-of-accounts node. Admins only.
func (s *accountService) CreateAccount(ctx context.Context, workplaceID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, creatorUserID, workplaceID, domain.RoleAdmin); err != nil {
		logger.Warn("Authorization failed for CreateAccount", slog.String("error", err.Error()))
		return nil, err
	}

	accountType := domain.AccountType(req.AccountType)
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: invalid account type %s", apperrors.ErrValidation, req.AccountType)
	}

	// Duplicate code check within the workplace.
	existing, err := s.accountRepo.FindAccountByCode(ctx, workplaceID, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
	}

	// Parent must exist in the same workplace and be a group account.
	if req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if parent.WorkplaceID != workplaceID {
			return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, req.ParentAccountID)
		}
		if !parent.IsGroup {
			return nil, fmt.Errorf("%w: account %s", ErrParentNotGroup, req.ParentAccountID)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		WorkplaceID:     workplaceID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     accountType,
		SubType:         req.SubType,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsGroup:         req.IsGroup,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves an account, verifying workplace ownership.
func (s *accountService) GetAccountByID(ctx context.Context, workplaceID string, accountID string, requestingUserID string) (*domain.Account, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.WorkplaceID != workplaceID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountByIDs retrieves multiple accounts, verifying workplace ownership.
func (s *accountService) GetAccountByIDs(ctx context.Context, workplaceID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	for id, acc := range accounts {
		if acc.WorkplaceID != workplaceID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves a page of accounts.
func (s *accountService) ListAccounts(ctx context.Context, workplaceID string, params dto.ListAccountsParams, requestingUserID string) ([]domain.Account, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, workplaceID, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount updates mutable account fields (name, sub-type, description).
func (s *accountService) UpdateAccount(ctx context.Context, workplaceID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.WorkplaceID != workplaceID {
		return nil, apperrors.ErrNotFound
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.SubType != nil {
		account.SubType = *req.SubType
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if !updated {
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount marks an account inactive without deleting it.
func (s *accountService) DeactivateAccount(ctx context.Context, workplaceID string, accountID string, requestingUserID string) error {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleAdmin); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.WorkplaceID != workplaceID {
		return apperrors.ErrNotFound
	}

	return s.accountRepo.DeactivateAccount(ctx, accountID, requestingUserID, time.Now().UTC())
}

// DeleteAccount removes an account. Fails if the account has a balance,
// ledger entries, children, or is a system account.
func (s *accountService) DeleteAccount(ctx context.Context, workplaceID string, accountID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleAdmin); err != nil {
		return err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.WorkplaceID != workplaceID {
		return apperrors.ErrNotFound
	}

	if account.IsSystem {
		return fmt.Errorf("%w: account %s", ErrSystemAccount, account.Code)
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: balance is %s", ErrAccountHasBalance, account.Balance.String())
	}

	entryCount, err := s.ledgerRepo.CountEntriesByAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to count ledger entries for account %s: %w", accountID, err)
	}
	if entryCount > 0 {
		return fmt.Errorf("%w: %d entries", ErrAccountHasEntries, entryCount)
	}

	hasChildren, err := s.accountRepo.HasChildAccounts(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check child accounts for %s: %w", accountID, err)
	}
	if hasChildren {
		return ErrAccountHasChildren
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	return nil
}

// AccountTree returns a lazy depth-first walk of the workplace's chart of
// accounts. Children are visited in code order. The returned sequence is
// restartable: each range starts a fresh traversal over the same snapshot.
func (s *accountService) AccountTree(ctx context.Context, workplaceID string, requestingUserID string) (iter.Seq[*domain.AccountNode], error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, workplaceID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAllAccounts(ctx, workplaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for tree: %w", err)
	}

	nodes := make(map[string]*domain.AccountNode, len(accounts))
	for i := range accounts {
		nodes[accounts[i].AccountID] = &domain.AccountNode{Account: accounts[i]}
	}

	var roots []*domain.AccountNode
	for _, node := range nodes {
		if node.ParentAccountID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[node.ParentAccountID]
		if !ok {
			// Orphaned parent reference; surface the node at the root rather
			// than dropping it from the view.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	sortNodes(roots)
	for _, node := range nodes {
		sortNodes(node.Children)
	}

	return func(yield func(*domain.AccountNode) bool) {
		stack := make([]*domain.AccountNode, len(roots))
		for i := range roots {
			stack[len(roots)-1-i] = roots[i]
		}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(node) {
				return
			}
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, node.Children[i])
			}
		}
	}, nil
}

func sortNodes(nodes []*domain.AccountNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Code < nodes[j].Code
	})
}
