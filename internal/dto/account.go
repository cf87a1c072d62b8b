package dto

import (
	"github.com/shopspring/decimal"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// CreateAccountRequest is the payload for creating a chart-of-accounts node.
type CreateAccountRequest struct {
	Code            string `json:"code" binding:"required"`
	Name            string `json:"name" binding:"required"`
	AccountType     string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	SubType         string `json:"subType"`
	ParentAccountID string `json:"parentAccountID"`
	Description     string `json:"description"`
	IsGroup         bool   `json:"isGroup"`
}

// UpdateAccountRequest carries the mutable account fields.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	SubType     *string `json:"subType"`
	Description *string `json:"description"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     string          `json:"accountType"`
	SubType         string          `json:"subType,omitempty"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	Description     string          `json:"description,omitempty"`
	IsGroup         bool            `json:"isGroup"`
	IsSystem        bool            `json:"isSystem"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"`
}

// AccountNodeResponse is one node of the hierarchical chart-of-accounts view.
type AccountNodeResponse struct {
	AccountResponse
	Children []AccountNodeResponse `json:"children,omitempty"`
}

// ListAccountsParams holds pagination parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to its API representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		SubType:         a.SubType,
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		IsGroup:         a.IsGroup,
		IsSystem:        a.IsSystem,
		IsActive:        a.IsActive,
		Balance:         a.Balance,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}

// ToAccountNodeResponse converts a resolved tree node recursively.
func ToAccountNodeResponse(n *domain.AccountNode) AccountNodeResponse {
	resp := AccountNodeResponse{AccountResponse: ToAccountResponse(&n.Account)}
	for _, child := range n.Children {
		resp.Children = append(resp.Children, ToAccountNodeResponse(child))
	}
	return resp
}
