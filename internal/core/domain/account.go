package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the closed set of account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a node in the chart-of-accounts tree. Group accounts aggregate
// their children and never receive postings; the running Balance is mutated
// exclusively by the general ledger posting transaction.
type Account struct {
	AccountID       string          `json:"accountID"`
	WorkplaceID     string          `json:"workplaceID"`
	Code            string          `json:"code"` // Unique within the workplace
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	SubType         string          `json:"subType,omitempty"` // Optional free-form classification
	ParentAccountID string          `json:"parentAccountID"`   // Empty for root accounts
	Description     string          `json:"description"`
	IsGroup         bool            `json:"isGroup"`  // Non-postable aggregator
	IsSystem        bool            `json:"isSystem"` // Seeded by the system, undeletable
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"`
	AuditFields
}

// AccountNode is an account with its resolved children, produced by the
// depth-first tree traversal.
type AccountNode struct {
	Account
	Children []*AccountNode `json:"children,omitempty"`
}
