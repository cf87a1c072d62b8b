package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralLedgerEntry is one immutable, append-only ledger row produced when a
// journal line is posted. RunningBalance is the account balance after this
// row is applied; rows for one account reflect commit order.
type GeneralLedgerEntry struct {
	GLEntryID   string          `json:"glEntryID"`
	WorkplaceID string          `json:"workplaceID"`
	JournalID   string          `json:"journalID"`
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	PeriodID    string          `json:"periodID"`
	EntryDate   time.Time       `json:"entryDate"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	// Balance of the account after applying this row.
	RunningBalance decimal.Decimal `json:"runningBalance"`
	CostCenter     string          `json:"costCenter,omitempty"`
	PostedBy       string          `json:"postedBy"`
	PostedAt       time.Time       `json:"postedAt"`
}

// AccountPeriodTotals aggregates posted activity of one account inside one
// financial period.
type AccountPeriodTotals struct {
	AccountID      string          `json:"accountID"`
	PeriodID       string          `json:"periodID"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// TrialBalanceRow is one account's aggregate debit/credit position, used by
// read-only reporting consumers.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
}
