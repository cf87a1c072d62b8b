package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// LedgerEntryResponse is the API representation of one general ledger row.
type LedgerEntryResponse struct {
	GLEntryID      string          `json:"glEntryID"`
	JournalID      string          `json:"journalID"`
	AccountID      string          `json:"accountID"`
	PeriodID       string          `json:"periodID"`
	EntryDate      time.Time       `json:"entryDate"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	CostCenter     string          `json:"costCenter,omitempty"`
	PostedAt       time.Time       `json:"postedAt"`
}

// ListLedgerParams holds pagination parameters for an account's ledger.
type ListLedgerParams struct {
	Limit     int     `form:"limit,default=50"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerResponse wraps a page of GL rows with the next-page token.
type ListLedgerResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// PeriodTotalsResponse aggregates one account's activity inside a period.
type PeriodTotalsResponse struct {
	AccountID      string          `json:"accountID"`
	PeriodID       string          `json:"periodID"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// TrialBalanceRowResponse is one account's aggregate position.
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType string          `json:"accountType"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse is the full trial balance of a workplace.
type TrialBalanceResponse struct {
	Rows []TrialBalanceRowResponse `json:"rows"`
}

// ToLedgerEntryResponses converts GL rows to their API representation.
func ToLedgerEntryResponses(entries []domain.GeneralLedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			GLEntryID:      e.GLEntryID,
			JournalID:      e.JournalID,
			AccountID:      e.AccountID,
			PeriodID:       e.PeriodID,
			EntryDate:      e.EntryDate,
			Debit:          e.Debit,
			Credit:         e.Credit,
			RunningBalance: e.RunningBalance,
			CostCenter:     e.CostCenter,
			PostedAt:       e.PostedAt,
		}
	}
	return out
}

// ToTrialBalanceResponse converts trial balance rows.
func ToTrialBalanceResponse(rows []domain.TrialBalanceRow) TrialBalanceResponse {
	resp := TrialBalanceResponse{Rows: make([]TrialBalanceRowResponse, len(rows))}
	for i, r := range rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			Code:        r.Code,
			Name:        r.Name,
			AccountType: string(r.AccountType),
			TotalDebit:  r.TotalDebit,
			TotalCredit: r.TotalCredit,
			Balance:     r.Balance,
		}
	}
	return resp
}
