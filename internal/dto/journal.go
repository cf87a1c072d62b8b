package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// JournalLineRequest is one debit-or-credit leg of a journal payload.
// Exactly one of Debit/Credit must be positive; the other must be zero or absent.
type JournalLineRequest struct {
	AccountID  string          `json:"accountID" binding:"required"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	CostCenter string          `json:"costCenter"`
	Narration  string          `json:"narration"`
}

// CreateJournalRequest is the payload for creating a draft journal entry.
type CreateJournalRequest struct {
	JournalDate time.Time            `json:"journalDate" binding:"required" time_format:"2006-01-02"`
	JournalType string               `json:"journalType"`
	Narration   string               `json:"narration" binding:"required"`
	Lines       []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalRequest carries the fields a DRAFT journal may change.
// Replacing lines re-validates the balance invariant.
type UpdateJournalRequest struct {
	JournalDate *time.Time           `json:"journalDate"`
	Narration   *string              `json:"narration"`
	Lines       []JournalLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// SubmitJournalRequest carries submission options.
type SubmitJournalRequest struct {
	Priority int `json:"priority" binding:"omitempty,min=1,max=10"`
}

// ApproveJournalRequest carries approval options.
type ApproveJournalRequest struct {
	Comment  string `json:"comment"`
	AutoPost bool   `json:"autoPost"`
}

// RejectJournalRequest carries the mandatory rejection reason.
type RejectJournalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReverseJournalRequest carries reversal parameters.
type ReverseJournalRequest struct {
	ReversalDate time.Time `json:"reversalDate" binding:"required" time_format:"2006-01-02"`
	Reason       string    `json:"reason" binding:"required"`
}

// JournalLineResponse is the API representation of a journal line.
type JournalLineResponse struct {
	LineID     string          `json:"lineID"`
	AccountID  string          `json:"accountID"`
	LineNo     int             `json:"lineNo"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	CostCenter string          `json:"costCenter,omitempty"`
	Narration  string          `json:"narration,omitempty"`
}

// JournalResponse is the API representation of a journal entry.
type JournalResponse struct {
	JournalID     string                `json:"journalID"`
	JournalNumber string                `json:"journalNumber"`
	JournalType   string                `json:"journalType"`
	JournalDate   time.Time             `json:"journalDate"`
	Narration     string                `json:"narration"`
	Status        string                `json:"status"`
	TotalDebit    decimal.Decimal       `json:"totalDebit"`
	TotalCredit   decimal.Decimal       `json:"totalCredit"`
	PeriodID      string                `json:"periodID"`
	IsReversed    bool                  `json:"isReversed"`
	ReversalOfID  *string               `json:"reversalOfID,omitempty"`
	ReversedByID  *string               `json:"reversedByID,omitempty"`
	CreatedBy     string                `json:"createdBy"`
	CreatedAt     time.Time             `json:"createdAt"`
	SubmittedBy   *string               `json:"submittedBy,omitempty"`
	ApprovedBy    *string               `json:"approvedBy,omitempty"`
	PostedBy      *string               `json:"postedBy,omitempty"`
	PostedAt      *time.Time            `json:"postedAt,omitempty"`
	Lines         []JournalLineResponse `json:"lines,omitempty"`
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	Limit        int     `form:"limit,default=20"`
	NextToken    *string `form:"nextToken"`
	Status       *string `form:"status"`
	IncludeLines bool    `form:"includeLines"`
}

// ListJournalsResponse wraps a page of journals with the next-page token.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine to its API representation.
func ToJournalLineResponse(l *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:     l.LineID,
		AccountID:  l.AccountID,
		LineNo:     l.LineNo,
		Debit:      l.Debit,
		Credit:     l.Credit,
		CostCenter: l.CostCenter,
		Narration:  l.Narration,
	}
}

// ToJournalResponse converts a domain.JournalEntry to its API representation.
func ToJournalResponse(j *domain.JournalEntry) JournalResponse {
	resp := JournalResponse{
		JournalID:     j.JournalID,
		JournalNumber: j.JournalNumber,
		JournalType:   string(j.JournalType),
		JournalDate:   j.JournalDate,
		Narration:     j.Narration,
		Status:        string(j.Status),
		TotalDebit:    j.TotalDebit,
		TotalCredit:   j.TotalCredit,
		PeriodID:      j.PeriodID,
		IsReversed:    j.IsReversed,
		ReversalOfID:  j.ReversalOfID,
		ReversedByID:  j.ReversedByID,
		CreatedBy:     j.CreatedBy,
		CreatedAt:     j.CreatedAt,
		SubmittedBy:   j.SubmittedBy,
		ApprovedBy:    j.ApprovedBy,
		PostedBy:      j.PostedBy,
		PostedAt:      j.PostedAt,
	}
	for i := range j.Lines {
		resp.Lines = append(resp.Lines, ToJournalLineResponse(&j.Lines[i]))
	}
	return resp
}
