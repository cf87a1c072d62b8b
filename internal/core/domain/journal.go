package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry in its approval and
// posting lifecycle.
type JournalStatus string

const (
	JournalDraft           JournalStatus = "DRAFT"
	JournalPendingApproval JournalStatus = "PENDING_APPROVAL"
	JournalApproved        JournalStatus = "APPROVED"
	JournalPosted          JournalStatus = "POSTED" // Terminal
	JournalRejected        JournalStatus = "REJECTED"
	JournalCancelled       JournalStatus = "CANCELLED" // Terminal
)

// JournalType classifies the business origin of a journal entry.
type JournalType string

const (
	JournalTypeManual     JournalType = "MANUAL"
	JournalTypeSales      JournalType = "SALES"
	JournalTypePurchase   JournalType = "PURCHASE"
	JournalTypeAdjustment JournalType = "ADJUSTMENT"
	JournalTypeReversal   JournalType = "REVERSAL"
)

// JournalEntry represents a single balanced financial event composed of
// multiple lines. It is owned by the journal service until POSTED, after
// which it is immutable except for reversal linkage.
type JournalEntry struct {
	JournalID     string          `json:"journalID"`
	WorkplaceID   string          `json:"workplaceID"`
	JournalNumber string          `json:"journalNumber"` // Per-day sequence, e.g. JV-20260901-0007
	JournalType   JournalType     `json:"journalType"`
	JournalDate   time.Time       `json:"journalDate"`
	Narration     string          `json:"narration"`
	Status        JournalStatus   `json:"status"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	PeriodID      string          `json:"periodID"`

	SubmittedBy *string    `json:"submittedBy,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	ApprovedBy  *string    `json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	PostedBy    *string    `json:"postedBy,omitempty"`
	PostedAt    *time.Time `json:"postedAt,omitempty"`

	RejectionReason string `json:"rejectionReason,omitempty"`

	// Reversal linkage. A reversal entry points back via ReversalOfID; the
	// original keeps its POSTED status and gets IsReversed plus ReversedByID.
	IsReversed   bool    `json:"isReversed"`
	ReversalOfID *string `json:"reversalOfID,omitempty"`
	ReversedByID *string `json:"reversedByID,omitempty"`

	Lines []JournalLine `json:"lines,omitempty"` // Loaded explicitly, not lazily

	AuditFields
}

// JournalLine is a single debit-or-credit leg of a journal entry. Exactly one
// of Debit/Credit is non-zero. Lines are replaced atomically with their parent
// entry and never mutated individually once the entry leaves DRAFT.
type JournalLine struct {
	LineID     string          `json:"lineID"`
	JournalID  string          `json:"journalID"`
	AccountID  string          `json:"accountID"`
	LineNo     int             `json:"lineNo"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	CostCenter string          `json:"costCenter,omitempty"`
	Narration  string          `json:"narration,omitempty"`
	AuditFields
}

// IsDebit reports whether the line carries its amount on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
