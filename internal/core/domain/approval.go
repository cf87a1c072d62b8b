package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalLevel is the authorization tier required for a request, derived
// from its monetary amount.
type ApprovalLevel string

const (
	ApprovalLevel1 ApprovalLevel = "LEVEL_1"
	ApprovalLevel2 ApprovalLevel = "LEVEL_2"
	ApprovalLevel3 ApprovalLevel = "LEVEL_3"
)

// ApprovalStatus is the state of an approval request. All states except
// PENDING and ESCALATED are terminal; ESCALATED may be re-targeted back to
// PENDING by an explicit reassignment.
type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "PENDING"
	ApprovalApproved  ApprovalStatus = "APPROVED"
	ApprovalRejected  ApprovalStatus = "REJECTED"
	ApprovalEscalated ApprovalStatus = "ESCALATED"
	ApprovalCancelled ApprovalStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are permitted from s.
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected || s == ApprovalCancelled
}

// ApprovalAction names a transition recorded in the approval history.
type ApprovalAction string

const (
	ActionSubmit   ApprovalAction = "SUBMIT"
	ActionApprove  ApprovalAction = "APPROVE"
	ActionReject   ApprovalAction = "REJECT"
	ActionEscalate ApprovalAction = "ESCALATE"
	ActionReassign ApprovalAction = "REASSIGN"
	ActionCancel   ApprovalAction = "CANCEL"
)

// ApprovalEntityType identifies the kind of entity an approval request wraps.
// The engine itself is entity-agnostic; these are the types the host system
// currently routes through it.
type ApprovalEntityType string

const (
	EntityJournalEntry  ApprovalEntityType = "JOURNAL_ENTRY"
	EntityPurchaseOrder ApprovalEntityType = "PURCHASE_ORDER"
	EntityVendor        ApprovalEntityType = "VENDOR"
)

// ApprovalRequest is a generic maker-checker envelope over any
// (entity type, entity id) pair. The requester may never act as approver.
type ApprovalRequest struct {
	RequestID   string             `json:"requestID"`
	WorkplaceID string             `json:"workplaceID"`
	EntityType  ApprovalEntityType `json:"entityType"`
	EntityID    string             `json:"entityID"`
	Amount      decimal.Decimal    `json:"amount"`
	Level       ApprovalLevel      `json:"level"`
	Status      ApprovalStatus     `json:"status"`
	RequesterID string             `json:"requesterID"`
	// ApproverID is the user who actually acted on the request (approve or
	// reject); nil while pending.
	ApproverID *string    `json:"approverID,omitempty"`
	ActedAt    *time.Time `json:"actedAt,omitempty"`
	Priority   int        `json:"priority"` // 1 (urgent) .. 10 (routine)
	DueDate    time.Time  `json:"dueDate"`  // Advisory SLA marker, never enforced

	EscalatedToID    *string `json:"escalatedToID,omitempty"`
	EscalationReason string  `json:"escalationReason,omitempty"`
	Comment          string  `json:"comment,omitempty"`

	AuditFields
}

// ApprovalHistory is one immutable audit row recording a single status
// transition of an approval request.
type ApprovalHistory struct {
	HistoryID  string         `json:"historyID"`
	RequestID  string         `json:"requestID"`
	Action     ApprovalAction `json:"action"`
	FromStatus ApprovalStatus `json:"fromStatus"`
	ToStatus   ApprovalStatus `json:"toStatus"`
	ActorID    string         `json:"actorID"`
	Comment    string         `json:"comment,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// BulkActionResult reports the outcome of one item inside a bulk approval
// operation. Bulk operations never fail wholesale; each id succeeds or fails
// independently.
type BulkActionResult struct {
	RequestID string `json:"requestID"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}
