package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// SubmitApprovalRequest is the payload for routing an entity through the
// approval engine.
type SubmitApprovalRequest struct {
	EntityType string          `json:"entityType" binding:"required"`
	EntityID   string          `json:"entityID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Priority   int             `json:"priority" binding:"omitempty,min=1,max=10"`
}

// ApprovalActionRequest carries an optional comment for approve/reject/cancel.
type ApprovalActionRequest struct {
	Comment string `json:"comment"`
}

// RejectApprovalRequest carries the mandatory rejection reason.
type RejectApprovalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// EscalateApprovalRequest targets an escalation at a specific user.
type EscalateApprovalRequest struct {
	TargetUserID string `json:"targetUserID" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
}

// BulkApprovalRequest applies one action to many requests independently.
type BulkApprovalRequest struct {
	RequestIDs []string `json:"requestIDs" binding:"required,min=1"`
	Comment    string   `json:"comment"`
}

// ApprovalResponse is the API representation of an approval request.
type ApprovalResponse struct {
	RequestID        string          `json:"requestID"`
	EntityType       string          `json:"entityType"`
	EntityID         string          `json:"entityID"`
	Amount           decimal.Decimal `json:"amount"`
	Level            string          `json:"level"`
	Status           string          `json:"status"`
	RequesterID      string          `json:"requesterID"`
	ApproverID       *string         `json:"approverID,omitempty"`
	Priority         int             `json:"priority"`
	DueDate          time.Time       `json:"dueDate"`
	EscalatedToID    *string         `json:"escalatedToID,omitempty"`
	EscalationReason string          `json:"escalationReason,omitempty"`
	Comment          string          `json:"comment,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ApprovalHistoryResponse is one audit row of a request's trail.
type ApprovalHistoryResponse struct {
	HistoryID  string    `json:"historyID"`
	Action     string    `json:"action"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	ActorID    string    `json:"actorID"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BulkActionResponse reports per-item outcomes of a bulk operation.
type BulkActionResponse struct {
	Results []domain.BulkActionResult `json:"results"`
}

// ListApprovalsParams holds filter and pagination parameters for listing approvals.
type ListApprovalsParams struct {
	Level   *string `form:"level"`
	Overdue bool    `form:"overdue"`
	Limit   int     `form:"limit,default=20"`
	Offset  int     `form:"offset,default=0"`
}

// ListApprovalsResponse wraps a page of approval requests.
type ListApprovalsResponse struct {
	Approvals []ApprovalResponse `json:"approvals"`
}

// ToApprovalResponse converts a domain.ApprovalRequest to its API representation.
func ToApprovalResponse(r *domain.ApprovalRequest) ApprovalResponse {
	return ApprovalResponse{
		RequestID:        r.RequestID,
		EntityType:       string(r.EntityType),
		EntityID:         r.EntityID,
		Amount:           r.Amount,
		Level:            string(r.Level),
		Status:           string(r.Status),
		RequesterID:      r.RequesterID,
		ApproverID:       r.ApproverID,
		Priority:         r.Priority,
		DueDate:          r.DueDate,
		EscalatedToID:    r.EscalatedToID,
		EscalationReason: r.EscalationReason,
		Comment:          r.Comment,
		CreatedAt:        r.CreatedAt,
	}
}

// ToApprovalResponses converts a slice of requests.
func ToApprovalResponses(requests []domain.ApprovalRequest) []ApprovalResponse {
	out := make([]ApprovalResponse, len(requests))
	for i := range requests {
		out[i] = ToApprovalResponse(&requests[i])
	}
	return out
}

// ToApprovalHistoryResponses converts an audit trail.
func ToApprovalHistoryResponses(rows []domain.ApprovalHistory) []ApprovalHistoryResponse {
	out := make([]ApprovalHistoryResponse, len(rows))
	for i, h := range rows {
		out[i] = ApprovalHistoryResponse{
			HistoryID:  h.HistoryID,
			Action:     string(h.Action),
			FromStatus: string(h.FromStatus),
			ToStatus:   string(h.ToStatus),
			ActorID:    h.ActorID,
			Comment:    h.Comment,
			CreatedAt:  h.CreatedAt,
		}
	}
	return out
}
