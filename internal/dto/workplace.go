package dto

import (
	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// CreateWorkplaceRequest is the payload for creating a tenant workplace.
type CreateWorkplaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddUserToWorkplaceRequest assigns a role to a user within a workplace.
type AddUserToWorkplaceRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=ADMIN APPROVER MEMBER READONLY"`
}

// WorkplaceResponse is the API representation of a workplace.
type WorkplaceResponse struct {
	WorkplaceID string `json:"workplaceID"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// ListWorkplacesResponse wraps the workplaces visible to a user.
type ListWorkplacesResponse struct {
	Workplaces []WorkplaceResponse `json:"workplaces"`
}

// ToWorkplaceResponse converts a domain.Workplace to its API representation.
func ToWorkplaceResponse(w *domain.Workplace) WorkplaceResponse {
	return WorkplaceResponse{
		WorkplaceID: w.WorkplaceID,
		Name:        w.Name,
		Description: w.Description,
		IsActive:    w.IsActive,
	}
}

// ToWorkplaceResponses converts a slice of workplaces.
func ToWorkplaceResponses(workplaces []domain.Workplace) []WorkplaceResponse {
	out := make([]WorkplaceResponse, len(workplaces))
	for i := range workplaces {
		out[i] = ToWorkplaceResponse(&workplaces[i])
	}
	return out
}
