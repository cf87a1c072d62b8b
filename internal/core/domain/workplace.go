package domain

import "time"

// Workplace represents an isolated tenant containing its own chart of
// accounts, periods, journals and approvals.
type Workplace struct {
	WorkplaceID string `json:"workplaceID"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	AuditFields
}

// UserWorkplaceRole defines the possible roles a user can have within a workplace.
type UserWorkplaceRole string

const (
	RoleAdmin    UserWorkplaceRole = "ADMIN"
	RoleApprover UserWorkplaceRole = "APPROVER"
	RoleMember   UserWorkplaceRole = "MEMBER"
	RoleReadOnly UserWorkplaceRole = "READONLY"
	RoleRemoved  UserWorkplaceRole = "REMOVED"
)

// rank orders roles by privilege for minimum-role checks.
func (r UserWorkplaceRole) rank() int {
	switch r {
	case RoleAdmin:
		return 4
	case RoleApprover:
		return 3
	case RoleMember:
		return 2
	case RoleReadOnly:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r grants the privileges of min.
func (r UserWorkplaceRole) AtLeast(min UserWorkplaceRole) bool {
	return r.rank() >= min.rank()
}

// UserWorkplace represents the membership of a User in a Workplace.
type UserWorkplace struct {
	UserID      string            `json:"userID"`
	WorkplaceID string            `json:"workplaceID"`
	Role        UserWorkplaceRole `json:"role"`
	JoinedAt    time.Time         `json:"joinedAt"`
}
