package domain

// User is an authenticated principal. Journal creators, submitters and
// approvers are all user references.
type User struct {
	UserID       string `json:"userID"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // bcrypt, never serialized
	IsActive     bool   `json:"isActive"`
	AuditFields
}
