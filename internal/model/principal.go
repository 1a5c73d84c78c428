package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleOwner   UserRole = "OWNER"
	UserRoleManager UserRole = "MANAGER"
	UserRoleAgent   UserRole = "AGENT"
)

// Principal is the authenticated caller extracted from the access token.
// OrgID is nil when the token does not carry an organization claim.
type Principal struct {
	UserID uuid.UUID
	OrgID  *uuid.UUID
	Role   UserRole
}

func (p Principal) IsOwner() bool {
	return p.Role == UserRoleOwner
}

func (p Principal) IsManager() bool {
	return p.Role == UserRoleManager
}

// CanViewReports is false for agents, who only handle contracts at the counter.
func (p Principal) CanViewReports() bool {
	return p.IsOwner() || p.IsManager()
}
