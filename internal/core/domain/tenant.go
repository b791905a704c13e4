package domain

import "time"

// SubscriptionStatus is the billing state of a tenant. It is stored but not acted on here.
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Tenant represents an isolated workshop or dealership. Every vehicle, membership and
// catalog entry belongs to exactly one tenant.
type Tenant struct {
	TenantID           string             `json:"tenantID"`
	Name               string             `json:"name"`
	Slug               string             `json:"slug"` // Workspace slug, unique
	IsActive           bool               `json:"isActive"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	AuditFields
}

// Role defines the possible roles a user can have within a tenant.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleCoordinator Role = "coordinator"
	RoleInstaller   Role = "installer"
	RoleAccountant  Role = "accountant"
	RoleRemoved     Role = "removed" // Membership revoked; never authorizes anything
)

// AssignableRoles lists the roles an admin can grant.
var AssignableRoles = []Role{RoleAdmin, RoleManager, RoleCoordinator, RoleInstaller, RoleAccountant}

// IsValid reports whether r is one of the assignable roles.
func (r Role) IsValid() bool {
	for _, candidate := range AssignableRoles {
		if r == candidate {
			return true
		}
	}
	return false
}

// Membership links a User to a Tenant. The role is per tenant, so the same user can be
// an installer in one workshop and a manager in another.
type Membership struct {
	UserID    string    `json:"userID"`
	UserName  string    `json:"userName"`
	UserPhone string    `json:"userPhone"`
	TenantID  string    `json:"tenantID"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
}
