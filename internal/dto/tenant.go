package dto

import (
	"time"

	"github.com/SscSPs/fitment_console/internal/core/domain"
)

// --- Tenant DTOs ---

// CreateTenantRequest defines data for creating a new tenant.
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required,slug"`
}

// SetTenantStatusRequest activates or deactivates a tenant.
type SetTenantStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// TenantResponse defines data returned for a tenant.
type TenantResponse struct {
	TenantID           string                    `json:"tenantID"`
	Name               string                    `json:"name"`
	Slug               string                    `json:"slug"`
	IsActive           bool                      `json:"isActive"`
	SubscriptionStatus domain.SubscriptionStatus `json:"subscriptionStatus"`
	CreatedAt          time.Time                 `json:"createdAt"`
	CreatedBy          string                    `json:"createdBy"`
	LastUpdatedAt      time.Time                 `json:"lastUpdatedAt"`
	LastUpdatedBy      string                    `json:"lastUpdatedBy"`
}

// ToTenantResponse converts domain.Tenant to DTO.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:           t.TenantID,
		Name:               t.Name,
		Slug:               t.Slug,
		IsActive:           t.IsActive,
		SubscriptionStatus: t.SubscriptionStatus,
		CreatedAt:          t.CreatedAt,
		CreatedBy:          t.CreatedBy,
		LastUpdatedAt:      t.LastUpdatedAt,
		LastUpdatedBy:      t.LastUpdatedBy,
	}
}

// ListTenantsResponse wraps a list of tenants.
type ListTenantsResponse struct {
	Tenants []TenantResponse `json:"tenants"`
}

// ToListTenantsResponse converts a slice of domain.Tenant to DTO.
func ToListTenantsResponse(ts []domain.Tenant) ListTenantsResponse {
	list := make([]TenantResponse, len(ts))
	for i, t := range ts {
		list[i] = ToTenantResponse(&t)
	}
	return ListTenantsResponse{Tenants: list}
}

// --- Membership DTOs ---

// AddMemberRequest defines data for adding a user to the current tenant.
type AddMemberRequest struct {
	UserID string      `json:"userID" binding:"required"`
	Role   domain.Role `json:"role" binding:"required,tenant_role"`
}

// UpdateMemberRoleRequest changes a member's role.
type UpdateMemberRoleRequest struct {
	Role domain.Role `json:"role" binding:"required,tenant_role"`
}

// MembershipResponse defines data returned about a user's membership.
type MembershipResponse struct {
	UserID   string      `json:"userID"`
	UserName string      `json:"userName"`
	TenantID string      `json:"tenantID"`
	Role     domain.Role `json:"role"`
	JoinedAt time.Time   `json:"joinedAt"`
}

// ToMembershipResponse converts domain.Membership to DTO.
func ToMembershipResponse(m *domain.Membership) MembershipResponse {
	return MembershipResponse{
		UserID:   m.UserID,
		UserName: m.UserName,
		TenantID: m.TenantID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

// ListMembersResponse wraps a list of memberships.
type ListMembersResponse struct {
	Members []MembershipResponse `json:"members"`
}

// ToListMembersResponse converts a slice of domain.Membership to DTO.
func ToListMembersResponse(ms []domain.Membership) ListMembersResponse {
	list := make([]MembershipResponse, len(ms))
	for i, m := range ms {
		list[i] = ToMembershipResponse(&m)
	}
	return ListMembersResponse{Members: list}
}
