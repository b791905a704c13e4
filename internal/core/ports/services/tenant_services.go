package services

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/SscSPs/fitment_console/internal/dto"
)

// TenantContextSvc resolves the tenant an actor is acting in. It is the only component
// that turns the raw authenticated user id and the client-supplied tenant hint into a
// TenantScope.
type TenantContextSvc interface {
	// ResolveScope returns the actor's scope. requestedTenantID may be empty, in which
	// case the tenant is derived from the actor's memberships.
	ResolveScope(ctx context.Context, actorID, requestedTenantID string) (domain.TenantScope, error)
}

// TenantReaderSvc defines read operations for tenant data
type TenantReaderSvc interface {
	// GetTenant returns the tenant of the scope.
	GetTenant(ctx context.Context, scope domain.TenantScope, tenantID string) (*domain.Tenant, error)

	// ListActorTenants returns the tenants the actor belongs to, or every tenant for a super-admin.
	ListActorTenants(ctx context.Context, actorID string) ([]domain.Tenant, error)

	// ListMembers returns the members of the scope's tenant.
	ListMembers(ctx context.Context, scope domain.TenantScope) ([]domain.Membership, error)
}

// TenantWriterSvc defines write operations for tenant data
type TenantWriterSvc interface {
	// CreateTenant creates a tenant and makes the creator its first admin.
	CreateTenant(ctx context.Context, actorID string, req dto.CreateTenantRequest) (*domain.Tenant, error)

	// SetTenantActive activates or deactivates a tenant. Super-admin only.
	SetTenantActive(ctx context.Context, scope domain.TenantScope, tenantID string, active bool) (*domain.Tenant, error)
}

// TenantMembershipSvc defines operations for managing tenant membership
type TenantMembershipSvc interface {
	AddMember(ctx context.Context, scope domain.TenantScope, req dto.AddMemberRequest) (*domain.Membership, error)
	UpdateMemberRole(ctx context.Context, scope domain.TenantScope, userID string, role domain.Role) error
	RemoveMember(ctx context.Context, scope domain.TenantScope, userID string) error
}

// TenantSvcFacade combines all tenant-related service interfaces
type TenantSvcFacade interface {
	TenantReaderSvc
	TenantWriterSvc
	TenantMembershipSvc
}
