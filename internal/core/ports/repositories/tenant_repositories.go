package repositories

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TenantReader defines read operations for tenant data
type TenantReader interface {
	// FindTenantByID retrieves a specific tenant by its ID.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// ListTenants retrieves every tenant. Only super-admins reach this.
	ListTenants(ctx context.Context, includeInactive bool) ([]domain.Tenant, error)

	// ListTenantsByUserID retrieves the tenants a user holds a non-removed membership in.
	ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error)
}

// TenantWriter defines write operations for tenant data
type TenantWriter interface {
	// SaveTenantInTx persists a new tenant inside tx.
	SaveTenantInTx(ctx context.Context, tx pgx.Tx, tenant domain.Tenant) error

	// UpdateTenantStatus flips the active flag using the tenant's version as a guard.
	UpdateTenantStatus(ctx context.Context, tenant *domain.Tenant, isActive bool, updatedByUserID string) error
}

// MembershipManager defines operations for managing tenant memberships.
// The membership table is the authoritative source for an actor's tenant and role.
type MembershipManager interface {
	// AddMembershipInTx adds (or re-roles) a user in a tenant inside tx.
	AddMembershipInTx(ctx context.Context, tx pgx.Tx, membership domain.Membership) error

	// AddMembership adds (or re-roles) a user in a tenant.
	AddMembership(ctx context.Context, membership domain.Membership) error

	// FindMembership retrieves the membership of a user in a tenant.
	FindMembership(ctx context.Context, userID, tenantID string) (*domain.Membership, error)

	// ListMembershipsByUserID retrieves all non-removed memberships of a user.
	ListMembershipsByUserID(ctx context.Context, userID string) ([]domain.Membership, error)

	// ListMembershipsByTenantID retrieves all non-removed members of a tenant.
	ListMembershipsByTenantID(ctx context.Context, tenantID string) ([]domain.Membership, error)

	// UpdateMembershipRole changes a member's role. RoleRemoved revokes the membership.
	UpdateMembershipRole(ctx context.Context, userID, tenantID string, role domain.Role) error
}

// TenantRepositoryFacade combines all tenant-related repository interfaces
type TenantRepositoryFacade interface {
	TenantReader
	TenantWriter
	MembershipManager
}

// TenantRepositoryWithTx adds transactional writes, used when a tenant and its first
// admin must appear together.
type TenantRepositoryWithTx interface {
	TenantRepositoryFacade
	TxRunner
}
