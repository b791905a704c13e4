package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for tenant and membership data.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryWithTx {
	return &PgxTenantRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTenantRepository implements portsrepo.TenantRepositoryWithTx
var _ portsrepo.TenantRepositoryWithTx = (*PgxTenantRepository)(nil)

const tenantSelectQuery = `
SELECT
	t.tenant_id, t.name, t.slug, t.is_active, t.subscription_status,
	t.created_at, t.created_by, t.last_updated_at, t.last_updated_by, t.version
FROM tenants t
`

const membershipSelectQuery = `
SELECT tm.user_id, u.name AS user_name, u.phone AS user_phone, tm.tenant_id, tm.role, tm.joined_at
FROM tenant_memberships tm
JOIN users u ON tm.user_id = u.user_id AND u.deleted_at IS NULL
`

func (r *PgxTenantRepository) getTenants(ctx context.Context, filterQuery string, args ...any) ([]domain.Tenant, error) {
	rows, err := r.Pool.Query(ctx, tenantSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query tenants", err)
	}
	tenants, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Tenant])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect tenant rows", err)
	}
	if tenants == nil {
		tenants = []domain.Tenant{}
	}
	return tenants, nil
}

func (r *PgxTenantRepository) getMemberships(ctx context.Context, filterQuery string, args ...any) ([]domain.Membership, error) {
	rows, err := r.Pool.Query(ctx, membershipSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query memberships", err)
	}
	memberships, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Membership])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect membership rows", err)
	}
	if memberships == nil {
		memberships = []domain.Membership{}
	}
	return memberships, nil
}

func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenants, err := r.getTenants(ctx, `WHERE t.tenant_id = $1`, tenantID)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &tenants[0], nil
}

func (r *PgxTenantRepository) ListTenants(ctx context.Context, includeInactive bool) ([]domain.Tenant, error) {
	if includeInactive {
		return r.getTenants(ctx, `ORDER BY t.name;`)
	}
	return r.getTenants(ctx, `WHERE t.is_active = true ORDER BY t.name;`)
}

// ListTenantsByUserID lists the tenants the user is a member of. Inactive tenants are
// only listed where the user is an admin, matching who may still act in them.
func (r *PgxTenantRepository) ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error) {
	query := `
		JOIN tenant_memberships tm ON t.tenant_id = tm.tenant_id
		WHERE tm.user_id = $1 AND tm.role != $2
			AND (t.is_active = true OR tm.role = $3)
		ORDER BY t.name;
	`
	return r.getTenants(ctx, query, userID, domain.RoleRemoved, domain.RoleAdmin)
}

func (r *PgxTenantRepository) SaveTenantInTx(ctx context.Context, tx pgx.Tx, tenant domain.Tenant) error {
	query := `
		INSERT INTO tenants (
			tenant_id, name, slug, is_active, subscription_status,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		tenant.TenantID,
		tenant.Name,
		tenant.Slug,
		tenant.IsActive,
		tenant.SubscriptionStatus,
		tenant.CreatedAt,
		tenant.CreatedBy,
		tenant.LastUpdatedAt,
		tenant.LastUpdatedBy,
		tenant.Version,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return apperrors.NewConflictError("workspace slug " + tenant.Slug + " is already taken")
		}
		return apperrors.NewAppError(500, "failed to save tenant "+tenant.TenantID, err)
	}
	return nil
}

// UpdateTenantStatus updates is_active using the tenant's version as an optimistic lock.
func (r *PgxTenantRepository) UpdateTenantStatus(ctx context.Context, tenant *domain.Tenant, isActive bool, updatedByUserID string) error {
	query := `
		UPDATE tenants
		SET is_active = $1, last_updated_at = NOW(), last_updated_by = $2, version = version + 1
		WHERE tenant_id = $3 AND version = $4
		RETURNING last_updated_at, version;
	`
	err := r.Pool.QueryRow(ctx, query, isActive, updatedByUserID, tenant.TenantID, tenant.Version).
		Scan(&tenant.LastUpdatedAt, &tenant.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: tenant %s changed concurrently", apperrors.ErrConflict, tenant.TenantID)
		}
		return apperrors.NewAppError(500, "failed to update tenant status "+tenant.TenantID, err)
	}
	tenant.IsActive = isActive
	tenant.LastUpdatedBy = updatedByUserID
	return nil
}

const upsertMembershipQuery = `
	INSERT INTO tenant_memberships (user_id, tenant_id, role, joined_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, tenant_id) DO UPDATE SET role = EXCLUDED.role;
`

func (r *PgxTenantRepository) AddMembershipInTx(ctx context.Context, tx pgx.Tx, membership domain.Membership) error {
	_, err := tx.Exec(ctx, upsertMembershipQuery, membership.UserID, membership.TenantID, membership.Role, membership.JoinedAt)
	return r.membershipWriteError(err, membership)
}

func (r *PgxTenantRepository) AddMembership(ctx context.Context, membership domain.Membership) error {
	_, err := r.Pool.Exec(ctx, upsertMembershipQuery, membership.UserID, membership.TenantID, membership.Role, membership.JoinedAt)
	return r.membershipWriteError(err, membership)
}

func (r *PgxTenantRepository) membershipWriteError(err error, membership domain.Membership) error {
	if err == nil {
		return nil
	}
	if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
		return apperrors.NewValidationFailedError("user or tenant does not exist")
	}
	return apperrors.NewAppError(500, "failed to add/update user "+membership.UserID+" in tenant "+membership.TenantID, err)
}

func (r *PgxTenantRepository) FindMembership(ctx context.Context, userID, tenantID string) (*domain.Membership, error) {
	memberships, err := r.getMemberships(ctx, `WHERE tm.user_id = $1 AND tm.tenant_id = $2 AND tm.role != $3;`,
		userID, tenantID, domain.RoleRemoved)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, apperrors.NewNotFoundError("membership not found")
	}
	return &memberships[0], nil
}

func (r *PgxTenantRepository) ListMembershipsByUserID(ctx context.Context, userID string) ([]domain.Membership, error) {
	return r.getMemberships(ctx, `WHERE tm.user_id = $1 AND tm.role != $2 ORDER BY tm.joined_at;`, userID, domain.RoleRemoved)
}

func (r *PgxTenantRepository) ListMembershipsByTenantID(ctx context.Context, tenantID string) ([]domain.Membership, error) {
	return r.getMemberships(ctx, `WHERE tm.tenant_id = $1 AND tm.role != $2 ORDER BY tm.joined_at DESC;`, tenantID, domain.RoleRemoved)
}

// UpdateMembershipRole changes a member's role. Passing domain.RoleRemoved revokes it.
func (r *PgxTenantRepository) UpdateMembershipRole(ctx context.Context, userID, tenantID string, role domain.Role) error {
	query := `
		UPDATE tenant_memberships
		SET role = $3
		WHERE user_id = $1 AND tenant_id = $2;
	`
	result, err := r.Pool.Exec(ctx, query, userID, tenantID, role)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update role for user "+userID+" in tenant "+tenantID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("membership not found")
	}
	return nil
}
