package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// tenantService handles business logic related to tenants and memberships.
type tenantService struct {
	BaseService
	tenantRepo portsrepo.TenantRepositoryWithTx
	userRepo   portsrepo.UserReader
}

// NewTenantService creates a new tenant service.
func NewTenantService(tenantRepo portsrepo.TenantRepositoryWithTx, userRepo portsrepo.UserReader) portssvc.TenantSvcFacade {
	return &tenantService{tenantRepo: tenantRepo, userRepo: userRepo}
}

var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// CreateTenant creates a new tenant and makes the creator its first admin. Both rows are
// written in one transaction.
func (s *tenantService) CreateTenant(ctx context.Context, actorID string, req dto.CreateTenantRequest) (*domain.Tenant, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tenant name is required", apperrors.ErrValidation)
	}

	now := time.Now()
	tenant := domain.Tenant{
		TenantID:           uuid.NewString(),
		Name:               name,
		Slug:               strings.ToLower(strings.TrimSpace(req.Slug)),
		IsActive:           true,
		SubscriptionStatus: domain.SubscriptionTrial,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
			Version:       1,
		},
	}

	membership := domain.Membership{
		UserID:   actorID,
		TenantID: tenant.TenantID,
		Role:     domain.RoleAdmin,
		JoinedAt: now,
	}
	err := s.tenantRepo.InTx(ctx, func(tx pgx.Tx) error {
		if err := s.tenantRepo.SaveTenantInTx(ctx, tx, tenant); err != nil {
			if !errors.Is(err, apperrors.ErrDuplicate) {
				s.LogError(ctx, err, "Failed to save tenant", slog.String("slug", tenant.Slug))
			}
			return err
		}
		if err := s.tenantRepo.AddMembershipInTx(ctx, tx, membership); err != nil {
			s.LogError(ctx, err, "Failed to add creator as admin", slog.String("tenant_id", tenant.TenantID))
			return fmt.Errorf("failed to add creator as admin: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Tenant created", slog.String("tenant_id", tenant.TenantID), slog.String("creator_user_id", actorID))
	return &tenant, nil
}

// GetTenant returns a tenant reachable from scope.
func (s *tenantService) GetTenant(ctx context.Context, scope domain.TenantScope, tenantID string) (*domain.Tenant, error) {
	if !scope.IsResolved() {
		return nil, apperrors.ErrTenantUnresolved
	}
	if !scope.Owns(tenantID) {
		return nil, apperrors.ErrTenantIsolation
	}
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find tenant", slog.String("tenant_id", tenantID))
		}
		return nil, err
	}
	return tenant, nil
}

// ListActorTenants returns the tenants the actor belongs to, or every tenant for a super-admin.
func (s *tenantService) ListActorTenants(ctx context.Context, actorID string) ([]domain.Tenant, error) {
	user, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var tenants []domain.Tenant
	if user.IsSuperAdmin {
		tenants, err = s.tenantRepo.ListTenants(ctx, true)
	} else {
		tenants, err = s.tenantRepo.ListTenantsByUserID(ctx, actorID)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenants", slog.String("user_id", actorID))
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	if tenants == nil {
		return []domain.Tenant{}, nil
	}
	return tenants, nil
}

// SetTenantActive activates or deactivates a tenant. Only super-admins may do this.
func (s *tenantService) SetTenantActive(ctx context.Context, scope domain.TenantScope, tenantID string, active bool) (*domain.Tenant, error) {
	if !scope.SuperAdmin {
		return nil, fmt.Errorf("%w: only super-admins can change tenant status", apperrors.ErrForbidden)
	}
	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.IsActive == active {
		return tenant, nil
	}
	if err := s.tenantRepo.UpdateTenantStatus(ctx, tenant, active, scope.ActorID); err != nil {
		s.LogError(ctx, err, "Failed to update tenant status", slog.String("tenant_id", tenantID))
		return nil, err
	}
	s.LogInfo(ctx, "Tenant status changed", slog.String("tenant_id", tenantID), slog.Bool("is_active", active))
	return tenant, nil
}

// ListMembers returns the members of the scope's tenant.
func (s *tenantService) ListMembers(ctx context.Context, scope domain.TenantScope) ([]domain.Membership, error) {
	if err := s.Authorize(ctx, scope, domain.CapManageTenantConfig); err != nil {
		return nil, err
	}
	tenantID, err := targetTenant(scope, "")
	if err != nil {
		return nil, err
	}
	members, err := s.tenantRepo.ListMembershipsByTenantID(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list members", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if members == nil {
		return []domain.Membership{}, nil
	}
	return members, nil
}

// AddMember adds an existing user to the scope's tenant.
func (s *tenantService) AddMember(ctx context.Context, scope domain.TenantScope, req dto.AddMemberRequest) (*domain.Membership, error) {
	if err := s.Authorize(ctx, scope, domain.CapManageTenantConfig); err != nil {
		return nil, err
	}
	tenantID, err := targetTenant(scope, "")
	if err != nil {
		return nil, err
	}
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}

	user, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s does not exist", apperrors.ErrValidation, req.UserID)
		}
		return nil, err
	}

	membership := domain.Membership{
		UserID:    user.UserID,
		UserName:  user.Name,
		UserPhone: user.Phone,
		TenantID:  tenantID,
		Role:      req.Role,
		JoinedAt:  time.Now(),
	}
	if err := s.tenantRepo.AddMembership(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add member", slog.String("tenant_id", tenantID), slog.String("target_user_id", req.UserID))
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.LogInfo(ctx, "Member added", slog.String("tenant_id", tenantID), slog.String("target_user_id", req.UserID), slog.String("role", string(req.Role)))
	return &membership, nil
}

// UpdateMemberRole changes a member's role.
func (s *tenantService) UpdateMemberRole(ctx context.Context, scope domain.TenantScope, userID string, role domain.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}
	return s.changeRole(ctx, scope, userID, role)
}

// RemoveMember revokes a membership. The row is kept with RoleRemoved for auditing.
func (s *tenantService) RemoveMember(ctx context.Context, scope domain.TenantScope, userID string) error {
	return s.changeRole(ctx, scope, userID, domain.RoleRemoved)
}

func (s *tenantService) changeRole(ctx context.Context, scope domain.TenantScope, userID string, role domain.Role) error {
	if err := s.Authorize(ctx, scope, domain.CapManageTenantConfig); err != nil {
		return err
	}
	tenantID, err := targetTenant(scope, "")
	if err != nil {
		return err
	}
	if userID == scope.ActorID && !scope.SuperAdmin {
		return fmt.Errorf("%w: you cannot change your own membership", apperrors.ErrValidation)
	}

	if _, err := s.tenantRepo.FindMembership(ctx, userID, tenantID); err != nil {
		return err
	}
	if err := s.tenantRepo.UpdateMembershipRole(ctx, userID, tenantID, role); err != nil {
		s.LogError(ctx, err, "Failed to update member role", slog.String("tenant_id", tenantID), slog.String("target_user_id", userID))
		return fmt.Errorf("failed to update member role: %w", err)
	}
	s.LogInfo(ctx, "Member role changed", slog.String("tenant_id", tenantID), slog.String("target_user_id", userID), slog.String("role", string(role)))
	return nil
}
