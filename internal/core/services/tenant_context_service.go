package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
)

// tenantContextService derives the acting tenant from server-side membership data.
type tenantContextService struct {
	BaseService
	userRepo   portsrepo.UserReader
	tenantRepo portsrepo.TenantRepositoryFacade
}

// NewTenantContextService creates the tenant context resolver.
func NewTenantContextService(userRepo portsrepo.UserReader, tenantRepo portsrepo.TenantRepositoryFacade) portssvc.TenantContextSvc {
	return &tenantContextService{userRepo: userRepo, tenantRepo: tenantRepo}
}

var _ portssvc.TenantContextSvc = (*tenantContextService)(nil)

// ResolveScope implements portssvc.TenantContextSvc. It fails closed: any ambiguity
// yields apperrors.ErrTenantUnresolved rather than a guessed tenant.
func (s *tenantContextService) ResolveScope(ctx context.Context, actorID, requestedTenantID string) (domain.TenantScope, error) {
	if actorID == "" {
		return domain.TenantScope{}, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.TenantScope{}, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to load actor", slog.String("actor_id", actorID))
		return domain.TenantScope{}, fmt.Errorf("failed to load actor: %w", err)
	}
	if user.DeletedAt != nil {
		return domain.TenantScope{}, apperrors.ErrUnauthorized
	}

	if user.IsSuperAdmin {
		scope := domain.TenantScope{
			ActorID:    user.UserID,
			ActorName:  user.Name,
			TenantID:   requestedTenantID,
			Role:       domain.RoleAdmin,
			SuperAdmin: true,
		}
		if requestedTenantID != "" {
			if _, err := s.tenantRepo.FindTenantByID(ctx, requestedTenantID); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return domain.TenantScope{}, fmt.Errorf("%w: tenant %s does not exist", apperrors.ErrTenantUnresolved, requestedTenantID)
				}
				return domain.TenantScope{}, fmt.Errorf("failed to load tenant: %w", err)
			}
		}
		return scope, nil
	}

	memberships, err := s.tenantRepo.ListMembershipsByUserID(ctx, actorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list memberships", slog.String("actor_id", actorID))
		return domain.TenantScope{}, fmt.Errorf("failed to list memberships: %w", err)
	}

	membership, err := pickMembership(memberships, requestedTenantID)
	if err != nil {
		s.LogWarn(ctx, "Tenant context unresolved",
			slog.String("actor_id", actorID),
			slog.String("requested_tenant_id", requestedTenantID),
			slog.Int("memberships", len(memberships)))
		return domain.TenantScope{}, err
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, membership.TenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.TenantScope{}, apperrors.ErrTenantUnresolved
		}
		return domain.TenantScope{}, fmt.Errorf("failed to load tenant: %w", err)
	}
	if !tenant.IsActive && membership.Role != domain.RoleAdmin {
		return domain.TenantScope{}, fmt.Errorf("%w: tenant %s is inactive", apperrors.ErrTenantUnresolved, tenant.TenantID)
	}

	return domain.TenantScope{
		ActorID:   user.UserID,
		ActorName: user.Name,
		TenantID:  membership.TenantID,
		Role:      membership.Role,
	}, nil
}

// pickMembership chooses the membership to act under. A requested tenant must match a
// membership exactly; without one the actor must have exactly one membership.
func pickMembership(memberships []domain.Membership, requestedTenantID string) (*domain.Membership, error) {
	usable := make([]domain.Membership, 0, len(memberships))
	for _, m := range memberships {
		if m.Role == domain.RoleRemoved || !m.Role.IsValid() {
			continue
		}
		usable = append(usable, m)
	}

	if requestedTenantID != "" {
		for i := range usable {
			if usable[i].TenantID == requestedTenantID {
				return &usable[i], nil
			}
		}
		return nil, fmt.Errorf("%w: not a member of the requested tenant", apperrors.ErrTenantUnresolved)
	}

	switch len(usable) {
	case 0:
		return nil, fmt.Errorf("%w: no tenant membership", apperrors.ErrTenantUnresolved)
	case 1:
		return &usable[0], nil
	default:
		return nil, fmt.Errorf("%w: member of several tenants, select one with the X-Tenant-ID header", apperrors.ErrTenantUnresolved)
	}
}
