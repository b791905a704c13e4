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
)

type catalogService struct {
	BaseService
	catalogRepo portsrepo.CatalogRepository
}

// NewCatalogService creates the tenant configuration service.
func NewCatalogService(repo portsrepo.CatalogRepository) portssvc.CatalogSvc {
	return &catalogService{catalogRepo: repo}
}

var _ portssvc.CatalogSvc = (*catalogService)(nil)

func (s *catalogService) CreateEntry(ctx context.Context, scope domain.TenantScope, kind domain.CatalogKind, req dto.CreateCatalogEntryRequest) (*domain.CatalogEntry, error) {
	if err := s.Authorize(ctx, scope, domain.CapManageTenantConfig); err != nil {
		return nil, err
	}
	tenantID, err := targetTenant(scope, "")
	if err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown catalog kind %q", apperrors.ErrValidation, kind)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}

	now := time.Now()
	entry := domain.CatalogEntry{
		EntryID:  uuid.NewString(),
		TenantID: tenantID,
		Kind:     kind,
		Name:     name,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     scope.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: scope.ActorID,
			Version:       1,
		},
	}
	if err := s.catalogRepo.SaveCatalogEntry(ctx, entry); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save catalog entry", slog.String("kind", string(kind)))
		}
		return nil, err
	}
	return &entry, nil
}

// ListEntries is readable by every member; intake forms need the lists.
func (s *catalogService) ListEntries(ctx context.Context, scope domain.TenantScope, kind domain.CatalogKind, includeInactive bool) ([]domain.CatalogEntry, error) {
	if !scope.IsResolved() {
		return nil, apperrors.ErrTenantUnresolved
	}
	tenantID, err := targetTenant(scope, "")
	if err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown catalog kind %q", apperrors.ErrValidation, kind)
	}
	entries, err := s.catalogRepo.ListCatalogEntries(ctx, tenantID, kind, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list catalog entries", slog.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to list catalog entries: %w", err)
	}
	if entries == nil {
		return []domain.CatalogEntry{}, nil
	}
	return entries, nil
}

func (s *catalogService) UpdateEntry(ctx context.Context, scope domain.TenantScope, entryID string, req dto.UpdateCatalogEntryRequest) (*domain.CatalogEntry, error) {
	if err := s.Authorize(ctx, scope, domain.CapManageTenantConfig); err != nil {
		return nil, err
	}
	entry, err := s.catalogRepo.FindCatalogEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !scope.Owns(entry.TenantID) {
		return nil, apperrors.ErrTenantIsolation
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be blank", apperrors.ErrValidation)
		}
		entry.Name = name
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}

	expected := entry.Version
	entry.Version = expected + 1
	entry.LastUpdatedAt = time.Now()
	entry.LastUpdatedBy = scope.ActorID
	if err := s.catalogRepo.UpdateCatalogEntry(ctx, *entry, expected); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to update catalog entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}
