package services

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/SscSPs/fitment_console/internal/dto"
)

// CatalogSvc manages tenant configuration lists.
type CatalogSvc interface {
	CreateEntry(ctx context.Context, scope domain.TenantScope, kind domain.CatalogKind, req dto.CreateCatalogEntryRequest) (*domain.CatalogEntry, error)
	ListEntries(ctx context.Context, scope domain.TenantScope, kind domain.CatalogKind, includeInactive bool) ([]domain.CatalogEntry, error)
	UpdateEntry(ctx context.Context, scope domain.TenantScope, entryID string, req dto.UpdateCatalogEntryRequest) (*domain.CatalogEntry, error)
}
