package repositories

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/core/domain"
)

// CatalogRepository stores tenant configuration lists (locations, vehicle types, departments).
type CatalogRepository interface {
	SaveCatalogEntry(ctx context.Context, entry domain.CatalogEntry) error
	FindCatalogEntryByID(ctx context.Context, entryID string) (*domain.CatalogEntry, error)
	ListCatalogEntries(ctx context.Context, tenantID string, kind domain.CatalogKind, includeInactive bool) ([]domain.CatalogEntry, error)
	// UpdateCatalogEntry renames or (de)activates an entry, guarded by tenant and version.
	UpdateCatalogEntry(ctx context.Context, entry domain.CatalogEntry, expectedVersion int64) error
}
