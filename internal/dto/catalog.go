package dto

import (
	"github.com/SscSPs/fitment_console/internal/core/domain"
)

// CreateCatalogEntryRequest adds a configuration value.
type CreateCatalogEntryRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

// UpdateCatalogEntryRequest renames or (de)activates a configuration value.
type UpdateCatalogEntryRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=120"`
	IsActive *bool   `json:"isActive"`
}

// ListCatalogEntriesResponse wraps catalog entries.
type ListCatalogEntriesResponse struct {
	Entries []domain.CatalogEntry `json:"entries"`
}
