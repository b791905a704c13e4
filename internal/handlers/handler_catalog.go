package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/SscSPs/fitment_console/internal/middleware"
	"github.com/gin-gonic/gin"
)

// catalogHandler serves the tenant's locations, vehicle types and departments.
type catalogHandler struct {
	catalogService portssvc.CatalogSvc
}

func newCatalogHandler(cs portssvc.CatalogSvc) *catalogHandler {
	return &catalogHandler{catalogService: cs}
}

func registerCatalogRoutes(rg *gin.RouterGroup, cs portssvc.CatalogSvc) {
	h := newCatalogHandler(cs)

	catalog := rg.Group("/catalog")
	{
		catalog.GET("/:kind", h.listEntries)
		catalog.POST("/:kind", h.createEntry)
		catalog.PATCH("/entries/:entry_id", h.updateEntry)
	}
}

// listEntries godoc
// @Summary List catalog entries
// @Tags catalog
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param kind path string true "location, vehicle_type or department"
// @Param includeInactive query bool false "Include deactivated entries"
// @Success 200 {object} dto.ListCatalogEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /catalog/{kind} [get]
func (h *catalogHandler) listEntries(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	includeInactive := c.Query("includeInactive") == "true"
	entries, err := h.catalogService.ListEntries(c.Request.Context(), scope, domain.CatalogKind(c.Param("kind")), includeInactive)
	if err != nil {
		respondWithError(c, err, "Catalog entry", "Failed to list catalog entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListCatalogEntriesResponse{Entries: entries})
}

// createEntry godoc
// @Summary Add a catalog entry
// @Description Tenant admins only.
// @Tags catalog
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param kind path string true "location, vehicle_type or department"
// @Param entry body dto.CreateCatalogEntryRequest true "Entry"
// @Success 201 {object} domain.CatalogEntry
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Name already used"
// @Security BearerAuth
// @Router /catalog/{kind} [post]
func (h *catalogHandler) createEntry(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateCatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	entry, err := h.catalogService.CreateEntry(c.Request.Context(), scope, domain.CatalogKind(c.Param("kind")), req)
	if err != nil {
		respondWithError(c, err, "Catalog entry", "Failed to create catalog entry")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Catalog entry created",
		slog.String("entry_id", entry.EntryID), slog.String("kind", string(entry.Kind)))
	c.JSON(http.StatusCreated, entry)
}

// updateEntry godoc
// @Summary Rename or (de)activate a catalog entry
// @Tags catalog
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param entry_id path string true "Entry ID"
// @Param entry body dto.UpdateCatalogEntryRequest true "Changes"
// @Success 200 {object} domain.CatalogEntry
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /catalog/entries/{entry_id} [patch]
func (h *catalogHandler) updateEntry(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.UpdateCatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	entry, err := h.catalogService.UpdateEntry(c.Request.Context(), scope, c.Param("entry_id"), req)
	if err != nil {
		respondWithError(c, err, "Catalog entry", "Failed to update catalog entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}
