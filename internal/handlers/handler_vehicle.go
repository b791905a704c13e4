package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/SscSPs/fitment_console/internal/middleware"
	"github.com/gin-gonic/gin"
)

// vehicleHandler handles vehicle intake, queries and lifecycle commands.
type vehicleHandler struct {
	vehicleService   portssvc.VehicleSvcFacade
	lifecycleService portssvc.LifecycleSvcFacade
}

func newVehicleHandler(vs portssvc.VehicleSvcFacade, ls portssvc.LifecycleSvcFacade) *vehicleHandler {
	return &vehicleHandler{vehicleService: vs, lifecycleService: ls}
}

// registerVehicleRoutes registers vehicle routes on a tenant-scoped group.
func registerVehicleRoutes(rg *gin.RouterGroup, vs portssvc.VehicleSvcFacade, ls portssvc.LifecycleSvcFacade) {
	h := newVehicleHandler(vs, ls)

	vehicles := rg.Group("/vehicles")
	{
		vehicles.POST("", h.createVehicle)
		vehicles.GET("", h.listVehicles)
		vehicles.GET("/:vehicle_id", h.getVehicle)
		vehicles.PUT("/:vehicle_id/products", h.replaceProducts)

		// Lifecycle commands
		vehicles.POST("/:vehicle_id/status", h.advanceStatus)
		vehicles.PUT("/:vehicle_id/products/:index/completion", h.setProductCompletion)
		vehicles.PUT("/:vehicle_id/invoice", h.setInvoiceNumber)
		vehicles.PUT("/:vehicle_id/discount", h.recordDiscount)
	}
}

// respondVehicle renders v with money fields only for roles that may see them.
func respondVehicle(c *gin.Context, status int, scope domain.TenantScope, v *domain.Vehicle) {
	c.JSON(status, dto.ToVehicleResponse(v, domain.ScopeCan(scope, domain.CapViewFinancials)))
}

// createVehicle godoc
// @Summary Register a vehicle
// @Description Registers a vehicle for installation in pending status. Super-admins must name the tenant.
// @Tags vehicles
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param vehicle body dto.CreateVehicleRequest true "Vehicle details"
// @Success 201 {object} dto.VehicleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /vehicles [post]
func (h *vehicleHandler) createVehicle(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), scope, req)
	if err != nil {
		respondWithError(c, err, "Vehicle", "Failed to create vehicle")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Vehicle registered",
		slog.String("vehicle_id", vehicle.VehicleID), slog.String("display_id", vehicle.DisplayID))
	respondVehicle(c, http.StatusCreated, scope, vehicle)
}

// listVehicles godoc
// @Summary List vehicles
// @Description Lists vehicles of the current tenant, newest first. Installers and accountants only see the statuses their role works on.
// @Tags vehicles
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param status query []string false "Filter by status" collectionFormat(multi)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListVehiclesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /vehicles [get]
func (h *vehicleHandler) listVehicles(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListVehiclesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	vehicles, nextToken, err := h.vehicleService.ListVehicles(c.Request.Context(), scope, params)
	if err != nil {
		respondWithError(c, err, "Vehicle", "Failed to list vehicles")
		return
	}
	c.JSON(http.StatusOK, dto.ToListVehiclesResponse(vehicles, nextToken, domain.ScopeCan(scope, domain.CapViewFinancials)))
}

// getVehicle godoc
// @Summary Get a vehicle
// @Tags vehicles
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param vehicle_id path string true "Vehicle ID"
// @Success 200 {object} dto.VehicleResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /vehicles/{vehicle_id} [get]
func (h *vehicleHandler) getVehicle(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), scope, c.Param("vehicle_id"))
	if err != nil {
		respondWithError(c, err, "Vehicle", "Failed to retrieve vehicle")
		return
	}
	respondVehicle(c, http.StatusOK, scope, vehicle)
}

// replaceProducts godoc
// @Summary Replace the product list
// @Description Swaps the requested products while installation is still open.
// @Tags vehicles
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param vehicle_id path string true "Vehicle ID"
// @Param products body dto.ReplaceProductsRequest true "Products"
// @Success 200 {object} dto.VehicleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 412 {object} ErrorResponse "Installation already complete"
// @Security BearerAuth
// @Router /vehicles/{vehicle_id}/products [put]
func (h *vehicleHandler) replaceProducts(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.ReplaceProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	vehicle, err := h.vehicleService.ReplaceProducts(c.Request.Context(), scope, c.Param("vehicle_id"), req)
	if err != nil {
		respondWithError(c, err, "Vehicle", "Failed to replace products")
		return
	}
	respondVehicle(c, http.StatusOK, scope, vehicle)
}

// advanceStatus godoc
// @Summary Advance the vehicle status
// @Description Moves the vehicle one step forward. Which role may do so depends on the current status.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param vehicle_id path string true "Vehicle ID"
// @Param status body dto.AdvanceStatusRequest true "Target status"
// @Success 200 {object} dto.VehicleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Illegal transition or concurrent edit"
// @Failure 412 {object} ErrorResponse "Invoice number missing"
// @Security BearerAuth
// @Router /vehicles/{vehicle_id}/status [post]
func (h *vehicleHandler) advanceStatus(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	vehicle, err := h.lifecycleService.AdvanceStatus(c.Request.Context(), scope, c.Param("vehicle_id"), req.Status)
	if err != nil {
		respondWithError(c, err, "Vehicle", "Failed to change vehicle status")
		return
	}
	respondVehicle(c, http.StatusOK, scope, vehicle)
}

// setProductCompletion godoc
// @Summary Mark a product done or undone
// @Description Completing the last product moves the vehicle to installation_complete.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param vehicle_id path string true "Vehicle ID"
// @Param index path int true "Product index"
// @Param completion body dto.SetProductCompletionRequest true "Completion flag"
// @Success 200 {object} dto.VehicleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 412 {object} ErrorResponse "Installation already complete"
// @Security BearerAuth
// @Router /vehicles/{vehicle_id}/products/{index}/completion [put]
func (h *vehicleHandler) setProductCompletion(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Product index must be a number"})
		return
	}

	var req dto.SetProductCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	vehicle, err := h.lifecycleService.SetProductCompletion(c.Request.Context(), scope, c.Param("vehicle_id"), index, *req.Completed)
	if err != nil {
		respondWithError(c, err, "Vehicle", "Failed to update product completion")
		return
	}
	respondVehicle(c, http.StatusOK, scope, vehicle)
}

// setInvoiceNumber godoc
// @Summary Record the invoice number
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param vehicle_id path string true "Vehicle ID"
// @Param invoice body dto.SetInvoiceNumberRequest true "Invoice number"
// @Success 200 {object} dto.VehicleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 412 {object} ErrorResponse "Vehicle already delivered"
// @Security BearerAuth
// @Router /vehicles/{vehicle_id}/invoice [put]
func (h *vehicleHandler) setInvoiceNumber(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.SetInvoiceNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	vehicle, err := h.lifecycleService.SetInvoiceNumber(c.Request.Context(), scope, c.Param("vehicle_id"), req.InvoiceNumber)
	if err != nil {
		respondWithError(c, err, "Vehicle", "Failed to set invoice number")
		return
	}
	respondVehicle(c, http.StatusOK, scope, vehicle)
}

// recordDiscount godoc
// @Summary Record a discount
// @Description Attaches a discount once installation is complete. The amount may not exceed the gross total.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param vehicle_id path string true "Vehicle ID"
// @Param discount body dto.RecordDiscountRequest true "Discount"
// @Success 200 {object} dto.VehicleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 412 {object} ErrorResponse "Installation not complete"
// @Security BearerAuth
// @Router /vehicles/{vehicle_id}/discount [put]
func (h *vehicleHandler) recordDiscount(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	var req dto.RecordDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	vehicle, err := h.lifecycleService.RecordDiscount(c.Request.Context(), scope, c.Param("vehicle_id"), req)
	if err != nil {
		respondWithError(c, err, "Vehicle", "Failed to record discount")
		return
	}
	respondVehicle(c, http.StatusOK, scope, vehicle)
}
