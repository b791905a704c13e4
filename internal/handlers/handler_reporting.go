package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/SscSPs/fitment_console/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to dashboards and money figures
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/summary", h.getFinancialSummary)
		reportingGroup.GET("/status-counts", h.getStatusCounts)
	}
	rg.GET("/vehicles/:vehicle_id/amounts", h.getVehicleAmounts)
}

// getFinancialSummary godoc
// @Summary Financial summary
// @Description Folds gross, discount and final amounts of every vehicle whose installation is complete, optionally bounded by creation date
// @Tags reports
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param fromDate query string false "Start date (YYYY-MM-DD)"
// @Param toDate query string false "End date, inclusive (YYYY-MM-DD)"
// @Success 200 {object} dto.FinancialSummaryResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Role cannot view financials"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/summary [get]
func (h *reportingHandler) getFinancialSummary(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.FinancialSummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid summary parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date format. Use YYYY-MM-DD"})
		return
	}
	window, err := params.Window()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date format. Use YYYY-MM-DD"})
		return
	}
	if !window.From.IsZero() && !window.To.IsZero() && !window.From.Before(window.To) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "fromDate must not be after toDate"})
		return
	}

	summary, err := h.reportingService.FinancialSummary(c.Request.Context(), scope, window)
	if err != nil {
		respondWithError(c, err, "Report", "Failed to generate financial summary")
		return
	}

	logger.Info("Financial summary generated", slog.Int("vehicle_count", summary.Count))
	c.JSON(http.StatusOK, dto.FinancialSummaryResponse{
		FromDate: params.FromDate,
		ToDate:   params.ToDate,
		Summary:  *summary,
	})
}

// getStatusCounts godoc
// @Summary Vehicle counts per status
// @Description Dashboard counts, limited to the statuses the caller's role can see
// @Tags reports
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Success 200 {object} dto.StatusCountsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/status-counts [get]
func (h *reportingHandler) getStatusCounts(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	counts, err := h.reportingService.StatusCounts(c.Request.Context(), scope)
	if err != nil {
		respondWithError(c, err, "Report", "Failed to count vehicles")
		return
	}
	c.JSON(http.StatusOK, dto.StatusCountsResponse{Counts: counts})
}

// getVehicleAmounts godoc
// @Summary Vehicle amounts
// @Description Gross total, discount and final amount of one vehicle
// @Tags reports
// @Produce json
// @Param X-Tenant-ID header string false "Tenant to act in"
// @Param vehicle_id path string true "Vehicle ID"
// @Success 200 {object} domain.VehicleAmounts
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /vehicles/{vehicle_id}/amounts [get]
func (h *reportingHandler) getVehicleAmounts(c *gin.Context) {
	scope, ok := scopeOrAbort(c)
	if !ok {
		return
	}

	amounts, err := h.reportingService.VehicleAmounts(c.Request.Context(), scope, c.Param("vehicle_id"))
	if err != nil {
		respondWithError(c, err, "Vehicle", "Failed to derive vehicle amounts")
		return
	}
	c.JSON(http.StatusOK, amounts)
}
