package services

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/core/domain"
)

// ReportingService defines operations for dashboard and accounting figures
type ReportingService interface {
	// VehicleAmounts returns the derived money figures of one vehicle.
	VehicleAmounts(ctx context.Context, scope domain.TenantScope, vehicleID string) (*domain.VehicleAmounts, error)

	// FinancialSummary folds the amounts of every vehicle past installation in window.
	FinancialSummary(ctx context.Context, scope domain.TenantScope, window domain.ReportWindow) (*domain.FinancialSummary, error)

	// StatusCounts returns the number of vehicles per status for the dashboard.
	StatusCounts(ctx context.Context, scope domain.TenantScope) ([]domain.StatusCount, error)
}
