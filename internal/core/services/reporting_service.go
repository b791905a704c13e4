package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/utils/accounting"
)

// reportStatuses are the statuses whose vehicles count towards revenue.
var reportStatuses = []domain.VehicleStatus{
	domain.StatusInstallationComplete,
	domain.StatusCompleted,
	domain.StatusDelivered,
	domain.StatusCompleteAndDelivered,
}

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	vehicleRepo portsrepo.VehicleReader
}

// NewReportingService creates a new reporting service.
func NewReportingService(repo portsrepo.VehicleReader) portssvc.ReportingService {
	return &reportingService{vehicleRepo: repo}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// VehicleAmounts derives the money figures of one vehicle.
func (s *reportingService) VehicleAmounts(ctx context.Context, scope domain.TenantScope, vehicleID string) (*domain.VehicleAmounts, error) {
	if err := s.Authorize(ctx, scope, domain.CapViewFinancials); err != nil {
		return nil, err
	}
	if !scope.IsResolved() {
		return nil, apperrors.ErrTenantUnresolved
	}
	vehicle, err := s.vehicleRepo.FindVehicleByID(ctx, scope.RecordFilter(), vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.ProductsMalformed {
		return nil, apperrors.NewPreconditionError("product data for this vehicle is malformed")
	}
	amounts := accounting.VehicleAmounts(vehicle)
	return &amounts, nil
}

// FinancialSummary folds the amounts of every vehicle at installation_complete or later
// created inside window. Vehicles with unreadable product data are skipped.
func (s *reportingService) FinancialSummary(ctx context.Context, scope domain.TenantScope, window domain.ReportWindow) (*domain.FinancialSummary, error) {
	if err := s.Authorize(ctx, scope, domain.CapViewFinancials); err != nil {
		return nil, err
	}
	if !window.From.IsZero() && !window.To.IsZero() && window.To.Before(window.From) {
		return nil, fmt.Errorf("%w: report window ends before it starts", apperrors.ErrValidation)
	}

	var (
		amounts   []domain.VehicleAmounts
		skipped   int
		nextToken *string
	)
	for {
		page, next, err := s.vehicleRepo.ListVehicles(ctx, scope.TenantFilter(), portsrepo.VehicleListFilter{
			Statuses:  reportStatuses,
			Window:    window,
			Limit:     maxPageSize,
			NextToken: nextToken,
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to list vehicles for summary")
			return nil, fmt.Errorf("failed to build financial summary: %w", err)
		}
		for i := range page {
			if page[i].ProductsMalformed {
				skipped++
				continue
			}
			amounts = append(amounts, accounting.VehicleAmounts(&page[i]))
		}
		if next == nil || len(page) == 0 {
			break
		}
		nextToken = next
	}

	if skipped > 0 {
		s.LogWarn(ctx, "Skipped vehicles with malformed product data", slog.Int("count", skipped))
	}
	summary := accounting.Summarize(amounts)
	return &summary, nil
}

// StatusCounts returns one entry per status visible to the scope, zeros included.
func (s *reportingService) StatusCounts(ctx context.Context, scope domain.TenantScope) ([]domain.StatusCount, error) {
	if !scope.IsResolved() {
		return nil, apperrors.ErrTenantUnresolved
	}
	counts, err := s.vehicleRepo.CountVehiclesByStatus(ctx, scope.TenantFilter())
	if err != nil {
		s.LogError(ctx, err, "Failed to count vehicles by status")
		return nil, fmt.Errorf("failed to count vehicles: %w", err)
	}
	byStatus := make(map[domain.VehicleStatus]int, len(counts))
	for _, c := range counts {
		byStatus[c.Status] += c.Count
	}

	result := make([]domain.StatusCount, 0, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		if !domain.CanSeeStatus(scope, status) {
			continue
		}
		if status == domain.StatusCompleteAndDelivered && byStatus[status] == 0 {
			continue
		}
		result = append(result, domain.StatusCount{Status: status, Count: byStatus[status]})
	}
	return result, nil
}
