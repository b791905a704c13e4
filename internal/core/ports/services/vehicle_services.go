package services

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/SscSPs/fitment_console/internal/dto"
)

// VehicleReaderSvc defines read operations for vehicle data
type VehicleReaderSvc interface {
	// GetVehicle returns a vehicle owned by the scope's tenant. A vehicle of another
	// tenant yields apperrors.ErrTenantIsolation, which is indistinguishable from
	// apperrors.ErrNotFound.
	GetVehicle(ctx context.Context, scope domain.TenantScope, vehicleID string) (*domain.Vehicle, error)

	// ListVehicles lists the vehicles visible to the scope.
	ListVehicles(ctx context.Context, scope domain.TenantScope, params dto.ListVehiclesParams) ([]domain.Vehicle, *string, error)
}

// VehicleWriterSvc defines intake operations for vehicle data
type VehicleWriterSvc interface {
	// CreateVehicle registers a new vehicle in pending status.
	CreateVehicle(ctx context.Context, scope domain.TenantScope, req dto.CreateVehicleRequest) (*domain.Vehicle, error)

	// ReplaceProducts swaps the requested product list while installation is open.
	ReplaceProducts(ctx context.Context, scope domain.TenantScope, vehicleID string, req dto.ReplaceProductsRequest) (*domain.Vehicle, error)
}

// VehicleSvcFacade combines all vehicle intake/query service interfaces
type VehicleSvcFacade interface {
	VehicleReaderSvc
	VehicleWriterSvc
}

// LifecycleSvcFacade is the vehicle lifecycle state machine. Every operation checks the
// scope's capability before touching storage and publishes notifications only after the
// write has been committed.
type LifecycleSvcFacade interface {
	// AdvanceStatus moves the vehicle one step forward to target.
	AdvanceStatus(ctx context.Context, scope domain.TenantScope, vehicleID string, target domain.VehicleStatus) (*domain.Vehicle, error)

	// SetProductCompletion marks one product line item done or undone.
	SetProductCompletion(ctx context.Context, scope domain.TenantScope, vehicleID string, index int, done bool) (*domain.Vehicle, error)

	// SetInvoiceNumber records the invoice number issued for the vehicle.
	SetInvoiceNumber(ctx context.Context, scope domain.TenantScope, vehicleID string, invoiceNumber string) (*domain.Vehicle, error)

	// RecordDiscount attaches a discount to a vehicle whose installation is complete.
	RecordDiscount(ctx context.Context, scope domain.TenantScope, vehicleID string, req dto.RecordDiscountRequest) (*domain.Vehicle, error)
}
