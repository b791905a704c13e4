package repositories

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/core/domain"
)

// VehicleListFilter narrows a vehicle listing. Tenant filtering is not part of the
// filter; it always comes from the caller's scope.
type VehicleListFilter struct {
	Statuses  []domain.VehicleStatus
	Window    domain.ReportWindow
	Limit     int
	NextToken *string
}

// VehicleReader defines read operations for vehicle data
type VehicleReader interface {
	// FindVehicleByID retrieves a vehicle by ID within the caller's tenant (nil = any
	// tenant). A vehicle that exists under another tenant yields
	// apperrors.ErrTenantIsolation.
	FindVehicleByID(ctx context.Context, tenantID *string, vehicleID string) (*domain.Vehicle, error)

	// ListVehicles retrieves vehicles filtered by tenant (nil = every tenant) and
	// status set, newest first, with token pagination.
	ListVehicles(ctx context.Context, tenantID *string, filter VehicleListFilter) ([]domain.Vehicle, *string, error)

	// CountVehiclesByStatus returns the number of vehicles per status.
	CountVehiclesByStatus(ctx context.Context, tenantID *string) ([]domain.StatusCount, error)
}

// VehicleWriter defines write operations for vehicle data
type VehicleWriter interface {
	// SaveVehicle persists a new vehicle.
	SaveVehicle(ctx context.Context, vehicle domain.Vehicle) error

	// UpdateVehicle writes the mutable fields of vehicle. The write applies only when
	// the stored row belongs to the caller's tenant (nil = any tenant) and still has
	// expectedVersion. It returns apperrors.ErrTenantIsolation when the stored tenant
	// differs and apperrors.ErrConflict on a version mismatch. When
	// vehicle.ProductsMalformed is set the stored products and completion indices are
	// left as they are.
	UpdateVehicle(ctx context.Context, tenantID *string, vehicle domain.Vehicle, expectedVersion int64) error
}

// VehicleRepositoryFacade combines all vehicle-related repository interfaces
type VehicleRepositoryFacade interface {
	VehicleReader
	VehicleWriter
}
