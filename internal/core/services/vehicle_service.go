package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/SscSPs/fitment_console/internal/platform/metrics"
	"github.com/SscSPs/fitment_console/internal/utils"
	"github.com/SscSPs/fitment_console/internal/utils/pagination"
	"github.com/google/uuid"
)

const (
	defaultMaxRetries   = 3
	defaultPageSize     = 20
	maxPageSize         = 100
	displayIDCollisions = 3
)

// VehicleService implements both vehicle intake/query and the lifecycle state machine.
// They share the optimistic read-apply-write loop in mutate.
type VehicleService struct {
	BaseService
	vehicleRepo portsrepo.VehicleRepositoryFacade
	tenantRepo  portsrepo.TenantReader
	catalogRepo portsrepo.CatalogRepository
	publisher   portssvc.NotificationPublisher
	maxRetries  int
}

// VehicleServiceOption is a functional option for configuring the vehicle service
type VehicleServiceOption func(*VehicleService)

// WithNotificationPublisher sets where committed lifecycle events are sent.
func WithNotificationPublisher(p portssvc.NotificationPublisher) VehicleServiceOption {
	return func(s *VehicleService) {
		s.publisher = p
	}
}

// WithCatalogRepository enables validation of location references against the catalog.
func WithCatalogRepository(repo portsrepo.CatalogRepository) VehicleServiceOption {
	return func(s *VehicleService) {
		s.catalogRepo = repo
	}
}

// WithMaxRetries bounds the attempts made after a version conflict.
func WithMaxRetries(n int) VehicleServiceOption {
	return func(s *VehicleService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithVehicleMetrics records transitions, conflicts and denials.
func WithVehicleMetrics(m *metrics.Metrics) VehicleServiceOption {
	return func(s *VehicleService) {
		s.Metrics = m
	}
}

// NewVehicleService creates the vehicle service. The returned value implements both
// portssvc.VehicleSvcFacade and portssvc.LifecycleSvcFacade.
func NewVehicleService(vehicleRepo portsrepo.VehicleRepositoryFacade, tenantRepo portsrepo.TenantReader, options ...VehicleServiceOption) *VehicleService {
	svc := &VehicleService{
		vehicleRepo: vehicleRepo,
		tenantRepo:  tenantRepo,
		maxRetries:  defaultMaxRetries,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var (
	_ portssvc.VehicleSvcFacade   = (*VehicleService)(nil)
	_ portssvc.LifecycleSvcFacade = (*VehicleService)(nil)
)

// CreateVehicle registers a new vehicle in pending status.
func (s *VehicleService) CreateVehicle(ctx context.Context, scope domain.TenantScope, req dto.CreateVehicleRequest) (*domain.Vehicle, error) {
	if err := s.Authorize(ctx, scope, domain.CapCreateVehicle); err != nil {
		return nil, err
	}
	tenantID, err := targetTenant(scope, req.TenantID)
	if err != nil {
		return nil, err
	}
	if scope.SuperAdmin {
		tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: tenant %s does not exist", apperrors.ErrValidation, tenantID)
			}
			return nil, err
		}
		if !tenant.IsActive {
			return nil, apperrors.NewPreconditionError("tenant is inactive")
		}
	}

	products := dto.ToProductLineItems(req.Products)
	if err := domain.ValidateProducts(products); err != nil {
		return nil, err
	}
	if err := s.checkCatalogRef(ctx, tenantID, domain.CatalogLocation, req.LocationID); err != nil {
		return nil, err
	}

	now := time.Now()
	vehicle := domain.Vehicle{
		VehicleID: uuid.NewString(),
		TenantID:  tenantID,
		Customer: domain.CustomerInfo{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
			Email: req.Customer.Email,
		},
		Info: domain.VehicleInfo{
			RegistrationNumber: req.Info.RegistrationNumber,
			Make:               req.Info.Make,
			Model:              req.Info.Model,
			Year:               req.Info.Year,
			Color:              req.Info.Color,
			VehicleType:        req.Info.VehicleType,
		},
		LocationID:        req.LocationID,
		ManagerID:         req.ManagerID,
		Status:            domain.StatusPending,
		Products:          products,
		CompletedProducts: []int{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     scope.ActorID,
			LastUpdatedAt: now,
			LastUpdatedBy: scope.ActorID,
			Version:       1,
		},
	}

	for attempt := 1; ; attempt++ {
		vehicle.DisplayID, err = utils.GenerateDisplayID(now)
		if err != nil {
			return nil, fmt.Errorf("failed to generate display id: %w", err)
		}
		err = s.vehicleRepo.SaveVehicle(ctx, vehicle)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrDuplicate) && attempt < displayIDCollisions {
			continue
		}
		s.LogError(ctx, err, "Failed to save vehicle", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Vehicle created",
		slog.String("vehicle_id", vehicle.VehicleID),
		slog.String("display_id", vehicle.DisplayID),
		slog.String("tenant_id", tenantID))
	return &vehicle, nil
}

// GetVehicle returns a vehicle owned by the scope's tenant and visible to its role.
func (s *VehicleService) GetVehicle(ctx context.Context, scope domain.TenantScope, vehicleID string) (*domain.Vehicle, error) {
	vehicle, err := s.loadOwned(ctx, scope, vehicleID)
	if err != nil {
		return nil, err
	}
	if !domain.CanSeeStatus(scope, vehicle.Status) {
		return nil, fmt.Errorf("%w: vehicles in status %s are not visible to role %s", apperrors.ErrForbidden, vehicle.Status, scope.Role)
	}
	return vehicle, nil
}

// ListVehicles lists the scope's vehicles, narrowed to the statuses its role may see.
func (s *VehicleService) ListVehicles(ctx context.Context, scope domain.TenantScope, params dto.ListVehiclesParams) ([]domain.Vehicle, *string, error) {
	if !scope.IsResolved() {
		return nil, nil, apperrors.ErrTenantUnresolved
	}
	if params.NextToken != nil {
		if _, _, err := pagination.DecodeCursor(*params.NextToken); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}

	statuses, ok := visibleFilter(scope, params.Status)
	if !ok {
		return []domain.Vehicle{}, nil, nil
	}

	filter := portsrepo.VehicleListFilter{
		Statuses:  statuses,
		Limit:     pagination.ClampLimit(params.Limit, defaultPageSize, maxPageSize),
		NextToken: params.NextToken,
	}
	vehicles, next, err := s.vehicleRepo.ListVehicles(ctx, scope.TenantFilter(), filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vehicles")
		return nil, nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	return vehicles, next, nil
}

// ReplaceProducts swaps the product list while installation is open.
func (s *VehicleService) ReplaceProducts(ctx context.Context, scope domain.TenantScope, vehicleID string, req dto.ReplaceProductsRequest) (*domain.Vehicle, error) {
	if err := s.Authorize(ctx, scope, domain.CapCreateVehicle); err != nil {
		return nil, err
	}
	items := dto.ToProductLineItems(req.Products)
	return s.mutate(ctx, scope, vehicleID, "replace_products", func(v *domain.Vehicle, now time.Time) (domain.TransitionOutcome, error) {
		return v.ReplaceProducts(items, now)
	})
}

// loadOwned fetches a vehicle through the store's tenant guard. A foreign vehicle yields
// apperrors.ErrTenantIsolation, which callers cannot tell apart from not-found.
func (s *VehicleService) loadOwned(ctx context.Context, scope domain.TenantScope, vehicleID string) (*domain.Vehicle, error) {
	if !scope.IsResolved() {
		return nil, apperrors.ErrTenantUnresolved
	}
	vehicle, err := s.vehicleRepo.FindVehicleByID(ctx, scope.RecordFilter(), vehicleID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTenantIsolation):
			s.LogWarn(ctx, "Cross-tenant vehicle access rejected",
				slog.String("vehicle_id", vehicleID),
				slog.String("actor_id", scope.ActorID))
		case !errors.Is(err, apperrors.ErrNotFound):
			s.LogError(ctx, err, "Failed to find vehicle", slog.String("vehicle_id", vehicleID))
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) checkCatalogRef(ctx context.Context, tenantID string, kind domain.CatalogKind, entryID string) error {
	if entryID == "" || s.catalogRepo == nil {
		return nil
	}
	entry, err := s.catalogRepo.FindCatalogEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: unknown %s %s", apperrors.ErrValidation, kind, entryID)
		}
		return err
	}
	if entry.TenantID != tenantID || entry.Kind != kind || !entry.IsActive {
		return fmt.Errorf("%w: unknown %s %s", apperrors.ErrValidation, kind, entryID)
	}
	return nil
}

// visibleFilter intersects the requested statuses with what the role may see. The
// second result is false when nothing can match.
func visibleFilter(scope domain.TenantScope, requested []domain.VehicleStatus) ([]domain.VehicleStatus, bool) {
	visible := domain.VehicleStatusesFor(scope)
	if len(requested) == 0 {
		return visible, true
	}
	if visible == nil {
		return requested, true
	}
	result := make([]domain.VehicleStatus, 0, len(requested))
	for _, status := range requested {
		if domain.CanSeeStatus(scope, status) {
			result = append(result, status)
		}
	}
	return result, len(result) > 0
}
