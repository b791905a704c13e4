package services

import (
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/platform/config"
	"github.com/SscSPs/fitment_console/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// transport is the notification delivery adapter chosen by the caller; m may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, transport portssvc.NotificationTransport, m *metrics.Metrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Notification pipeline first; the lifecycle publishes into it.
	gateway := NewNotificationGateway(repos.TenantRepo, repos.PreferenceRepo, transport, m)
	dispatcher := NewAsyncDispatcher(gateway, cfg.NotifyDispatchTimeout)
	container.Publisher = dispatcher

	vehicles := NewVehicleService(
		repos.VehicleRepo,
		repos.TenantRepo,
		WithNotificationPublisher(dispatcher),
		WithCatalogRepository(repos.CatalogRepo),
		WithMaxRetries(cfg.LifecycleMaxRetries),
		WithVehicleMetrics(m),
	)
	container.Vehicle = vehicles
	container.Lifecycle = vehicles

	container.TenantContext = NewTenantContextService(repos.UserRepo, repos.TenantRepo)
	container.Tenant = NewTenantService(repos.TenantRepo, repos.UserRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)
	container.Reporting = NewReportingService(repos.VehicleRepo)
	container.Preference = NewPreferenceService(repos.PreferenceRepo)
	container.Catalog = NewCatalogService(repos.CatalogRepo)

	return container
}
