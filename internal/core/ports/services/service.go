package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	TenantContext TenantContextSvc
	Tenant        TenantSvcFacade
	User          UserSvcFacade
	Token         TokenSvcFacade
	Vehicle       VehicleSvcFacade
	Lifecycle     LifecycleSvcFacade
	Reporting     ReportingService
	Preference    NotificationPreferenceSvc
	Catalog       CatalogSvc
	// Publisher is kept so the process can drain in-flight notifications on shutdown.
	Publisher NotificationPublisher
}
