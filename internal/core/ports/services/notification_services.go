package services

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/core/domain"
)

// NotificationTransport delivers one rendered message to one address.
type NotificationTransport interface {
	Send(ctx context.Context, address, message string) error
}

// NotificationGateway resolves recipients for an event and attempts best-effort delivery.
type NotificationGateway interface {
	Notify(ctx context.Context, event domain.EventType, snapshot domain.VehicleSnapshot) (domain.DispatchResult, error)
}

// NotificationPublisher hands events to the gateway without blocking the caller.
type NotificationPublisher interface {
	Publish(ctx context.Context, event domain.EventType, snapshot domain.VehicleSnapshot)
	// Wait blocks until every published event has been handled.
	Wait()
}

// NotificationPreferenceSvc manages the caller's own notification opt-ins.
type NotificationPreferenceSvc interface {
	ListPreferences(ctx context.Context, scope domain.TenantScope) ([]domain.NotificationPreference, error)
	SetPreference(ctx context.Context, scope domain.TenantScope, event domain.EventType, enabled bool) (*domain.NotificationPreference, error)
}
