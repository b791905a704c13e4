package repositories

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/core/domain"
)

// NotificationPreferenceRepository stores explicit per-user notification choices.
type NotificationPreferenceRepository interface {
	// ListPreferencesByTenant returns every explicit preference in a tenant for event.
	ListPreferencesByTenant(ctx context.Context, tenantID string, event domain.EventType) ([]domain.NotificationPreference, error)

	// ListPreferencesByUser returns a user's explicit preferences in a tenant.
	ListPreferencesByUser(ctx context.Context, tenantID, userID string) ([]domain.NotificationPreference, error)

	// UpsertPreference stores a preference, replacing any previous value.
	UpsertPreference(ctx context.Context, pref domain.NotificationPreference) error
}
