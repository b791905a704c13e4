package dto

import "github.com/SscSPs/fitment_console/internal/core/domain"

// SetPreferenceRequest opts the caller in or out of one event type.
type SetPreferenceRequest struct {
	EventType domain.EventType `json:"eventType" binding:"required,event_type"`
	Enabled   *bool            `json:"enabled" binding:"required"`
}

// ListPreferencesResponse wraps the caller's effective preferences.
type ListPreferencesResponse struct {
	Preferences []domain.NotificationPreference `json:"preferences"`
}
