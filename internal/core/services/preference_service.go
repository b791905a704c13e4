package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
)

type preferenceService struct {
	BaseService
	prefs portsrepo.NotificationPreferenceRepository
}

// NewPreferenceService creates the notification preference service.
func NewPreferenceService(prefs portsrepo.NotificationPreferenceRepository) portssvc.NotificationPreferenceSvc {
	return &preferenceService{prefs: prefs}
}

var _ portssvc.NotificationPreferenceSvc = (*preferenceService)(nil)

// ListPreferences returns the caller's effective setting for every event type: the
// explicit choice when one exists, otherwise the role default.
func (s *preferenceService) ListPreferences(ctx context.Context, scope domain.TenantScope) ([]domain.NotificationPreference, error) {
	if !scope.IsResolved() || scope.TenantID == "" {
		return nil, apperrors.ErrTenantUnresolved
	}
	explicit, err := s.prefs.ListPreferencesByUser(ctx, scope.TenantID, scope.ActorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list preferences")
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	byEvent := make(map[domain.EventType]bool, len(explicit))
	for _, p := range explicit {
		byEvent[p.EventType] = p.Enabled
	}

	result := make([]domain.NotificationPreference, 0, len(domain.AllEventTypes))
	for _, event := range domain.AllEventTypes {
		enabled, ok := byEvent[event]
		if ok {
			enabled = enabled && domain.MayReceive(event, scope.Role)
		} else {
			enabled = domain.InDefaultAudience(event, scope.Role)
		}
		result = append(result, domain.NotificationPreference{
			TenantID:  scope.TenantID,
			UserID:    scope.ActorID,
			EventType: event,
			Enabled:   enabled,
		})
	}
	return result, nil
}

// SetPreference stores an explicit opt-in or opt-out for the caller. Opting in is limited
// to events the caller's role may receive; opting out is always allowed.
func (s *preferenceService) SetPreference(ctx context.Context, scope domain.TenantScope, event domain.EventType, enabled bool) (*domain.NotificationPreference, error) {
	if !scope.IsResolved() || scope.TenantID == "" {
		return nil, apperrors.ErrTenantUnresolved
	}
	if !event.IsValid() {
		return nil, fmt.Errorf("%w: unknown event type %q", apperrors.ErrValidation, event)
	}
	if enabled && !domain.MayReceive(event, scope.Role) {
		return nil, fmt.Errorf("%w: role %s cannot subscribe to %s", apperrors.ErrValidation, scope.Role, event)
	}
	pref := domain.NotificationPreference{
		TenantID:  scope.TenantID,
		UserID:    scope.ActorID,
		EventType: event,
		Enabled:   enabled,
	}
	if err := s.prefs.UpsertPreference(ctx, pref); err != nil {
		s.LogError(ctx, err, "Failed to save preference", slog.String("event", string(event)))
		return nil, fmt.Errorf("failed to save preference: %w", err)
	}
	return &pref, nil
}
