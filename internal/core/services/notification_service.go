package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/platform/metrics"
)

// notificationGateway resolves recipients from tenant membership and preferences and
// delivers through a single transport.
type notificationGateway struct {
	BaseService
	members   portsrepo.MembershipManager
	prefs     portsrepo.NotificationPreferenceRepository
	transport portssvc.NotificationTransport
}

// NewNotificationGateway creates the notification gateway.
func NewNotificationGateway(members portsrepo.MembershipManager, prefs portsrepo.NotificationPreferenceRepository, transport portssvc.NotificationTransport, m *metrics.Metrics) portssvc.NotificationGateway {
	return &notificationGateway{
		BaseService: BaseService{Metrics: m},
		members:     members,
		prefs:       prefs,
		transport:   transport,
	}
}

var _ portssvc.NotificationGateway = (*notificationGateway)(nil)

// Notify delivers event to every resolved recipient. Individual delivery failures are
// counted in the result and never abort the remaining sends. The returned error is
// non-nil only when recipients could not be resolved at all.
func (g *notificationGateway) Notify(ctx context.Context, event domain.EventType, snapshot domain.VehicleSnapshot) (domain.DispatchResult, error) {
	result := domain.DispatchResult{Errors: []string{}}
	if !event.IsValid() {
		return result, fmt.Errorf("%w: unknown event type %q", apperrors.ErrValidation, event)
	}
	if snapshot.TenantID == "" {
		return result, fmt.Errorf("%w: snapshot has no tenant", apperrors.ErrValidation)
	}

	recipients, err := g.resolveRecipients(ctx, event, snapshot.TenantID)
	if err != nil {
		g.LogError(ctx, err, "Failed to resolve notification recipients",
			slog.String("event", string(event)),
			slog.String("tenant_id", snapshot.TenantID))
		return result, err
	}

	template := domain.DefaultTemplate(event)
	for _, recipient := range recipients {
		message := domain.RenderTemplate(template, snapshot, recipient)
		if err := g.transport.Send(ctx, recipient.Address, message); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", recipient.UserID, err))
			g.LogWarn(ctx, "Notification delivery failed",
				slog.String("error", fmt.Errorf("%w: %v", apperrors.ErrNotificationDelivery, err).Error()),
				slog.String("event", string(event)),
				slog.String("recipient_id", recipient.UserID))
			continue
		}
		result.Sent++
	}

	g.Metrics.RecordNotification(string(event), "sent", result.Sent)
	g.Metrics.RecordNotification(string(event), "failed", result.Failed)
	g.LogInfo(ctx, "Notifications dispatched",
		slog.String("event", string(event)),
		slog.String("vehicle_id", snapshot.VehicleID),
		slog.Int("sent", result.Sent),
		slog.Int("failed", result.Failed))
	return result, nil
}

// resolveRecipients applies the rule: default audience by role, plus explicit opt-ins
// from roles that may receive the event, minus explicit opt-outs, limited to members
// with a phone number.
func (g *notificationGateway) resolveRecipients(ctx context.Context, event domain.EventType, tenantID string) ([]domain.Recipient, error) {
	members, err := g.members.ListMembershipsByTenantID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant members: %w", err)
	}
	prefs, err := g.prefs.ListPreferencesByTenant(ctx, tenantID, event)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification preferences: %w", err)
	}

	explicit := make(map[string]bool, len(prefs))
	for _, p := range prefs {
		explicit[p.UserID] = p.Enabled
	}

	recipients := make([]domain.Recipient, 0, len(members))
	for _, m := range members {
		if m.Role == domain.RoleRemoved {
			continue
		}
		wanted := domain.InDefaultAudience(event, m.Role)
		if enabled, ok := explicit[m.UserID]; ok {
			wanted = enabled && domain.MayReceive(event, m.Role)
		}
		address := strings.TrimSpace(m.UserPhone)
		if !wanted || address == "" {
			continue
		}
		recipients = append(recipients, domain.Recipient{
			UserID:  m.UserID,
			Name:    m.UserName,
			Role:    m.Role,
			Address: address,
		})
	}
	return recipients, nil
}
