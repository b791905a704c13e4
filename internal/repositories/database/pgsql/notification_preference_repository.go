package pgsql

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNotificationPreferenceRepository struct {
	BaseRepository
}

func newPgxNotificationPreferenceRepository(pool *pgxpool.Pool) portsrepo.NotificationPreferenceRepository {
	return &PgxNotificationPreferenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationPreferenceRepository = (*PgxNotificationPreferenceRepository)(nil)

const preferenceSelectQuery = `
SELECT tenant_id, user_id, event_type, enabled
FROM notification_preferences
`

func (r *PgxNotificationPreferenceRepository) getPreferences(ctx context.Context, filterQuery string, args ...any) ([]domain.NotificationPreference, error) {
	rows, err := r.Pool.Query(ctx, preferenceSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query notification preferences", err)
	}
	prefs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.NotificationPreference])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect notification preference rows", err)
	}
	return prefs, nil
}

func (r *PgxNotificationPreferenceRepository) ListPreferencesByTenant(ctx context.Context, tenantID string, event domain.EventType) ([]domain.NotificationPreference, error) {
	return r.getPreferences(ctx, `WHERE tenant_id = $1 AND event_type = $2;`, tenantID, event)
}

func (r *PgxNotificationPreferenceRepository) ListPreferencesByUser(ctx context.Context, tenantID, userID string) ([]domain.NotificationPreference, error) {
	return r.getPreferences(ctx, `WHERE tenant_id = $1 AND user_id = $2 ORDER BY event_type;`, tenantID, userID)
}

func (r *PgxNotificationPreferenceRepository) UpsertPreference(ctx context.Context, pref domain.NotificationPreference) error {
	query := `
		INSERT INTO notification_preferences (tenant_id, user_id, event_type, enabled, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (tenant_id, user_id, event_type) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := r.Pool.Exec(ctx, query, pref.TenantID, pref.UserID, pref.EventType, pref.Enabled)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return apperrors.NewValidationFailedError("tenant or user does not exist")
		}
		return apperrors.NewAppError(500, "failed to save notification preference", err)
	}
	return nil
}
