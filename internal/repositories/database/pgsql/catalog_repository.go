package pgsql

import (
	"context"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCatalogRepository struct {
	BaseRepository
}

func newPgxCatalogRepository(pool *pgxpool.Pool) portsrepo.CatalogRepository {
	return &PgxCatalogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CatalogRepository = (*PgxCatalogRepository)(nil)

const catalogSelectQuery = `
SELECT entry_id, tenant_id, kind, name, is_active,
	created_at, created_by, last_updated_at, last_updated_by, version
FROM catalog_entries
`

func (r *PgxCatalogRepository) getEntries(ctx context.Context, filterQuery string, args ...any) ([]domain.CatalogEntry, error) {
	rows, err := r.Pool.Query(ctx, catalogSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query catalog entries", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.CatalogEntry])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect catalog rows", err)
	}
	return entries, nil
}

func (r *PgxCatalogRepository) SaveCatalogEntry(ctx context.Context, entry domain.CatalogEntry) error {
	query := `
		INSERT INTO catalog_entries (
			entry_id, tenant_id, kind, name, is_active,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.EntryID, entry.TenantID, entry.Kind, entry.Name, entry.IsActive,
		entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy, entry.Version,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return apperrors.NewConflictError(string(entry.Kind) + " " + entry.Name + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save catalog entry", err)
	}
	return nil
}

func (r *PgxCatalogRepository) FindCatalogEntryByID(ctx context.Context, entryID string) (*domain.CatalogEntry, error) {
	entries, err := r.getEntries(ctx, `WHERE entry_id = $1;`, entryID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &entries[0], nil
}

func (r *PgxCatalogRepository) ListCatalogEntries(ctx context.Context, tenantID string, kind domain.CatalogKind, includeInactive bool) ([]domain.CatalogEntry, error) {
	if includeInactive {
		return r.getEntries(ctx, `WHERE tenant_id = $1 AND kind = $2 ORDER BY name;`, tenantID, kind)
	}
	return r.getEntries(ctx, `WHERE tenant_id = $1 AND kind = $2 AND is_active = true ORDER BY name;`, tenantID, kind)
}

func (r *PgxCatalogRepository) UpdateCatalogEntry(ctx context.Context, entry domain.CatalogEntry, expectedVersion int64) error {
	query := `
		UPDATE catalog_entries
		SET name = $1, is_active = $2, last_updated_at = $3, last_updated_by = $4, version = $5
		WHERE entry_id = $6 AND tenant_id = $7 AND version = $8;
	`
	result, err := r.Pool.Exec(ctx, query,
		entry.Name, entry.IsActive, entry.LastUpdatedAt, entry.LastUpdatedBy, entry.Version,
		entry.EntryID, entry.TenantID, expectedVersion,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return apperrors.NewConflictError(string(entry.Kind) + " " + entry.Name + " already exists")
		}
		return apperrors.NewAppError(500, "failed to update catalog entry", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
