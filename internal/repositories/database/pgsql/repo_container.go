package pgsql

import (
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TenantRepo:     newPgxTenantRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
		VehicleRepo:    newPgxVehicleRepository(dbPool),
		PreferenceRepo: newPgxNotificationPreferenceRepository(dbPool),
		CatalogRepo:    newPgxCatalogRepository(dbPool),
	}
}
