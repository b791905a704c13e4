package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	"github.com/SscSPs/fitment_console/internal/models"
	"github.com/SscSPs/fitment_console/internal/utils/mapping"
	"github.com/SscSPs/fitment_console/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultVehiclePageSize = 20

type PgxVehicleRepository struct {
	BaseRepository
}

func newPgxVehicleRepository(pool *pgxpool.Pool) portsrepo.VehicleRepositoryFacade {
	return &PgxVehicleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxVehicleRepository implements portsrepo.VehicleRepositoryFacade
var _ portsrepo.VehicleRepositoryFacade = (*PgxVehicleRepository)(nil)

const vehicleColumns = `
	vehicle_id, display_id, tenant_id,
	customer_name, customer_phone, customer_email,
	registration_number, make, model, year, color, vehicle_type,
	location_id, manager_id, status, invoice_number,
	products, completed_products,
	discount_amount, discount_percentage, discount_offered_by_id, discount_offered_by_name,
	discount_reason, discount_recorded_at,
	completed_at, created_at, created_by, last_updated_at, last_updated_by, version`

func (r *PgxVehicleRepository) queryVehicles(ctx context.Context, query string, args ...any) ([]domain.Vehicle, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query vehicles", err)
	}
	modelVehicles, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Vehicle])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect vehicle rows", err)
	}
	vehicles := make([]domain.Vehicle, len(modelVehicles))
	for i, m := range modelVehicles {
		vehicles[i] = mapping.ToDomainVehicle(m)
	}
	return vehicles, nil
}

func (r *PgxVehicleRepository) FindVehicleByID(ctx context.Context, tenantID *string, vehicleID string) (*domain.Vehicle, error) {
	vehicles, err := r.queryVehicles(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE vehicle_id = $1 AND ($2::text IS NULL OR tenant_id = $2);`,
		vehicleID, tenantID)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		if err := r.classifyMiss(ctx, tenantID, vehicleID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrNotFound
	}
	return &vehicles[0], nil
}

// classifyMiss explains why a tenant-filtered lookup matched nothing: the vehicle is
// missing or it belongs to another tenant.
func (r *PgxVehicleRepository) classifyMiss(ctx context.Context, tenantID *string, vehicleID string) error {
	var storedTenant string
	err := r.Pool.QueryRow(ctx, `SELECT tenant_id FROM vehicles WHERE vehicle_id = $1;`, vehicleID).Scan(&storedTenant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to look up vehicle tenant", err)
	}
	if tenantID != nil && storedTenant != *tenantID {
		return apperrors.ErrTenantIsolation
	}
	return nil
}

// ListVehicles returns one page ordered by (created_at DESC, vehicle_id DESC). The next
// token points at the last row of the page and is nil on the final page.
func (r *PgxVehicleRepository) ListVehicles(ctx context.Context, tenantID *string, filter portsrepo.VehicleListFilter) ([]domain.Vehicle, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultVehiclePageSize
	}

	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if tenantID != nil {
		conditions = append(conditions, "tenant_id = "+arg(*tenantID))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, "status = ANY("+arg(statuses)+")")
	}
	if !filter.Window.From.IsZero() {
		conditions = append(conditions, "created_at >= "+arg(filter.Window.From))
	}
	if !filter.Window.To.IsZero() {
		conditions = append(conditions, "created_at < "+arg(filter.Window.To))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		}
		conditions = append(conditions, "(created_at, vehicle_id) < ("+arg(lastCreatedAt)+", "+arg(lastID)+")")
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicles`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	// Fetch one extra row to learn whether another page exists.
	query += " ORDER BY created_at DESC, vehicle_id DESC LIMIT " + arg(limit+1) + ";"

	vehicles, err := r.queryVehicles(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(vehicles) > limit {
		vehicles = vehicles[:limit]
		last := vehicles[len(vehicles)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.VehicleID)
		nextToken = &token
	}
	return vehicles, nextToken, nil
}

func (r *PgxVehicleRepository) CountVehiclesByStatus(ctx context.Context, tenantID *string) ([]domain.StatusCount, error) {
	query := `SELECT status, COUNT(*) FROM vehicles`
	var args []any
	if tenantID != nil {
		query += ` WHERE tenant_id = $1`
		args = append(args, *tenantID)
	}
	query += ` GROUP BY status;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to count vehicles", err)
	}
	defer rows.Close()

	var counts []domain.StatusCount
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan status count", err)
		}
		counts = append(counts, domain.StatusCount{Status: domain.VehicleStatus(status), Count: int(count)})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating status counts", err)
	}
	return counts, nil
}

func (r *PgxVehicleRepository) SaveVehicle(ctx context.Context, vehicle domain.Vehicle) error {
	if vehicle.ProductsMalformed {
		return apperrors.NewPreconditionError("cannot save a vehicle with unreadable product data")
	}
	m, err := mapping.ToModelVehicle(vehicle)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.VehicleID, m.DisplayID, m.TenantID,
		m.CustomerName, m.CustomerPhone, m.CustomerEmail,
		m.RegistrationNumber, m.Make, m.Model, m.Year, m.Color, m.VehicleType,
		m.LocationID, m.ManagerID, m.Status, m.InvoiceNumber,
		m.Products, m.CompletedProducts,
		m.DiscountAmount, m.DiscountPercentage, m.DiscountOfferedByID, m.DiscountOfferedByName,
		m.DiscountReason, m.DiscountRecordedAt,
		m.CompletedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == pgUniqueViolation {
			return apperrors.NewConflictError("vehicle already exists (" + constraint + ")")
		}
		return apperrors.NewAppError(500, "failed to save vehicle "+vehicle.VehicleID, err)
	}
	return nil
}

// UpdateVehicle writes the mutable columns. The statement matches only when the row is
// in the caller's tenant and still at expectedVersion; a miss is then classified.
// NULL product parameters keep the stored product data.
func (r *PgxVehicleRepository) UpdateVehicle(ctx context.Context, tenantID *string, vehicle domain.Vehicle, expectedVersion int64) error {
	m, err := mapping.ToModelVehicle(vehicle)
	if err != nil {
		return err
	}
	query := `
		UPDATE vehicles SET
			customer_name = $1, customer_phone = $2, customer_email = $3,
			registration_number = $4, make = $5, model = $6, year = $7, color = $8, vehicle_type = $9,
			location_id = $10, manager_id = $11, status = $12, invoice_number = $13,
			products = COALESCE($14, products), completed_products = COALESCE($15, completed_products),
			discount_amount = $16, discount_percentage = $17, discount_offered_by_id = $18,
			discount_offered_by_name = $19, discount_reason = $20, discount_recorded_at = $21,
			completed_at = $22, last_updated_at = $23, last_updated_by = $24, version = $25
		WHERE vehicle_id = $26 AND ($27::text IS NULL OR tenant_id = $27) AND version = $28;
	`
	result, err := r.Pool.Exec(ctx, query,
		m.CustomerName, m.CustomerPhone, m.CustomerEmail,
		m.RegistrationNumber, m.Make, m.Model, m.Year, m.Color, m.VehicleType,
		m.LocationID, m.ManagerID, m.Status, m.InvoiceNumber,
		m.Products, m.CompletedProducts,
		m.DiscountAmount, m.DiscountPercentage, m.DiscountOfferedByID,
		m.DiscountOfferedByName, m.DiscountReason, m.DiscountRecordedAt,
		m.CompletedAt, m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
		m.VehicleID, tenantID, expectedVersion,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update vehicle "+vehicle.VehicleID, err)
	}
	if result.RowsAffected() == 1 {
		return nil
	}
	if err := r.classifyMiss(ctx, tenantID, vehicle.VehicleID); err != nil {
		return err
	}
	return apperrors.ErrConflict
}
