package services_test

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portsrepo "github.com/SscSPs/fitment_console/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// --- MockUserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) SetSuperAdmin(ctx context.Context, userID string, superAdmin bool) error {
	return m.Called(ctx, userID, superAdmin).Error(0)
}

// --- MockTenantRepository ---

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenants(ctx context.Context, includeInactive bool) ([]domain.Tenant, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) ListTenantsByUserID(ctx context.Context, userID string) ([]domain.Tenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantRepository) SaveTenantInTx(ctx context.Context, tx pgx.Tx, tenant domain.Tenant) error {
	return m.Called(ctx, tx, tenant).Error(0)
}

func (m *MockTenantRepository) UpdateTenantStatus(ctx context.Context, tenant *domain.Tenant, isActive bool, updatedByUserID string) error {
	return m.Called(ctx, tenant, isActive, updatedByUserID).Error(0)
}

func (m *MockTenantRepository) AddMembershipInTx(ctx context.Context, tx pgx.Tx, membership domain.Membership) error {
	return m.Called(ctx, tx, membership).Error(0)
}

func (m *MockTenantRepository) AddMembership(ctx context.Context, membership domain.Membership) error {
	return m.Called(ctx, membership).Error(0)
}

func (m *MockTenantRepository) FindMembership(ctx context.Context, userID, tenantID string) (*domain.Membership, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockTenantRepository) ListMembershipsByUserID(ctx context.Context, userID string) ([]domain.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}

func (m *MockTenantRepository) ListMembershipsByTenantID(ctx context.Context, tenantID string) ([]domain.Membership, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Membership), args.Error(1)
}

func (m *MockTenantRepository) UpdateMembershipRole(ctx context.Context, userID, tenantID string, role domain.Role) error {
	return m.Called(ctx, userID, tenantID, role).Error(0)
}

// InTx records the call and, unless an error is configured, runs fn against a stub
// transaction so the InTx writes are checked as ordinary expectations.
func (m *MockTenantRepository) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}
	return fn(testTx)
}

// --- MockPreferenceRepository ---

type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) ListPreferencesByTenant(ctx context.Context, tenantID string, event domain.EventType) ([]domain.NotificationPreference, error) {
	args := m.Called(ctx, tenantID, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationPreference), args.Error(1)
}

func (m *MockPreferenceRepository) ListPreferencesByUser(ctx context.Context, tenantID, userID string) ([]domain.NotificationPreference, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NotificationPreference), args.Error(1)
}

func (m *MockPreferenceRepository) UpsertPreference(ctx context.Context, pref domain.NotificationPreference) error {
	return m.Called(ctx, pref).Error(0)
}

// --- MockTransport ---

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, address, message string) error {
	return m.Called(ctx, address, message).Error(0)
}

// --- fakeVehicleRepo is a stateful in-memory store enforcing the tenant and version guard ---
//
// Rows flagged ProductsMalformed keep their product data in the store but are handed out
// with empty products, the way the row mapping degrades unreadable JSON.

type fakeVehicleRepo struct {
	mu      sync.Mutex
	rows    map[string]domain.Vehicle
	updates int
	// filters records the tenant filter of every FindVehicleByID and UpdateVehicle call.
	filters []*string
	// afterFind runs once, right after the next FindVehicleByID returns, to simulate a
	// concurrent writer landing between our read and our write.
	afterFind func(r *fakeVehicleRepo)
	// alwaysConflict makes every update fail with ErrConflict.
	alwaysConflict bool
}

var _ portsrepo.VehicleRepositoryFacade = (*fakeVehicleRepo)(nil)

func newFakeVehicleRepo(vehicles ...domain.Vehicle) *fakeVehicleRepo {
	r := &fakeVehicleRepo{rows: map[string]domain.Vehicle{}}
	for _, v := range vehicles {
		r.rows[v.VehicleID] = cloneVehicle(v)
	}
	return r
}

func cloneVehicle(v domain.Vehicle) domain.Vehicle {
	out := v
	out.Products = append([]domain.ProductLineItem(nil), v.Products...)
	out.CompletedProducts = append([]int(nil), v.CompletedProducts...)
	if v.Discount != nil {
		d := *v.Discount
		out.Discount = &d
	}
	if v.CompletedAt != nil {
		t := *v.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

func (r *fakeVehicleRepo) get(id string) domain.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneVehicle(r.rows[id])
}

func (r *fakeVehicleRepo) put(v domain.Vehicle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[v.VehicleID] = cloneVehicle(v)
}

func (r *fakeVehicleRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

func (r *fakeVehicleRepo) FindVehicleByID(_ context.Context, tenantID *string, vehicleID string) (*domain.Vehicle, error) {
	r.mu.Lock()
	r.filters = append(r.filters, tenantID)
	row, ok := r.rows[vehicleID]
	hook := r.afterFind
	r.afterFind = nil
	r.mu.Unlock()
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if tenantID != nil && row.TenantID != *tenantID {
		return nil, apperrors.ErrTenantIsolation
	}
	v := readableVehicle(row)
	if hook != nil {
		hook(r)
	}
	return &v, nil
}

func readableVehicle(row domain.Vehicle) domain.Vehicle {
	v := cloneVehicle(row)
	if v.ProductsMalformed {
		v.Products = []domain.ProductLineItem{}
		v.CompletedProducts = []int{}
	}
	return v
}

func (r *fakeVehicleRepo) recordedFilters() []*string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*string(nil), r.filters...)
}

func (r *fakeVehicleRepo) ListVehicles(_ context.Context, tenantID *string, filter portsrepo.VehicleListFilter) ([]domain.Vehicle, *string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Vehicle
	for _, v := range r.rows {
		if tenantID != nil && v.TenantID != *tenantID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, v.Status) {
			continue
		}
		if !filter.Window.From.IsZero() && v.CreatedAt.Before(filter.Window.From) {
			continue
		}
		if !filter.Window.To.IsZero() && !v.CreatedAt.Before(filter.Window.To) {
			continue
		}
		result = append(result, readableVehicle(v))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].VehicleID < result[j].VehicleID })
	return result, nil, nil
}

func (r *fakeVehicleRepo) CountVehiclesByStatus(_ context.Context, tenantID *string) ([]domain.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.VehicleStatus]int{}
	for _, v := range r.rows {
		if tenantID != nil && v.TenantID != *tenantID {
			continue
		}
		counts[v.Status]++
	}
	var result []domain.StatusCount
	for status, n := range counts {
		result = append(result, domain.StatusCount{Status: status, Count: n})
	}
	return result, nil
}

func (r *fakeVehicleRepo) SaveVehicle(_ context.Context, vehicle domain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[vehicle.VehicleID]; exists {
		return apperrors.ErrDuplicate
	}
	r.rows[vehicle.VehicleID] = cloneVehicle(vehicle)
	return nil
}

func (r *fakeVehicleRepo) UpdateVehicle(_ context.Context, tenantID *string, vehicle domain.Vehicle, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters = append(r.filters, tenantID)
	row, ok := r.rows[vehicle.VehicleID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if tenantID != nil && row.TenantID != *tenantID {
		return apperrors.ErrTenantIsolation
	}
	if r.alwaysConflict || row.Version != expectedVersion {
		return apperrors.ErrConflict
	}
	next := cloneVehicle(vehicle)
	if vehicle.ProductsMalformed {
		next.Products = row.Products
		next.CompletedProducts = row.CompletedProducts
	}
	r.rows[vehicle.VehicleID] = next
	r.updates++
	return nil
}

func containsStatus(list []domain.VehicleStatus, s domain.VehicleStatus) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

// --- recordingPublisher captures published events synchronously ---

type publishedEvent struct {
	Event    domain.EventType
	Snapshot domain.VehicleSnapshot
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.EventType, snapshot domain.VehicleSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Event: event, Snapshot: snapshot})
}

func (p *recordingPublisher) Wait() {}

func (p *recordingPublisher) eventTypes() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event
	}
	return out
}

// --- MockCatalogRepository ---

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) SaveCatalogEntry(ctx context.Context, entry domain.CatalogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockCatalogRepository) FindCatalogEntryByID(ctx context.Context, entryID string) (*domain.CatalogEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogEntry), args.Error(1)
}

func (m *MockCatalogRepository) ListCatalogEntries(ctx context.Context, tenantID string, kind domain.CatalogKind, includeInactive bool) ([]domain.CatalogEntry, error) {
	args := m.Called(ctx, tenantID, kind, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogEntry), args.Error(1)
}

func (m *MockCatalogRepository) UpdateCatalogEntry(ctx context.Context, entry domain.CatalogEntry, expectedVersion int64) error {
	return m.Called(ctx, entry, expectedVersion).Error(0)
}
