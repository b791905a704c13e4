package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/SscSPs/fitment_console/internal/core/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	tenantA = "tenant-a"
	tenantB = "tenant-b"
)

func scopeFor(tenantID string, role domain.Role) domain.TenantScope {
	return domain.TenantScope{
		ActorID:   "user-" + string(role),
		ActorName: "Test " + string(role),
		TenantID:  tenantID,
		Role:      role,
	}
}

func newTestVehicle(tenantID string, status domain.VehicleStatus, prices ...string) domain.Vehicle {
	products := make([]domain.ProductLineItem, len(prices))
	for i, p := range prices {
		products[i] = domain.ProductLineItem{
			ProductName: "Product " + string(rune('A'+i)),
			Price:       decimal.RequireFromString(p),
		}
	}
	return domain.Vehicle{
		VehicleID:         uuid.NewString(),
		DisplayID:         "VH-261017-ABC123",
		TenantID:          tenantID,
		Customer:          domain.CustomerInfo{Name: "Asha"},
		Info:              domain.VehicleInfo{RegistrationNumber: "KA01AB1234"},
		Status:            status,
		Products:          products,
		CompletedProducts: []int{},
		AuditFields:       domain.AuditFields{Version: 1, CreatedAt: time.Now()},
	}
}

type LifecycleServiceTestSuite struct {
	suite.Suite
	repo      *fakeVehicleRepo
	tenants   *MockTenantRepository
	publisher *recordingPublisher
	service   *services.VehicleService
}

func (suite *LifecycleServiceTestSuite) SetupTest() {
	suite.repo = newFakeVehicleRepo()
	suite.tenants = new(MockTenantRepository)
	suite.publisher = &recordingPublisher{}
	suite.service = services.NewVehicleService(suite.repo, suite.tenants,
		services.WithNotificationPublisher(suite.publisher),
		services.WithMaxRetries(5))
}

func (suite *LifecycleServiceTestSuite) seed(v domain.Vehicle) domain.Vehicle {
	suite.repo.put(v)
	return v
}

// --- Product completion and the installation guard ---

func (suite *LifecycleServiceTestSuite) TestToggleAllProducts_CompletesInstallation() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusUnderInstallation, "100", "200"))
	installer := scopeFor(tenantA, domain.RoleInstaller)

	updated, err := suite.service.SetProductCompletion(ctx, installer, v.VehicleID, 0, true)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusUnderInstallation, updated.Status)
	suite.Empty(suite.publisher.eventTypes())

	updated, err = suite.service.SetProductCompletion(ctx, installer, v.VehicleID, 1, true)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusInstallationComplete, updated.Status)
	suite.Equal([]int{0, 1}, updated.CompletedProducts)
	suite.NotNil(updated.CompletedAt)
	suite.Equal(int64(3), updated.Version)
	suite.Equal([]domain.EventType{domain.EventInstallationComplete}, suite.publisher.eventTypes())

	stored := suite.repo.get(v.VehicleID)
	suite.Equal(domain.StatusInstallationComplete, stored.Status)
}

func (suite *LifecycleServiceTestSuite) TestToggleSameValue_IsNoOp() {
	ctx := context.Background()
	v := newTestVehicle(tenantA, domain.StatusInProgress, "100", "200")
	v.CompletedProducts = []int{0}
	suite.seed(v)

	updated, err := suite.service.SetProductCompletion(ctx, scopeFor(tenantA, domain.RoleManager), v.VehicleID, 0, true)
	suite.Require().NoError(err)
	suite.Equal(int64(1), updated.Version)
	suite.Equal(0, suite.repo.updateCount())
}

func (suite *LifecycleServiceTestSuite) TestToggleAfterInstallation_PreconditionFailed() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusInstallationComplete, "100"))

	_, err := suite.service.SetProductCompletion(ctx, scopeFor(tenantA, domain.RoleInstaller), v.VehicleID, 0, false)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.Equal(0, suite.repo.updateCount())
}

func (suite *LifecycleServiceTestSuite) TestToggleOutOfRange_ValidationError() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusPending, "100"))

	_, err := suite.service.SetProductCompletion(ctx, scopeFor(tenantA, domain.RoleInstaller), v.VehicleID, 3, true)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Explicit transitions ---

func (suite *LifecycleServiceTestSuite) TestAdvance_InvoiceGatesCompletion() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusInstallationComplete, "1000"))
	accountant := scopeFor(tenantA, domain.RoleAccountant)

	_, err := suite.service.AdvanceStatus(ctx, accountant, v.VehicleID, domain.StatusCompleted)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.Equal(domain.StatusInstallationComplete, suite.repo.get(v.VehicleID).Status)

	updated, err := suite.service.SetInvoiceNumber(ctx, accountant, v.VehicleID, "  INV-42 ")
	suite.Require().NoError(err)
	suite.Equal("INV-42", updated.InvoiceNumber)

	updated, err = suite.service.AdvanceStatus(ctx, accountant, v.VehicleID, domain.StatusCompleted)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, updated.Status)

	updated, err = suite.service.AdvanceStatus(ctx, scopeFor(tenantA, domain.RoleCoordinator), v.VehicleID, domain.StatusDelivered)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusDelivered, updated.Status)

	suite.Equal([]domain.EventType{
		domain.EventInvoiceNumberSet,
		domain.EventVehicleCompleted,
		domain.EventVehicleDelivered,
	}, suite.publisher.eventTypes())
}

func (suite *LifecycleServiceTestSuite) TestAdvance_SkippingAStepIsRejected() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusPending, "100"))

	_, err := suite.service.AdvanceStatus(ctx, scopeFor(tenantA, domain.RoleManager), v.VehicleID, domain.StatusUnderInstallation)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Equal(0, suite.repo.updateCount())
}

func (suite *LifecycleServiceTestSuite) TestAdvance_FromTerminalIsRejected() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusCompleteAndDelivered, "100"))

	_, err := suite.service.AdvanceStatus(ctx, scopeFor(tenantA, domain.RoleAdmin), v.VehicleID, domain.StatusDelivered)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *LifecycleServiceTestSuite) TestAdvance_CapabilityDependsOnStep() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusInstallationComplete, "100"))

	// Installers drive installation but cannot sign off on accounts.
	_, err := suite.service.AdvanceStatus(ctx, scopeFor(tenantA, domain.RoleInstaller), v.VehicleID, domain.StatusCompleted)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Equal(0, suite.repo.updateCount())

	w := suite.seed(newTestVehicle(tenantA, domain.StatusPending, "100"))
	updated, err := suite.service.AdvanceStatus(ctx, scopeFor(tenantA, domain.RoleInstaller), w.VehicleID, domain.StatusInProgress)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusInProgress, updated.Status)
}

func (suite *LifecycleServiceTestSuite) TestAdvance_SameStatusIsNoOpForAnyVisibleRole() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusInstallationComplete, "100"))

	updated, err := suite.service.AdvanceStatus(ctx, scopeFor(tenantA, domain.RoleInstaller), v.VehicleID, domain.StatusInstallationComplete)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusInstallationComplete, updated.Status)
	suite.Equal(int64(1), updated.Version)
	suite.Equal(0, suite.repo.updateCount())
	suite.Empty(suite.publisher.eventTypes())
}

func (suite *LifecycleServiceTestSuite) TestWrites_HiddenStatusForbidden() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusPending, "100"))

	_, err := suite.service.SetInvoiceNumber(ctx, scopeFor(tenantA, domain.RoleAccountant), v.VehicleID, "INV-1")
	suite.ErrorIs(err, apperrors.ErrForbidden)

	w := suite.seed(newTestVehicle(tenantA, domain.StatusCompleted, "100"))
	_, err = suite.service.AdvanceStatus(ctx, scopeFor(tenantA, domain.RoleInstaller), w.VehicleID, domain.StatusCompleted)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.Equal(0, suite.repo.updateCount())
	suite.Empty(suite.repo.get(v.VehicleID).InvoiceNumber)
}

func (suite *LifecycleServiceTestSuite) TestSetInvoiceNumber_DeniedBeforeAnyWrite() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusInstallationComplete, "100"))

	_, err := suite.service.SetInvoiceNumber(ctx, scopeFor(tenantA, domain.RoleInstaller), v.VehicleID, "INV-1")
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Equal(0, suite.repo.updateCount())
	suite.Empty(suite.repo.get(v.VehicleID).InvoiceNumber)
	suite.Empty(suite.publisher.eventTypes())
}

// --- Tenant isolation ---

func (suite *LifecycleServiceTestSuite) TestCrossTenantAccess_LooksLikeNotFound() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantB, domain.StatusUnderInstallation, "100"))
	admin := scopeFor(tenantA, domain.RoleAdmin)

	_, err := suite.service.GetVehicle(ctx, admin, v.VehicleID)
	suite.ErrorIs(err, apperrors.ErrTenantIsolation)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.SetProductCompletion(ctx, admin, v.VehicleID, 0, true)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(0, suite.repo.updateCount())
	suite.Empty(suite.repo.get(v.VehicleID).CompletedProducts)
}

func (suite *LifecycleServiceTestSuite) TestStoreGuard_ReceivesCallerTenant() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusPending, "100"))

	_, err := suite.service.AdvanceStatus(ctx, scopeFor(tenantA, domain.RoleManager), v.VehicleID, domain.StatusInProgress)
	suite.Require().NoError(err)

	filters := suite.repo.recordedFilters()
	suite.Require().Len(filters, 2) // one read, one write
	for _, filter := range filters {
		suite.Require().NotNil(filter)
		suite.Equal(tenantA, *filter)
	}

	// The store refuses a write whose caller tenant differs from the stored row, even
	// when the record handed to it claims the caller's tenant.
	forged := suite.repo.get(v.VehicleID)
	forged.TenantID = tenantB
	other := tenantB
	err = suite.repo.UpdateVehicle(ctx, &other, forged, forged.Version)
	suite.ErrorIs(err, apperrors.ErrTenantIsolation)
	suite.Equal(tenantA, suite.repo.get(v.VehicleID).TenantID)
}

func (suite *LifecycleServiceTestSuite) TestSuperAdmin_ReachesEveryTenant() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantB, domain.StatusPending, "100"))
	super := domain.TenantScope{ActorID: "root", SuperAdmin: true, Role: domain.RoleAdmin}

	updated, err := suite.service.AdvanceStatus(ctx, super, v.VehicleID, domain.StatusInProgress)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusInProgress, updated.Status)
	for _, filter := range suite.repo.recordedFilters() {
		suite.Nil(filter)
	}
}

func (suite *LifecycleServiceTestSuite) TestUnresolvedScope_Rejected() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusPending, "100"))

	_, err := suite.service.GetVehicle(ctx, domain.TenantScope{ActorID: "u1"}, v.VehicleID)
	suite.ErrorIs(err, apperrors.ErrTenantUnresolved)
}

// --- Concurrency ---

func (suite *LifecycleServiceTestSuite) TestConcurrentEdit_RetriedAgainstFreshRow() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusUnderInstallation, "100", "200", "300"))

	// Another writer marks product 1 done between our read and our write.
	suite.repo.afterFind = func(r *fakeVehicleRepo) {
		row := r.get(v.VehicleID)
		row.CompletedProducts = []int{1}
		row.Version++
		r.put(row)
	}

	updated, err := suite.service.SetProductCompletion(ctx, scopeFor(tenantA, domain.RoleInstaller), v.VehicleID, 0, true)
	suite.Require().NoError(err)
	suite.Equal([]int{0, 1}, updated.CompletedProducts)
	suite.Equal(int64(3), updated.Version)
	suite.Equal([]int{0, 1}, suite.repo.get(v.VehicleID).CompletedProducts)
}

func (suite *LifecycleServiceTestSuite) TestPersistentConflict_GivesUp() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusUnderInstallation, "100"))
	suite.repo.alwaysConflict = true

	_, err := suite.service.SetProductCompletion(ctx, scopeFor(tenantA, domain.RoleInstaller), v.VehicleID, 0, true)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Empty(suite.publisher.eventTypes())
}

func (suite *LifecycleServiceTestSuite) TestParallelToggles_NoLostUpdates() {
	ctx := context.Background()
	const products = 6
	prices := make([]string, products)
	for i := range prices {
		prices[i] = "10"
	}
	v := suite.seed(newTestVehicle(tenantA, domain.StatusUnderInstallation, prices...))
	svc := services.NewVehicleService(suite.repo, suite.tenants,
		services.WithNotificationPublisher(suite.publisher),
		services.WithMaxRetries(100))

	var wg sync.WaitGroup
	errs := make(chan error, products)
	for i := 0; i < products; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			_, err := svc.SetProductCompletion(ctx, scopeFor(tenantA, domain.RoleInstaller), v.VehicleID, index, true)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		suite.NoError(err)
	}

	stored := suite.repo.get(v.VehicleID)
	suite.Equal([]int{0, 1, 2, 3, 4, 5}, stored.CompletedProducts)
	suite.Equal(domain.StatusInstallationComplete, stored.Status)
	suite.Equal([]domain.EventType{domain.EventInstallationComplete}, suite.publisher.eventTypes())
}

// --- Discounts ---

func (suite *LifecycleServiceTestSuite) TestRecordDiscount_DerivesPercentage() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusInstallationComplete, "2500", "1000"))
	accountant := scopeFor(tenantA, domain.RoleAccountant)

	updated, err := suite.service.RecordDiscount(ctx, accountant, v.VehicleID, dto.RecordDiscountRequest{
		Amount: decimal.NewFromInt(500),
		Reason: "loyal customer",
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.Discount)
	suite.True(updated.Discount.Percentage.Equal(decimal.RequireFromString("14.29")))
	suite.Equal(accountant.ActorID, updated.Discount.OfferedByID)
	suite.Equal(accountant.ActorName, updated.Discount.OfferedByName)
	suite.Equal(domain.StatusInstallationComplete, updated.Status)
}

func (suite *LifecycleServiceTestSuite) TestRecordDiscount_Rejections() {
	ctx := context.Background()
	accountant := scopeFor(tenantA, domain.RoleAccountant)

	early := suite.seed(newTestVehicle(tenantA, domain.StatusUnderInstallation, "100"))
	_, err := suite.service.RecordDiscount(ctx, accountant, early.VehicleID, dto.RecordDiscountRequest{Amount: decimal.NewFromInt(10)})
	suite.ErrorIs(err, apperrors.ErrPrecondition)

	over := suite.seed(newTestVehicle(tenantA, domain.StatusCompleted, "100"))
	_, err = suite.service.RecordDiscount(ctx, accountant, over.VehicleID, dto.RecordDiscountRequest{Amount: decimal.NewFromInt(101)})
	suite.ErrorIs(err, apperrors.ErrValidation)

	negative := suite.seed(newTestVehicle(tenantA, domain.StatusCompleted, "100"))
	_, err = suite.service.RecordDiscount(ctx, accountant, negative.VehicleID, dto.RecordDiscountRequest{Amount: decimal.NewFromInt(-1)})
	suite.ErrorIs(err, apperrors.ErrValidation)

	malformed := newTestVehicle(tenantA, domain.StatusCompleted)
	malformed.ProductsMalformed = true
	suite.seed(malformed)
	_, err = suite.service.RecordDiscount(ctx, accountant, malformed.VehicleID, dto.RecordDiscountRequest{Amount: decimal.Zero})
	suite.ErrorIs(err, apperrors.ErrPrecondition)

	_, err = suite.service.RecordDiscount(ctx, scopeFor(tenantA, domain.RoleManager), over.VehicleID, dto.RecordDiscountRequest{Amount: decimal.NewFromInt(1)})
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.Equal(0, suite.repo.updateCount())
}

func (suite *LifecycleServiceTestSuite) TestMalformedProducts_SurviveUnrelatedWrites() {
	ctx := context.Background()
	v := newTestVehicle(tenantA, domain.StatusInstallationComplete, "100")
	v.CompletedProducts = []int{0}
	v.ProductsMalformed = true
	suite.seed(v)
	accountant := scopeFor(tenantA, domain.RoleAccountant)

	updated, err := suite.service.SetInvoiceNumber(ctx, accountant, v.VehicleID, "INV-9")
	suite.Require().NoError(err)
	suite.Equal("INV-9", updated.InvoiceNumber)

	stored := suite.repo.get(v.VehicleID)
	suite.Equal("INV-9", stored.InvoiceNumber)
	suite.Equal(v.Products, stored.Products)
	suite.Equal([]int{0}, stored.CompletedProducts)
	suite.True(stored.ProductsMalformed)

	_, err = suite.service.RecordDiscount(ctx, accountant, v.VehicleID, dto.RecordDiscountRequest{Amount: decimal.Zero})
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.Equal(1, suite.repo.updateCount())
}

func (suite *LifecycleServiceTestSuite) TestReplaceProducts_RepairsMalformedRecord() {
	ctx := context.Background()
	v := newTestVehicle(tenantA, domain.StatusInProgress, "100")
	v.ProductsMalformed = true
	suite.seed(v)

	updated, err := suite.service.ReplaceProducts(ctx, scopeFor(tenantA, domain.RoleManager), v.VehicleID, dto.ReplaceProductsRequest{
		Products: []dto.ProductLineItemRequest{{ProductName: "Roof rack", Price: decimal.NewFromInt(750)}},
	})
	suite.Require().NoError(err)
	suite.False(updated.ProductsMalformed)

	stored := suite.repo.get(v.VehicleID)
	suite.False(stored.ProductsMalformed)
	suite.Require().Len(stored.Products, 1)
	suite.Equal("Roof rack", stored.Products[0].ProductName)
}

// --- Intake and queries ---

func (suite *LifecycleServiceTestSuite) TestCreateVehicle_Success() {
	ctx := context.Background()
	req := dto.CreateVehicleRequest{
		Customer: dto.CustomerRequest{Name: "Ravi"},
		Info:     dto.VehicleInfoRequest{RegistrationNumber: "MH12XY0001"},
		Products: []dto.ProductLineItemRequest{
			{ProductName: "Seat covers", Price: decimal.NewFromInt(4000)},
		},
	}

	created, err := suite.service.CreateVehicle(ctx, scopeFor(tenantA, domain.RoleCoordinator), req)
	suite.Require().NoError(err)
	suite.Equal(tenantA, created.TenantID)
	suite.Equal(domain.StatusPending, created.Status)
	suite.Equal(int64(1), created.Version)
	suite.Regexp(`^VH-\d{6}-[A-Z0-9]{6}$`, created.DisplayID)
	suite.Equal(created.DisplayID, suite.repo.get(created.VehicleID).DisplayID)
}

func (suite *LifecycleServiceTestSuite) TestCreateVehicle_ForeignTenantRejected() {
	req := dto.CreateVehicleRequest{
		TenantID: tenantB,
		Customer: dto.CustomerRequest{Name: "Ravi"},
		Info:     dto.VehicleInfoRequest{RegistrationNumber: "MH12XY0001"},
		Products: []dto.ProductLineItemRequest{{ProductName: "Mats", Price: decimal.NewFromInt(1)}},
	}
	_, err := suite.service.CreateVehicle(context.Background(), scopeFor(tenantA, domain.RoleManager), req)
	suite.ErrorIs(err, apperrors.ErrTenantIsolation)
}

func (suite *LifecycleServiceTestSuite) TestCreateVehicle_SuperAdminNeedsActiveTenant() {
	ctx := context.Background()
	super := domain.TenantScope{ActorID: "root", SuperAdmin: true, Role: domain.RoleAdmin}
	req := dto.CreateVehicleRequest{
		TenantID: tenantB,
		Customer: dto.CustomerRequest{Name: "Ravi"},
		Info:     dto.VehicleInfoRequest{RegistrationNumber: "MH12XY0001"},
		Products: []dto.ProductLineItemRequest{{ProductName: "Mats", Price: decimal.NewFromInt(1)}},
	}
	suite.tenants.On("FindTenantByID", ctx, tenantB).Return(&domain.Tenant{TenantID: tenantB, IsActive: false}, nil).Once()

	_, err := suite.service.CreateVehicle(ctx, super, req)
	suite.ErrorIs(err, apperrors.ErrPrecondition)
	suite.tenants.AssertExpectations(suite.T())
}

func (suite *LifecycleServiceTestSuite) TestCreateVehicle_InstallerDenied() {
	_, err := suite.service.CreateVehicle(context.Background(), scopeFor(tenantA, domain.RoleInstaller), dto.CreateVehicleRequest{})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *LifecycleServiceTestSuite) TestGetVehicle_HiddenStatusForbidden() {
	ctx := context.Background()
	v := suite.seed(newTestVehicle(tenantA, domain.StatusPending, "100"))

	_, err := suite.service.GetVehicle(ctx, scopeFor(tenantA, domain.RoleAccountant), v.VehicleID)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	got, err := suite.service.GetVehicle(ctx, scopeFor(tenantA, domain.RoleInstaller), v.VehicleID)
	suite.Require().NoError(err)
	suite.Equal(v.VehicleID, got.VehicleID)
}

func (suite *LifecycleServiceTestSuite) TestListVehicles_FilteredByTenantAndRole() {
	ctx := context.Background()
	suite.seed(newTestVehicle(tenantA, domain.StatusPending, "100"))
	suite.seed(newTestVehicle(tenantA, domain.StatusCompleted, "100"))
	suite.seed(newTestVehicle(tenantB, domain.StatusCompleted, "100"))

	vehicles, _, err := suite.service.ListVehicles(ctx, scopeFor(tenantA, domain.RoleAccountant), dto.ListVehiclesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(vehicles, 1)
	suite.Equal(domain.StatusCompleted, vehicles[0].Status)
	suite.Equal(tenantA, vehicles[0].TenantID)

	vehicles, _, err = suite.service.ListVehicles(ctx, scopeFor(tenantA, domain.RoleInstaller), dto.ListVehiclesParams{
		Status: []domain.VehicleStatus{domain.StatusDelivered},
	})
	suite.Require().NoError(err)
	suite.Empty(vehicles)

	vehicles, _, err = suite.service.ListVehicles(ctx, domain.TenantScope{ActorID: "root", SuperAdmin: true}, dto.ListVehiclesParams{})
	suite.Require().NoError(err)
	suite.Len(vehicles, 3)
}

func (suite *LifecycleServiceTestSuite) TestListVehicles_BadCursor() {
	token := "%%not base64%%"
	_, _, err := suite.service.ListVehicles(context.Background(), scopeFor(tenantA, domain.RoleAdmin), dto.ListVehiclesParams{NextToken: &token})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestLifecycleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleServiceTestSuite))
}

// TestNotificationFailure_DoesNotBlockWrite wires the real dispatcher and gateway to a
// transport that always fails.
func TestNotificationFailure_DoesNotBlockWrite(t *testing.T) {
	ctx := context.Background()
	v := newTestVehicle(tenantA, domain.StatusUnderInstallation, "100")
	repo := newFakeVehicleRepo(v)

	members := new(MockTenantRepository)
	members.On("ListMembershipsByTenantID", mock.Anything, tenantA).Return([]domain.Membership{
		{UserID: "m1", UserName: "Mira", UserPhone: "+911111111111", TenantID: tenantA, Role: domain.RoleManager},
	}, nil).Once()
	prefs := new(MockPreferenceRepository)
	prefs.On("ListPreferencesByTenant", mock.Anything, tenantA, domain.EventInstallationComplete).Return([]domain.NotificationPreference{}, nil).Once()
	transport := new(MockTransport)
	transport.On("Send", mock.Anything, "+911111111111", mock.AnythingOfType("string")).Return(errors.New("provider down")).Once()

	dispatcher := services.NewAsyncDispatcher(services.NewNotificationGateway(members, prefs, transport, nil), time.Second)
	svc := services.NewVehicleService(repo, members, services.WithNotificationPublisher(dispatcher))

	updated, err := svc.SetProductCompletion(ctx, scopeFor(tenantA, domain.RoleInstaller), v.VehicleID, 0, true)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInstallationComplete, updated.Status)

	dispatcher.Wait()
	assert.Equal(t, domain.StatusInstallationComplete, repo.get(v.VehicleID).Status)
	transport.AssertExpectations(t)
	members.AssertExpectations(t)
}
