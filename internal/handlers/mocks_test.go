package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock TenantContextSvc ---
type MockTenantContext struct {
	mock.Mock
}

func (m *MockTenantContext) ResolveScope(ctx context.Context, actorID, requestedTenantID string) (domain.TenantScope, error) {
	args := m.Called(ctx, actorID, requestedTenantID)
	return args.Get(0).(domain.TenantScope), args.Error(1)
}

var _ portssvc.TenantContextSvc = (*MockTenantContext)(nil)

// --- Mock VehicleSvcFacade ---
type MockVehicleService struct {
	mock.Mock
}

func (m *MockVehicleService) GetVehicle(ctx context.Context, scope domain.TenantScope, vehicleID string) (*domain.Vehicle, error) {
	args := m.Called(ctx, scope, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) ListVehicles(ctx context.Context, scope domain.TenantScope, params dto.ListVehiclesParams) ([]domain.Vehicle, *string, error) {
	args := m.Called(ctx, scope, params)
	var token *string
	if t := args.Get(1); t != nil {
		token = t.(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.Vehicle), token, args.Error(2)
}

func (m *MockVehicleService) CreateVehicle(ctx context.Context, scope domain.TenantScope, req dto.CreateVehicleRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, scope, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleService) ReplaceProducts(ctx context.Context, scope domain.TenantScope, vehicleID string, req dto.ReplaceProductsRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, scope, vehicleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

var _ portssvc.VehicleSvcFacade = (*MockVehicleService)(nil)

// --- Mock LifecycleSvcFacade ---
type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) AdvanceStatus(ctx context.Context, scope domain.TenantScope, vehicleID string, target domain.VehicleStatus) (*domain.Vehicle, error) {
	args := m.Called(ctx, scope, vehicleID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockLifecycleService) SetProductCompletion(ctx context.Context, scope domain.TenantScope, vehicleID string, index int, done bool) (*domain.Vehicle, error) {
	args := m.Called(ctx, scope, vehicleID, index, done)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockLifecycleService) SetInvoiceNumber(ctx context.Context, scope domain.TenantScope, vehicleID string, invoiceNumber string) (*domain.Vehicle, error) {
	args := m.Called(ctx, scope, vehicleID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockLifecycleService) RecordDiscount(ctx context.Context, scope domain.TenantScope, vehicleID string, req dto.RecordDiscountRequest) (*domain.Vehicle, error) {
	args := m.Called(ctx, scope, vehicleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

var _ portssvc.LifecycleSvcFacade = (*MockLifecycleService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) VehicleAmounts(ctx context.Context, scope domain.TenantScope, vehicleID string) (*domain.VehicleAmounts, error) {
	args := m.Called(ctx, scope, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleAmounts), args.Error(1)
}

func (m *MockReportingService) FinancialSummary(ctx context.Context, scope domain.TenantScope, window domain.ReportWindow) (*domain.FinancialSummary, error) {
	args := m.Called(ctx, scope, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialSummary), args.Error(1)
}

func (m *MockReportingService) StatusCounts(ctx context.Context, scope domain.TenantScope) ([]domain.StatusCount, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock UserSvcFacade ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock TokenSvcFacade ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)
