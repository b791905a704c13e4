package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/dto"
	"github.com/SscSPs/fitment_console/internal/handlers"
	"github.com/SscSPs/fitment_console/internal/middleware"
	"github.com/SscSPs/fitment_console/internal/platform/config"
	"github.com/SscSPs/fitment_console/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testTenantID  = "tenant-a"
	testVehicleID = "veh-1"
)

// --- Test Suite ---
type VehicleHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	jwtSecret     string
	mockResolver  *MockTenantContext
	mockVehicles  *MockVehicleService
	mockLifecycle *MockLifecycleService
	mockReporting *MockReportingService
}

func (suite *VehicleHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockResolver = new(MockTenantContext)
	suite.mockVehicles = new(MockVehicleService)
	suite.mockLifecycle = new(MockLifecycleService)
	suite.mockReporting = new(MockReportingService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, RateLimit: "1000-M", IsProduction: true}
	services := &portssvc.ServiceContainer{
		TenantContext: suite.mockResolver,
		Vehicle:       suite.mockVehicles,
		Lifecycle:     suite.mockLifecycle,
		Reporting:     suite.mockReporting,
	}
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, services))
}

// scopeAs makes the resolver return a scope with role for the user "user-<role>".
func (suite *VehicleHandlerTestSuite) scopeAs(role domain.Role) domain.TenantScope {
	scope := domain.TenantScope{ActorID: "user-" + string(role), ActorName: "Test " + string(role), TenantID: testTenantID, Role: role}
	suite.mockResolver.On("ResolveScope", mock.Anything, scope.ActorID, "").Return(scope, nil).Maybe()
	return scope
}

func (suite *VehicleHandlerTestSuite) generateTestToken(userID string) string {
	token, _, err := utils.GenerateJWT(userID, suite.jwtSecret, time.Hour, "fitment-test")
	suite.Require().NoError(err)
	return token
}

func (suite *VehicleHandlerTestSuite) do(method, url string, body any, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleVehicle(status domain.VehicleStatus) *domain.Vehicle {
	return &domain.Vehicle{
		VehicleID: testVehicleID,
		DisplayID: "VH-ABC123",
		TenantID:  testTenantID,
		Customer:  domain.CustomerInfo{Name: "Asha", Phone: "+919800000001"},
		Info:      domain.VehicleInfo{RegistrationNumber: "KA01AB1234", Make: "Tata", Model: "Nexon"},
		Status:    status,
		Products: []domain.ProductLineItem{
			{ProductName: "Seat covers", Price: decimal.NewFromInt(1500)},
			{ProductName: "Dashcam", Price: decimal.NewFromInt(1000)},
		},
		CompletedProducts: []int{0},
		InvoiceNumber:     "INV-7",
		AuditFields:       domain.AuditFields{Version: 3},
	}
}

func decodeVehicle(suite *VehicleHandlerTestSuite, w *httptest.ResponseRecorder) dto.VehicleResponse {
	var resp dto.VehicleResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// --- Test Cases ---

func (suite *VehicleHandlerTestSuite) TestCreateVehicle_Success() {
	scope := suite.scopeAs(domain.RoleManager)
	created := sampleVehicle(domain.StatusPending)
	created.CompletedProducts = nil

	suite.mockVehicles.On("CreateVehicle", mock.Anything, scope, mock.MatchedBy(func(r dto.CreateVehicleRequest) bool {
		return r.Info.RegistrationNumber == "KA01AB1234" && len(r.Products) == 2 && r.Products[0].Price.Equal(decimal.NewFromInt(1500))
	})).Return(created, nil).Once()

	body := map[string]any{
		"customer": map[string]any{"name": "Asha", "phone": "+919800000001"},
		"vehicle":  map[string]any{"registrationNumber": "KA01AB1234", "make": "Tata"},
		"products": []map[string]any{
			{"productName": "Seat covers", "price": "1500"},
			{"productName": "Dashcam", "price": "1000"},
		},
	}
	w := suite.do(http.MethodPost, "/api/v1/vehicles", body, scope.ActorID)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	resp := decodeVehicle(suite, w)
	suite.Equal("VH-ABC123", resp.DisplayID)
	suite.Require().NotNil(resp.Financials)
	suite.True(resp.Financials.GrossTotal.Equal(decimal.NewFromInt(2500)))
	suite.mockVehicles.AssertExpectations(suite.T())
}

func (suite *VehicleHandlerTestSuite) TestCreateVehicle_MissingProducts() {
	scope := suite.scopeAs(domain.RoleManager)
	body := map[string]any{
		"customer": map[string]any{"name": "Asha"},
		"vehicle":  map[string]any{"registrationNumber": "KA01AB1234"},
		"products": []map[string]any{},
	}
	w := suite.do(http.MethodPost, "/api/v1/vehicles", body, scope.ActorID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockVehicles.AssertNotCalled(suite.T(), "CreateVehicle", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VehicleHandlerTestSuite) TestGetVehicle_InstallerDoesNotSeeMoney() {
	scope := suite.scopeAs(domain.RoleInstaller)
	suite.mockVehicles.On("GetVehicle", mock.Anything, scope, testVehicleID).
		Return(sampleVehicle(domain.StatusUnderInstallation), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/vehicles/"+testVehicleID, nil, scope.ActorID)

	suite.Equal(http.StatusOK, w.Code)
	resp := decodeVehicle(suite, w)
	suite.Nil(resp.Financials)
	suite.Empty(resp.InvoiceNumber)
	suite.Require().Len(resp.Products, 2)
	suite.Nil(resp.Products[0].Price)
	suite.True(resp.Products[0].Completed)
	suite.False(resp.Products[1].Completed)
	suite.NotContains(w.Body.String(), "1500")
}

func (suite *VehicleHandlerTestSuite) TestGetVehicle_OtherTenantLooksMissing() {
	scope := suite.scopeAs(domain.RoleAdmin)
	suite.mockVehicles.On("GetVehicle", mock.Anything, scope, "veh-foreign").Return(nil, apperrors.ErrTenantIsolation).Once()
	suite.mockVehicles.On("GetVehicle", mock.Anything, scope, "veh-missing").Return(nil, apperrors.NewNotFoundError("vehicle veh-missing not found")).Once()

	foreign := suite.do(http.MethodGet, "/api/v1/vehicles/veh-foreign", nil, scope.ActorID)
	missing := suite.do(http.MethodGet, "/api/v1/vehicles/veh-missing", nil, scope.ActorID)

	suite.Equal(http.StatusNotFound, foreign.Code)
	suite.Equal(http.StatusNotFound, missing.Code)
	suite.JSONEq(missing.Body.String(), foreign.Body.String())
}

func (suite *VehicleHandlerTestSuite) TestRequiresToken() {
	w := suite.do(http.MethodGet, "/api/v1/vehicles/"+testVehicleID, nil, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockResolver.AssertNotCalled(suite.T(), "ResolveScope", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VehicleHandlerTestSuite) TestUnresolvedTenant_IsForbidden() {
	suite.mockResolver.On("ResolveScope", mock.Anything, "user-stranger", "tenant-b").
		Return(domain.TenantScope{}, apperrors.ErrTenantUnresolved).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/vehicles", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("user-stranger"))
	req.Header.Set(middleware.TenantHeader, "tenant-b")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockVehicles.AssertNotCalled(suite.T(), "ListVehicles", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VehicleHandlerTestSuite) TestListVehicles_PassesFilters() {
	scope := suite.scopeAs(domain.RoleCoordinator)
	next := "next-page"
	suite.mockVehicles.On("ListVehicles", mock.Anything, scope, mock.MatchedBy(func(p dto.ListVehiclesParams) bool {
		return p.Limit == 5 && len(p.Status) == 2 && p.Status[0] == domain.StatusPending && p.Status[1] == domain.StatusInProgress
	})).Return([]domain.Vehicle{*sampleVehicle(domain.StatusPending)}, &next, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/vehicles?status=pending&status=in_progress&limit=5", nil, scope.ActorID)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListVehiclesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Vehicles, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
	// Coordinators cannot view financials.
	suite.Nil(resp.Vehicles[0].Financials)
	suite.mockVehicles.AssertExpectations(suite.T())
}

func (suite *VehicleHandlerTestSuite) TestListVehicles_UnknownStatus() {
	scope := suite.scopeAs(domain.RoleAdmin)

	w := suite.do(http.MethodGet, "/api/v1/vehicles?status=teleported", nil, scope.ActorID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockVehicles.AssertNotCalled(suite.T(), "ListVehicles", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VehicleHandlerTestSuite) TestAdvanceStatus_ErrorMapping() {
	scope := suite.scopeAs(domain.RoleAdmin)

	testCases := []struct {
		name     string
		target   domain.VehicleStatus
		err      error
		wantCode int
	}{
		{"illegal edge", domain.StatusDelivered, apperrors.NewInvalidTransitionError("pending", "delivered"), http.StatusConflict},
		{"invoice missing", domain.StatusCompleted, apperrors.NewPreconditionError("set an invoice number first"), http.StatusPreconditionFailed},
		{"role cannot", domain.StatusInProgress, fmt.Errorf("%w: no", apperrors.ErrForbidden), http.StatusForbidden},
		{"concurrent edit", domain.StatusUnderInstallation, apperrors.ErrConflict, http.StatusConflict},
		{"storage down", domain.StatusInstallationComplete, apperrors.NewAppError(500, "db", fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.mockLifecycle.On("AdvanceStatus", mock.Anything, scope, testVehicleID, tc.target).Return(nil, tc.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/vehicles/"+testVehicleID+"/status", map[string]string{"status": string(tc.target)}, scope.ActorID)

			suite.Equal(tc.wantCode, w.Code, w.Body.String())
		})
	}
	suite.mockLifecycle.AssertExpectations(suite.T())
}

func (suite *VehicleHandlerTestSuite) TestAdvanceStatus_RejectsUnknownStatus() {
	scope := suite.scopeAs(domain.RoleAdmin)

	w := suite.do(http.MethodPost, "/api/v1/vehicles/"+testVehicleID+"/status", map[string]string{"status": "teleported"}, scope.ActorID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLifecycle.AssertNotCalled(suite.T(), "AdvanceStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VehicleHandlerTestSuite) TestSetProductCompletion() {
	scope := suite.scopeAs(domain.RoleInstaller)
	done := sampleVehicle(domain.StatusInstallationComplete)
	done.CompletedProducts = []int{0, 1}
	suite.mockLifecycle.On("SetProductCompletion", mock.Anything, scope, testVehicleID, 1, true).Return(done, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/vehicles/"+testVehicleID+"/products/1/completion", map[string]bool{"completed": true}, scope.ActorID)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	resp := decodeVehicle(suite, w)
	suite.Equal(domain.StatusInstallationComplete, resp.Status)
	suite.True(resp.Products[1].Completed)
}

func (suite *VehicleHandlerTestSuite) TestSetProductCompletion_BadInput() {
	scope := suite.scopeAs(domain.RoleInstaller)

	notANumber := suite.do(http.MethodPut, "/api/v1/vehicles/"+testVehicleID+"/products/abc/completion", map[string]bool{"completed": true}, scope.ActorID)
	missingFlag := suite.do(http.MethodPut, "/api/v1/vehicles/"+testVehicleID+"/products/0/completion", map[string]string{}, scope.ActorID)

	suite.Equal(http.StatusBadRequest, notANumber.Code)
	suite.Equal(http.StatusBadRequest, missingFlag.Code)
	suite.mockLifecycle.AssertNotCalled(suite.T(), "SetProductCompletion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *VehicleHandlerTestSuite) TestRecordDiscount() {
	scope := suite.scopeAs(domain.RoleAccountant)
	discounted := sampleVehicle(domain.StatusCompleted)
	discounted.Discount = &domain.DiscountRecord{Amount: decimal.NewFromInt(500), OfferedByID: scope.ActorID, Reason: "loyal customer"}

	suite.mockLifecycle.On("RecordDiscount", mock.Anything, scope, testVehicleID, mock.MatchedBy(func(r dto.RecordDiscountRequest) bool {
		return r.Amount.Equal(decimal.NewFromInt(500))
	})).Return(discounted, nil).Once()
	suite.mockLifecycle.On("RecordDiscount", mock.Anything, scope, testVehicleID, mock.MatchedBy(func(r dto.RecordDiscountRequest) bool {
		return r.Amount.Equal(decimal.NewFromInt(9000))
	})).Return(nil, fmt.Errorf("%w: discount exceeds the gross total", apperrors.ErrValidation)).Once()

	ok := suite.do(http.MethodPut, "/api/v1/vehicles/"+testVehicleID+"/discount", map[string]string{"amount": "500", "reason": "loyal customer"}, scope.ActorID)
	tooMuch := suite.do(http.MethodPut, "/api/v1/vehicles/"+testVehicleID+"/discount", map[string]string{"amount": "9000"}, scope.ActorID)

	suite.Equal(http.StatusOK, ok.Code, ok.Body.String())
	resp := decodeVehicle(suite, ok)
	suite.Require().NotNil(resp.Financials)
	suite.Require().NotNil(resp.Financials.Discount)
	suite.True(resp.Financials.FinalAmount.Equal(decimal.NewFromInt(2000)))
	suite.True(resp.Financials.Discount.Percentage.Equal(decimal.NewFromInt(20)))

	suite.Equal(http.StatusBadRequest, tooMuch.Code)
	suite.Contains(tooMuch.Body.String(), "exceeds")
}

func (suite *VehicleHandlerTestSuite) TestFinancialSummary() {
	scope := suite.scopeAs(domain.RoleAccountant)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	suite.mockReporting.On("FinancialSummary", mock.Anything, scope, domain.ReportWindow{From: from, To: to}).
		Return(&domain.FinancialSummary{Count: 2, GrossTotal: decimal.NewFromInt(2500)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/summary?fromDate=2026-01-01&toDate=2026-01-31", nil, scope.ActorID)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.FinancialSummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.Summary.Count)
	suite.Equal("2026-01-01", resp.FromDate)
	suite.mockReporting.AssertExpectations(suite.T())
}

func (suite *VehicleHandlerTestSuite) TestFinancialSummary_BadWindow() {
	scope := suite.scopeAs(domain.RoleAccountant)

	badFormat := suite.do(http.MethodGet, "/api/v1/reports/summary?fromDate=01-02-2026", nil, scope.ActorID)
	reversed := suite.do(http.MethodGet, "/api/v1/reports/summary?fromDate=2026-03-01&toDate=2026-01-01", nil, scope.ActorID)

	suite.Equal(http.StatusBadRequest, badFormat.Code)
	suite.Equal(http.StatusBadRequest, reversed.Code)
	suite.mockReporting.AssertNotCalled(suite.T(), "FinancialSummary", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestVehicleHandler(t *testing.T) {
	suite.Run(t, new(VehicleHandlerTestSuite))
}
