package dto

import (
	"time"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/SscSPs/fitment_console/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ProductLineItemRequest is one requested accessory.
type ProductLineItemRequest struct {
	ProductName  string          `json:"productName" binding:"required"`
	Brand        string          `json:"brand"`
	DepartmentID string          `json:"departmentID"`
	Price        decimal.Decimal `json:"price" swaggertype:"string" example:"2500.00"`
}

// CustomerRequest carries the vehicle owner's details.
type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
}

// VehicleInfoRequest describes the vehicle itself.
type VehicleInfoRequest struct {
	RegistrationNumber string `json:"registrationNumber" binding:"required"`
	Make               string `json:"make"`
	Model              string `json:"model"`
	Year               int    `json:"year" binding:"omitempty,gte=1900,lte=2100"`
	Color              string `json:"color"`
	VehicleType        string `json:"vehicleType"`
}

// CreateVehicleRequest defines data for registering a vehicle for installation.
type CreateVehicleRequest struct {
	// TenantID is only honoured for super-admins, who have no tenant of their own.
	TenantID   string                   `json:"tenantID,omitempty"`
	Customer   CustomerRequest          `json:"customer" binding:"required"`
	Info       VehicleInfoRequest       `json:"vehicle" binding:"required"`
	LocationID string                   `json:"locationID"`
	ManagerID  string                   `json:"managerID"`
	Products   []ProductLineItemRequest `json:"products" binding:"required,min=1,dive"`
}

// ReplaceProductsRequest swaps a vehicle's product list.
type ReplaceProductsRequest struct {
	Products []ProductLineItemRequest `json:"products" binding:"required,min=1,dive"`
}

// ListVehiclesParams defines query parameters for listing vehicles.
type ListVehiclesParams struct {
	Status    []domain.VehicleStatus `form:"status" binding:"omitempty,dive,vehicle_status"`
	Limit     int                    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string                `form:"nextToken"`
}

// ToProductLineItems converts request items into domain line items.
func ToProductLineItems(items []ProductLineItemRequest) []domain.ProductLineItem {
	result := make([]domain.ProductLineItem, len(items))
	for i, item := range items {
		result[i] = domain.ProductLineItem{
			ProductName:  item.ProductName,
			Brand:        item.Brand,
			DepartmentID: item.DepartmentID,
			Price:        item.Price,
		}
	}
	return result
}

// ProductResponse is a line item together with its completion flag.
type ProductResponse struct {
	Index        int              `json:"index"`
	ProductName  string           `json:"productName"`
	Brand        string           `json:"brand"`
	DepartmentID string           `json:"departmentID"`
	Price        *decimal.Decimal `json:"price,omitempty" swaggertype:"string"`
	Completed    bool             `json:"completed"`
}

// DiscountResponse is the recorded discount with its derived percentage.
type DiscountResponse struct {
	Amount        decimal.Decimal `json:"amount" swaggertype:"string"`
	Percentage    decimal.Decimal `json:"percentage" swaggertype:"string"`
	OfferedByID   string          `json:"offeredByID"`
	OfferedByName string          `json:"offeredByName"`
	Reason        string          `json:"reason"`
	RecordedAt    time.Time       `json:"recordedAt"`
}

// FinancialsResponse holds the derived money figures of a vehicle.
type FinancialsResponse struct {
	GrossTotal  decimal.Decimal   `json:"grossTotal" swaggertype:"string"`
	FinalAmount decimal.Decimal   `json:"finalAmount" swaggertype:"string"`
	Discount    *DiscountResponse `json:"discount,omitempty"`
}

// VehicleResponse defines data returned for a vehicle.
type VehicleResponse struct {
	VehicleID  string               `json:"vehicleID"`
	DisplayID  string               `json:"displayID"`
	TenantID   string               `json:"tenantID"`
	Customer   domain.CustomerInfo  `json:"customer"`
	Vehicle    domain.VehicleInfo   `json:"vehicle"`
	LocationID string               `json:"locationID"`
	ManagerID  string               `json:"managerID"`
	Status     domain.VehicleStatus `json:"status"`
	Products   []ProductResponse    `json:"products"`
	// ProductsMalformed is set when stored product data could not be read.
	ProductsMalformed bool                `json:"productsMalformed,omitempty"`
	InvoiceNumber     string              `json:"invoiceNumber,omitempty"`
	Financials        *FinancialsResponse `json:"financials,omitempty"`
	CompletedAt       *time.Time          `json:"completedAt,omitempty"`
	Version           int64               `json:"version"`
	CreatedAt         time.Time           `json:"createdAt"`
	CreatedBy         string              `json:"createdBy"`
	LastUpdatedAt     time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy     string              `json:"lastUpdatedBy"`
}

// ToVehicleResponse converts domain.Vehicle to DTO. Prices, discount, invoice number and
// totals are included only when showFinancials is set.
func ToVehicleResponse(v *domain.Vehicle, showFinancials bool) VehicleResponse {
	products := make([]ProductResponse, len(v.Products))
	for i, p := range v.Products {
		products[i] = ProductResponse{
			Index:        i,
			ProductName:  p.ProductName,
			Brand:        p.Brand,
			DepartmentID: p.DepartmentID,
			Completed:    v.IsProductComplete(i),
		}
		if showFinancials {
			price := p.Price
			products[i].Price = &price
		}
	}

	resp := VehicleResponse{
		VehicleID:         v.VehicleID,
		DisplayID:         v.DisplayID,
		TenantID:          v.TenantID,
		Customer:          v.Customer,
		Vehicle:           v.Info,
		LocationID:        v.LocationID,
		ManagerID:         v.ManagerID,
		Status:            v.Status,
		Products:          products,
		ProductsMalformed: v.ProductsMalformed,
		CompletedAt:       v.CompletedAt,
		Version:           v.Version,
		CreatedAt:         v.CreatedAt,
		CreatedBy:         v.CreatedBy,
		LastUpdatedAt:     v.LastUpdatedAt,
		LastUpdatedBy:     v.LastUpdatedBy,
	}

	if showFinancials {
		amounts := accounting.VehicleAmounts(v)
		resp.InvoiceNumber = v.InvoiceNumber
		resp.Financials = &FinancialsResponse{
			GrossTotal:  amounts.GrossTotal,
			FinalAmount: amounts.FinalAmount,
		}
		if v.Discount != nil {
			resp.Financials.Discount = &DiscountResponse{
				Amount:        amounts.DiscountAmount,
				Percentage:    amounts.DiscountPercentage,
				OfferedByID:   v.Discount.OfferedByID,
				OfferedByName: v.Discount.OfferedByName,
				Reason:        v.Discount.Reason,
				RecordedAt:    v.Discount.RecordedAt,
			}
		}
	}
	return resp
}

// ListVehiclesResponse wraps a page of vehicles.
type ListVehiclesResponse struct {
	Vehicles  []VehicleResponse `json:"vehicles"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListVehiclesResponse converts a page of vehicles to DTO.
func ToListVehiclesResponse(vs []domain.Vehicle, nextToken *string, showFinancials bool) ListVehiclesResponse {
	list := make([]VehicleResponse, len(vs))
	for i := range vs {
		list[i] = ToVehicleResponse(&vs[i], showFinancials)
	}
	return ListVehiclesResponse{Vehicles: list, NextToken: nextToken}
}

// --- Lifecycle DTOs ---

// AdvanceStatusRequest requests an explicit status change.
type AdvanceStatusRequest struct {
	Status domain.VehicleStatus `json:"status" binding:"required,vehicle_status"`
}

// SetProductCompletionRequest marks one product done or undone.
type SetProductCompletionRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// SetInvoiceNumberRequest records the invoice number.
type SetInvoiceNumberRequest struct {
	InvoiceNumber string `json:"invoiceNumber" binding:"required"`
}

// RecordDiscountRequest attaches a discount to a vehicle.
type RecordDiscountRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"1000.00"`
	Reason string          `json:"reason"`
}
