package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle is the vehicles table row. Products are stored as a JSONB document and
// completion as an int[] of product indices; the discount is flattened into nullable
// columns.
type Vehicle struct {
	VehicleID          string `db:"vehicle_id"`
	DisplayID          string `db:"display_id"`
	TenantID           string `db:"tenant_id"`
	CustomerName       string `db:"customer_name"`
	CustomerPhone      string `db:"customer_phone"`
	CustomerEmail      string `db:"customer_email"`
	RegistrationNumber string `db:"registration_number"`
	Make               string `db:"make"`
	Model              string `db:"model"`
	Year               int32  `db:"year"`
	Color              string `db:"color"`
	VehicleType        string `db:"vehicle_type"`
	LocationID         string `db:"location_id"`
	ManagerID          string `db:"manager_id"`
	Status             string `db:"status"`
	InvoiceNumber      string `db:"invoice_number"`

	Products          []byte  `db:"products"`
	CompletedProducts []int32 `db:"completed_products"`

	DiscountAmount        decimal.NullDecimal `db:"discount_amount"`
	DiscountPercentage    decimal.NullDecimal `db:"discount_percentage"`
	DiscountOfferedByID   *string             `db:"discount_offered_by_id"`
	DiscountOfferedByName *string             `db:"discount_offered_by_name"`
	DiscountReason        *string             `db:"discount_reason"`
	DiscountRecordedAt    *time.Time          `db:"discount_recorded_at"`

	CompletedAt *time.Time `db:"completed_at"`
	AuditFields
}
