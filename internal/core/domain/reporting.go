package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleAmounts holds the derived money figures of one vehicle.
type VehicleAmounts struct {
	VehicleID          string          `json:"vehicleID"`
	GrossTotal         decimal.Decimal `json:"grossTotal"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	FinalAmount        decimal.Decimal `json:"finalAmount"`
}

// FinancialSummary is the fold of many VehicleAmounts used by dashboards and accounts.
type FinancialSummary struct {
	Count                 int             `json:"count"`
	GrossTotal            decimal.Decimal `json:"grossTotal"`
	FinalTotal            decimal.Decimal `json:"finalTotal"`
	DiscountTotal         decimal.Decimal `json:"discountTotal"`
	AverageOrderValue     decimal.Decimal `json:"averageOrderValue"`
	DiscountedCount       int             `json:"discountedCount"`
	DiscountAdoptionRatio decimal.Decimal `json:"discountAdoptionRatio"`
}

// StatusCount is the number of vehicles in one status.
type StatusCount struct {
	Status VehicleStatus `json:"status"`
	Count  int           `json:"count"`
}

// ReportWindow bounds a report by vehicle creation time. Zero values are open ends.
type ReportWindow struct {
	From time.Time
	To   time.Time
}
