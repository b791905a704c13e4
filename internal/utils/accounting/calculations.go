package accounting

import (
	"fmt"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeGrossTotal sums the prices of all line items. Negative prices never reach
// storage, but are skipped here so a bad row cannot reduce a total.
func ComputeGrossTotal(items []domain.ProductLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Price.IsNegative() {
			continue
		}
		total = total.Add(item.Price)
	}
	return total
}

// DiscountPercentage derives the percentage of gross represented by amount, rounded to
// two places. A zero gross total yields zero.
func DiscountPercentage(gross, amount decimal.Decimal) decimal.Decimal {
	if !gross.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(gross).Mul(hundred).Round(2)
}

// ValidateDiscount checks 0 <= amount <= gross.
func ValidateDiscount(gross, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: discount amount must not be negative", apperrors.ErrValidation)
	}
	if amount.GreaterThan(gross) {
		return fmt.Errorf("%w: discount amount %s exceeds the gross total %s", apperrors.ErrValidation, amount.String(), gross.String())
	}
	return nil
}

// ApplyDiscount returns the final payable amount and the record with its percentage
// recomputed from gross. The record's stored percentage is never trusted.
func ApplyDiscount(gross decimal.Decimal, record *domain.DiscountRecord) (decimal.Decimal, *domain.DiscountRecord) {
	if record == nil {
		return gross, nil
	}
	derived := *record
	derived.Percentage = DiscountPercentage(gross, record.Amount)
	return gross.Sub(record.Amount), &derived
}

// VehicleAmounts derives the money figures of one vehicle.
func VehicleAmounts(v *domain.Vehicle) domain.VehicleAmounts {
	gross := ComputeGrossTotal(v.Products)
	final, discount := ApplyDiscount(gross, v.Discount)
	amounts := domain.VehicleAmounts{
		VehicleID:          v.VehicleID,
		GrossTotal:         gross,
		DiscountAmount:     decimal.Zero,
		DiscountPercentage: decimal.Zero,
		FinalAmount:        final,
	}
	if discount != nil {
		amounts.DiscountAmount = discount.Amount
		amounts.DiscountPercentage = discount.Percentage
	}
	return amounts
}

// Summarize folds per-vehicle amounts into dashboard totals. An empty input yields a
// zero summary.
func Summarize(amounts []domain.VehicleAmounts) domain.FinancialSummary {
	summary := domain.FinancialSummary{
		GrossTotal:            decimal.Zero,
		FinalTotal:            decimal.Zero,
		DiscountTotal:         decimal.Zero,
		AverageOrderValue:     decimal.Zero,
		DiscountAdoptionRatio: decimal.Zero,
	}
	for _, a := range amounts {
		summary.Count++
		summary.GrossTotal = summary.GrossTotal.Add(a.GrossTotal)
		summary.FinalTotal = summary.FinalTotal.Add(a.FinalAmount)
		summary.DiscountTotal = summary.DiscountTotal.Add(a.DiscountAmount)
		if a.DiscountAmount.IsPositive() {
			summary.DiscountedCount++
		}
	}
	if summary.Count == 0 {
		return summary
	}
	count := decimal.NewFromInt(int64(summary.Count))
	summary.AverageOrderValue = summary.FinalTotal.Div(count).Round(2)
	summary.DiscountAdoptionRatio = decimal.NewFromInt(int64(summary.DiscountedCount)).Div(count).Round(4)
	return summary
}
