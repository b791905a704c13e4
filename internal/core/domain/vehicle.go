package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/fitment_console/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ProductLineItem is one requested accessory embedded in a vehicle record.
type ProductLineItem struct {
	ProductName  string          `json:"productName"`
	Brand        string          `json:"brand"`
	DepartmentID string          `json:"departmentID"`
	Price        decimal.Decimal `json:"price"` // Non-negative
}

// DiscountRecord is the post-installation adjustment to the payable amount.
type DiscountRecord struct {
	Amount        decimal.Decimal `json:"amount"`
	Percentage    decimal.Decimal `json:"percentage"` // Derived from Amount and the gross total
	OfferedByID   string          `json:"offeredByID"`
	OfferedByName string          `json:"offeredByName"`
	Reason        string          `json:"reason"`
	RecordedAt    time.Time       `json:"recordedAt"`
}

// CustomerInfo holds the vehicle owner's contact details.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// VehicleInfo describes the vehicle itself.
type VehicleInfo struct {
	RegistrationNumber string `json:"registrationNumber"`
	Make               string `json:"make"`
	Model              string `json:"model"`
	Year               int    `json:"year"`
	Color              string `json:"color"`
	VehicleType        string `json:"vehicleType"`
}

// Vehicle is the unit of work tracked through the installation lifecycle.
type Vehicle struct {
	VehicleID  string        `json:"vehicleID"`
	DisplayID  string        `json:"displayID"`
	TenantID   string        `json:"tenantID"` // Immutable after creation
	Customer   CustomerInfo  `json:"customer"`
	Info       VehicleInfo   `json:"info"`
	LocationID string        `json:"locationID"`
	ManagerID  string        `json:"managerID"`
	Status     VehicleStatus `json:"status"`

	Products []ProductLineItem `json:"products"`
	// ProductsMalformed is set when stored product data could not be decoded and
	// Products was degraded to an empty list.
	ProductsMalformed bool `json:"-"`

	// CompletedProducts holds sorted, unique indices into Products.
	CompletedProducts []int           `json:"completedProducts"`
	Discount          *DiscountRecord `json:"discount,omitempty"`
	InvoiceNumber     string          `json:"invoiceNumber"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"` // When installation became complete

	AuditFields
}

// TransitionOutcome describes what a state machine operation changed.
type TransitionOutcome struct {
	Changed bool
	From    VehicleStatus
	To      VehicleStatus
	Events  []EventType
}

// StatusChanged reports whether the status moved.
func (o TransitionOutcome) StatusChanged() bool {
	return o.From != o.To
}

// IsProductComplete reports whether the product at index is marked done.
func (v *Vehicle) IsProductComplete(index int) bool {
	for _, i := range v.CompletedProducts {
		if i == index {
			return true
		}
	}
	return false
}

// SetProductCompletion marks a product line item done or undone and then evaluates the
// installation guard. Setting an index to its current value is a no-op.
func (v *Vehicle) SetProductCompletion(index int, done bool, now time.Time) (TransitionOutcome, error) {
	out := TransitionOutcome{From: v.Status, To: v.Status}
	if !v.Status.AllowsProductToggle() {
		return out, apperrors.NewPreconditionError(fmt.Sprintf("products can no longer be toggled once the vehicle is %s", v.Status))
	}
	if index < 0 || index >= len(v.Products) {
		return out, fmt.Errorf("%w: product index %d out of range", apperrors.ErrValidation, index)
	}
	if v.IsProductComplete(index) == done {
		return out, nil
	}

	if done {
		v.CompletedProducts = normalizeIndices(append(v.CompletedProducts, index), len(v.Products))
	} else {
		kept := v.CompletedProducts[:0:0]
		for _, i := range v.CompletedProducts {
			if i != index {
				kept = append(kept, i)
			}
		}
		v.CompletedProducts = kept
	}
	out.Changed = true

	v.evaluateInstallationGuard(now, &out)
	return out, nil
}

// ReplaceProducts swaps the product list while installation is still open. Completion
// indices that no longer point at a product are dropped.
func (v *Vehicle) ReplaceProducts(items []ProductLineItem, now time.Time) (TransitionOutcome, error) {
	out := TransitionOutcome{From: v.Status, To: v.Status}
	if !v.Status.AllowsProductToggle() {
		return out, apperrors.NewPreconditionError(fmt.Sprintf("products can no longer be edited once the vehicle is %s", v.Status))
	}
	if err := ValidateProducts(items); err != nil {
		return out, err
	}
	v.Products = items
	v.ProductsMalformed = false
	v.CompletedProducts = normalizeIndices(v.CompletedProducts, len(items))
	out.Changed = true

	v.evaluateInstallationGuard(now, &out)
	return out, nil
}

// evaluateInstallationGuard is the implicit transition: once every product is done the
// vehicle moves to installation_complete.
func (v *Vehicle) evaluateInstallationGuard(now time.Time, out *TransitionOutcome) {
	if !v.Status.AllowsProductToggle() {
		return
	}
	if len(v.Products) == 0 || len(v.CompletedProducts) != len(v.Products) {
		return
	}
	v.Status = StatusInstallationComplete
	v.CompletedAt = &now
	out.To = v.Status
	out.Changed = true
	out.Events = append(out.Events, EventInstallationComplete)
}

// Advance applies an explicit status change. Only single forward steps are legal;
// requesting the current status of a non-terminal vehicle is a no-op.
// Capability checks are the caller's job; see TransitionCapability.
func (v *Vehicle) Advance(target VehicleStatus, now time.Time) (TransitionOutcome, error) {
	out := TransitionOutcome{From: v.Status, To: v.Status}
	if !target.IsValid() {
		return out, apperrors.NewInvalidTransitionError(string(v.Status), string(target))
	}
	if v.Status.IsTerminal() {
		return out, apperrors.NewInvalidTransitionError(string(v.Status), string(target))
	}
	if target == v.Status {
		return out, nil
	}
	next, ok := v.Status.Next()
	if !ok || next != target {
		return out, apperrors.NewInvalidTransitionError(string(v.Status), string(target))
	}

	switch target {
	case StatusInstallationComplete:
		v.CompletedAt = &now
		out.Events = append(out.Events, EventInstallationComplete)
	case StatusCompleted:
		if strings.TrimSpace(v.InvoiceNumber) == "" {
			return out, apperrors.NewPreconditionError("set an invoice number before marking the vehicle complete")
		}
		out.Events = append(out.Events, EventVehicleCompleted)
	case StatusDelivered:
		out.Events = append(out.Events, EventVehicleDelivered)
	}

	v.Status = target
	out.To = target
	out.Changed = true
	return out, nil
}

// SetInvoiceNumber records the externally issued invoice number.
func (v *Vehicle) SetInvoiceNumber(invoiceNumber string) (TransitionOutcome, error) {
	out := TransitionOutcome{From: v.Status, To: v.Status}
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return out, fmt.Errorf("%w: invoice number must not be blank", apperrors.ErrValidation)
	}
	if v.Status.IsTerminal() {
		return out, apperrors.NewPreconditionError("invoice number cannot change after delivery")
	}
	if invoiceNumber == v.InvoiceNumber {
		return out, nil
	}
	v.InvoiceNumber = invoiceNumber
	out.Changed = true
	out.Events = append(out.Events, EventInvoiceNumberSet)
	return out, nil
}

// AllowsDiscount reports whether a discount may be recorded in the current status.
func (v *Vehicle) AllowsDiscount() bool {
	return v.Status == StatusInstallationComplete || v.Status == StatusCompleted
}

// DiscountPrecondition returns an error when a discount cannot be recorded now.
func (v *Vehicle) DiscountPrecondition() error {
	if !v.AllowsDiscount() {
		return apperrors.NewPreconditionError(fmt.Sprintf("discounts can only be recorded after installation is complete (vehicle is %s)", v.Status))
	}
	if v.ProductsMalformed {
		return apperrors.NewPreconditionError("product data for this vehicle is malformed; fix the product list before recording a discount")
	}
	return nil
}

// RecordDiscount attaches a discount that was already validated against the gross total.
func (v *Vehicle) RecordDiscount(record DiscountRecord) error {
	if err := v.DiscountPrecondition(); err != nil {
		return err
	}
	v.Discount = &record
	return nil
}

// ValidateProducts checks every line item for a name and a non-negative price.
func ValidateProducts(items []ProductLineItem) error {
	for i, item := range items {
		if strings.TrimSpace(item.ProductName) == "" {
			return fmt.Errorf("%w: product %d has no name", apperrors.ErrValidation, i)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: product %d has a negative price", apperrors.ErrValidation, i)
		}
	}
	return nil
}

// normalizeIndices sorts, deduplicates and drops indices outside [0, count).
func normalizeIndices(indices []int, count int) []int {
	seen := make(map[int]struct{}, len(indices))
	result := make([]int, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= count {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		result = append(result, i)
	}
	sort.Ints(result)
	return result
}
