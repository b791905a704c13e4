package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/fitment_console/internal/core/domain"
	"github.com/SscSPs/fitment_console/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelVehicle converts a domain Vehicle to its row form. A vehicle read with
// unreadable product data maps to nil Products and CompletedProducts, which the update
// statement treats as "keep what is stored".
func ToModelVehicle(d domain.Vehicle) (models.Vehicle, error) {
	var (
		encoded   []byte
		completed []int32
	)
	if !d.ProductsMalformed {
		products := d.Products
		if products == nil {
			products = []domain.ProductLineItem{}
		}
		var err error
		encoded, err = json.Marshal(products)
		if err != nil {
			return models.Vehicle{}, fmt.Errorf("failed to encode products: %w", err)
		}
		completed = make([]int32, len(d.CompletedProducts))
		for i, idx := range d.CompletedProducts {
			completed[i] = int32(idx)
		}
	}

	m := models.Vehicle{
		VehicleID:          d.VehicleID,
		DisplayID:          d.DisplayID,
		TenantID:           d.TenantID,
		CustomerName:       d.Customer.Name,
		CustomerPhone:      d.Customer.Phone,
		CustomerEmail:      d.Customer.Email,
		RegistrationNumber: d.Info.RegistrationNumber,
		Make:               d.Info.Make,
		Model:              d.Info.Model,
		Year:               int32(d.Info.Year),
		Color:              d.Info.Color,
		VehicleType:        d.Info.VehicleType,
		LocationID:         d.LocationID,
		ManagerID:          d.ManagerID,
		Status:             string(d.Status),
		InvoiceNumber:      d.InvoiceNumber,
		Products:           encoded,
		CompletedProducts:  completed,
		CompletedAt:        d.CompletedAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	if d.Discount != nil {
		m.DiscountAmount = decimal.NewNullDecimal(d.Discount.Amount)
		m.DiscountPercentage = decimal.NewNullDecimal(d.Discount.Percentage)
		m.DiscountOfferedByID = &d.Discount.OfferedByID
		m.DiscountOfferedByName = &d.Discount.OfferedByName
		m.DiscountReason = &d.Discount.Reason
		recordedAt := d.Discount.RecordedAt
		m.DiscountRecordedAt = &recordedAt
	}
	return m, nil
}

// ToDomainVehicle converts a row to a domain Vehicle. Product data that cannot be
// decoded degrades to an empty list with ProductsMalformed set, so the record stays
// readable.
func ToDomainVehicle(m models.Vehicle) domain.Vehicle {
	d := domain.Vehicle{
		VehicleID: m.VehicleID,
		DisplayID: m.DisplayID,
		TenantID:  m.TenantID,
		Customer: domain.CustomerInfo{
			Name:  m.CustomerName,
			Phone: m.CustomerPhone,
			Email: m.CustomerEmail,
		},
		Info: domain.VehicleInfo{
			RegistrationNumber: m.RegistrationNumber,
			Make:               m.Make,
			Model:              m.Model,
			Year:               int(m.Year),
			Color:              m.Color,
			VehicleType:        m.VehicleType,
		},
		LocationID:    m.LocationID,
		ManagerID:     m.ManagerID,
		Status:        domain.VehicleStatus(m.Status),
		InvoiceNumber: m.InvoiceNumber,
		CompletedAt:   m.CompletedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}

	products, ok := decodeProducts(m.Products)
	d.Products = products
	d.ProductsMalformed = !ok

	completed := make([]int, 0, len(m.CompletedProducts))
	for _, idx := range m.CompletedProducts {
		if int(idx) >= 0 && int(idx) < len(products) {
			completed = append(completed, int(idx))
		}
	}
	d.CompletedProducts = completed

	if m.DiscountAmount.Valid {
		d.Discount = &domain.DiscountRecord{
			Amount:        m.DiscountAmount.Decimal,
			Percentage:    m.DiscountPercentage.Decimal,
			OfferedByID:   deref(m.DiscountOfferedByID),
			OfferedByName: deref(m.DiscountOfferedByName),
			Reason:        deref(m.DiscountReason),
		}
		if m.DiscountRecordedAt != nil {
			d.Discount.RecordedAt = *m.DiscountRecordedAt
		}
	}
	return d
}

// decodeProducts returns false when raw is not a JSON array of line items or any
// item carries a negative price.
func decodeProducts(raw []byte) ([]domain.ProductLineItem, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return []domain.ProductLineItem{}, true
	}
	var items []domain.ProductLineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return []domain.ProductLineItem{}, false
	}
	for _, item := range items {
		if item.Price.IsNegative() {
			return []domain.ProductLineItem{}, false
		}
	}
	if items == nil {
		items = []domain.ProductLineItem{}
	}
	return items, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
