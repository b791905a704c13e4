package domain

import "strings"

// EventType names a workflow event that may produce notifications.
type EventType string

const (
	EventInstallationComplete EventType = "installation_complete"
	EventInvoiceNumberSet     EventType = "invoice_number_set"
	EventVehicleCompleted     EventType = "vehicle_completed"
	EventVehicleDelivered     EventType = "vehicle_delivered"
)

// AllEventTypes lists every event users can subscribe to.
var AllEventTypes = []EventType{
	EventInstallationComplete,
	EventInvoiceNumberSet,
	EventVehicleCompleted,
	EventVehicleDelivered,
}

// IsValid reports whether e is a known event type.
func (e EventType) IsValid() bool {
	for _, candidate := range AllEventTypes {
		if e == candidate {
			return true
		}
	}
	return false
}

// defaultAudience is who hears about an event when they have no explicit preference.
var defaultAudience = map[EventType][]Role{
	EventInstallationComplete: {RoleAdmin, RoleManager, RoleAccountant},
	EventInvoiceNumberSet:     {RoleAdmin, RoleManager, RoleCoordinator},
	EventVehicleCompleted:     {RoleAdmin, RoleManager, RoleCoordinator},
	EventVehicleDelivered:     {RoleAdmin, RoleManager},
}

// InDefaultAudience reports whether role receives event by default.
func InDefaultAudience(event EventType, role Role) bool {
	for _, r := range defaultAudience[event] {
		if r == role {
			return true
		}
	}
	return false
}

// financialEvents carry invoicing outcomes; installers never receive them.
var financialEvents = map[EventType]bool{
	EventInvoiceNumberSet: true,
	EventVehicleCompleted: true,
}

// MayReceive reports whether a member with role can receive event at all, by default
// or through an explicit opt-in.
func MayReceive(event EventType, role Role) bool {
	if !role.IsValid() {
		return false
	}
	if InDefaultAudience(event, role) {
		return true
	}
	return !(financialEvents[event] && role == RoleInstaller)
}

// NotificationPreference is an explicit per-user opt-in or opt-out for one event type.
type NotificationPreference struct {
	TenantID  string    `json:"tenantID"`
	UserID    string    `json:"userID"`
	EventType EventType `json:"eventType"`
	Enabled   bool      `json:"enabled"`
}

// VehicleSnapshot is the read-only view of a vehicle handed to the notification gateway.
type VehicleSnapshot struct {
	VehicleID          string
	DisplayID          string
	TenantID           string
	RegistrationNumber string
	CustomerName       string
	Status             VehicleStatus
}

// SnapshotOf copies the fields notifications need out of v.
func SnapshotOf(v *Vehicle) VehicleSnapshot {
	return VehicleSnapshot{
		VehicleID:          v.VehicleID,
		DisplayID:          v.DisplayID,
		TenantID:           v.TenantID,
		RegistrationNumber: v.Info.RegistrationNumber,
		CustomerName:       v.Customer.Name,
		Status:             v.Status,
	}
}

// Recipient is a resolved notification target.
type Recipient struct {
	UserID  string
	Name    string
	Role    Role
	Address string
}

// DispatchResult reports the outcome of a best-effort delivery.
type DispatchResult struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}

var defaultTemplates = map[EventType]string{
	EventInstallationComplete: "Hi {{recipientName}} ({{recipientRole}}), installation is complete for vehicle {{vehicleNumber}} of {{customerName}}. Status: {{status}}. Ref: {{vehicleId}}",
	EventInvoiceNumberSet:     "Hi {{recipientName}}, an invoice was issued for vehicle {{vehicleNumber}} of {{customerName}}. Status: {{status}}. Ref: {{vehicleId}}",
	EventVehicleCompleted:     "Hi {{recipientName}}, vehicle {{vehicleNumber}} of {{customerName}} is completed and ready for delivery. Ref: {{vehicleId}}",
	EventVehicleDelivered:     "Hi {{recipientName}}, vehicle {{vehicleNumber}} of {{customerName}} has been delivered. Ref: {{vehicleId}}",
}

// DefaultTemplate returns the message template for event.
func DefaultTemplate(event EventType) string {
	return defaultTemplates[event]
}

// RenderTemplate substitutes the supported tokens in template.
func RenderTemplate(template string, snapshot VehicleSnapshot, recipient Recipient) string {
	vehicleNumber := snapshot.RegistrationNumber
	if vehicleNumber == "" {
		vehicleNumber = snapshot.DisplayID
	}
	replacer := strings.NewReplacer(
		"{{vehicleNumber}}", vehicleNumber,
		"{{customerName}}", snapshot.CustomerName,
		"{{recipientName}}", recipient.Name,
		"{{recipientRole}}", string(recipient.Role),
		"{{status}}", string(snapshot.Status),
		"{{vehicleId}}", snapshot.DisplayID,
	)
	return replacer.Replace(template)
}
