package domain

// Capability names an action that is gated by role.
type Capability string

const (
	CapCreateVehicle           Capability = "create_vehicle"
	CapAdvanceInstallStatus    Capability = "advance_install_status"
	CapToggleProductCompletion Capability = "toggle_product_completion"
	CapViewFinancials          Capability = "view_financials"
	CapSetInvoiceNumber        Capability = "set_invoice_number"
	CapMarkAccountantComplete  Capability = "mark_accountant_complete"
	CapRecordDiscount          Capability = "record_discount"
	CapDeliverVehicle          Capability = "deliver_vehicle"
	CapManageTenantConfig      Capability = "manage_tenant_config"
)

var rolePolicy = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapCreateVehicle:           true,
		CapAdvanceInstallStatus:    true,
		CapToggleProductCompletion: true,
		CapViewFinancials:          true,
		CapSetInvoiceNumber:        true,
		CapMarkAccountantComplete:  true,
		CapRecordDiscount:          true,
		CapDeliverVehicle:          true,
		CapManageTenantConfig:      true,
	},
	RoleManager: {
		CapCreateVehicle:           true,
		CapAdvanceInstallStatus:    true,
		CapToggleProductCompletion: true,
		CapViewFinancials:          true,
	},
	RoleCoordinator: {
		CapCreateVehicle:  true,
		CapDeliverVehicle: true,
	},
	RoleInstaller: {
		CapAdvanceInstallStatus:    true,
		CapToggleProductCompletion: true,
	},
	RoleAccountant: {
		CapViewFinancials:         true,
		CapSetInvoiceNumber:       true,
		CapMarkAccountantComplete: true,
		CapRecordDiscount:         true,
	},
}

// RoleCan reports whether role grants capability. Unknown roles and RoleRemoved grant nothing.
func RoleCan(role Role, capability Capability) bool {
	return rolePolicy[role][capability]
}

// ScopeCan reports whether the scope grants capability. Super-admins can do everything.
func ScopeCan(scope TenantScope, capability Capability) bool {
	if scope.SuperAdmin {
		return true
	}
	return RoleCan(scope.Role, capability)
}

// VisibleStatuses returns the statuses whose vehicles the role may see, or nil when the
// role sees every status.
func VisibleStatuses(role Role) []VehicleStatus {
	switch role {
	case RoleInstaller:
		return []VehicleStatus{StatusPending, StatusInProgress, StatusUnderInstallation, StatusInstallationComplete}
	case RoleAccountant:
		return []VehicleStatus{StatusInstallationComplete, StatusCompleted, StatusDelivered, StatusCompleteAndDelivered}
	default:
		return nil
	}
}

// CanSeeStatus reports whether a vehicle in status is visible to the scope.
func CanSeeStatus(scope TenantScope, status VehicleStatus) bool {
	if scope.SuperAdmin {
		return true
	}
	visible := VisibleStatuses(scope.Role)
	if visible == nil {
		return true
	}
	for _, s := range visible {
		if s == status {
			return true
		}
	}
	return false
}

// VehicleStatusesFor returns the statuses visible to scope, or nil for no restriction.
func VehicleStatusesFor(scope TenantScope) []VehicleStatus {
	if scope.SuperAdmin {
		return nil
	}
	return VisibleStatuses(scope.Role)
}
