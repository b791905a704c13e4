package domain

// VehicleStatus is the lifecycle stage of a vehicle record.
type VehicleStatus string

const (
	StatusPending              VehicleStatus = "pending"
	StatusInProgress           VehicleStatus = "in_progress"
	StatusUnderInstallation    VehicleStatus = "under_installation"
	StatusInstallationComplete VehicleStatus = "installation_complete"
	StatusCompleted            VehicleStatus = "completed"
	StatusDelivered            VehicleStatus = "delivered"
	// StatusCompleteAndDelivered is a legacy value. It is terminal like StatusDelivered.
	StatusCompleteAndDelivered VehicleStatus = "complete_and_delivered"
)

// statusRank orders the lifecycle. The legacy alias shares the rank of delivered.
var statusRank = map[VehicleStatus]int{
	StatusPending:              0,
	StatusInProgress:           1,
	StatusUnderInstallation:    2,
	StatusInstallationComplete: 3,
	StatusCompleted:            4,
	StatusDelivered:            5,
	StatusCompleteAndDelivered: 5,
}

// AllStatuses lists every status in lifecycle order, legacy alias last.
var AllStatuses = []VehicleStatus{
	StatusPending,
	StatusInProgress,
	StatusUnderInstallation,
	StatusInstallationComplete,
	StatusCompleted,
	StatusDelivered,
	StatusCompleteAndDelivered,
}

// IsValid reports whether s is a known status.
func (s VehicleStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// IsTerminal reports whether no further status-affecting operation is legal.
func (s VehicleStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCompleteAndDelivered
}

// AllowsProductToggle reports whether per-product completion may still change.
func (s VehicleStatus) AllowsProductToggle() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusUnderInstallation
}

// Next returns the single forward step from s, or false when s has none.
func (s VehicleStatus) Next() (VehicleStatus, bool) {
	switch s {
	case StatusPending:
		return StatusInProgress, true
	case StatusInProgress:
		return StatusUnderInstallation, true
	case StatusUnderInstallation:
		return StatusInstallationComplete, true
	case StatusInstallationComplete:
		return StatusCompleted, true
	case StatusCompleted:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// Before reports whether s comes strictly earlier in the lifecycle than other.
func (s VehicleStatus) Before(other VehicleStatus) bool {
	return statusRank[s] < statusRank[other]
}

// TransitionCapability returns the capability needed to move from s to its next status.
func TransitionCapability(from VehicleStatus) (Capability, bool) {
	switch from {
	case StatusPending, StatusInProgress, StatusUnderInstallation:
		return CapAdvanceInstallStatus, true
	case StatusInstallationComplete:
		return CapMarkAccountantComplete, true
	case StatusCompleted:
		return CapDeliverVehicle, true
	default:
		return "", false
	}
}
