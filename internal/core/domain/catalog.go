package domain

// CatalogKind names a tenant configuration list.
type CatalogKind string

const (
	CatalogLocation    CatalogKind = "location"
	CatalogVehicleType CatalogKind = "vehicle_type"
	CatalogDepartment  CatalogKind = "department"
)

// IsValid reports whether k is a known catalog kind.
func (k CatalogKind) IsValid() bool {
	return k == CatalogLocation || k == CatalogVehicleType || k == CatalogDepartment
}

// CatalogEntry is a tenant-scoped configuration value such as a workshop location.
type CatalogEntry struct {
	EntryID  string      `json:"entryID"`
	TenantID string      `json:"tenantID"`
	Kind     CatalogKind `json:"kind"`
	Name     string      `json:"name"`
	IsActive bool        `json:"isActive"`
	AuditFields
}
