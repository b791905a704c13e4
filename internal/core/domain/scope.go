package domain

// TenantScope is the resolved tenant context of the acting user. It is produced once per
// request by the tenant context resolver and passed explicitly into every core call.
type TenantScope struct {
	ActorID   string
	ActorName string
	// TenantID is empty only when SuperAdmin is true. A super-admin may carry a
	// selected tenant here; it narrows reads but grants nothing.
	TenantID   string
	Role       Role
	SuperAdmin bool
}

// IsResolved reports whether the scope may be used for tenant-scoped work. A scope
// without a tenant is only usable by a super-admin.
func (s TenantScope) IsResolved() bool {
	if s.ActorID == "" {
		return false
	}
	return s.SuperAdmin || s.TenantID != ""
}

// Owns reports whether a record owned by tenantID is reachable from this scope.
func (s TenantScope) Owns(tenantID string) bool {
	if s.SuperAdmin {
		return true
	}
	return s.TenantID != "" && s.TenantID == tenantID
}

// TenantFilter returns the tenant id reads must filter on, or nil when the scope
// bypasses tenant filtering. A super-admin who selected a tenant is filtered to it.
func (s TenantScope) TenantFilter() *string {
	if s.SuperAdmin && s.TenantID == "" {
		return nil
	}
	id := s.TenantID
	return &id
}

// RecordFilter returns the tenant a single record must belong to, or nil for a
// super-admin. It agrees with Owns.
func (s TenantScope) RecordFilter() *string {
	if s.SuperAdmin {
		return nil
	}
	id := s.TenantID
	return &id
}
