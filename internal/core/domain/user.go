package domain

import "time"

// User represents a human actor of the console.
type User struct {
	UserID       string `json:"userID"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"` // WhatsApp/SMS address for notifications
	PasswordHash string `json:"-"`
	// IsSuperAdmin exempts the user from tenant partitioning. It is independent of any
	// membership.
	IsSuperAdmin bool `json:"isSuperAdmin"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
