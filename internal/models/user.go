package models

import "time"

// User is the users table row.
type User struct {
	UserID       string     `db:"user_id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	Phone        string     `db:"phone"`
	PasswordHash string     `db:"password_hash"`
	IsSuperAdmin bool       `db:"is_super_admin"`
	DeletedAt    *time.Time `db:"deleted_at"`
	AuditFields
}
