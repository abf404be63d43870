// Package models - user.go defines the User model for inventory accounts with
// username, bcrypt password hash, and a single system-wide role.
package models

import "time"

// Role values assignable to users. Admin can do everything including user and
// audit log management, editor can manage inventory data, viewer is read-only.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// ValidRole reports whether s is one of the assignable roles.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleEditor || s == RoleViewer
}

// User represents a user account
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	Email        *string // Nullable; used for expiry and reachability notifications
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin returns true if the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanWrite returns true if the user may create, update, or delete inventory data
func (u *User) CanWrite() bool {
	return u.Role == RoleAdmin || u.Role == RoleEditor
}
