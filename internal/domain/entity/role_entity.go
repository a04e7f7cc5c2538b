package entity

import "time"

// Role represents an authorization role.
// Many-to-many with User via user_roles; the vault only uses "admin" and "user".
type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidRole reports whether name is a role the application understands.
func ValidRole(name string) bool {
	return name == RoleAdmin || name == RoleUser
}
