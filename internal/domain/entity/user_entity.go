package entity

import (
	"time"
)

// Role names stored in the roles table.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the aggregate root for account and profile data.
// Password holds the bcrypt hash of the login password, never a vault secret.
type User struct {
	ID         string
	Email      string
	Password   string
	Name       string
	AvatarURL  string
	Role       string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
