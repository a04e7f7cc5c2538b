package entity

import "time"

// PasswordRecord is a credential entry owned by one user, joined with the
// names of its category, account type and optional subcategory.
//
// Secret is stored and returned as plain text. There is no client or
// server side encryption of vault secrets in this system.
type PasswordRecord struct {
	ID              string
	UserID          string
	Title           string
	Email           string
	Secret          string
	Description     string
	CategoryID      string
	CategoryName    string
	AccountTypeID   string
	AccountTypeName string
	SubcategoryID   string
	SubcategoryName string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PasswordHistory keeps a superseded secret.
type PasswordHistory struct {
	ID          string
	PasswordID  string
	UserID      string
	OldPassword string
	ChangedAt   time.Time
}
