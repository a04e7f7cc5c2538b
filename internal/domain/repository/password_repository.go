package repository

import (
	"context"

	"github.com/oksasatya/passvault/internal/domain/entity"
)

// PasswordPatch lists the columns an edit changes. Nil fields are left untouched.
type PasswordPatch struct {
	Title         *string
	Email         *string
	Secret        *string
	Description   *string
	CategoryID    *string
	AccountTypeID *string
	SubcategoryID *string
}

// Empty reports whether the patch changes nothing.
func (p PasswordPatch) Empty() bool {
	return p.Title == nil && p.Email == nil && p.Secret == nil && p.Description == nil &&
		p.CategoryID == nil && p.AccountTypeID == nil && p.SubcategoryID == nil
}

// PasswordRepository persists vault records. Every call is scoped to one owner.
type PasswordRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entity.PasswordRecord, error)
	GetByID(ctx context.Context, userID, id string) (*entity.PasswordRecord, error)
	Create(ctx context.Context, rec *entity.PasswordRecord) error
	Update(ctx context.Context, userID, id string, patch PasswordPatch) error
	// UpdateWithHistory applies patch and stores h atomically; used when the
	// secret changes.
	UpdateWithHistory(ctx context.Context, userID, id string, patch PasswordPatch, h entity.PasswordHistory) error
	Delete(ctx context.Context, userID, id string) error
}
