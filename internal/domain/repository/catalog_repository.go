package repository

import (
	"context"

	"github.com/oksasatya/passvault/internal/domain/entity"
)

// CatalogRepository reads the lookup tables records point at.
type CatalogRepository interface {
	Categories(ctx context.Context, activeOnly bool) ([]entity.Category, error)
	AccountTypes(ctx context.Context, activeOnly bool) ([]entity.AccountType, error)
	Subcategories(ctx context.Context, accountTypeID string, activeOnly bool) ([]entity.Subcategory, error)
	CreateCategory(ctx context.Context, name, icon string) (*entity.Category, error)
	SetCategoryActive(ctx context.Context, id string, active bool) error
}
