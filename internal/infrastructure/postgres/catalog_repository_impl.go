package postgres

import (
	"context"

	"github.com/oksasatya/passvault/internal/domain/entity"
	"github.com/oksasatya/passvault/internal/domain/repository"
)

// CatalogRepository reads lookup tables through a RecordStore.
type CatalogRepository struct {
	store repository.RecordStore
}

func NewCatalogRepository(store repository.RecordStore) *CatalogRepository {
	return &CatalogRepository{store: store}
}

func activeFilter(activeOnly bool) []repository.Filter {
	if !activeOnly {
		return nil
	}
	return []repository.Filter{{Column: "is_active", Op: repository.OpEq, Value: true}}
}

var byName = []repository.Order{{Column: "name"}}

func (r *CatalogRepository) Categories(ctx context.Context, activeOnly bool) ([]entity.Category, error) {
	rows, err := r.store.Query(ctx, "categories", activeFilter(activeOnly), byName)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryFromRow(row))
	}
	return out, nil
}

func (r *CatalogRepository) AccountTypes(ctx context.Context, activeOnly bool) ([]entity.AccountType, error) {
	rows, err := r.store.Query(ctx, "account_types", activeFilter(activeOnly), byName)
	if err != nil {
		return nil, err
	}
	out := make([]entity.AccountType, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.AccountType{
			ID:       str(row, "id"),
			Name:     str(row, "name"),
			Icon:     str(row, "icon"),
			IsActive: boolean(row, "is_active"),
		})
	}
	return out, nil
}

func (r *CatalogRepository) Subcategories(ctx context.Context, accountTypeID string, activeOnly bool) ([]entity.Subcategory, error) {
	filters := activeFilter(activeOnly)
	if accountTypeID != "" {
		filters = append(filters, repository.Filter{Column: "account_type_id", Op: repository.OpEq, Value: accountTypeID})
	}
	rows, err := r.store.Query(ctx, "subcategories", filters, byName)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Subcategory, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.Subcategory{
			ID:            str(row, "id"),
			AccountTypeID: str(row, "account_type_id"),
			Name:          str(row, "name"),
			Icon:          str(row, "icon"),
			IsActive:      boolean(row, "is_active"),
		})
	}
	return out, nil
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, name, icon string) (*entity.Category, error) {
	row, err := r.store.Insert(ctx, "categories", repository.Row{"name": name, "icon": icon, "is_active": true})
	if err != nil {
		return nil, err
	}
	c := categoryFromRow(row)
	return &c, nil
}

func (r *CatalogRepository) SetCategoryActive(ctx context.Context, id string, active bool) error {
	return r.store.Update(ctx, "categories", id, repository.Row{"is_active": active})
}

func categoryFromRow(row repository.Row) entity.Category {
	return entity.Category{
		ID:       str(row, "id"),
		Name:     str(row, "name"),
		Icon:     str(row, "icon"),
		IsActive: boolean(row, "is_active"),
	}
}

// str and boolean read loosely typed row values; missing or NULL yields the zero value.
func str(row repository.Row, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

func boolean(row repository.Row, key string) bool {
	if v, ok := row[key].(bool); ok {
		return v
	}
	return false
}

var _ repository.CatalogRepository = (*CatalogRepository)(nil)
