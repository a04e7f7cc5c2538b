package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/passvault/internal/domain/entity"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
)

func TestCatalogService_ActiveOnlyReads(t *testing.T) {
	var activeOnly []bool
	r := &catalogRepoMock{
		CategoriesFunc: func(_ context.Context, active bool) ([]entity.Category, error) {
			activeOnly = append(activeOnly, active)
			return []entity.Category{{ID: catID, Name: "Work", IsActive: true}}, nil
		},
		AccountTypesFunc: func(_ context.Context, active bool) ([]entity.AccountType, error) {
			assert.True(t, active)
			return []entity.AccountType{{ID: typeID, Name: "Email"}}, nil
		},
	}
	s := NewCatalogService(r, nil, 0, nil)

	cats, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	_, err = s.AllCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, activeOnly)

	types, err := s.AccountTypes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Email", types[0].Name)
}

func TestCatalogService_Subcategories(t *testing.T) {
	var scope string
	r := &catalogRepoMock{
		SubcategoriesFunc: func(_ context.Context, accountTypeID string, _ bool) ([]entity.Subcategory, error) {
			scope = accountTypeID
			return []entity.Subcategory{}, nil
		},
	}
	s := NewCatalogService(r, nil, 0, nil)

	_, err := s.Subcategories(context.Background(), typeID)
	require.NoError(t, err)
	assert.Equal(t, typeID, scope)

	_, err = s.Subcategories(context.Background(), "email")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalogService_CreateCategory(t *testing.T) {
	r := &catalogRepoMock{
		CreateCategoryFunc: func(_ context.Context, name, icon string) (*entity.Category, error) {
			if name == "Work" {
				return nil, repo.ErrConflict
			}
			return &entity.Category{ID: catID, Name: name, Icon: icon, IsActive: true}, nil
		},
	}
	s := NewCatalogService(r, nil, 0, nil)

	c, err := s.CreateCategory(context.Background(), " Travel ", "plane")
	require.NoError(t, err)
	assert.Equal(t, "Travel", c.Name)

	_, err = s.CreateCategory(context.Background(), "Work", "")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.CreateCategory(context.Background(), "  ", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalogService_SetCategoryActive(t *testing.T) {
	r := &catalogRepoMock{
		SetCategoryActiveFunc: func(_ context.Context, id string, active bool) error {
			if id != catID {
				return repo.ErrNotFound
			}
			assert.False(t, active)
			return nil
		},
	}
	s := NewCatalogService(r, nil, 0, nil)

	require.NoError(t, s.SetCategoryActive(context.Background(), catID, false))
	assert.ErrorIs(t, s.SetCategoryActive(context.Background(), typeID, false), ErrNotFound)
	assert.ErrorIs(t, s.SetCategoryActive(context.Background(), "work", false), ErrNotFound)
}
