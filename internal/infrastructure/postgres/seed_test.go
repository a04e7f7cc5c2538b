package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalog(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	seed := CatalogSeed{
		Categories:   []string{"Work"},
		AccountTypes: map[string][]string{"Email": {"Gmail"}, "Bank": nil},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO categories`).WithArgs("Work").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`INSERT INTO account_types`).WithArgs("Bank").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("t-bank"))
	mock.ExpectQuery(`INSERT INTO account_types`).WithArgs("Email").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("t-email"))
	mock.ExpectExec(`INSERT INTO subcategories`).WithArgs("t-email", "Gmail").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectCommit()

	n, err := SeedCatalog(context.Background(), mock, seed)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestSeedCatalog_StopsOnError(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO categories`).WithArgs("Work").WillReturnError(boom)
	mock.ExpectRollback()

	n, err := SeedCatalog(context.Background(), mock, CatalogSeed{Categories: []string{"Work", "Home"}})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
}

func TestSeedCatalog_LateFailureRollsBackEarlierRows(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	boom := errors.New("boom")
	seed := CatalogSeed{
		Categories:   []string{"Work", "Home"},
		AccountTypes: map[string][]string{"Email": {"Gmail"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO categories`).WithArgs("Work").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO categories`).WithArgs("Home").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`INSERT INTO account_types`).WithArgs("Email").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("t-email"))
	mock.ExpectExec(`INSERT INTO subcategories`).WithArgs("t-email", "Gmail").
		WillReturnError(boom)
	mock.ExpectRollback()

	n, err := SeedCatalog(context.Background(), mock, seed)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
}

func TestSeedCatalog_BeginFails(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	boom := errors.New("no connection")
	mock.ExpectBegin().WillReturnError(boom)

	_, err := SeedCatalog(context.Background(), mock, DefaultCatalogSeed())
	assert.ErrorIs(t, err, boom)
}

func TestEnsureRoles(t *testing.T) {
	t.Parallel()
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO roles`).WithArgs("admin").WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec(`INSERT INTO roles`).WithArgs("user").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, EnsureRoles(context.Background(), mock, "admin", "user"))
}

func TestDefaultCatalogSeed(t *testing.T) {
	seed := DefaultCatalogSeed()
	assert.Contains(t, seed.Categories, "Work")
	assert.Contains(t, seed.AccountTypes, "Developer")
}
