package postgres

import (
	"context"
	"slices"

	"github.com/jackc/pgx/v5"
)

// CatalogSeed is the lookup data a fresh install starts with.
type CatalogSeed struct {
	Categories   []string
	AccountTypes map[string][]string // account type -> subcategories
}

func DefaultCatalogSeed() CatalogSeed {
	return CatalogSeed{
		Categories: []string{"Personal", "Work", "Finance", "Shopping", "Social"},
		AccountTypes: map[string][]string{
			"Email":       {"Gmail", "Outlook", "Proton"},
			"Social":      {"Facebook", "Instagram", "X"},
			"Bank":        {"Checking", "Credit card"},
			"Developer":   {"GitHub", "GitLab", "Cloud console"},
			"Streaming":   nil,
			"Marketplace": nil,
		},
	}
}

// SeedCatalog upserts the lookup rows in one transaction. Existing rows keep
// their ids and active flag, so reseeding is safe. On error nothing is kept
// and the count is zero.
func SeedCatalog(ctx context.Context, q Querier, seed CatalogSeed) (int, error) {
	n := 0
	err := pgx.BeginFunc(ctx, q, func(tx pgx.Tx) error {
		for _, name := range seed.Categories {
			if _, err := tx.Exec(ctx, `
				INSERT INTO categories (name) VALUES ($1)
				ON CONFLICT (name) DO NOTHING
			`, name); err != nil {
				return wrapErr(err)
			}
			n++
		}
		types := make([]string, 0, len(seed.AccountTypes))
		for typ := range seed.AccountTypes {
			types = append(types, typ)
		}
		slices.Sort(types)
		for _, typ := range types {
			var typeID string
			if err := tx.QueryRow(ctx, `
				INSERT INTO account_types (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id::text
			`, typ).Scan(&typeID); err != nil {
				return wrapErr(err)
			}
			n++
			for _, sub := range seed.AccountTypes[typ] {
				if _, err := tx.Exec(ctx, `
					INSERT INTO subcategories (account_type_id, name) VALUES ($1, $2)
					ON CONFLICT (account_type_id, name) DO NOTHING
				`, typeID, sub); err != nil {
					return wrapErr(err)
				}
				n++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// EnsureRoles makes sure the built-in roles exist.
func EnsureRoles(ctx context.Context, q Querier, roles ...string) error {
	for _, r := range roles {
		if _, err := q.Exec(ctx, `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, r); err != nil {
			return wrapErr(err)
		}
	}
	return nil
}
