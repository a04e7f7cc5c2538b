package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/passvault/internal/domain/entity"
	"github.com/oksasatya/passvault/internal/domain/repository"
)

const passwordSelect = `
	SELECT p.id::text, p.user_id::text, p.title, p.email, p.password, COALESCE(p.description, ''),
	       p.category_id::text, COALESCE(c.name, ''),
	       p.account_type_id::text, COALESCE(a.name, ''),
	       COALESCE(p.subcategory_id::text, ''), COALESCE(s.name, ''),
	       p.created_at, p.updated_at
	FROM passwords p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN account_types a ON a.id = p.account_type_id
	LEFT JOIN subcategories s ON s.id = p.subcategory_id
`

type PasswordRepository struct {
	q Querier
}

func NewPasswordRepository(q Querier) *PasswordRepository {
	return &PasswordRepository{q: q}
}

func scanPassword(row pgx.Row, p *entity.PasswordRecord) error {
	return row.Scan(&p.ID, &p.UserID, &p.Title, &p.Email, &p.Secret, &p.Description,
		&p.CategoryID, &p.CategoryName,
		&p.AccountTypeID, &p.AccountTypeName,
		&p.SubcategoryID, &p.SubcategoryName,
		&p.CreatedAt, &p.UpdatedAt)
}

func (r *PasswordRepository) ListByUser(ctx context.Context, userID string) ([]entity.PasswordRecord, error) {
	rows, err := r.q.Query(ctx, passwordSelect+`
	WHERE p.user_id = $1
	ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	out := make([]entity.PasswordRecord, 0)
	for rows.Next() {
		var p entity.PasswordRecord
		if err := scanPassword(rows, &p); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, p)
	}
	return out, wrapErr(rows.Err())
}

func (r *PasswordRepository) GetByID(ctx context.Context, userID, id string) (*entity.PasswordRecord, error) {
	p := &entity.PasswordRecord{}
	row := r.q.QueryRow(ctx, passwordSelect+`
	WHERE p.id = $1 AND p.user_id = $2
	`, id, userID)
	if err := scanPassword(row, p); err != nil {
		return nil, wrapErr(err)
	}
	return p, nil
}

func (r *PasswordRepository) Create(ctx context.Context, p *entity.PasswordRecord) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO passwords (user_id, title, email, password, description, category_id, account_type_id, subcategory_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at, updated_at
	`, p.UserID, p.Title, p.Email, p.Secret, nullIfEmpty(p.Description),
		p.CategoryID, p.AccountTypeID, nullIfEmpty(p.SubcategoryID))

	return wrapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func buildPasswordUpdate(userID, id string, patch repository.PasswordPatch) (string, []any, error) {
	q := psql.Update("passwords")
	if patch.Title != nil {
		q = q.Set("title", *patch.Title)
	}
	if patch.Email != nil {
		q = q.Set("email", *patch.Email)
	}
	if patch.Secret != nil {
		q = q.Set("password", *patch.Secret)
	}
	if patch.Description != nil {
		q = q.Set("description", nullIfEmpty(*patch.Description))
	}
	if patch.CategoryID != nil {
		q = q.Set("category_id", *patch.CategoryID)
	}
	if patch.AccountTypeID != nil {
		q = q.Set("account_type_id", *patch.AccountTypeID)
	}
	if patch.SubcategoryID != nil {
		q = q.Set("subcategory_id", nullIfEmpty(*patch.SubcategoryID))
	}
	return q.Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
}

// Update writes only the columns present in patch.
func (r *PasswordRepository) Update(ctx context.Context, userID, id string, patch repository.PasswordPatch) error {
	if patch.Empty() {
		return nil
	}
	return execPatch(ctx, r.q, userID, id, patch)
}

// UpdateWithHistory applies patch and records h in one transaction. Any
// failure rolls both back, so history only ever holds secrets that were
// actually replaced.
func (r *PasswordRepository) UpdateWithHistory(ctx context.Context, userID, id string, patch repository.PasswordPatch, h entity.PasswordHistory) error {
	if patch.Empty() {
		return nil
	}
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		if err := execPatch(ctx, tx, userID, id, patch); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO password_history (password_id, user_id, old_password)
			VALUES ($1, $2, $3)
		`, h.PasswordID, h.UserID, h.OldPassword)
		return wrapErr(err)
	})
}

func execPatch(ctx context.Context, q Querier, userID, id string, patch repository.PasswordPatch) error {
	sql, args, err := buildPasswordUpdate(userID, id, patch)
	if err != nil {
		return err
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PasswordRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM passwords WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PasswordRepository = (*PasswordRepository)(nil)
