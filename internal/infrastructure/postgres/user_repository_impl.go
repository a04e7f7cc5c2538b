package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/passvault/internal/domain/entity"
	"github.com/oksasatya/passvault/internal/domain/repository"
)

// userSelect resolves the effective role; admin wins when a user holds both.
const userSelect = `
	SELECT u.id::text, u.email, u.password_hash, u.name, u.avatar_url, u.is_verified,
	       COALESCE((
	           SELECT r.name FROM user_roles ur
	           JOIN roles r ON r.id = ur.role_id
	           WHERE ur.user_id = u.id
	           ORDER BY (r.name = 'admin') DESC
	           LIMIT 1
	       ), 'user'),
	       u.created_at, u.updated_at
	FROM users u
`

type UserRepository struct {
	q Querier
}

func NewUserRepository(q Querier) *UserRepository {
	return &UserRepository{q: q}
}

func scanUser(row pgx.Row, u *entity.User) error {
	return row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.AvatarURL, &u.IsVerified,
		&u.Role, &u.CreatedAt, &u.UpdatedAt)
}

// Create inserts the user and assigns u.Role (default "user").
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text, created_at, updated_at
	`, u.Email, u.Password, u.Name, u.AvatarURL)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return wrapErr(err)
	}
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	return r.SetRole(ctx, u.ID, u.Role)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u := &entity.User{}
	if err := scanUser(r.q.QueryRow(ctx, userSelect+`WHERE u.id = $1`, id), u); err != nil {
		return nil, wrapErr(err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}
	if err := scanUser(r.q.QueryRow(ctx, userSelect+`WHERE u.email = $1`, email), u); err != nil {
		return nil, wrapErr(err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.q.QueryRow(ctx, `
		UPDATE users
		SET email = $1, name = $2, avatar_url = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, u.Email, u.Name, u.AvatarURL, u.ID)
	return wrapErr(row.Scan(&u.UpdatedAt))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id)
}

func (r *UserRepository) IsVerified(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT is_verified FROM users WHERE id = $1`, id).Scan(&ok); err != nil {
		return false, wrapErr(err)
	}
	return ok, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE users SET is_verified = TRUE, updated_at = now() WHERE id = $1`, id)
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	rows, err := r.q.Query(ctx, userSelect+`
	ORDER BY u.created_at DESC
	LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	out := make([]entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := scanUser(rows, &u); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, u)
	}
	return out, wrapErr(rows.Err())
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

// SetRole makes role the only role held by the user.
func (r *UserRepository) SetRole(ctx context.Context, id, role string) error {
	_, err := r.q.Exec(ctx, `
		WITH target AS (SELECT id FROM roles WHERE name = $2),
		cleared AS (
			DELETE FROM user_roles
			WHERE user_id = $1 AND role_id NOT IN (SELECT id FROM target)
		)
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM target
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, id, role)
	return wrapErr(err)
}

func (r *UserRepository) execOne(ctx context.Context, sql string, args ...any) error {
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
