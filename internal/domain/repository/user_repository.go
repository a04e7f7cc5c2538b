package repository

import (
	"context"

	"github.com/oksasatya/passvault/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	IsVerified(ctx context.Context, id string) (bool, error)
	SetVerified(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
	Delete(ctx context.Context, id string) error
	SetRole(ctx context.Context, id, role string) error
}
