package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/passvault/internal/domain/entity"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
	"github.com/oksasatya/passvault/pkg/helpers"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AdminService holds the account maintenance operations behind the admin role.
type AdminService struct {
	Users    repo.UserRepository
	Accounts *UserService
	Logger   *logrus.Logger
}

func NewAdminService(users repo.UserRepository, accounts *UserService, logger *logrus.Logger) *AdminService {
	return &AdminService{Users: users, Accounts: accounts, Logger: logger}
}

// Page clamps a requested page into a limit and offset.
func Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	limit, offset = Page(limit, offset)
	return s.Users.List(ctx, limit, offset)
}

func (s *AdminService) CreateUser(ctx context.Context, in SignUpInput, role string) (*entity.User, error) {
	return s.Accounts.createAccount(ctx, in, role)
}

// DeleteUser removes a user and their sessions, avatar and search entry.
// Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID != "" && actorID == id {
		return fmt.Errorf("%w: cannot delete yourself", ErrForbidden)
	}
	if !isUUID(id) {
		return ErrUserNotFound
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	s.Accounts.purge(ctx, u)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"actor_id": actorID, "user_id": id}).Info("user deleted")
	}
	return nil
}

// SetRole changes a user's role. Admins cannot demote themselves.
func (s *AdminService) SetRole(ctx context.Context, actorID, id, role string) (*entity.User, error) {
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}
	if actorID != "" && actorID == id && role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot demote yourself", ErrForbidden)
	}
	if !isUUID(id) {
		return nil, ErrUserNotFound
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if u.Role == role {
		return u, nil
	}
	if err := s.Users.SetRole(ctx, id, role); err != nil {
		return nil, err
	}
	u.Role = role
	if rdb := s.Accounts.Redis; rdb != nil {
		// live sessions pick up the new role on the next request
		if _, err := helpers.RedisSetSessionRole(ctx, rdb, id, role); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("failed to update session role")
		}
	}
	return u, nil
}

// FindByEmail looks a user up for the CLI.
func (s *AdminService) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *AdminService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return s.Accounts.SearchUsers(ctx, q, size)
}
