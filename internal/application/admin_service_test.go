package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/passvault/internal/domain/entity"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
)

const otherID = "77777777-7777-7777-7777-777777777777"

func newAdminService(r *userRepoMock) *AdminService {
	return NewAdminService(r, newUserService(r), nil)
}

func TestPage(t *testing.T) {
	cases := []struct {
		limit, offset, wantLimit, wantOffset int
	}{
		{0, 0, 20, 0},
		{-5, -1, 20, 0},
		{50, 10, 50, 10},
		{1000, 0, 100, 0},
	}
	for _, tc := range cases {
		l, o := Page(tc.limit, tc.offset)
		assert.Equal(t, tc.wantLimit, l)
		assert.Equal(t, tc.wantOffset, o)
	}
}

func TestAdminService_ListUsers_ClampsPage(t *testing.T) {
	r := &userRepoMock{
		ListFunc: func(_ context.Context, limit, offset int) ([]entity.User, error) {
			assert.Equal(t, 100, limit)
			assert.Equal(t, 0, offset)
			return []entity.User{{ID: ownerID}}, nil
		},
	}
	users, err := newAdminService(r).ListUsers(context.Background(), 500, -3)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAdminService_CreateUser(t *testing.T) {
	var role string
	r := &userRepoMock{
		CreateFunc: func(_ context.Context, u *entity.User) error {
			u.ID = otherID
			role = u.Role
			return nil
		},
	}
	s := newAdminService(r)

	u, err := s.CreateUser(context.Background(), SignUpInput{Email: "ops@example.com", Password: "12345678"}, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)
	assert.True(t, u.IsAdmin())

	_, err = s.CreateUser(context.Background(), SignUpInput{Email: "x@example.com", Password: "12345678"}, "root")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdminService_DeleteUser(t *testing.T) {
	var deleted []string
	r := &userRepoMock{
		GetByIDFunc: func(_ context.Context, id string) (*entity.User, error) {
			if id != otherID {
				return nil, repo.ErrNotFound
			}
			return &entity.User{ID: id}, nil
		},
		DeleteFunc: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	s := newAdminService(r)

	assert.ErrorIs(t, s.DeleteUser(context.Background(), ownerID, ownerID), ErrForbidden)
	assert.ErrorIs(t, s.DeleteUser(context.Background(), ownerID, catID), ErrUserNotFound)
	assert.ErrorIs(t, s.DeleteUser(context.Background(), ownerID, "bogus"), ErrUserNotFound)
	require.NoError(t, s.DeleteUser(context.Background(), ownerID, otherID))
	assert.Equal(t, []string{otherID}, deleted)
}

func TestAdminService_SetRole(t *testing.T) {
	var calls []string
	r := &userRepoMock{
		GetByIDFunc: func(_ context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Role: entity.RoleUser}, nil
		},
		SetRoleFunc: func(_ context.Context, id, role string) error {
			calls = append(calls, id+":"+role)
			return nil
		},
	}
	s := newAdminService(r)

	u, err := s.SetRole(context.Background(), ownerID, otherID, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.Equal(t, []string{otherID + ":admin"}, calls)

	// already a user: nothing to write
	_, err = s.SetRole(context.Background(), ownerID, otherID, entity.RoleUser)
	require.NoError(t, err)
	assert.Len(t, calls, 1)

	_, err = s.SetRole(context.Background(), ownerID, ownerID, entity.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.SetRole(context.Background(), ownerID, otherID, "superuser")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdminService_FindByEmail(t *testing.T) {
	r := &userRepoMock{
		GetByEmailFunc: func(_ context.Context, email string) (*entity.User, error) {
			if email == "ada@example.com" {
				return &entity.User{ID: ownerID, Email: email}, nil
			}
			return nil, repo.ErrNotFound
		},
	}
	s := newAdminService(r)

	u, err := s.FindByEmail(context.Background(), " ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, ownerID, u.ID)

	_, err = s.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
