package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/passvault/config"
	"github.com/oksasatya/passvault/internal/domain/entity"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
	"github.com/oksasatya/passvault/pkg/helpers"
	"github.com/oksasatya/passvault/pkg/mailer"
	tpl "github.com/oksasatya/passvault/pkg/mailer/templates"
)

func newUserService(r repo.UserRepository) *UserService {
	cfg := &config.Config{MailSendEnabled: true, AppName: "passvault", CompanyName: "PassVault"}
	jwt := helpers.NewJWTManager("access", "refresh", time.Minute, time.Hour)
	return NewUserService(r, jwt, nil, nil, cfg)
}

func TestUserService_SignUp(t *testing.T) {
	var stored *entity.User
	r := &userRepoMock{
		CreateFunc: func(_ context.Context, u *entity.User) error {
			u.ID = ownerID
			stored = u
			return nil
		},
	}
	pub := &recordingPublisher{}
	s := newUserService(r)
	s.Pub = pub

	u, err := s.SignUp(context.Background(), SignUpInput{Email: "  Ada@Example.COM ", Password: "secret-pass", Name: " Ada "})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.NotEqual(t, "secret-pass", stored.Password)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "secret-pass"))

	require.Len(t, pub.jobs, 1)
	job, ok := pub.jobs[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", job.To)
	assert.Equal(t, tpl.Universal, job.Template)
	assert.Equal(t, tpl.Welcome, job.Data["Type"])
}

func TestUserService_SignUp_EmailTaken(t *testing.T) {
	r := &userRepoMock{
		GetByEmailFunc: func(context.Context, string) (*entity.User, error) {
			return &entity.User{ID: ownerID}, nil
		},
	}
	_, err := newUserService(r).SignUp(context.Background(), SignUpInput{Email: "a@b.c", Password: "12345678"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_SignUp_RaceConflict(t *testing.T) {
	r := &userRepoMock{
		CreateFunc: func(context.Context, *entity.User) error { return repo.ErrConflict },
	}
	_, err := newUserService(r).SignUp(context.Background(), SignUpInput{Email: "a@b.c", Password: "12345678"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_Login(t *testing.T) {
	hash, err := helpers.HashPassword("correct-horse")
	require.NoError(t, err)
	r := &userRepoMock{
		GetByEmailFunc: func(_ context.Context, email string) (*entity.User, error) {
			if email != "ada@example.com" {
				return nil, repo.ErrNotFound
			}
			return &entity.User{ID: ownerID, Email: email, Name: "Ada", Password: hash, Role: entity.RoleAdmin}, nil
		},
	}
	s := newUserService(r)

	resp, pair, err := s.Login(context.Background(), "ADA@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, &LoginResponse{UserID: ownerID, Email: "ada@example.com", Name: "Ada", Role: entity.RoleAdmin}, resp)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := s.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ownerID, claims.UserID)
	assert.NotEmpty(t, claims.SessionID)

	_, _, err = s.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.Login(context.Background(), "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_Refresh(t *testing.T) {
	r := &userRepoMock{
		GetByIDFunc: func(_ context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Role: entity.RoleUser}, nil
		},
	}
	s := newUserService(r)

	_, _, err := s.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// an access token is not accepted as a refresh token
	access, _, err := s.JWT.GenerateAccessToken(ownerID, "sid-1")
	require.NoError(t, err)
	_, _, err = s.Refresh(context.Background(), access)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	refresh, _, err := s.JWT.GenerateRefreshToken(ownerID, "sid-1")
	require.NoError(t, err)
	pair, uid, err := s.Refresh(context.Background(), refresh)
	require.NoError(t, err)
	assert.Equal(t, ownerID, uid)

	claims, err := s.JWT.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, "sid-1", claims.SessionID)
}

func TestUserService_UpdateProfile(t *testing.T) {
	var updated *entity.User
	r := &userRepoMock{
		GetByIDFunc: func(_ context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Email: "ada@example.com", Name: "Ada"}, nil
		},
		UpdateFunc: func(_ context.Context, u *entity.User) error {
			updated = u
			return nil
		},
	}
	pub := &recordingPublisher{}
	s := newUserService(r)
	s.Pub = pub

	u, err := s.UpdateProfile(context.Background(), ownerID, UpdateProfileInput{Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Nil(t, updated)
	assert.Empty(t, pub.jobs)

	u, err = s.UpdateProfile(context.Background(), ownerID, UpdateProfileInput{Name: "Ada Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)
	require.NotNil(t, updated)
	require.Len(t, pub.jobs, 1)
	assert.Equal(t, tpl.ProfileUpdated, pub.jobs[0].(mailer.EmailJob).Data["Type"])
}

func TestUserService_UploadAvatar(t *testing.T) {
	s := newUserService(&userRepoMock{})

	_, err := s.UploadAvatar(context.Background(), ownerID, strings.NewReader("x"), "a.txt", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.UploadAvatar(context.Background(), ownerID, strings.NewReader("x"), "a.png", "image/png")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAvatarObjectPath(t *testing.T) {
	p := avatarObjectPath(ownerID, "Me.PNG")
	assert.True(t, strings.HasPrefix(p, "avatars/"+ownerID+"/"))
	assert.True(t, strings.HasSuffix(p, ".png"))
}

func TestUserService_SearchUsers_WithoutES(t *testing.T) {
	got, err := newUserService(&userRepoMock{}).SearchUsers(context.Background(), "ada", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
