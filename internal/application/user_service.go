package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/passvault/config"
	"github.com/oksasatya/passvault/internal/domain/entity"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
	"github.com/oksasatya/passvault/pkg/helpers"
	"github.com/oksasatya/passvault/pkg/mailer"
	tpl "github.com/oksasatya/passvault/pkg/mailer/templates"
)

// UserService owns accounts, sessions and profiles.
// Redis, GCS, ES and Pub are optional; features depending on them degrade to no-ops.
type UserService struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	Cfg          *config.Config
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
	Pub          JobPublisher
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, cfg *config.Config) *UserService {
	return &UserService{
		Repo:         r,
		JWT:          jwt,
		Redis:        rdb,
		Logger:       logger,
		Cfg:          cfg,
		GCSBucket:    cfg.GCSBucket,
		ESUsersIndex: cfg.ESUsersIndex,
	}
}

func (s *UserService) sessionTTL() time.Duration {
	if s.Cfg != nil && s.Cfg.SessionTTL > 0 {
		return s.Cfg.SessionTTL
	}
	return 24 * time.Hour
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// SignUp registers a regular user and enqueues the welcome email.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*entity.User, error) {
	return s.createAccount(ctx, in, entity.RoleUser)
}

func (s *UserService) createAccount(ctx context.Context, in SignUpInput, role string) (*entity.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}
	if u, err := s.Repo.GetByEmail(ctx, email); err == nil && u != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Password: hash, Name: name, Role: role}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	_ = s.indexUser(ctx, u)
	s.enqueue(ctx, u.Email, func(cfg *config.Config) map[string]any {
		return tpl.NewWelcomeData(cfg, u.Name, u.Email, tpl.WithTime(time.Now()))
	})
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": role}).Info("account created")
	}
	return u, nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.tokens(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"avatar_url": u.AvatarURL,
			"role":       u.Role,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := helpers.KeySession(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.sessionTTL())
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return pair, nil
}

func (s *UserService) tokens(userID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	metricLogins.Add(1)
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}, pair, nil
}

// Refresh validates the refresh token against the live session and rotates the session id.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	key := helpers.KeySession(u.ID)
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	sid := uuid.NewString()
	pair, err := s.tokens(u.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	if s.Redis != nil {
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"sid":        sid,
			"role":       u.Role,
			"updated_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, s.sessionTTL())
		_, _ = pipe.Exec(ctx)
	}
	return pair, u.ID, nil
}

// Logout drops the server-side session so outstanding tokens stop working.
func (s *UserService) Logout(ctx context.Context, userID string) error {
	if s.Redis == nil || userID == "" {
		return nil
	}
	return helpers.RedisDel(ctx, s.Redis, helpers.KeySession(userID))
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name      string
	AvatarURL string
}

// UpdateProfile applies non-empty fields, refreshes the cached session
// (keeping its TTL) and notifies the user of what changed.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	changes := map[string]string{}
	if name := strings.TrimSpace(in.Name); name != "" && name != u.Name {
		u.Name = name
		changes["name"] = name
	}
	if in.AvatarURL != "" && in.AvatarURL != u.AvatarURL {
		u.AvatarURL = in.AvatarURL
		changes["avatar"] = "updated"
	}
	if len(changes) == 0 {
		return u, nil
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.touchSession(ctx, u)
	_ = s.indexUser(ctx, u)
	s.enqueue(ctx, u.Email, func(cfg *config.Config) map[string]any {
		return tpl.NewProfileUpdatedData(cfg, u.Name, u.Email, changes, tpl.WithTime(time.Now()))
	})
	return u, nil
}

func (s *UserService) touchSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := helpers.KeySession(u.ID)
	ttl, tErr := s.Redis.TTL(ctx, key).Result()
	if tErr != nil || ttl <= 0 {
		// no live session to refresh
		return
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"name":       u.Name,
		"avatar_url": u.AvatarURL,
		"role":       u.Role,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, ttl)
	if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
		s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
	}
}

// UploadAvatar stores an image in GCS under avatars/<uid>/ and points the profile at it.
// The previous avatar object is removed best-effort.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "", fmt.Errorf("%w: avatar must be an image", ErrInvalidInput)
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", fmt.Errorf("%w: gcs", ErrUnavailable)
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}
	previous := u.AvatarURL

	objectPath := avatarObjectPath(userID, filename)
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	s.removeAvatar(ctx, previous)
	s.touchSession(ctx, u)
	_ = s.indexUser(ctx, u)
	return url, nil
}

func avatarObjectPath(userID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
}

func (s *UserService) removeAvatar(ctx context.Context, url string) {
	if s.GCS == nil {
		return
	}
	objectPath, ok := helpers.ObjectPathFromURL(s.GCSBucket, url)
	if !ok {
		return
	}
	if err := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, objectPath); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("object", objectPath).Warn("avatar delete failed")
	}
}

// purge drops everything held outside Postgres for a deleted user.
func (s *UserService) purge(ctx context.Context, u *entity.User) {
	_ = s.Logout(ctx, u.ID)
	s.removeAvatar(ctx, u.AvatarURL)
	if s.ES != nil && s.ESUsersIndex != "" {
		c, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := helpers.ESDeleteDocument(c, s.ES, s.ESUsersIndex, u.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es delete failed")
		}
	}
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := helpers.ESIndexDocument(c, s.ES, s.ESUsersIndex, u.ID, doc); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	return nil
}

// SearchUsers performs a multi_match search on email and name.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return helpers.ESSearchSources(c, s.ES, s.ESUsersIndex, helpers.MultiMatchQuery(q, []string{"email^2", "name"}, size))
}

// enqueue publishes a universal email job when mail sending is enabled.
func (s *UserService) enqueue(ctx context.Context, to string, data func(cfg *config.Config) map[string]any) {
	if s.Pub == nil || s.Cfg == nil || !s.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{To: to, Template: tpl.Universal, Data: data(s.Cfg)}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", to).Warn("failed to publish email job")
	}
}
