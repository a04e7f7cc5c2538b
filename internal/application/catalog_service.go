package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/passvault/internal/domain/entity"
	repo "github.com/oksasatya/passvault/internal/domain/repository"
	"github.com/oksasatya/passvault/pkg/helpers"
)

// CatalogService serves the lookup lists records point at, cached in Redis.
type CatalogService struct {
	Repo   repo.CatalogRepository
	Redis  *redis.Client
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewCatalogService(r repo.CatalogRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Repo: r, Redis: rdb, TTL: ttl, Logger: logger}
}

// cached returns the value under key or loads, stores and returns it.
// Cache failures fall back to load.
func cached[T any](ctx context.Context, s *CatalogService, key string, load func() (T, error)) (T, error) {
	if s.Redis != nil {
		var v T
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, key, &v); err == nil && ok {
			return v, nil
		} else if err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Debug("catalog cache read failed")
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if s.Redis != nil && s.TTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, v, s.TTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Debug("catalog cache write failed")
		}
	}
	return v, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]entity.Category, error) {
	return cached(ctx, s, helpers.KeyCatalog("categories"), func() ([]entity.Category, error) {
		return s.Repo.Categories(ctx, true)
	})
}

// AllCategories includes disabled ones and skips the cache.
func (s *CatalogService) AllCategories(ctx context.Context) ([]entity.Category, error) {
	return s.Repo.Categories(ctx, false)
}

func (s *CatalogService) AccountTypes(ctx context.Context) ([]entity.AccountType, error) {
	return cached(ctx, s, helpers.KeyCatalog("account_types"), func() ([]entity.AccountType, error) {
		return s.Repo.AccountTypes(ctx, true)
	})
}

// Subcategories lists active subcategories, optionally for one account type.
func (s *CatalogService) Subcategories(ctx context.Context, accountTypeID string) ([]entity.Subcategory, error) {
	if accountTypeID != "" && !isUUID(accountTypeID) {
		return nil, fmt.Errorf("%w: account_type_id", ErrInvalidInput)
	}
	scope := accountTypeID
	if scope == "" {
		scope = "all"
	}
	return cached(ctx, s, helpers.KeyCatalog("subcategories:"+scope), func() ([]entity.Subcategory, error) {
		return s.Repo.Subcategories(ctx, accountTypeID, true)
	})
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, icon string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	c, err := s.Repo.CreateCategory(ctx, name, strings.TrimSpace(icon))
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	s.invalidate(ctx, "categories")
	return c, nil
}

func (s *CatalogService) SetCategoryActive(ctx context.Context, id string, active bool) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	if err := s.Repo.SetCategoryActive(ctx, id, active); err != nil {
		return notFound(err, ErrNotFound)
	}
	s.invalidate(ctx, "categories")
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, names ...string) {
	if s.Redis == nil {
		return
	}
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, helpers.KeyCatalog(n))
	}
	if err := helpers.RedisDel(ctx, s.Redis, keys...); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("catalog cache invalidation failed")
	}
}
