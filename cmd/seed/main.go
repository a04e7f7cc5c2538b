package main

import (
	"context"
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/passvault/config"
	"github.com/oksasatya/passvault/internal/domain/entity"
	"github.com/oksasatya/passvault/internal/domain/repository"
	pginfra "github.com/oksasatya/passvault/internal/infrastructure/postgres"
	"github.com/oksasatya/passvault/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pginfra.EnsureRoles(ctx, pool, entity.RoleAdmin, entity.RoleUser); err != nil {
		logger.WithError(err).Fatal("failed to ensure roles")
	}

	n, err := pginfra.SeedCatalog(ctx, pool, pginfra.DefaultCatalogSeed())
	if err != nil {
		logger.WithError(err).Fatal("failed to seed catalog")
	}
	logger.WithField("rows", n).Info("catalog seeded")

	if cfg.SeedAdminPassword == "" {
		logger.Warn("SEED_ADMIN_PASSWORD not set; skipping admin user")
		return
	}
	if err := seedAdmin(ctx, pginfra.NewUserRepository(pool), cfg, logger); err != nil {
		logger.WithError(err).Fatal("failed to seed admin")
	}
}

// seedAdmin creates the configured admin or promotes an existing account.
// An existing password is never overwritten.
func seedAdmin(ctx context.Context, users repository.UserRepository, cfg *config.Config, logger *logrus.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := users.SetRole(ctx, existing.ID, entity.RoleAdmin); err != nil {
			return err
		}
		logger.WithField("email", email).Info("existing user promoted to admin")
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	hash, err := helpers.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	u := &entity.User{Email: email, Password: hash, Name: cfg.SeedAdminName, Role: entity.RoleAdmin}
	if err := users.Create(ctx, u); err != nil {
		return err
	}
	if err := users.SetVerified(ctx, u.ID); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"id": u.ID, "email": email}).Info("admin user created")
	return nil
}
