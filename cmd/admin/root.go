package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oksasatya/passvault/config"
	app "github.com/oksasatya/passvault/internal/application"
	pginfra "github.com/oksasatya/passvault/internal/infrastructure/postgres"
	"github.com/oksasatya/passvault/pkg/helpers"
)

// backend is what the database-backed commands operate on.
type backend struct {
	Admin   *app.AdminService
	Catalog *app.CatalogService
	Close   func()
}

type opener func(ctx context.Context) (*backend, error)

// openBackend connects to Postgres and Redis from the environment.
// Redis is optional here: without it role changes do not reach live sessions.
func openBackend(ctx context.Context) (*backend, error) {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-admin", cfg.Env)

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, err
	}
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable")
		_ = rdb.Close()
		rdb = nil
	}

	users := pginfra.NewUserRepository(pool)
	accounts := app.NewUserService(users, nil, rdb, logger, cfg)
	catalog := app.NewCatalogService(pginfra.NewCatalogRepository(pginfra.NewRecordStore(pool)), rdb, cfg.CatalogCacheTTL, logger)

	return &backend{
		Admin:   app.NewAdminService(users, accounts, logger),
		Catalog: catalog,
		Close: func() {
			if rdb != nil {
				_ = rdb.Close()
			}
			pool.Close()
		},
	}, nil
}

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "passvault-admin",
		Short:         "PassVault maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newUsersCmd(open), newCategoriesCmd(open), newGenerateCmd())
	return root
}

// withBackend opens the backend for one command run.
func withBackend(cmd *cobra.Command, open opener, fn func(context.Context, *backend) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := open(ctx)
	if err != nil {
		return err
	}
	if b.Close != nil {
		defer b.Close()
	}
	return fn(ctx, b)
}
