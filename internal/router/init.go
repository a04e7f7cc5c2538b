package router

import (
	app "github.com/oksasatya/passvault/internal/application"
	"github.com/oksasatya/passvault/internal/container"
	pginfra "github.com/oksasatya/passvault/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/passvault/internal/interface/http"
	"github.com/oksasatya/passvault/internal/router/modules"
)

// Services groups the application layer built from the container.
type Services struct {
	Users     *app.UserService
	Passwords *app.PasswordService
	Catalog   *app.CatalogService
	Admin     *app.AdminService
	Notifier  *app.ChangeNotifier
}

// jobPublisher keeps a nil *RabbitPublisher from becoming a non-nil interface.
func jobPublisher() app.JobPublisher {
	if p := container.GetRabbitPub(); p != nil {
		return p
	}
	return nil
}

// BuildServices wires repositories and services from the container singletons.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	rdb := container.GetRedis()

	users := pginfra.NewUserRepository(pool)
	userSvc := app.NewUserService(users, container.GetJWT(), rdb, logger, cfg)
	userSvc.GCS = container.GetGCS()
	userSvc.ES = container.GetES()
	userSvc.Pub = jobPublisher()

	notifier := app.NewChangeNotifier(nil, logger)
	if cfg.RealtimeEnabled {
		notifier = app.NewChangeNotifier(rdb, logger)
	}

	catalog := pginfra.NewCatalogRepository(pginfra.NewRecordStore(pool))
	return Services{
		Users:     userSvc,
		Passwords: app.NewPasswordService(pginfra.NewPasswordRepository(pool), notifier, logger),
		Catalog:   app.NewCatalogService(catalog, rdb, cfg.CatalogCacheTTL, logger),
		Admin:     app.NewAdminService(users, userSvc, logger),
		Notifier:  notifier,
	}
}

// InitModules builds handlers for every feature module and adds them to the registry.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	svc := BuildServices()

	userHandler := handlers.NewUserHandler(svc.Users, logger, cfg.CookieDomain, cfg.CookieSecure, cfg.AvatarMaxBytes)
	authHandler := handlers.NewAuthHandler(
		svc.Users.Repo,
		pginfra.NewAuditRepository(container.GetPGPool()),
		container.GetRedis(),
		logger,
		cfg,
		jobPublisher(),
	)

	var changes handlers.Subscriber
	if svc.Notifier.Enabled() {
		changes = svc.Notifier
	}

	r.Add(modules.NewUserModule(userHandler, jwt))
	r.Add(modules.NewAuthModule(authHandler, jwt))
	r.Add(modules.NewPasswordModule(handlers.NewPasswordHandler(svc.Passwords, changes, logger), jwt))
	r.Add(modules.NewGeneratorModule(handlers.NewGeneratorHandler(svc.Passwords), jwt))
	r.Add(modules.NewCatalogModule(handlers.NewCatalogHandler(svc.Catalog, logger), jwt))
	r.Add(modules.NewAdminModule(
		handlers.NewAdminHandler(svc.Admin, svc.Catalog, logger),
		handlers.NewEmailHandler(jobPublisher(), logger, cfg),
		jwt,
	))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
