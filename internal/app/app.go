package app

import (
	"o365-backend/internal/accounts"
	"o365-backend/internal/auth"
	"o365-backend/internal/config"
	"o365-backend/internal/database"
	"o365-backend/internal/directory"
	"o365-backend/internal/health"
	"o365-backend/internal/invitations"
	"o365-backend/internal/middleware"
	"o365-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and routes.
// Directory clients are constructed per request so each request starts with
// an empty token cache (Worker parity: services built per invocation).
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	app.Use(middleware.CORS())
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	ledger := &invitations.Service{DB: db, CodeLength: cfg.InvitationCodeLength}

	// Per-request factory: fresh Graph client, empty token cache.
	newAccountsService := func() *accounts.Service {
		return &accounts.Service{
			Ledger: ledger,
			Directory: &directory.Client{
				ClientID:      cfg.ClientID,
				TenantID:      cfg.TenantID,
				ClientSecret:  cfg.ClientSecret,
				UsageLocation: cfg.UsageLocation,
			},
		}
	}
	newAccountsHandlers := func() *accounts.Handlers {
		return &accounts.Handlers{
			Service: newAccountsService(),
			Domains: cfg.Domains,
			SKUs:    cfg.SKUs,
		}
	}

	// Landing page + health
	app.Get("/", web.Index)
	var pinger health.DBPinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	healthHandlers := &health.Handlers{Rdb: rdb, DB: pinger, LoginURL: "https://login.microsoftonline.com"}
	app.Get("/health/json", healthHandlers.JSON)

	// Admin login
	authHandlers := &auth.Handlers{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	}
	app.Post("/api/login", authHandlers.Login)

	admin := middleware.RequireAdmin(cfg.AdminPassword)

	// Invitation ledger (admin)
	invHandlers := &invitations.Handlers{Service: ledger}
	app.Post("/api/invitation/create", admin, invHandlers.CreateCodes)
	app.Get("/api/invitation/list", admin, invHandlers.ListCodes)
	app.Post("/api/invitation/delete", admin, func(c *fiber.Ctx) error {
		return newAccountsHandlers().DeleteInvitation(c)
	})

	// Accounts
	app.Post("/api/account/enable", admin, func(c *fiber.Ctx) error {
		return newAccountsHandlers().EnableAccount(c)
	})
	app.Post("/api/account/create", func(c *fiber.Ctx) error {
		return newAccountsHandlers().CreateAccount(c)
	})
	app.Get("/api/account/options", func(c *fiber.Ctx) error {
		return newAccountsHandlers().Options(c)
	})

	return app, db, rdb, nil
}
