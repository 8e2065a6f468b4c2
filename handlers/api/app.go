package api

import (
	"leadboard/config"
	"leadboard/middleware"
	"leadboard/service"
	"leadboard/storage"
	"leadboard/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jmoiron/sqlx"
)

// Deps are the long-lived resources the HTTP surface is built on
type Deps struct {
	Config   *config.Config
	DB       *sqlx.DB
	Sessions *session.Store
	// Seed for the dev seeder's fake data; 0 picks a random one
	FakerSeed int64
}

// NewSessionStore creates the cookie session store over the given backend
func NewSessionStore(cfg *config.Config, backend fiber.Storage) *session.Store {
	return session.New(session.Config{
		Storage:        backend,
		Expiration:     cfg.SessionExpiration(),
		CookieSecure:   cfg.Server.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// NewApp builds the Fiber application with middleware and every route
func NewApp(deps Deps) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:      "Leadboard",
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Output: utils.Log.Writer(),
	}))
	app.Use(compress.New())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
	}))
	if headers := cfg.GetSecurityHeaders(); len(headers) > 0 {
		app.Use(func(c *fiber.Ctx) error {
			for k, v := range headers {
				c.Set(k, v)
			}
			return c.Next()
		})
	}
	app.Use(middleware.LocaleMiddleware())
	if cfg.Server.RateLimit > 0 {
		app.Use(middleware.RateLimiter(cfg.Server.RateLimit, cfg.RateWindow()))
	}

	users := storage.NewUserStorage(deps.DB)
	campaignStore := storage.NewCampaignStorage(deps.DB)
	leadStore := storage.NewLeadStorage(deps.DB)

	campaignService := service.NewCampaignService(campaignStore, leadStore)
	leadService := service.NewLeadService(leadStore)
	transitions := service.NewTransitionService(campaignStore, leadStore)

	authHandler := NewAuthHandler(deps.Sessions, users, cfg)
	campaignHandler := NewCampaignHandler(campaignService, transitions)
	leadHandler := NewLeadHandler(leadService, transitions, cfg.Pagination)
	i18nHandler := &I18nHandler{}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	public := app.Group("/api")
	public.Post("/auth/register", authHandler.Register)
	public.Post("/auth/login", authHandler.Login)
	public.Get("/auth/csrf", authHandler.CSRF)
	public.Get("/i18n/:lang", i18nHandler.GetTranslations)

	// Protected routes
	protected := app.Group("/api", middleware.Identity(deps.Sessions, cfg.JWT.Secret))
	if cfg.Server.CSRF {
		csrf := middleware.DefaultCSRFConfig()
		csrf.CookieSecure = cfg.Server.CookieSecure
		protected.Use(middleware.CSRFProtection(csrf))
	}
	{
		protected.Post("/auth/logout", authHandler.Logout)
		protected.Get("/auth/me", authHandler.Me)

		protected.Get("/campaigns", campaignHandler.ListCampaigns)
		protected.Post("/campaigns", campaignHandler.CreateCampaign)
		protected.Get("/campaigns/:id", campaignHandler.GetCampaign)
		protected.Patch("/campaigns/:id", campaignHandler.UpdateCampaign)
		protected.Delete("/campaigns/:id", campaignHandler.DeleteCampaign)

		protected.Get("/leads", leadHandler.ListLeads)
		protected.Post("/leads", leadHandler.CreateLead)
		protected.Get("/leads/:id", leadHandler.GetLead)
		protected.Patch("/leads/:id", leadHandler.UpdateLeadStatus)
		protected.Delete("/leads/:id", leadHandler.DeleteLead)

		protected.Get("/dashboard/summary", campaignHandler.Summary)

		if cfg.Server.DevRoutes {
			devHandler := NewDevHandler(service.NewSeeder(campaignStore, leadStore, deps.FakerSeed))
			protected.Post("/dev/seed", devHandler.Seed)
		}
	}

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundError("Route not found", nil)
	})

	return app
}
