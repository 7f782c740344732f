package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/padidoc-go-api/internal/config"
	"github.com/noah-isme/padidoc-go-api/internal/handler"
	"github.com/noah-isme/padidoc-go-api/internal/middleware"
	"github.com/noah-isme/padidoc-go-api/internal/observability"
)

// CRUDRegistrar is implemented by every business resource handler.
type CRUDRegistrar interface {
	Register(router fiber.Router)
}

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DB               *gorm.DB
	Authenticate     fiber.Handler
	LoginLimiter     fiber.Handler
	AuthHandler      *handler.AuthHandler
	UserHandler      *handler.UserHandler
	ActivityHandler  *handler.ActivityHandler
	StockHandler     *handler.StockHandler
	SettingsHandler  *handler.SettingsHandler
	DashboardHandler *handler.DashboardHandler
	ReportHandler    *handler.ReportHandler
	// Resources maps a path segment such as "pembelian" to its CRUD handler.
	Resources map[string]CRUDRegistrar
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DB))

	// Without an authenticator every guarded route rejects the request.
	authenticate := deps.Authenticate
	if authenticate == nil {
		authenticate = middleware.RequireRole()
	}
	anyUser := middleware.Protected(authenticate, middleware.AnyActiveUser())
	adminOnly := middleware.Protected(authenticate, middleware.AdminOnly())

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"), handler.AuthRoutes{
			LoginLimiter:  deps.LoginLimiter,
			Authenticated: anyUser,
			AdminOnly:     adminOnly,
		})
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users", adminOnly...))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activity-logs", adminOnly...))
	}

	for path, resource := range deps.Resources {
		resource.Register(api.Group("/"+path, anyUser...))
	}

	if deps.StockHandler != nil {
		deps.StockHandler.Register(api.Group("/stok", anyUser...))
		deps.StockHandler.RegisterLogs(api.Group("/log-stok", anyUser...))
	}

	if deps.SettingsHandler != nil {
		// Writes add the admin gate on top of the group's authentication.
		deps.SettingsHandler.Register(api.Group("/settings", anyUser...), []fiber.Handler{middleware.AdminOnly()})
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("/dashboard", anyUser...))
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(api.Group("/reports", anyUser...))
	}
}
