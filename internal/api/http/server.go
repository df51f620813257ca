package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/placement-service/internal/observability"
)

// ServerConfig holds fiber app settings.
type ServerConfig struct {
	AppName    string
	BodyLimit  int
	Middleware MiddlewareConfig
}

// NewApp builds the fiber app with the middleware chain and every route registered.
func NewApp(cfg ServerConfig, logger *zap.Logger, metrics *observability.Metrics, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, metrics, cfg.Middleware)
	routes.Metrics = metrics
	RegisterRoutes(app, routes)
	return app
}
