package routers

import (
	"video-svc/internal/delivery/http/handlers"
	"video-svc/internal/pkg/config"
	consts "video-svc/pkg/constants"
	apperrors "video-svc/pkg/errors"

	_ "video-svc/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// NewApp builds the fiber app with middleware, health check, swagger UI and video routes.
func NewApp(cfg *config.Config, videoHandler *handlers.VideoHandler, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "video-svc",
		BodyLimit: int(cfg.Server.BodyLimit),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return apperrors.HandleError(c, log, err)
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New())

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": consts.StatusOK})
	})

	SetupVideoRoutes(app, videoHandler, cfg.Auth.UserHeader)

	return app
}
