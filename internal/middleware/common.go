package middleware

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Config carries the dependencies for the shared middleware chain.
type Config struct {
	Logger *zerolog.Logger
}

// Register attaches the middleware chain every route runs through: panic
// recovery first, then correlation tagging, admin request metrics, request
// logging, and CORS. The portal frontend is a static page served from
// anywhere, hence the open origin.
func Register(app *fiber.App, cfg Config) {
	structured := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		structured = *cfg.Logger
	}

	app.Use(recover.New())
	app.Use(CorrelationID())
	app.Use(Observability(structured))
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
}
