package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adebimpe-ng/course-portal-api/internal/config"
	"github.com/adebimpe-ng/course-portal-api/internal/handler"
	"github.com/adebimpe-ng/course-portal-api/internal/middleware"
	"github.com/adebimpe-ng/course-portal-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	AttendanceHandler *handler.AttendanceHandler
	LectureHandler    *handler.LectureHandler
	ClassworkHandler  *handler.ClassworkHandler
	SeminarHandler    *handler.SeminarHandler
	ExamHandler       *handler.ExamHandler
	TimerHandler      *handler.TimerSocketHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Credential guessing guard on the login endpoints.
	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth", middleware.RateLimit("auth", 10, time.Minute)))
	}

	// Student-facing portal routes, no accounts, identified by matric number.
	portal := api.Group("/portal")
	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.Register(portal)
	}
	if deps.LectureHandler != nil {
		deps.LectureHandler.Register(portal)
	}
	if deps.ClassworkHandler != nil {
		deps.ClassworkHandler.Register(portal)
	}
	if deps.SeminarHandler != nil {
		deps.SeminarHandler.Register(portal)
	}

	// Student-facing timed test routes.
	exam := api.Group("/exam")
	if deps.ExamHandler != nil {
		deps.ExamHandler.Register(exam)
	}
	if deps.TimerHandler != nil {
		deps.TimerHandler.Register(exam)
	}

	// Admin surface behind the JWT.
	admin := app.Group("/api/admin", jwtMiddleware, middleware.RequireRole("admin"))
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterAdmin(admin)
	}
	if deps.AttendanceHandler != nil {
		deps.AttendanceHandler.RegisterAdmin(admin)
	}
	if deps.LectureHandler != nil {
		deps.LectureHandler.RegisterAdmin(admin)
	}
	if deps.ClassworkHandler != nil {
		deps.ClassworkHandler.RegisterAdmin(admin)
	}
	if deps.SeminarHandler != nil {
		deps.SeminarHandler.RegisterAdmin(admin)
	}
	if deps.ExamHandler != nil {
		deps.ExamHandler.RegisterAdmin(admin)
	}
}
