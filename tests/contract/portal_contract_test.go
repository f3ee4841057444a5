package contract_test

import (
	"io"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adebimpe-ng/course-portal-api/internal/config"
	"github.com/adebimpe-ng/course-portal-api/internal/handler"
	"github.com/adebimpe-ng/course-portal-api/internal/router"
)

// The frontend is a static page that hardcodes these paths; renaming any of
// them is a breaking change and must show up here first.
func TestRegisteredRoutesMatchPublishedContract(t *testing.T) {
	logger := zerolog.New(io.Discard)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Contract", JWTSecret: "contract-secret"}, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(nil, logger),
		AttendanceHandler: handler.NewAttendanceHandler(nil, logger),
		LectureHandler:    handler.NewLectureHandler(nil, nil, nil, logger),
		ClassworkHandler:  handler.NewClassworkHandler(nil, logger),
		SeminarHandler:    handler.NewSeminarHandler(nil, logger),
		ExamHandler:       handler.NewExamHandler(nil, nil, logger),
		TimerHandler:      handler.NewTimerSocketHandler(nil, logger),
	})

	registered := make(map[string]bool)
	for _, route := range app.GetRoutes() {
		registered[route.Method+" "+route.Path] = true
	}

	required := []string{
		"GET /api/v1/health",
		"GET /metrics",

		"POST /api/v1/auth/portal",
		"POST /api/v1/auth/exam",

		"POST /api/v1/portal/attendance",
		"GET /api/v1/portal/weeks",
		"GET /api/v1/portal/lectures/:week",
		"GET /api/v1/portal/modules/:week",
		"GET /api/v1/portal/session",
		"GET /api/v1/portal/classwork/:week",
		"POST /api/v1/portal/classwork",
		"POST /api/v1/portal/seminar",

		"POST /api/v1/exam/login",
		"GET /api/v1/exam/status/:studentID",
		"POST /api/v1/exam/answer",
		"POST /api/v1/exam/submit",
		"GET /api/v1/exam/timer/:studentID",

		"PUT /api/admin/credentials",
		"GET /api/admin/attendance",
		"PATCH /api/admin/lectures/:week",
		"POST /api/admin/lectures/:week/module",
		"POST /api/admin/session/reset",
		"POST /api/admin/classwork/:week/open",
		"POST /api/admin/classwork/:week/close",
		"POST /api/admin/classwork/sweep",
		"GET /api/admin/classwork",
		"GET /api/admin/seminars",
		"PUT /api/admin/exam/questions",
		"GET /api/admin/exam/questions",
		"GET /api/admin/exam/results",
		"GET /api/admin/exam/stats",
		"GET /api/admin/exam/config",
		"PUT /api/admin/exam/config",
	}

	for _, want := range required {
		require.True(t, registered[want], "missing route %s", want)
	}
}
