package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/service"
)

// TimerSocketHandler streams the live exam countdown over a websocket so the
// student page does not have to poll the status endpoint.
type TimerSocketHandler struct {
	exams    service.ExamService
	interval time.Duration
	logger   zerolog.Logger
}

// NewTimerSocketHandler constructs the countdown stream handler.
func NewTimerSocketHandler(exams service.ExamService, logger zerolog.Logger) *TimerSocketHandler {
	return &TimerSocketHandler{
		exams:    exams,
		interval: time.Second,
		logger:   logger.With().Str("component", "timer_socket").Logger(),
	}
}

// Register binds the websocket upgrade under the exam route group.
func (h *TimerSocketHandler) Register(router fiber.Router) {
	router.Use("/timer/:studentID", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/timer/:studentID", websocket.New(h.stream))
}

type timerTick struct {
	RemainingSeconds int  `json:"remaining_seconds"`
	Expired          bool `json:"expired"`
}

func (h *TimerSocketHandler) stream(conn *websocket.Conn) {
	defer conn.Close()

	studentID := strings.TrimSpace(conn.Params("studentID"))
	if studentID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "student id required"))
		return
	}

	h.logger.Info().Str("student_id", studentID).Msg("timer websocket connected")
	defer h.logger.Info().Str("student_id", studentID).Msg("timer websocket disconnected")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		remaining, err := h.exams.Remaining(context.Background(), studentID)
		if err != nil {
			if errors.Is(err, service.ErrAttemptNotFound) {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "no test in progress"))
				return
			}
			h.logger.Error().Err(err).Str("student_id", studentID).Msg("failed to read remaining time")
			return
		}

		tick := timerTick{RemainingSeconds: int(remaining.Seconds()), Expired: remaining <= 0}
		if err := conn.WriteJSON(tick); err != nil {
			return
		}
		if tick.Expired {
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "time expired"))
			return
		}

		<-ticker.C
	}
}
