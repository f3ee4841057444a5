package handler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/service"
	"github.com/adebimpe-ng/course-portal-api/internal/utils"
)

// LectureHandler serves the gated lecture content and the session clock.
type LectureHandler struct {
	lectures  service.LectureService
	classwork service.ClassworkService
	session   service.SessionService
	logger    zerolog.Logger
}

// NewLectureHandler constructs a lecture handler.
func NewLectureHandler(lectures service.LectureService, classwork service.ClassworkService, session service.SessionService, logger zerolog.Logger) *LectureHandler {
	return &LectureHandler{
		lectures:  lectures,
		classwork: classwork,
		session:   session,
		logger:    logger.With().Str("component", "lecture_handler").Logger(),
	}
}

// Register wires student-facing lecture routes.
func (h *LectureHandler) Register(router fiber.Router) {
	router.Get("/weeks", h.weeks)
	router.Get("/lectures/:week", h.lecture)
	router.Get("/modules/:week", h.module)
	router.Get("/session", h.sessionStatus)
}

// RegisterAdmin wires lecture editing and session control.
func (h *LectureHandler) RegisterAdmin(router fiber.Router) {
	router.Patch("/lectures/:week", h.update)
	router.Post("/lectures/:week/module", h.uploadModule)
	router.Post("/session/reset", h.sessionReset)
}

func (h *LectureHandler) weeks(c *fiber.Ctx) error {
	weeks, err := h.lectures.Weeks(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list weeks")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch weeks")
	}

	return utils.SendSuccess(c, "weeks retrieved", weeks)
}

func (h *LectureHandler) lecture(c *fiber.Ctx) error {
	week, err := weekParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid week")
	}
	studentID := c.Query("student_id")

	windowState, err := h.classwork.State(c.Context(), week)
	if err != nil {
		h.logger.Error().Err(err).Str("week", week).Msg("failed to read classwork window")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch lecture")
	}

	lecture, err := h.lectures.GetForStudent(c.Context(), studentID, week, windowState)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAttendanceRequired):
			return utils.SendError(c, fiber.StatusForbidden, "mark attendance for this week first")
		case errors.Is(err, service.ErrLectureNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "lecture not found")
		default:
			h.logger.Error().Err(err).Str("week", week).Msg("failed to fetch lecture")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch lecture")
		}
	}

	return utils.SendSuccess(c, "lecture retrieved", lecture)
}

func (h *LectureHandler) module(c *fiber.Ctx) error {
	week, err := weekParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid week")
	}

	reader, err := h.lectures.OpenModule(c.Context(), week)
	if err != nil {
		if errors.Is(err, service.ErrModuleNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "module not uploaded yet")
		}
		h.logger.Error().Err(err).Str("week", week).Msg("failed to open module")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch module")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.SendStream(reader)
}

func (h *LectureHandler) sessionStatus(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "session status", h.session.Status())
}

func (h *LectureHandler) update(c *fiber.Ctx) error {
	week, err := weekParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid week")
	}

	var payload dto.LectureUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	lecture, err := h.lectures.Update(c.Context(), week, payload)
	if err != nil {
		if errors.Is(err, service.ErrLectureNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "lecture not found")
		}
		h.logger.Error().Err(err).Str("week", week).Msg("failed to update lecture")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update lecture")
	}

	return utils.SendSuccess(c, "lecture updated", lecture)
}

func (h *LectureHandler) uploadModule(c *fiber.Ctx) error {
	week, err := weekParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid week")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "module file is required")
	}

	if err := h.lectures.UploadModule(c.Context(), week, file); err != nil {
		switch {
		case errors.Is(err, service.ErrLectureNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "lecture not found")
		case errors.Is(err, service.ErrNotPDF):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "module must be a pdf document")
		default:
			h.logger.Error().Err(err).Str("week", week).Msg("failed to upload module")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to upload module")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "module uploaded", fiber.Map{"week": week})
}

func (h *LectureHandler) sessionReset(c *fiber.Ctx) error {
	h.session.Reset()
	return utils.SendSuccess(c, "lecture session reset", h.session.Status())
}

// weekParam decodes the :week path segment; week labels carry spaces and an
// en dash, so they arrive percent-encoded.
func weekParam(c *fiber.Ctx) (string, error) {
	week, err := url.PathUnescape(c.Params("week"))
	if err != nil {
		return "", err
	}

	week = strings.TrimSpace(week)
	if week == "" {
		return "", fmt.Errorf("week is required")
	}

	return week, nil
}
