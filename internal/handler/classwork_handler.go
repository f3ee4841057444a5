package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/service"
	"github.com/adebimpe-ng/course-portal-api/internal/utils"
)

// ClassworkHandler handles the timed classwork window and submissions.
type ClassworkHandler struct {
	service service.ClassworkService
	logger  zerolog.Logger
}

// NewClassworkHandler constructs a classwork handler.
func NewClassworkHandler(service service.ClassworkService, logger zerolog.Logger) *ClassworkHandler {
	return &ClassworkHandler{
		service: service,
		logger:  logger.With().Str("component", "classwork_handler").Logger(),
	}
}

// Register wires student-facing classwork routes.
func (h *ClassworkHandler) Register(router fiber.Router) {
	router.Get("/classwork/:week", h.state)
	router.Post("/classwork", h.submit)
}

// RegisterAdmin wires window control and the submission listing.
func (h *ClassworkHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/classwork/:week/open", h.open)
	router.Post("/classwork/:week/close", h.close)
	router.Post("/classwork/sweep", h.sweep)
	router.Get("/classwork", h.list)
}

func (h *ClassworkHandler) state(c *fiber.Ctx) error {
	week, err := weekParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid week")
	}

	state, err := h.service.State(c.Context(), week)
	if err != nil {
		h.logger.Error().Err(err).Str("week", week).Msg("failed to read classwork window")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch classwork window")
	}

	return utils.SendSuccess(c, "classwork window state", state)
}

func (h *ClassworkHandler) submit(c *fiber.Ctx) error {
	var payload dto.ClassworkSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Submit(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "name, student id, week and answers are required")
		case errors.Is(err, service.ErrWindowClosed):
			return utils.SendError(c, fiber.StatusForbidden, "classwork window is closed")
		default:
			h.logger.Error().Err(err).Msg("failed to submit classwork")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit classwork")
		}
	}

	if response.AlreadySubmitted {
		return utils.SendSuccess(c, "classwork already submitted for this week", response)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "classwork submitted", response)
}

func (h *ClassworkHandler) open(c *fiber.Ctx) error {
	week, err := weekParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid week")
	}

	state, err := h.service.Open(c.Context(), week)
	if err != nil {
		h.logger.Error().Err(err).Str("week", week).Msg("failed to open classwork window")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to open classwork window")
	}

	return utils.SendSuccess(c, "classwork window opened", state)
}

func (h *ClassworkHandler) close(c *fiber.Ctx) error {
	week, err := weekParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid week")
	}

	if err := h.service.Close(c.Context(), week); err != nil {
		h.logger.Error().Err(err).Str("week", week).Msg("failed to close classwork window")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to close classwork window")
	}

	return utils.SendSuccess(c, "classwork window closed", fiber.Map{"week": week})
}

func (h *ClassworkHandler) sweep(c *fiber.Ctx) error {
	closed, err := h.service.Sweep(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("classwork sweep failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to sweep classwork windows")
	}

	return utils.SendSuccess(c, "expired classwork windows closed", fiber.Map{"closed": closed})
}

func (h *ClassworkHandler) list(c *fiber.Ctx) error {
	if wantsCSV(c) {
		return sendCSV(c, "classwork", h.service.ExportCSV)
	}

	submissions, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list classwork submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch classwork submissions")
	}

	return utils.SendSuccess(c, "classwork submissions retrieved", submissions)
}
