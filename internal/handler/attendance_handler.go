package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/service"
	"github.com/adebimpe-ng/course-portal-api/internal/utils"
)

// AttendanceHandler handles the weekly attendance gate.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(service service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register wires student-facing attendance routes.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("/attendance", h.mark)
}

// RegisterAdmin wires the admin attendance listing.
func (h *AttendanceHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/attendance", h.list)
}

func (h *AttendanceHandler) mark(c *fiber.Ctx) error {
	var payload dto.AttendanceMarkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Mark(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "name, student id and week are required")
		}
		h.logger.Error().Err(err).Msg("failed to mark attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark attendance")
	}

	if response.AlreadyMarked {
		return utils.SendSuccess(c, "attendance already marked for this week", response)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attendance marked", response)
}

func (h *AttendanceHandler) list(c *fiber.Ctx) error {
	if wantsCSV(c) {
		return sendCSV(c, "attendance", h.service.ExportCSV)
	}

	records, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list attendance")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch attendance")
	}

	return utils.SendSuccess(c, "attendance records retrieved", records)
}
