package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/service"
	"github.com/adebimpe-ng/course-portal-api/internal/utils"
)

// SeminarHandler handles the mid-semester seminar uploads.
type SeminarHandler struct {
	service service.SeminarService
	logger  zerolog.Logger
}

// NewSeminarHandler constructs a seminar handler.
func NewSeminarHandler(service service.SeminarService, logger zerolog.Logger) *SeminarHandler {
	return &SeminarHandler{
		service: service,
		logger:  logger.With().Str("component", "seminar_handler").Logger(),
	}
}

// Register wires the student-facing upload route.
func (h *SeminarHandler) Register(router fiber.Router) {
	router.Post("/seminar", h.upload)
}

// RegisterAdmin wires the admin submission listing.
func (h *SeminarHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/seminars", h.list)
}

func (h *SeminarHandler) upload(c *fiber.Ctx) error {
	payload := dto.SeminarUploadRequest{
		Name:      c.FormValue("name"),
		StudentID: c.FormValue("student_id"),
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "seminar file is required")
	}

	response, err := h.service.Upload(c.Context(), payload, file)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "name and student id are required")
		case errors.Is(err, service.ErrSeminarNotOpen):
			return utils.SendError(c, fiber.StatusForbidden, "seminar submissions open on october 20")
		case errors.Is(err, service.ErrDuplicateSeminar):
			return utils.SendError(c, fiber.StatusConflict, "seminar already submitted")
		case errors.Is(err, service.ErrNotSlides):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "seminar upload must be a ppt or pptx file")
		default:
			h.logger.Error().Err(err).Msg("failed to store seminar upload")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to upload seminar")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "seminar submitted", response)
}

func (h *SeminarHandler) list(c *fiber.Ctx) error {
	if wantsCSV(c) {
		return sendCSV(c, "seminars", h.service.ExportCSV)
	}

	submissions, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list seminar submissions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch seminar submissions")
	}

	return utils.SendSuccess(c, "seminar submissions retrieved", submissions)
}
