package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/service"
	"github.com/adebimpe-ng/course-portal-api/internal/utils"
)

// ExamHandler handles the timed single-attempt test.
type ExamHandler struct {
	exams     service.ExamService
	questions service.QuestionService
	logger    zerolog.Logger
}

// NewExamHandler constructs an exam handler.
func NewExamHandler(exams service.ExamService, questions service.QuestionService, logger zerolog.Logger) *ExamHandler {
	return &ExamHandler{
		exams:     exams,
		questions: questions,
		logger:    logger.With().Str("component", "exam_handler").Logger(),
	}
}

// Register wires student-facing exam routes.
func (h *ExamHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
	router.Get("/status/:studentID", h.status)
	router.Post("/answer", h.answer)
	router.Post("/submit", h.submit)
}

// RegisterAdmin wires question bank management, results and configuration.
func (h *ExamHandler) RegisterAdmin(router fiber.Router) {
	router.Put("/exam/questions", h.uploadQuestions)
	router.Get("/exam/questions", h.listQuestions)
	router.Get("/exam/results", h.results)
	router.Get("/exam/stats", h.stats)
	router.Get("/exam/config", h.config)
	router.Put("/exam/config", h.updateConfig)
}

func (h *ExamHandler) login(c *fiber.Ctx) error {
	var payload dto.ExamLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	session, err := h.exams.Login(c.Context(), payload)
	if err != nil {
		return h.sendExamError(c, err, "failed to start test")
	}

	message := "test started"
	if session.Resumed {
		message = "test resumed"
	}

	return utils.SendSuccess(c, message, session)
}

func (h *ExamHandler) status(c *fiber.Ctx) error {
	session, err := h.exams.Status(c.Context(), c.Params("studentID"))
	if err != nil {
		return h.sendExamError(c, err, "failed to fetch test status")
	}

	return utils.SendSuccess(c, "test status", session)
}

func (h *ExamHandler) answer(c *fiber.Ctx) error {
	var payload dto.ExamAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	session, err := h.exams.Answer(c.Context(), payload)
	if err != nil {
		return h.sendExamError(c, err, "failed to save answer")
	}

	return utils.SendSuccess(c, "answer saved", session)
}

func (h *ExamHandler) submit(c *fiber.Ctx) error {
	var payload dto.ExamSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.exams.Submit(c.Context(), payload)
	if err != nil {
		var incomplete *service.IncompleteSubmitError
		if errors.As(err, &incomplete) {
			confirmation := dto.ExamSubmitConfirmation{
				Unanswered: incomplete.Unanswered,
				Total:      incomplete.Total,
			}
			return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "confirm submission with unanswered questions", confirmation)
		}
		return h.sendExamError(c, err, "failed to submit test")
	}

	return utils.SendSuccess(c, "test submitted", result)
}

func (h *ExamHandler) uploadQuestions(c *fiber.Ctx) error {
	response, err := h.questions.BulkUpload(c.Context(), c.Body())
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuestionBank) {
			return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to replace question bank")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to upload questions")
	}

	return utils.SendSuccess(c, "question bank replaced", response)
}

func (h *ExamHandler) listQuestions(c *fiber.Ctx) error {
	questions, err := h.questions.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list questions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch questions")
	}

	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *ExamHandler) results(c *fiber.Ctx) error {
	if wantsCSV(c) {
		return sendCSV(c, "exam_results", h.exams.ExportResultsCSV)
	}

	results, err := h.exams.Results(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list results")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch results")
	}

	return utils.SendSuccess(c, "results retrieved", results)
}

func (h *ExamHandler) stats(c *fiber.Ctx) error {
	stats, err := h.exams.Stats(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute exam stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch stats")
	}

	return utils.SendSuccess(c, "exam statistics", stats)
}

func (h *ExamHandler) config(c *fiber.Ctx) error {
	config, err := h.exams.Config(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read exam config")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch configuration")
	}

	return utils.SendSuccess(c, "exam configuration", config)
}

func (h *ExamHandler) updateConfig(c *fiber.Ctx) error {
	var payload dto.ExamConfigRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	config, err := h.exams.UpdateConfig(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "duration must be between 1 and 480 minutes")
		}
		h.logger.Error().Err(err).Msg("failed to update exam config")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update configuration")
	}

	return utils.SendSuccess(c, "exam configuration updated", config)
}

func (h *ExamHandler) sendExamError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	case errors.Is(err, service.ErrAttemptComplete):
		return utils.SendError(c, fiber.StatusForbidden, "test already completed; retakes are not allowed")
	case errors.Is(err, service.ErrTimeExpired):
		return utils.SendError(c, fiber.StatusGone, "time expired; the test was submitted automatically")
	case errors.Is(err, service.ErrAttemptNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "no test in progress")
	case errors.Is(err, service.ErrNoQuestions):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "no questions have been uploaded yet")
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
