package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/dto"
	"github.com/adebimpe-ng/course-portal-api/internal/service"
	"github.com/adebimpe-ng/course-portal-api/internal/utils"
)

// AuthHandler issues admin session tokens.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the login routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/portal", h.portalLogin)
	router.Post("/exam", h.examLogin)
}

// RegisterAdmin wires the protected credential update route.
func (h *AuthHandler) RegisterAdmin(router fiber.Router) {
	router.Put("/credentials", h.updateCredentials)
}

func (h *AuthHandler) portalLogin(c *fiber.Ctx) error {
	var payload dto.PortalLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	token, err := h.service.PortalLogin(c.Context(), payload)
	if err != nil {
		return h.sendAuthError(c, err)
	}

	return utils.SendSuccess(c, "login successful", token)
}

func (h *AuthHandler) examLogin(c *fiber.Ctx) error {
	var payload dto.ExamAdminLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	token, err := h.service.ExamLogin(c.Context(), payload)
	if err != nil {
		return h.sendAuthError(c, err)
	}

	return utils.SendSuccess(c, "login successful", token)
}

func (h *AuthHandler) updateCredentials(c *fiber.Ctx) error {
	var payload dto.CredentialUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.UpdateCredentials(c.Context(), payload); err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "username and password do not meet requirements")
		}
		h.logger.Error().Err(err).Msg("failed to update credentials")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update credentials")
	}

	return utils.SendSuccess(c, "credentials updated", nil)
}

func (h *AuthHandler) sendAuthError(c *fiber.Ctx, err error) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	default:
		h.logger.Error().Err(err).Msg("login failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "login failed")
	}
}
