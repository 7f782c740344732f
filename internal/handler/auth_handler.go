package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/middleware"
	"github.com/noah-isme/padidoc-go-api/internal/service"
	"github.com/noah-isme/padidoc-go-api/internal/utils"
)

const msgForgotPassword = "if the email is registered, password reset instructions have been sent"

// AuthHandler exposes login, registration and self-service account endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// AuthRoutes carries the middleware chains the auth endpoints are guarded by.
type AuthRoutes struct {
	LoginLimiter  fiber.Handler
	Authenticated []fiber.Handler
	AdminOnly     []fiber.Handler
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches routes.
func (h *AuthHandler) Register(router fiber.Router, routes AuthRoutes) {
	var loginGuards []fiber.Handler
	if routes.LoginLimiter != nil {
		loginGuards = append(loginGuards, routes.LoginLimiter)
	}
	router.Post("/login", chain(loginGuards, h.login)...)
	router.Post("/forgot-password", h.forgotPassword)
	router.Post("/reset-password", h.resetPassword)

	router.Post("/logout", chain(routes.Authenticated, h.logout)...)
	router.Get("/me", chain(routes.Authenticated, h.me)...)
	router.Post("/edit-profile", chain(routes.Authenticated, h.editProfile)...)
	router.Post("/register", chain(routes.AdminOnly, h.register)...)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	result, err := h.service.Login(c.UserContext(), req, originFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to login")
	}
	return utils.SendSuccess(c, "login successful", result)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	h.service.Logout(c.UserContext(), middleware.UserID(c), originFromContext(c))
	return utils.SendSuccess(c, "logout successful", nil)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load profile")
	}
	return utils.SendSuccess(c, "profile retrieved", user)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	user, err := h.service.Register(c.UserContext(), middleware.UserID(c), req, originFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to register user")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered", user)
}

func (h *AuthHandler) editProfile(c *fiber.Ctx) error {
	var req dto.EditProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	user, err := h.service.EditProfile(c.UserContext(), middleware.UserID(c), req, originFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update profile")
	}
	return utils.SendSuccess(c, "profile updated", user)
}

func (h *AuthHandler) forgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	result, err := h.service.ForgotPassword(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to process password reset request")
	}
	if result.ResetToken == "" {
		return utils.SendSuccess(c, msgForgotPassword, nil)
	}
	return utils.SendSuccess(c, msgForgotPassword, result)
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	if err := h.service.ResetPassword(c.UserContext(), req); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to reset password")
	}
	return utils.SendSuccess(c, "password has been reset", nil)
}
