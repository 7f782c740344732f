package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/service"
	"github.com/noah-isme/padidoc-go-api/internal/utils"
)

// SettingsHandler exposes the company profile.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "settings_handler").Logger(),
	}
}

// Register attaches routes. Reads are open to every active user; writes go through adminOnly.
func (h *SettingsHandler) Register(router fiber.Router, adminOnly []fiber.Handler) {
	router.Get("", h.get)
	router.Post("", chain(adminOnly, h.create)...)
	router.Post("/logo", chain(adminOnly, h.uploadLogo)...)
	router.Put("/:id", chain(adminOnly, h.update)...)
}

func (h *SettingsHandler) get(c *fiber.Ctx) error {
	settings, err := h.service.Get(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load settings")
	}
	if settings == nil {
		// A typed nil keeps "data": null in the envelope.
		return utils.SendSuccess(c, "settings not configured", settings)
	}
	return utils.SendSuccess(c, "settings retrieved", settings)
}

func (h *SettingsHandler) create(c *fiber.Ctx) error {
	var req dto.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	settings, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create settings")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "settings created", settings)
}

func (h *SettingsHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	settings, err := h.service.Update(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update settings")
	}
	return utils.SendSuccess(c, "settings updated", settings)
}

func (h *SettingsHandler) uploadLogo(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}

	settings, err := h.service.UploadLogo(c.UserContext(), actorFromContext(c), file)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to upload logo")
	}
	return utils.SendSuccess(c, "logo uploaded", settings)
}
