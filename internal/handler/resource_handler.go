package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/service"
	"github.com/noah-isme/padidoc-go-api/internal/utils"
)

// ResourceHandler serves list, get, create, update and delete for one business resource.
type ResourceHandler[T any, R any] struct {
	service service.ResourceService[T, R]
	logger  zerolog.Logger
}

// NewResourceHandler constructs a CRUD handler over the given service.
func NewResourceHandler[T any, R any](svc service.ResourceService[T, R], logger zerolog.Logger) *ResourceHandler[T, R] {
	return &ResourceHandler[T, R]{
		service: svc,
		logger:  logger.With().Str("component", "resource_handler").Str("resource", svc.Name()).Logger(),
	}
}

// Register attaches routes.
func (h *ResourceHandler[T, R]) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ResourceHandler[T, R]) list(c *fiber.Ctx) error {
	req, err := parseListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.List(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list "+h.service.Name())
	}
	return utils.SendSuccess(c, h.service.Name()+" retrieved", result)
}

func (h *ResourceHandler[T, R]) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to fetch "+h.service.Name())
	}
	return utils.SendSuccess(c, h.service.Name()+" retrieved", item)
}

func (h *ResourceHandler[T, R]) create(c *fiber.Ctx) error {
	var req R
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	item, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create "+h.service.Name())
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, h.service.Name()+" created", item)
}

func (h *ResourceHandler[T, R]) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req R
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	item, err := h.service.Update(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update "+h.service.Name())
	}
	return utils.SendSuccess(c, h.service.Name()+" updated", item)
}

func (h *ResourceHandler[T, R]) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete "+h.service.Name())
	}
	return utils.SendSuccess(c, h.service.Name()+" deleted", nil)
}
