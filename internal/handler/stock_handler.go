package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/service"
	"github.com/noah-isme/padidoc-go-api/internal/utils"
)

// StockHandler exposes stock items, manual adjustments and the movement log.
type StockHandler struct {
	service service.StockService
	logger  zerolog.Logger
}

// NewStockHandler constructs the handler.
func NewStockHandler(service service.StockService, logger zerolog.Logger) *StockHandler {
	return &StockHandler{
		service: service,
		logger:  logger.With().Str("component", "stock_handler").Logger(),
	}
}

// Register attaches the stock item routes.
func (h *StockHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/adjust", h.adjust)
}

// RegisterLogs attaches the movement log route.
func (h *StockHandler) RegisterLogs(router fiber.Router) {
	router.Get("", h.listLogs)
}

func (h *StockHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.List(c.UserContext(), dto.ListRequest{Page: page, PageSize: pageSize})
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list stock")
	}
	return utils.SendSuccess(c, "stock retrieved", result)
}

func (h *StockHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stock, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to fetch stock")
	}
	return utils.SendSuccess(c, "stock retrieved", stock)
}

func (h *StockHandler) create(c *fiber.Ctx) error {
	var req dto.StokCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	stock, err := h.service.Create(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create stock")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "stock created", stock)
}

func (h *StockHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.StokUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	stock, err := h.service.Update(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update stock")
	}
	return utils.SendSuccess(c, "stock updated", stock)
}

func (h *StockHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to delete stock")
	}
	return utils.SendSuccess(c, "stock deleted", nil)
}

func (h *StockHandler) adjust(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.StockAdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPayload)
	}

	result, err := h.service.Adjust(c.UserContext(), actorFromContext(c), id, req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to adjust stock")
	}
	return utils.SendSuccess(c, "stock adjusted", result)
}

func (h *StockHandler) listLogs(c *fiber.Ctx) error {
	page, pageSize, err := parsePaging(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	stokID, err := parseQueryInt(c, "stok_id")
	if err != nil || stokID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid stok_id")
	}

	req := dto.StockLogListRequest{Page: page, PageSize: pageSize, StokID: uint(stokID)}
	result, err := h.service.ListLogs(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list stock movements")
	}
	return utils.SendSuccess(c, "stock movements retrieved", result)
}
