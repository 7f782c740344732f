package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/padidoc-go-api/internal/service"
	"github.com/noah-isme/padidoc-go-api/internal/utils"
)

// DashboardHandler exposes the operational dashboard.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches routes.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/metrics", h.metrics)
	router.Get("/transactions", h.transactions)
	router.Get("/cash-flow", h.cashFlow)
}

func (h *DashboardHandler) metrics(c *fiber.Ctx) error {
	metrics, err := h.service.Metrics(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load dashboard metrics")
	}
	return utils.SendSuccess(c, "dashboard metrics retrieved", metrics)
}

func (h *DashboardHandler) transactions(c *fiber.Ctx) error {
	items, err := h.service.RecentTransactions(c.UserContext())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load recent transactions")
	}
	return utils.SendSuccess(c, "recent transactions retrieved", items)
}

func (h *DashboardHandler) cashFlow(c *fiber.Ctx) error {
	var capital *decimal.Decimal
	if raw := strings.TrimSpace(c.Query("starting_capital")); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid starting_capital")
		}
		capital = &parsed
	}

	overview, err := h.service.CashFlow(c.UserContext(), capital)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load cash flow")
	}
	return utils.SendSuccess(c, "cash flow retrieved", overview)
}
