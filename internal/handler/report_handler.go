package handler

import (
	"bytes"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/service"
	"github.com/noah-isme/padidoc-go-api/internal/utils"
)

// ReportHandler exposes period summaries and CSV exports.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
	now     func() time.Time
}

// NewReportHandler constructs the handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("component", "report_handler").Logger(),
		now:     time.Now,
	}
}

// Register attaches routes.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/summary", h.summary)
	router.Get("/export/:dataset", h.export)
}

// period resolves the report window. Without parameters it covers the current month up to today.
func (h *ReportHandler) period(c *fiber.Ctx) (dto.ReportRequest, error) {
	from, to, err := parseDateRange(c)
	if err != nil {
		return dto.ReportRequest{}, err
	}

	now := h.now().In(dto.DateLocation())
	req := dto.ReportRequest{
		From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		To:   time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location()),
	}
	if from != nil {
		req.From = *from
	}
	if to != nil {
		req.To = *to
	}
	if !req.To.After(req.From) {
		return dto.ReportRequest{}, errors.New("to must not be before from")
	}
	return req, nil
}

func (h *ReportHandler) summary(c *fiber.Ctx) error {
	req, err := h.period(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.service.Summary(c.UserContext(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to build report summary")
	}
	return utils.SendSuccess(c, "report summary retrieved", summary)
}

func (h *ReportHandler) export(c *fiber.Ctx) error {
	req, err := h.period(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var buf bytes.Buffer
	filename, err := h.service.Export(c.UserContext(), c.Params("dataset"), req, &buf)
	if err != nil {
		if errors.Is(err, service.ErrUnknownDataset) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to export report")
	}
	return utils.SendAttachment(c, filename, "text/csv; charset=utf-8", buf.Bytes())
}
