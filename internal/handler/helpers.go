package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/middleware"
	"github.com/noah-isme/padidoc-go-api/internal/service"
	"github.com/noah-isme/padidoc-go-api/internal/utils"
)

const msgInvalidPayload = "invalid request payload"

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// parsePaging reads page and page_size, accepting the camelCase pageSize alias.
func parsePaging(c *fiber.Ctx) (int, int, error) {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return 0, 0, errors.New("invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return 0, 0, errors.New("invalid page size")
	}
	if pageSize == 0 {
		if alias, aliasErr := parseQueryInt(c, "pageSize"); aliasErr == nil {
			pageSize = alias
		}
	}
	return page, pageSize, nil
}

// parseDateRange reads the from and to query values. A calendar-date to covers that whole day,
// so the returned upper bound is exclusive.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := dto.ParseDate(raw)
		if err != nil {
			return nil, nil, errors.New("invalid from date")
		}
		from = &parsed
	}

	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := dto.ParseDate(raw)
		if err != nil {
			return nil, nil, errors.New("invalid to date")
		}
		if len(raw) == len(time.DateOnly) {
			parsed = parsed.AddDate(0, 0, 1)
		}
		to = &parsed
	}

	if from != nil && to != nil && !to.After(*from) {
		return nil, nil, errors.New("to must not be before from")
	}
	return from, to, nil
}

func parseListRequest(c *fiber.Ctx) (dto.ListRequest, error) {
	page, pageSize, err := parsePaging(c)
	if err != nil {
		return dto.ListRequest{}, err
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		return dto.ListRequest{}, err
	}
	return dto.ListRequest{Page: page, PageSize: pageSize, From: from, To: to}, nil
}

func originFromContext(c *fiber.Ctx) service.Origin {
	return service.Origin{
		IP:        c.IP(),
		UserAgent: string(c.Request().Header.UserAgent()),
	}
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:     middleware.UserID(c),
		Origin: originFromContext(c),
	}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// validationDetails maps validator failures to a field => rule object for the error envelope.
func validationDetails(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		rule := fieldErr.Tag()
		if fieldErr.Param() != "" {
			rule = rule + "=" + fieldErr.Param()
		}
		details[fieldErr.Field()] = rule
	}
	return details
}

// sendServiceError translates service failures into HTTP responses. Unknown errors are logged and
// reported as 500 with the supplied fallback message.
func sendServiceError(c *fiber.Ctx, logger *zerolog.Logger, err error, fallback string) error {
	if isValidationError(err) {
		return utils.Fail(c, fiber.StatusBadRequest, "validation failed", validationDetails(err))
	}

	var reference *service.ReferenceError
	switch {
	case errors.As(err, &reference):
		return utils.SendError(c, fiber.StatusBadRequest, reference.Error())
	case errors.Is(err, service.ErrRecordNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSettingsNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrStockItemExists),
		errors.Is(err, service.ErrSettingsExist):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidYield),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrSelfLockout),
		errors.Is(err, service.ErrCurrentPasswordInvalid),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrCompanyNameRequired),
		errors.Is(err, service.ErrLogoTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLogoTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	logger.Error().Err(err).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}

// chain appends the final handler to a copy of the guard chain.
func chain(guards []fiber.Handler, final fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	return append(handlers, final)
}
