package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/observability"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

var (
	// ErrSettingsExist indicates the installation already has a settings row.
	ErrSettingsExist = errors.New("settings already exist")
	// ErrSettingsNotFound indicates settings have not been configured yet.
	ErrSettingsNotFound = errors.New("settings not found")
	// ErrCompanyNameRequired indicates settings were created without a company name.
	ErrCompanyNameRequired = errors.New("company_name is required")
	// ErrLogoTooLarge indicates the logo exceeded the configured limit.
	ErrLogoTooLarge = errors.New("logo exceeds maximum allowed size")
	// ErrLogoTypeNotAllowed indicates the logo is not a supported image type.
	ErrLogoTypeNotAllowed = errors.New("logo must be a png, jpeg, webp or svg image")
)

var allowedLogoTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// AssetStore persists uploaded files and returns the URL to reference them by.
type AssetStore interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// InlineAssetStore embeds assets as data URIs for installations without an object store.
type InlineAssetStore struct{}

// Upload implements AssetStore.
func (InlineAssetStore) Upload(_ context.Context, _ string, reader io.Reader) (string, error) {
	payload, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	mime := mimetype.Detect(payload)
	return fmt.Sprintf("data:%s;base64,%s", baseMime(mime.String()), base64.StdEncoding.EncodeToString(payload)), nil
}

// SettingsService manages the company profile.
type SettingsService interface {
	// Get returns nil when settings have not been configured.
	Get(ctx context.Context) (*models.Settings, error)
	Create(ctx context.Context, actor Actor, req dto.SettingsRequest) (models.Settings, error)
	Update(ctx context.Context, actor Actor, id uint, req dto.SettingsRequest) (models.Settings, error)
	UploadLogo(ctx context.Context, actor Actor, file *multipart.FileHeader) (models.Settings, error)
}

type settingsService struct {
	repo      repository.SettingsRepository
	assets    AssetStore
	activity  ActivityLogger
	validator *validator.Validate
	logger    zerolog.Logger
	maxSize   int64
	tracer    trace.Tracer
}

// NewSettingsService constructs the settings service.
func NewSettingsService(repo repository.SettingsRepository, assets AssetStore, activity ActivityLogger, validate *validator.Validate, maxSizeMB int, logger zerolog.Logger) SettingsService {
	if maxSizeMB <= 0 {
		maxSizeMB = 2
	}
	if assets == nil {
		assets = InlineAssetStore{}
	}
	return &settingsService{
		repo:      repo,
		assets:    assets,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "settings_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		tracer:    otel.Tracer("github.com/noah-isme/padidoc-go-api/internal/service/settings"),
	}
}

func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (s *settingsService) Create(ctx context.Context, actor Actor, req dto.SettingsRequest) (models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Settings{}, err
	}
	if req.CompanyName == nil || sanitizeText(*req.CompanyName) == "" {
		return models.Settings{}, ErrCompanyNameRequired
	}

	if _, err := s.repo.Get(ctx); err == nil {
		return models.Settings{}, ErrSettingsExist
	} else if !isNotFound(err) {
		return models.Settings{}, err
	}

	var settings models.Settings
	applySettings(&settings, req)
	if err := s.repo.Create(ctx, &settings); err != nil {
		return models.Settings{}, err
	}

	s.activity.LogTransaction(ctx, actor.ID, models.ActionCreate, "settings", settings.ID, "Created company settings", actor.Origin)
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, actor Actor, id uint, req dto.SettingsRequest) (models.Settings, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Settings{}, err
	}

	settings, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return models.Settings{}, ErrSettingsNotFound
		}
		return models.Settings{}, err
	}

	applySettings(&settings, req)
	if err := s.repo.Update(ctx, &settings); err != nil {
		return models.Settings{}, err
	}

	s.activity.LogTransaction(ctx, actor.ID, models.ActionUpdate, "settings", settings.ID, "Updated company settings", actor.Origin)
	return settings, nil
}

func (s *settingsService) UploadLogo(ctx context.Context, actor Actor, file *multipart.FileHeader) (models.Settings, error) {
	ctx, span := s.tracer.Start(ctx, "settings.upload_logo")
	defer span.End()
	span.SetAttributes(attribute.Int64("upload.max_bytes", s.maxSize))

	start := time.Now()
	defer func() {
		observability.LogoUploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return models.Settings{}, err
	}
	span.SetAttributes(attribute.Int64("upload.request_size", file.Size))

	settings, err := s.repo.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return models.Settings{}, ErrSettingsNotFound
		}
		return models.Settings{}, err
	}

	if file.Size > s.maxSize {
		return models.Settings{}, s.reject(span, "size", ErrLogoTooLarge)
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return models.Settings{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return models.Settings{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		return models.Settings{}, s.reject(span, "size", ErrLogoTooLarge)
	}

	detected := baseMime(mimetype.Detect(buf.Bytes()).String())
	span.SetAttributes(attribute.String("upload.detected_mime", detected))
	if !allowedLogoTypes[detected] {
		return models.Settings{}, s.reject(span, "type", ErrLogoTypeNotAllowed)
	}

	url, err := s.assets.Upload(ctx, logoFileName(file.Filename), bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.LogoUploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return models.Settings{}, err
	}

	settings.CompanyLogo = url
	if err := s.repo.Update(ctx, &settings); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return models.Settings{}, err
	}

	span.SetStatus(codes.Ok, "stored")
	s.logger.Info().Str("mime", detected).Int("size_bytes", buf.Len()).Msg("company logo updated")
	s.activity.LogTransaction(ctx, actor.ID, models.ActionUpdate, "settings", settings.ID, "Uploaded company logo", actor.Origin)
	return settings, nil
}

func (s *settingsService) reject(span trace.Span, reason string, err error) error {
	observability.LogoUploadRejected().WithLabelValues(reason).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	return err
}

func applySettings(settings *models.Settings, req dto.SettingsRequest) {
	assign := func(target *string, value *string) {
		if value != nil {
			*target = sanitizeText(*value)
		}
	}
	assign(&settings.CompanyName, req.CompanyName)
	assign(&settings.CompanyAddress, req.CompanyAddress)
	assign(&settings.CompanyPhone, req.CompanyPhone)
	assign(&settings.CompanyEmail, req.CompanyEmail)
	assign(&settings.CompanyNPWP, req.CompanyNPWP)
	assign(&settings.InvoiceFooter, req.InvoiceFooter)
	assign(&settings.BankName, req.BankName)
	assign(&settings.BankAccount, req.BankAccount)
	assign(&settings.BankAccountName, req.BankAccountName)
}

func baseMime(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return value
}

func logoFileName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = "logo"
	}
	return base + strings.ToLower(filepath.Ext(name))
}
