package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/padidoc-go-api/internal/auth"
	"github.com/noah-isme/padidoc-go-api/internal/config"
	"github.com/noah-isme/padidoc-go-api/internal/handler"
	"github.com/noah-isme/padidoc-go-api/internal/middleware"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
	"github.com/noah-isme/padidoc-go-api/internal/router"
	"github.com/noah-isme/padidoc-go-api/internal/service"
	"github.com/noah-isme/padidoc-go-api/internal/validation"
)

const testPassword = "secret123"

type testServer struct {
	app    *fiber.App
	db     *gorm.DB
	users  repository.UserRepository
	hasher *auth.PasswordHasher
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Details map[string]string `json:"details"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:handler_%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := zerolog.Nop()
	cfg := config.Config{AppName: "PadiDoc API", AppEnv: "test"}

	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	validate := validation.New()

	userRepo := repository.NewUserRepository(db)
	stockRepo := repository.NewStockRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	pembelianRepo := repository.NewPembelianRepository(db)
	pengeringanRepo := repository.NewPengeringanRepository(db)
	produksiRepo := repository.NewProduksiRepository(db)
	penjualanRepo := repository.NewPenjualanRepository(db)
	pengeluaranRepo := repository.NewPengeluaranRepository(db)

	events := service.NewEventPublisher(nil, "padidoc", log)
	activity := service.NewActivityService(repository.NewActivityLogRepository(db), userRepo, log)
	ledger := service.NewStockLedger(stockRepo, events, log)
	authService := service.NewAuthService(userRepo, repository.NewPasswordResetRepository(db), tokens, hasher, activity, events, validate,
		service.AuthOptions{ExposeResetToken: true}, log)

	repos := service.DashboardRepositories{
		Analytics:   repository.NewAnalyticsRepository(db),
		Stock:       stockRepo,
		Pembelian:   pembelianRepo,
		Produksi:    produksiRepo,
		Penjualan:   penjualanRepo,
		Pengeluaran: pengeluaranRepo,
	}

	cache := service.NewCashFlowInvalidator(nil, log)
	resources := map[string]router.CRUDRegistrar{
		"suppliers":   handler.NewResourceHandler(service.NewSupplierService(supplierRepo, activity, validate, log), log),
		"customers":   handler.NewResourceHandler(service.NewCustomerService(customerRepo, activity, validate, log), log),
		"pembelian":   handler.NewResourceHandler(service.NewPembelianService(pembelianRepo, supplierRepo, ledger, cache, activity, validate, log), log),
		"pengeringan": handler.NewResourceHandler(service.NewPengeringanService(pengeringanRepo, pembelianRepo, activity, validate, log), log),
		"penjualan":   handler.NewResourceHandler(service.NewPenjualanService(penjualanRepo, customerRepo, ledger, cache, activity, validate, log), log),
		"pengeluaran": handler.NewResourceHandler(service.NewPengeluaranService(pengeluaranRepo, cache, activity, validate, log), log),
		"produksi":    handler.NewResourceHandler(service.NewProduksiService(produksiRepo, pengeringanRepo, pembelianRepo, ledger, cache, activity, validate, log), log),
	}

	app := fiber.New()
	app.Use(middleware.CorrelationID())
	router.Register(app, cfg, router.Dependencies{
		DB:               db,
		Authenticate:     middleware.Authenticate(tokens, userRepo),
		AuthHandler:      handler.NewAuthHandler(authService, log),
		UserHandler:      handler.NewUserHandler(service.NewUserService(userRepo, activity, validate, log), log),
		ActivityHandler:  handler.NewActivityHandler(activity, log),
		StockHandler:     handler.NewStockHandler(service.NewStockService(stockRepo, ledger, activity, validate, log), log),
		SettingsHandler:  handler.NewSettingsHandler(service.NewSettingsService(repository.NewSettingsRepository(db), nil, activity, validate, 1, log), log),
		DashboardHandler: handler.NewDashboardHandler(service.NewDashboardService(repos, nil, time.Minute, decimal.Zero, time.UTC, log), log),
		ReportHandler:    handler.NewReportHandler(service.NewReportService(repos, log), log),
		Resources:        resources,
	})

	return &testServer{app: app, db: db, users: userRepo, hasher: hasher}
}

func (s *testServer) createUser(t *testing.T, username string, role models.Role, active bool) models.User {
	t.Helper()
	hash, err := s.hasher.Hash(testPassword)
	require.NoError(t, err)
	user := models.User{
		Username:     username,
		Email:        username + "@padidoc.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, s.users.Create(context.Background(), &user))
	return user
}

// login authenticates through the API and returns the bearer token.
func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode, body.Message)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func (s *testServer) do(t *testing.T, method, path, token string, payload interface{}) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	var body envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp, body
}

func today() string {
	return time.Now().UTC().Format(time.DateOnly)
}
