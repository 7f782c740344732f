package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/padidoc-go-api/internal/auth"
	"github.com/noah-isme/padidoc-go-api/internal/config"
	"github.com/noah-isme/padidoc-go-api/internal/database"
	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/handler"
	"github.com/noah-isme/padidoc-go-api/internal/middleware"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
	"github.com/noah-isme/padidoc-go-api/internal/router"
	"github.com/noah-isme/padidoc-go-api/internal/service"
	"github.com/noah-isme/padidoc-go-api/internal/utils"
	"github.com/noah-isme/padidoc-go-api/internal/validation"
	cloud "github.com/noah-isme/padidoc-go-api/pkg/cloudinary"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	dto.SetDateLocation(cfg.Location())

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not set, dashboard cache disabled")
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to nats")
	}
	if natsConn != nil {
		defer natsConn.Drain()
	} else {
		logger.Warn().Msg("nats url not set, domain events disabled")
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create token service")
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	validate := validation.New()

	var assets service.AssetStore
	if cfg.CloudinaryEnabled() {
		assets, err = cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create cloudinary client")
		}
	}

	userRepo := repository.NewUserRepository(db)
	resetRepo := repository.NewPasswordResetRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	stockRepo := repository.NewStockRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	pembelianRepo := repository.NewPembelianRepository(db)
	pengeringanRepo := repository.NewPengeringanRepository(db)
	produksiRepo := repository.NewProduksiRepository(db)
	penjualanRepo := repository.NewPenjualanRepository(db)
	pengeluaranRepo := repository.NewPengeluaranRepository(db)

	events := service.NewEventPublisher(natsConn, cfg.NATSSubjectPrefix, logger)
	activityService := service.NewActivityService(activityRepo, userRepo, logger)
	ledger := service.NewStockLedger(stockRepo, events, logger)
	cashFlowCache := service.NewCashFlowInvalidator(redisClient, logger)

	authService := service.NewAuthService(userRepo, resetRepo, tokens, hasher, activityService, events, validate, service.AuthOptions{
		ResetTokenTTL:    cfg.ResetTokenTTL,
		ExposeResetToken: cfg.ExposeResetToken,
	}, logger)
	userService := service.NewUserService(userRepo, activityService, validate, logger)
	stockService := service.NewStockService(stockRepo, ledger, activityService, validate, logger)
	settingsService := service.NewSettingsService(settingsRepo, assets, activityService, validate, cfg.LogoMaxSizeMB, logger)

	dashboardRepos := service.DashboardRepositories{
		Analytics:   repository.NewAnalyticsRepository(db),
		Stock:       stockRepo,
		Pembelian:   pembelianRepo,
		Produksi:    produksiRepo,
		Penjualan:   penjualanRepo,
		Pengeluaran: pengeluaranRepo,
	}
	dashboardService := service.NewDashboardService(dashboardRepos, redisClient, cfg.DashboardCacheTTL, cfg.StartingCapital, cfg.Location(), logger)
	reportService := service.NewReportService(dashboardRepos, logger)

	supplierService := service.NewSupplierService(supplierRepo, activityService, validate, logger)
	customerService := service.NewCustomerService(customerRepo, activityService, validate, logger)
	pembelianService := service.NewPembelianService(pembelianRepo, supplierRepo, ledger, cashFlowCache, activityService, validate, logger)
	pengeringanService := service.NewPengeringanService(pengeringanRepo, pembelianRepo, activityService, validate, logger)
	produksiService := service.NewProduksiService(produksiRepo, pengeringanRepo, pembelianRepo, ledger, cashFlowCache, activityService, validate, logger)
	penjualanService := service.NewPenjualanService(penjualanRepo, customerRepo, ledger, cashFlowCache, activityService, validate, logger)
	pengeluaranService := service.NewPengeluaranService(pengeluaranRepo, cashFlowCache, activityService, validate, logger)

	resources := map[string]router.CRUDRegistrar{
		"suppliers":   handler.NewResourceHandler(supplierService, logger),
		"customers":   handler.NewResourceHandler(customerService, logger),
		"pembelian":   handler.NewResourceHandler(pembelianService, logger),
		"pengeringan": handler.NewResourceHandler(pengeringanService, logger),
		"produksi":    handler.NewResourceHandler(produksiService, logger),
		"penjualan":   handler.NewResourceHandler(penjualanService, logger),
		"pengeluaran": handler.NewResourceHandler(pengeluaranService, logger),
	}

	bodyLimit := 4 * 1024 * 1024
	if logoLimit := (cfg.LogoMaxSizeMB + 1) * 1024 * 1024; logoLimit > bodyLimit {
		bodyLimit = logoLimit
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    bodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fiberErr, ok := err.(*fiber.Error); ok {
				return utils.SendError(c, fiberErr.Code, fiberErr.Message)
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		},
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		DB:               db,
		Authenticate:     middleware.Authenticate(tokens, userRepo),
		LoginLimiter:     middleware.RateLimit("login", cfg.LoginRateLimit, time.Minute),
		AuthHandler:      handler.NewAuthHandler(authService, logger),
		UserHandler:      handler.NewUserHandler(userService, logger),
		ActivityHandler:  handler.NewActivityHandler(activityService, logger),
		StockHandler:     handler.NewStockHandler(stockService, logger),
		SettingsHandler:  handler.NewSettingsHandler(settingsService, logger),
		DashboardHandler: handler.NewDashboardHandler(dashboardService, logger),
		ReportHandler:    handler.NewReportHandler(reportService, logger),
		Resources:        resources,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, db, logger)
}

func waitForShutdown(app *fiber.App, db *gorm.DB, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info().Msg("server stopped")
}
