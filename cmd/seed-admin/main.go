package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/auth"
	"github.com/noah-isme/padidoc-go-api/internal/config"
	"github.com/noah-isme/padidoc-go-api/internal/database"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
	"github.com/noah-isme/padidoc-go-api/internal/service"
)

func main() {
	reset := flag.Bool("reset", false, "reset the default admin password when the account already exists")
	samples := flag.Bool("samples", false, "insert sample suppliers and customers into empty tables")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("command", "seed-admin").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	seeder := service.NewSeedService(
		repository.NewUserRepository(db),
		repository.NewSupplierRepository(db),
		repository.NewCustomerRepository(db),
		auth.NewPasswordHasher(cfg.BcryptCost),
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := seeder.Seed(ctx, service.SeedOptions{ResetAdminPassword: *reset, Samples: *samples})
	if err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}

	logger.Info().
		Bool("admin_created", result.AdminCreated).
		Bool("admin_reset", result.AdminReset).
		Int("suppliers_inserted", result.SuppliersInserted).
		Int("customers_inserted", result.CustomersInserted).
		Str("admin_email", service.DefaultAdminEmail).
		Msg("seeding completed")
}
