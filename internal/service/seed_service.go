package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

// Default administrator provisioned on a fresh installation.
const (
	DefaultAdminEmail    = "admin@padidoc.com"
	DefaultAdminUsername = "Admin PadiDoc"
	DefaultAdminPassword = "admin123"
)

// SeedResult reports what a seeding run changed.
type SeedResult struct {
	AdminCreated      bool
	AdminReset        bool
	SuppliersInserted int
	CustomersInserted int
}

// SeedOptions selects optional seeding steps.
type SeedOptions struct {
	ResetAdminPassword bool
	Samples            bool
}

// SeedService provisions the default administrator and sample master data.
type SeedService interface {
	Seed(ctx context.Context, opts SeedOptions) (SeedResult, error)
}

type seedService struct {
	users     repository.UserRepository
	suppliers repository.SupplierRepository
	customers repository.CustomerRepository
	hasher    PasswordHasher
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(users repository.UserRepository, suppliers repository.SupplierRepository, customers repository.CustomerRepository, hasher PasswordHasher, logger zerolog.Logger) SeedService {
	return &seedService{
		users:     users,
		suppliers: suppliers,
		customers: customers,
		hasher:    hasher,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) Seed(ctx context.Context, opts SeedOptions) (SeedResult, error) {
	var result SeedResult

	created, reset, err := s.seedAdmin(ctx, opts.ResetAdminPassword)
	if err != nil {
		return result, err
	}
	result.AdminCreated = created
	result.AdminReset = reset

	if !opts.Samples {
		return result, nil
	}

	if result.SuppliersInserted, err = seedPartners(ctx, s.suppliers, sampleSuppliers()); err != nil {
		return result, err
	}
	if result.CustomersInserted, err = seedPartners(ctx, s.customers, sampleCustomers()); err != nil {
		return result, err
	}

	s.logger.Info().
		Int("suppliers", result.SuppliersInserted).
		Int("customers", result.CustomersInserted).
		Msg("sample master data seeded")
	return result, nil
}

func (s *seedService) seedAdmin(ctx context.Context, reset bool) (bool, bool, error) {
	existing, err := s.users.FindByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		if !reset {
			s.logger.Info().Str("email", DefaultAdminEmail).Msg("admin user already exists")
			return false, false, nil
		}
		hash, err := s.hasher.Hash(DefaultAdminPassword)
		if err != nil {
			return false, false, err
		}
		existing.PasswordHash = hash
		existing.IsActive = true
		if err := s.users.Update(ctx, &existing); err != nil {
			return false, false, err
		}
		s.logger.Info().Str("email", DefaultAdminEmail).Msg("admin password reset")
		return false, true, nil
	}
	if !isNotFound(err) {
		return false, false, err
	}

	hash, err := s.hasher.Hash(DefaultAdminPassword)
	if err != nil {
		return false, false, err
	}
	admin := models.User{
		Username:     DefaultAdminUsername,
		Email:        strings.ToLower(DefaultAdminEmail),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, &admin); err != nil {
		return false, false, err
	}
	s.logger.Info().Str("email", DefaultAdminEmail).Msg("admin user created")
	return true, false, nil
}

// seedPartners inserts items only when the table is empty.
func seedPartners[T any](ctx context.Context, repo repository.CRUDRepository[T], items []T) (int, error) {
	_, total, err := repo.List(ctx, repository.ListFilter{Page: 1, PageSize: 1})
	if err != nil {
		return 0, err
	}
	if total > 0 {
		return 0, nil
	}
	for i := range items {
		if err := repo.Create(ctx, &items[i]); err != nil {
			return i, err
		}
	}
	return len(items), nil
}

func sampleSuppliers() []models.Supplier {
	return []models.Supplier{
		{Name: "Toko Tani Sejahtera", Address: "Jl. Sawah No. 123, Desa Padi", Phone: "081234567890"},
		{Name: "CV. Gabah Makmur", Address: "Jl. Pertanian No. 456, Kec. Subur", Phone: "081234567891"},
	}
}

func sampleCustomers() []models.Customer {
	return []models.Customer{
		{Name: "Warung Pak Budi", Address: "Jl. Pasar No. 789, Kelurahan Ramai", Phone: "081234567892"},
		{Name: "Toko Beras Sari", Address: "Jl. Beras No. 101, Kota Sejahtera", Phone: "081234567893"},
	}
}
