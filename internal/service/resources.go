package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

var (
	// ErrInvalidDateRange indicates a drying batch that finishes before it starts.
	ErrInvalidDateRange = errors.New("tanggal_selesai must not be before tanggal_mulai")
	// ErrInvalidYield indicates a milling run whose rice output exceeds its paddy input.
	ErrInvalidYield = errors.New("jumlah_beras_output must not exceed jumlah_gabah_input")
)

type (
	SupplierService    = ResourceService[models.Supplier, dto.PartnerRequest]
	CustomerService    = ResourceService[models.Customer, dto.PartnerRequest]
	PembelianService   = ResourceService[models.Pembelian, dto.PembelianRequest]
	PengeringanService = ResourceService[models.Pengeringan, dto.PengeringanRequest]
	ProduksiService    = ResourceService[models.Produksi, dto.ProduksiRequest]
	PenjualanService   = ResourceService[models.Penjualan, dto.PenjualanRequest]
	PengeluaranService = ResourceService[models.Pengeluaran, dto.PengeluaranRequest]
)

var hundred = decimal.NewFromInt(100)

// NewSupplierService constructs the supplier service.
func NewSupplierService(repo repository.SupplierRepository, activity ActivityLogger, validate *validator.Validate, logger zerolog.Logger) SupplierService {
	return newResourceService(resourceSpec[models.Supplier, dto.PartnerRequest]{
		name: "suppliers",
		build: func(_ context.Context, req dto.PartnerRequest, existing *models.Supplier) (models.Supplier, error) {
			var record models.Supplier
			if existing != nil {
				record = *existing
			}
			record.Name = sanitizeText(req.Name)
			record.Address = sanitizeText(req.Address)
			record.Phone = sanitizeText(req.Phone)
			return record, nil
		},
		id:       func(record models.Supplier) uint { return record.ID },
		describe: func(record models.Supplier) string { return "Supplier " + record.Name },
	}, repo, nil, nil, activity, validate, logger)
}

// NewCustomerService constructs the customer service.
func NewCustomerService(repo repository.CustomerRepository, activity ActivityLogger, validate *validator.Validate, logger zerolog.Logger) CustomerService {
	return newResourceService(resourceSpec[models.Customer, dto.PartnerRequest]{
		name: "customers",
		build: func(_ context.Context, req dto.PartnerRequest, existing *models.Customer) (models.Customer, error) {
			var record models.Customer
			if existing != nil {
				record = *existing
			}
			record.Name = sanitizeText(req.Name)
			record.Address = sanitizeText(req.Address)
			record.Phone = sanitizeText(req.Phone)
			return record, nil
		},
		id:       func(record models.Customer) uint { return record.ID },
		describe: func(record models.Customer) string { return "Customer " + record.Name },
	}, repo, nil, nil, activity, validate, logger)
}

// NewPembelianService constructs the purchase service. Purchases add to stock.
func NewPembelianService(repo repository.PembelianRepository, suppliers repository.SupplierRepository, ledger *StockLedger, cache CacheInvalidator, activity ActivityLogger, validate *validator.Validate, logger zerolog.Logger) PembelianService {
	return newResourceService(resourceSpec[models.Pembelian, dto.PembelianRequest]{
		name: "pembelian",
		build: func(ctx context.Context, req dto.PembelianRequest, existing *models.Pembelian) (models.Pembelian, error) {
			if err := ensureExists(ctx, suppliers, req.SupplierID, "supplier"); err != nil {
				return models.Pembelian{}, err
			}

			var record models.Pembelian
			if existing != nil {
				record = *existing
			}
			record.SupplierID = req.SupplierID
			record.Tanggal = req.Tanggal.Time
			record.JenisGabah = sanitizeText(req.JenisGabah)
			record.JenisBarang = defaultString(req.JenisBarang, models.ItemGabah)
			record.AsalBarang = defaultString(sanitizeText(req.AsalBarang), "pembelian")
			record.Jumlah = req.Jumlah
			record.HargaPerKg = req.HargaPerKg
			record.TotalHarga = lineTotal(req.Jumlah, req.HargaPerKg, req.TotalHarga)
			record.KadarAir = optionalDecimal(req.KadarAir)
			record.Kualitas = sanitizeText(req.Kualitas)
			record.Status = defaultString(req.Status, "pending")
			record.MetodePembayaran = defaultString(req.MetodePembayaran, "cash")
			record.Catatan = sanitizeText(req.Catatan)
			return record, nil
		},
		movements: func(record models.Pembelian) []repository.StockMovement {
			return []repository.StockMovement{{
				Item:  record.JenisBarang,
				Delta: record.Jumlah,
				Kind:  models.StockIn,
				Note:  fmt.Sprintf("Pembelian %s sebanyak %s kg", record.JenisBarang, record.Jumlah.String()),
			}}
		},
		id: func(record models.Pembelian) uint { return record.ID },
		describe: func(record models.Pembelian) string {
			return fmt.Sprintf("Pembelian %s %s kg senilai %s", record.JenisGabah, record.Jumlah.String(), record.TotalHarga.StringFixed(2))
		},
	}, repo, ledger, cache, activity, validate, logger)
}

// NewPengeringanService constructs the drying batch service.
func NewPengeringanService(repo repository.PengeringanRepository, purchases repository.PembelianRepository, activity ActivityLogger, validate *validator.Validate, logger zerolog.Logger) PengeringanService {
	return newResourceService(resourceSpec[models.Pengeringan, dto.PengeringanRequest]{
		name: "pengeringan",
		build: func(ctx context.Context, req dto.PengeringanRequest, existing *models.Pengeringan) (models.Pengeringan, error) {
			if err := ensureExists(ctx, purchases, req.PembelianID, "pembelian"); err != nil {
				return models.Pengeringan{}, err
			}
			selesai := dto.OptionalDate(req.TanggalSelesai)
			if selesai != nil && selesai.Before(req.TanggalMulai.Time) {
				return models.Pengeringan{}, ErrInvalidDateRange
			}

			var record models.Pengeringan
			if existing != nil {
				record = *existing
			}
			record.PembelianID = req.PembelianID
			record.TanggalMulai = req.TanggalMulai.Time
			record.TanggalSelesai = selesai
			record.KadarAirAwal = optionalDecimal(req.KadarAirAwal)
			record.KadarAirAkhir = optionalDecimal(req.KadarAirAkhir)
			record.JumlahAwal = optionalDecimal(req.JumlahAwal)
			record.JumlahAkhir = optionalDecimal(req.JumlahAkhir)
			record.Status = defaultString(req.Status, "ongoing")
			record.Catatan = sanitizeText(req.Catatan)
			return record, nil
		},
		id: func(record models.Pengeringan) uint { return record.ID },
		describe: func(record models.Pengeringan) string {
			return fmt.Sprintf("Pengeringan mulai %s status %s", record.TanggalMulai.Format("2006-01-02"), record.Status)
		},
	}, repo, nil, nil, activity, validate, logger)
}

// NewProduksiService constructs the milling service. Runs consume paddy and add products to stock.
func NewProduksiService(repo repository.ProduksiRepository, drying repository.PengeringanRepository, purchases repository.PembelianRepository, ledger *StockLedger, cache CacheInvalidator, activity ActivityLogger, validate *validator.Validate, logger zerolog.Logger) ProduksiService {
	return newResourceService(resourceSpec[models.Produksi, dto.ProduksiRequest]{
		name: "produksi",
		build: func(ctx context.Context, req dto.ProduksiRequest, existing *models.Produksi) (models.Produksi, error) {
			if err := ensureExists(ctx, drying, req.PengeringanID, "pengeringan"); err != nil {
				return models.Produksi{}, err
			}
			if err := ensureExists(ctx, purchases, req.PembelianID, "pembelian"); err != nil {
				return models.Produksi{}, err
			}
			if req.JumlahBerasOutput.GreaterThan(req.JumlahGabahInput) {
				return models.Produksi{}, ErrInvalidYield
			}

			var record models.Produksi
			if existing != nil {
				record = *existing
			}
			record.PengeringanID = req.PengeringanID
			record.PembelianID = req.PembelianID
			record.Tanggal = req.Tanggal.Time
			record.JenisBerasProduced = sanitizeText(req.JenisBerasProduced)
			record.SumberBahan = defaultString(req.SumberBahan, "pengeringan")
			record.JumlahGabahInput = decimal.NewNullDecimal(req.JumlahGabahInput)
			record.JumlahBerasOutput = decimal.NewNullDecimal(req.JumlahBerasOutput)
			record.JumlahDedak = optionalDecimal(req.JumlahDedak)
			record.JumlahMenir = optionalDecimal(req.JumlahMenir)
			record.JumlahKatul = optionalDecimal(req.JumlahKatul)
			record.JumlahSekam = optionalDecimal(req.JumlahSekam)
			record.Rendemen = optionalDecimal(req.Rendemen)
			if req.Rendemen == nil {
				record.Rendemen = decimal.NewNullDecimal(Rendemen(req.JumlahGabahInput, req.JumlahBerasOutput))
			}
			record.Status = defaultString(req.Status, "completed")
			record.Catatan = sanitizeText(req.Catatan)
			return record, nil
		},
		movements: produksiMovements,
		id:        func(record models.Produksi) uint { return record.ID },
		describe: func(record models.Produksi) string {
			return fmt.Sprintf("Produksi %s dari %s kg gabah menjadi %s kg beras",
				record.JenisBerasProduced,
				nullDecimalValue(record.JumlahGabahInput).String(),
				nullDecimalValue(record.JumlahBerasOutput).String())
		},
	}, repo, ledger, cache, activity, validate, logger)
}

// NewPenjualanService constructs the sales service. Sales draw down stock and fail when it is insufficient.
func NewPenjualanService(repo repository.PenjualanRepository, customers repository.CustomerRepository, ledger *StockLedger, cache CacheInvalidator, activity ActivityLogger, validate *validator.Validate, logger zerolog.Logger) PenjualanService {
	return newResourceService(resourceSpec[models.Penjualan, dto.PenjualanRequest]{
		name: "penjualan",
		build: func(ctx context.Context, req dto.PenjualanRequest, existing *models.Penjualan) (models.Penjualan, error) {
			if err := ensureExists(ctx, customers, req.CustomerID, "customer"); err != nil {
				return models.Penjualan{}, err
			}

			var record models.Penjualan
			if existing != nil {
				record = *existing
			}
			record.CustomerID = req.CustomerID
			record.Tanggal = req.Tanggal.Time
			record.JenisBeras = sanitizeText(req.JenisBeras)
			record.JenisBarang = defaultString(req.JenisBarang, models.ItemBeras)
			record.AsalBarang = defaultString(sanitizeText(req.AsalBarang), "produksi")
			record.Jumlah = req.Jumlah
			record.HargaPerKg = req.HargaPerKg
			record.TotalHarga = lineTotal(req.Jumlah, req.HargaPerKg, req.TotalHarga)
			record.Status = defaultString(req.Status, "completed")
			record.MetodePembayaran = defaultString(req.MetodePembayaran, "cash")
			record.Catatan = sanitizeText(req.Catatan)
			return record, nil
		},
		movements: func(record models.Penjualan) []repository.StockMovement {
			return []repository.StockMovement{{
				Item:  record.JenisBarang,
				Delta: record.Jumlah.Neg(),
				Kind:  models.StockOut,
				Note:  fmt.Sprintf("Penjualan %s sebanyak %s kg", record.JenisBarang, record.Jumlah.String()),
			}}
		},
		id: func(record models.Penjualan) uint { return record.ID },
		describe: func(record models.Penjualan) string {
			return fmt.Sprintf("Penjualan %s %s kg senilai %s", record.JenisBeras, record.Jumlah.String(), record.TotalHarga.StringFixed(2))
		},
	}, repo, ledger, cache, activity, validate, logger)
}

// NewPengeluaranService constructs the expense service.
func NewPengeluaranService(repo repository.PengeluaranRepository, cache CacheInvalidator, activity ActivityLogger, validate *validator.Validate, logger zerolog.Logger) PengeluaranService {
	return newResourceService(resourceSpec[models.Pengeluaran, dto.PengeluaranRequest]{
		name: "pengeluaran",
		build: func(_ context.Context, req dto.PengeluaranRequest, existing *models.Pengeluaran) (models.Pengeluaran, error) {
			var record models.Pengeluaran
			if existing != nil {
				record = *existing
			}
			record.Tanggal = req.Tanggal.Time
			record.Kategori = sanitizeText(req.Kategori)
			record.Deskripsi = sanitizeText(req.Deskripsi)
			record.Jumlah = req.Jumlah
			record.Catatan = sanitizeText(req.Catatan)
			return record, nil
		},
		id: func(record models.Pengeluaran) uint { return record.ID },
		describe: func(record models.Pengeluaran) string {
			return fmt.Sprintf("Pengeluaran %s senilai %s", record.Kategori, record.Jumlah.StringFixed(2))
		},
	}, repo, nil, cache, activity, validate, logger)
}

// Rendemen is the milling yield as a percentage of input, rounded to two places.
func Rendemen(input, output decimal.Decimal) decimal.Decimal {
	if !input.IsPositive() {
		return decimal.Zero
	}
	return output.Div(input).Mul(hundred).Round(2)
}

func produksiMovements(record models.Produksi) []repository.StockMovement {
	movements := make([]repository.StockMovement, 0, 5)
	input := nullDecimalValue(record.JumlahGabahInput)
	if input.IsPositive() {
		movements = append(movements, repository.StockMovement{
			Item:  models.ItemGabah,
			Delta: input.Neg(),
			Kind:  models.StockOut,
			Note:  fmt.Sprintf("Produksi menggunakan gabah sebanyak %s kg", input.String()),
		})
	}

	outputs := []struct {
		item   string
		amount decimal.NullDecimal
	}{
		{models.ItemBeras, record.JumlahBerasOutput},
		{models.ItemKatul, record.JumlahKatul},
		{models.ItemMenir, record.JumlahMenir},
		{models.ItemSekam, record.JumlahSekam},
	}
	for _, output := range outputs {
		amount := nullDecimalValue(output.amount)
		if !amount.IsPositive() {
			continue
		}
		movements = append(movements, repository.StockMovement{
			Item:  output.item,
			Delta: amount,
			Kind:  models.StockIn,
			Note:  fmt.Sprintf("Produksi menghasilkan %s sebanyak %s kg", output.item, amount.String()),
		})
	}
	return movements
}

func lineTotal(quantity, price decimal.Decimal, explicit *decimal.Decimal) decimal.Decimal {
	if explicit != nil {
		return *explicit
	}
	return quantity.Mul(price).Round(2)
}

func ensureExists[T any](ctx context.Context, repo repository.CRUDRepository[T], id *uint, field string) error {
	if id == nil {
		return nil
	}
	if _, err := repo.FindByID(ctx, *id); err != nil {
		if isNotFound(err) {
			return &ReferenceError{Field: field}
		}
		return err
	}
	return nil
}
