package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
	"github.com/noah-isme/padidoc-go-api/internal/validation"
)

type transactionFixture struct {
	db          *gorm.DB
	stock       repository.StockRepository
	activity    *stubActivity
	events      *stubEvents
	cache       *stubInvalidator
	suppliers   SupplierService
	customers   CustomerService
	pembelian   PembelianService
	pengeringan PengeringanService
	produksi    ProduksiService
	penjualan   PenjualanService
	pengeluaran PengeluaranService
}

func setupTransactions(t *testing.T) transactionFixture {
	t.Helper()

	db := setupServiceDB(t)
	validate := validation.New()
	activity := &stubActivity{}
	events := &stubEvents{}
	cache := &stubInvalidator{}
	stock := repository.NewStockRepository(db)
	ledger := NewStockLedger(stock, events, testLogger())

	suppliers := repository.NewSupplierRepository(db)
	customers := repository.NewCustomerRepository(db)
	purchases := repository.NewPembelianRepository(db)
	drying := repository.NewPengeringanRepository(db)

	return transactionFixture{
		db:          db,
		stock:       stock,
		activity:    activity,
		events:      events,
		cache:       cache,
		suppliers:   NewSupplierService(suppliers, activity, validate, testLogger()),
		customers:   NewCustomerService(customers, activity, validate, testLogger()),
		pembelian:   NewPembelianService(purchases, suppliers, ledger, cache, activity, validate, testLogger()),
		pengeringan: NewPengeringanService(drying, purchases, activity, validate, testLogger()),
		produksi:    NewProduksiService(repository.NewProduksiRepository(db), drying, purchases, ledger, cache, activity, validate, testLogger()),
		penjualan:   NewPenjualanService(repository.NewPenjualanRepository(db), customers, ledger, cache, activity, validate, testLogger()),
		pengeluaran: NewPengeluaranService(repository.NewPengeluaranRepository(db), cache, activity, validate, testLogger()),
	}
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func stockLevel(t *testing.T, repo repository.StockRepository, item string) decimal.Decimal {
	t.Helper()
	stock, err := repo.FindByItem(context.Background(), item)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero
	}
	require.NoError(t, err)
	return stock.Jumlah
}

var testActor = Actor{ID: 1, Origin: Origin{IP: "127.0.0.1"}}

func yesterday() dto.Date {
	return dto.NewDate(time.Now().AddDate(0, 0, -1))
}

func TestPembelianCreateAddsStock(t *testing.T) {
	fx := setupTransactions(t)
	supplier, err := fx.suppliers.Create(context.Background(), testActor, dto.PartnerRequest{Name: " <b>Toko Tani</b> ", Phone: "0812"})
	require.NoError(t, err)
	require.Equal(t, "Toko Tani", supplier.Name)

	purchase, err := fx.pembelian.Create(context.Background(), testActor, dto.PembelianRequest{
		SupplierID: &supplier.ID,
		Tanggal:    yesterday(),
		JenisGabah: "IR64",
		Jumlah:     dec("1000"),
		HargaPerKg: dec("5500.5"),
	})
	require.NoError(t, err)
	require.NotZero(t, purchase.ID)
	require.Equal(t, models.ItemGabah, purchase.JenisBarang)
	require.Equal(t, "pending", purchase.Status)
	require.Equal(t, "cash", purchase.MetodePembayaran)
	require.True(t, dec("5500500").Equal(purchase.TotalHarga))

	require.True(t, dec("1000").Equal(stockLevel(t, fx.stock, models.ItemGabah)))

	logs, total, err := fx.stock.ListLogs(context.Background(), repository.StockLogFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, models.StockIn, logs[0].JenisTransaksi)
	require.Equal(t, "pembelian", logs[0].ReferensiTabel)
	require.NotNil(t, logs[0].ReferensiID)
	require.Equal(t, purchase.ID, *logs[0].ReferensiID)
	require.Equal(t, "Pembelian gabah sebanyak 1000 kg", logs[0].Keterangan)

	require.Equal(t, []string{SubjectStockMovement}, fx.events.subjects())
	require.Equal(t, []models.ActivityAction{models.ActionCreate, models.ActionCreate}, fx.activity.actions())
	require.Equal(t, "pembelian", fx.activity.entries[1].Resource)
}

func TestPembelianRejectsMissingSupplier(t *testing.T) {
	fx := setupTransactions(t)
	missing := uint(42)

	_, err := fx.pembelian.Create(context.Background(), testActor, dto.PembelianRequest{
		SupplierID: &missing,
		Tanggal:    yesterday(),
		JenisGabah: "IR64",
		Jumlah:     dec("10"),
		HargaPerKg: dec("5000"),
	})
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, "supplier", refErr.Field)
	require.True(t, stockLevel(t, fx.stock, models.ItemGabah).IsZero())
}

func TestPembelianRejectsFutureDate(t *testing.T) {
	fx := setupTransactions(t)

	_, err := fx.pembelian.Create(context.Background(), testActor, dto.PembelianRequest{
		Tanggal:    dto.NewDate(time.Now().Add(48 * time.Hour)),
		JenisGabah: "IR64",
		Jumlah:     dec("10"),
		HargaPerKg: dec("5000"),
	})
	require.Error(t, err)
	require.Empty(t, fx.activity.entries)
}

func TestProduksiConsumesPaddyAndProducesRice(t *testing.T) {
	fx := setupTransactions(t)
	_, err := fx.pembelian.Create(context.Background(), testActor, dto.PembelianRequest{
		Tanggal: yesterday(), JenisGabah: "IR64", Jumlah: dec("1000"), HargaPerKg: dec("5000"),
	})
	require.NoError(t, err)

	run, err := fx.produksi.Create(context.Background(), testActor, dto.ProduksiRequest{
		Tanggal:            yesterday(),
		JenisBerasProduced: "Premium",
		JumlahGabahInput:   dec("800"),
		JumlahBerasOutput:  dec("520"),
		JumlahKatul:        decPtr("60"),
		JumlahMenir:        decPtr("40"),
		JumlahSekam:        decPtr("150"),
		JumlahDedak:        decPtr("10"),
	})
	require.NoError(t, err)
	require.True(t, run.Rendemen.Valid)
	require.True(t, dec("65").Equal(run.Rendemen.Decimal))
	require.Equal(t, "pengeringan", run.SumberBahan)
	require.Equal(t, "completed", run.Status)

	require.True(t, dec("200").Equal(stockLevel(t, fx.stock, models.ItemGabah)))
	require.True(t, dec("520").Equal(stockLevel(t, fx.stock, models.ItemBeras)))
	require.True(t, dec("60").Equal(stockLevel(t, fx.stock, models.ItemKatul)))
	require.True(t, dec("40").Equal(stockLevel(t, fx.stock, models.ItemMenir)))
	require.True(t, dec("150").Equal(stockLevel(t, fx.stock, models.ItemSekam)))
}

func TestProduksiRejectsOutputAboveInput(t *testing.T) {
	fx := setupTransactions(t)

	_, err := fx.produksi.Create(context.Background(), testActor, dto.ProduksiRequest{
		Tanggal:            yesterday(),
		JenisBerasProduced: "Premium",
		JumlahGabahInput:   dec("100"),
		JumlahBerasOutput:  dec("120"),
	})
	require.ErrorIs(t, err, ErrInvalidYield)
}

func TestProduksiWithoutPaddyIsRolledBack(t *testing.T) {
	fx := setupTransactions(t)

	_, err := fx.produksi.Create(context.Background(), testActor, dto.ProduksiRequest{
		Tanggal:            yesterday(),
		JenisBerasProduced: "Premium",
		JumlahGabahInput:   dec("100"),
		JumlahBerasOutput:  dec("60"),
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	var count int64
	require.NoError(t, fx.db.Model(&models.Produksi{}).Count(&count).Error)
	require.Zero(t, count)
	require.True(t, stockLevel(t, fx.stock, models.ItemBeras).IsZero())
	require.Empty(t, fx.events.subjects())
}

func TestPenjualanDrawsDownStock(t *testing.T) {
	fx := setupTransactions(t)
	customer, err := fx.customers.Create(context.Background(), testActor, dto.PartnerRequest{Name: "Warung Pak Budi"})
	require.NoError(t, err)

	_, err = fx.stock.Adjust(context.Background(), mustStock(t, fx, models.ItemBeras, "0").ID, dec("300"), "Stok awal")
	require.NoError(t, err)

	sale, err := fx.penjualan.Create(context.Background(), testActor, dto.PenjualanRequest{
		CustomerID: &customer.ID,
		Tanggal:    yesterday(),
		JenisBeras: "Premium",
		Jumlah:     dec("120"),
		HargaPerKg: dec("12000"),
		TotalHarga: decPtr("1400000"),
	})
	require.NoError(t, err)
	require.Equal(t, models.ItemBeras, sale.JenisBarang)
	require.Equal(t, "completed", sale.Status)
	require.True(t, dec("1400000").Equal(sale.TotalHarga))
	require.True(t, dec("180").Equal(stockLevel(t, fx.stock, models.ItemBeras)))

	_, err = fx.penjualan.Create(context.Background(), testActor, dto.PenjualanRequest{
		Tanggal:    yesterday(),
		JenisBeras: "Premium",
		Jumlah:     dec("500"),
		HargaPerKg: dec("12000"),
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.True(t, dec("180").Equal(stockLevel(t, fx.stock, models.ItemBeras)))
}

func TestPenjualanBelowMinimumPublishesLowStock(t *testing.T) {
	fx := setupTransactions(t)
	stock := mustStock(t, fx, models.ItemBeras, "100")

	_, err := fx.penjualan.Create(context.Background(), testActor, dto.PenjualanRequest{
		Tanggal: yesterday(), JenisBeras: "Medium", Jumlah: dec("80"), HargaPerKg: dec("11000"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{SubjectStockMovement, SubjectStockLow}, fx.events.subjects())

	low, ok := fx.events.events[1].data.(LowStockEvent)
	require.True(t, ok)
	require.Equal(t, stock.ID, low.StokID)
	require.True(t, dec("20").Equal(low.Jumlah))
}

func TestPengeringanDateRange(t *testing.T) {
	fx := setupTransactions(t)
	start := time.Now().AddDate(0, 0, -3)
	before := dto.NewDate(start.AddDate(0, 0, -1))

	_, err := fx.pengeringan.Create(context.Background(), testActor, dto.PengeringanRequest{
		TanggalMulai:   dto.NewDate(start),
		TanggalSelesai: &before,
	})
	require.ErrorIs(t, err, ErrInvalidDateRange)

	after := dto.NewDate(start.AddDate(0, 0, 2))
	batch, err := fx.pengeringan.Create(context.Background(), testActor, dto.PengeringanRequest{
		TanggalMulai:   dto.NewDate(start),
		TanggalSelesai: &after,
		KadarAirAwal:   decPtr("25"),
		KadarAirAkhir:  decPtr("14"),
	})
	require.NoError(t, err)
	require.Equal(t, "ongoing", batch.Status)
	require.NotNil(t, batch.TanggalSelesai)
}

func TestResourceUpdateAndDelete(t *testing.T) {
	fx := setupTransactions(t)
	expense, err := fx.pengeluaran.Create(context.Background(), testActor, dto.PengeluaranRequest{
		Tanggal: yesterday(), Kategori: "Listrik", Deskripsi: "Tagihan PLN", Jumlah: dec("750000"),
	})
	require.NoError(t, err)

	updated, err := fx.pengeluaran.Update(context.Background(), testActor, expense.ID, dto.PengeluaranRequest{
		Tanggal: yesterday(), Kategori: "Listrik", Deskripsi: "Tagihan PLN Mei", Jumlah: dec("800000"),
	})
	require.NoError(t, err)
	require.Equal(t, expense.ID, updated.ID)
	require.Equal(t, "Tagihan PLN Mei", updated.Deskripsi)
	require.False(t, updated.CreatedAt.IsZero())

	fetched, err := fx.pengeluaran.Get(context.Background(), expense.ID)
	require.NoError(t, err)
	require.True(t, dec("800000").Equal(fetched.Jumlah))

	require.NoError(t, fx.pengeluaran.Delete(context.Background(), testActor, expense.ID))
	require.ErrorIs(t, fx.pengeluaran.Delete(context.Background(), testActor, expense.ID), ErrRecordNotFound)
	_, err = fx.pengeluaran.Get(context.Background(), expense.ID)
	require.ErrorIs(t, err, ErrRecordNotFound)

	require.Equal(t, []models.ActivityAction{models.ActionCreate, models.ActionUpdate, models.ActionDelete}, fx.activity.actions())
	require.Equal(t, 3, fx.cache.count())
}

func TestResourceListPaginates(t *testing.T) {
	fx := setupTransactions(t)
	for _, name := range []string{"A", "B", "C"} {
		_, err := fx.customers.Create(context.Background(), testActor, dto.PartnerRequest{Name: name})
		require.NoError(t, err)
	}

	page, err := fx.customers.List(context.Background(), dto.ListRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.EqualValues(t, 3, page.Pagination.TotalItems)
	require.Equal(t, 2, page.Pagination.TotalPages)
	require.Equal(t, "customers", fx.customers.Name())
	require.Zero(t, fx.cache.count())
}

func TestRendemen(t *testing.T) {
	require.True(t, dec("62.5").Equal(Rendemen(dec("800"), dec("500"))))
	require.True(t, dec("33.33").Equal(Rendemen(dec("3"), dec("1"))))
	require.True(t, Rendemen(decimal.Zero, dec("1")).IsZero())
}

func mustStock(t *testing.T, fx transactionFixture, item, level string) models.Stok {
	t.Helper()
	stock := models.Stok{
		JenisItem:     item,
		Jumlah:        dec(level),
		Satuan:        models.DefaultStockUnit,
		HargaRataRata: decimal.Zero,
		BatasMinimum:  dec("50"),
		Lokasi:        models.DefaultStockLocation,
	}
	require.NoError(t, fx.stock.Create(context.Background(), &stock))
	return stock
}
