package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/padidoc-go-api/internal/analytics"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

var dashboardNow = time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)

func dashboardRepos(db *gorm.DB) DashboardRepositories {
	return DashboardRepositories{
		Analytics:   repository.NewAnalyticsRepository(db),
		Stock:       repository.NewStockRepository(db),
		Pembelian:   repository.NewPembelianRepository(db),
		Produksi:    repository.NewProduksiRepository(db),
		Penjualan:   repository.NewPenjualanRepository(db),
		Pengeluaran: repository.NewPengeluaranRepository(db),
	}
}

func seedDashboardData(t *testing.T, repos DashboardRepositories) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, repos.Pembelian.Create(ctx, &models.Pembelian{
		Tanggal: dashboardNow.Add(-2 * time.Hour), JenisGabah: "IR64", JenisBarang: models.ItemGabah,
		Jumlah: dec("1000"), HargaPerKg: dec("5000"), TotalHarga: dec("5000000"),
	}))
	require.NoError(t, repos.Penjualan.Create(ctx, &models.Penjualan{
		Tanggal: dashboardNow.AddDate(0, 0, -1), JenisBeras: "Premium", JenisBarang: models.ItemBeras,
		Jumlah: dec("200"), HargaPerKg: dec("12000"), TotalHarga: dec("2400000"),
	}))
	require.NoError(t, repos.Penjualan.Create(ctx, &models.Penjualan{
		Tanggal: dashboardNow.AddDate(0, 0, -14), JenisBeras: "Medium", JenisBarang: models.ItemBeras,
		Jumlah: dec("100"), HargaPerKg: dec("10000"), TotalHarga: dec("1000000"),
	}))
	require.NoError(t, repos.Pengeluaran.Create(ctx, &models.Pengeluaran{
		Tanggal: dashboardNow.AddDate(0, 0, -5), Kategori: "Listrik", Deskripsi: "Tagihan PLN", Jumlah: dec("500000"),
	}))
	require.NoError(t, repos.Produksi.Create(ctx, &models.Produksi{
		Tanggal: dashboardNow.Add(-time.Hour), JenisBerasProduced: "Premium",
		JumlahGabahInput:  decimal.NewNullDecimal(dec("800")),
		JumlahBerasOutput: decimal.NewNullDecimal(dec("520")),
		JumlahKatul:       decimal.NewNullDecimal(dec("60")),
		JumlahDedak:       decimal.NewNullDecimal(dec("10")),
	}))
	require.NoError(t, repos.Produksi.Create(ctx, &models.Produksi{
		Tanggal: dashboardNow.AddDate(0, 0, -15), JenisBerasProduced: "Medium",
		JumlahGabahInput:  decimal.NewNullDecimal(dec("100")),
		JumlahBerasOutput: decimal.NewNullDecimal(dec("60")),
	}))
	require.NoError(t, repos.Stock.Create(ctx, &models.Stok{
		JenisItem: models.ItemBeras, Jumlah: dec("30"), Satuan: "kg", BatasMinimum: dec("50"),
	}))
	require.NoError(t, repos.Stock.Create(ctx, &models.Stok{
		JenisItem: models.ItemGabah, Jumlah: dec("1000"), Satuan: "kg", BatasMinimum: dec("100"),
	}))
}

func newDashboardService(t *testing.T, cache *redis.Client) (DashboardService, DashboardRepositories) {
	t.Helper()
	repos := dashboardRepos(setupServiceDB(t))
	seedDashboardData(t, repos)

	svc := NewDashboardService(repos, cache, time.Minute, decimal.Zero, time.UTC, testLogger())
	svc.(*dashboardService).now = func() time.Time { return dashboardNow }
	return svc, repos
}

func TestDashboardServiceMetrics(t *testing.T) {
	svc, _ := newDashboardService(t, nil)

	metrics, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2024-05-15", metrics.Date)
	require.True(t, dec("1000").Equal(metrics.PurchasedKg))
	require.True(t, dec("520").Equal(metrics.ProducedRiceKg))
	require.True(t, metrics.SoldKg.IsZero())
	require.Len(t, metrics.Stock, len(models.TrackedItems))
	require.True(t, dec("30").Equal(metrics.Stock[models.ItemBeras]))
	require.True(t, metrics.Stock[models.ItemSekam].IsZero())
	require.Equal(t, []string{models.ItemBeras}, metrics.LowStockItems)
}

func TestDashboardServiceRecentTransactions(t *testing.T) {
	svc, _ := newDashboardService(t, nil)

	feed, err := svc.RecentTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, feed, 4)
	require.Equal(t, "pembelian", feed[0].Type)
	require.Equal(t, "penjualan", feed[1].Type)
	require.Equal(t, "pengeluaran", feed[2].Type)
	require.Equal(t, "Listrik: Tagihan PLN", feed[2].Description)
	require.Equal(t, "penjualan", feed[3].Type)
	require.Regexp(t, `^pembelian-\d+$`, feed[0].ID)
}

func TestDashboardServiceCashFlowCaching(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	svc, repos := newDashboardService(t, client)

	overview, err := svc.CashFlow(context.Background(), nil)
	require.NoError(t, err)
	require.False(t, overview.CacheHit)
	require.True(t, analytics.DefaultStartingCapital.Equal(overview.Summary.StartingCapital))
	require.True(t, dec("2400000").Equal(overview.Summary.Inflow))
	require.True(t, dec("5500000").Equal(overview.Summary.Outflow))
	require.True(t, dec("46900000").Equal(overview.Summary.EndingBalance))
	require.Equal(t, analytics.StatusDeficit, overview.Summary.Status)
	require.Len(t, overview.Daily, analytics.WindowDays)
	require.Len(t, overview.Production, analytics.ProductionWeeks)

	current := overview.Production[len(overview.Production)-1]
	require.Equal(t, 1, current.Records)
	require.True(t, dec("70").Equal(current.Bran))
	require.Equal(t, 1, overview.Production[1].Records)

	require.NoError(t, repos.Pengeluaran.Create(context.Background(), &models.Pengeluaran{
		Tanggal: dashboardNow.Add(-time.Hour), Kategori: "Solar", Deskripsi: "BBM", Jumlah: dec("100000"),
	}))

	cached, err := svc.CashFlow(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.True(t, overview.Summary.Outflow.Equal(cached.Summary.Outflow))

	capital := dec("10000000")
	custom, err := svc.CashFlow(context.Background(), &capital)
	require.NoError(t, err)
	require.False(t, custom.CacheHit)
	require.True(t, dec("5600000").Equal(custom.Summary.Outflow))
	require.True(t, dec("6800000").Equal(custom.Summary.EndingBalance))
}

func TestCashFlowInvalidatorDropsCachedOverviews(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	ctx := context.Background()
	svc, repos := newDashboardService(t, client)
	capital := dec("10000000")

	_, err = svc.CashFlow(ctx, nil)
	require.NoError(t, err)
	_, err = svc.CashFlow(ctx, &capital)
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, "session:42", "keep", 0).Err())

	require.NoError(t, repos.Pengeluaran.Create(ctx, &models.Pengeluaran{
		Tanggal: dashboardNow.Add(-time.Hour), Kategori: "Solar", Deskripsi: "BBM", Jumlah: dec("100000"),
	}))
	NewCashFlowInvalidator(client, testLogger()).Invalidate(ctx)

	keys, err := client.Keys(ctx, cashFlowKeyPrefix+"*").Result()
	require.NoError(t, err)
	require.Empty(t, keys)
	require.True(t, server.Exists("session:42"))

	fresh, err := svc.CashFlow(ctx, nil)
	require.NoError(t, err)
	require.False(t, fresh.CacheHit)
	require.True(t, dec("5600000").Equal(fresh.Summary.Outflow))
}

func TestCashFlowInvalidatorWithoutRedisIsNoop(t *testing.T) {
	require.NotPanics(t, func() {
		NewCashFlowInvalidator(nil, testLogger()).Invalidate(context.Background())
	})
}
