package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/padidoc-go-api/internal/analytics"
	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/observability"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

// RecentTransactionLimit caps the merged transaction feed.
const RecentTransactionLimit = 20

// DashboardRepositories groups the data sources behind the dashboard.
type DashboardRepositories struct {
	Analytics   repository.AnalyticsRepository
	Stock       repository.StockRepository
	Pembelian   repository.PembelianRepository
	Produksi    repository.ProduksiRepository
	Penjualan   repository.PenjualanRepository
	Pengeluaran repository.PengeluaranRepository
}

// DashboardService aggregates the figures shown on the home screen.
type DashboardService interface {
	Metrics(ctx context.Context) (dto.DashboardMetrics, error)
	RecentTransactions(ctx context.Context) ([]dto.RecentTransaction, error)
	CashFlow(ctx context.Context, startingCapital *decimal.Decimal) (dto.CashFlowOverview, error)
}

type dashboardService struct {
	repos           DashboardRepositories
	cache           *redis.Client
	cacheTTL        time.Duration
	startingCapital decimal.Decimal
	location        *time.Location
	logger          zerolog.Logger
	now             func() time.Time
}

// NewDashboardService constructs the dashboard service. cache may be nil.
func NewDashboardService(repos DashboardRepositories, cache *redis.Client, ttl time.Duration, startingCapital decimal.Decimal, location *time.Location, logger zerolog.Logger) DashboardService {
	if location == nil {
		location = time.UTC
	}
	if startingCapital.IsZero() {
		startingCapital = analytics.DefaultStartingCapital
	}
	return &dashboardService{
		repos:           repos,
		cache:           cache,
		cacheTTL:        ttl,
		startingCapital: startingCapital,
		location:        location,
		logger:          logger.With().Str("component", "dashboard_service").Logger(),
		now:             time.Now,
	}
}

func (s *dashboardService) Metrics(ctx context.Context) (dto.DashboardMetrics, error) {
	now := s.now().In(s.location)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	today := repository.Period{From: start, To: start.AddDate(0, 0, 1)}

	purchased, err := s.repos.Analytics.Sum(ctx, &models.Pembelian{}, "jumlah", today)
	if err != nil {
		return dto.DashboardMetrics{}, err
	}
	produced, err := s.repos.Analytics.Sum(ctx, &models.Produksi{}, "jumlah_beras_output", today)
	if err != nil {
		return dto.DashboardMetrics{}, err
	}
	sold, err := s.repos.Analytics.Sum(ctx, &models.Penjualan{}, "jumlah", today)
	if err != nil {
		return dto.DashboardMetrics{}, err
	}

	stocks, err := s.repos.Stock.ListByItems(ctx, models.TrackedItems)
	if err != nil {
		return dto.DashboardMetrics{}, err
	}

	levels := make(map[string]decimal.Decimal, len(models.TrackedItems))
	for _, item := range models.TrackedItems {
		levels[item] = decimal.Zero
	}
	low := []string{}
	for _, stock := range stocks {
		levels[stock.JenisItem] = stock.Jumlah
		if stock.BelowMinimum() {
			low = append(low, stock.JenisItem)
		}
	}
	sort.Strings(low)

	return dto.DashboardMetrics{
		Date:           start.Format(time.DateOnly),
		PurchasedKg:    purchased,
		ProducedRiceKg: produced,
		SoldKg:         sold,
		Stock:          levels,
		LowStockItems:  low,
		GeneratedAt:    s.now().UTC(),
	}, nil
}

func (s *dashboardService) RecentTransactions(ctx context.Context) ([]dto.RecentTransaction, error) {
	latest := repository.ListFilter{Page: 1, PageSize: RecentTransactionLimit}

	purchases, _, err := s.repos.Pembelian.List(ctx, latest)
	if err != nil {
		return nil, err
	}
	sales, _, err := s.repos.Penjualan.List(ctx, latest)
	if err != nil {
		return nil, err
	}
	expenses, _, err := s.repos.Pengeluaran.List(ctx, latest)
	if err != nil {
		return nil, err
	}

	feed := make([]dto.RecentTransaction, 0, len(purchases)+len(sales)+len(expenses))
	for _, p := range purchases {
		feed = append(feed, dto.RecentTransaction{
			ID:          fmt.Sprintf("pembelian-%d", p.ID),
			Type:        "pembelian",
			Description: "Pembelian " + p.JenisGabah,
			AmountKg:    p.Jumlah,
			Value:       p.TotalHarga,
			Date:        p.Tanggal,
		})
	}
	for _, p := range sales {
		feed = append(feed, dto.RecentTransaction{
			ID:          fmt.Sprintf("penjualan-%d", p.ID),
			Type:        "penjualan",
			Description: "Penjualan " + p.JenisBeras,
			AmountKg:    p.Jumlah,
			Value:       p.TotalHarga,
			Date:        p.Tanggal,
		})
	}
	for _, p := range expenses {
		feed = append(feed, dto.RecentTransaction{
			ID:          fmt.Sprintf("pengeluaran-%d", p.ID),
			Type:        "pengeluaran",
			Description: p.Kategori + ": " + p.Deskripsi,
			AmountKg:    decimal.Zero,
			Value:       p.Jumlah,
			Date:        p.Tanggal,
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date.After(feed[j].Date)
	})
	if len(feed) > RecentTransactionLimit {
		feed = feed[:RecentTransactionLimit]
	}
	return feed, nil
}

func (s *dashboardService) CashFlow(ctx context.Context, startingCapital *decimal.Decimal) (dto.CashFlowOverview, error) {
	capital := s.startingCapital
	if startingCapital != nil {
		capital = *startingCapital
	}
	now := s.now().In(s.location)
	cacheKey := fmt.Sprintf("%s%s:%s", cashFlowKeyPrefix, now.Format(time.DateOnly), capital.String())

	tracer := otel.Tracer("github.com/noah-isme/padidoc-go-api/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.cash_flow")
	span.SetAttributes(attribute.String("dashboard.cache_key", cacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var overview dto.CashFlowOverview
			if unmarshalErr := json.Unmarshal([]byte(cached), &overview); unmarshalErr == nil {
				overview.CacheHit = true
				observability.DashboardCache().WithLabelValues("hit").Inc()
				span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
				return overview, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
			span.RecordError(err)
		}
		observability.DashboardCache().WithLabelValues("miss").Inc()
	}

	windowStart, windowEnd := analytics.Window(now)
	sales, purchases, expenses, err := s.cashEntries(ctx, windowStart, windowEnd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cash_entries_failed")
		return dto.CashFlowOverview{}, err
	}

	productionStart := analytics.WeekStart(now).AddDate(0, 0, -7*(analytics.ProductionWeeks-1))
	runs, _, err := s.repos.Produksi.List(ctx, repository.ListFilter{From: &productionStart, To: &windowEnd})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_production_failed")
		return dto.CashFlowOverview{}, err
	}

	overview := dto.CashFlowOverview{
		Summary:     analytics.ComputeWeeklyCashFlow(sales, purchases, expenses, capital, now),
		Daily:       analytics.GenerateDailySeries(sales, purchases, expenses, now),
		Production:  analytics.ComputeWeeklyProduction(productionRecords(runs), now),
		GeneratedAt: s.now().UTC(),
	}
	span.SetAttributes(
		attribute.Int("dashboard.sales", len(sales)),
		attribute.Int("dashboard.purchases", len(purchases)),
		attribute.Int("dashboard.expenses", len(expenses)),
		attribute.Int("dashboard.production_runs", len(runs)),
	)

	if s.cache != nil {
		payload, err := json.Marshal(overview)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
				span.RecordError(err)
			}
		}
	}

	return overview, nil
}

func (s *dashboardService) cashEntries(ctx context.Context, from, to time.Time) (sales, purchases, expenses []analytics.Entry, err error) {
	window := repository.ListFilter{From: &from, To: &to}

	sold, _, err := s.repos.Penjualan.List(ctx, window)
	if err != nil {
		return nil, nil, nil, err
	}
	bought, _, err := s.repos.Pembelian.List(ctx, window)
	if err != nil {
		return nil, nil, nil, err
	}
	spent, _, err := s.repos.Pengeluaran.List(ctx, window)
	if err != nil {
		return nil, nil, nil, err
	}

	for _, row := range sold {
		sales = append(sales, analytics.Entry{Date: row.Tanggal, Amount: row.TotalHarga})
	}
	for _, row := range bought {
		purchases = append(purchases, analytics.Entry{Date: row.Tanggal, Amount: row.TotalHarga})
	}
	for _, row := range spent {
		expenses = append(expenses, analytics.Entry{Date: row.Tanggal, Amount: row.Jumlah})
	}
	return sales, purchases, expenses, nil
}

func productionRecords(runs []models.Produksi) []analytics.ProductionRecord {
	records := make([]analytics.ProductionRecord, 0, len(runs))
	for _, run := range runs {
		records = append(records, analytics.ProductionRecord{
			Date:   run.Tanggal,
			Input:  nullDecimalValue(run.JumlahGabahInput),
			Rice:   nullDecimalValue(run.JumlahBerasOutput),
			Bran:   nullDecimalValue(run.JumlahKatul).Add(nullDecimalValue(run.JumlahDedak)),
			Broken: nullDecimalValue(run.JumlahMenir),
			Husk:   nullDecimalValue(run.JumlahSekam),
		})
	}
	return records
}
