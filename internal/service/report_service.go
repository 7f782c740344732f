package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
	"github.com/noah-isme/padidoc-go-api/internal/repository"
)

// ErrUnknownDataset indicates an export was requested for an unsupported dataset.
var ErrUnknownDataset = errors.New("unknown report dataset")

// ReportDatasets lists the exportable datasets.
var ReportDatasets = []string{"pembelian", "produksi", "penjualan", "pengeluaran", "stok"}

// ReportService produces period summaries and CSV exports.
type ReportService interface {
	Summary(ctx context.Context, req dto.ReportRequest) (dto.ReportSummary, error)
	// Export writes dataset rows for the period as CSV and returns the suggested file name.
	Export(ctx context.Context, dataset string, req dto.ReportRequest, w io.Writer) (string, error)
}

type reportService struct {
	repos  DashboardRepositories
	logger zerolog.Logger
}

// NewReportService constructs the report service over the dashboard's data sources.
func NewReportService(repos DashboardRepositories, logger zerolog.Logger) ReportService {
	return &reportService{
		repos:  repos,
		logger: logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) Summary(ctx context.Context, req dto.ReportRequest) (dto.ReportSummary, error) {
	if req.To.Before(req.From) {
		return dto.ReportSummary{}, ErrInvalidDateRange
	}
	period := repository.Period{From: req.From, To: req.To}
	summary := dto.ReportSummary{From: req.From, To: req.To}

	sums := []struct {
		model  interface{}
		column string
		target *decimal.Decimal
	}{
		{&models.Pembelian{}, "total_harga", &summary.PurchaseValue},
		{&models.Pembelian{}, "jumlah", &summary.PurchaseKg},
		{&models.Penjualan{}, "total_harga", &summary.SalesValue},
		{&models.Penjualan{}, "jumlah", &summary.SalesKg},
		{&models.Pengeluaran{}, "jumlah", &summary.ExpenseTotal},
		{&models.Produksi{}, "jumlah_beras_output", &summary.RiceProducedKg},
	}
	for _, sum := range sums {
		value, err := s.repos.Analytics.Sum(ctx, sum.model, sum.column, period)
		if err != nil {
			return dto.ReportSummary{}, err
		}
		*sum.target = value
	}

	average, err := s.repos.Analytics.Average(ctx, &models.Produksi{}, "rendemen", period)
	if err != nil {
		return dto.ReportSummary{}, err
	}
	summary.AverageRendemen = average.Round(2)

	counts := []struct {
		model  interface{}
		target *int64
	}{
		{&models.Pembelian{}, &summary.PurchaseCount},
		{&models.Penjualan{}, &summary.SalesCount},
		{&models.Pengeluaran{}, &summary.ExpenseCount},
		{&models.Produksi{}, &summary.ProductionCount},
	}
	for _, count := range counts {
		value, err := s.repos.Analytics.Count(ctx, count.model, period)
		if err != nil {
			return dto.ReportSummary{}, err
		}
		*count.target = value
	}

	summary.Profit = summary.SalesValue.Sub(summary.PurchaseValue).Sub(summary.ExpenseTotal)
	return summary, nil
}

func (s *reportService) Export(ctx context.Context, dataset string, req dto.ReportRequest, w io.Writer) (string, error) {
	if req.To.Before(req.From) {
		return "", ErrInvalidDateRange
	}

	header, rows, err := s.rows(ctx, dataset, repository.ListFilter{From: &req.From, To: &req.To})
	if err != nil {
		return "", err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return "", err
	}
	if err := writer.WriteAll(rows); err != nil {
		return "", err
	}

	s.logger.Info().Str("dataset", dataset).Int("rows", len(rows)).Msg("report exported")
	name := fmt.Sprintf("%s_%s_%s.csv", dataset, req.From.Format("20060102"), req.To.Format("20060102"))
	return name, nil
}

func (s *reportService) rows(ctx context.Context, dataset string, window repository.ListFilter) ([]string, [][]string, error) {
	switch dataset {
	case "pembelian":
		records, _, err := s.repos.Pembelian.List(ctx, window)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				uintString(r.ID), csvDate(r.Tanggal), optionalID(r.SupplierID), r.JenisGabah, r.JenisBarang,
				r.Jumlah.StringFixed(2), r.HargaPerKg.StringFixed(2), r.TotalHarga.StringFixed(2),
				nullDecimalString(r.KadarAir), r.Kualitas, r.Status, r.MetodePembayaran, r.Catatan,
			})
		}
		return []string{"id", "tanggal", "supplier_id", "jenis_gabah", "jenis_barang", "jumlah", "harga_per_kg", "total_harga", "kadar_air", "kualitas", "status", "metode_pembayaran", "catatan"}, rows, nil

	case "produksi":
		records, _, err := s.repos.Produksi.List(ctx, window)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				uintString(r.ID), csvDate(r.Tanggal), r.JenisBerasProduced, r.SumberBahan,
				nullDecimalString(r.JumlahGabahInput), nullDecimalString(r.JumlahBerasOutput),
				nullDecimalString(r.JumlahDedak), nullDecimalString(r.JumlahMenir),
				nullDecimalString(r.JumlahKatul), nullDecimalString(r.JumlahSekam),
				nullDecimalString(r.Rendemen), r.Status, r.Catatan,
			})
		}
		return []string{"id", "tanggal", "jenis_beras_produced", "sumber_bahan", "jumlah_gabah_input", "jumlah_beras_output", "jumlah_dedak", "jumlah_menir", "jumlah_katul", "jumlah_sekam", "rendemen", "status", "catatan"}, rows, nil

	case "penjualan":
		records, _, err := s.repos.Penjualan.List(ctx, window)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				uintString(r.ID), csvDate(r.Tanggal), optionalID(r.CustomerID), r.JenisBeras, r.JenisBarang,
				r.Jumlah.StringFixed(2), r.HargaPerKg.StringFixed(2), r.TotalHarga.StringFixed(2),
				r.Status, r.MetodePembayaran, r.Catatan,
			})
		}
		return []string{"id", "tanggal", "customer_id", "jenis_beras", "jenis_barang", "jumlah", "harga_per_kg", "total_harga", "status", "metode_pembayaran", "catatan"}, rows, nil

	case "pengeluaran":
		records, _, err := s.repos.Pengeluaran.List(ctx, window)
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				uintString(r.ID), csvDate(r.Tanggal), r.Kategori, r.Deskripsi, r.Jumlah.StringFixed(2), r.Catatan,
			})
		}
		return []string{"id", "tanggal", "kategori", "deskripsi", "jumlah", "catatan"}, rows, nil

	case "stok":
		records, _, err := s.repos.Stock.List(ctx, repository.ListFilter{})
		if err != nil {
			return nil, nil, err
		}
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				uintString(r.ID), r.JenisItem, r.Jumlah.StringFixed(2), r.Satuan,
				r.HargaRataRata.StringFixed(2), r.BatasMinimum.StringFixed(2), r.Lokasi,
			})
		}
		return []string{"id", "jenis_item", "jumlah", "satuan", "harga_rata_rata", "batas_minimum", "lokasi"}, rows, nil
	}

	return nil, nil, ErrUnknownDataset
}

func csvDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func uintString(value uint) string {
	return strconv.FormatUint(uint64(value), 10)
}

func optionalID(value *uint) string {
	if value == nil {
		return ""
	}
	return uintString(*value)
}

func nullDecimalString(value decimal.NullDecimal) string {
	if !value.Valid {
		return ""
	}
	return value.Decimal.StringFixed(2)
}
