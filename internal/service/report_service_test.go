package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/padidoc-go-api/internal/dto"
	"github.com/noah-isme/padidoc-go-api/internal/models"
)

func TestReportServiceSummary(t *testing.T) {
	repos := dashboardRepos(setupServiceDB(t))
	seedDashboardData(t, repos)
	require.NoError(t, repos.Produksi.Create(context.Background(), &models.Produksi{
		Tanggal: dashboardNow.AddDate(0, 0, -2), JenisBerasProduced: "Premium",
		JumlahGabahInput:  decimal.NewNullDecimal(dec("100")),
		JumlahBerasOutput: decimal.NewNullDecimal(dec("60")),
		Rendemen:          decimal.NewNullDecimal(dec("60")),
	}))
	require.NoError(t, repos.Produksi.Create(context.Background(), &models.Produksi{
		Tanggal: dashboardNow.AddDate(0, 0, -3), JenisBerasProduced: "Premium",
		JumlahGabahInput:  decimal.NewNullDecimal(dec("100")),
		JumlahBerasOutput: decimal.NewNullDecimal(dec("65")),
		Rendemen:          decimal.NewNullDecimal(dec("65")),
	}))
	svc := NewReportService(repos, testLogger())

	from := time.Date(2024, time.May, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.May, 16, 0, 0, 0, 0, time.UTC)
	summary, err := svc.Summary(context.Background(), dto.ReportRequest{From: from, To: to})
	require.NoError(t, err)
	require.True(t, dec("5000000").Equal(summary.PurchaseValue))
	require.True(t, dec("1000").Equal(summary.PurchaseKg))
	require.True(t, dec("2400000").Equal(summary.SalesValue))
	require.True(t, dec("500000").Equal(summary.ExpenseTotal))
	require.True(t, dec("-3100000").Equal(summary.Profit))
	require.True(t, dec("645").Equal(summary.RiceProducedKg))
	require.True(t, dec("62.5").Equal(summary.AverageRendemen))
	require.EqualValues(t, 1, summary.PurchaseCount)
	require.EqualValues(t, 1, summary.SalesCount)
	require.EqualValues(t, 1, summary.ExpenseCount)
	require.EqualValues(t, 3, summary.ProductionCount)

	_, err = svc.Summary(context.Background(), dto.ReportRequest{From: to, To: from})
	require.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestReportServiceExport(t *testing.T) {
	repos := dashboardRepos(setupServiceDB(t))
	seedDashboardData(t, repos)
	svc := NewReportService(repos, testLogger())

	req := dto.ReportRequest{
		From: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, time.May, 16, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	name, err := svc.Export(context.Background(), "penjualan", req, &buf)
	require.NoError(t, err)
	require.Equal(t, "penjualan_20240501_20240516.csv", name)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "id", records[0][0])
	require.Equal(t, "2024-05-14", records[1][1])
	require.Equal(t, "2400000.00", records[1][7])

	buf.Reset()
	_, err = svc.Export(context.Background(), "stok", req, &buf)
	require.NoError(t, err)
	records, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	_, err = svc.Export(context.Background(), "users", req, &buf)
	require.ErrorIs(t, err, ErrUnknownDataset)
}
