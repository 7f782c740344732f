package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/padidoc-go-api/internal/analytics"
)

// DashboardMetrics summarises today's activity and current stock.
type DashboardMetrics struct {
	Date           string                     `json:"date"`
	PurchasedKg    decimal.Decimal            `json:"purchased_kg"`
	ProducedRiceKg decimal.Decimal            `json:"produced_rice_kg"`
	SoldKg         decimal.Decimal            `json:"sold_kg"`
	Stock          map[string]decimal.Decimal `json:"stock"`
	LowStockItems  []string                   `json:"low_stock_items"`
	GeneratedAt    time.Time                  `json:"generated_at"`
}

// RecentTransaction is one row of the merged transaction feed.
type RecentTransaction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	AmountKg    decimal.Decimal `json:"amount_kg"`
	Value       decimal.Decimal `json:"value"`
	Date        time.Time       `json:"date"`
}

// CashFlowOverview combines the weekly summary with the chart series.
type CashFlowOverview struct {
	Summary     analytics.CashFlowSummary      `json:"summary"`
	Daily       []analytics.DailyCashFlowPoint `json:"daily"`
	Production  []analytics.WeeklyProduction   `json:"production"`
	GeneratedAt time.Time                      `json:"generated_at"`
	CacheHit    bool                           `json:"cache_hit"`
}

// ReportRequest selects the report period.
type ReportRequest struct {
	From time.Time
	To   time.Time
}

// ReportSummary totals the business over a period.
type ReportSummary struct {
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	PurchaseValue   decimal.Decimal `json:"purchase_value"`
	PurchaseKg      decimal.Decimal `json:"purchase_kg"`
	SalesValue      decimal.Decimal `json:"sales_value"`
	SalesKg         decimal.Decimal `json:"sales_kg"`
	ExpenseTotal    decimal.Decimal `json:"expense_total"`
	Profit          decimal.Decimal `json:"profit"`
	RiceProducedKg  decimal.Decimal `json:"rice_produced_kg"`
	AverageRendemen decimal.Decimal `json:"average_rendemen"`
	PurchaseCount   int64           `json:"purchase_count"`
	SalesCount      int64           `json:"sales_count"`
	ExpenseCount    int64           `json:"expense_count"`
	ProductionCount int64           `json:"production_count"`
}
