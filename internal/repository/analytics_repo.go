package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Period is a half-open date range [From, To) over a table's record date.
type Period struct {
	From time.Time
	To   time.Time
}

// AnalyticsRepository supplies aggregate figures for the dashboard and reports.
type AnalyticsRepository interface {
	Sum(ctx context.Context, model interface{}, column string, period Period) (decimal.Decimal, error)
	Average(ctx context.Context, model interface{}, column string, period Period) (decimal.Decimal, error)
	Count(ctx context.Context, model interface{}, period Period) (int64, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository constructs the analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) Sum(ctx context.Context, model interface{}, column string, period Period) (decimal.Decimal, error) {
	return r.aggregate(ctx, model, "COALESCE(SUM("+column+"), 0)", period)
}

func (r *analyticsRepository) Average(ctx context.Context, model interface{}, column string, period Period) (decimal.Decimal, error) {
	return r.aggregate(ctx, model, "AVG("+column+")", period)
}

func (r *analyticsRepository) Count(ctx context.Context, model interface{}, period Period) (int64, error) {
	var count int64
	err := r.inPeriod(ctx, model, period).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) aggregate(ctx context.Context, model interface{}, expression string, period Period) (decimal.Decimal, error) {
	var value decimal.NullDecimal
	row := r.inPeriod(ctx, model, period).Select(expression).Row()
	if err := row.Scan(&value); err != nil {
		return decimal.Zero, err
	}
	if !value.Valid {
		return decimal.Zero, nil
	}
	return value.Decimal, nil
}

func (r *analyticsRepository) inPeriod(ctx context.Context, model interface{}, period Period) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(model).
		Where("tanggal >= ? AND tanggal < ?", period.From, period.To)
}
