package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ProductionWeeks is the number of weekly buckets reported.
const ProductionWeeks = 4

// ProductionRecord is the aggregator's view of one milling run.
type ProductionRecord struct {
	Date   time.Time
	Input  decimal.Decimal
	Rice   decimal.Decimal
	Bran   decimal.Decimal
	Broken decimal.Decimal
	Husk   decimal.Decimal
}

// WeeklyProduction totals one Sunday-start week.
type WeeklyProduction struct {
	WeekStart time.Time       `json:"week_start"`
	Label     string          `json:"label"`
	Records   int             `json:"records"`
	Input     decimal.Decimal `json:"input"`
	Rice      decimal.Decimal `json:"rice"`
	Bran      decimal.Decimal `json:"bran"`
	Broken    decimal.Decimal `json:"broken"`
	Husk      decimal.Decimal `json:"husk"`
}

// WeekStart returns local midnight of the Sunday that opens t's week.
func WeekStart(t time.Time) time.Time {
	day := startOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// ComputeWeeklyProduction buckets records into the four calendar weeks ending with now's week.
// Weeks without records are present with zero totals.
func ComputeWeeklyProduction(records []ProductionRecord, now time.Time) []WeeklyProduction {
	current := WeekStart(now)
	buckets := make(map[string]*WeeklyProduction, ProductionWeeks)
	for i := 0; i < ProductionWeeks; i++ {
		start := current.AddDate(0, 0, -7*i)
		buckets[start.Format(time.DateOnly)] = &WeeklyProduction{
			WeekStart: start,
			Label:     weekLabel(start),
			Input:     decimal.Zero,
			Rice:      decimal.Zero,
			Bran:      decimal.Zero,
			Broken:    decimal.Zero,
			Husk:      decimal.Zero,
		}
	}

	for _, record := range records {
		if record.Date.IsZero() {
			continue
		}
		bucket, ok := buckets[WeekStart(record.Date.In(now.Location())).Format(time.DateOnly)]
		if !ok {
			continue
		}
		bucket.Records++
		bucket.Input = bucket.Input.Add(record.Input)
		bucket.Rice = bucket.Rice.Add(record.Rice)
		bucket.Bran = bucket.Bran.Add(record.Bran)
		bucket.Broken = bucket.Broken.Add(record.Broken)
		bucket.Husk = bucket.Husk.Add(record.Husk)
	}

	weeks := make([]WeeklyProduction, 0, len(buckets))
	for _, bucket := range buckets {
		weeks = append(weeks, *bucket)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekStart.Before(weeks[j].WeekStart)
	})
	return weeks
}
