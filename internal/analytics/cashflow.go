// Package analytics holds the pure aggregation rules behind the dashboard charts.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// WindowDays is the length of the trailing cash-flow window, today included.
const WindowDays = 7

// DefaultStartingCapital is used when no starting capital is configured.
var DefaultStartingCapital = decimal.NewFromInt(50_000_000)

// Status qualifies the net flow of a window.
type Status string

const (
	StatusSurplus   Status = "surplus"
	StatusDeficit   Status = "deficit"
	StatusBreakeven Status = "breakeven"
)

// Entry is a dated monetary amount taken from a sale, purchase or expense.
type Entry struct {
	Date   time.Time
	Amount decimal.Decimal
}

// CashFlowSummary is the result of ComputeWeeklyCashFlow.
type CashFlowSummary struct {
	StartingCapital decimal.Decimal `json:"starting_capital"`
	Inflow          decimal.Decimal `json:"inflow"`
	Outflow         decimal.Decimal `json:"outflow"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
	NetFlow         decimal.Decimal `json:"net_flow"`
	Status          Status          `json:"status"`
	WindowStart     time.Time       `json:"window_start"`
	WindowEnd       time.Time       `json:"window_end"`
}

// DailyCashFlowPoint is one day of the charted series.
type DailyCashFlowPoint struct {
	Label   string          `json:"label"`
	Date    string          `json:"date"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// Window returns the trailing seven-day range ending today in now's location.
// The end is exclusive: local midnight after today.
func Window(now time.Time) (time.Time, time.Time) {
	today := startOfDay(now)
	return today.AddDate(0, 0, -(WindowDays - 1)), today.AddDate(0, 0, 1)
}

// ComputeWeeklyCashFlow sums sales against purchases and expenses over the trailing window.
// Entries dated after today or without a date are ignored.
func ComputeWeeklyCashFlow(sales, purchases, expenses []Entry, startingCapital decimal.Decimal, now time.Time) CashFlowSummary {
	start, end := Window(now)
	within := func(entry Entry) bool {
		return !entry.Date.IsZero() && !entry.Date.Before(start) && entry.Date.Before(end)
	}

	inflow := sumWhere(sales, within)
	outflow := sumWhere(purchases, within).Add(sumWhere(expenses, within))
	net := inflow.Sub(outflow)

	return CashFlowSummary{
		StartingCapital: startingCapital,
		Inflow:          inflow,
		Outflow:         outflow,
		EndingBalance:   startingCapital.Add(net),
		NetFlow:         net,
		Status:          classify(net),
		WindowStart:     start,
		WindowEnd:       end,
	}
}

// GenerateDailySeries returns exactly seven points, oldest first, one per calendar day.
func GenerateDailySeries(sales, purchases, expenses []Entry, now time.Time) []DailyCashFlowPoint {
	start, _ := Window(now)
	points := make([]DailyCashFlowPoint, WindowDays)
	index := make(map[string]int, WindowDays)

	for i := 0; i < WindowDays; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format(time.DateOnly)
		points[i] = DailyCashFlowPoint{
			Label:   dayLabel(day),
			Date:    key,
			Inflow:  decimal.Zero,
			Outflow: decimal.Zero,
			Net:     decimal.Zero,
		}
		index[key] = i
	}

	bucket := func(entry Entry) (int, bool) {
		if entry.Date.IsZero() {
			return 0, false
		}
		i, ok := index[entry.Date.In(now.Location()).Format(time.DateOnly)]
		return i, ok
	}

	for _, entry := range sales {
		if i, ok := bucket(entry); ok {
			points[i].Inflow = points[i].Inflow.Add(entry.Amount)
		}
	}
	for _, group := range [][]Entry{purchases, expenses} {
		for _, entry := range group {
			if i, ok := bucket(entry); ok {
				points[i].Outflow = points[i].Outflow.Add(entry.Amount)
			}
		}
	}

	for i := range points {
		points[i].Net = points[i].Inflow.Sub(points[i].Outflow)
	}
	return points
}

func sumWhere(entries []Entry, keep func(Entry) bool) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		if keep(entry) {
			total = total.Add(entry.Amount)
		}
	}
	return total
}

func classify(net decimal.Decimal) Status {
	switch net.Sign() {
	case 1:
		return StatusSurplus
	case -1:
		return StatusDeficit
	default:
		return StatusBreakeven
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
