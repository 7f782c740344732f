package dto

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationMeta derives page counts from a total.
func NewPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// ListResponse wraps a page of items.
type ListResponse[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// ListRequest carries paging and an optional date range for list endpoints.
type ListRequest struct {
	Page     int
	PageSize int
	From     *time.Time
	To       *time.Time
}

var dateLocation = time.UTC

// SetDateLocation sets the zone used for date-only input. Call it once at startup.
func SetDateLocation(loc *time.Location) {
	if loc != nil {
		dateLocation = loc
	}
}

// DateLocation returns the zone used for date-only input.
func DateLocation() *time.Location {
	return dateLocation
}

// ParseDate accepts RFC 3339 timestamps or YYYY-MM-DD calendar dates.
// Calendar dates resolve to local midnight in the configured zone.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.ParseInLocation(time.DateOnly, value, dateLocation)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	return parsed, nil
}

// Date is a request date that accepts both timestamp and calendar-date forms.
type Date struct {
	time.Time
}

// NewDate wraps t.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// Timestamp exposes the wrapped time to the validator.
func (d Date) Timestamp() time.Time {
	return d.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// OptionalDate returns nil for zero dates.
func OptionalDate(d *Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
