package analytics

import (
	"fmt"
	"time"
)

var shortWeekdays = [...]string{"Min", "Sen", "Sel", "Rab", "Kam", "Jum", "Sab"}

var shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// dayLabel renders "Sen 14".
func dayLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", shortWeekdays[t.Weekday()], t.Day())
}

// weekLabel renders "12 Mei".
func weekLabel(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), shortMonths[t.Month()-1])
}
