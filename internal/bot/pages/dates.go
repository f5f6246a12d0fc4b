package pages

import (
	"fmt"
	"time"

	jnow "github.com/jinzhu/now"
)

// ProcessingDate is the date the monthly pages are named after: the day after now.
func ProcessingDate(now time.Time) time.Time {
	return now.AddDate(0, 0, 1)
}

// IsLastDayOfMonth reports whether tomorrow falls in another month.
func IsLastDayOfMonth(now time.Time) bool {
	return now.Month() != ProcessingDate(now).Month()
}

// NextMonth returns midnight on the first day of the month after t.
func NextMonth(t time.Time) time.Time {
	return jnow.With(t).BeginningOfMonth().AddDate(0, 1, 0)
}

// MonthToken formats t as YYYYMM.
func MonthToken(t time.Time) string {
	return fmt.Sprintf("%d%02d", t.Year(), int(t.Month()))
}
