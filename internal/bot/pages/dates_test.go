package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsLastDayOfMonth(t *testing.T) {
	testCases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"mid month", date(2023, time.March, 15), false},
		{"31 january", date(2023, time.January, 31), true},
		{"28 february", date(2023, time.February, 28), true},
		{"28 february leap year", date(2024, time.February, 28), false},
		{"29 february leap year", date(2024, time.February, 29), true},
		{"30 april", date(2023, time.April, 30), true},
		{"31 december", date(2023, time.December, 31), true},
		{"first of month", date(2023, time.June, 1), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsLastDayOfMonth(tc.now))
		})
	}
}

func TestProcessingDate_RollsOverYear(t *testing.T) {
	got := ProcessingDate(time.Date(2023, time.December, 31, 23, 30, 0, 0, time.UTC))
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.January, got.Month())
	assert.Equal(t, 1, got.Day())
}

func TestNextMonthAndToken(t *testing.T) {
	assert.Equal(t, "202302", MonthToken(NextMonth(date(2023, time.January, 31))))
	assert.Equal(t, "202401", MonthToken(NextMonth(date(2023, time.December, 1))))
	assert.Equal(t, "202309", MonthToken(date(2023, time.September, 1)))

	next := NextMonth(date(2023, time.January, 31))
	assert.Equal(t, 1, next.Day())
}
