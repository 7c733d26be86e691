package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTimeDiffMinutes(t *testing.T) {
	tests := []struct {
		name   string
		t1, t2 string
		want   int
		ok     bool
	}{
		{name: "late", t1: "08:20", t2: "08:00", want: 20, ok: true},
		{name: "early", t1: "07:45", t2: "08:00", want: -15, ok: true},
		{name: "seconds ignored", t1: "16:30:59", t2: "16:00", want: 30, ok: true},
		{name: "no midnight wrap", t1: "01:00", t2: "22:00", want: -21 * 60, ok: true},
		{name: "empty", t1: "", t2: "08:00"},
		{name: "not a time", t1: "8am", t2: "08:00"},
		{name: "negative hour", t1: "-1:00", t2: "08:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CalculateTimeDiffMinutes(tt.t1, tt.t2)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriodDaysIsInclusive(t *testing.T) {
	assert.Equal(t, 1, PeriodDays(date(t, "2024-01-01"), date(t, "2024-01-01")))
	assert.Equal(t, 31, PeriodDays(date(t, "2024-01-01"), date(t, "2024-01-31")))
	assert.Equal(t, 7, PeriodDays(date(t, "2024-03-29"), date(t, "2024-04-04")))

	withClock := time.Date(2024, 1, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 31, PeriodDays(date(t, "2024-01-01"), withClock))
}

func TestOverlapDays(t *testing.T) {
	periodStart, periodEnd := date(t, "2024-01-01"), date(t, "2024-01-31")

	assert.Equal(t, 7, OverlapDays(date(t, "2024-01-25"), date(t, "2024-02-05"), periodStart, periodEnd))
	assert.Equal(t, 31, OverlapDays(date(t, "2023-12-01"), date(t, "2024-03-01"), periodStart, periodEnd))
	assert.Equal(t, 1, OverlapDays(date(t, "2024-01-31"), date(t, "2024-01-31"), periodStart, periodEnd))
	assert.Zero(t, OverlapDays(date(t, "2024-02-01"), date(t, "2024-02-05"), periodStart, periodEnd))
	assert.Zero(t, OverlapDays(date(t, "2024-01-10"), date(t, "2024-01-05"), periodStart, periodEnd))
}

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange(12, 2023)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-01", FormatDate(start))
	assert.Equal(t, "2023-12-31", FormatDate(end))

	_, _, err = MonthRange(0, 2023)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestInRangeComparesISODates(t *testing.T) {
	assert.True(t, inRange("2024-01-01", "2024-01-01", "2024-01-31"))
	assert.True(t, inRange("2024-01-31", "2024-01-01", "2024-01-31"))
	assert.False(t, inRange("2024-02-01", "2024-01-01", "2024-01-31"))
	assert.False(t, inRange("", "2024-01-01", "2024-01-31"))
}

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, float64(4808), roundCurrency(4807.69))
	assert.Equal(t, float64(3), roundCurrency(2.5))
	assert.Equal(t, float64(2), roundCurrency(2.49))
	assert.Equal(t, float64(-2), roundCurrency(-2.5))
	assert.Equal(t, float64(0), roundCurrency(0))
}
