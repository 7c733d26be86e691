package payroll

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

// MinutesOfDay parses a 24-hour "HH:MM" wall-clock time into minutes since
// midnight. Seconds, if present, are ignored.
func MinutesOfDay(value string) (int, bool) {
	hours, rest, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found {
		return 0, false
	}
	minutes, _, _ := strings.Cut(rest, ":")
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 {
		return 0, false
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 {
		return 0, false
	}
	return h*60 + m, true
}

// CalculateTimeDiffMinutes returns time1 - time2 in minutes. There is no
// midnight wrap: a check-out after midnight yields a negative difference.
func CalculateTimeDiffMinutes(time1, time2 string) (int, bool) {
	a, ok := MinutesOfDay(time1)
	if !ok {
		return 0, false
	}
	b, ok := MinutesOfDay(time2)
	if !ok {
		return 0, false
	}
	return a - b, true
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PeriodDays returns the inclusive number of calendar days in [start, end].
func PeriodDays(start, end time.Time) int {
	diff := dateOnly(end).Sub(dateOnly(start))
	return int(math.Ceil(float64(diff)/float64(day))) + 1
}

// OverlapDays returns the inclusive number of days shared by [aStart, aEnd]
// and [bStart, bEnd], or zero when they are disjoint.
func OverlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := dateOnly(aStart)
	if s := dateOnly(bStart); s.After(start) {
		start = s
	}
	end := dateOnly(aEnd)
	if e := dateOnly(bEnd); e.Before(end) {
		end = e
	}
	if end.Before(start) {
		return 0
	}
	return PeriodDays(start, end)
}

// MonthRange returns the first and last calendar day of month/year.
func MonthRange(month, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1), nil
}

func inRange(date, start, end string) bool {
	return date >= start && date <= end
}

// roundCurrency rounds half up, so -2.5 becomes -2 rather than -3.
func roundCurrency(value float64) float64 {
	floor := math.Floor(value)
	if value-floor >= 0.5 {
		floor++
	}
	return floor
}
