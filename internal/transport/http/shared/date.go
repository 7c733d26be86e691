package shared

import (
	"time"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
)

// ParseDate accepts YYYY-MM-DD only; stored dates are compared as strings,
// so any other shape would sort incorrectly.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(payroll.DateLayout, value)
}
