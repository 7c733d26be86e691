package payroll

import (
	"io"

	"github.com/gocarina/gocsv"
)

type RegisterRow struct {
	EmployeeID      string `csv:"employee_id"`
	EmployeeName    string `csv:"employee_name"`
	PeriodStart     string `csv:"period_start"`
	PeriodEnd       string `csv:"period_end"`
	WorkingDays     int    `csv:"working_days"`
	AbsenceDays     int    `csv:"absence_days"`
	TotalEarnings   Amount `csv:"total_earnings"`
	TotalDeductions Amount `csv:"total_deductions"`
	NetSalary       Amount `csv:"net_salary"`
}

func RegisterRows(records []PayrollRecord) []RegisterRow {
	rows := make([]RegisterRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, RegisterRow{
			EmployeeID:      rec.EmployeeID,
			EmployeeName:    rec.EmployeeName,
			PeriodStart:     rec.PeriodStart,
			PeriodEnd:       rec.PeriodEnd,
			WorkingDays:     rec.WorkingDays,
			AbsenceDays:     rec.AbsenceDays,
			TotalEarnings:   rec.TotalEarnings,
			TotalDeductions: rec.TotalDeductions,
			NetSalary:       rec.NetSalary,
		})
	}
	return rows
}

// WriteRegisterCSV writes a header line followed by one row per record.
func WriteRegisterCSV(w io.Writer, records []PayrollRecord) error {
	return gocsv.Marshal(RegisterRows(records), w)
}
