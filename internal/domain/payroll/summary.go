package payroll

// Summarize totals a computed period and counts records that need a second
// look before the run is archived.
func Summarize(records []PayrollRecord) PeriodSummary {
	summary := PeriodSummary{EmployeeCount: len(records), Warnings: map[string]int{}}
	var earnings, deductions, net float64
	for _, rec := range records {
		earnings += rec.TotalEarnings.Float()
		deductions += rec.TotalDeductions.Float()
		net += rec.NetSalary.Float()
		for _, warning := range Warnings(rec) {
			summary.Warnings[warning]++
		}
	}
	summary.TotalEarnings = Amount(earnings)
	summary.TotalDeductions = Amount(deductions)
	summary.TotalNet = Amount(net)
	return summary
}

func Warnings(rec PayrollRecord) []string {
	var out []string
	switch {
	case !rec.NetSalary.IsFinite():
		out = append(out, WarningNonFiniteNet)
	case rec.NetSalary == 0:
		out = append(out, WarningZeroNet)
	}
	if rec.AbsenceDays > 0 {
		out = append(out, WarningUnpaidAbsence)
	}
	return out
}
