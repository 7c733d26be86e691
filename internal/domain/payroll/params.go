package payroll

// params are the effective values for one employee after applying their
// overrides on top of the company settings.
type params struct {
	cycleDays       float64
	hoursPerDay     float64
	dailyRate       float64
	hourlyRate      float64
	shiftIn         string
	shiftOut        string
	graceMinutes    int
	overtimeRate    float64
	deductionRate   float64
	minDaysToDeduct int
}

func resolveParams(emp Employee, settings CompanySettings) params {
	p := params{
		shiftIn:         settings.OfficialCheckIn,
		shiftOut:        settings.OfficialCheckOut,
		graceMinutes:    settings.GracePeriodMinutes,
		overtimeRate:    settings.OvertimeHourRate,
		deductionRate:   1,
		hoursPerDay:     DefaultHoursPerDay,
		minDaysToDeduct: MinDaysToDeductMonthly,
	}

	if settings.SalaryCycle == SalaryCycleWeekly {
		p.cycleDays = orDefault(settings.WeeklyCycleDays, DefaultWeeklyCycleDays)
		p.minDaysToDeduct = MinDaysToDeductWeekly
	} else {
		p.cycleDays = orDefault(settings.MonthlyCycleDays, DefaultMonthlyCycleDays)
	}
	if emp.WorkDaysPerCycle != nil {
		p.cycleDays = *emp.WorkDaysPerCycle
	}
	if emp.WorkingHoursPerDay != nil {
		p.hoursPerDay = *emp.WorkingHoursPerDay
	}
	if emp.CustomOvertimeRate != nil {
		p.overtimeRate = *emp.CustomOvertimeRate
	}
	if emp.CustomDeductionRate != nil {
		p.deductionRate = *emp.CustomDeductionRate
	}
	if emp.CustomCheckIn != "" {
		p.shiftIn = emp.CustomCheckIn
	}
	if emp.CustomCheckOut != "" {
		p.shiftOut = emp.CustomCheckOut
	}

	// Zero divisors are left alone and surface as Inf/NaN in the record.
	p.dailyRate = emp.BaseSalary / p.cycleDays
	p.hourlyRate = p.dailyRate / p.hoursPerDay
	return p
}

func orDefault(value, fallback float64) float64 {
	if value > 0 {
		return value
	}
	return fallback
}
