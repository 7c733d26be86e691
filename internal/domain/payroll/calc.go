package payroll

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// window is an inclusive payroll period in both date and ISO string form.
type window struct {
	from string
	to   string
	days int
}

func newWindow(start, end time.Time) window {
	return window{from: FormatDate(start), to: FormatDate(end), days: PeriodDays(start, end)}
}

// covers reports whether a record dated date belongs to employeeID's
// computation. ISO dates compare correctly as strings.
func (w window) covers(employeeID, ownerID, date string, archived bool) bool {
	return ownerID == employeeID && !archived && inRange(date, w.from, w.to)
}

// ComputePayroll derives one record per employee in snap.Employees, in the
// same order, for the inclusive range [periodStart, periodEnd]. It reads its
// arguments only and never fails: bad employee configuration shows up as
// NaN or Inf in that employee's record.
func ComputePayroll(periodStart, periodEnd time.Time, snap Snapshot) []PayrollRecord {
	w := newWindow(periodStart, periodEnd)
	records := make([]PayrollRecord, 0, len(snap.Employees))
	for _, emp := range snap.Employees {
		records = append(records, computeEmployee(emp, resolveParams(emp, snap.Settings), w, snap))
	}
	return records
}

// ComputeMonthlyPayroll runs ComputePayroll over the whole calendar month.
func ComputeMonthlyPayroll(month, year int, snap Snapshot) ([]PayrollRecord, error) {
	start, end, err := MonthRange(month, year)
	if err != nil {
		return nil, err
	}
	return ComputePayroll(start, end, snap), nil
}

// RecordID is stable for a given employee and period.
func RecordID(employeeID, periodStart, periodEnd string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("payroll/"+employeeID+"/"+periodStart+"/"+periodEnd)).String()
}

func computeEmployee(emp Employee, p params, w window, snap Snapshot) PayrollRecord {
	rec := PayrollRecord{
		ID:                 RecordID(emp.ID, w.from, w.to),
		EmployeeID:         emp.ID,
		EmployeeName:       emp.Name,
		PeriodStart:        w.from,
		PeriodEnd:          w.to,
		PeriodDays:         w.days,
		CycleDays:          p.cycleDays,
		HoursPerDay:        p.hoursPerDay,
		DailyRate:          Amount(p.dailyRate),
		HourlyRate:         Amount(p.hourlyRate),
		OvertimeRate:       p.overtimeRate,
		DeductionRate:      p.deductionRate,
		GracePeriodMinutes: p.graceMinutes,
	}

	rec.PaidLeaveDays = paidLeaveDays(emp.ID, w, snap.Leaves)

	for _, a := range snap.Attendance {
		if !w.covers(emp.ID, a.EmployeeID, a.Date, a.IsArchived) {
			continue
		}
		if a.Status == AttendancePresent {
			rec.WorkingDays++
		}
		if a.CheckIn != "" {
			if diff, ok := CalculateTimeDiffMinutes(a.CheckIn, p.shiftIn); ok {
				// Grace is a cliff: once exceeded, every late minute counts.
				if late := max(0, diff); late > p.graceMinutes {
					rec.LateMinutes += late
				}
			}
		}
		if a.CheckOut != "" {
			if diff, ok := CalculateTimeDiffMinutes(p.shiftOut, a.CheckOut); ok {
				rec.EarlyMinutes += max(0, diff)
			}
			if diff, ok := CalculateTimeDiffMinutes(a.CheckOut, p.shiftOut); ok {
				rec.OvertimeMinutes += max(0, diff)
			}
		}
	}

	rec.AbsenceDays = max(0, w.days-(rec.WorkingDays+rec.PaidLeaveDays))
	absence := float64(rec.AbsenceDays)
	absenceDeduction := roundCurrency(absence * p.dailyRate)

	transport := emp.TransportAllowance
	if !emp.IsTransportExempt {
		transport = math.Max(0, emp.TransportAllowance-absence*(emp.TransportAllowance/p.cycleDays))
	}

	var bonuses, incentives, manual float64
	for _, f := range snap.Financials {
		if !w.covers(emp.ID, f.EmployeeID, f.Date, f.IsArchived) {
			continue
		}
		switch f.Type {
		case FinancialBonus:
			bonuses += f.Amount
		case FinancialProductionIncentive:
			incentives += f.Amount
		case FinancialDeduction, FinancialPayment:
			manual += f.Amount
		}
	}

	var productionValue float64
	for _, pe := range snap.Production {
		if !w.covers(emp.ID, pe.EmployeeID, pe.Date, pe.IsArchived) {
			continue
		}
		productionValue += pe.TotalValue
		rec.ProductionPieces += pe.PiecesCount
	}

	for _, pr := range snap.Permissions {
		if !w.covers(emp.ID, pr.EmployeeID, pr.Date, pr.IsArchived) {
			continue
		}
		rec.PermissionHours += pr.Hours
	}
	permissionDeduction := roundCurrency(rec.PermissionHours * p.hourlyRate * p.deductionRate)

	loanDeductions, loanTotal := loanInstallments(emp.ID, snap.Loans, w, p.minDaysToDeduct)
	rec.LoanDeductions = loanDeductions

	lateDeduction := roundCurrency(float64(rec.LateMinutes) / 60 * p.deductionRate * p.hourlyRate)
	earlyDeduction := roundCurrency(float64(rec.EarlyMinutes) / 60 * p.hourlyRate * p.deductionRate)
	overtimePay := roundCurrency(float64(rec.OvertimeMinutes) / 60 * p.hourlyRate * p.overtimeRate)

	rec.BaseSalary = Amount(emp.BaseSalary)
	rec.TransportAllowance = Amount(emp.TransportAllowance)
	rec.TransportEarned = Amount(roundCurrency(transport))
	rec.Bonuses = Amount(roundCurrency(bonuses))
	rec.ProductionIncentives = Amount(roundCurrency(incentives))
	rec.ProductionValue = Amount(roundCurrency(productionValue))
	rec.OvertimePay = Amount(overtimePay)

	rec.AbsenceDeduction = Amount(absenceDeduction)
	rec.ManualDeductions = Amount(roundCurrency(manual))
	rec.LateDeduction = Amount(lateDeduction)
	rec.EarlyDeduction = Amount(earlyDeduction)
	rec.PermissionDeduction = Amount(permissionDeduction)
	rec.LoanInstallments = Amount(roundCurrency(loanTotal))

	earnings := emp.BaseSalary +
		rec.TransportEarned.Float() +
		rec.Bonuses.Float() +
		rec.ProductionIncentives.Float() +
		rec.ProductionValue.Float() +
		rec.OvertimePay.Float()
	deductions := rec.AbsenceDeduction.Float() +
		rec.ManualDeductions.Float() +
		rec.LateDeduction.Float() +
		rec.EarlyDeduction.Float() +
		rec.LoanInstallments.Float() +
		rec.PermissionDeduction.Float()

	rec.TotalEarnings = Amount(earnings)
	rec.TotalDeductions = Amount(deductions)
	rec.NetSalary = Amount(roundCurrency(math.Max(0, earnings-deductions)))
	return rec
}

// paidLeaveDays sums the days approved paid leave overlaps the window.
// Leaves with unparseable dates contribute nothing.
func paidLeaveDays(employeeID string, w window, leaves []LeaveRequest) int {
	from, _ := ParseDate(w.from)
	to, _ := ParseDate(w.to)
	total := 0
	for _, l := range leaves {
		if l.EmployeeID != employeeID || l.IsArchived || l.Status != LeaveApproved || !l.IsPaid {
			continue
		}
		start, err := ParseDate(l.StartDate)
		if err != nil {
			continue
		}
		end, err := ParseDate(l.EndDate)
		if err != nil {
			continue
		}
		total += OverlapDays(start, end, from, to)
	}
	return total
}
