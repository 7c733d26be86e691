package recordshandler

import (
	"strings"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
	"github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/shared"
)

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func validateSettings(v *shared.Validator, s *payroll.CompanySettings) {
	s.SalaryCycle = normalize(s.SalaryCycle)
	v.Required("salaryCycle", s.SalaryCycle, "is required")
	v.Enum("salaryCycle", s.SalaryCycle, payroll.SalaryCycles, "must be monthly or weekly")
	v.NonNegative("monthlyCycleDays", s.MonthlyCycleDays)
	v.NonNegative("weeklyCycleDays", s.WeeklyCycleDays)
	v.Clock("officialCheckIn", s.OfficialCheckIn)
	v.Clock("officialCheckOut", s.OfficialCheckOut)
	if s.GracePeriodMinutes < 0 {
		v.Add("gracePeriodMinutes", "must be >= 0")
	}
	v.NonNegative("deductionPerLateMinute", s.DeductionPerLateMinute)
	v.Positive("overtimeHourRate", s.OvertimeHourRate)
}

func validateEmployee(v *shared.Validator, e *payroll.Employee) {
	e.Name = strings.TrimSpace(e.Name)
	v.Required("name", e.Name, "is required")
	v.NonNegative("baseSalary", e.BaseSalary)
	v.NonNegative("transportAllowance", e.TransportAllowance)
	v.OptionalPositive("workDaysPerCycle", e.WorkDaysPerCycle)
	v.OptionalPositive("workingHoursPerDay", e.WorkingHoursPerDay)
	if e.CustomOvertimeRate != nil {
		v.NonNegative("customOvertimeRate", *e.CustomOvertimeRate)
	}
	if e.CustomDeductionRate != nil {
		v.NonNegative("customDeductionRate", *e.CustomDeductionRate)
	}
	v.Clock("customCheckIn", e.CustomCheckIn)
	v.Clock("customCheckOut", e.CustomCheckOut)
}

func validateAttendance(v *shared.Validator, a *payroll.AttendanceRecord) {
	a.Status = normalize(a.Status)
	v.Required("employeeId", a.EmployeeID, "is required")
	v.Date("date", a.Date)
	v.Clock("checkIn", a.CheckIn)
	v.Clock("checkOut", a.CheckOut)
	v.Required("status", a.Status, "is required")
	v.Enum("status", a.Status, payroll.AttendanceStatuses, "must be present, absent, leave or excused")
}

func validateLoan(v *shared.Validator, l *payroll.Loan) {
	v.Required("employeeId", l.EmployeeID, "is required")
	v.Positive("amount", l.Amount)
	v.NonNegative("monthlyInstallment", l.MonthlyInstallment)
	v.NonNegative("remainingAmount", l.RemainingAmount)
	if l.RemainingAmount > l.Amount {
		v.Add("remainingAmount", "must not exceed amount")
	}
	if l.InstallmentsCount < 0 {
		v.Add("installmentsCount", "must be >= 0")
	}
	v.Date("date", l.Date)
	v.OptionalDate("collectionDate", l.CollectionDate)
}

func validateFinancial(v *shared.Validator, f *payroll.FinancialEntry) {
	f.Type = normalize(f.Type)
	v.Required("employeeId", f.EmployeeID, "is required")
	v.Required("type", f.Type, "is required")
	v.Enum("type", f.Type, payroll.FinancialTypes, "must be bonus, deduction, production_incentive or payment")
	v.NonNegative("amount", f.Amount)
	v.Date("date", f.Date)
}

// validateProduction also fixes totalValue, which is always derived.
func validateProduction(v *shared.Validator, p *payroll.ProductionEntry) {
	v.Required("employeeId", p.EmployeeID, "is required")
	v.Date("date", p.Date)
	v.NonNegative("piecesCount", p.PiecesCount)
	v.NonNegative("valuePerPiece", p.ValuePerPiece)
	p.TotalValue = p.PiecesCount * p.ValuePerPiece
}

func validateLeave(v *shared.Validator, l *payroll.LeaveRequest) {
	l.Status = normalize(l.Status)
	v.Required("employeeId", l.EmployeeID, "is required")
	start, startOK := v.Date("startDate", l.StartDate)
	end, endOK := v.Date("endDate", l.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	v.Required("status", l.Status, "is required")
	v.Enum("status", l.Status, payroll.LeaveStatuses, "must be pending, approved or rejected")
}

func validatePermission(v *shared.Validator, p *payroll.PermissionRecord) {
	v.Required("employeeId", p.EmployeeID, "is required")
	v.Date("date", p.Date)
	v.NonNegative("hours", p.Hours)
}
