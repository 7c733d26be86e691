package payroll

const (
	SalaryCycleMonthly = "monthly"
	SalaryCycleWeekly  = "weekly"

	DefaultMonthlyCycleDays = 26
	DefaultWeeklyCycleDays  = 6
	DefaultHoursPerDay      = 8

	MinDaysToDeductMonthly = 20
	MinDaysToDeductWeekly  = 5

	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLeave   = "leave"
	AttendanceExcused = "excused"

	FinancialBonus               = "bonus"
	FinancialDeduction           = "deduction"
	FinancialProductionIncentive = "production_incentive"
	FinancialPayment             = "payment"

	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"

	WarningNonFiniteNet  = "non_finite_net"
	WarningZeroNet       = "zero_net"
	WarningUnpaidAbsence = "unpaid_absence"

	DateLayout = "2006-01-02"
)

var (
	AttendanceStatuses = []string{AttendancePresent, AttendanceAbsent, AttendanceLeave, AttendanceExcused}
	FinancialTypes     = []string{FinancialBonus, FinancialDeduction, FinancialProductionIncentive, FinancialPayment}
	LeaveStatuses      = []string{LeavePending, LeaveApproved, LeaveRejected}
	SalaryCycles       = []string{SalaryCycleMonthly, SalaryCycleWeekly}
)
