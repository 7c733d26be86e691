package payroll

import "time"

// Employee carries the salary terms the engine needs. Pointer and empty-string
// fields are optional overrides of CompanySettings.
type Employee struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	BaseSalary          float64  `json:"baseSalary"`
	TransportAllowance  float64  `json:"transportAllowance"`
	IsTransportExempt   bool     `json:"isTransportExempt"`
	WorkDaysPerCycle    *float64 `json:"workDaysPerCycle,omitempty"`
	WorkingHoursPerDay  *float64 `json:"workingHoursPerDay,omitempty"`
	CustomOvertimeRate  *float64 `json:"customOvertimeRate,omitempty"`
	CustomDeductionRate *float64 `json:"customDeductionRate,omitempty"`
	CustomCheckIn       string   `json:"customCheckIn,omitempty"`
	CustomCheckOut      string   `json:"customCheckOut,omitempty"`
}

type AttendanceRecord struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	CheckIn    string `json:"checkIn,omitempty"`
	CheckOut   string `json:"checkOut,omitempty"`
	Status     string `json:"status"`
	IsArchived bool   `json:"isArchived,omitempty"`
}

type Loan struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employeeId"`
	Amount             float64 `json:"amount"`
	InstallmentsCount  int     `json:"installmentsCount"`
	MonthlyInstallment float64 `json:"monthlyInstallment"`
	Date               string  `json:"date"`
	CollectionDate     string  `json:"collectionDate,omitempty"`
	RemainingAmount    float64 `json:"remainingAmount"`
	IsImmediate        bool    `json:"isImmediate,omitempty"`
	IsArchived         bool    `json:"isArchived,omitempty"`
}

// TargetDate is the date the next installment falls due.
func (l Loan) TargetDate() string {
	if l.CollectionDate != "" {
		return l.CollectionDate
	}
	return l.Date
}

type FinancialEntry struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employeeId"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description,omitempty"`
	IsArchived  bool    `json:"isArchived,omitempty"`
}

type ProductionEntry struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employeeId"`
	Date          string  `json:"date"`
	PiecesCount   float64 `json:"piecesCount"`
	ValuePerPiece float64 `json:"valuePerPiece"`
	TotalValue    float64 `json:"totalValue"`
	IsArchived    bool    `json:"isArchived,omitempty"`
}

type LeaveRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Status     string `json:"status"`
	IsPaid     bool   `json:"isPaid"`
	IsArchived bool   `json:"isArchived,omitempty"`
}

type PermissionRecord struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	Hours      float64 `json:"hours"`
	IsArchived bool    `json:"isArchived,omitempty"`
}

// CompanySettings holds org-wide defaults. Zero cycle lengths fall back to
// 26 (monthly) and 6 (weekly) days.
type CompanySettings struct {
	SalaryCycle            string  `json:"salaryCycle"`
	MonthlyCycleDays       float64 `json:"monthlyCycleDays"`
	WeeklyCycleDays        float64 `json:"weeklyCycleDays"`
	OfficialCheckIn        string  `json:"officialCheckIn"`
	OfficialCheckOut       string  `json:"officialCheckOut"`
	GracePeriodMinutes     int     `json:"gracePeriodMinutes"`
	DeductionPerLateMinute float64 `json:"deductionPerLateMinute"`
	OvertimeHourRate       float64 `json:"overtimeHourRate"`
}

func DefaultCompanySettings() CompanySettings {
	return CompanySettings{
		SalaryCycle:        SalaryCycleMonthly,
		MonthlyCycleDays:   DefaultMonthlyCycleDays,
		WeeklyCycleDays:    DefaultWeeklyCycleDays,
		OfficialCheckIn:    "08:00",
		OfficialCheckOut:   "16:00",
		GracePeriodMinutes: 15,
		OvertimeHourRate:   1.5,
	}
}

// Snapshot is a consistent read of every collection the engine consumes.
type Snapshot struct {
	Employees   []Employee         `json:"employees"`
	Attendance  []AttendanceRecord `json:"attendance"`
	Loans       []Loan             `json:"loans"`
	Financials  []FinancialEntry   `json:"financials"`
	Production  []ProductionEntry  `json:"production"`
	Leaves      []LeaveRequest     `json:"leaves"`
	Permissions []PermissionRecord `json:"permissions"`
	Settings    CompanySettings    `json:"settings"`
}

type LoanDeduction struct {
	LoanID string `json:"loanId"`
	Amount Amount `json:"amount"`
}

// PayrollRecord is one employee's result for one period. Every money field
// is already rounded to whole currency units.
type PayrollRecord struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	PeriodStart  string `json:"periodStart"`
	PeriodEnd    string `json:"periodEnd"`

	PeriodDays    int     `json:"periodDays"`
	CycleDays     float64 `json:"cycleDays"`
	HoursPerDay   float64 `json:"hoursPerDay"`
	DailyRate     Amount  `json:"dailyRate"`
	HourlyRate    Amount  `json:"hourlyRate"`
	WorkingDays   int     `json:"workingDays"`
	PaidLeaveDays int     `json:"paidLeaveDays"`
	AbsenceDays   int     `json:"absenceDays"`

	LateMinutes        int     `json:"lateMinutes"`
	EarlyMinutes       int     `json:"earlyMinutes"`
	OvertimeMinutes    int     `json:"overtimeMinutes"`
	PermissionHours    float64 `json:"permissionHours"`
	ProductionPieces   float64 `json:"productionPieces"`
	OvertimeRate       float64 `json:"overtimeRate"`
	DeductionRate      float64 `json:"deductionRate"`
	GracePeriodMinutes int     `json:"gracePeriodMinutes"`

	BaseSalary           Amount `json:"baseSalary"`
	TransportAllowance   Amount `json:"transportAllowance"`
	TransportEarned      Amount `json:"transportEarned"`
	Bonuses              Amount `json:"bonuses"`
	ProductionIncentives Amount `json:"productionIncentives"`
	ProductionValue      Amount `json:"productionValue"`
	OvertimePay          Amount `json:"overtimePay"`

	AbsenceDeduction    Amount          `json:"absenceDeduction"`
	ManualDeductions    Amount          `json:"manualDeductions"`
	LateDeduction       Amount          `json:"lateDeduction"`
	EarlyDeduction      Amount          `json:"earlyDeduction"`
	PermissionDeduction Amount          `json:"permissionDeduction"`
	LoanInstallments    Amount          `json:"loanInstallments"`
	LoanDeductions      []LoanDeduction `json:"loanDeductions,omitempty"`

	TotalEarnings   Amount `json:"totalEarnings"`
	TotalDeductions Amount `json:"totalDeductions"`
	NetSalary       Amount `json:"netSalary"`
}

// Run is an archived payroll computation.
type Run struct {
	ID          string          `json:"id"`
	PeriodStart string          `json:"periodStart"`
	PeriodEnd   string          `json:"periodEnd"`
	CreatedAt   time.Time       `json:"createdAt"`
	Records     []PayrollRecord `json:"records"`
	Summary     PeriodSummary   `json:"summary"`
}

type RunHeader struct {
	ID          string        `json:"id"`
	PeriodStart string        `json:"periodStart"`
	PeriodEnd   string        `json:"periodEnd"`
	CreatedAt   time.Time     `json:"createdAt"`
	Summary     PeriodSummary `json:"summary"`
}

func (r Run) Header() RunHeader {
	return RunHeader{ID: r.ID, PeriodStart: r.PeriodStart, PeriodEnd: r.PeriodEnd, CreatedAt: r.CreatedAt, Summary: r.Summary}
}

type PeriodSummary struct {
	TotalEarnings   Amount         `json:"totalEarnings"`
	TotalDeductions Amount         `json:"totalDeductions"`
	TotalNet        Amount         `json:"totalNet"`
	EmployeeCount   int            `json:"employeeCount"`
	Warnings        map[string]int `json:"warnings"`
}

// Result is what Service.Compute returns to callers.
type Result struct {
	PeriodStart string          `json:"periodStart"`
	PeriodEnd   string          `json:"periodEnd"`
	Records     []PayrollRecord `json:"records"`
	Summary     PeriodSummary   `json:"summary"`
}
