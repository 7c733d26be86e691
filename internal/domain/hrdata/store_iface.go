package hrdata

import (
	"context"
	"errors"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
)

var ErrNotFound = errors.New("record not found")

// Store is the data-store collaborator: CRUD over every HR collection plus
// the payroll run history.
type Store interface {
	payroll.StoreAPI

	Settings(ctx context.Context) (payroll.CompanySettings, error)
	SaveSettings(ctx context.Context, settings payroll.CompanySettings) error

	ListEmployees(ctx context.Context) ([]payroll.Employee, error)
	UpsertEmployee(ctx context.Context, employee payroll.Employee) error
	DeleteEmployee(ctx context.Context, id string) error

	ListAttendance(ctx context.Context) ([]payroll.AttendanceRecord, error)
	UpsertAttendance(ctx context.Context, record payroll.AttendanceRecord) error
	DeleteAttendance(ctx context.Context, id string) error

	ListLoans(ctx context.Context) ([]payroll.Loan, error)
	UpsertLoan(ctx context.Context, loan payroll.Loan) error
	DeleteLoan(ctx context.Context, id string) error

	ListFinancials(ctx context.Context) ([]payroll.FinancialEntry, error)
	UpsertFinancial(ctx context.Context, entry payroll.FinancialEntry) error
	DeleteFinancial(ctx context.Context, id string) error

	ListProduction(ctx context.Context) ([]payroll.ProductionEntry, error)
	UpsertProduction(ctx context.Context, entry payroll.ProductionEntry) error
	DeleteProduction(ctx context.Context, id string) error

	ListLeaves(ctx context.Context) ([]payroll.LeaveRequest, error)
	UpsertLeave(ctx context.Context, leave payroll.LeaveRequest) error
	DeleteLeave(ctx context.Context, id string) error

	ListPermissions(ctx context.Context) ([]payroll.PermissionRecord, error)
	UpsertPermission(ctx context.Context, record payroll.PermissionRecord) error
	DeletePermission(ctx context.Context, id string) error

	Close()
}
