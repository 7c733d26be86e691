package hrdata

import (
	"context"
	"slices"
	"sync"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
)

// MemoryStore keeps every collection in process. One lock guards all of
// them so a Snapshot never observes a half-applied write.
type MemoryStore struct {
	mu          sync.RWMutex
	settings    payroll.CompanySettings
	employees   *Collection[payroll.Employee]
	attendance  *Collection[payroll.AttendanceRecord]
	loans       *Collection[payroll.Loan]
	financials  *Collection[payroll.FinancialEntry]
	production  *Collection[payroll.ProductionEntry]
	leaves      *Collection[payroll.LeaveRequest]
	permissions *Collection[payroll.PermissionRecord]
	runs        *Collection[payroll.Run]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		settings:    payroll.DefaultCompanySettings(),
		employees:   NewCollection(func(e payroll.Employee) string { return e.ID }),
		attendance:  NewCollection(func(a payroll.AttendanceRecord) string { return a.ID }),
		loans:       NewCollection(func(l payroll.Loan) string { return l.ID }),
		financials:  NewCollection(func(f payroll.FinancialEntry) string { return f.ID }),
		production:  NewCollection(func(p payroll.ProductionEntry) string { return p.ID }),
		leaves:      NewCollection(func(l payroll.LeaveRequest) string { return l.ID }),
		permissions: NewCollection(func(p payroll.PermissionRecord) string { return p.ID }),
		runs:        NewCollection(func(r payroll.Run) string { return r.ID }),
	}
}

func (s *MemoryStore) Snapshot(ctx context.Context) (payroll.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return payroll.Snapshot{
		Employees:   s.employees.List(),
		Attendance:  s.attendance.List(),
		Loans:       s.loans.List(),
		Financials:  s.financials.List(),
		Production:  s.production.List(),
		Leaves:      s.leaves.List(),
		Permissions: s.permissions.List(),
		Settings:    s.settings,
	}, nil
}

func (s *MemoryStore) ArchiveRun(ctx context.Context, run payroll.Run, adjustments []payroll.LoanAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.runs.List() {
		if existing.PeriodStart == run.PeriodStart && existing.PeriodEnd == run.PeriodEnd {
			return payroll.ErrPeriodAlreadyArchived
		}
	}
	balances := map[string]float64{}
	for _, adj := range adjustments {
		remaining, seen := balances[adj.LoanID]
		if !seen {
			loan, ok := s.loans.Get(adj.LoanID)
			if !ok {
				continue
			}
			remaining = loan.RemainingAmount
		}
		if !payroll.CoversSettlement(remaining, adj.Delta) {
			return payroll.ErrLoanBalanceChanged
		}
		balances[adj.LoanID] = remaining + adj.Delta
	}
	s.runs.Upsert(run)
	s.adjustLoans(adjustments)
	return nil
}

func (s *MemoryStore) DeleteRun(ctx context.Context, runID string, adjustments []payroll.LoanAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.runs.Delete(runID) {
		return payroll.ErrRunNotFound
	}
	s.adjustLoans(adjustments)
	return nil
}

func (s *MemoryStore) adjustLoans(adjustments []payroll.LoanAdjustment) {
	for _, adj := range adjustments {
		if loan, ok := s.loans.Get(adj.LoanID); ok {
			s.loans.Upsert(payroll.ApplyLoanAdjustment(loan, adj.Delta))
		}
	}
}

func (s *MemoryStore) GetRun(ctx context.Context, runID string) (payroll.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs.Get(runID)
	if !ok {
		return payroll.Run{}, payroll.ErrRunNotFound
	}
	run.Records = slices.Clone(run.Records)
	return run, nil
}

// ListRuns returns run headers newest first.
func (s *MemoryStore) ListRuns(ctx context.Context) ([]payroll.RunHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := s.runs.List()
	out := make([]payroll.RunHeader, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		out = append(out, runs[i].Header())
	}
	return out, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close() {}

func (s *MemoryStore) Settings(ctx context.Context) (payroll.CompanySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *MemoryStore) SaveSettings(ctx context.Context, settings payroll.CompanySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return nil
}

func (s *MemoryStore) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	return list(s, s.employees), nil
}

func (s *MemoryStore) UpsertEmployee(ctx context.Context, employee payroll.Employee) error {
	upsert(s, s.employees, employee)
	return nil
}

func (s *MemoryStore) DeleteEmployee(ctx context.Context, id string) error {
	return remove(s, s.employees, id)
}

func (s *MemoryStore) ListAttendance(ctx context.Context) ([]payroll.AttendanceRecord, error) {
	return list(s, s.attendance), nil
}

func (s *MemoryStore) UpsertAttendance(ctx context.Context, record payroll.AttendanceRecord) error {
	upsert(s, s.attendance, record)
	return nil
}

func (s *MemoryStore) DeleteAttendance(ctx context.Context, id string) error {
	return remove(s, s.attendance, id)
}

func (s *MemoryStore) ListLoans(ctx context.Context) ([]payroll.Loan, error) {
	return list(s, s.loans), nil
}

func (s *MemoryStore) UpsertLoan(ctx context.Context, loan payroll.Loan) error {
	upsert(s, s.loans, loan)
	return nil
}

func (s *MemoryStore) DeleteLoan(ctx context.Context, id string) error {
	return remove(s, s.loans, id)
}

func (s *MemoryStore) ListFinancials(ctx context.Context) ([]payroll.FinancialEntry, error) {
	return list(s, s.financials), nil
}

func (s *MemoryStore) UpsertFinancial(ctx context.Context, entry payroll.FinancialEntry) error {
	upsert(s, s.financials, entry)
	return nil
}

func (s *MemoryStore) DeleteFinancial(ctx context.Context, id string) error {
	return remove(s, s.financials, id)
}

func (s *MemoryStore) ListProduction(ctx context.Context) ([]payroll.ProductionEntry, error) {
	return list(s, s.production), nil
}

func (s *MemoryStore) UpsertProduction(ctx context.Context, entry payroll.ProductionEntry) error {
	upsert(s, s.production, entry)
	return nil
}

func (s *MemoryStore) DeleteProduction(ctx context.Context, id string) error {
	return remove(s, s.production, id)
}

func (s *MemoryStore) ListLeaves(ctx context.Context) ([]payroll.LeaveRequest, error) {
	return list(s, s.leaves), nil
}

func (s *MemoryStore) UpsertLeave(ctx context.Context, leave payroll.LeaveRequest) error {
	upsert(s, s.leaves, leave)
	return nil
}

func (s *MemoryStore) DeleteLeave(ctx context.Context, id string) error {
	return remove(s, s.leaves, id)
}

func (s *MemoryStore) ListPermissions(ctx context.Context) ([]payroll.PermissionRecord, error) {
	return list(s, s.permissions), nil
}

func (s *MemoryStore) UpsertPermission(ctx context.Context, record payroll.PermissionRecord) error {
	upsert(s, s.permissions, record)
	return nil
}

func (s *MemoryStore) DeletePermission(ctx context.Context, id string) error {
	return remove(s, s.permissions, id)
}

func list[T any](s *MemoryStore, c *Collection[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.List()
}

func upsert[T any](s *MemoryStore, c *Collection[T], item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Upsert(item)
}

func remove[T any](s *MemoryStore, c *Collection[T], id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !c.Delete(id) {
		return ErrNotFound
	}
	return nil
}
