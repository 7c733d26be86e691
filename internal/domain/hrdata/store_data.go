package hrdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
)

// PGStore keeps the HR collections in PostgreSQL. Dates are stored as the
// ISO text the front end sends so range filters behave exactly as they do
// in memory.
type PGStore struct {
	DB *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{DB: db}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func (s *PGStore) Close() {
	s.DB.Close()
}

// Snapshot reads every collection inside one repeatable-read transaction.
func (s *PGStore) Snapshot(ctx context.Context) (payroll.Snapshot, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return payroll.Snapshot{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var snap payroll.Snapshot
	if snap.Settings, err = readSettings(ctx, tx); err != nil {
		return payroll.Snapshot{}, fmt.Errorf("settings: %w", err)
	}
	if snap.Employees, err = listEmployees(ctx, tx); err != nil {
		return payroll.Snapshot{}, fmt.Errorf("employees: %w", err)
	}
	if snap.Attendance, err = listAttendance(ctx, tx); err != nil {
		return payroll.Snapshot{}, fmt.Errorf("attendance: %w", err)
	}
	if snap.Loans, err = listLoans(ctx, tx); err != nil {
		return payroll.Snapshot{}, fmt.Errorf("loans: %w", err)
	}
	if snap.Financials, err = listFinancials(ctx, tx); err != nil {
		return payroll.Snapshot{}, fmt.Errorf("financials: %w", err)
	}
	if snap.Production, err = listProduction(ctx, tx); err != nil {
		return payroll.Snapshot{}, fmt.Errorf("production: %w", err)
	}
	if snap.Leaves, err = listLeaves(ctx, tx); err != nil {
		return payroll.Snapshot{}, fmt.Errorf("leaves: %w", err)
	}
	if snap.Permissions, err = listPermissions(ctx, tx); err != nil {
		return payroll.Snapshot{}, fmt.Errorf("permissions: %w", err)
	}
	return snap, tx.Commit(ctx)
}

func (s *PGStore) Settings(ctx context.Context) (payroll.CompanySettings, error) {
	return readSettings(ctx, s.DB)
}

func readSettings(ctx context.Context, q querier) (payroll.CompanySettings, error) {
	var raw []byte
	err := q.QueryRow(ctx, "SELECT settings_json FROM company_settings WHERE id = 1").Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return payroll.DefaultCompanySettings(), nil
	}
	if err != nil {
		return payroll.CompanySettings{}, err
	}
	settings := payroll.DefaultCompanySettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		return payroll.CompanySettings{}, err
	}
	return settings, nil
}

func (s *PGStore) SaveSettings(ctx context.Context, settings payroll.CompanySettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO company_settings (id, settings_json)
    VALUES (1, $1)
    ON CONFLICT (id) DO UPDATE SET settings_json = EXCLUDED.settings_json, updated_at = now()
  `, raw)
	return err
}

func (s *PGStore) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	return listEmployees(ctx, s.DB)
}

func listEmployees(ctx context.Context, q querier) ([]payroll.Employee, error) {
	rows, err := q.Query(ctx, `
    SELECT id, name, base_salary, transport_allowance, is_transport_exempt,
           work_days_per_cycle, working_hours_per_day, custom_overtime_rate, custom_deduction_rate,
           COALESCE(custom_check_in, ''), COALESCE(custom_check_out, '')
    FROM employees
    ORDER BY created_at, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Employee
	for rows.Next() {
		var e payroll.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.BaseSalary, &e.TransportAllowance, &e.IsTransportExempt,
			&e.WorkDaysPerCycle, &e.WorkingHoursPerDay, &e.CustomOvertimeRate, &e.CustomDeductionRate,
			&e.CustomCheckIn, &e.CustomCheckOut); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PGStore) UpsertEmployee(ctx context.Context, e payroll.Employee) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, name, base_salary, transport_allowance, is_transport_exempt,
                           work_days_per_cycle, working_hours_per_day, custom_overtime_rate, custom_deduction_rate,
                           custom_check_in, custom_check_out)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    ON CONFLICT (id) DO UPDATE SET
      name = EXCLUDED.name,
      base_salary = EXCLUDED.base_salary,
      transport_allowance = EXCLUDED.transport_allowance,
      is_transport_exempt = EXCLUDED.is_transport_exempt,
      work_days_per_cycle = EXCLUDED.work_days_per_cycle,
      working_hours_per_day = EXCLUDED.working_hours_per_day,
      custom_overtime_rate = EXCLUDED.custom_overtime_rate,
      custom_deduction_rate = EXCLUDED.custom_deduction_rate,
      custom_check_in = EXCLUDED.custom_check_in,
      custom_check_out = EXCLUDED.custom_check_out
  `, e.ID, e.Name, e.BaseSalary, e.TransportAllowance, e.IsTransportExempt,
		e.WorkDaysPerCycle, e.WorkingHoursPerDay, e.CustomOvertimeRate, e.CustomDeductionRate,
		nullIfEmpty(e.CustomCheckIn), nullIfEmpty(e.CustomCheckOut))
	return err
}

func (s *PGStore) DeleteEmployee(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "employees", id)
}

func (s *PGStore) ListAttendance(ctx context.Context) ([]payroll.AttendanceRecord, error) {
	return listAttendance(ctx, s.DB)
}

func listAttendance(ctx context.Context, q querier) ([]payroll.AttendanceRecord, error) {
	rows, err := q.Query(ctx, `
    SELECT id, employee_id, date, COALESCE(check_in, ''), COALESCE(check_out, ''), status, is_archived
    FROM attendance
    ORDER BY created_at, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.AttendanceRecord
	for rows.Next() {
		var a payroll.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut, &a.Status, &a.IsArchived); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PGStore) UpsertAttendance(ctx context.Context, a payroll.AttendanceRecord) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO attendance (id, employee_id, date, check_in, check_out, status, is_archived)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (id) DO UPDATE SET
      employee_id = EXCLUDED.employee_id,
      date = EXCLUDED.date,
      check_in = EXCLUDED.check_in,
      check_out = EXCLUDED.check_out,
      status = EXCLUDED.status,
      is_archived = EXCLUDED.is_archived
  `, a.ID, a.EmployeeID, a.Date, nullIfEmpty(a.CheckIn), nullIfEmpty(a.CheckOut), a.Status, a.IsArchived)
	return err
}

func (s *PGStore) DeleteAttendance(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "attendance", id)
}

func (s *PGStore) ListLoans(ctx context.Context) ([]payroll.Loan, error) {
	return listLoans(ctx, s.DB)
}

func listLoans(ctx context.Context, q querier) ([]payroll.Loan, error) {
	rows, err := q.Query(ctx, `
    SELECT id, employee_id, amount, installments_count, monthly_installment, date,
           COALESCE(collection_date, ''), remaining_amount, is_immediate, is_archived
    FROM loans
    ORDER BY created_at, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Loan
	for rows.Next() {
		var l payroll.Loan
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.Amount, &l.InstallmentsCount, &l.MonthlyInstallment, &l.Date,
			&l.CollectionDate, &l.RemainingAmount, &l.IsImmediate, &l.IsArchived); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *PGStore) UpsertLoan(ctx context.Context, l payroll.Loan) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO loans (id, employee_id, amount, installments_count, monthly_installment, date,
                       collection_date, remaining_amount, is_immediate, is_archived)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    ON CONFLICT (id) DO UPDATE SET
      employee_id = EXCLUDED.employee_id,
      amount = EXCLUDED.amount,
      installments_count = EXCLUDED.installments_count,
      monthly_installment = EXCLUDED.monthly_installment,
      date = EXCLUDED.date,
      collection_date = EXCLUDED.collection_date,
      remaining_amount = EXCLUDED.remaining_amount,
      is_immediate = EXCLUDED.is_immediate,
      is_archived = EXCLUDED.is_archived
  `, l.ID, l.EmployeeID, l.Amount, l.InstallmentsCount, l.MonthlyInstallment, l.Date,
		nullIfEmpty(l.CollectionDate), l.RemainingAmount, l.IsImmediate, l.IsArchived)
	return err
}

func (s *PGStore) DeleteLoan(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "loans", id)
}

func (s *PGStore) ListFinancials(ctx context.Context) ([]payroll.FinancialEntry, error) {
	return listFinancials(ctx, s.DB)
}

func listFinancials(ctx context.Context, q querier) ([]payroll.FinancialEntry, error) {
	rows, err := q.Query(ctx, `
    SELECT id, employee_id, type, amount, date, COALESCE(description, ''), is_archived
    FROM financial_entries
    ORDER BY created_at, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.FinancialEntry
	for rows.Next() {
		var f payroll.FinancialEntry
		if err := rows.Scan(&f.ID, &f.EmployeeID, &f.Type, &f.Amount, &f.Date, &f.Description, &f.IsArchived); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PGStore) UpsertFinancial(ctx context.Context, f payroll.FinancialEntry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO financial_entries (id, employee_id, type, amount, date, description, is_archived)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (id) DO UPDATE SET
      employee_id = EXCLUDED.employee_id,
      type = EXCLUDED.type,
      amount = EXCLUDED.amount,
      date = EXCLUDED.date,
      description = EXCLUDED.description,
      is_archived = EXCLUDED.is_archived
  `, f.ID, f.EmployeeID, f.Type, f.Amount, f.Date, nullIfEmpty(f.Description), f.IsArchived)
	return err
}

func (s *PGStore) DeleteFinancial(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "financial_entries", id)
}

func (s *PGStore) ListProduction(ctx context.Context) ([]payroll.ProductionEntry, error) {
	return listProduction(ctx, s.DB)
}

func listProduction(ctx context.Context, q querier) ([]payroll.ProductionEntry, error) {
	rows, err := q.Query(ctx, `
    SELECT id, employee_id, date, pieces_count, value_per_piece, total_value, is_archived
    FROM production_entries
    ORDER BY created_at, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.ProductionEntry
	for rows.Next() {
		var p payroll.ProductionEntry
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Date, &p.PiecesCount, &p.ValuePerPiece, &p.TotalValue, &p.IsArchived); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PGStore) UpsertProduction(ctx context.Context, p payroll.ProductionEntry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO production_entries (id, employee_id, date, pieces_count, value_per_piece, total_value, is_archived)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    ON CONFLICT (id) DO UPDATE SET
      employee_id = EXCLUDED.employee_id,
      date = EXCLUDED.date,
      pieces_count = EXCLUDED.pieces_count,
      value_per_piece = EXCLUDED.value_per_piece,
      total_value = EXCLUDED.total_value,
      is_archived = EXCLUDED.is_archived
  `, p.ID, p.EmployeeID, p.Date, p.PiecesCount, p.ValuePerPiece, p.TotalValue, p.IsArchived)
	return err
}

func (s *PGStore) DeleteProduction(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "production_entries", id)
}

func (s *PGStore) ListLeaves(ctx context.Context) ([]payroll.LeaveRequest, error) {
	return listLeaves(ctx, s.DB)
}

func listLeaves(ctx context.Context, q querier) ([]payroll.LeaveRequest, error) {
	rows, err := q.Query(ctx, `
    SELECT id, employee_id, COALESCE(type, ''), start_date, end_date, status, is_paid, is_archived
    FROM leave_requests
    ORDER BY created_at, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.LeaveRequest
	for rows.Next() {
		var l payroll.LeaveRequest
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.Type, &l.StartDate, &l.EndDate, &l.Status, &l.IsPaid, &l.IsArchived); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *PGStore) UpsertLeave(ctx context.Context, l payroll.LeaveRequest) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_requests (id, employee_id, type, start_date, end_date, status, is_paid, is_archived)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    ON CONFLICT (id) DO UPDATE SET
      employee_id = EXCLUDED.employee_id,
      type = EXCLUDED.type,
      start_date = EXCLUDED.start_date,
      end_date = EXCLUDED.end_date,
      status = EXCLUDED.status,
      is_paid = EXCLUDED.is_paid,
      is_archived = EXCLUDED.is_archived
  `, l.ID, l.EmployeeID, nullIfEmpty(l.Type), l.StartDate, l.EndDate, l.Status, l.IsPaid, l.IsArchived)
	return err
}

func (s *PGStore) DeleteLeave(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "leave_requests", id)
}

func (s *PGStore) ListPermissions(ctx context.Context) ([]payroll.PermissionRecord, error) {
	return listPermissions(ctx, s.DB)
}

func listPermissions(ctx context.Context, q querier) ([]payroll.PermissionRecord, error) {
	rows, err := q.Query(ctx, `
    SELECT id, employee_id, date, hours, is_archived
    FROM permissions
    ORDER BY created_at, id
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.PermissionRecord
	for rows.Next() {
		var p payroll.PermissionRecord
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Date, &p.Hours, &p.IsArchived); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PGStore) UpsertPermission(ctx context.Context, p payroll.PermissionRecord) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO permissions (id, employee_id, date, hours, is_archived)
    VALUES ($1,$2,$3,$4,$5)
    ON CONFLICT (id) DO UPDATE SET
      employee_id = EXCLUDED.employee_id,
      date = EXCLUDED.date,
      hours = EXCLUDED.hours,
      is_archived = EXCLUDED.is_archived
  `, p.ID, p.EmployeeID, p.Date, p.Hours, p.IsArchived)
	return err
}

func (s *PGStore) DeletePermission(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "permissions", id)
}

// deleteByID is only called with the fixed table names above.
func (s *PGStore) deleteByID(ctx context.Context, table, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) ArchiveRun(ctx context.Context, run payroll.Run, adjustments []payroll.LoanAdjustment) error {
	recordsJSON, err := json.Marshal(run.Records)
	if err != nil {
		return err
	}
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
    INSERT INTO payroll_runs (id, period_start, period_end, created_at, summary_json, records_json)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, run.ID, run.PeriodStart, run.PeriodEnd, run.CreatedAt, summaryJSON, recordsJSON)
	if isUniqueViolation(err) {
		return payroll.ErrPeriodAlreadyArchived
	}
	if err != nil {
		return err
	}
	if err := checkSettlement(ctx, tx, adjustments); err != nil {
		return err
	}
	if err := adjustLoans(ctx, tx, adjustments); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// checkSettlement locks the settled loans for the rest of the transaction and
// rejects deltas the current balances can no longer absorb.
func checkSettlement(ctx context.Context, tx pgx.Tx, adjustments []payroll.LoanAdjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	ids := make([]string, 0, len(adjustments))
	for _, adj := range adjustments {
		ids = append(ids, adj.LoanID)
	}
	rows, err := tx.Query(ctx, `
    SELECT id, remaining_amount FROM loans
    WHERE id = ANY($1)
    ORDER BY id
    FOR UPDATE
  `, ids)
	if err != nil {
		return fmt.Errorf("lock loans: %w", err)
	}
	balances := make(map[string]float64, len(ids))
	for rows.Next() {
		var (
			id        string
			remaining float64
		)
		if err := rows.Scan(&id, &remaining); err != nil {
			rows.Close()
			return err
		}
		balances[id] = remaining
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, adj := range adjustments {
		remaining, ok := balances[adj.LoanID]
		if !ok {
			continue
		}
		if !payroll.CoversSettlement(remaining, adj.Delta) {
			return payroll.ErrLoanBalanceChanged
		}
		balances[adj.LoanID] = remaining + adj.Delta
	}
	return nil
}

func (s *PGStore) DeleteRun(ctx context.Context, runID string, adjustments []payroll.LoanAdjustment) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, "DELETE FROM payroll_runs WHERE id = $1", runID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}
	if err := adjustLoans(ctx, tx, adjustments); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func adjustLoans(ctx context.Context, tx pgx.Tx, adjustments []payroll.LoanAdjustment) error {
	for _, adj := range adjustments {
		if _, err := tx.Exec(ctx, `
      UPDATE loans
      SET remaining_amount = CASE
        WHEN amount > 0 THEN LEAST(GREATEST(remaining_amount + $2, 0), amount)
        ELSE GREATEST(remaining_amount + $2, 0)
      END
      WHERE id = $1
    `, adj.LoanID, adj.Delta); err != nil {
			return fmt.Errorf("adjust loan %s: %w", adj.LoanID, err)
		}
	}
	return nil
}

func (s *PGStore) GetRun(ctx context.Context, runID string) (payroll.Run, error) {
	var run payroll.Run
	var summaryJSON, recordsJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, period_start, period_end, created_at, summary_json, records_json
    FROM payroll_runs
    WHERE id = $1
  `, runID).Scan(&run.ID, &run.PeriodStart, &run.PeriodEnd, &run.CreatedAt, &summaryJSON, &recordsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return payroll.Run{}, payroll.ErrRunNotFound
	}
	if err != nil {
		return payroll.Run{}, err
	}
	if err := json.Unmarshal(summaryJSON, &run.Summary); err != nil {
		return payroll.Run{}, err
	}
	if err := json.Unmarshal(recordsJSON, &run.Records); err != nil {
		return payroll.Run{}, err
	}
	return run, nil
}

func (s *PGStore) ListRuns(ctx context.Context) ([]payroll.RunHeader, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, period_start, period_end, created_at, summary_json
    FROM payroll_runs
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []payroll.RunHeader{}
	for rows.Next() {
		var h payroll.RunHeader
		var summaryJSON []byte
		if err := rows.Scan(&h.ID, &h.PeriodStart, &h.PeriodEnd, &h.CreatedAt, &summaryJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(summaryJSON, &h.Summary); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
