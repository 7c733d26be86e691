package payroll

import "math"

// LoanAdjustment moves a loan's remaining balance by Delta. Archiving a run
// applies negative deltas; reopening it applies the same deltas reversed.
type LoanAdjustment struct {
	LoanID string
	Delta  float64
}

// loanInstallments picks the installment each of the employee's loans owes
// in the window. Immediate loans are collected in full when their target date
// falls inside the window. Recurring loans are only collected when the window
// is long enough and the target date is not in the future.
func loanInstallments(employeeID string, loans []Loan, w window, minDays int) ([]LoanDeduction, float64) {
	var (
		out   []LoanDeduction
		total float64
	)
	for _, l := range loans {
		if l.EmployeeID != employeeID || l.IsArchived || !(l.RemainingAmount > 0) {
			continue
		}
		target := l.TargetDate()
		installment := l.MonthlyInstallment
		if l.IsImmediate {
			if !inRange(target, w.from, w.to) {
				continue
			}
			installment = l.RemainingAmount
		} else if w.days < minDays || target > w.to {
			continue
		}
		amount := math.Min(installment, l.RemainingAmount)
		out = append(out, LoanDeduction{LoanID: l.ID, Amount: Amount(amount)})
		total += amount
	}
	return out, total
}

// SettlementAdjustments returns the balance changes archiving records implies.
func SettlementAdjustments(records []PayrollRecord) []LoanAdjustment {
	return loanAdjustments(records, -1)
}

// RestorationAdjustments undoes SettlementAdjustments for the same records.
func RestorationAdjustments(records []PayrollRecord) []LoanAdjustment {
	return loanAdjustments(records, 1)
}

func loanAdjustments(records []PayrollRecord, sign float64) []LoanAdjustment {
	var out []LoanAdjustment
	for _, rec := range records {
		for _, d := range rec.LoanDeductions {
			if !d.Amount.IsFinite() || d.Amount == 0 {
				continue
			}
			out = append(out, LoanAdjustment{LoanID: d.LoanID, Delta: sign * d.Amount.Float()})
		}
	}
	return out
}

// CoversSettlement reports whether a loan with the given remaining balance
// can still absorb delta. A settlement taken from a stale snapshot fails
// this check instead of being clamped.
func CoversSettlement(remaining, delta float64) bool {
	return delta >= 0 || remaining+delta >= -1e-9
}

// ApplyLoanAdjustment returns l with its remaining balance moved by delta,
// kept between zero and the original loan amount.
func ApplyLoanAdjustment(l Loan, delta float64) Loan {
	remaining := math.Max(0, l.RemainingAmount+delta)
	if l.Amount > 0 && remaining > l.Amount {
		remaining = l.Amount
	}
	l.RemainingAmount = remaining
	return l
}
