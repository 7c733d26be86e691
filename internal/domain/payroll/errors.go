package payroll

import "errors"

var (
	ErrInvalidPeriod         = errors.New("payroll period end must not be before start")
	ErrInvalidMonth          = errors.New("month must be between 1 and 12")
	ErrRunNotFound           = errors.New("payroll run not found")
	ErrPeriodAlreadyArchived = errors.New("payroll period already archived")
	ErrLoanBalanceChanged    = errors.New("loan balance changed while archiving")
)
