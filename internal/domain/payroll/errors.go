package payroll

import "errors"

var (
	ErrRunNotFound           = errors.New("payroll run not found")
	ErrTransactionNotFound   = errors.New("payroll transaction not found")
	ErrTransactionExists     = errors.New("payroll transaction already exists for this period")
	ErrTransactionFinalized  = errors.New("payroll transaction is finalized and cannot be modified")
	ErrRunNotFinalizable     = errors.New("payroll run has unresolved failures and cannot be finalized")
	ErrLineTotalMismatch     = errors.New("calculation line totals do not match transaction totals")
	ErrConcurrentFinalize    = errors.New("transaction was modified concurrently, retry finalize")
	ErrOverrideOnFinalized   = errors.New("cannot override tds on a finalized transaction")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrNoEmployeesInRun      = errors.New("payroll run matched no employees")
)
