package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access for runs, transactions and
// calculation lines. Lines are append-only; finalized transactions are never
// updated in place.
type PayrollRepository interface {
	CreateRun(ctx context.Context, run Run) (Run, error)
	GetRunByID(ctx context.Context, id string, companyID string) (Run, error)
	UpdateRunStatus(ctx context.Context, id string, companyID string, status RunStatus) error

	CreateTransaction(ctx context.Context, tx Transaction) (Transaction, error)
	GetTransactionByID(ctx context.Context, id string, companyID string) (Transaction, error)
	GetTransactionByEmployeePeriod(ctx context.Context, employeeID string, month, year int, companyID string) (Transaction, error)
	ListTransactions(ctx context.Context, companyID string, filter TransactionFilter) ([]Transaction, int64, error)
	ListTransactionsByRun(ctx context.Context, runID string, companyID string) ([]Transaction, error)

	// FinalizeTransaction flips status inside one database transaction,
	// guarded by the version column; a stale version returns
	// ErrConcurrentFinalize.
	FinalizeTransaction(ctx context.Context, id string, companyID string, version int, finalizedBy string) (Transaction, error)

	SetTdsOverride(ctx context.Context, id string, companyID string, override TdsOverrideRequest) error

	// SumFinalizedTds totals TDS withheld by finalized transactions between
	// two periods inclusive, bounds encoded as year*100+month.
	SumFinalizedTds(ctx context.Context, employeeID string, companyID string, fromPeriod, toPeriod int) (decimal.Decimal, error)

	AppendLines(ctx context.Context, transactionID string, lines []CalculationLine) error
	ListLines(ctx context.Context, transactionID string, companyID string) ([]CalculationLine, error)

	// ListActiveEmployeeIDs returns the payroll-eligible employees of a
	// company, the batch input of a run.
	ListActiveEmployeeIDs(ctx context.Context, companyID string) ([]string, error)
}
