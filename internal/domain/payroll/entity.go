package payroll

import (
	"encoding/json"
	"time"

	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// TransactionStatus enum
type TransactionStatus string

const (
	TransactionStatusDraft     TransactionStatus = "draft"
	TransactionStatusFinalized TransactionStatus = "finalized"
)

// RunStatus enum
type RunStatus string

const (
	RunStatusDraft           RunStatus = "draft"
	RunStatusCompleted       RunStatus = "completed"
	RunStatusPartiallyFailed RunStatus = "partially_failed"
	RunStatusFinalized       RunStatus = "finalized"
)

// LineType enum
type LineType string

const (
	LineTypeEarning              LineType = "earning"
	LineTypeDeduction            LineType = "deduction"
	LineTypeEmployerContribution LineType = "employer_contribution"
)

// Transaction - one employee's payroll result for one run and period.
// Append-only after finalization; corrections create a new transaction.
type Transaction struct {
	ID          string
	RunID       string
	EmployeeID  string
	CompanyID   string
	PeriodMonth int
	PeriodYear  int

	WorkingDays int
	PresentDays int
	LOPDays     int

	WageBases salary.WageBases

	GrossEarnings         decimal.Decimal
	TotalDeductions       decimal.Decimal
	EmployerContributions decimal.Decimal
	NetPayable            decimal.Decimal

	Pf  *statutory.PfBreakdown
	Esi *statutory.EsiBreakdown
	Pt  *statutory.PtBreakdown

	ComputedTds decimal.Decimal
	TdsOverride *tax.Override // net pay uses it; ComputedTds stays untouched

	Status      TransactionStatus
	Version     int // optimistic concurrency on finalize
	FinalizedAt *time.Time
	FinalizedBy *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Lines []CalculationLine
}

// EffectiveTds is what net pay withholds: the override when present,
// otherwise the computed value.
func (t Transaction) EffectiveTds() decimal.Decimal {
	if t.TdsOverride != nil {
		return t.TdsOverride.Amount
	}
	return t.ComputedTds
}

// SumLines totals the transaction's lines for one type.
func (t Transaction) SumLines(lt LineType) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range t.Lines {
		if l.LineType == lt {
			sum = sum.Add(l.ComputedAmount)
		}
	}
	return sum
}

// CalculationLine - one computed line of a transaction. ConfigSnapshot is a
// verbatim copy of the rule configuration used, so historical payslips stay
// reproducible after rule edits. Immutable once the transaction is finalized.
type CalculationLine struct {
	ID             string
	TransactionID  string
	LineType       LineType
	RuleCode       string
	BaseAmount     decimal.Decimal
	Rate           decimal.Decimal
	ComputedAmount decimal.Decimal
	ConfigVersion  int
	ConfigSnapshot json.RawMessage
	CreatedAt      time.Time
}

// Run - one payroll run over a set of employees.
type Run struct {
	ID          string
	CompanyID   string
	PeriodMonth int
	PeriodYear  int
	Status      RunStatus
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EmployeeFailure - a per-employee error collected during a run. One
// employee's failure never aborts the others.
type EmployeeFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}
