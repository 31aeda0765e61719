package statutory

import (
	"time"

	"github.com/shopspring/decimal"
)

// PfMode enum
type PfMode string

const (
	// Wage base capped at the statutory ceiling.
	PfModeCeilingBased PfMode = "ceiling_based"
	// Contribution on the full PF wage, no cap.
	PfModeActualWage PfMode = "actual_wage"
	// Employee opted to contribute on the ceiling even when actual wage
	// exceeds it; requires the employee-level opt-in flag.
	PfModeRestricted PfMode = "restricted_pf"
)

// PfConfig - company PF configuration with statutory defaults.
type PfConfig struct {
	ID                      string
	CompanyID               string
	Mode                    PfMode
	WageCeiling             decimal.Decimal // default 15000
	EmployeeRate            decimal.Decimal // default 12
	EmployerRate            decimal.Decimal // default 12
	PensionRate             decimal.Decimal // default 8.33, carved out of employer share
	AdminChargeRate         decimal.Decimal // default 0.5
	EdliChargeRate          decimal.Decimal // default 0.5
	IncludeSpecialAllowance bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// EsiConfig - company ESI configuration.
type EsiConfig struct {
	ID           string
	CompanyID    string
	WageCeiling  decimal.Decimal // default 21000
	EmployeeRate decimal.Decimal // default 0.75
	EmployerRate decimal.Decimal // default 3.25
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PtSlab - one state professional-tax bracket, effective-dated. Several
// states levy an annual top-up in February; FebruaryAmount carries it.
type PtSlab struct {
	ID             string
	StateCode      string
	MinMonthly     decimal.Decimal
	MaxMonthly     *decimal.Decimal // nil = open-ended
	Amount         decimal.Decimal
	FebruaryAmount *decimal.Decimal
	EffectiveFrom  time.Time
	EffectiveTo    *time.Time
}

// PfBreakdown - one period's PF contribution split.
type PfBreakdown struct {
	WageBase             decimal.Decimal `json:"wage_base"` // after ceiling/mode
	EmployeeContribution decimal.Decimal `json:"employee_contribution"`
	EmployerPension      decimal.Decimal `json:"employer_pension"`
	EmployerEPF          decimal.Decimal `json:"employer_epf"`
	AdminCharges         decimal.Decimal `json:"admin_charges"`
	EdliCharges          decimal.Decimal `json:"edli_charges"`
}

// EsiBreakdown - one period's ESI contributions. Applicable is decided at the
// contribution half-year start and sticks for the statutory period.
type EsiBreakdown struct {
	Applicable           bool            `json:"applicable"`
	WageBase             decimal.Decimal `json:"wage_base"`
	EmployeeContribution decimal.Decimal `json:"employee_contribution"`
	EmployerContribution decimal.Decimal `json:"employer_contribution"`
}

// PtBreakdown - the month's professional tax for the employee's work state.
type PtBreakdown struct {
	StateCode string          `json:"state_code"`
	Amount    decimal.Decimal `json:"amount"`
}
