package tax

import (
	"time"

	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/shopspring/decimal"
)

// Slab - one income-tax bracket. Max nil means open-ended. Boundaries and
// rates are data, not code, so yearly Finance Act changes are table edits.
type Slab struct {
	Min  decimal.Decimal  `json:"min"`
	Max  *decimal.Decimal `json:"max,omitempty"`
	Rate decimal.Decimal  `json:"rate"` // percent
}

// SurchargeBand - surcharge percentage applied above an income threshold.
type SurchargeBand struct {
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"` // percent
}

// RegimeSchedule - the full statutory parameter set for one regime and
// financial year.
type RegimeSchedule struct {
	ID                string
	FinancialYear     string
	Regime            declaration.Regime
	Slabs             []Slab
	StandardDeduction decimal.Decimal
	RebateThreshold   decimal.Decimal // section 87A
	RebateCap         decimal.Decimal
	SurchargeBands    []SurchargeBand // descending thresholds applied first-match
	CessRate          decimal.Decimal // health and education cess, percent
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DeductionCaps - statutory caps for old-regime sectional deductions.
// 80E and 80G are not capped by this engine.
type DeductionCaps struct {
	Section80C          decimal.Decimal // 150000
	Section80CCD1B      decimal.Decimal // 50000
	Section80DSelf      decimal.Decimal // 25000
	Section80DSelfSr    decimal.Decimal // 50000
	Section80DParents   decimal.Decimal // 25000
	Section80DParentsSr decimal.Decimal // 50000
	Section24           decimal.Decimal // 200000
	Section80TTA        decimal.Decimal // 10000
}

// Input - everything the TDS computation needs, pre-fetched; the calculation
// itself does no I/O.
type Input struct {
	FinancialYear      string
	PeriodIndex        int // 0 = April … 11 = March
	AnnualGross        decimal.Decimal
	AnnualBasic        decimal.Decimal
	AnnualHraReceived  decimal.Decimal
	Declaration        *declaration.Declaration
	Schedule           RegimeSchedule
	Caps               DeductionCaps
	// Mid-year joiners: carried-in income is added to the annual gross,
	// carried-in TDS is credited against the liability. Callers populate
	// these from the declaration's previous-employer block.
	PreviousEmployerIncome decimal.Decimal
	PreviousEmployerTDS    decimal.Decimal
	TdsAlreadyWithheld     decimal.Decimal
}

// AllowedDeductions - per-section allowed amounts after caps.
type AllowedDeductions struct {
	Section80C     decimal.Decimal `json:"section_80c"`
	Section80CCD1B decimal.Decimal `json:"section_80ccd_1b"`
	Section80D     decimal.Decimal `json:"section_80d"`
	Section80E     decimal.Decimal `json:"section_80e"`
	Section24      decimal.Decimal `json:"section_24"`
	Section80G     decimal.Decimal `json:"section_80g"`
	Section80TTA   decimal.Decimal `json:"section_80tta"`
	HraExemption   decimal.Decimal `json:"hra_exemption"`
}

func (a AllowedDeductions) Total() decimal.Decimal {
	return a.Section80C.Add(a.Section80CCD1B).Add(a.Section80D).
		Add(a.Section80E).Add(a.Section24).Add(a.Section80G).
		Add(a.Section80TTA).Add(a.HraExemption)
}

// SlabLine - tax contributed by one bracket, kept for the payslip annexure.
type SlabLine struct {
	Slab   Slab            `json:"slab"`
	Amount decimal.Decimal `json:"amount"` // income taxed in this bracket
	Tax    decimal.Decimal `json:"tax"`
}

// Calculation - the full annual computation plus this period's TDS.
// Estimated is true when the backing declaration is not yet verified; the
// engine recomputes once verification lands, never reusing stale deductions.
type Calculation struct {
	FinancialYear      string            `json:"financial_year"`
	Regime             string            `json:"regime"`
	Estimated          bool              `json:"estimated"`
	AnnualGross        decimal.Decimal   `json:"annual_gross"`
	Deductions         AllowedDeductions `json:"deductions"`
	TaxableIncome      decimal.Decimal   `json:"taxable_income"`
	SlabLines          []SlabLine        `json:"slab_lines"`
	TaxBeforeRebate    decimal.Decimal   `json:"tax_before_rebate"`
	Rebate             decimal.Decimal   `json:"rebate"`
	Surcharge          decimal.Decimal   `json:"surcharge"`
	Cess               decimal.Decimal   `json:"cess"`
	AnnualLiability    decimal.Decimal   `json:"annual_liability"`
	RemainingLiability decimal.Decimal   `json:"remaining_liability"`
	RemainingMonths    int               `json:"remaining_months"`
	MonthlyTds         decimal.Decimal   `json:"monthly_tds"` // this period's withholding
}

// Override - manual per-transaction TDS override. It supersedes the computed
// value for net pay only; the computed value is stored untouched.
type Override struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}
