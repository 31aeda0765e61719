package statutory

import (
	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// EsiCalculator computes employee state insurance contributions. Stateless.
type EsiCalculator struct {
}

func NewEsiCalculator() *EsiCalculator {
	return &EsiCalculator{}
}

// EsiInput - the ESI wage base for the period plus the half-year eligibility
// flag. Eligibility is decided against the ceiling at the start of the
// statutory contribution half-year (April and October); once in, the employee
// keeps contributing for the rest of that half-year even if the wage later
// crosses the ceiling. The flag is therefore an input, not recomputed here.
type EsiInput struct {
	EsiWage                 decimal.Decimal
	EligibleAtHalfYearStart bool
}

// Calculate returns flat-percentage contributions on the ESI wage base, or a
// non-applicable breakdown when the employee was outside the ceiling at the
// half-year start.
func (c *EsiCalculator) Calculate(in EsiInput, cfg statutory.EsiConfig) statutory.EsiBreakdown {
	if !in.EligibleAtHalfYearStart {
		return statutory.EsiBreakdown{Applicable: false}
	}

	return statutory.EsiBreakdown{
		Applicable:           true,
		WageBase:             money.Round(in.EsiWage),
		EmployeeContribution: money.Round(money.Percent(in.EsiWage, cfg.EmployeeRate)),
		EmployerContribution: money.Round(money.Percent(in.EsiWage, cfg.EmployerRate)),
	}
}

// EligibleAtStart is the half-year admission test: gross within the ceiling
// when the contribution period opened. Callers persist the outcome on the
// employee and feed it back via EsiInput for the rest of the half-year.
func (c *EsiCalculator) EligibleAtStart(grossAtStart decimal.Decimal, cfg statutory.EsiConfig) bool {
	return grossAtStart.LessThanOrEqual(cfg.WageCeiling)
}
