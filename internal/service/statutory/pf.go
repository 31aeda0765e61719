package statutory

import (
	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// PfCalculator computes provident fund contributions. Stateless.
type PfCalculator struct {
}

func NewPfCalculator() *PfCalculator {
	return &PfCalculator{}
}

// PfInput - the employee-side facts the calculation needs.
type PfInput struct {
	PfWage          decimal.Decimal // Basic + DA (+ special allowance if configured)
	RestrictedOptIn bool            // employee-level opt-in for restricted_pf
}

// Calculate applies the company's PF mode and rates. In ceiling_based mode
// the wage base is capped at the statutory ceiling; actual_wage uses the full
// wage; restricted_pf caps as well but only for employees who opted in.
// The employer share splits into pension (capped at PensionRate of the capped
// base) and EPF (the remainder); admin and EDLI charges use the same base.
func (c *PfCalculator) Calculate(in PfInput, cfg statutory.PfConfig) (statutory.PfBreakdown, error) {
	base := in.PfWage

	switch cfg.Mode {
	case statutory.PfModeCeilingBased:
		base = money.Min(base, cfg.WageCeiling)
	case statutory.PfModeActualWage:
		// no cap
	case statutory.PfModeRestricted:
		if !in.RestrictedOptIn {
			return statutory.PfBreakdown{}, statutory.ErrRestrictedPfNoOptIn
		}
		base = money.Min(base, cfg.WageCeiling)
	}

	employee := money.Percent(base, cfg.EmployeeRate)
	employer := money.Percent(base, cfg.EmployerRate)

	// Pension is statutorily computed on the ceiling-capped base even in
	// actual_wage mode.
	pensionBase := money.Min(base, cfg.WageCeiling)
	pension := money.Round(money.Percent(pensionBase, cfg.PensionRate))
	employerTotal := money.Round(employer)
	if pension.GreaterThan(employerTotal) {
		pension = employerTotal
	}
	// EPF takes the remainder after rounding so the split always sums to the
	// employer total exactly.
	epf := employerTotal.Sub(pension)

	return statutory.PfBreakdown{
		WageBase:             money.Round(base),
		EmployeeContribution: money.Round(employee),
		EmployerPension:      pension,
		EmployerEPF:          epf,
		AdminCharges:         money.Round(money.Percent(base, cfg.AdminChargeRate)),
		EdliCharges:          money.Round(money.Percent(pensionBase, cfg.EdliChargeRate)),
	}, nil
}
