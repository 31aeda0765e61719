package wagebase

import (
	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/paysutra/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// Resolver aggregates per-employee salary component amounts into the four
// statutory wage bases. Pure function of its inputs; safe to call from
// parallel per-employee goroutines.
type Resolver struct {
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve prorates each flagged component by attendance and sums it into
// every wage base its flags name. Sums run at full precision; rounding
// happens once, at the output boundary.
func (r *Resolver) Resolve(components []salary.ComponentAmount, att salary.Attendance) (salary.WageBases, error) {
	if err := validateAttendance(att); err != nil {
		return salary.WageBases{}, err
	}

	var pf, esi, taxable, pt, gross decimal.Decimal

	for _, ca := range components {
		amount := ca.Amount
		if ca.Component.ApplyProration {
			amount = prorate(amount, ca.Component.ProrationBasis, att)
		}

		gross = gross.Add(amount)
		if ca.Component.IsPfWage {
			pf = pf.Add(amount)
		}
		if ca.Component.IsEsiWage {
			esi = esi.Add(amount)
		}
		if ca.Component.IsTaxable {
			taxable = taxable.Add(amount)
		}
		if ca.Component.IsPtWage {
			pt = pt.Add(amount)
		}
	}

	return salary.WageBases{
		PfWage:      money.Round(pf),
		EsiWage:     money.Round(esi),
		TaxableWage: money.Round(taxable),
		PtWage:      money.Round(pt),
		GrossWage:   money.Round(gross),
	}, nil
}

// ProratedAmounts returns each component's post-proration amount keyed by
// component code, the values rule formulas see for the period.
func (r *Resolver) ProratedAmounts(components []salary.ComponentAmount, att salary.Attendance) (map[string]decimal.Decimal, error) {
	if err := validateAttendance(att); err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(components))
	for _, ca := range components {
		amount := ca.Amount
		if ca.Component.ApplyProration {
			amount = prorate(amount, ca.Component.ProrationBasis, att)
		}
		out[ca.Component.Code] = amount
	}
	return out, nil
}

// specialAllowanceCode is the conventional component code for the residual
// allowance some companies include in the PF wage.
const specialAllowanceCode = "SPECIAL_ALLOWANCE"

// AddSpecialAllowanceToPf folds the prorated special allowance component into
// the PF wage, for companies whose PF config includes it. A component already
// flagged as PF wage is left alone so it never counts twice. The other bases
// are untouched. Call after Resolve, on the same component set.
func (r *Resolver) AddSpecialAllowanceToPf(bases salary.WageBases, components []salary.ComponentAmount, att salary.Attendance) salary.WageBases {
	for _, ca := range components {
		if ca.Component.Code != specialAllowanceCode || ca.Component.IsPfWage {
			continue
		}
		amount := ca.Amount
		if ca.Component.ApplyProration {
			amount = prorate(amount, ca.Component.ProrationBasis, att)
		}
		bases.PfWage = money.Round(bases.PfWage.Add(amount))
	}
	return bases
}

// AddComputedEarning folds an engine-computed earning back into the bases it
// affects (e.g. a special allowance included in PF wage). Used after rule
// evaluation, before the statutory calculators run.
func (r *Resolver) AddComputedEarning(bases salary.WageBases, amount decimal.Decimal, affectsPf, affectsEsi, taxable bool) salary.WageBases {
	bases.GrossWage = money.Round(bases.GrossWage.Add(amount))
	if affectsPf {
		bases.PfWage = money.Round(bases.PfWage.Add(amount))
	}
	if affectsEsi {
		bases.EsiWage = money.Round(bases.EsiWage.Add(amount))
	}
	if taxable {
		bases.TaxableWage = money.Round(bases.TaxableWage.Add(amount))
	}
	return bases
}

func prorate(amount decimal.Decimal, basis salary.ProrationBasis, att salary.Attendance) decimal.Decimal {
	var paid, total int
	switch basis {
	case salary.ProrationBasisCalendarDays:
		total = att.CalendarDays
		paid = att.CalendarDays - att.LOPDays
	default:
		total = att.WorkingDays
		paid = att.PresentDays
	}
	if total == 0 {
		return decimal.Zero
	}
	if paid > total {
		paid = total
	}
	return amount.Mul(decimal.NewFromInt(int64(paid))).Div(decimal.NewFromInt(int64(total)))
}

func validateAttendance(att salary.Attendance) error {
	if att.WorkingDays <= 0 {
		return salary.ErrZeroWorkingDays
	}
	if att.PresentDays < 0 || att.LOPDays < 0 {
		return salary.ErrNegativeAttendance
	}
	if att.PresentDays > att.WorkingDays {
		return salary.ErrPresentExceedsWorked
	}
	return nil
}
