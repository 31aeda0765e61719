package tax

import (
	"fmt"

	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/paysutra/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

const monthsInYear = 12

// Calculator projects the annual income-tax liability and derives this
// period's TDS withholding. It is pure computation; the service layer
// fetches the schedule, caps and declaration before calling it.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Calculate(in tax.Input) (tax.Calculation, error) {
	if in.PeriodIndex < 0 || in.PeriodIndex >= monthsInYear {
		return tax.Calculation{}, fmt.Errorf("%w: period index %d", tax.ErrInvalidPeriod, in.PeriodIndex)
	}
	if len(in.Schedule.Slabs) == 0 {
		return tax.Calculation{}, fmt.Errorf("%w: %s/%s", tax.ErrScheduleNotFound, in.FinancialYear, in.Schedule.Regime)
	}

	gross := in.AnnualGross.Add(in.PreviousEmployerIncome)

	var deductions tax.AllowedDeductions
	if in.Schedule.Regime == declaration.RegimeOld {
		deductions = allowedDeductions(in.Declaration, in.Caps, in.AnnualBasic, in.AnnualHraReceived)
	}

	taxable := money.FloorZero(gross.Sub(in.Schedule.StandardDeduction).Sub(deductions.Total()))

	lines, taxBeforeRebate := slabTax(in.Schedule.Slabs, taxable)

	rebate := decimal.Zero
	if taxable.LessThanOrEqual(in.Schedule.RebateThreshold) {
		rebate = money.Min(taxBeforeRebate, in.Schedule.RebateCap)
	}
	afterRebate := taxBeforeRebate.Sub(rebate)

	surcharge := surchargeOn(afterRebate, taxable, in.Schedule.SurchargeBands)
	cess := money.Percent(afterRebate.Add(surcharge), in.Schedule.CessRate)

	annual := money.Round(afterRebate.Add(surcharge).Add(cess))
	remaining := money.FloorZero(annual.Sub(in.PreviousEmployerTDS).Sub(in.TdsAlreadyWithheld))

	remainingMonths := monthsInYear - in.PeriodIndex
	monthly := monthlyTds(remaining, remainingMonths, in.PeriodIndex)
	if err := reconciles(remaining, monthly, remainingMonths); err != nil {
		return tax.Calculation{}, err
	}

	return tax.Calculation{
		FinancialYear:      in.FinancialYear,
		Regime:             string(in.Schedule.Regime),
		Estimated:          in.Declaration == nil || in.Declaration.Status != declaration.StatusVerified,
		AnnualGross:        gross,
		Deductions:         deductions,
		TaxableIncome:      taxable,
		SlabLines:          lines,
		TaxBeforeRebate:    money.Round(taxBeforeRebate),
		Rebate:             money.Round(rebate),
		Surcharge:          money.Round(surcharge),
		Cess:               money.Round(cess),
		AnnualLiability:    annual,
		RemainingLiability: remaining,
		RemainingMonths:    remainingMonths,
		MonthlyTds:         monthly,
	}, nil
}

// slabTax walks the brackets in order, taxing the slice of taxable income
// that falls inside each. Brackets with no income in them are skipped.
func slabTax(slabs []tax.Slab, taxable decimal.Decimal) ([]tax.SlabLine, decimal.Decimal) {
	var lines []tax.SlabLine
	total := decimal.Zero
	for _, s := range slabs {
		if taxable.LessThanOrEqual(s.Min) {
			break
		}
		upper := taxable
		if s.Max != nil && upper.GreaterThan(*s.Max) {
			upper = *s.Max
		}
		amount := upper.Sub(s.Min)
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		lineTax := money.Percent(amount, s.Rate)
		lines = append(lines, tax.SlabLine{Slab: s, Amount: amount, Tax: lineTax})
		total = total.Add(lineTax)
	}
	return lines, total
}

// surchargeOn picks the highest band the taxable income clears. Bands are
// stored descending by threshold so the first match wins.
func surchargeOn(taxAfterRebate, taxable decimal.Decimal, bands []tax.SurchargeBand) decimal.Decimal {
	for _, b := range bands {
		if taxable.GreaterThan(b.Threshold) {
			return money.Percent(taxAfterRebate, b.Rate)
		}
	}
	return decimal.Zero
}

// monthlyTds spreads the remaining liability over the months left in the
// year. Every month withholds the rounded equal share except March, which
// absorbs the rounding remainder so the year's withholding reconciles to
// the annual liability exactly.
func monthlyTds(remaining decimal.Decimal, remainingMonths, periodIndex int) decimal.Decimal {
	if periodIndex == monthsInYear-1 {
		// Final period: remaining already excludes earlier withholdings,
		// so whatever is left is this month's TDS.
		return remaining
	}
	return money.Round(remaining.Div(decimal.NewFromInt(int64(remainingMonths))))
}

// reconciles checks that the projected schedule, equal rounded shares with
// the last month absorbing the remainder, sums back to the remaining
// liability to the paisa.
func reconciles(remaining, monthly decimal.Decimal, remainingMonths int) error {
	if remainingMonths == 1 {
		if !monthly.Equal(remaining) {
			return fmt.Errorf("%w: %s withheld vs %s due", tax.ErrRoundingReconciliation, monthly.String(), remaining.String())
		}
		return nil
	}
	n := decimal.NewFromInt(int64(remainingMonths - 1))
	lastShare := remaining.Sub(monthly.Mul(n))
	if lastShare.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: schedule over-withholds by %s", tax.ErrRoundingReconciliation, lastShare.Neg().String())
	}
	return nil
}
