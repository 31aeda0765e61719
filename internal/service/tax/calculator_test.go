package tax

import (
	"testing"

	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/paysutra/payroll-backend-go/internal/fixtures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	require.NoError(t, err)
	return d
}

func newRegimeInput(t *testing.T, annualGross string) tax.Input {
	return tax.Input{
		FinancialYear: "2024-25",
		PeriodIndex:   0,
		AnnualGross:   dec(t, annualGross),
		Schedule:      fixtures.DefaultRegimeSchedule("2024-25", declaration.RegimeNew),
		Caps:          fixtures.DefaultDeductionCaps(),
	}
}

func TestCalculateNewRegimeRebate(t *testing.T) {
	c := NewCalculator()

	// 750,000 gross less 75,000 standard deduction leaves 675,000,
	// under the 700,000 rebate threshold, so the 18,750 slab tax is
	// wiped by the 87A rebate.
	calc, err := c.Calculate(newRegimeInput(t, "750000"))
	require.NoError(t, err)

	assert.Equal(t, "675000", calc.TaxableIncome.String())
	assert.Equal(t, "18750", calc.TaxBeforeRebate.String())
	assert.Equal(t, "18750", calc.Rebate.String())
	assert.Equal(t, "0", calc.AnnualLiability.String())
	assert.Equal(t, "0", calc.MonthlyTds.String())
	assert.True(t, calc.Estimated)
}

func TestCalculateNewRegimeSlabWalk(t *testing.T) {
	c := NewCalculator()

	calc, err := c.Calculate(newRegimeInput(t, "1500000"))
	require.NoError(t, err)

	// taxable 1,425,000: 20,000 + 30,000 + 30,000 + 45,000 = 125,000,
	// plus 4% cess.
	assert.Equal(t, "1425000", calc.TaxableIncome.String())
	assert.Equal(t, "125000", calc.TaxBeforeRebate.String())
	assert.Equal(t, "0", calc.Rebate.String())
	assert.Equal(t, "5000", calc.Cess.String())
	assert.Equal(t, "130000", calc.AnnualLiability.String())
	assert.Equal(t, "10833.33", calc.MonthlyTds.String())
	assert.Len(t, calc.SlabLines, 4)
}

func TestCalculateSurcharge(t *testing.T) {
	c := NewCalculator()

	calc, err := c.Calculate(newRegimeInput(t, "6075000"))
	require.NoError(t, err)

	// taxable 6,000,000 clears the 5,000,000 band: 10% surcharge on
	// the 1,490,000 slab tax.
	assert.Equal(t, "6000000", calc.TaxableIncome.String())
	assert.Equal(t, "1490000", calc.TaxBeforeRebate.String())
	assert.Equal(t, "149000", calc.Surcharge.String())
	assert.Equal(t, "1704560", calc.AnnualLiability.String())
}

func TestCalculateOldRegimeDeductions(t *testing.T) {
	c := NewCalculator()

	decl := &declaration.Declaration{
		Regime: declaration.RegimeOld,
		Status: declaration.StatusVerified,
		Section80C: declaration.Section80C{
			PPF:  dec(t, "120000"),
			ELSS: dec(t, "80000"), // pooled 200,000, capped at 150,000
		},
		Hra: &declaration.HraDetail{
			MonthlyRent: dec(t, "20000"),
			IsMetroCity: true,
		},
	}

	in := tax.Input{
		FinancialYear:     "2024-25",
		PeriodIndex:       0,
		AnnualGross:       dec(t, "1200000"),
		AnnualBasic:       dec(t, "480000"),
		AnnualHraReceived: dec(t, "240000"),
		Declaration:       decl,
		Schedule:          fixtures.DefaultRegimeSchedule("2024-25", declaration.RegimeOld),
		Caps:              fixtures.DefaultDeductionCaps(),
	}

	calc, err := c.Calculate(in)
	require.NoError(t, err)

	// HRA exemption is min(240,000 received, 240,000-48,000 rent test,
	// 240,000 metro share) = 192,000.
	assert.Equal(t, "150000", calc.Deductions.Section80C.String())
	assert.Equal(t, "192000", calc.Deductions.HraExemption.String())

	// 1,200,000 - 50,000 SD - 342,000 deductions = 808,000 taxable;
	// 12,500 + 61,600 slab tax, 4% cess.
	assert.Equal(t, "808000", calc.TaxableIncome.String())
	assert.Equal(t, "74100", calc.TaxBeforeRebate.String())
	assert.Equal(t, "77064", calc.AnnualLiability.String())
	assert.Equal(t, "6422", calc.MonthlyTds.String())
	assert.False(t, calc.Estimated)
}

func TestCalculateNewRegimeIgnoresDeclaredDeductions(t *testing.T) {
	c := NewCalculator()

	in := newRegimeInput(t, "1500000")
	in.Declaration = &declaration.Declaration{
		Regime:     declaration.RegimeNew,
		Status:     declaration.StatusVerified,
		Section80C: declaration.Section80C{PPF: dec(t, "150000")},
	}

	calc, err := c.Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, "0", calc.Deductions.Total().String())
	assert.Equal(t, "1425000", calc.TaxableIncome.String())
	assert.False(t, calc.Estimated)
}

func TestCalculateFinalPeriodAbsorbsRemainder(t *testing.T) {
	c := NewCalculator()

	in := newRegimeInput(t, "1500000")
	in.PeriodIndex = 11
	in.TdsAlreadyWithheld = dec(t, "119166.63") // 11 months at 10,833.33

	calc, err := c.Calculate(in)
	require.NoError(t, err)

	// March takes whatever is left so the year reconciles exactly.
	assert.Equal(t, 1, calc.RemainingMonths)
	assert.Equal(t, "10833.37", calc.MonthlyTds.String())
	assert.Equal(t, "10833.37", calc.RemainingLiability.String())
}

func TestCalculatePreviousEmployerCarryIn(t *testing.T) {
	c := NewCalculator()

	in := newRegimeInput(t, "600000")
	in.PeriodIndex = 6
	in.PreviousEmployerIncome = dec(t, "900000")
	in.PreviousEmployerTDS = dec(t, "30000")

	calc, err := c.Calculate(in)
	require.NoError(t, err)

	// Prior income raises the projection to 1,500,000; prior TDS
	// reduces what is left to withhold.
	assert.Equal(t, "1500000", calc.AnnualGross.String())
	assert.Equal(t, "130000", calc.AnnualLiability.String())
	assert.Equal(t, "100000", calc.RemainingLiability.String())
	assert.Equal(t, 6, calc.RemainingMonths)
	assert.Equal(t, "16666.67", calc.MonthlyTds.String())
}

func TestCalculateNeverNegative(t *testing.T) {
	c := NewCalculator()

	in := newRegimeInput(t, "1500000")
	in.TdsAlreadyWithheld = dec(t, "500000") // over-withheld earlier in the year

	calc, err := c.Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, "0", calc.RemainingLiability.String())
	assert.Equal(t, "0", calc.MonthlyTds.String())
}

func TestCalculateInvalidInputs(t *testing.T) {
	c := NewCalculator()

	in := newRegimeInput(t, "500000")
	in.PeriodIndex = 12
	_, err := c.Calculate(in)
	assert.ErrorIs(t, err, tax.ErrInvalidPeriod)

	in = newRegimeInput(t, "500000")
	in.Schedule.Slabs = nil
	_, err = c.Calculate(in)
	assert.ErrorIs(t, err, tax.ErrScheduleNotFound)
}

func TestMonthlyTdsReconciles(t *testing.T) {
	remaining := dec(t, "130000")
	monthly := monthlyTds(remaining, 12, 0)
	require.NoError(t, reconciles(remaining, monthly, 12))

	// Final-month share = remaining - 11 equal shares must stay positive.
	lastShare := remaining.Sub(monthly.Mul(decimal.NewFromInt(11)))
	assert.Equal(t, "10833.37", lastShare.String())
}
