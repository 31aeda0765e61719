package payroll

import (
	"testing"

	"github.com/paysutra/payroll-backend-go/internal/domain/payroll"
	"github.com/paysutra/payroll-backend-go/internal/domain/rule"
	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/paysutra/payroll-backend-go/internal/fixtures"
	statutorysvc "github.com/paysutra/payroll-backend-go/internal/service/statutory"
	"github.com/paysutra/payroll-backend-go/internal/service/wagebase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	require.NoError(t, err)
	return d
}

func TestFiscalPeriod(t *testing.T) {
	tests := []struct {
		name        string
		month, year int
		wantIndex   int
		wantFyStart int
	}{
		{"april opens the fiscal year", 4, 2024, 0, 2024},
		{"december", 12, 2024, 8, 2024},
		{"january belongs to the prior start year", 1, 2025, 9, 2024},
		{"march closes the fiscal year", 3, 2025, 11, 2024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, fyStart := fiscalPeriod(tt.month, tt.year)
			assert.Equal(t, tt.wantIndex, idx)
			assert.Equal(t, tt.wantFyStart, fyStart)
		})
	}
}

func TestEsiEligibilityReEvaluatedAtHalfYearStart(t *testing.T) {
	s := &PayrollServiceImpl{esi: statutorysvc.NewEsiCalculator()}
	cfg := fixtures.DefaultEsiConfig("comp-1")

	// Mid half-year months keep the stored flag whatever the gross does.
	eligible, changed := s.esiEligibilityFor(7, true, dec(t, "30000"), cfg)
	assert.True(t, eligible)
	assert.False(t, changed)

	eligible, changed = s.esiEligibilityFor(12, false, dec(t, "18000"), cfg)
	assert.False(t, eligible)
	assert.False(t, changed)

	// April admits an employee whose gross fell within the ceiling.
	eligible, changed = s.esiEligibilityFor(4, false, dec(t, "18000"), cfg)
	assert.True(t, eligible)
	assert.True(t, changed)

	// October drops one whose gross crossed it.
	eligible, changed = s.esiEligibilityFor(10, true, dec(t, "30000"), cfg)
	assert.False(t, eligible)
	assert.True(t, changed)

	// Re-evaluation that matches the stored flag needs no write.
	eligible, changed = s.esiEligibilityFor(4, true, dec(t, "18000"), cfg)
	assert.True(t, eligible)
	assert.False(t, changed)
}

// Mirrors the calculation pipeline's PF wage assembly: the company config
// switch pulls the special allowance into the PF wage and the contribution
// moves with it.
func TestPfContributionFollowsIncludeSpecialAllowance(t *testing.T) {
	resolver := wagebase.NewResolver()
	pf := statutorysvc.NewPfCalculator()
	att := salary.Attendance{WorkingDays: 22, PresentDays: 22, CalendarDays: 31}
	components := []salary.ComponentAmount{
		{Component: salary.SalaryComponent{Code: "BASIC", IsPfWage: true, IsTaxable: true}, Amount: dec(t, "10000")},
		{Component: salary.SalaryComponent{Code: "SPECIAL_ALLOWANCE", IsTaxable: true}, Amount: dec(t, "4000")},
	}

	cfg := testRunConfig()
	require.False(t, cfg.pfCfg.IncludeSpecialAllowance)

	bases, err := resolver.Resolve(components, att)
	require.NoError(t, err)
	without, err := pf.Calculate(statutorysvc.PfInput{PfWage: bases.PfWage}, cfg.pfCfg)
	require.NoError(t, err)
	assert.Equal(t, "10000", without.WageBase.String())
	assert.Equal(t, "1200", without.EmployeeContribution.String())

	cfg.pfCfg.IncludeSpecialAllowance = true
	bases = resolver.AddSpecialAllowanceToPf(bases, components, att)
	with, err := pf.Calculate(statutorysvc.PfInput{PfWage: bases.PfWage}, cfg.pfCfg)
	require.NoError(t, err)
	assert.Equal(t, "14000", with.WageBase.String())
	assert.Equal(t, "1680", with.EmployeeContribution.String())
}

func testRunConfig() runConfig {
	return runConfig{
		pfCfg:  fixtures.DefaultPfConfig("comp-1"),
		esiCfg: fixtures.DefaultEsiConfig("comp-1"),
	}
}

func testBases() salary.WageBases {
	gross, _ := decimal.NewFromString("50000")
	pf, _ := decimal.NewFromString("30000")
	return salary.WageBases{
		PfWage:      pf,
		EsiWage:     gross,
		TaxableWage: gross,
		PtWage:      gross,
		GrossWage:   gross,
	}
}

func testStatutory(t *testing.T) (statutory.PfBreakdown, statutory.EsiBreakdown, statutory.PtBreakdown, tax.Calculation) {
	t.Helper()
	pfB := statutory.PfBreakdown{
		WageBase:             dec(t, "15000"),
		EmployeeContribution: dec(t, "1800"),
		EmployerPension:      dec(t, "1249.5"),
		EmployerEPF:          dec(t, "550.5"),
		AdminCharges:         dec(t, "75"),
		EdliCharges:          dec(t, "75"),
	}
	esiB := statutory.EsiBreakdown{
		Applicable:           true,
		WageBase:             dec(t, "18000"),
		EmployeeContribution: dec(t, "135"),
		EmployerContribution: dec(t, "585"),
	}
	ptB := statutory.PtBreakdown{StateCode: "MH", Amount: dec(t, "200")}
	tdsCalc := tax.Calculation{
		TaxableIncome: dec(t, "525000"),
		MonthlyTds:    dec(t, "1500"),
	}
	return pfB, esiB, ptB, tdsCalc
}

func TestAssembleTransactionTotalsDeriveFromLines(t *testing.T) {
	att := salary.Attendance{WorkingDays: 22, PresentDays: 22, CalendarDays: 31}
	bases := testBases()
	pfB, esiB, ptB, tdsCalc := testStatutory(t)
	ruleLines := []rule.EvaluatedLine{
		{
			RuleCode:       "SPECIAL_ALLOWANCE",
			ComponentType:  rule.ComponentTypeEarning,
			BaseAmount:     dec(t, "30000"),
			Rate:           dec(t, "10"),
			ComputedAmount: dec(t, "3000"),
			ConfigVersion:  2,
		},
	}

	trx, err := assembleTransaction("run-1", "comp-1", "emp-1", 7, 2024, att, bases, ruleLines, pfB, esiB, ptB, tdsCalc, testRunConfig())
	require.NoError(t, err)

	assert.Equal(t, "run-1", trx.RunID)
	assert.Equal(t, payroll.TransactionStatusDraft, trx.Status)
	assert.Equal(t, 1, trx.Version)
	assert.Equal(t, 22, trx.WorkingDays)

	// The first line folds the prorated salary components into one earning,
	// gross minus what the engine contributed.
	require.NotEmpty(t, trx.Lines)
	base := trx.Lines[0]
	assert.Equal(t, payroll.LineTypeEarning, base.LineType)
	assert.Equal(t, "SALARY_COMPONENTS", base.RuleCode)
	assert.Equal(t, "47000", base.ComputedAmount.String())

	assert.Equal(t, "50000", trx.GrossEarnings.String())
	assert.Equal(t, trx.GrossEarnings.String(), trx.SumLines(payroll.LineTypeEarning).String())

	// 1800 PF + 135 ESI + 200 PT + 1500 TDS
	assert.Equal(t, "3635", trx.TotalDeductions.String())
	// 1249.5 + 550.5 + 75 + 75 PF side, 585 ESI
	assert.Equal(t, "2535", trx.EmployerContributions.String())
	assert.Equal(t, "46365", trx.NetPayable.String())
	assert.Equal(t, "1500", trx.ComputedTds.String())

	require.NoError(t, checkLineTotals(trx))
}

func TestAssembleTransactionStatutoryLineShapes(t *testing.T) {
	att := salary.Attendance{WorkingDays: 22, PresentDays: 22, CalendarDays: 31}
	pfB, esiB, ptB, tdsCalc := testStatutory(t)

	trx, err := assembleTransaction("run-1", "comp-1", "emp-1", 7, 2024, att, testBases(), nil, pfB, esiB, ptB, tdsCalc, testRunConfig())
	require.NoError(t, err)

	byCode := map[string]payroll.CalculationLine{}
	for _, l := range trx.Lines {
		byCode[l.RuleCode] = l
	}
	require.Contains(t, byCode, linePfEmployee)
	require.Contains(t, byCode, linePfPension)
	require.Contains(t, byCode, linePfEpf)
	require.Contains(t, byCode, linePfAdmin)
	require.Contains(t, byCode, linePfEdli)
	require.Contains(t, byCode, lineEsiEmployee)
	require.Contains(t, byCode, lineEsiEmployer)
	require.Contains(t, byCode, linePt)
	require.Contains(t, byCode, lineTds)

	assert.Equal(t, payroll.LineTypeDeduction, byCode[linePfEmployee].LineType)
	assert.Equal(t, "15000", byCode[linePfEmployee].BaseAmount.String())
	assert.Equal(t, "12", byCode[linePfEmployee].Rate.String())
	assert.NotEmpty(t, byCode[linePfEmployee].ConfigSnapshot)

	// EPF rate is the employer share net of the pension carve-out.
	assert.Equal(t, payroll.LineTypeEmployerContribution, byCode[linePfEpf].LineType)
	assert.Equal(t, "3.67", byCode[linePfEpf].Rate.String())

	assert.Equal(t, payroll.LineTypeDeduction, byCode[lineTds].LineType)
	assert.Equal(t, "525000", byCode[lineTds].BaseAmount.String())
	assert.NotEmpty(t, byCode[lineTds].ConfigSnapshot)

	// With no engine lines the base earning carries the whole gross.
	assert.Equal(t, "50000", trx.Lines[0].ComputedAmount.String())
}

func TestAssembleTransactionSkipsInapplicableStatutory(t *testing.T) {
	att := salary.Attendance{WorkingDays: 22, PresentDays: 22, CalendarDays: 31}
	pfB := statutory.PfBreakdown{}
	esiB := statutory.EsiBreakdown{Applicable: false}
	ptB := statutory.PtBreakdown{StateCode: "DL"}
	tdsCalc := tax.Calculation{}

	trx, err := assembleTransaction("run-1", "comp-1", "emp-1", 7, 2024, att, testBases(), nil, pfB, esiB, ptB, tdsCalc, testRunConfig())
	require.NoError(t, err)

	require.Len(t, trx.Lines, 1)
	assert.Equal(t, "SALARY_COMPONENTS", trx.Lines[0].RuleCode)
	assert.True(t, trx.TotalDeductions.IsZero())
	assert.Equal(t, trx.GrossEarnings.String(), trx.NetPayable.String())
	require.NoError(t, checkLineTotals(trx))
}

func TestCheckLineTotalsDetectsTampering(t *testing.T) {
	att := salary.Attendance{WorkingDays: 22, PresentDays: 22, CalendarDays: 31}
	pfB, esiB, ptB, tdsCalc := testStatutory(t)

	t.Run("line amount drifted", func(t *testing.T) {
		trx, err := assembleTransaction("run-1", "comp-1", "emp-1", 7, 2024, att, testBases(), nil, pfB, esiB, ptB, tdsCalc, testRunConfig())
		require.NoError(t, err)
		trx.Lines[1].ComputedAmount = trx.Lines[1].ComputedAmount.Add(dec(t, "0.01"))
		assert.ErrorIs(t, checkLineTotals(trx), payroll.ErrLineTotalMismatch)
	})

	t.Run("net not gross minus deductions", func(t *testing.T) {
		trx, err := assembleTransaction("run-1", "comp-1", "emp-1", 7, 2024, att, testBases(), nil, pfB, esiB, ptB, tdsCalc, testRunConfig())
		require.NoError(t, err)
		trx.NetPayable = trx.NetPayable.Add(dec(t, "1"))
		assert.ErrorIs(t, checkLineTotals(trx), payroll.ErrLineTotalMismatch)
	})
}

func TestToTransactionResponseOverrideDelta(t *testing.T) {
	trx := payroll.Transaction{
		ID:              "trx-1",
		GrossEarnings:   dec(t, "50000"),
		TotalDeductions: dec(t, "3635"),
		NetPayable:      dec(t, "46365"),
		ComputedTds:     dec(t, "1500"),
		Status:          payroll.TransactionStatusDraft,
	}

	resp := toTransactionResponse(trx, false)
	assert.Equal(t, "3635", resp.TotalDeductions.String())
	assert.Equal(t, "46365", resp.NetPayable.String())

	trx.TdsOverride = &tax.Override{Amount: dec(t, "1000"), Reason: "prior employer proof accepted"}
	resp = toTransactionResponse(trx, false)
	assert.Equal(t, "3135", resp.TotalDeductions.String())
	assert.Equal(t, "46865", resp.NetPayable.String())
	// The stored computed value is presented untouched alongside the override.
	assert.Equal(t, "1500", resp.ComputedTds.String())
	require.NotNil(t, resp.TdsOverride)
	assert.Equal(t, "1000", resp.TdsOverride.Amount.String())
}

func TestToTransactionResponseLines(t *testing.T) {
	trx := payroll.Transaction{
		ID:          "trx-1",
		ComputedTds: decimal.Zero,
		Lines: []payroll.CalculationLine{
			{ID: "l-1", LineType: payroll.LineTypeEarning, RuleCode: "SALARY_COMPONENTS", ComputedAmount: dec(t, "50000")},
			{ID: "l-2", LineType: payroll.LineTypeDeduction, RuleCode: linePt, ComputedAmount: dec(t, "200"), ConfigVersion: 3},
		},
	}

	assert.Empty(t, toTransactionResponse(trx, false).Lines)

	resp := toTransactionResponse(trx, true)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "earning", resp.Lines[0].LineType)
	assert.Equal(t, 3, resp.Lines[1].ConfigVersion)
}
