package wagebase

import (
	"testing"

	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	require.NoError(t, err)
	return d
}

func component(code string, pf, esi, taxable, pt, prorate bool) salary.SalaryComponent {
	return salary.SalaryComponent{
		Code:           code,
		Name:           code,
		IsPfWage:       pf,
		IsEsiWage:      esi,
		IsTaxable:      taxable,
		IsPtWage:       pt,
		ApplyProration: prorate,
		ProrationBasis: salary.ProrationBasisWorkingDays,
		IsActive:       true,
	}
}

func fullMonth() salary.Attendance {
	return salary.Attendance{WorkingDays: 22, PresentDays: 22, CalendarDays: 31}
}

func TestResolveFlagsRouteComponents(t *testing.T) {
	r := NewResolver()

	components := []salary.ComponentAmount{
		{Component: component("BASIC", true, true, true, true, true), Amount: dec(t, "30000")},
		{Component: component("HRA", false, true, true, true, true), Amount: dec(t, "12000")},
		{Component: component("CONVEYANCE", false, true, false, true, true), Amount: dec(t, "1600")},
	}

	bases, err := r.Resolve(components, fullMonth())
	require.NoError(t, err)

	assert.Equal(t, "30000", bases.PfWage.String())
	assert.Equal(t, "43600", bases.EsiWage.String())
	assert.Equal(t, "42000", bases.TaxableWage.String())
	assert.Equal(t, "43600", bases.PtWage.String())
	assert.Equal(t, "43600", bases.GrossWage.String())
}

func TestResolveProratesByWorkingDays(t *testing.T) {
	r := NewResolver()

	components := []salary.ComponentAmount{
		{Component: component("BASIC", true, false, true, false, true), Amount: dec(t, "22000")},
	}
	att := salary.Attendance{WorkingDays: 22, PresentDays: 20, LOPDays: 2, CalendarDays: 31}

	bases, err := r.Resolve(components, att)
	require.NoError(t, err)

	assert.Equal(t, "20000", bases.PfWage.String())
	assert.Equal(t, "20000", bases.GrossWage.String())
}

func TestResolveProratesByCalendarDays(t *testing.T) {
	r := NewResolver()

	comp := component("BASIC", true, false, true, false, true)
	comp.ProrationBasis = salary.ProrationBasisCalendarDays
	components := []salary.ComponentAmount{
		{Component: comp, Amount: dec(t, "31000")},
	}
	att := salary.Attendance{WorkingDays: 22, PresentDays: 19, LOPDays: 3, CalendarDays: 31}

	bases, err := r.Resolve(components, att)
	require.NoError(t, err)

	// 31,000 * (31-3)/31 = 28,000
	assert.Equal(t, "28000", bases.PfWage.String())
}

func TestResolveSkipsProrationWhenNotFlagged(t *testing.T) {
	r := NewResolver()

	components := []salary.ComponentAmount{
		{Component: component("MEDICAL", false, false, true, false, false), Amount: dec(t, "1250")},
	}
	att := salary.Attendance{WorkingDays: 22, PresentDays: 11, LOPDays: 11, CalendarDays: 31}

	bases, err := r.Resolve(components, att)
	require.NoError(t, err)

	assert.Equal(t, "1250", bases.TaxableWage.String())
}

func TestResolveRoundsOnceAtBoundary(t *testing.T) {
	r := NewResolver()

	// Each prorated amount is 10,000/3 = 3,333.33...; summing first and
	// rounding once yields 6,666.67, not 3,333.33 + 3,333.33 = 6,666.66.
	components := []salary.ComponentAmount{
		{Component: component("A", true, false, false, false, true), Amount: dec(t, "10000")},
		{Component: component("B", true, false, false, false, true), Amount: dec(t, "10000")},
	}
	att := salary.Attendance{WorkingDays: 3, PresentDays: 1, CalendarDays: 31}

	bases, err := r.Resolve(components, att)
	require.NoError(t, err)

	assert.Equal(t, "6666.67", bases.PfWage.String())
}

func TestResolveAttendanceValidation(t *testing.T) {
	r := NewResolver()
	components := []salary.ComponentAmount{
		{Component: component("BASIC", true, false, true, false, true), Amount: dec(t, "10000")},
	}

	_, err := r.Resolve(components, salary.Attendance{WorkingDays: 0})
	assert.ErrorIs(t, err, salary.ErrZeroWorkingDays)

	_, err = r.Resolve(components, salary.Attendance{WorkingDays: 22, PresentDays: -1})
	assert.ErrorIs(t, err, salary.ErrNegativeAttendance)

	_, err = r.Resolve(components, salary.Attendance{WorkingDays: 22, PresentDays: 23})
	assert.ErrorIs(t, err, salary.ErrPresentExceedsWorked)
}

func TestProratedAmounts(t *testing.T) {
	r := NewResolver()

	components := []salary.ComponentAmount{
		{Component: component("BASIC", true, false, true, false, true), Amount: dec(t, "22000")},
		{Component: component("MEDICAL", false, false, true, false, false), Amount: dec(t, "1250")},
	}
	att := salary.Attendance{WorkingDays: 22, PresentDays: 20, LOPDays: 2, CalendarDays: 31}

	amounts, err := r.ProratedAmounts(components, att)
	require.NoError(t, err)

	assert.Equal(t, "20000", amounts["BASIC"].String())
	assert.Equal(t, "1250", amounts["MEDICAL"].String())
}

func TestAddSpecialAllowanceToPf(t *testing.T) {
	r := NewResolver()

	components := []salary.ComponentAmount{
		{Component: component("BASIC", true, true, true, true, true), Amount: dec(t, "30000")},
		{Component: component("SPECIAL_ALLOWANCE", false, true, true, true, true), Amount: dec(t, "8000")},
	}

	bases, err := r.Resolve(components, fullMonth())
	require.NoError(t, err)
	require.Equal(t, "30000", bases.PfWage.String())

	got := r.AddSpecialAllowanceToPf(bases, components, fullMonth())

	assert.Equal(t, "38000", got.PfWage.String())
	// The other bases already include the allowance.
	assert.Equal(t, bases.EsiWage.String(), got.EsiWage.String())
	assert.Equal(t, bases.GrossWage.String(), got.GrossWage.String())
	assert.Equal(t, bases.TaxableWage.String(), got.TaxableWage.String())
}

func TestAddSpecialAllowanceToPfProrates(t *testing.T) {
	r := NewResolver()

	components := []salary.ComponentAmount{
		{Component: component("SPECIAL_ALLOWANCE", false, false, true, false, true), Amount: dec(t, "11000")},
	}
	att := salary.Attendance{WorkingDays: 22, PresentDays: 20, LOPDays: 2, CalendarDays: 31}

	bases, err := r.Resolve(components, att)
	require.NoError(t, err)
	require.True(t, bases.PfWage.IsZero())

	got := r.AddSpecialAllowanceToPf(bases, components, att)

	assert.Equal(t, "10000", got.PfWage.String())
}

func TestAddSpecialAllowanceToPfNeverDoubleCounts(t *testing.T) {
	r := NewResolver()

	// Already flagged into the PF wage; the config switch must not add it
	// a second time.
	components := []salary.ComponentAmount{
		{Component: component("SPECIAL_ALLOWANCE", true, false, true, false, true), Amount: dec(t, "8000")},
	}

	bases, err := r.Resolve(components, fullMonth())
	require.NoError(t, err)
	require.Equal(t, "8000", bases.PfWage.String())

	got := r.AddSpecialAllowanceToPf(bases, components, fullMonth())

	assert.Equal(t, "8000", got.PfWage.String())
}

func TestAddComputedEarning(t *testing.T) {
	r := NewResolver()

	bases := salary.WageBases{
		PfWage:      dec(t, "15000"),
		EsiWage:     dec(t, "20000"),
		TaxableWage: dec(t, "20000"),
		GrossWage:   dec(t, "20000"),
	}

	got := r.AddComputedEarning(bases, dec(t, "2000"), true, false, true)

	assert.Equal(t, "17000", got.PfWage.String())
	assert.Equal(t, "20000", got.EsiWage.String())
	assert.Equal(t, "22000", got.TaxableWage.String())
	assert.Equal(t, "22000", got.GrossWage.String())
}
