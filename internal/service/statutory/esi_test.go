package statutory

import (
	"testing"

	"github.com/paysutra/payroll-backend-go/internal/fixtures"
	"github.com/stretchr/testify/assert"
)

func TestEsiContributions(t *testing.T) {
	c := NewEsiCalculator()
	cfg := fixtures.DefaultEsiConfig("company-1")

	got := c.Calculate(EsiInput{EsiWage: dec(t, "18000"), EligibleAtHalfYearStart: true}, cfg)

	assert.True(t, got.Applicable)
	assert.Equal(t, "18000", got.WageBase.String())
	assert.Equal(t, "135", got.EmployeeContribution.String())
	assert.Equal(t, "585", got.EmployerContribution.String())
}

func TestEsiUsesEsiWageBase(t *testing.T) {
	c := NewEsiCalculator()
	cfg := fixtures.DefaultEsiConfig("company-1")

	// An excluded component (e.g. a washing allowance) keeps the ESI wage
	// below the gross; contributions run on the ESI wage only.
	got := c.Calculate(EsiInput{EsiWage: dec(t, "16000"), EligibleAtHalfYearStart: true}, cfg)

	assert.Equal(t, "16000", got.WageBase.String())
	assert.Equal(t, "120", got.EmployeeContribution.String())
	assert.Equal(t, "520", got.EmployerContribution.String())
}

func TestEsiNotApplicable(t *testing.T) {
	c := NewEsiCalculator()
	cfg := fixtures.DefaultEsiConfig("company-1")

	got := c.Calculate(EsiInput{EsiWage: dec(t, "18000")}, cfg)

	assert.False(t, got.Applicable)
	assert.True(t, got.EmployeeContribution.IsZero())
}

func TestEsiStickyWithinHalfYear(t *testing.T) {
	c := NewEsiCalculator()
	cfg := fixtures.DefaultEsiConfig("company-1")

	// Admitted at 20,000 in April; a mid-period raise past the ceiling
	// keeps contributions running on the new, higher wage.
	assert.True(t, c.EligibleAtStart(dec(t, "20000"), cfg))

	got := c.Calculate(EsiInput{EsiWage: dec(t, "25000"), EligibleAtHalfYearStart: true}, cfg)
	assert.True(t, got.Applicable)
	assert.Equal(t, "25000", got.WageBase.String())
	assert.Equal(t, "187.5", got.EmployeeContribution.String())
}

func TestEsiEligibilityBoundary(t *testing.T) {
	c := NewEsiCalculator()
	cfg := fixtures.DefaultEsiConfig("company-1")

	assert.True(t, c.EligibleAtStart(dec(t, "21000"), cfg))
	assert.False(t, c.EligibleAtStart(dec(t, "21000.01"), cfg))
}
