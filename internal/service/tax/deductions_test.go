package tax

import (
	"testing"

	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/fixtures"
	"github.com/stretchr/testify/assert"
)

func TestHraExemptionMinOfThree(t *testing.T) {
	basic := dec(t, "480000")
	hra := dec(t, "240000")

	cases := []struct {
		name        string
		monthlyRent string
		metro       bool
		want        string
	}{
		// rent minus 10% of basic binds: 240,000 - 48,000
		{"metro rent binds", "20000", true, "192000"},
		// 40% of basic binds for non-metro high rent
		{"non-metro basic share binds", "40000", false, "192000"},
		// hra received binds when rent is very high in a metro
		{"hra received binds", "45000", true, "240000"},
		// rent below 10% of basic floors at zero
		{"low rent floors at zero", "3000", true, "0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := &declaration.HraDetail{MonthlyRent: dec(t, c.monthlyRent), IsMetroCity: c.metro}
			got := hraExemption(h, basic, hra)
			assert.Equal(t, c.want, got.String())
		})
	}
}

func TestHraExemptionRequiresRentAndHra(t *testing.T) {
	basic := dec(t, "480000")

	assert.Equal(t, "0", hraExemption(nil, basic, dec(t, "240000")).String())

	h := &declaration.HraDetail{MonthlyRent: dec(t, "0")}
	assert.Equal(t, "0", hraExemption(h, basic, dec(t, "240000")).String())

	h = &declaration.HraDetail{MonthlyRent: dec(t, "20000")}
	assert.Equal(t, "0", hraExemption(h, basic, dec(t, "0")).String())
}

func TestAllowed80DSeniorCaps(t *testing.T) {
	caps := fixtures.DefaultDeductionCaps()

	s := declaration.Section80D{
		SelfAndFamily: dec(t, "40000"),
		Parents:       dec(t, "60000"),
	}
	assert.Equal(t, "50000", allowed80D(s, caps).String()) // 25,000 + 25,000

	s.SelfSeniorCitizen = true
	assert.Equal(t, "65000", allowed80D(s, caps).String()) // 40,000 + 25,000

	s.ParentSeniorCitizen = true
	assert.Equal(t, "90000", allowed80D(s, caps).String()) // 40,000 + 50,000
}

func TestAllowedDeductionsCapsAndPassthrough(t *testing.T) {
	caps := fixtures.DefaultDeductionCaps()
	d := &declaration.Declaration{
		Section80C:     declaration.Section80C{PPF: dec(t, "200000")},
		Section80CCD1B: dec(t, "80000"),
		Section80E:     dec(t, "90000"), // uncapped
		Section24:      dec(t, "250000"),
		Section80G:     dec(t, "30000"), // uncapped
		Section80TTA:   dec(t, "15000"),
	}

	got := allowedDeductions(d, caps, dec(t, "480000"), dec(t, "0"))

	assert.Equal(t, "150000", got.Section80C.String())
	assert.Equal(t, "50000", got.Section80CCD1B.String())
	assert.Equal(t, "90000", got.Section80E.String())
	assert.Equal(t, "200000", got.Section24.String())
	assert.Equal(t, "30000", got.Section80G.String())
	assert.Equal(t, "10000", got.Section80TTA.String())
}

func TestAllowedDeductionsNilDeclaration(t *testing.T) {
	got := allowedDeductions(nil, fixtures.DefaultDeductionCaps(), dec(t, "480000"), dec(t, "240000"))
	assert.True(t, got.Total().IsZero())
}
