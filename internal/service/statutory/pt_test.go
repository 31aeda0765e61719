package statutory

import (
	"testing"
	"time"

	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ptEffectiveFrom = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

func ptSlabsFor(state string) []statutory.PtSlab {
	var out []statutory.PtSlab
	for _, s := range fixtures.DefaultPtSlabs(ptEffectiveFrom) {
		if s.StateCode == state {
			out = append(out, s)
		}
	}
	return out
}

func TestPtSlabMatch(t *testing.T) {
	c := NewPtCalculator()
	slabs := ptSlabsFor("MH")
	july := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		wage string
		want string
	}{
		{"5000", "0"},
		{"8000", "175"},
		{"25000", "200"},
	}
	for _, tc := range cases {
		got, err := c.Calculate("MH", dec(t, tc.wage), slabs, nil, july)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Amount.String(), "wage %s", tc.wage)
	}
}

func TestPtFebruaryTopUp(t *testing.T) {
	c := NewPtCalculator()
	slabs := ptSlabsFor("MH")
	february := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	got, err := c.Calculate("MH", dec(t, "25000"), slabs, nil, february)
	require.NoError(t, err)
	assert.Equal(t, "300", got.Amount.String())

	// Lower slabs without a February amount are unchanged.
	got, err = c.Calculate("MH", dec(t, "8000"), slabs, nil, february)
	require.NoError(t, err)
	assert.Equal(t, "175", got.Amount.String())
}

func TestPtExemptState(t *testing.T) {
	c := NewPtCalculator()
	july := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)

	got, err := c.Calculate("DL", dec(t, "50000"), nil, fixtures.NoPtStates(), july)
	require.NoError(t, err)
	assert.True(t, got.Amount.IsZero())
}

func TestPtNoSlabForState(t *testing.T) {
	c := NewPtCalculator()
	july := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)

	_, err := c.Calculate("TN", dec(t, "20000"), nil, fixtures.NoPtStates(), july)
	assert.ErrorIs(t, err, statutory.ErrNoSlabForState)
}

func TestPtEffectiveDating(t *testing.T) {
	c := NewPtCalculator()
	slabs := ptSlabsFor("KA")
	beforeEffective := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	_, err := c.Calculate("KA", dec(t, "30000"), slabs, nil, beforeEffective)
	assert.ErrorIs(t, err, statutory.ErrNoSlabForState)

	after := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	got, err := c.Calculate("KA", dec(t, "30000"), slabs, nil, after)
	require.NoError(t, err)
	assert.Equal(t, "200", got.Amount.String())
}
