package statutory

import (
	"time"

	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// PtCalculator computes state professional tax from an effective-dated slab
// table. Stateless; slabs are pre-fetched for the employee's work state.
type PtCalculator struct {
}

func NewPtCalculator() *PtCalculator {
	return &PtCalculator{}
}

// Calculate picks the slab whose monthly-income range covers ptWage. States
// in the no-PT list return zero unconditionally. Several states levy an
// annual top-up in February; a slab may carry a distinct February amount.
func (c *PtCalculator) Calculate(stateCode string, ptWage decimal.Decimal, slabs []statutory.PtSlab, noPtStates []string, asOfDate time.Time) (statutory.PtBreakdown, error) {
	for _, s := range noPtStates {
		if s == stateCode {
			return statutory.PtBreakdown{StateCode: stateCode, Amount: decimal.Zero}, nil
		}
	}

	for _, slab := range slabs {
		if !slabActiveOn(slab, asOfDate) {
			continue
		}
		if ptWage.LessThan(slab.MinMonthly) {
			continue
		}
		if slab.MaxMonthly != nil && ptWage.GreaterThan(*slab.MaxMonthly) {
			continue
		}

		amount := slab.Amount
		if asOfDate.Month() == time.February && slab.FebruaryAmount != nil {
			amount = *slab.FebruaryAmount
		}
		return statutory.PtBreakdown{StateCode: stateCode, Amount: money.Round(amount)}, nil
	}

	return statutory.PtBreakdown{}, statutory.ErrNoSlabForState
}

func slabActiveOn(slab statutory.PtSlab, on time.Time) bool {
	if on.Before(slab.EffectiveFrom) {
		return false
	}
	if slab.EffectiveTo != nil && on.After(*slab.EffectiveTo) {
		return false
	}
	return true
}
