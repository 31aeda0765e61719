package tax

import (
	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/paysutra/payroll-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	tenPercent   = decimal.NewFromInt(10)
	fiftyPercent = decimal.NewFromInt(50)
	fortyPercent = decimal.NewFromInt(40)
	twelve       = decimal.NewFromInt(12)
)

// allowedDeductions applies the statutory caps to the declared amounts.
// Only the old regime consumes these; the new regime keeps the standard
// deduction and nothing else. A nil declaration yields zero deductions.
func allowedDeductions(d *declaration.Declaration, caps tax.DeductionCaps, annualBasic, annualHra decimal.Decimal) tax.AllowedDeductions {
	if d == nil {
		return tax.AllowedDeductions{}
	}

	var out tax.AllowedDeductions
	out.Section80C = money.Min(d.Section80C.Total(), caps.Section80C)
	out.Section80CCD1B = money.Min(d.Section80CCD1B, caps.Section80CCD1B)
	out.Section80D = allowed80D(d.Section80D, caps)
	out.Section80E = d.Section80E
	out.Section24 = money.Min(d.Section24, caps.Section24)
	out.Section80G = d.Section80G
	out.Section80TTA = money.Min(d.Section80TTA, caps.Section80TTA)
	out.HraExemption = hraExemption(d.Hra, annualBasic, annualHra)
	return out
}

func allowed80D(s declaration.Section80D, caps tax.DeductionCaps) decimal.Decimal {
	selfCap := caps.Section80DSelf
	if s.SelfSeniorCitizen {
		selfCap = caps.Section80DSelfSr
	}
	parentCap := caps.Section80DParents
	if s.ParentSeniorCitizen {
		parentCap = caps.Section80DParentsSr
	}
	return money.Min(s.SelfAndFamily, selfCap).Add(money.Min(s.Parents, parentCap))
}

// hraExemption is the least of: HRA actually received, rent paid minus 10%
// of basic, and 50% (metro) or 40% (non-metro) of basic. Floored at zero so
// low rent never produces a negative exemption.
func hraExemption(h *declaration.HraDetail, annualBasic, annualHra decimal.Decimal) decimal.Decimal {
	if h == nil || h.MonthlyRent.IsZero() || annualHra.IsZero() {
		return decimal.Zero
	}
	annualRent := h.MonthlyRent.Mul(twelve)
	rentLessBasic := annualRent.Sub(money.Percent(annualBasic, tenPercent))
	basicShare := money.Percent(annualBasic, fortyPercent)
	if h.IsMetroCity {
		basicShare = money.Percent(annualBasic, fiftyPercent)
	}
	return money.FloorZero(money.Min(annualHra, money.Min(rentLessBasic, basicShare)))
}
