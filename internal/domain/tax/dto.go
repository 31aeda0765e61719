package tax

import (
	"github.com/paysutra/payroll-backend-go/internal/domain/declaration"
	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// UpsertScheduleRequest replaces the regime schedule for one financial year.
// Schedules change once per Finance Act, so a full replace beats field merging.
type UpsertScheduleRequest struct {
	FinancialYear     string          `json:"financial_year"`
	Regime            string          `json:"regime"`
	Slabs             []Slab          `json:"slabs"`
	StandardDeduction decimal.Decimal `json:"standard_deduction"`
	RebateThreshold   decimal.Decimal `json:"rebate_threshold"`
	RebateCap         decimal.Decimal `json:"rebate_cap"`
	SurchargeBands    []SurchargeBand `json:"surcharge_bands"`
	CessRate          decimal.Decimal `json:"cess_rate"`
}

func (r UpsertScheduleRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidFinancialYear(r.FinancialYear) {
		errs = append(errs, validator.ValidationError{Field: "financial_year", Message: "must look like 2024-25"})
	}
	if regime := declaration.Regime(r.Regime); regime != declaration.RegimeNew && regime != declaration.RegimeOld {
		errs = append(errs, validator.ValidationError{Field: "regime", Message: "must be new or old"})
	}
	if len(r.Slabs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "slabs", Message: "at least one slab is required"})
	}
	prev := decimal.NewFromInt(-1)
	for i, s := range r.Slabs {
		if s.Rate.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "slabs", Message: "rate must not be negative at index " + validator.Itoa(i)})
		}
		if s.Min.LessThanOrEqual(prev) {
			errs = append(errs, validator.ValidationError{Field: "slabs", Message: "minimums must be strictly ascending at index " + validator.Itoa(i)})
		}
		if s.Max != nil && s.Max.LessThanOrEqual(s.Min) {
			errs = append(errs, validator.ValidationError{Field: "slabs", Message: "max must exceed min at index " + validator.Itoa(i)})
		}
		prev = s.Min
	}
	if r.CessRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "cess_rate", Message: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
