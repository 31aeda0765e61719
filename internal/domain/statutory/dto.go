package statutory

import (
	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpdatePfConfigRequest struct {
	Mode                    *string          `json:"mode,omitempty"`
	WageCeiling             *decimal.Decimal `json:"wage_ceiling,omitempty"`
	EmployeeRate            *decimal.Decimal `json:"employee_rate,omitempty"`
	EmployerRate            *decimal.Decimal `json:"employer_rate,omitempty"`
	PensionRate             *decimal.Decimal `json:"pension_rate,omitempty"`
	AdminChargeRate         *decimal.Decimal `json:"admin_charge_rate,omitempty"`
	EdliChargeRate          *decimal.Decimal `json:"edli_charge_rate,omitempty"`
	IncludeSpecialAllowance *bool            `json:"include_special_allowance,omitempty"`
}

func validRate(d *decimal.Decimal) bool {
	return d == nil || (!d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100)))
}

func (r *UpdatePfConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Mode != nil {
		switch PfMode(*r.Mode) {
		case PfModeCeilingBased, PfModeActualWage, PfModeRestricted:
		default:
			errs = append(errs, validator.ValidationError{Field: "mode", Message: "must be 'ceiling_based', 'actual_wage' or 'restricted_pf'"})
		}
	}
	if r.WageCeiling != nil && r.WageCeiling.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "wage_ceiling", Message: "must be non-negative"})
	}
	for field, rate := range map[string]*decimal.Decimal{
		"employee_rate":     r.EmployeeRate,
		"employer_rate":     r.EmployerRate,
		"pension_rate":      r.PensionRate,
		"admin_charge_rate": r.AdminChargeRate,
		"edli_charge_rate":  r.EdliChargeRate,
	} {
		if !validRate(rate) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be between 0 and 100"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEsiConfigRequest struct {
	WageCeiling  *decimal.Decimal `json:"wage_ceiling,omitempty"`
	EmployeeRate *decimal.Decimal `json:"employee_rate,omitempty"`
	EmployerRate *decimal.Decimal `json:"employer_rate,omitempty"`
}

func (r *UpdateEsiConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WageCeiling != nil && r.WageCeiling.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "wage_ceiling", Message: "must be non-negative"})
	}
	if !validRate(r.EmployeeRate) {
		errs = append(errs, validator.ValidationError{Field: "employee_rate", Message: "must be between 0 and 100"})
	}
	if !validRate(r.EmployerRate) {
		errs = append(errs, validator.ValidationError{Field: "employer_rate", Message: "must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreatePtSlabRequest struct {
	StateCode      string           `json:"state_code"`
	MinMonthly     decimal.Decimal  `json:"min_monthly"`
	MaxMonthly     *decimal.Decimal `json:"max_monthly,omitempty"`
	Amount         decimal.Decimal  `json:"amount"`
	FebruaryAmount *decimal.Decimal `json:"february_amount,omitempty"`
	EffectiveFrom  string           `json:"effective_from"`
	EffectiveTo    *string          `json:"effective_to,omitempty"`
}

func (r *CreatePtSlabRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidStateCode(r.StateCode) {
		errs = append(errs, validator.ValidationError{Field: "state_code", Message: "must be a two-letter state code"})
	}
	if r.MinMonthly.IsNegative() || r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "amounts must be non-negative"})
	}
	if r.MaxMonthly != nil && r.MaxMonthly.LessThan(r.MinMonthly) {
		errs = append(errs, validator.ValidationError{Field: "max_monthly", Message: "must not be below min_monthly"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
