package salary

import (
	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== COMPONENT DTOs ==========

type CreateComponentRequest struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	IsPfWage       bool   `json:"is_pf_wage"`
	IsEsiWage      bool   `json:"is_esi_wage"`
	IsTaxable      bool   `json:"is_taxable"`
	IsPtWage       bool   `json:"is_pt_wage"`
	ApplyProration bool   `json:"apply_proration"`
	ProrationBasis string `json:"proration_basis,omitempty"`
	DisplayOrder   int    `json:"display_order"`
}

func (r *CreateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidComponentCode(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be uppercase letters, digits and underscores"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.ApplyProration {
		switch ProrationBasis(r.ProrationBasis) {
		case ProrationBasisCalendarDays, ProrationBasisWorkingDays:
		default:
			errs = append(errs, validator.ValidationError{Field: "proration_basis", Message: "must be 'calendar_days' or 'working_days'"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateComponentRequest struct {
	ID             string
	Name           *string `json:"name,omitempty"`
	IsPfWage       *bool   `json:"is_pf_wage,omitempty"`
	IsEsiWage      *bool   `json:"is_esi_wage,omitempty"`
	IsTaxable      *bool   `json:"is_taxable,omitempty"`
	IsPtWage       *bool   `json:"is_pt_wage,omitempty"`
	ApplyProration *bool   `json:"apply_proration,omitempty"`
	ProrationBasis *string `json:"proration_basis,omitempty"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

type ComponentResponse struct {
	ID             string  `json:"id"`
	CompanyID      *string `json:"company_id,omitempty"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	IsPfWage       bool    `json:"is_pf_wage"`
	IsEsiWage      bool    `json:"is_esi_wage"`
	IsTaxable      bool    `json:"is_taxable"`
	IsPtWage       bool    `json:"is_pt_wage"`
	ApplyProration bool    `json:"apply_proration"`
	ProrationBasis string  `json:"proration_basis,omitempty"`
	IsActive       bool    `json:"is_active"`
}

// ========== STRUCTURE DTOs ==========

type CreateStructureRequest struct {
	EmployeeID        string          `json:"employee_id"`
	AnnualCTC         decimal.Decimal `json:"annual_ctc"`
	MonthlyBasic      decimal.Decimal `json:"monthly_basic"`
	MonthlyHRA        decimal.Decimal `json:"monthly_hra"`
	MonthlyDA         decimal.Decimal `json:"monthly_da"`
	MonthlyAllowances decimal.Decimal `json:"monthly_allowances"`
	MonthlyLTA        decimal.Decimal `json:"monthly_lta"`
	MonthlyBonus      decimal.Decimal `json:"monthly_bonus"`
	EmployerPF        decimal.Decimal `json:"employer_pf"`
	EmployerESI       decimal.Decimal `json:"employer_esi"`
	Gratuity          decimal.Decimal `json:"gratuity"`
	EffectiveFrom     string          `json:"effective_from"`
}

func (r *CreateStructureRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.AnnualCTC.IsNegative() || r.MonthlyBasic.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "annual_ctc", Message: "amounts must be non-negative"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
