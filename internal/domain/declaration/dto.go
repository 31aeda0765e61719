package declaration

import (
	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateDeclarationRequest struct {
	EmployeeID    string `json:"-"`
	FinancialYear string `json:"financial_year"`
	Regime        string `json:"regime"`
}

func (r *CreateDeclarationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidFinancialYear(r.FinancialYear) {
		errs = append(errs, validator.ValidationError{Field: "financial_year", Message: "must look like '2024-25'"})
	}
	if r.Regime != string(RegimeOld) && r.Regime != string(RegimeNew) {
		errs = append(errs, validator.ValidationError{Field: "regime", Message: "must be 'old' or 'new'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateDeclarationRequest - declared amounts; only valid while in draft.
type UpdateDeclarationRequest struct {
	ID               string
	Regime           *string           `json:"regime,omitempty"`
	Section80C       *Section80C       `json:"section_80c,omitempty"`
	Section80CCD1B   *decimal.Decimal  `json:"section_80ccd_1b,omitempty"`
	Section80D       *Section80D       `json:"section_80d,omitempty"`
	Section80E       *decimal.Decimal  `json:"section_80e,omitempty"`
	Section24        *decimal.Decimal  `json:"section_24,omitempty"`
	Section80G       *decimal.Decimal  `json:"section_80g,omitempty"`
	Section80TTA     *decimal.Decimal  `json:"section_80tta,omitempty"`
	Hra              *HraDetail        `json:"hra,omitempty"`
	PreviousEmployer *PreviousEmployer `json:"previous_employer,omitempty"`
}

func (r *UpdateDeclarationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Regime != nil && *r.Regime != string(RegimeOld) && *r.Regime != string(RegimeNew) {
		errs = append(errs, validator.ValidationError{Field: "regime", Message: "must be 'old' or 'new'"})
	}
	for field, amount := range map[string]*decimal.Decimal{
		"section_80ccd_1b": r.Section80CCD1B,
		"section_80e":      r.Section80E,
		"section_24":       r.Section24,
		"section_80g":      r.Section80G,
		"section_80tta":    r.Section80TTA,
	} {
		if amount != nil && amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}
	if r.Hra != nil {
		if r.Hra.MonthlyRent.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "hra.monthly_rent", Message: "must be non-negative"})
		}
		if r.Hra.LandlordPAN != "" && !validator.IsValidPAN(r.Hra.LandlordPAN) {
			errs = append(errs, validator.ValidationError{Field: "hra.landlord_pan", Message: "must be a valid PAN"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TransitionRequest drives the lifecycle state machine.
type TransitionRequest struct {
	ID     string
	Action string  `json:"action"`
	Actor  string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

func (r *TransitionRequest) Validate() error {
	var errs validator.ValidationErrors

	switch Action(r.Action) {
	case ActionSubmit, ActionVerify, ActionReject, ActionRevise, ActionLock:
	default:
		errs = append(errs, validator.ValidationError{Field: "action", Message: "must be 'submit', 'verify', 'reject', 'revise' or 'lock'"})
	}
	if Action(r.Action) == ActionReject && (r.Reason == nil || validator.IsEmpty(*r.Reason)) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required when rejecting"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DeclarationResponse struct {
	ID               string            `json:"id"`
	EmployeeID       string            `json:"employee_id"`
	FinancialYear    string            `json:"financial_year"`
	Regime           string            `json:"regime"`
	Section80C       Section80C        `json:"section_80c"`
	Section80CCD1B   decimal.Decimal   `json:"section_80ccd_1b"`
	Section80D       Section80D        `json:"section_80d"`
	Section80E       decimal.Decimal   `json:"section_80e"`
	Section24        decimal.Decimal   `json:"section_24"`
	Section80G       decimal.Decimal   `json:"section_80g"`
	Section80TTA     decimal.Decimal   `json:"section_80tta"`
	Hra              *HraDetail        `json:"hra,omitempty"`
	PreviousEmployer *PreviousEmployer `json:"previous_employer,omitempty"`
	Status           string            `json:"status"`
	RevisionCount    int               `json:"revision_count"`
	RejectionReason  *string           `json:"rejection_reason,omitempty"`
	Locked           bool              `json:"locked"`
}
