package payroll

import (
	"github.com/paysutra/payroll-backend-go/internal/domain/salary"
	"github.com/paysutra/payroll-backend-go/internal/domain/statutory"
	"github.com/paysutra/payroll-backend-go/internal/domain/tax"
	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GenerateRunRequest struct {
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty = all active employees
}

func (r *GenerateRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2020 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TdsOverrideRequest struct {
	TransactionID string
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
}

func (r *TdsOverrideRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LineResponse struct {
	ID             string          `json:"id"`
	LineType       string          `json:"line_type"`
	RuleCode       string          `json:"rule_code"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	Rate           decimal.Decimal `json:"rate"`
	ComputedAmount decimal.Decimal `json:"computed_amount"`
	ConfigVersion  int             `json:"config_version"`
}

type TransactionResponse struct {
	ID                    string                  `json:"id"`
	RunID                 string                  `json:"run_id"`
	EmployeeID            string                  `json:"employee_id"`
	PeriodMonth           int                     `json:"period_month"`
	PeriodYear            int                     `json:"period_year"`
	WorkingDays           int                     `json:"working_days"`
	PresentDays           int                     `json:"present_days"`
	LOPDays               int                     `json:"lop_days"`
	WageBases             salary.WageBases        `json:"wage_bases"`
	GrossEarnings         decimal.Decimal         `json:"gross_earnings"`
	TotalDeductions       decimal.Decimal         `json:"total_deductions"`
	EmployerContributions decimal.Decimal         `json:"employer_contributions"`
	NetPayable            decimal.Decimal         `json:"net_payable"`
	Pf                    *statutory.PfBreakdown  `json:"pf,omitempty"`
	Esi                   *statutory.EsiBreakdown `json:"esi,omitempty"`
	Pt                    *statutory.PtBreakdown  `json:"pt,omitempty"`
	ComputedTds           decimal.Decimal         `json:"computed_tds"`
	TdsOverride           *tax.Override           `json:"tds_override,omitempty"`
	Status                string                  `json:"status"`
	Lines                 []LineResponse          `json:"lines,omitempty"`
}

type RunResponse struct {
	ID           string                `json:"id"`
	PeriodMonth  int                   `json:"period_month"`
	PeriodYear   int                   `json:"period_year"`
	Status       string                `json:"status"`
	Transactions []TransactionResponse `json:"transactions,omitempty"`
	Failures     []EmployeeFailure     `json:"failures,omitempty"`
}

type TransactionFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Status      *string `json:"status,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
}
