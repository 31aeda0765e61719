package rule

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/paysutra/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// EvaluatedLine is one computed earning/deduction produced by the engine.
type EvaluatedLine struct {
	RuleID         string          `json:"rule_id"`
	RuleCode       string          `json:"rule_code"`
	ComponentType  ComponentType   `json:"component_type"`
	BaseAmount     decimal.Decimal `json:"base_amount"`
	Rate           decimal.Decimal `json:"rate"`
	ComputedAmount decimal.Decimal `json:"computed_amount"`
	IsTaxable      bool            `json:"is_taxable"`
	AffectsPfWage  bool            `json:"affects_pf_wage"`
	AffectsEsiWage bool            `json:"affects_esi_wage"`
	ConfigVersion  int             `json:"config_version"`
	ConfigSnapshot json.RawMessage `json:"config_snapshot"`
}

// TraceStep is one intermediate result of a dry run.
type TraceStep struct {
	Expression string          `json:"expression"`
	Value      decimal.Decimal `json:"value"`
}

// DryRunResult - computed line plus the step-by-step trace; nothing persisted.
type DryRunResult struct {
	Matched bool           `json:"matched"`
	Line    *EvaluatedLine `json:"line,omitempty"`
	Trace   []TraceStep    `json:"trace,omitempty"`
}

// ========== RULE DTOs ==========

type ConditionRequest struct {
	Group    int            `json:"group"`
	Field    string         `json:"field"`
	Operator string         `json:"operator"`
	Value    ConditionValue `json:"value"`
}

type CreateRuleRequest struct {
	ComponentCode    string             `json:"component_code"`
	ComponentType    string             `json:"component_type"`
	RuleType         string             `json:"rule_type"`
	Formula          FormulaConfig      `json:"formula"`
	Priority         int                `json:"priority"`
	EffectiveFrom    string             `json:"effective_from"`
	EffectiveTo      *string            `json:"effective_to,omitempty"`
	IsTaxable        bool               `json:"is_taxable"`
	AffectsPfWage    bool               `json:"affects_pf_wage"`
	AffectsEsiWage   bool               `json:"affects_esi_wage"`
	StopOnFirstMatch bool               `json:"stop_on_first_match"`
	Conditions       []ConditionRequest `json:"conditions,omitempty"`
}

var validOperators = []string{
	string(OperatorEquals), string(OperatorIn), string(OperatorGte),
	string(OperatorLte), string(OperatorContains), string(OperatorBetween),
}

func (r *CreateRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidComponentCode(r.ComponentCode) {
		errs = append(errs, validator.ValidationError{Field: "component_code", Message: "must be uppercase letters, digits and underscores"})
	}
	switch ComponentType(r.ComponentType) {
	case ComponentTypeEarning, ComponentTypeDeduction, ComponentTypeEmployerContribution:
	default:
		errs = append(errs, validator.ValidationError{Field: "component_type", Message: "must be 'earning', 'deduction' or 'employer_contribution'"})
	}
	switch RuleType(r.RuleType) {
	case RuleTypeFlat, RuleTypePercentage, RuleTypeFormula, RuleTypeSlab:
	default:
		errs = append(errs, validator.ValidationError{Field: "rule_type", Message: "must be 'flat', 'percentage', 'formula' or 'slab'"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveFrom); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if r.EffectiveTo != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveTo); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "must be a valid date (YYYY-MM-DD)"})
		}
	}
	for i, c := range r.Conditions {
		if validator.IsEmpty(c.Field) {
			errs = append(errs, validator.ValidationError{Field: "conditions", Message: "condition field is required"})
		}
		if !validator.IsInSlice(c.Operator, validOperators) {
			errs = append(errs, validator.ValidationError{Field: "conditions", Message: "unknown operator at index " + validator.Itoa(i)})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToRule builds the entity; formula validity is checked separately so the
// engine error (ErrInvalidFormula and friends) reaches the caller intact.
func (r *CreateRuleRequest) ToRule(companyID string) (CalculationRule, error) {
	from, _ := validator.IsValidDate(r.EffectiveFrom)
	var to *time.Time
	if r.EffectiveTo != nil {
		t, _ := validator.IsValidDate(*r.EffectiveTo)
		to = &t
	}

	rule := CalculationRule{
		CompanyID:        companyID,
		ComponentCode:    r.ComponentCode,
		ComponentType:    ComponentType(r.ComponentType),
		RuleType:         RuleType(r.RuleType),
		Formula:          r.Formula,
		Priority:         r.Priority,
		EffectiveFrom:    from,
		EffectiveTo:      to,
		IsActive:         true,
		IsTaxable:        r.IsTaxable,
		AffectsPfWage:    r.AffectsPfWage,
		AffectsEsiWage:   r.AffectsEsiWage,
		StopOnFirstMatch: r.StopOnFirstMatch,
		Version:          1,
	}
	for _, c := range r.Conditions {
		rule.Conditions = append(rule.Conditions, Condition{
			Group:    c.Group,
			Field:    c.Field,
			Operator: Operator(c.Operator),
			Value:    c.Value,
		})
	}

	if err := rule.ValidateFormula(); err != nil {
		return CalculationRule{}, err
	}
	return rule, nil
}

type UpdateRuleRequest struct {
	ID               string
	Formula          *FormulaConfig     `json:"formula,omitempty"`
	Priority         *int               `json:"priority,omitempty"`
	EffectiveTo      *string            `json:"effective_to,omitempty"`
	IsActive         *bool              `json:"is_active,omitempty"`
	IsTaxable        *bool              `json:"is_taxable,omitempty"`
	AffectsPfWage    *bool              `json:"affects_pf_wage,omitempty"`
	AffectsEsiWage   *bool              `json:"affects_esi_wage,omitempty"`
	StopOnFirstMatch *bool              `json:"stop_on_first_match,omitempty"`
	Conditions       []ConditionRequest `json:"conditions,omitempty"`
}

type RuleResponse struct {
	ID               string             `json:"id"`
	CompanyID        string             `json:"company_id"`
	ComponentCode    string             `json:"component_code"`
	ComponentType    string             `json:"component_type"`
	RuleType         string             `json:"rule_type"`
	Formula          FormulaConfig      `json:"formula"`
	Priority         int                `json:"priority"`
	EffectiveFrom    string             `json:"effective_from"`
	EffectiveTo      *string            `json:"effective_to,omitempty"`
	IsActive         bool               `json:"is_active"`
	IsTaxable        bool               `json:"is_taxable"`
	AffectsPfWage    bool               `json:"affects_pf_wage"`
	AffectsEsiWage   bool               `json:"affects_esi_wage"`
	StopOnFirstMatch bool               `json:"stop_on_first_match"`
	Version          int                `json:"version"`
	Conditions       []ConditionRequest `json:"conditions,omitempty"`
}

// ========== DRY RUN DTOs ==========

// DryRunRequest carries a draft rule plus sample variable values; used for
// rule authoring so a misconfigured formula never reaches a payroll run.
type DryRunRequest struct {
	Rule    CreateRuleRequest          `json:"rule"`
	PayDate string                     `json:"pay_date"`
	Numbers map[string]decimal.Decimal `json:"numbers,omitempty"`
	Strings map[string]string          `json:"strings,omitempty"`
	Flags   map[string]bool            `json:"flags,omitempty"`
}

func (r *DryRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.PayDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "pay_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if err := r.Rule.Validate(); err != nil {
		var inner validator.ValidationErrors
		if errors.As(err, &inner) {
			errs = append(errs, inner...)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== VARIABLE DTOs ==========

type CreateVariableRequest struct {
	Name    string           `json:"name"`
	Type    string           `json:"type"`
	Source  string           `json:"source"`
	Default *decimal.Decimal `json:"default,omitempty"`
}

func (r *CreateVariableRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	switch VariableType(r.Type) {
	case VariableTypeDecimal, VariableTypeInteger, VariableTypeBoolean, VariableTypeDate:
	default:
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'decimal', 'integer', 'boolean' or 'date'"})
	}
	switch VariableSource(r.Source) {
	case VariableSourceEmployeeProfile, VariableSourceSalaryStructure, VariableSourceAttendance, VariableSourceSystemConstant:
	default:
		errs = append(errs, validator.ValidationError{Field: "source", Message: "must be a known variable source"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type VariableResponse struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Type    string           `json:"type"`
	Source  string           `json:"source"`
	Default *decimal.Decimal `json:"default,omitempty"`
}
